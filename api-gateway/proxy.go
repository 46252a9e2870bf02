package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"taskboard/backend/logging"
	"taskboard/backend/utils"
)

// reverseProxy forwards to target unchanged apart from the identity headers, which are always
// rebuilt from the verified identity in the request context.
func reverseProxy(service string, target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			utils.StripIdentity(pr.Out.Header)
			if id, ok := utils.IdentityFromContext(pr.In.Context()); ok {
				id.Apply(pr.Out.Header)
			}
		},
		// The gateway owns CORS for the browser.
		ModifyResponse: func(resp *http.Response) error {
			for key := range resp.Header {
				if strings.HasPrefix(key, "Access-Control-") {
					resp.Header.Del(key)
				}
			}
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.Logger.Errorf("Event ID: PROXY_ERROR, Description: %s %s -> %s: %v", r.Method, r.URL.Path, service, err)
			message := service + " unavailable"
			if err != nil && err.Error() != "" {
				message = err.Error()
			}
			utils.WriteError(w, utils.NewUnavailable(message))
		},
	}
}
