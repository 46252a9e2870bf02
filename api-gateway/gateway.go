package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"taskboard/backend/config"
	"taskboard/backend/utils"
)

const serviceName = "api-gateway"

type gateway struct {
	verifier tokenVerifier
	signer   *utils.AssertionSigner
	login    *ipRateLimiter
	proxies  map[string]http.Handler
}

// newGateway builds one reverse proxy per backend service. signer may be nil.
func newGateway(cfg *config.Config, verifier tokenVerifier, signer *utils.AssertionSigner) (*gateway, error) {
	targets := map[string]string{
		"users-service":         cfg.UsersServiceURL,
		"projects-service":      cfg.ProjectsServiceURL,
		"tasks-service":         cfg.TasksServiceURL,
		"comments-service":      cfg.CommentsServiceURL,
		"notifications-service": cfg.NotificationsServiceURL,
		"api-composer-service":  cfg.ComposerServiceURL,
	}

	proxies := make(map[string]http.Handler, len(targets))
	for service, raw := range targets {
		target, err := url.Parse(raw)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("invalid %s url %q", service, raw)
		}
		proxies[service] = reverseProxy(service, target)
	}

	return &gateway{
		verifier: verifier,
		signer:   signer,
		login:    newIPRateLimiter(cfg.LoginRateLimit),
		proxies:  proxies,
	}, nil
}

func (g *gateway) router() *mux.Router {
	r := utils.NewServiceRouter(serviceName)

	users := g.proxies["users-service"]
	auth := r.PathPrefix("/auth").Subrouter()
	auth.Handle("/register", users).Methods(http.MethodPost)
	auth.Handle("/login", g.login.middleware(users)).Methods(http.MethodPost)
	auth.Handle("/logout", users).Methods(http.MethodPost)
	auth.Handle("/profile", g.authMiddleware(http.HandlerFunc(g.profile))).Methods(http.MethodGet)
	auth.Handle("/users", g.authMiddleware(users)).Methods(http.MethodGet)
	auth.Handle("/user/{id}", g.authMiddleware(users)).Methods(http.MethodGet)

	// Notifications are only created by the comment fan-out.
	r.Handle("/notifications", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, http.StatusMethodNotAllowed, utils.ErrorBody{Message: "Method not allowed"})
	})).Methods(http.MethodPost)

	for prefix, service := range map[string]string{
		"/projects":      "projects-service",
		"/tasks":         "tasks-service",
		"/comments":      "comments-service",
		"/notifications": "notifications-service",
		"/board":         "api-composer-service",
	} {
		h := g.authMiddleware(g.proxies[service])
		r.Handle(prefix, h)
		r.PathPrefix(prefix + "/").Handler(h)
	}

	return r
}
