package main

import (
	"context"
	"net/http"

	"taskboard/backend/logging"
	"taskboard/backend/utils"
)

type tokenVerifier interface {
	Verify(ctx context.Context, token string) (utils.Identity, error)
}

// authMiddleware verifies the bearer token and replaces any identity headers the client sent
// with the verified ones. Nothing is forwarded for a request that fails here.
func (g *gateway) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := utils.BearerToken(r)
		if !ok {
			utils.WriteError(w, utils.NewUnauthorized("No token provided"))
			return
		}

		id, err := g.verifier.Verify(r.Context(), token)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_REJECTED, Description: %s %s: %v", r.Method, r.URL.Path, err)
			utils.WriteError(w, utils.NewUnauthorized("Invalid token"))
			return
		}

		if g.signer != nil {
			assertion, err := g.signer.Sign(id)
			if err != nil {
				utils.WriteError(w, err)
				return
			}
			id.Assertion = assertion
		}

		r = r.WithContext(utils.WithIdentity(r.Context(), id))
		utils.StripIdentity(r.Header)
		id.Apply(r.Header)
		next.ServeHTTP(w, r)
	})
}

// profile answers GET /auth/profile from the verified identity.
func (g *gateway) profile(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		utils.WriteError(w, utils.NewUnauthorized("No token provided"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"id":    id.ID,
		"email": id.Email,
		"name":  id.Name,
		"role":  id.Role,
	})
}
