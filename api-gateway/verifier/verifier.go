// Package verifier asks users-service whether a bearer token is valid.
package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"

	usermodels "taskboard/backend/users-service/models"
	"taskboard/backend/utils"
)

const usersService = "users-service"

type TokenVerifier struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewTokenVerifier(baseURL string, client *http.Client) *TokenVerifier {
	return &TokenVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		breaker: utils.NewBreaker("UsersServiceCB"),
	}
}

// Verify returns the identity behind token. Every failure, including an unreachable
// users-service, is reported as Unauthorized.
func (v *TokenVerifier) Verify(ctx context.Context, token string) (utils.Identity, error) {
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return utils.Identity{}, fmt.Errorf("encode token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/auth/validate", bytes.NewReader(body))
	if err != nil {
		return utils.Identity{}, fmt.Errorf("build validate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result usermodels.VerifyResult
	if err := utils.DoJSON(v.client, v.breaker, usersService, req, &result); err != nil {
		return utils.Identity{}, utils.NewUnauthorized("Token validation failed")
	}
	if !result.Valid || result.User == nil {
		return utils.Identity{}, utils.NewUnauthorized("Invalid token")
	}

	return utils.Identity{
		ID:    result.User.ID,
		Email: result.User.Email,
		Name:  result.User.Name,
		Role:  string(result.User.Role),
	}, nil
}
