package utils

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Forwarded identity headers. Only the gateway sets them.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
	HeaderUserRole  = "X-User-Role"
	HeaderAssertion = "X-Identity-Assertion"
)

const assertionTTL = 60 * time.Second

// Identity is the caller as established by the gateway. Assertion holds the signed
// identity assertion the request arrived with, if any, so it can travel on to other services.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Assertion string `json:"-"`
}

// Apply writes the identity headers onto h.
func (id Identity) Apply(h http.Header) {
	h.Set(HeaderUserID, id.ID)
	h.Set(HeaderUserEmail, id.Email)
	h.Set(HeaderUserName, id.Name)
	h.Set(HeaderUserRole, id.Role)
	if id.Assertion != "" {
		h.Set(HeaderAssertion, id.Assertion)
	}
}

// StripIdentity removes every identity header so client-supplied values never reach a service.
func StripIdentity(h http.Header) {
	h.Del(HeaderUserID)
	h.Del(HeaderUserEmail)
	h.Del(HeaderUserName)
	h.Del(HeaderUserRole)
	h.Del(HeaderAssertion)
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

type assertionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// AssertionSigner mints and checks the short-lived token that binds the identity headers.
type AssertionSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewAssertionSigner(secret string) *AssertionSigner {
	return &AssertionSigner{secret: []byte(secret), ttl: assertionTTL}
}

func (s *AssertionSigner) Sign(id Identity) (string, error) {
	now := time.Now()
	claims := assertionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "api-gateway",
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: id.Email,
		Name:  id.Name,
		Role:  id.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the assertion signature and expiry and that it names exactly id.
func (s *AssertionSigner) Verify(token string, id Identity) error {
	claims := &assertionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer("api-gateway"))
	if err != nil {
		return fmt.Errorf("parse assertion: %w", err)
	}
	if !parsed.Valid {
		return fmt.Errorf("invalid assertion")
	}
	if claims.Subject != id.ID || claims.Email != id.Email || claims.Name != id.Name || claims.Role != id.Role {
		return fmt.Errorf("assertion does not match identity headers")
	}
	return nil
}

// IdentityExtractor reads the caller identity at a resource service. With a signer configured
// the assertion header is mandatory.
type IdentityExtractor struct {
	signer *AssertionSigner
}

// NewIdentityExtractor trusts bare headers when secret is empty.
func NewIdentityExtractor(secret string) *IdentityExtractor {
	if secret == "" {
		return &IdentityExtractor{}
	}
	return &IdentityExtractor{signer: NewAssertionSigner(secret)}
}

func (e *IdentityExtractor) Extract(r *http.Request) (Identity, error) {
	id := Identity{
		ID:    r.Header.Get(HeaderUserID),
		Email: r.Header.Get(HeaderUserEmail),
		Name:  r.Header.Get(HeaderUserName),
		Role:  r.Header.Get(HeaderUserRole),

		Assertion: r.Header.Get(HeaderAssertion),
	}
	if id.ID == "" {
		return Identity{}, NewUnauthorized("User ID not found in headers")
	}
	if e.signer != nil {
		if id.Assertion == "" {
			return Identity{}, NewUnauthorized("Identity assertion missing")
		}
		if err := e.signer.Verify(id.Assertion, id); err != nil {
			return Identity{}, NewUnauthorized("Identity assertion rejected")
		}
	}
	return id, nil
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header. The scheme must
// match exactly.
func BearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
		return "", false
	}
	return auth[len(prefix):], true
}
