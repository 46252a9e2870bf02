package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"taskboard/backend/logging"
	"taskboard/backend/users-service/models"
	"taskboard/backend/users-service/repositories"
	"taskboard/backend/utils"
)

const minPasswordLength = 6

var errInvalidCredentials = utils.NewUnauthorized("Invalid credentials")

// AuthService registers users, issues session tokens and answers token verification for the gateway.
type AuthService struct {
	users      repositories.UserRepository
	jwt        *JWTService
	revoked    RevocationStore
	bcryptCost int
}

func NewAuthService(users repositories.UserRepository, jwt *JWTService, revoked RevocationStore) *AuthService {
	return &AuthService{
		users:      users,
		jwt:        jwt,
		revoked:    revoked,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.PublicUser, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	if email == "" || req.Password == "" || name == "" {
		return nil, utils.NewValidation("Email, password and name are required")
	}
	// The name travels in the X-User-Name header on every forwarded request.
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return nil, utils.NewValidation("Name must not contain control characters")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, utils.NewValidation("Invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, utils.NewValidation(fmt.Sprintf("Password must be at least %d characters long", minPasswordLength))
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return nil, utils.NewValidation("Role must be admin or member")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, utils.NewConflict("User already exists")
	} else if !utils.IsKind(err, utils.KindNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Name:     name,
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with role %s", user.ID.Hex(), user.Role)
	return user.Public(), nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, utils.NewValidation("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if utils.IsKind(err, utils.KindNotFound) {
			logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Unknown email attempted login")
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Wrong password for user %s", user.ID.Hex())
		return nil, errInvalidCredentials
	}

	token, err := s.jwt.GenerateAuthToken(user)
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: User %s logged in", user.ID.Hex())
	return &models.LoginResponse{User: user.Public(), Token: token}, nil
}

// VerifyToken reports whether token belongs to a live session. It never fails: every problem,
// including a store outage, yields an invalid result.
func (s *AuthService) VerifyToken(ctx context.Context, token string) models.VerifyResult {
	user, err := s.resolve(ctx, token)
	if err != nil {
		logging.Logger.Debugf("Event ID: TOKEN_REJECTED, Description: %v", err)
		return models.VerifyResult{Valid: false}
	}
	return models.VerifyResult{Valid: true, User: user.Public()}
}

// Profile returns the user owning token, or Unauthorized.
func (s *AuthService) Profile(ctx context.Context, token string) (*models.PublicUser, error) {
	user, err := s.resolve(ctx, token)
	if err != nil {
		return nil, utils.NewUnauthorized("Invalid or expired token")
	}
	return user.Public(), nil
}

// Logout revokes token until it would have expired. An already invalid token is Unauthorized.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return utils.NewUnauthorized("Invalid or expired token")
	}

	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.revoked.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	logging.Logger.Infof("Event ID: LOGOUT, Description: Token revoked for user %s", claims.Subject)
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (*models.PublicUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*models.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

func (s *AuthService) resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("token %s revoked", claims.ID)
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}
	return user, nil
}
