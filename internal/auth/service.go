package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/royalcarriage/platform/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenStore
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Authenticate validates email/password credentials and issues a bearer
// token for the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// VerifyBearer resolves an Authorization header value to an active user.
// Every failure mode (missing header, malformed scheme, unknown or expired
// token, missing user row, deactivated account) collapses into
// ErrNotAuthenticated so the HTTP boundary maps it to a single 401.
func (s *Service) VerifyBearer(ctx context.Context, authHeader string) (*User, error) {
	token, ok := bearerToken(authHeader)
	if !ok {
		return nil, shared.ErrNotAuthenticated
	}
	userID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotAuthenticated
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrNotAuthenticated
	}
	return user, nil
}

// Logout revokes the presented bearer token.
func (s *Service) Logout(ctx context.Context, authHeader string) error {
	token, ok := bearerToken(authHeader)
	if !ok {
		return shared.ErrNotAuthenticated
	}
	return s.tokens.Revoke(ctx, token)
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
