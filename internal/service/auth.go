package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jathin-vignesh/goal-tracker/internal/domain"
	"github.com/jathin-vignesh/goal-tracker/internal/token"
)

// bcrypt operates on at most 72 bytes; longer input is truncated before
// hashing and verification so both sides agree.
const maxPasswordBytes = 72

// UserStore defines the user data access interface consumed by AuthService.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user domain.User) (*domain.User, error)
	SetPasswordHash(ctx context.Context, userID int64, hash string) error
}

// AuthService handles registration, password login, token refresh, and
// current-user resolution.
type AuthService struct {
	users         UserStore
	tokens        *token.Service
	allowedDomain string
}

// NewAuthService creates a new AuthService. allowedDomain restricts password
// registration to one email domain when non-empty.
func NewAuthService(users UserStore, tokens *token.Service, allowedDomain string) *AuthService {
	return &AuthService{
		users:         users,
		tokens:        tokens,
		allowedDomain: strings.ToLower(allowedDomain),
	}
}

// LoginResult is the token bundle returned by password login.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	UserID       int64  `json:"user_id"`
}

// Register creates a new password-based user. The email must not be in use by
// any account, password-based or SSO-only, and the username must be unique.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	if s.allowedDomain != "" {
		parts := strings.Split(email, "@")
		if len(parts) != 2 || strings.ToLower(parts[1]) != s.allowedDomain {
			return nil, &domain.ValidationError{
				Field:   "email",
				Message: fmt.Sprintf("email domain must be %s", s.allowedDomain),
			}
		}
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if existing.HasPassword() {
			return nil, domain.Conflictf("Email already registered")
		}
		return nil, domain.Conflictf("Account already exists via SSO. Please login using Google.")
	}
	if !errorsIsNotFound(err) {
		return nil, err
	}

	_, err = s.users.FindByUsername(ctx, username)
	if err == nil {
		return nil, domain.Conflictf("Username already registered")
	}
	if !errorsIsNotFound(err) {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, domain.User{
		Username:     &username,
		Email:        email,
		PasswordHash: &hash,
	})
}

// Login authenticates a user by email and password and returns a token
// bundle. Unknown email, SSO-only account, and wrong password are all the
// same Unauthorized failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil || !user.HasPassword() || !verifyPassword(password, *user.PasswordHash) {
		return nil, domain.Unauthorizedf("Invalid credentials")
	}

	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		UserID:       user.ID,
	}, nil
}

// RefreshResult is the payload returned by a token refresh.
type RefreshResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RefreshAccess mints a new access token from a valid refresh token. The
// refresh token is neither rotated nor invalidated.
func (s *AuthService) RefreshAccess(refreshToken string) (*RefreshResult, error) {
	userID, err := s.tokens.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return nil, err
	}

	return &RefreshResult{AccessToken: access, TokenType: "bearer"}, nil
}

// SetPassword lets an SSO-only user set a password, once. Accounts that
// already have one get a Conflict.
func (s *AuthService) SetPassword(ctx context.Context, user *domain.User, password string) error {
	if user.HasPassword() {
		return domain.Conflictf("Password already set for this account")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	return s.users.SetPasswordHash(ctx, user.ID, hash)
}

// CurrentUser verifies an access token and loads the referenced user. An
// invalid token or a vanished user are both Unauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	userID, err := s.tokens.Verify(accessToken, token.KindAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.Unauthorizedf("User not found")
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(password)) == nil
}

func truncatePassword(password string) []byte {
	b := []byte(strings.TrimSpace(password))
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
