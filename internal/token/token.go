// Package token issues and verifies the signed access and refresh tokens used
// to authenticate API calls. Tokens are stateless HS256 JWTs; expiry is the
// only invalidation mechanism, there is no revocation.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jathin-vignesh/goal-tracker/internal/domain"
)

// Kind distinguishes the two token types via the "type" claim.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Config holds token signing configuration.
type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Service signs and verifies tokens with a server-held symmetric secret.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService creates a token Service from explicit configuration.
func NewService(cfg Config) *Service {
	return &Service{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// IssueAccess signs a short-lived access token for the given user.
func (s *Service) IssueAccess(userID int64) (string, error) {
	return s.issue(userID, KindAccess, s.accessTTL)
}

// IssueRefresh signs a longer-lived refresh token for the given user.
func (s *Service) IssueRefresh(userID int64) (string, error) {
	return s.issue(userID, KindRefresh, s.refreshTTL)
}

func (s *Service) issue(userID int64, kind Kind, ttl time.Duration) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"type":    string(kind),
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks the token's signature, expiry, and kind, and returns the
// user ID claim. Any failure is ErrUnauthorized.
func (s *Service) Verify(tokenString string, kind Kind) (int64, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return 0, domain.ErrUnauthorized
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != string(kind) {
		return 0, domain.ErrUnauthorized
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, domain.ErrUnauthorized
	}

	return int64(userIDFloat), nil
}
