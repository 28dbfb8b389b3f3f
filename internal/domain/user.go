package domain

import "time"

// AuthProvider represents an external SSO provider.
type AuthProvider string

const (
	AuthProviderGoogle AuthProvider = "google"
)

// User represents an account. PasswordHash is nil for SSO-only accounts.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     *string   `json:"username,omitempty" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// HasPassword reports whether the user can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// AuthProviderLink binds a user to one external identity. A user holds at most
// one link per provider, and a provider identity maps to at most one user.
type AuthProviderLink struct {
	ID             int64        `json:"id" db:"id"`
	UserID         int64        `json:"user_id" db:"user_id"`
	Provider       AuthProvider `json:"provider" db:"provider"`
	ProviderUserID string       `json:"provider_user_id" db:"provider_user_id"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}
