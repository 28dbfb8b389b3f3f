package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jathin-vignesh/goal-tracker/internal/domain"
)

// UserRepository handles user and auth-provider-link data access.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, created_at, updated_at`

// FindByID retrieves a user by their ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id %d: %w", id, err)
	}
	return &user, nil
}

// FindByEmail retrieves a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByUsername retrieves a user by their username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// Create inserts a new user and returns the stored row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	var result domain.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING `+userColumns,
		user.Username, user.Email, user.PasswordHash,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &result, nil
}

// SetPasswordHash stores a password hash for the given user.
func (r *UserRepository) SetPasswordHash(ctx context.Context, userID int64, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		hash, userID)
	if err != nil {
		return fmt.Errorf("set password hash for user %d: %w", userID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set password hash for user %d: %w", userID, err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindLink retrieves an auth provider link by its unique provider identity.
func (r *UserRepository) FindLink(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.AuthProviderLink, error) {
	var link domain.AuthProviderLink
	err := r.db.GetContext(ctx, &link,
		`SELECT id, user_id, provider, provider_user_id, created_at
		 FROM user_auth_providers
		 WHERE provider = $1 AND provider_user_id = $2`,
		provider, providerUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find link %s/%s: %w", provider, providerUserID, err)
	}
	return &link, nil
}

// CreateLink inserts a new auth provider link for the given user.
func (r *UserRepository) CreateLink(ctx context.Context, link domain.AuthProviderLink) (*domain.AuthProviderLink, error) {
	var result domain.AuthProviderLink
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO user_auth_providers (user_id, provider, provider_user_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, provider, provider_user_id, created_at`,
		link.UserID, link.Provider, link.ProviderUserID,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("create link %s for user %d: %w", link.Provider, link.UserID, err)
	}
	return &result, nil
}
