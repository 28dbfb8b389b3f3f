package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jathin-vignesh/goal-tracker/internal/domain"
	"github.com/jathin-vignesh/goal-tracker/internal/service"
)

// AuthHandler handles registration, login, token refresh, and the
// current-user endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Register creates a new password-based user.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalidf("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), req.Email, req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user and returns access and refresh tokens.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalidf("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh mints a new access token from a refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalidf("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.auth.RefreshAccess(req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

type setPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// SetPassword sets a password for an SSO-only account.
func (h *AuthHandler) SetPassword(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req setPasswordRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalidf("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.auth.SetPassword(c.Request().Context(), user, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password set successfully"})
}

// Me returns the currently authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	return c.JSON(http.StatusOK, user)
}
