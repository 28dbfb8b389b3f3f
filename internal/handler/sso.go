package handler

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jathin-vignesh/goal-tracker/internal/domain"
	"github.com/jathin-vignesh/goal-tracker/internal/service"
)

// SSOHandler handles the Google SSO login and callback endpoints.
type SSOHandler struct {
	sso *service.SSOService
}

// NewSSOHandler creates a new SSOHandler.
func NewSSOHandler(sso *service.SSOService) *SSOHandler {
	return &SSOHandler{sso: sso}
}

// GoogleLogin redirects the user to Google's consent screen.
func (h *SSOHandler) GoogleLogin(c echo.Context) error {
	state := generateState()
	c.SetCookie(&http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})
	return c.Redirect(http.StatusFound, h.sso.GoogleAuthURL(state))
}

// GoogleCallback exchanges the authorization code and returns a token bundle.
func (h *SSOHandler) GoogleCallback(c echo.Context) error {
	if err := h.validateState(c); err != nil {
		return err
	}

	code := c.QueryParam("code")
	if code == "" {
		return domain.Invalidf("Missing code")
	}

	bundle, err := h.sso.HandleGoogleCallback(c.Request().Context(), code)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bundle)
}

func (h *SSOHandler) validateState(c echo.Context) error {
	cookie, err := c.Cookie("oauth_state")
	if err != nil {
		return domain.Invalidf("Missing oauth state")
	}

	state := c.QueryParam("state")
	if state == "" || state != cookie.Value {
		return domain.Invalidf("Invalid oauth state")
	}
	return nil
}

func generateState() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "fallback-state"
	}
	return base64.URLEncoding.EncodeToString(b)
}
