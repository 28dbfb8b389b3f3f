package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jathin-vignesh/goal-tracker/internal/domain"
)

// APIError is the error body returned for failed requests.
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a field-level validation error.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

// HTTPErrorHandler is the global error handler. Domain errors propagate here
// unmodified and are mapped to status codes and caller-visible messages.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, apiErr := mapError(err)
	if jsonErr := c.JSON(status, errorEnvelope{Error: apiErr}); jsonErr != nil {
		slog.Error("failed to send error response", "error", jsonErr)
	}
}

func mapError(err error) (int, APIError) {
	// Echo's own HTTP errors (404 on unknown routes, 405, etc.)
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, APIError{
			Code:    http.StatusText(echoErr.Code),
			Message: msg,
		}
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusUnprocessableEntity, APIError{
			Code:    "validation_error",
			Message: "Validation failed",
			Details: []FieldError{
				{Field: validationErr.Field, Message: validationErr.Message},
			},
		}
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: messageOr(err, "The requested resource was not found"),
		}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, APIError{
			Code:    "unauthorized",
			Message: messageOr(err, "Authentication is required"),
		}
	case errors.Is(err, domain.ErrConflict):
		// Uniqueness violations surface as 400, matching the API contract.
		return http.StatusBadRequest, APIError{
			Code:    "conflict",
			Message: messageOr(err, "The resource already exists"),
		}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, APIError{
			Code:    "invalid_input",
			Message: messageOr(err, "The request body is invalid"),
		}
	default:
		slog.Error("unhandled error", "error", err)
		return http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "An unexpected error occurred",
		}
	}
}

// messageOr returns the caller-visible message carried by a domain.Error, or
// the fallback when the error carries none.
func messageOr(err error, fallback string) string {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return fallback
}
