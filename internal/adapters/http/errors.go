package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/traveltip/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, persistence_error, internal_error
	Message   string `json:"message"` // Human-readable message
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID := RequestIDFromCtx(c.UserContext())
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// handleError maps a core error onto its HTTP status.
func handleError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		reqID := RequestIDFromCtx(c.UserContext())
		return c.Status(fiber.StatusBadRequest).JSON(APIError{
			Status:    fiber.StatusBadRequest,
			Code:      "bad_request",
			Message:   ve.Error(),
			Field:     ve.Field,
			RequestID: reqID,
		})
	case errors.Is(err, domain.ErrValidation):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrPersistence):
		LoggerFromCtx(c.UserContext()).Error("storage unavailable", "error", err)
		return newError(c, fiber.StatusServiceUnavailable, "persistence_error", "storage unavailable")
	default:
		LoggerFromCtx(c.UserContext()).Error("unhandled error", "path", c.Path(), "error", err)
		return errInternal(c, "internal error")
	}
}
