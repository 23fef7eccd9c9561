package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"translateapi/internal/http/middleware"
	"translateapi/internal/service"
)

// MsgTranslationFailed is the generic message for pipeline failures after validation.
const MsgTranslationFailed = "Error translating document"

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "VALIDATION_ERROR", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

type errorMapping struct {
	kind    error
	status  int
	code    string
	generic string
}

// errorTable maps service error kinds to responses. An empty generic message
// means the service message is safe to show as is.
var errorTable = []errorMapping{
	{service.ErrValidation, fiber.StatusBadRequest, "VALIDATION_ERROR", ""},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},
	{service.ErrQuotaExceeded, fiber.StatusPaymentRequired, "QUOTA_EXCEEDED", ""},
	{service.ErrJobBusy, fiber.StatusConflict, "JOB_BUSY", ""},
	{service.ErrEmailTaken, fiber.StatusConflict, "EMAIL_TAKEN", ""},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", ""},
	{service.ErrInvalidResetCode, fiber.StatusBadRequest, "INVALID_RESET_CODE", ""},
	{service.ErrUnsupportedFormat, fiber.StatusInternalServerError, "UNSUPPORTED_FORMAT", MsgTranslationFailed},
	{service.ErrExtraction, fiber.StatusInternalServerError, "EXTRACTION_FAILED", MsgTranslationFailed},
	{service.ErrTranslationService, fiber.StatusInternalServerError, "TRANSLATION_SERVICE_ERROR", MsgTranslationFailed},
	{service.ErrRegeneration, fiber.StatusInternalServerError, "REGENERATION_FAILED", MsgTranslationFailed},
}

// statusForError resolves the response for a service error.
func statusForError(err error) (int, string, string) {
	for _, m := range errorTable {
		if !errors.Is(err, m.kind) {
			continue
		}
		msg := m.generic
		if msg == "" {
			msg = service.Message(err)
		}
		if msg == "" {
			msg = m.kind.Error()
		}
		return m.status, m.code, msg
	}
	return fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
}

// serviceError writes the response for err and logs server-side failures.
func serviceError(c *fiber.Ctx, err error) error {
	status, code, msg := statusForError(err)
	if status >= fiber.StatusInternalServerError {
		zerolog.Ctx(c.UserContext()).Error().
			Err(err).
			Str("request_id", middleware.RequestIDFrom(c)).
			Str("code", code).
			Msg("request_failed")
	}
	return writeError(c, status, code, msg)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
