package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"go.uber.org/zap"

	"github.com/lborres/khuluma"
	"github.com/lborres/khuluma/core"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Machine-readable error codes
const (
	CodeMissingToken     = "missing_token"
	CodeInvalidOrExpired = "invalid_or_expired"
	CodeAccountInactive  = "account_inactive"
	CodeConnectionError  = "connection_error"
	CodeQueryError       = "query_error"
	CodeNotFound         = "not_found"
	CodeConflict         = "conflict"
	CodeInvalidRequest   = "invalid_request"
	CodeInvalidLogin     = "invalid_credentials"
	CodeInternal         = "internal_error"
)

const (
	msgConnectionError = "service temporarily unavailable, please try again"
	msgQueryError      = "the request could not be completed"
	msgInternal        = "internal server error"
	msgInvalidBody     = "invalid request body"
)

func respond(c fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondError renders err in the envelope. Infrastructure details are
// logged and replaced with a generic message.
func respondError(c fiber.Ctx, logger *zap.Logger, err error) error {
	status, code := mapErrorToStatus(err)
	message := err.Error()

	var infra *core.InfraError
	switch {
	case errors.As(err, &infra):
		logger.Error("request failed",
			zap.String("op", infra.Op),
			zap.String("kind", infra.Kind.Error()),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("request_id", requestid.FromContext(c)),
			zap.Error(infra.Err),
		)
		message = msgQueryError
		if errors.Is(err, core.ErrConnection) {
			message = msgConnectionError
		}
	case status == http.StatusInternalServerError:
		logger.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("request_id", requestid.FromContext(c)),
			zap.Error(err),
		)
		message = msgInternal
	}

	return c.Status(status).JSON(Envelope{
		Success: false,
		Message: message,
		Code:    code,
	})
}

// mapErrorToStatus maps khuluma error types to HTTP status codes
func mapErrorToStatus(err error) (int, string) {
	var fiberErr *fiber.Error

	switch {
	case err == nil:
		return http.StatusOK, ""

	case errors.Is(err, khuluma.ErrMissingToken):
		return http.StatusUnauthorized, CodeMissingToken
	case errors.Is(err, khuluma.ErrInvalidOrExpired):
		return http.StatusUnauthorized, CodeInvalidOrExpired
	case errors.Is(err, khuluma.ErrAccountInactive):
		return http.StatusForbidden, CodeAccountInactive
	case errors.Is(err, khuluma.ErrInvalidCredentials):
		return http.StatusUnauthorized, CodeInvalidLogin

	case errors.Is(err, khuluma.ErrConnection):
		return http.StatusServiceUnavailable, CodeConnectionError
	case errors.Is(err, khuluma.ErrQuery):
		return http.StatusInternalServerError, CodeQueryError

	case errors.Is(err, core.ErrOpportunityNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, core.ErrAlreadyApplied):
		return http.StatusConflict, CodeConflict

	case errors.Is(err, core.ErrDocumentNotFound),
		errors.Is(err, core.ErrMessageRequired),
		errors.Is(err, core.ErrEmailRequired),
		errors.Is(err, core.ErrPasswordRequired),
		errors.Is(err, core.ErrInvalidID):
		return http.StatusBadRequest, CodeInvalidRequest

	case errors.As(err, &fiberErr):
		switch fiberErr.Code {
		case http.StatusNotFound:
			return fiberErr.Code, CodeNotFound
		case http.StatusInternalServerError:
			return fiberErr.Code, CodeInternal
		default:
			return fiberErr.Code, CodeInvalidRequest
		}

	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// ErrorHandler renders errors that escape a handler, such as unknown routes,
// in the response envelope.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c fiber.Ctx, err error) error {
		return respondError(c, logger, err)
	}
}
