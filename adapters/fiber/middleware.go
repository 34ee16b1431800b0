package fiber

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/lborres/khuluma"
	"github.com/lborres/khuluma/core"
)

// Locals keys set by the auth middleware
const (
	localViewer = "khuluma.viewer"
	localToken  = "khuluma.token"
)

const bearerPrefix = "bearer "

// extractToken returns the token of an "Authorization: Bearer <token>"
// header. Any other form counts as no token.
func extractToken(c fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// optionalAuth resolves the viewer when a valid token is sent. A missing or
// rejected token continues anonymously; an infrastructure failure does not.
func (a *Adapter) optionalAuth(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return c.Next()
	}

	clientID, err := a.k.Sessions.Validate(c.Context(), token)
	switch {
	case err == nil:
		c.Locals(localViewer, clientID)
		c.Locals(localToken, token)
	case core.IsAuthError(err):
		a.logger.Debug("continuing anonymously", zap.Error(err))
	default:
		return respondError(c, a.logger, err)
	}

	return c.Next()
}

// requireAuth rejects the request unless the token validates.
func (a *Adapter) requireAuth(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return respondError(c, a.logger, khuluma.ErrMissingToken)
	}

	clientID, err := a.k.Sessions.Validate(c.Context(), token)
	if err != nil {
		return respondError(c, a.logger, err)
	}

	c.Locals(localViewer, clientID)
	c.Locals(localToken, token)
	return c.Next()
}

// viewer returns the authenticated client, or nil for anonymous requests.
func viewer(c fiber.Ctx) *core.ClientID {
	if id, ok := c.Locals(localViewer).(core.ClientID); ok {
		return &id
	}
	return nil
}

func sessionToken(c fiber.Ctx) string {
	token, _ := c.Locals(localToken).(string)
	return token
}
