package middleware

import (
	"strings"

	"github.com/AbbasAlizada1380/mellat/config"
	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
	"github.com/AbbasAlizada1380/mellat/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	LOCALS_CLAIMS  = "claims"
	LOCALS_USER_ID = "userID"

	MSG_TOKEN_MISSING = "No token provided."
	MSG_TOKEN_INVALID = "Invalid token."
)

type Middleware struct {
	tokens *services.TokenService
	config config.Config
	log    logger.Logger
}

func New(tokens *services.TokenService, config config.Config) Middleware {
	return Middleware{
		tokens: tokens,
		config: config,
		log:    logger.New("middleware"),
	}
}

// bearerToken accepts "<scheme> <token>" or the bare token. Browsers cannot
// set headers on websocket upgrades, so a token query parameter is also
// read.
func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return strings.TrimSpace(c.Query("token"))
	}

	if _, token, found := strings.Cut(header, " "); found {
		return strings.TrimSpace(token)
	}

	return header
}

// Protected rejects requests without a valid staff token: 401 when the
// token is missing, 403 when it does not verify.
func (m Middleware) Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.config.SecurityAuthDisabled {
			c.Locals(LOCALS_USER_ID, uint(0))
			return c.Next()
		}

		token := bearerToken(c)
		if token == "" {
			return apperr.Unauthorized(MSG_TOKEN_MISSING)
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			m.log.Function("Protected").Debug("rejected token", "path", c.Path(), "error", err)
			return apperr.Wrap(apperr.KindForbidden, MSG_TOKEN_INVALID, err)
		}

		c.Locals(LOCALS_CLAIMS, claims)
		c.Locals(LOCALS_USER_ID, claims.UserID())
		return c.Next()
	}
}

// UserID returns the authenticated user of the request, zero when auth is
// disabled.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LOCALS_USER_ID).(uint)
	return id
}
