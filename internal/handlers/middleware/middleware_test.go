package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AbbasAlizada1380/mellat/config"
	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	"github.com/AbbasAlizada1380/mellat/internal/models"
	"github.com/AbbasAlizada1380/mellat/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(t *testing.T, cfg config.Config, tokens *services.TokenService) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := apperr.As(err); ok {
				return c.Status(appErr.Kind.Status()).SendString(appErr.Message)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})

	m := New(tokens, cfg)
	app.Get("/", m.Protected(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": UserID(c)})
	})
	return app
}

func TestProtected(t *testing.T) {
	tokens := services.NewTokenService("secret", time.Hour)
	token, _, err := tokens.Issue(models.User{ID: 7, Login: "admin"})
	require.NoError(t, err)

	other := services.NewTokenService("other", time.Hour)
	foreign, _, err := other.Issue(models.User{ID: 7, Login: "admin"})
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		query         string
		wantStatus    int
		wantBody      string
	}{
		{name: "no token", wantStatus: fiber.StatusUnauthorized, wantBody: MSG_TOKEN_MISSING},
		{name: "blank header", authorization: "   ", wantStatus: fiber.StatusUnauthorized, wantBody: MSG_TOKEN_MISSING},
		{name: "bearer", authorization: "Bearer " + token, wantStatus: fiber.StatusOK, wantBody: `{"userID":7}`},
		{name: "other scheme", authorization: "Token " + token, wantStatus: fiber.StatusOK, wantBody: `{"userID":7}`},
		{name: "bare token", authorization: token, wantStatus: fiber.StatusOK, wantBody: `{"userID":7}`},
		{name: "query token", query: "?token=" + token, wantStatus: fiber.StatusOK, wantBody: `{"userID":7}`},
		{name: "wrong secret", authorization: "Bearer " + foreign, wantStatus: fiber.StatusForbidden, wantBody: MSG_TOKEN_INVALID},
		{name: "garbage", authorization: "Bearer abc.def", wantStatus: fiber.StatusForbidden, wantBody: MSG_TOKEN_INVALID},
	}

	app := newProtectedApp(t, config.Config{}, tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.authorization != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.authorization)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestProtectedAuthDisabled(t *testing.T) {
	app := newProtectedApp(t, config.Config{SecurityAuthDisabled: true}, services.NewTokenService("", time.Hour))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
