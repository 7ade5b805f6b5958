package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizhub/config"
	"quizhub/models"
	"quizhub/services/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfig(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	t.Cleanup(func() { config.AppConfig = prev })
}

// whoami echoes the Locals set by JWTMiddleware.
func whoami(c *fiber.Ctx) error {
	id, _ := CurrentUserID(c)
	return c.JSON(fiber.Map{
		"userId":        id,
		"userName":      c.Locals("userName"),
		"isContributor": IsContributor(c),
	})
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", JWTMiddleware, whoami)
	app.Get("/admin", JWTMiddleware, ContributorOnly, whoami)
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestJWTMiddleware(t *testing.T) {
	withConfig(t)
	app := newApp()

	token, _, err := GenerateJWT(models.User{ID: 12, UserName: "jdoe"}, false)
	require.NoError(t, err)

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode(t, resp)
		assert.Equal(t, float64(12), body["userId"])
		assert.Equal(t, "jdoe", body["userName"])
		assert.Equal(t, false, body["isContributor"])
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, false, decode(t, resp)["status"])
	})

	t.Run("wrong key", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": 12,
			"exp":    time.Now().Add(time.Hour).Unix(),
		})
		signed, err := forged.SignedString([]byte("another-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired", func(t *testing.T) {
		stale := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": 12,
			"exp":    time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := stale.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestContributorOnly(t *testing.T) {
	withConfig(t)
	app := newApp()

	user, _, err := GenerateJWT(models.User{ID: 1, UserName: "player"}, false)
	require.NoError(t, err)
	editor, _, err := GenerateJWT(models.User{ID: 2, UserName: "editor"}, true)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+user)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+editor)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode(t, resp)["isContributor"])
}

func TestCanAccess(t *testing.T) {
	testCases := []struct {
		name        string
		userID      uint
		contributor bool
		ownerID     uint
		want        bool
	}{
		{"owner", 5, false, 5, true},
		{"stranger", 6, false, 5, false},
		{"contributor", 6, true, 5, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				c.Locals("userId", tc.userID)
				c.Locals("isContributor", tc.contributor)
				if CanAccess(c, tc.ownerID) {
					return c.SendStatus(http.StatusOK)
				}
				return c.SendStatus(http.StatusForbidden)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode == http.StatusOK)
		})
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		err    error
		status int
		msg    string
	}{
		{apperror.NotFoundf("Quiz session not found"), http.StatusNotFound, "Quiz session not found"},
		{apperror.InvalidRequestf("bad input"), http.StatusBadRequest, "bad input"},
		{apperror.InvalidStatef("already completed"), http.StatusBadRequest, "already completed"},
		{apperror.Forbiddenf("not yours"), http.StatusForbidden, "not yours"},
		{apperror.Conflictf("taken"), http.StatusConflict, "taken"},
		{apperror.New(apperror.Unauthorized, "who are you"), http.StatusUnauthorized, "who are you"},
		{apperror.Wrap(apperror.Internal, errors.New("disk on fire"), "Failed!"), http.StatusInternalServerError, "Failed!"},
	}

	for _, tc := range testCases {
		t.Run(tc.msg, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return ErrorResponse(c, tc.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			body := decode(t, resp)
			assert.Equal(t, false, body["status"])
			assert.Equal(t, tc.msg, body["message"])
			assert.NotContains(t, body["message"], "disk on fire")
		})
	}
}
