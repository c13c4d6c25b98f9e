package jwtPkg

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-secret")

	token, exp, err := Sign(map[string]interface{}{"id": "designer-1", "email": "d@example.com"}, time.Hour)
	require.NoError(t, err)
	require.Greater(t, exp, time.Now().Unix())

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		parsed, err := VerifyTokenHeader(c, "JWT_ACCESS_TOKEN_SECRET")
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		user, err := LoginDataFromClaims(parsed.Claims.(jwt.MapClaims))
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(user.ID)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginDataFromClaims_MissingID(t *testing.T) {
	_, err := LoginDataFromClaims(jwt.MapClaims{"email": "d@example.com"})
	require.ErrorIs(t, err, ErrMissingClaims)
}

func TestSign_NoSecret(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "")

	_, _, err := Sign(nil, time.Minute)
	require.ErrorIs(t, err, ErrSecretNotConfigured)
}
