package middleware

import (
	jwtPkg "BodyMeasure/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
)

func (m *middleware) unauthorized(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   "Unauthorized, access token invalid or expired",
		"code":    "UNAUTHORIZED",
	})
}

func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	fields := logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"path":       ctx.Path(),
		"method":     ctx.Method(),
		"client_ip":  ctx.IP(),
	}

	userToken, err := jwtPkg.VerifyTokenHeader(ctx, AccessTokenSecret)
	if err != nil {
		m.log.WithFields(fields).WithError(err).Warn("Token verification failed")
		return m.unauthorized(ctx)
	}

	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		m.log.WithFields(fields).Warn("Invalid token claims")
		return m.unauthorized(ctx)
	}

	user, err := jwtPkg.LoginDataFromClaims(claims)
	if err != nil {
		m.log.WithFields(fields).WithError(err).Warn("Token claims check")
		return m.unauthorized(ctx)
	}
	ctx.Locals(jwtPkg.UserLocalsKey, user)

	m.log.WithFields(fields).WithField("user_id", user.ID).Debug("Authentication successful")
	return ctx.Next()
}
