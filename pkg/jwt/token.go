package jwtPkg

import (
	"BodyMeasure/internal/entity"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const UserLocalsKey = "user"

var (
	ErrEmptyAuthorization   = errors.New("empty Authorization header")
	ErrInvalidAuthorization = errors.New("invalid Authorization format")
	ErrSecretNotConfigured  = errors.New("JWT secret not configured")
	ErrMissingClaims        = errors.New("token claims are missing required fields")
)

func Sign(data map[string]interface{}, expiredAt time.Duration) (string, int64, error) {
	exp := time.Now().Add(expiredAt).Unix()

	secret := os.Getenv("JWT_ACCESS_TOKEN_SECRET")
	if secret == "" {
		return "", 0, ErrSecretNotConfigured
	}

	claims := jwt.MapClaims{}
	claims["exp"] = exp
	claims["authorization"] = true

	for k, v := range data {
		claims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(secret))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return "", 0, err
	}

	return accessToken, exp, nil
}

func VerifyTokenHeader(c *fiber.Ctx, secretEnvKey string) (*jwt.Token, error) {
	log := logrus.WithField("func", "VerifyTokenHeader")

	header := c.Get("Authorization")
	if header == "" {
		return nil, ErrEmptyAuthorization
	}

	accessToken, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, ErrInvalidAuthorization
	}
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, ErrInvalidAuthorization
	}

	secret := os.Getenv(secretEnvKey)
	if secret == "" {
		log.Errorf("%s environment variable not set", secretEnvKey)
		return nil, ErrSecretNotConfigured
	}

	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		log.WithError(err).Debug("Failed to parse JWT token")
		return nil, err
	}

	return token, nil
}

// LoginDataFromClaims requires id; username and email are optional.
func LoginDataFromClaims(claims jwt.MapClaims) (entity.UserLoginData, error) {
	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return entity.UserLoginData{}, ErrMissingClaims
	}

	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)

	return entity.UserLoginData{
		ID:       id,
		Username: username,
		Email:    email,
	}, nil
}

func GetUserLoginData(c *fiber.Ctx) (entity.UserLoginData, error) {
	user, ok := c.Locals(UserLocalsKey).(entity.UserLoginData)
	if !ok {
		return entity.UserLoginData{}, fiber.ErrUnauthorized
	}

	return user, nil
}
