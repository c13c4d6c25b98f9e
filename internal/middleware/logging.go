package middleware

import (
	"BodyMeasure/pkg/log"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

func LoggerConfig() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID, ok := c.Locals(RequestIDKey).(string)
		if !ok || requestID == "" {
			requestID = "unknown"
		}

		c.Locals("request_id", requestID)

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		if err != nil && status == fiber.StatusInternalServerError {
			return err
		}

		logFields := log.Fields{
			"request_id":    requestID,
			"method":        c.Method(),
			"path":          c.Path(),
			"status":        status,
			"latency_ms":    latency.Milliseconds(),
			"ip":            c.IP(),
			"user_agent":    c.Get("User-Agent"),
			"response_size": len(c.Response().Body()),
		}

		if body := c.Request().Body(); len(body) > 0 && strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
			logFields["request_body"] = sanitizeRequestBody(body)
		}

		if status >= 500 {
			log.Error(logFields, "Server error")
		} else if status >= 400 {
			log.Warn(logFields, "Client error")
		} else {
			log.Info(logFields, "Success")
		}

		return err
	}
}

var sensitiveFields = map[string]bool{
	"password": true, "token": true, "secret": true, "key": true,
	"auth": true, "credential": true, "authorization": true,
}

var imageFields = map[string]bool{
	"image_data": true, "images": true,
}

func sanitizeRequestBody(body []byte) string {
	var jsonBody map[string]interface{}
	if err := json.Unmarshal(body, &jsonBody); err != nil {
		return "[non-JSON body]"
	}

	sanitizeValue(jsonBody)

	sanitized, err := json.Marshal(jsonBody)
	if err != nil {
		return "[sanitization-failed]"
	}

	return string(sanitized)
}

func sanitizeValue(v interface{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, inner := range val {
			switch {
			case sensitiveFields[k]:
				val[k] = "[SECRET]"
			case imageFields[k]:
				val[k] = redactImage(inner)
			default:
				sanitizeValue(inner)
			}
		}
	case []interface{}:
		for _, inner := range val {
			sanitizeValue(inner)
		}
	}
}

func redactImage(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("[IMAGE %d bytes]", len(val))
	case []interface{}:
		for _, inner := range val {
			sanitizeValue(inner)
		}
		return val
	default:
		return v
	}
}
