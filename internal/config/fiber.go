package config

import (
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

func NewFiber(settings *Settings) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:           settings.AppName,
			BodyLimit:         int(settings.MaxFileSize)*int(settings.MaxBatchSize)*2 + 1024*1024,
			DisableKeepalive:  false,
			StrictRouting:     true,
			CaseSensitive:     true,
			EnablePrintRoutes: settings.Debug,
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
		})

	return app
}
