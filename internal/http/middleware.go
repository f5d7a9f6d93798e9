package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// requestLogger logs one line per request. Handler errors are rendered
// here so the logged status is the one the client sees.
func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if handlerErr := c.App().Config().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		attrs := []any{
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", status,
			"latency", time.Since(start).String(),
			"ip", c.IP(),
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request", attrs...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", attrs...)
		default:
			logger.Info("request", attrs...)
		}
		return nil
	}
}
