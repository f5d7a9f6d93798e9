package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Rech1n/Kitsune/internal/hianime"
	"github.com/Rech1n/Kitsune/internal/hybrid"
	"github.com/Rech1n/Kitsune/internal/streams"
	"github.com/gofiber/fiber/v2"
)

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// failure maps a domain error onto the error envelope. summary is the short
// caller-facing label; the error text goes into message.
func failure(c *fiber.Ctx, summary string, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusBadRequest {
		return badRequest(c, err.Error())
	}
	return c.Status(status).JSON(fiber.Map{"error": summary, "message": err.Error()})
}

func errorStatus(err error) int {
	var notFound *hybrid.NotFoundError
	switch {
	case errors.Is(err, streams.ErrInvalidStream), errors.Is(err, streams.ErrInvalidServer),
		errors.Is(err, hybrid.ErrInvalidQuery), hianime.IsInvalidArgument(err):
		return fiber.StatusBadRequest
	case errors.As(err, &notFound), hianime.IsNotFound(err):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func parsePositiveInt(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return value, nil
}
