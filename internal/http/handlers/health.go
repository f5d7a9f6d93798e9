package handlers

import (
	"context"
	"time"

	"github.com/Rech1n/Kitsune/internal/hybrid"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	catalog  Catalog
	resolver *hybrid.Resolver
}

func NewHealthHandler(catalog Catalog, resolver *hybrid.Resolver) *HealthHandler {
	return &HealthHandler{catalog: catalog, resolver: resolver}
}

// Check reports provider reachability. The service keeps answering 200
// while hianime is down since custom streams still play.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	status, provider := "ok", "up"
	var providerErr string
	if err := h.catalog.Ping(ctx); err != nil {
		status, provider = "degraded", "down"
		providerErr = err.Error()
	}

	body := fiber.Map{
		"status":  status,
		"hianime": provider,
		"streams": h.resolver.StreamingStats(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	}
	if providerErr != "" {
		body["error"] = providerErr
	}
	return c.JSON(body)
}
