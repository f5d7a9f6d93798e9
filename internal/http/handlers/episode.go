package handlers

import (
	"log/slog"
	"strings"

	"github.com/Rech1n/Kitsune/internal/hybrid"
	"github.com/Rech1n/Kitsune/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type serverRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

type EpisodeHandler struct {
	resolver *hybrid.Resolver
	logger   *slog.Logger
}

func NewEpisodeHandler(resolver *hybrid.Resolver, logger *slog.Logger) *EpisodeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EpisodeHandler{resolver: resolver, logger: logger}
}

// Sources answers playback requests. A failed lookup on a named custom
// server is retried once against hianime; if that fails too the request
// falls through to the legacy and merged answers.
func (h *EpisodeHandler) Sources(c *fiber.Ctx) error {
	episodeID := strings.TrimSpace(c.Query("animeEpisodeId"))
	if episodeID == "" {
		return badRequest(c, "Episode ID is required")
	}
	animeID := strings.TrimSpace(c.Query("animeId"))
	if animeID == "" {
		animeID = episodeID
	}
	episode, err := parsePositiveInt(c.Query("episodeNumber"), 1)
	if err != nil {
		return badRequest(c, "episodeNumber "+err.Error())
	}
	category, err := models.ParseLanguageType(c.Query("category"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.UserContext()
	q := hybrid.Query{EpisodeID: episodeID, AnimeID: animeID, EpisodeNumber: episode, Category: category}

	if serverID := strings.TrimSpace(c.Query("serverId")); serverID != "" {
		data, err := h.resolver.StreamByServer(ctx, q, serverID)
		if err == nil {
			return c.JSON(fiber.Map{"success": true, "data": data, "selectedServer": serverID, "fallbackUsed": false})
		}
		h.logger.Warn("server stream lookup failed", "serverId", serverID, "episodeId", episodeID, "error", err)

		if serverID != hybrid.ExternalServerID {
			fallback, fallbackErr := h.resolver.StreamByServer(ctx, q, hybrid.ExternalServerID)
			if fallbackErr == nil {
				return c.JSON(fiber.Map{
					"success":             true,
					"data":                fallback,
					"selectedServer":      hybrid.ExternalServerID,
					"fallbackUsed":        true,
					"originalServerError": err.Error(),
				})
			}
			h.logger.Error("hianime fallback failed", "episodeId", episodeID, "error", fallbackErr)
		}
	}

	if strings.TrimSpace(c.Query("server")) != "" {
		data, err := h.resolver.BestAvailableStream(ctx, q)
		if err == nil {
			return c.JSON(fiber.Map{"success": true, "data": data})
		}
		h.logger.Error("legacy stream lookup failed", "episodeId", episodeID, "error", err)
	}

	view, err := h.resolver.EpisodeStreamsWithServers(ctx, q)
	if err != nil {
		return failure(c, "something went wrong", err)
	}
	available := lo.Map(view.AvailableServers, func(entry hybrid.ServerEntry, _ int) serverRef {
		return serverRef{ID: entry.ID, Name: entry.Name, Priority: entry.Priority}
	})
	return c.JSON(fiber.Map{"success": true, "data": view, "serversAvailable": available})
}
