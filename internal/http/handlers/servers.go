package handlers

import (
	"log/slog"
	"strings"

	"github.com/Rech1n/Kitsune/internal/hybrid"
	"github.com/Rech1n/Kitsune/internal/models"
	"github.com/gofiber/fiber/v2"
)

type registerServerRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	BaseURL  string `json:"baseUrl"`
	IsActive *bool  `json:"isActive"`
	Priority int    `json:"priority"`
}

type ServersHandler struct {
	resolver *hybrid.Resolver
	logger   *slog.Logger
}

func NewServersHandler(resolver *hybrid.Resolver, logger *slog.Logger) *ServersHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServersHandler{resolver: resolver, logger: logger}
}

// ForEpisode lists the servers for an episode. With episodeId it also
// attaches the full merged view; a failure there only drops serverStreams.
func (h *ServersHandler) ForEpisode(c *fiber.Ctx) error {
	animeID := strings.TrimSpace(c.Query("animeId"))
	if animeID == "" {
		return badRequest(c, "animeId parameter is required")
	}
	episode, err := parsePositiveInt(c.Query("episodeNumber"), 1)
	if err != nil {
		return badRequest(c, "episodeNumber "+err.Error())
	}
	category, err := models.ParseLanguageType(c.Query("category"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	var serverStreams *hybrid.EpisodeView
	if episodeID := strings.TrimSpace(c.Query("episodeId")); episodeID != "" {
		view, err := h.resolver.EpisodeStreamsWithServers(c.UserContext(), hybrid.Query{
			EpisodeID:     episodeID,
			AnimeID:       animeID,
			EpisodeNumber: episode,
			Category:      category,
		})
		if err != nil {
			h.logger.Warn("could not resolve server streams", "episodeId", episodeID, "error", err)
		} else {
			serverStreams = view
		}
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"animeId":       animeID,
		"episodeNumber": episode,
		"servers":       h.resolver.AvailableServersForEpisode(animeID, episode),
		"serverStreams": serverStreams,
	})
}

func (h *ServersHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "servers": h.resolver.Servers()})
}

func (h *ServersHandler) Register(c *fiber.Ctx) error {
	var req registerServerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid json body")
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return badRequest(c, "id is required")
	}

	server := models.StreamServer{
		ID:       id,
		Name:     strings.TrimSpace(req.Name),
		BaseURL:  strings.TrimRight(strings.TrimSpace(req.BaseURL), "/"),
		IsActive: req.IsActive == nil || *req.IsActive,
		Priority: req.Priority,
	}
	if server.Name == "" {
		server.Name = id
	}

	if err := h.resolver.RegisterServer(server); err != nil {
		return failure(c, "failed to register server", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "server": server})
}
