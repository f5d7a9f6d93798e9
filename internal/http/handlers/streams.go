package handlers

import (
	"fmt"
	"strings"

	"github.com/Rech1n/Kitsune/internal/hybrid"
	"github.com/Rech1n/Kitsune/internal/models"
	"github.com/gofiber/fiber/v2"
)

type streamRequest struct {
	AnimeID       string `json:"animeId"`
	EpisodeNumber int    `json:"episodeNumber"`
	StreamURL     string `json:"streamUrl"`
	Quality       string `json:"quality"`
	Language      string `json:"language"`
	ServerID      string `json:"serverId"`
}

type createStreamsRequest struct {
	streamRequest
	Bulk    bool            `json:"bulk"`
	Streams []streamRequest `json:"streams"`
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

type StreamsHandler struct {
	resolver *hybrid.Resolver
}

func NewStreamsHandler(resolver *hybrid.Resolver) *StreamsHandler {
	return &StreamsHandler{resolver: resolver}
}

func (h *StreamsHandler) List(c *fiber.Ctx) error {
	if c.Query("action") == "stats" {
		return c.JSON(fiber.Map{"success": true, "stats": h.resolver.StreamingStats()})
	}

	animeID := strings.TrimSpace(c.Query("animeId"))
	if animeID == "" || strings.TrimSpace(c.Query("episodeNumber")) == "" {
		return badRequest(c, "animeId and episodeNumber are required")
	}
	episode, err := parsePositiveInt(c.Query("episodeNumber"), 0)
	if err != nil {
		return badRequest(c, "episodeNumber "+err.Error())
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"animeId":       animeID,
		"episodeNumber": episode,
		"streams":       h.resolver.CustomStreams(animeID, episode),
	})
}

// Create handles both the single and the bulk form. A bulk request is
// validated in full before anything is stored.
func (h *StreamsHandler) Create(c *fiber.Ctx) error {
	var req createStreamsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid json body")
	}

	if req.Bulk {
		if len(req.Streams) == 0 {
			return badRequest(c, "streams array is required for bulk add")
		}
		inputs := make([]hybrid.StreamInput, 0, len(req.Streams))
		for i, item := range req.Streams {
			input, err := toStreamInput(item)
			if err != nil {
				return badRequest(c, fmt.Sprintf("stream %d: %s", i, err.Error()))
			}
			inputs = append(inputs, input)
		}

		created, err := h.resolver.BulkAddCustomStreams(inputs)
		if err != nil {
			return failure(c, "failed to add streams", err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": fmt.Sprintf("Added %d streams", len(created)),
			"streams": created,
		})
	}

	input, err := toStreamInput(req.streamRequest)
	if err != nil {
		return badRequest(c, err.Error())
	}
	stream, err := h.resolver.AddCustomStream(input)
	if err != nil {
		return failure(c, "failed to add stream", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Stream added successfully",
		"stream":  stream,
	})
}

func (h *StreamsHandler) Delete(c *fiber.Ctx) error {
	streamID := strings.TrimSpace(c.Params("id"))
	if streamID == "" {
		streamID = strings.TrimSpace(c.Query("streamId"))
	}
	if streamID == "" {
		return badRequest(c, "streamId is required")
	}

	if !h.resolver.RemoveCustomStream(streamID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Stream not found"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Stream removed successfully"})
}

func (h *StreamsHandler) SetActive(c *fiber.Ctx) error {
	var req setActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid json body")
	}
	if req.IsActive == nil {
		return badRequest(c, "isActive is required")
	}

	stream, err := h.resolver.SetCustomStreamActive(c.Params("id"), *req.IsActive)
	if err != nil {
		if errorStatus(err) == fiber.StatusNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Stream not found"})
		}
		return failure(c, "failed to update stream", err)
	}
	return c.JSON(fiber.Map{"success": true, "stream": stream})
}

func toStreamInput(req streamRequest) (hybrid.StreamInput, error) {
	animeID := strings.TrimSpace(req.AnimeID)
	if animeID == "" || req.EpisodeNumber == 0 || strings.TrimSpace(req.StreamURL) == "" {
		return hybrid.StreamInput{}, fmt.Errorf("animeId, episodeNumber, and streamUrl are required")
	}
	if req.EpisodeNumber < 0 {
		return hybrid.StreamInput{}, fmt.Errorf("episodeNumber must be greater than zero")
	}

	quality, err := models.ParseResolution(req.Quality)
	if err != nil {
		return hybrid.StreamInput{}, err
	}
	language, err := models.ParseLanguageType(req.Language)
	if err != nil {
		return hybrid.StreamInput{}, err
	}

	return hybrid.StreamInput{
		AnimeID:       animeID,
		EpisodeNumber: req.EpisodeNumber,
		StreamURL:     req.StreamURL,
		Quality:       quality,
		Language:      language,
		ServerID:      strings.TrimSpace(req.ServerID),
	}, nil
}
