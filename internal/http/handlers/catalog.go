package handlers

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/Rech1n/Kitsune/internal/hianime"
	"github.com/gofiber/fiber/v2"
)

// Catalog is the hianime surface the transport exposes. *hianime.Client
// satisfies it.
type Catalog interface {
	Ping(ctx context.Context) error
	Search(ctx context.Context, query string, page int) (*hianime.SearchResult, error)
	SearchSuggestions(ctx context.Context, query string) (*hianime.Suggestions, error)
	AnimeInfo(ctx context.Context, animeID string) (*hianime.Document, error)
	Episodes(ctx context.Context, animeID string) (*hianime.Episodes, error)
	EpisodeServers(ctx context.Context, episodeID string) (*hianime.EpisodeServers, error)
	EpisodeSources(ctx context.Context, episodeID, server, category string) (*hianime.EpisodeSources, error)
	EstimatedSchedule(ctx context.Context, date string) (*hianime.Schedule, error)
	HomePage(ctx context.Context) (*hianime.Document, error)
}

type CatalogHandler struct {
	catalog Catalog
	now     func() time.Time
}

func NewCatalogHandler(catalog Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, now: time.Now}
}

// AdminSearch serves the operator search box: type=suggestions for
// autocomplete, paginated search otherwise.
func (h *CatalogHandler) AdminSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return badRequest(c, "Query parameter 'q' is required")
	}

	if c.Query("type") == "suggestions" {
		results, err := h.catalog.SearchSuggestions(c.UserContext(), query)
		if err != nil {
			return failure(c, "failed to fetch suggestions", err)
		}
		return c.JSON(fiber.Map{"success": true, "query": query, "results": results})
	}

	page, err := parsePositiveInt(c.Query("page"), 1)
	if err != nil {
		return badRequest(c, "page "+err.Error())
	}
	results, err := h.catalog.Search(c.UserContext(), query, page)
	if err != nil {
		return failure(c, "failed to search anime", err)
	}
	return c.JSON(fiber.Map{"success": true, "query": query, "page": page, "results": results})
}

func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return badRequest(c, "Query parameter 'q' is required")
	}
	page, err := parsePositiveInt(c.Query("page"), 1)
	if err != nil {
		return badRequest(c, "page "+err.Error())
	}

	results, err := h.catalog.Search(c.UserContext(), query, page)
	if err != nil {
		return failure(c, "failed to search anime", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": results})
}

func (h *CatalogHandler) Suggestions(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return badRequest(c, "Query parameter 'q' is required")
	}

	results, err := h.catalog.SearchSuggestions(c.UserContext(), query)
	if err != nil {
		return failure(c, "failed to fetch suggestions", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": results})
}

func (h *CatalogHandler) AnimeInfo(c *fiber.Ctx) error {
	animeID := pathParam(c, "id")
	if animeID == "" {
		return badRequest(c, "anime id is required")
	}

	info, err := h.catalog.AnimeInfo(c.UserContext(), animeID)
	if err != nil {
		return failure(c, "failed to fetch anime info", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": info})
}

func (h *CatalogHandler) Episodes(c *fiber.Ctx) error {
	animeID := pathParam(c, "id")
	if animeID == "" {
		return badRequest(c, "anime id is required")
	}

	episodes, err := h.catalog.Episodes(c.UserContext(), animeID)
	if err != nil {
		return failure(c, "failed to fetch episodes", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": episodes})
}

func (h *CatalogHandler) EpisodeServers(c *fiber.Ctx) error {
	episodeID := strings.TrimSpace(c.Query("animeEpisodeId"))
	if episodeID == "" {
		return badRequest(c, "Missing required parameter: animeEpisodeId")
	}
	if decoded, err := url.QueryUnescape(episodeID); err == nil {
		episodeID = decoded
	}

	servers, err := h.catalog.EpisodeServers(c.UserContext(), episodeID)
	if err != nil {
		return failure(c, "failed to fetch episode servers", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": servers})
}

func (h *CatalogHandler) Schedule(c *fiber.Ctx) error {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		date = h.now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return badRequest(c, "date must be YYYY-MM-DD")
	}

	schedule, err := h.catalog.EstimatedSchedule(c.UserContext(), date)
	if err != nil {
		return failure(c, "failed to fetch schedule", err)
	}
	return c.JSON(fiber.Map{"success": true, "date": date, "data": schedule})
}

func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	home, err := h.catalog.HomePage(c.UserContext())
	if err != nil {
		return failure(c, "failed to fetch home page", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": home})
}

func pathParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	return strings.TrimSpace(raw)
}
