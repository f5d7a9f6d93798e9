package hybrid

import (
	"errors"
	"fmt"

	"github.com/Rech1n/Kitsune/internal/hianime"
	"github.com/Rech1n/Kitsune/internal/models"
	"github.com/Rech1n/Kitsune/internal/streams"
)

const (
	ExternalServerID   = "hianime"
	ExternalServerName = "HiAnime (Default)"
	// ExternalPriority sits above any operator-defined server priority.
	ExternalPriority = streams.ReservedPriority
)

var ErrInvalidQuery = errors.New("invalid episode query")

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.Resource == "server" {
		return fmt.Sprintf("server %s not found or has no streams available", e.ID)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

type Query struct {
	EpisodeID     string
	AnimeID       string
	EpisodeNumber int
	Category      models.LanguageType
}

type ServerEntry struct {
	ID         string                      `json:"id"`
	Name       string                      `json:"name"`
	Priority   int                         `json:"priority"`
	IsActive   bool                        `json:"isActive"`
	HasStreams bool                        `json:"hasStreams"`
	Streams    []models.CustomStreamSource `json:"streams,omitempty"`
	StreamData *hianime.EpisodeSources     `json:"streamData"`
}

type EpisodeView struct {
	EpisodeID         string        `json:"episodeId"`
	AnimeID           string        `json:"animeId"`
	EpisodeNumber     int           `json:"episodeNumber"`
	AvailableServers  []ServerEntry `json:"availableServers"`
	TotalServers      int           `json:"totalServers"`
	HasCustomStreams  bool          `json:"hasCustomStreams"`
	HasHiAnimeStreams bool          `json:"hasHiAnimeStreams"`
}

// Entry returns the entry for serverID, if the view has one.
func (v *EpisodeView) Entry(serverID string) (ServerEntry, bool) {
	for _, entry := range v.AvailableServers {
		if entry.ID == serverID {
			return entry, true
		}
	}
	return ServerEntry{}, false
}

// LegacyView is the flat custom/fallback split older clients read.
type LegacyView struct {
	EpisodeID        string                      `json:"episodeId"`
	AnimeID          string                      `json:"animeId"`
	EpisodeNumber    int                         `json:"episodeNumber"`
	AvailableStreams []models.CustomStreamSource `json:"availableStreams"`
	FallbackStreams  []*hianime.EpisodeSources   `json:"fallbackStreams"`
}

type ServerSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Priority   int    `json:"priority"`
	IsActive   bool   `json:"isActive"`
	HasStreams bool   `json:"hasStreams"`
}

type StreamInput struct {
	AnimeID       string
	EpisodeNumber int
	StreamURL     string
	Quality       models.Resolution
	Language      models.LanguageType
	ServerID      string
}
