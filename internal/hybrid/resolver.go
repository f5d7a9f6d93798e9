package hybrid

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/Rech1n/Kitsune/internal/hianime"
	"github.com/Rech1n/Kitsune/internal/models"
	"github.com/Rech1n/Kitsune/internal/streams"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type streamStore interface {
	Add(req streams.AddRequest) (models.CustomStreamSource, error)
	BulkAdd(reqs []streams.AddRequest) ([]models.CustomStreamSource, error)
	Streams(animeID string, episode int) []models.CustomStreamSource
	Remove(streamID string) bool
	SetActive(streamID string, active bool) (models.CustomStreamSource, bool)
	ActiveServers() []models.StreamServer
	Servers() []models.StreamServer
	RegisterServer(server models.StreamServer) error
	Stats() models.StreamStats
}

// SourceGateway is the slice of the hianime client the resolver needs.
type SourceGateway interface {
	EpisodeSources(ctx context.Context, episodeID, server, category string) (*hianime.EpisodeSources, error)
}

// Resolver merges operator-registered custom streams with the hianime
// provider into a single server-ordered view per episode.
type Resolver struct {
	store   streamStore
	gateway SourceGateway
	logger  *slog.Logger
}

func NewResolver(store streamStore, gateway SourceGateway, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, gateway: gateway, logger: logger}
}

func normalizeQuery(q Query) (Query, error) {
	q.EpisodeID = strings.TrimSpace(q.EpisodeID)
	q.AnimeID = strings.TrimSpace(q.AnimeID)

	if q.EpisodeID == "" {
		return q, fmt.Errorf("%w: episode id is required", ErrInvalidQuery)
	}
	if q.AnimeID == "" {
		return q, fmt.Errorf("%w: anime id is required", ErrInvalidQuery)
	}
	if q.EpisodeNumber <= 0 {
		return q, fmt.Errorf("%w: episode number must be greater than zero", ErrInvalidQuery)
	}
	if q.Category == "" {
		q.Category = models.DefaultLanguage
	}
	if !q.Category.Valid() {
		return q, fmt.Errorf("%w: unsupported category %q", ErrInvalidQuery, q.Category)
	}
	return q, nil
}

// EpisodeStreamsWithServers builds the merged view. The hianime entry is
// always present; a failing provider only clears its hasStreams flag.
func (r *Resolver) EpisodeStreamsWithServers(ctx context.Context, q Query) (*EpisodeView, error) {
	q, err := normalizeQuery(q)
	if err != nil {
		return nil, err
	}

	custom := lo.Filter(r.store.Streams(q.AnimeID, q.EpisodeNumber), func(stream models.CustomStreamSource, _ int) bool {
		return stream.IsActive && stream.Language.Type == q.Category
	})
	servers := r.store.ActiveServers()

	externalSources, fetchErr := r.fetchExternal(ctx, q).Get()
	if fetchErr != nil {
		r.logger.Warn("hianime streams not available", "episodeId", q.EpisodeID, "category", q.Category, "error", fetchErr)
	}
	hasExternal := fetchErr == nil && len(externalSources.Sources) > 0

	streamData := hianime.EmptyEpisodeSources()
	if hasExternal {
		streamData = externalSources
	}

	entries := []ServerEntry{{
		ID:         ExternalServerID,
		Name:       ExternalServerName,
		Priority:   ExternalPriority,
		IsActive:   true,
		HasStreams: hasExternal,
		StreamData: streamData,
	}}

	byServer := lo.GroupBy(custom, func(stream models.CustomStreamSource) string { return stream.Server })
	for _, server := range servers {
		serverStreams := byServer[server.ID]
		if len(serverStreams) == 0 {
			continue
		}
		entries = append(entries, ServerEntry{
			ID:         server.ID,
			Name:       server.Name,
			Priority:   server.Priority,
			IsActive:   server.IsActive,
			HasStreams: true,
			Streams:    serverStreams,
			StreamData: NormalizeCustomStream(serverStreams[0]),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority > entries[j].Priority
	})

	return &EpisodeView{
		EpisodeID:         q.EpisodeID,
		AnimeID:           q.AnimeID,
		EpisodeNumber:     q.EpisodeNumber,
		AvailableServers:  entries,
		TotalServers:      len(entries),
		HasCustomStreams:  len(custom) > 0,
		HasHiAnimeStreams: hasExternal,
	}, nil
}

func (r *Resolver) fetchExternal(ctx context.Context, q Query) mo.Result[*hianime.EpisodeSources] {
	if r.gateway == nil {
		return mo.Errf[*hianime.EpisodeSources]("hianime gateway is not configured")
	}
	sources, err := r.gateway.EpisodeSources(ctx, decodeEpisodeID(q.EpisodeID), "", string(q.Category))
	if err != nil {
		return mo.Err[*hianime.EpisodeSources](err)
	}
	if sources == nil {
		return mo.Ok(hianime.EmptyEpisodeSources())
	}
	return mo.Ok(sources)
}

func decodeEpisodeID(episodeID string) string {
	decoded, err := url.PathUnescape(episodeID)
	if err != nil {
		return episodeID
	}
	return decoded
}

func (r *Resolver) EpisodeStreams(ctx context.Context, q Query) (*LegacyView, error) {
	view, err := r.EpisodeStreamsWithServers(ctx, q)
	if err != nil {
		return nil, err
	}

	legacy := &LegacyView{
		EpisodeID:        view.EpisodeID,
		AnimeID:          view.AnimeID,
		EpisodeNumber:    view.EpisodeNumber,
		AvailableStreams: []models.CustomStreamSource{},
		FallbackStreams:  []*hianime.EpisodeSources{},
	}
	for _, entry := range view.AvailableServers {
		if entry.ID == ExternalServerID {
			legacy.FallbackStreams = append(legacy.FallbackStreams, entry.StreamData)
			continue
		}
		legacy.AvailableStreams = append(legacy.AvailableStreams, entry.Streams...)
	}
	return legacy, nil
}

// BestAvailableStream prefers the first custom stream, then the provider
// payload, then an empty playable shape.
func (r *Resolver) BestAvailableStream(ctx context.Context, q Query) (*hianime.EpisodeSources, error) {
	legacy, err := r.EpisodeStreams(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(legacy.AvailableStreams) > 0 {
		return NormalizeCustomStream(legacy.AvailableStreams[0]), nil
	}
	if len(legacy.FallbackStreams) > 0 {
		return legacy.FallbackStreams[0], nil
	}
	return hianime.EmptyEpisodeSources(), nil
}

func (r *Resolver) StreamByServer(ctx context.Context, q Query, serverID string) (*hianime.EpisodeSources, error) {
	view, err := r.EpisodeStreamsWithServers(ctx, q)
	if err != nil {
		return nil, err
	}

	entry, ok := view.Entry(strings.TrimSpace(serverID))
	if !ok {
		return nil, &NotFoundError{Resource: "server", ID: serverID}
	}
	return entry.StreamData, nil
}

// AvailableServersForEpisode lists the servers that could play the episode
// without touching the provider. Any internal fault degrades to the hianime
// entry alone.
func (r *Resolver) AvailableServersForEpisode(animeID string, episode int) (servers []ServerSummary) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("available servers lookup failed", "animeId", animeID, "episodeNumber", episode, "panic", rec)
			servers = []ServerSummary{externalSummary()}
		}
	}()

	active := lo.Filter(r.store.Streams(animeID, episode), func(stream models.CustomStreamSource, _ int) bool {
		return stream.IsActive
	})
	withStreams := lo.Filter(r.store.ActiveServers(), func(server models.StreamServer, _ int) bool {
		return lo.ContainsBy(active, func(stream models.CustomStreamSource) bool { return stream.Server == server.ID })
	})

	servers = append([]ServerSummary{externalSummary()}, lo.Map(withStreams, func(server models.StreamServer, _ int) ServerSummary {
		return ServerSummary{ID: server.ID, Name: server.Name, Priority: server.Priority, IsActive: server.IsActive, HasStreams: true}
	})...)
	sort.SliceStable(servers, func(i, j int) bool {
		return servers[i].Priority > servers[j].Priority
	})
	return servers
}

func externalSummary() ServerSummary {
	return ServerSummary{ID: ExternalServerID, Name: ExternalServerName, Priority: ExternalPriority, IsActive: true, HasStreams: true}
}

// NormalizeCustomStream presents a custom stream in the provider's playable
// shape.
func NormalizeCustomStream(stream models.CustomStreamSource) *hianime.EpisodeSources {
	sources := hianime.EmptyEpisodeSources()
	sources.Sources = []hianime.Source{{
		URL:     stream.StreamURL,
		Quality: string(stream.Quality.Resolution),
		IsM3U8:  strings.Contains(stream.StreamURL, ".m3u8"),
	}}
	return sources
}
