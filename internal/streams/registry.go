package streams

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Rech1n/Kitsune/internal/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	DefaultServerID = "yaichi-anime"

	// ReservedPriority belongs to the built-in hianime entry; registered
	// servers must rank strictly below it.
	ReservedPriority = 999
)

var (
	ErrInvalidStream = errors.New("invalid stream")
	ErrInvalidServer = errors.New("invalid server")
)

type AddRequest struct {
	AnimeID       string
	EpisodeNumber int
	StreamURL     string
	Resolution    models.Resolution
	Language      models.LanguageType
	ServerID      string
}

type episodeKey struct {
	animeID string
	episode int
}

// Registry holds custom stream records grouped by (anime, episode) together
// with the known stream servers. A single lock covers the whole store.
type Registry struct {
	mu          sync.RWMutex
	streams     map[episodeKey][]models.CustomStreamSource
	servers     map[string]models.StreamServer
	serverOrder []string

	now   func() time.Time
	newID func(animeID string, episode int, serverID string) string
}

func DefaultServers() []models.StreamServer {
	return []models.StreamServer{
		{ID: "yaichi-anime", Name: "Yaichi", BaseURL: "http://yaichi-anime.ddns.net:8080", IsActive: true, Priority: 3},
		{ID: "bluease", Name: "Bluease", BaseURL: "http://bluease.example.com:8080", IsActive: true, Priority: 2},
		{ID: "custom-server-1", Name: "Custom Server 1", BaseURL: "http://custom1.example.com:8080", IsActive: false, Priority: 1},
	}
}

func NewRegistry() *Registry {
	return NewRegistryWithServers(DefaultServers())
}

func NewRegistryWithServers(servers []models.StreamServer) *Registry {
	r := &Registry{
		streams: map[episodeKey][]models.CustomStreamSource{},
		servers: map[string]models.StreamServer{},
		now:     func() time.Time { return time.Now().UTC() },
		newID:   generateStreamID,
	}
	for _, server := range servers {
		_ = r.RegisterServer(server)
	}
	return r
}

func generateStreamID(animeID string, episode int, serverID string) string {
	return fmt.Sprintf("%s-%d-%s-%s", animeID, episode, serverID, uuid.NewString())
}

func normalizeAddRequest(req AddRequest) (AddRequest, error) {
	req.AnimeID = strings.TrimSpace(req.AnimeID)
	req.ServerID = strings.TrimSpace(req.ServerID)

	if req.AnimeID == "" {
		return req, fmt.Errorf("%w: animeId is required", ErrInvalidStream)
	}
	if req.EpisodeNumber <= 0 {
		return req, fmt.Errorf("%w: episodeNumber must be greater than zero", ErrInvalidStream)
	}
	if req.Resolution == "" {
		req.Resolution = models.DefaultResolution
	}
	if !req.Resolution.Valid() {
		return req, fmt.Errorf("%w: unsupported quality %q", ErrInvalidStream, req.Resolution)
	}
	if req.Language == "" {
		req.Language = models.DefaultLanguage
	}
	if !req.Language.Valid() {
		return req, fmt.Errorf("%w: unsupported language %q", ErrInvalidStream, req.Language)
	}
	if req.ServerID == "" {
		req.ServerID = DefaultServerID
	}
	return req, nil
}

// Add stores a stream for the episode. A previous record with the same
// server, resolution and language is dropped and the new one appended.
func (r *Registry) Add(req AddRequest) (models.CustomStreamSource, error) {
	normalized, err := normalizeAddRequest(req)
	if err != nil {
		return models.CustomStreamSource{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.addLocked(normalized), nil
}

func (r *Registry) addLocked(req AddRequest) models.CustomStreamSource {
	now := r.now()
	stream := models.CustomStreamSource{
		ID:            r.newID(req.AnimeID, req.EpisodeNumber, req.ServerID),
		AnimeID:       req.AnimeID,
		EpisodeNumber: req.EpisodeNumber,
		StreamURL:     req.StreamURL,
		Quality:       models.Quality{Resolution: req.Resolution},
		Language:      models.Language{Type: req.Language},
		Server:        req.ServerID,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	key := episodeKey{animeID: req.AnimeID, episode: req.EpisodeNumber}
	kept := lo.Reject(r.streams[key], func(existing models.CustomStreamSource, _ int) bool {
		return existing.Server == stream.Server &&
			existing.Quality.Resolution == stream.Quality.Resolution &&
			existing.Language.Type == stream.Language.Type
	})
	r.streams[key] = append(kept, stream)

	return stream
}

// BulkAdd applies Add in order. It stops at the first invalid request and
// keeps everything stored before it.
func (r *Registry) BulkAdd(reqs []AddRequest) ([]models.CustomStreamSource, error) {
	created := make([]models.CustomStreamSource, 0, len(reqs))
	for i, req := range reqs {
		stream, err := r.Add(req)
		if err != nil {
			return created, fmt.Errorf("stream %d: %w", i, err)
		}
		created = append(created, stream)
	}
	return created, nil
}

func (r *Registry) Streams(animeID string, episode int) []models.CustomStreamSource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group := r.streams[episodeKey{animeID: strings.TrimSpace(animeID), episode: episode}]
	out := make([]models.CustomStreamSource, len(group))
	copy(out, group)
	return out
}

func (r *Registry) Remove(streamID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, group := range r.streams {
		_, idx, found := lo.FindIndexOf(group, func(s models.CustomStreamSource) bool { return s.ID == streamID })
		if !found {
			continue
		}
		remaining := append(group[:idx:idx], group[idx+1:]...)
		if len(remaining) == 0 {
			delete(r.streams, key)
		} else {
			r.streams[key] = remaining
		}
		return true
	}
	return false
}

func (r *Registry) SetActive(streamID string, active bool) (models.CustomStreamSource, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, group := range r.streams {
		for i := range group {
			if group[i].ID != streamID {
				continue
			}
			group[i].IsActive = active
			group[i].UpdatedAt = r.now()
			return group[i], true
		}
	}
	return models.CustomStreamSource{}, false
}

// RegisterServer inserts or replaces a server by id. Replacing keeps the
// original registration position.
func (r *Registry) RegisterServer(server models.StreamServer) error {
	server.ID = strings.TrimSpace(server.ID)
	if server.ID == "" {
		return fmt.Errorf("%w: server id is required", ErrInvalidServer)
	}
	if server.Priority >= ReservedPriority {
		return fmt.Errorf("%w: priority must be below %d", ErrInvalidServer, ReservedPriority)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.servers[server.ID]; !exists {
		r.serverOrder = append(r.serverOrder, server.ID)
	}
	r.servers[server.ID] = server
	return nil
}

func (r *Registry) Server(id string) (models.StreamServer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	server, ok := r.servers[id]
	return server, ok
}

func (r *Registry) Servers() []models.StreamServer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.serverOrder, func(id string, _ int) models.StreamServer { return r.servers[id] })
}

func (r *Registry) ActiveServers() []models.StreamServer {
	active := lo.Filter(r.Servers(), func(server models.StreamServer, _ int) bool { return server.IsActive })
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority > active[j].Priority
	})
	return active
}

func (r *Registry) Stats() models.StreamStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := models.StreamStats{StreamsByServer: map[string]int{}}
	for _, group := range r.streams {
		for _, stream := range group {
			stats.TotalStreams++
			if stream.IsActive {
				stats.ActiveStreams++
			}
			stats.StreamsByServer[stream.Server]++
		}
	}
	return stats
}
