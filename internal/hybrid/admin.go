package hybrid

import (
	"strings"

	"github.com/Rech1n/Kitsune/internal/models"
	"github.com/Rech1n/Kitsune/internal/streams"
	"github.com/samber/lo"
)

func (in StreamInput) addRequest() streams.AddRequest {
	req := streams.AddRequest{
		AnimeID:       strings.TrimSpace(in.AnimeID),
		EpisodeNumber: in.EpisodeNumber,
		StreamURL:     in.StreamURL,
		Resolution:    in.Quality,
		Language:      in.Language,
		ServerID:      strings.TrimSpace(in.ServerID),
	}
	if req.Resolution == "" {
		req.Resolution = models.DefaultResolution
	}
	if req.Language == "" {
		req.Language = models.DefaultLanguage
	}
	if req.ServerID == "" {
		req.ServerID = streams.DefaultServerID
	}
	return req
}

func (r *Resolver) AddCustomStream(in StreamInput) (models.CustomStreamSource, error) {
	return r.store.Add(in.addRequest())
}

func (r *Resolver) BulkAddCustomStreams(inputs []StreamInput) ([]models.CustomStreamSource, error) {
	return r.store.BulkAdd(lo.Map(inputs, func(in StreamInput, _ int) streams.AddRequest {
		return in.addRequest()
	}))
}

func (r *Resolver) RemoveCustomStream(streamID string) bool {
	return r.store.Remove(strings.TrimSpace(streamID))
}

func (r *Resolver) SetCustomStreamActive(streamID string, active bool) (models.CustomStreamSource, error) {
	stream, ok := r.store.SetActive(strings.TrimSpace(streamID), active)
	if !ok {
		return models.CustomStreamSource{}, &NotFoundError{Resource: "stream", ID: streamID}
	}
	return stream, nil
}

func (r *Resolver) CustomStreams(animeID string, episode int) []models.CustomStreamSource {
	return r.store.Streams(animeID, episode)
}

func (r *Resolver) RegisterServer(server models.StreamServer) error {
	return r.store.RegisterServer(server)
}

func (r *Resolver) Servers() []models.StreamServer {
	return r.store.Servers()
}

func (r *Resolver) StreamingStats() models.StreamStats {
	return r.store.Stats()
}
