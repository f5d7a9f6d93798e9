package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Rech1n/Kitsune/internal/config"
	"github.com/Rech1n/Kitsune/internal/hianime"
	apihttp "github.com/Rech1n/Kitsune/internal/http"
	"github.com/Rech1n/Kitsune/internal/streams"
	"github.com/gofiber/fiber/v2"
)

type fakeCatalog struct {
	mu sync.Mutex

	pingErr    error
	sources    *hianime.EpisodeSources
	sourcesErr error
	infoErr    error

	lastSourcesEpisode string
	lastSchedule       string
	lastSearchPage     int
}

func (f *fakeCatalog) Ping(context.Context) error { return f.pingErr }

func (f *fakeCatalog) Search(_ context.Context, query string, page int) (*hianime.SearchResult, error) {
	f.mu.Lock()
	f.lastSearchPage = page
	f.mu.Unlock()
	return &hianime.SearchResult{
		Animes:      []hianime.AnimeSummary{{ID: "one-piece-100", Name: "One Piece"}},
		CurrentPage: page,
		TotalPages:  1,
	}, nil
}

func (f *fakeCatalog) SearchSuggestions(context.Context, string) (*hianime.Suggestions, error) {
	return &hianime.Suggestions{Suggestions: []hianime.Suggestion{{ID: "one-piece-100", Name: "One Piece"}}}, nil
}

func (f *fakeCatalog) AnimeInfo(_ context.Context, animeID string) (*hianime.Document, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	var doc hianime.Document
	if err := json.Unmarshal([]byte(`{"anime":{"info":{"id":"`+animeID+`"}}}`), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (f *fakeCatalog) Episodes(context.Context, string) (*hianime.Episodes, error) {
	return &hianime.Episodes{TotalEpisodes: 1, Episodes: []hianime.Episode{{EpisodeID: "one-piece-100?ep=2142", Number: 1}}}, nil
}

func (f *fakeCatalog) EpisodeServers(_ context.Context, episodeID string) (*hianime.EpisodeServers, error) {
	return &hianime.EpisodeServers{EpisodeID: episodeID, Sub: []hianime.ServerRef{{ServerName: "hd-1", ServerID: 4}}}, nil
}

func (f *fakeCatalog) EpisodeSources(_ context.Context, episodeID, _ string, _ string) (*hianime.EpisodeSources, error) {
	f.mu.Lock()
	f.lastSourcesEpisode = episodeID
	f.mu.Unlock()
	if f.sourcesErr != nil {
		return nil, f.sourcesErr
	}
	if f.sources == nil {
		return hianime.EmptyEpisodeSources(), nil
	}
	return f.sources, nil
}

func (f *fakeCatalog) EstimatedSchedule(_ context.Context, date string) (*hianime.Schedule, error) {
	f.mu.Lock()
	f.lastSchedule = date
	f.mu.Unlock()
	return &hianime.Schedule{ScheduledAnimes: []hianime.ScheduledAnime{}}, nil
}

func (f *fakeCatalog) HomePage(context.Context) (*hianime.Document, error) {
	var doc hianime.Document
	_ = json.Unmarshal([]byte(`{"spotlightAnimes":[]}`), &doc)
	return &doc, nil
}

func providerSources() *hianime.EpisodeSources {
	sources := hianime.EmptyEpisodeSources()
	sources.Sources = []hianime.Source{
		{URL: "https://cdn.example/a/master.m3u8", IsM3U8: true},
		{URL: "https://cdn.example/b/master.m3u8", IsM3U8: true},
	}
	return sources
}

func setupTestApp(t *testing.T, catalog *fakeCatalog) (*streams.Registry, *fiber.App) {
	t.Helper()

	registry := streams.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := apihttp.NewServer(config.Config{AppName: "test-app", CORSAllowOrigins: "*"}, registry, catalog, logger)
	t.Cleanup(func() {
		_ = app.Shutdown()
	})
	return registry, app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	defer res.Body.Close()

	var payload map[string]any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode %s %s payload: %v", method, target, err)
	}
	return res.StatusCode, payload
}

func expectStatus(t *testing.T, got int, want int, payload map[string]any) {
	t.Helper()
	if got != want {
		t.Fatalf("expected %d, got %d (%v)", want, got, payload)
	}
}
