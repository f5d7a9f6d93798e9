package handlers_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Rech1n/Kitsune/internal/hianime"
	"github.com/Rech1n/Kitsune/internal/streams"
)

func TestCatalogPassThroughs(t *testing.T) {
	catalog := &fakeCatalog{}
	_, app := setupTestApp(t, catalog)

	status, payload := doRequest(t, app, http.MethodGet, "/api/search?q=one%20piece&page=2", "")
	expectStatus(t, status, http.StatusOK, payload)
	if payload["success"] != true || catalog.lastSearchPage != 2 {
		t.Fatalf("unexpected search payload: %v", payload)
	}

	status, payload = doRequest(t, app, http.MethodGet, "/api/search/suggestion?q=one", "")
	expectStatus(t, status, http.StatusOK, payload)

	status, payload = doRequest(t, app, http.MethodGet, "/api/anime/one-piece-100", "")
	expectStatus(t, status, http.StatusOK, payload)
	info := payload["data"].(map[string]any)["anime"].(map[string]any)["info"].(map[string]any)
	if info["id"] != "one-piece-100" {
		t.Fatalf("expected opaque document to pass through, got %v", payload)
	}

	status, payload = doRequest(t, app, http.MethodGet, "/api/anime/one-piece-100/episodes", "")
	expectStatus(t, status, http.StatusOK, payload)

	status, payload = doRequest(t, app, http.MethodGet, "/api/episode/servers?animeEpisodeId=one-piece-100%3Fep%3D2142", "")
	expectStatus(t, status, http.StatusOK, payload)
	if payload["data"].(map[string]any)["episodeId"] != "one-piece-100?ep=2142" {
		t.Fatalf("unexpected servers payload: %v", payload)
	}

	status, payload = doRequest(t, app, http.MethodGet, "/api/schedule", "")
	expectStatus(t, status, http.StatusOK, payload)
	if catalog.lastSchedule != time.Now().UTC().Format("2006-01-02") {
		t.Fatalf("expected schedule to default to today, got %q", catalog.lastSchedule)
	}

	status, payload = doRequest(t, app, http.MethodGet, "/api/home", "")
	expectStatus(t, status, http.StatusOK, payload)
}

func TestCatalogValidationAndErrors(t *testing.T) {
	catalog := &fakeCatalog{infoErr: &hianime.GatewayError{Kind: hianime.KindStatus, Op: "anime info", StatusCode: http.StatusNotFound}}
	_, app := setupTestApp(t, catalog)

	for _, target := range []string{
		"/api/search",
		"/api/search?q=x&page=0",
		"/api/search/suggestion",
		"/api/episode/servers",
		"/api/schedule?date=15-10-2026",
		"/api/admin/search",
	} {
		status, payload := doRequest(t, app, http.MethodGet, target, "")
		expectStatus(t, status, http.StatusBadRequest, payload)
	}

	status, payload := doRequest(t, app, http.MethodGet, "/api/anime/missing", "")
	expectStatus(t, status, http.StatusNotFound, payload)
	if payload["error"] == nil || payload["message"] == nil {
		t.Fatalf("expected error envelope with message, got %v", payload)
	}

	catalog.infoErr = errors.New("connection reset")
	status, payload = doRequest(t, app, http.MethodGet, "/api/anime/broken", "")
	expectStatus(t, status, http.StatusInternalServerError, payload)

	catalog.infoErr = &hianime.GatewayError{Kind: hianime.KindInvalidArgument, Op: "anime info", Err: errors.New("anime id is required")}
	status, payload = doRequest(t, app, http.MethodGet, "/api/anime/rejected", "")
	expectStatus(t, status, http.StatusBadRequest, payload)
}

func TestAdminSearch(t *testing.T) {
	_, app := setupTestApp(t, &fakeCatalog{})

	status, payload := doRequest(t, app, http.MethodGet, "/api/admin/search?q=naruto", "")
	expectStatus(t, status, http.StatusOK, payload)
	if payload["page"] != float64(1) || payload["query"] != "naruto" {
		t.Fatalf("unexpected search payload: %v", payload)
	}

	status, payload = doRequest(t, app, http.MethodGet, "/api/admin/search?q=naruto&type=suggestions", "")
	expectStatus(t, status, http.StatusOK, payload)
	if _, hasPage := payload["page"]; hasPage {
		t.Fatalf("suggestions should not carry a page: %v", payload)
	}
}

func TestAdminServers(t *testing.T) {
	registry, app := setupTestApp(t, &fakeCatalog{sources: providerSources()})
	if _, err := registry.Add(streams.AddRequest{AnimeID: "one-piece", EpisodeNumber: 1, StreamURL: "http://b/1.mp4", ServerID: "bluease"}); err != nil {
		t.Fatalf("seed stream: %v", err)
	}

	status, payload := doRequest(t, app, http.MethodGet, "/api/admin/servers", "")
	expectStatus(t, status, http.StatusBadRequest, payload)

	status, payload = doRequest(t, app, http.MethodGet, "/api/admin/servers?animeId=one-piece", "")
	expectStatus(t, status, http.StatusOK, payload)
	if payload["episodeNumber"] != float64(1) || payload["serverStreams"] != nil {
		t.Fatalf("unexpected servers payload: %v", payload)
	}
	if servers := payload["servers"].([]any); len(servers) != 2 {
		t.Fatalf("expected hianime and bluease, got %v", servers)
	}

	status, payload = doRequest(t, app, http.MethodGet, "/api/admin/servers?animeId=one-piece&episodeId=x%3Fep%3D1", "")
	expectStatus(t, status, http.StatusOK, payload)
	view := payload["serverStreams"].(map[string]any)
	if view["totalServers"] != float64(2) {
		t.Fatalf("expected merged view, got %v", view)
	}

	status, payload = doRequest(t, app, http.MethodPost, "/api/admin/servers", `{"id":"mirror","baseUrl":"http://mirror.example/","priority":7}`)
	expectStatus(t, status, http.StatusCreated, payload)
	server := payload["server"].(map[string]any)
	if server["name"] != "mirror" || server["isActive"] != true || server["baseUrl"] != "http://mirror.example" {
		t.Fatalf("unexpected registered server: %v", server)
	}

	status, payload = doRequest(t, app, http.MethodPost, "/api/admin/servers", `{"name":"no id"}`)
	expectStatus(t, status, http.StatusBadRequest, payload)

	status, payload = doRequest(t, app, http.MethodPost, "/api/admin/servers", `{"id":"x","priority":1500}`)
	expectStatus(t, status, http.StatusBadRequest, payload)
	if msg, _ := payload["error"].(string); !strings.Contains(msg, "priority") {
		t.Fatalf("expected priority error, got %v", payload)
	}

	status, payload = doRequest(t, app, http.MethodGet, "/api/admin/servers/registry", "")
	expectStatus(t, status, http.StatusOK, payload)
	if servers := payload["servers"].([]any); len(servers) != 4 {
		t.Fatalf("expected four registered servers, got %v", servers)
	}
}

func TestHealth(t *testing.T) {
	catalog := &fakeCatalog{}
	_, app := setupTestApp(t, catalog)

	status, payload := doRequest(t, app, http.MethodGet, "/health", "")
	expectStatus(t, status, http.StatusOK, payload)
	if payload["status"] != "ok" || payload["hianime"] != "up" {
		t.Fatalf("unexpected health payload: %v", payload)
	}

	catalog.pingErr = errors.New("connection refused")
	status, payload = doRequest(t, app, http.MethodGet, "/api/health", "")
	expectStatus(t, status, http.StatusOK, payload)
	if payload["status"] != "degraded" || payload["hianime"] != "down" {
		t.Fatalf("expected degraded health, got %v", payload)
	}
}
