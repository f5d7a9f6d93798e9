package yamlseed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Rech1n/Kitsune/internal/models"
	"github.com/Rech1n/Kitsune/internal/streams"
)

func TestLoadFromDirAndApply(t *testing.T) {
	tmpDir := t.TempDir()

	servers := `
servers:
  - id: mirror
    name: Mirror
    base_url: http://mirror.local:8080/
    priority: 5
  - id: parked
    active: false
    priority: 9
`

	episodes := `
streams:
  - anime_id: one-piece
    episode: 1
    url: http://mirror.local:8080/stream/1.m3u8
    server: mirror
  - anime_id: one-piece
    episode: 2
    url: http://mirror.local:8080/stream/2.mp4
    quality: 720p
    language: dub
`

	if err := os.WriteFile(filepath.Join(tmpDir, "a-servers.yaml"), []byte(servers), 0o644); err != nil {
		t.Fatalf("write servers yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "b-episodes.yml"), []byte(episodes), 0o644); err != nil {
		t.Fatalf("write episodes yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	seed, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("load seed dir: %v", err)
	}
	if len(seed.Servers) != 2 || len(seed.Streams) != 2 {
		t.Fatalf("expected 2 servers and 2 streams, got %d and %d", len(seed.Servers), len(seed.Streams))
	}

	registry := streams.NewRegistry()
	added, err := Apply(registry, seed)
	if err != nil {
		t.Fatalf("apply seed: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 streams added, got %d", added)
	}

	mirror, ok := registry.Server("mirror")
	if !ok || mirror.BaseURL != "http://mirror.local:8080" || !mirror.IsActive {
		t.Fatalf("unexpected mirror server: %+v", mirror)
	}
	parked, ok := registry.Server("parked")
	if !ok || parked.IsActive || parked.Name != "parked" {
		t.Fatalf("unexpected parked server: %+v", parked)
	}

	second := registry.Streams("one-piece", 2)
	if len(second) != 1 {
		t.Fatalf("expected 1 stream for episode 2, got %d", len(second))
	}
	if second[0].Server != streams.DefaultServerID || second[0].Quality.Resolution != models.Resolution720p || second[0].Language.Type != models.LanguageDub {
		t.Fatalf("unexpected episode 2 stream: %+v", second[0])
	}
}

func TestLoadFromDirReportsBrokenFiles(t *testing.T) {
	tmpDir := t.TempDir()

	valid := `
streams:
  - anime_id: naruto
    episode: 1
    url: http://x/1.m3u8
`
	if err := os.WriteFile(filepath.Join(tmpDir, "good.yaml"), []byte(valid), 0o644); err != nil {
		t.Fatalf("write good yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "bad.yaml"), []byte("streams: [unterminated"), 0o644); err != nil {
		t.Fatalf("write bad yaml: %v", err)
	}

	seed, err := LoadFromDir(tmpDir)
	if err == nil || !strings.Contains(err.Error(), "bad.yaml") {
		t.Fatalf("expected error naming bad.yaml, got %v", err)
	}
	if len(seed.Streams) != 1 {
		t.Fatalf("expected good file to still load, got %d streams", len(seed.Streams))
	}
}

func TestLoadFromDirMissing(t *testing.T) {
	seed, err := LoadFromDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("expected missing dir to be ignored, got %v", err)
	}
	if len(seed.Servers) != 0 || len(seed.Streams) != 0 {
		t.Fatalf("expected empty seed")
	}
}

func TestApplyKeepsValidEntriesAroundBadOnes(t *testing.T) {
	seed := Seed{
		Servers: []ServerConfig{
			{ID: "mirror", Priority: 4},
			{ID: "greedy", Priority: 1500},
		},
		Streams: []StreamConfig{
			{AnimeID: "naruto", Episode: 1, URL: "http://x/1.m3u8"},
			{AnimeID: "naruto", Episode: 2, URL: "http://x/2.m3u8", Server: "mirror"},
			{AnimeID: "naruto", Episode: 3, URL: "http://x/3.m3u8", Quality: "8k"},
			{AnimeID: "naruto", Episode: 0, URL: "http://x/0.m3u8"},
		},
	}

	registry := streams.NewRegistry()
	added, err := Apply(registry, seed)
	if added != 2 {
		t.Fatalf("expected 2 streams added, got %d", added)
	}
	if got := registry.Stats().TotalStreams; got != 2 {
		t.Fatalf("expected 2 stored streams, got %d", got)
	}
	if err == nil {
		t.Fatalf("expected rejected entries to be reported")
	}
	for _, want := range []string{"servers[1]", "streams[2]", "streams[3]"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to name %s, got %v", want, err)
		}
	}
	if strings.Contains(err.Error(), "streams[0]") || strings.Contains(err.Error(), "streams[1]") {
		t.Fatalf("valid entries must not be reported: %v", err)
	}

	if _, ok := registry.Server("mirror"); !ok {
		t.Fatalf("expected valid server to register")
	}
	if _, ok := registry.Server("greedy"); ok {
		t.Fatalf("server above the reserved priority must be refused")
	}
}

func TestAddRequestsKeepsURLVerbatim(t *testing.T) {
	seed := Seed{Streams: []StreamConfig{{AnimeID: "a", Episode: 1, URL: " http://x/1.m3u8 "}}}
	reqs, err := seed.AddRequests()
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(reqs) != 1 || reqs[0].StreamURL != " http://x/1.m3u8 " {
		t.Fatalf("expected url stored as given, got %+v", reqs)
	}
}
