package yamlseed

import (
	"fmt"
	"strings"

	"github.com/Rech1n/Kitsune/internal/models"
	"github.com/Rech1n/Kitsune/internal/streams"
)

type Seed struct {
	Servers []ServerConfig `yaml:"servers"`
	Streams []StreamConfig `yaml:"streams"`
}

type ServerConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	BaseURL  string `yaml:"base_url"`
	Active   *bool  `yaml:"active"`
	Priority int    `yaml:"priority"`
}

type StreamConfig struct {
	AnimeID  string `yaml:"anime_id"`
	Episode  int    `yaml:"episode"`
	URL      string `yaml:"url"`
	Quality  string `yaml:"quality"`
	Language string `yaml:"language"`
	Server   string `yaml:"server"`
}

func (c ServerConfig) toServer() (models.StreamServer, error) {
	id := strings.TrimSpace(c.ID)
	if id == "" {
		return models.StreamServer{}, fmt.Errorf("server id is required")
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = id
	}
	active := true
	if c.Active != nil {
		active = *c.Active
	}
	return models.StreamServer{
		ID:       id,
		Name:     name,
		BaseURL:  strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"),
		IsActive: active,
		Priority: c.Priority,
	}, nil
}

func (c StreamConfig) toAddRequest() (streams.AddRequest, error) {
	if strings.TrimSpace(c.AnimeID) == "" {
		return streams.AddRequest{}, fmt.Errorf("anime_id is required")
	}
	if c.Episode <= 0 {
		return streams.AddRequest{}, fmt.Errorf("episode must be greater than zero")
	}
	if strings.TrimSpace(c.URL) == "" {
		return streams.AddRequest{}, fmt.Errorf("url is required")
	}
	resolution, err := models.ParseResolution(c.Quality)
	if err != nil {
		return streams.AddRequest{}, err
	}
	language, err := models.ParseLanguageType(c.Language)
	if err != nil {
		return streams.AddRequest{}, err
	}
	return streams.AddRequest{
		AnimeID:       c.AnimeID,
		EpisodeNumber: c.Episode,
		StreamURL:     c.URL,
		Resolution:    resolution,
		Language:      language,
		ServerID:      c.Server,
	}, nil
}

// AddRequests converts the stream entries. Bad entries are skipped and
// reported together; the good ones are always returned.
func (s Seed) AddRequests() ([]streams.AddRequest, error) {
	reqs, problems := s.addRequests()
	return reqs, joinProblems(problems)
}

func (s Seed) addRequests() ([]streams.AddRequest, []string) {
	reqs := make([]streams.AddRequest, 0, len(s.Streams))
	problems := make([]string, 0)
	for i, item := range s.Streams {
		req, err := item.toAddRequest()
		if err != nil {
			problems = append(problems, fmt.Sprintf("streams[%d]: %v", i, err))
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs, problems
}

func joinProblems(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("seed entries rejected: %s", strings.Join(problems, " | "))
}
