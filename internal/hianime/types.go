package hianime

import (
	"bytes"
	"encoding/json"
)

// Document is an upstream payload forwarded to clients without being
// interpreted here.
type Document struct {
	raw json.RawMessage
}

func (d Document) Empty() bool {
	trimmed := bytes.TrimSpace(d.raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (d Document) Raw() json.RawMessage {
	return d.raw
}

func (d Document) MarshalJSON() ([]byte, error) {
	if d.Empty() {
		return []byte("null"), nil
	}
	return d.raw, nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	d.raw = append(d.raw[:0], data...)
	return nil
}

type envelope[T any] struct {
	Status  int  `json:"status"`
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type EpisodeCount struct {
	Sub int `json:"sub"`
	Dub int `json:"dub"`
}

type AnimeSummary struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	JName    string       `json:"jname,omitempty"`
	Poster   string       `json:"poster,omitempty"`
	Duration string       `json:"duration,omitempty"`
	Type     string       `json:"type,omitempty"`
	Rating   string       `json:"rating,omitempty"`
	Episodes EpisodeCount `json:"episodes"`
}

type SearchResult struct {
	Animes            []AnimeSummary `json:"animes"`
	MostPopularAnimes []AnimeSummary `json:"mostPopularAnimes,omitempty"`
	CurrentPage       int            `json:"currentPage"`
	TotalPages        int            `json:"totalPages"`
	HasNextPage       bool           `json:"hasNextPage"`
	SearchQuery       string         `json:"searchQuery,omitempty"`
}

type Suggestion struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	JName    string   `json:"jname,omitempty"`
	Poster   string   `json:"poster,omitempty"`
	MoreInfo []string `json:"moreInfo,omitempty"`
}

type Suggestions struct {
	Suggestions []Suggestion `json:"suggestions"`
}

type Episode struct {
	Title     string `json:"title"`
	EpisodeID string `json:"episodeId"`
	Number    int    `json:"number"`
	IsFiller  bool   `json:"isFiller"`
}

type Episodes struct {
	TotalEpisodes int       `json:"totalEpisodes"`
	Episodes      []Episode `json:"episodes"`
}

type ServerRef struct {
	ServerID   int    `json:"serverId"`
	ServerName string `json:"serverName"`
}

type EpisodeServers struct {
	EpisodeID string      `json:"episodeId"`
	EpisodeNo int         `json:"episodeNo"`
	Sub       []ServerRef `json:"sub"`
	Dub       []ServerRef `json:"dub"`
	Raw       []ServerRef `json:"raw"`
}

type ScheduledAnime struct {
	ID                 string `json:"id"`
	Time               string `json:"time"`
	Name               string `json:"name"`
	JName              string `json:"jname,omitempty"`
	AiringTimestamp    int64  `json:"airingTimestamp"`
	SecondsUntilAiring int64  `json:"secondsUntilAiring"`
	Episode            int    `json:"episode"`
}

type Schedule struct {
	ScheduledAnimes []ScheduledAnime `json:"scheduledAnimes"`
}

type Track struct {
	URL     string `json:"url"`
	Lang    string `json:"lang"`
	Default bool   `json:"default,omitempty"`
}

type Segment struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type Source struct {
	URL     string `json:"url"`
	Quality string `json:"quality,omitempty"`
	IsM3U8  bool   `json:"isM3U8"`
	Type    string `json:"type,omitempty"`
}

// EpisodeSources is the playable shape handed to the video player, both for
// provider streams and for normalized custom streams.
type EpisodeSources struct {
	Headers   map[string]string `json:"headers"`
	Tracks    []Track           `json:"tracks"`
	Intro     Segment           `json:"intro"`
	Outro     Segment           `json:"outro"`
	Sources   []Source          `json:"sources"`
	AnilistID int               `json:"anilistID"`
	MalID     int               `json:"malID"`
}

func EmptyEpisodeSources() *EpisodeSources {
	return &EpisodeSources{
		Headers: map[string]string{"Referer": ""},
		Tracks:  []Track{},
		Sources: []Source{},
	}
}

// fillDefaults keeps list fields non-null on the wire.
func (s *EpisodeSources) fillDefaults() {
	if s.Headers == nil {
		s.Headers = map[string]string{"Referer": ""}
	}
	if s.Tracks == nil {
		s.Tracks = []Track{}
	}
	if s.Sources == nil {
		s.Sources = []Source{}
	}
}
