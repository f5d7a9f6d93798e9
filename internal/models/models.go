package models

import "time"

type StreamServer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	BaseURL  string `json:"baseUrl"`
	IsActive bool   `json:"isActive"`
	Priority int    `json:"priority"`
}

type Quality struct {
	Resolution Resolution `json:"resolution"`
	Bitrate    *int       `json:"bitrate,omitempty"`
}

type Language struct {
	Type     LanguageType `json:"type"`
	Language string       `json:"language,omitempty"`
}

type CustomStreamSource struct {
	ID            string    `json:"id"`
	AnimeID       string    `json:"animeId"`
	EpisodeNumber int       `json:"episodeNumber"`
	StreamURL     string    `json:"streamUrl"`
	Quality       Quality   `json:"quality"`
	Language      Language  `json:"language"`
	Server        string    `json:"server"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type StreamStats struct {
	TotalStreams    int            `json:"totalStreams"`
	ActiveStreams   int            `json:"activeStreams"`
	StreamsByServer map[string]int `json:"streamsByServer"`
}
