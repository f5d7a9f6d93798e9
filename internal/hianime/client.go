package hianime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
)

const (
	DefaultBaseURL = "http://localhost:4000"
	DefaultTimeout = 10 * time.Second

	apiPrefix = "/api/v2/hianime"
)

// Client talks to an aniwatch-api compatible hianime service. Every call is
// a single request with no retry and no cache; failures come back as
// *GatewayError.
type Client struct {
	apiBaseURL string
	httpClient *http.Client
}

func NewClient(apiBaseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewClientWithHTTPClient(apiBaseURL, &http.Client{Timeout: timeout})
}

func NewClientWithHTTPClient(apiBaseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	base := strings.TrimRight(strings.TrimSpace(apiBaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{apiBaseURL: base, httpClient: client}
}

func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+"/health", nil)
	if err != nil {
		return &GatewayError{Kind: KindUnavailable, Op: "ping", Err: pkgerrors.Wrap(err, "create request")}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &GatewayError{Kind: transportKind(err), Op: "ping", Err: pkgerrors.Wrap(err, "request health")}
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &GatewayError{Kind: KindStatus, Op: "ping", StatusCode: res.StatusCode}
	}
	return nil
}

func (c *Client) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidArgument("search", "query is required")
	}
	if page <= 0 {
		page = 1
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("page", strconv.Itoa(page))
	return fetch[SearchResult](ctx, c, "search", "/search", values)
}

func (c *Client) SearchSuggestions(ctx context.Context, query string) (*Suggestions, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidArgument("search suggestions", "query is required")
	}

	values := url.Values{}
	values.Set("q", query)
	return fetch[Suggestions](ctx, c, "search suggestions", "/search/suggestion", values)
}

func (c *Client) AnimeInfo(ctx context.Context, animeID string) (*Document, error) {
	animeID = strings.TrimSpace(animeID)
	if animeID == "" {
		return nil, invalidArgument("anime info", "anime id is required")
	}
	return fetch[Document](ctx, c, "anime info", "/anime/"+url.PathEscape(animeID), nil)
}

func (c *Client) Episodes(ctx context.Context, animeID string) (*Episodes, error) {
	animeID = strings.TrimSpace(animeID)
	if animeID == "" {
		return nil, invalidArgument("episodes", "anime id is required")
	}
	return fetch[Episodes](ctx, c, "episodes", "/anime/"+url.PathEscape(animeID)+"/episodes", nil)
}

func (c *Client) EpisodeServers(ctx context.Context, episodeID string) (*EpisodeServers, error) {
	episodeID = strings.TrimSpace(episodeID)
	if episodeID == "" {
		return nil, invalidArgument("episode servers", "episode id is required")
	}

	values := url.Values{}
	values.Set("animeEpisodeId", episodeID)
	return fetch[EpisodeServers](ctx, c, "episode servers", "/episode/servers", values)
}

// EpisodeSources fetches playable sources. An empty server lets the
// provider pick its default.
func (c *Client) EpisodeSources(ctx context.Context, episodeID, server, category string) (*EpisodeSources, error) {
	episodeID = strings.TrimSpace(episodeID)
	if episodeID == "" {
		return nil, invalidArgument("episode sources", "episode id is required")
	}

	values := url.Values{}
	values.Set("animeEpisodeId", episodeID)
	if server = strings.TrimSpace(server); server != "" {
		values.Set("server", server)
	}
	if category = strings.TrimSpace(category); category != "" {
		values.Set("category", category)
	}

	sources, err := fetch[EpisodeSources](ctx, c, "episode sources", "/episode/sources", values)
	if err != nil {
		return nil, err
	}
	sources.fillDefaults()
	return sources, nil
}

func (c *Client) EstimatedSchedule(ctx context.Context, date string) (*Schedule, error) {
	date = strings.TrimSpace(date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, invalidArgument("schedule", "date must be YYYY-MM-DD")
	}

	values := url.Values{}
	values.Set("date", date)
	return fetch[Schedule](ctx, c, "schedule", "/schedule", values)
}

func (c *Client) HomePage(ctx context.Context) (*Document, error) {
	return fetch[Document](ctx, c, "home", "/home", nil)
}

func fetch[T any](ctx context.Context, c *Client, op, endpoint string, query url.Values) (*T, error) {
	target := c.apiBaseURL + apiPrefix + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &GatewayError{Kind: KindUnavailable, Op: op, Err: pkgerrors.Wrap(err, "create request")}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Kind: transportKind(err), Op: op, Err: pkgerrors.Wrapf(err, "request %s", endpoint)}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))
		return nil, &GatewayError{Kind: KindStatus, Op: op, StatusCode: res.StatusCode}
	}

	var payload envelope[T]
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, &GatewayError{Kind: KindDecode, Op: op, Err: pkgerrors.Wrap(err, "decode response")}
	}

	return &payload.Data, nil
}

func transportKind(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindUnavailable
}
