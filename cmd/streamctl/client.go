package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("kitsune api returned %d: %s", e.Status, e.Message)
}

// adminClient is a thin JSON client for the admin endpoints.
type adminClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAdminClient(baseURL string, timeout time.Duration) *adminClient {
	return &adminClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *adminClient) do(ctx context.Context, method, path string, query url.Values, body any) (map[string]any, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	var payload map[string]any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		message, _ := payload["error"].(string)
		if detail, ok := payload["message"].(string); ok && detail != "" {
			message += ": " + detail
		}
		return nil, &apiError{Status: res.StatusCode, Message: message}
	}
	return payload, nil
}
