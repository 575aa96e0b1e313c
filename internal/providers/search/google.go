// Package search queries a Google Custom Search compatible endpoint and maps
// the top item to a core.SearchResult.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/pkg/conv"
	"github.com/sandevgo/askbot/pkg/log"
)

// maxBodySize caps how much of a response is decoded.
const maxBodySize = 1 << 20

type Google struct {
	client   *http.Client
	endpoint string
	apiKey   string
	engineID string
}

func NewGoogle(cfg core.SearchConfig) *Google {
	return &Google{
		client: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		endpoint: cfg.GetEndpoint(),
		apiKey:   cfg.GetAPIKey(),
		engineID: cfg.GetEngineID(),
	}
}

type response struct {
	Items []struct {
		Title       string `json:"title"`
		Snippet     string `json:"snippet"`
		HTMLSnippet string `json:"htmlSnippet"`
		Link        string `json:"link"`
	} `json:"items"`
}

// Search issues exactly one request. Every failure is reported as
// core.ErrSearchUnavailable.
func (g *Google) Search(ctx context.Context, query string) (core.SearchResult, error) {
	logger := log.FromCtx(ctx)

	u, err := url.Parse(g.endpoint)
	if err != nil {
		return core.SearchResult{}, fmt.Errorf("%w: invalid endpoint: %w", core.ErrSearchUnavailable, err)
	}
	params := u.Query()
	params.Set("key", g.apiKey)
	params.Set("cx", g.engineID)
	params.Set("q", query)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return core.SearchResult{}, fmt.Errorf("%w: failed to create request: %w", core.ErrSearchUnavailable, err)
	}
	req.Header.Set("User-Agent", core.AskUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return core.SearchResult{}, fmt.Errorf("%w: request failed: %w", core.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Debug().Int("status", resp.StatusCode).Str("body", string(body)).Msg("search endpoint returned error")
		return core.SearchResult{}, fmt.Errorf("%w: unexpected status %d", core.ErrSearchUnavailable, resp.StatusCode)
	}

	var payload response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&payload); err != nil {
		return core.SearchResult{}, fmt.Errorf("%w: failed to decode response: %w", core.ErrSearchUnavailable, err)
	}

	if len(payload.Items) == 0 {
		return core.SearchResult{}, fmt.Errorf("%w: no results", core.ErrSearchUnavailable)
	}

	item := payload.Items[0]
	snippet := conv.HTMLToText(item.HTMLSnippet)
	if snippet == "" {
		snippet = conv.StripTags(item.Snippet)
	}

	logger.Debug().Str("query", query).Str("link", item.Link).Int("items", len(payload.Items)).Msg("search completed")

	return core.SearchResult{
		Title:   conv.StripTags(item.Title),
		Snippet: snippet,
		Link:    item.Link,
	}, nil
}
