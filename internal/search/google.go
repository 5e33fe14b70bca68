// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/genesearch/internal/httputil"
	"github.com/pdiddy/genesearch/pkg/types"
)

// googleAPIBase is the Custom Search JSON API endpoint. Declared as a var so
// tests can substitute an httptest server.
var googleAPIBase = "https://www.googleapis.com/customsearch/v1"

// googleMaxNum is the largest page size the API accepts.
const googleMaxNum = 10

// GoogleBackend queries the Google Custom Search JSON API.
type GoogleBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *GoogleBackend) Name() string { return "google" }

// Search issues one request for the query and maps the items to results.
func (b *GoogleBackend) Search(ctx context.Context, query types.Query, cfg types.SearchConfig) ([]types.SearchResult, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing search API key (set GOOGLE_API_KEY)")
	}
	if cfg.EngineID == "" {
		return nil, fmt.Errorf("missing search engine id (set GOOGLE_ENGINE_ID)")
	}

	num := cfg.MaxResults
	if num <= 0 || num > googleMaxNum {
		num = googleMaxNum
	}

	params := url.Values{
		"key": {cfg.APIKey},
		"cx":  {cfg.EngineID},
		"q":   {query.SearchString()},
		"num": {strconv.Itoa(num)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("custom search request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus("custom search API", resp); err != nil {
		return nil, err
	}

	var gr googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("parsing custom search response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(gr.Items))
	for _, item := range gr.Items {
		results = append(results, types.SearchResult{
			Title:       item.Title,
			Link:        item.Link,
			Snippet:     item.Snippet,
			DisplayLink: item.DisplayLink,
			MIME:        item.Mime,
		})
	}
	return results, nil
}

type googleResponse struct {
	Items []googleItem `json:"items"`
}

type googleItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
	Mime        string `json:"mime"`
}
