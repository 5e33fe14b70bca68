// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries a web search API for pages about a gene in a
// species and returns deduplicated results in engine order.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/genesearch/pkg/types"
)

// Backend queries a single web search API.
type Backend interface {
	Name() string
	Search(ctx context.Context, query types.Query, cfg types.SearchConfig) ([]types.SearchResult, error)
}

// SearchOutput holds the results and dedup statistics.
type SearchOutput struct {
	Results     []types.SearchResult
	DupsRemoved int
}

// Search runs the query against backend and removes duplicate links,
// keeping the engine's ranking.
func Search(ctx context.Context, backend Backend, query types.Query, cfg types.SearchConfig) (SearchOutput, error) {
	if query.IsEmpty() {
		return SearchOutput{}, fmt.Errorf("query needs both a gene and a species")
	}

	results, err := backend.Search(ctx, query, cfg)
	if err != nil {
		return SearchOutput{}, fmt.Errorf("%s: %w", backend.Name(), err)
	}

	deduped, removed := deduplicate(results)
	log.Info().
		Str("backend", backend.Name()).
		Str("query", query.SearchString()).
		Int("results", len(deduped)).
		Int("duplicates", removed).
		Msg("search complete")

	return SearchOutput{Results: deduped, DupsRemoved: removed}, nil
}

// deduplicate drops results whose normalised link was already seen.
func deduplicate(results []types.SearchResult) ([]types.SearchResult, int) {
	seen := make(map[string]bool)
	var deduped []types.SearchResult
	removed := 0

	for _, r := range results {
		key := normalizeLink(r.Link)
		if key == "" {
			removed++
			continue
		}
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		deduped = append(deduped, r)
	}
	return deduped, removed
}

// normalizeLink lower-cases scheme and host and strips the fragment and a
// trailing slash so trivially different URLs compare equal.
func normalizeLink(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return ""
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(out SearchOutput, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-30s  %s\n", "Rank", "Title", "Site", "Link")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range out.Results {
		fmt.Fprintf(w, "%-4d  %-50s  %-30s  %s\n",
			i+1, truncate(r.Title, 50), truncate(r.DisplayLink, 30), r.Link)
	}

	fmt.Fprintf(w, "\n%d results", len(out.Results))
	if out.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.DupsRemoved)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(out SearchOutput, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Results)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
