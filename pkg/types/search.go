// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the genesearch pipeline:
// the gene/species query, search results, downloaded documents, summaries,
// and per-stage configuration.
package types

// Query is the (gene, species) pair a run is about. It is rendered as a
// search string and also drives relevance decisions during summarisation.
type Query struct {
	Gene    string `json:"gene" yaml:"gene"`
	Species string `json:"species" yaml:"species"`
}

// SearchString renders the query for the web search API. The gene name is
// quoted so the engine matches it as a phrase. Neither name is escaped.
func (q Query) SearchString() string {
	return `"` + q.Gene + `" ` + q.Species
}

// IsEmpty reports whether either half of the query is missing.
func (q Query) IsEmpty() bool {
	return q.Gene == "" || q.Species == ""
}

// SearchResult is one hit returned by the web search API.
type SearchResult struct {
	// Title is the page title as returned by the engine.
	Title string `json:"title" yaml:"title"`

	// Link is the absolute URL of the result.
	Link string `json:"link" yaml:"link"`

	// Snippet is the short excerpt shown by the engine.
	Snippet string `json:"snippet" yaml:"snippet"`

	// DisplayLink is the host shown to users (e.g. "www.ncbi.nlm.nih.gov").
	DisplayLink string `json:"display_link,omitempty" yaml:"display_link,omitempty"`

	// MIME is the MIME type reported by the engine for non-HTML results
	// (e.g. "application/pdf"). Empty for ordinary web pages.
	MIME string `json:"mime,omitempty" yaml:"mime,omitempty"`
}
