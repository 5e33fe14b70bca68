// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads search results and turns each page into an
// ordered list of paragraphs. HTML pages go through a readability pass
// before paragraph selection; PDFs are reduced to plain text per page.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/genesearch/internal/httputil"
	"github.com/pdiddy/genesearch/pkg/types"
)

const (
	defaultMaxBytes          = 10 << 20
	defaultMinParagraphChars = 40
)

// Fetcher downloads pages and extracts their paragraphs.
type Fetcher struct {
	Client *http.Client
	Config types.FetchConfig
}

// Fetch downloads link and returns its text as a Document.
func (f *Fetcher) Fetch(ctx context.Context, link string) (types.Document, error) {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return types.Document{}, fmt.Errorf("invalid URL %q", link)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return types.Document{}, fmt.Errorf("creating request: %w", err)
	}
	if f.Config.UserAgent != "" {
		req.Header.Set("User-Agent", f.Config.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, f.Client, req, 0)
	if err != nil {
		return types.Document{}, fmt.Errorf("downloading %s: %w", link, err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(u.Host, resp); err != nil {
		return types.Document{}, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes()))
	if err != nil {
		return types.Document{}, fmt.Errorf("reading %s: %w", link, err)
	}

	doc := types.Document{Source: link}
	minChars := f.minChars()

	if isPDF(resp.Header.Get("Content-Type"), u, data) {
		doc.Paragraphs, err = paragraphsFromPDF(data, minChars)
	} else {
		doc.Title, doc.Paragraphs, err = paragraphsFromHTML(data, u, minChars)
	}
	if err != nil {
		return types.Document{}, fmt.Errorf("extracting text from %s: %w", link, err)
	}
	return doc, nil
}

// FetchAll downloads the first n results in order. Failed or empty
// downloads are logged and skipped, so the corpus can be shorter than n.
// n is clamped to [0, len(results)].
func (f *Fetcher) FetchAll(ctx context.Context, results []types.SearchResult, n int) types.Corpus {
	n = max(0, min(n, len(results)))

	var corpus types.Corpus
	for _, r := range results[:n] {
		doc, err := f.Fetch(ctx, r.Link)
		if err != nil {
			log.Warn().Err(err).Str("url", r.Link).Msg("skipping result")
			continue
		}
		if doc.IsEmpty() {
			log.Warn().Str("url", r.Link).Msg("skipping result with no extractable text")
			continue
		}
		if doc.Title == "" {
			doc.Title = r.Title
		}
		log.Info().Str("url", r.Link).Int("paragraphs", len(doc.Paragraphs)).Msg("downloaded")
		corpus = append(corpus, doc)
	}
	return corpus
}

func (f *Fetcher) maxBytes() int64 {
	if f.Config.MaxBytes > 0 {
		return f.Config.MaxBytes
	}
	return defaultMaxBytes
}

func (f *Fetcher) minChars() int {
	if f.Config.MinParagraphChars > 0 {
		return f.Config.MinParagraphChars
	}
	return defaultMinParagraphChars
}

// isPDF decides between the PDF and HTML extractors from the content type,
// the URL suffix, and the file magic.
func isPDF(contentType string, u *url.URL, data []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	if strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF-"))
}
