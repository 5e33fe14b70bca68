// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarise condenses a corpus of downloaded articles into a single
// description of a gene's role in a species.
//
// Two interchangeable backends implement Backend. ChatBackend drives a chat
// model one prompt at a time and reduces each article itself (Reducer);
// ClusterBackend hands the whole corpus to a batch summarisation service that
// returns one scored summary per article. Both then filter the per-article
// summaries for relevance and merge the survivors into one answer.
package summarise

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/genesearch/pkg/types"
)

// ErrNoRelevantSummaries is returned when no per-article summary survives
// filtering. No output should be produced.
var ErrNoRelevantSummaries = errors.New("no relevant paper summaries found")

// Backend turns a corpus into one final summary for the query.
type Backend interface {
	Name() string
	Summarise(ctx context.Context, corpus types.Corpus, query types.Query) (string, error)
}

// mergeFunc combines two or more surviving summaries.
type mergeFunc func(ctx context.Context, survivors []types.Summary) (string, error)

// mergeSurvivors applies the cross-document policy: none is an error, one is
// the answer verbatim, more are handed to many.
func mergeSurvivors(ctx context.Context, survivors []types.Summary, many mergeFunc) (string, error) {
	switch len(survivors) {
	case 0:
		log.Warn().Msg("No relevant paper summaries found!")
		return "", ErrNoRelevantSummaries
	case 1:
		log.Info().Msg("Only a single paper has been summarised.")
		return survivors[0].Text, nil
	default:
		log.Info().Int("summaries", len(survivors)).Msg("Merging paper summaries")
		return many(ctx, survivors)
	}
}

// ChatBackend summarises with a conversational model. Each article is
// reduced paragraph by paragraph, the article summaries are classified for
// species focus, and the survivors are reduced once more into one answer.
type ChatBackend struct {
	Chat ChatCompleter

	// MaxParagraphs caps the items summarised per reduction round.
	MaxParagraphs int
}

// Name returns the backend identifier.
func (b *ChatBackend) Name() string { return "chat" }

// Summarise implements Backend.
func (b *ChatBackend) Summarise(ctx context.Context, corpus types.Corpus, query types.Query) (string, error) {
	reducer := &Reducer{Chat: b.Chat}

	var papers []types.Summary
	for _, doc := range corpus {
		if doc.IsEmpty() {
			log.Warn().Str("source", doc.Source).Msg("skipping document with no paragraphs")
			continue
		}
		text, err := reducer.Reduce(ctx, doc.Paragraphs, query.Gene, b.MaxParagraphs)
		if err != nil {
			return "", fmt.Errorf("summarising %s: %w", doc.Source, err)
		}
		log.Info().Str("source", doc.Source).Str("summary", text).Msg("Final paper summary")
		papers = append(papers, types.Summary{Text: text})
	}

	survivors, err := ApplyFilter(ctx, &SpeciesFilter{Chat: b.Chat, Species: query.Species}, papers)
	if err != nil {
		return "", err
	}

	return mergeSurvivors(ctx, survivors, func(ctx context.Context, s []types.Summary) (string, error) {
		return reducer.Reduce(ctx, summaryTexts(s), query.Gene, len(s))
	})
}

// ClusterBackend summarises with the batch service. The service merges and
// scores internally; summaries under Config.Threshold are dropped.
type ClusterBackend struct {
	Client *ClusterClient
	Config types.ClusterConfig
}

// Name returns the backend identifier.
func (b *ClusterBackend) Name() string { return "cluster" }

// Summarise implements Backend. Each document is sent as one text with its
// paragraphs separated by blank lines.
func (b *ClusterBackend) Summarise(ctx context.Context, corpus types.Corpus, query types.Query) (string, error) {
	var texts []string
	for _, doc := range corpus {
		if doc.IsEmpty() {
			continue
		}
		texts = append(texts, strings.Join(doc.Paragraphs, "\n\n"))
	}
	if len(texts) == 0 {
		return mergeSurvivors(ctx, nil, nil)
	}

	records, err := b.Client.Summarise(ctx, ClusterRequest{
		Query:       query.SearchString(),
		Texts:       texts,
		Temperature: b.Config.Temperature,
		MaxLength:   b.Config.MaxLength,
		MinLength:   b.Config.MinLength,
		DoSample:    b.Config.DoSample,
	})
	if err != nil {
		return "", err
	}

	summaries := make([]types.Summary, len(records))
	for i, r := range records {
		score := r.QuerySimilarityScore
		summaries[i] = types.Summary{Text: r.Summary, Score: &score}
	}

	survivors, err := ApplyFilter(ctx, ScoreFilter{Threshold: b.Config.Threshold}, summaries)
	if err != nil {
		return "", err
	}
	return mergeSurvivors(ctx, survivors, takeLast)
}

// takeLast returns the last survivor in service order.
// TODO: confirm with the service owners whether the highest-scoring summary
// should be chosen instead.
func takeLast(_ context.Context, survivors []types.Summary) (string, error) {
	last := survivors[len(survivors)-1]
	log.Warn().
		Int("candidates", len(survivors)).
		Float64("score", *last.Score).
		Msg("multiple relevant summaries, keeping the last one")
	return last.Text, nil
}

func summaryTexts(summaries []types.Summary) []string {
	texts := make([]string, len(summaries))
	for i, s := range summaries {
		texts[i] = s.Text
	}
	return texts
}
