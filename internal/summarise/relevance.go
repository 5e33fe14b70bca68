// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarise

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/genesearch/pkg/types"
)

// ErrClassifierContract is returned when a yes/no classification answer
// contains neither word. The run cannot continue without a verdict.
var ErrClassifierContract = errors.New("classifier did not answer yes or no")

// Filter decides whether a summary proceeds to the cross-document merge.
type Filter interface {
	Keep(ctx context.Context, s types.Summary) (bool, error)
}

// ApplyFilter returns the summaries f keeps, in their original order. The
// first error stops filtering.
func ApplyFilter(ctx context.Context, f Filter, summaries []types.Summary) ([]types.Summary, error) {
	var kept []types.Summary
	for i, s := range summaries {
		ok, err := f.Keep(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("filtering summary %d: %w", i+1, err)
		}
		if !ok {
			log.Info().Int("summary", i+1).Msg("summary filtered out as not relevant")
			continue
		}
		kept = append(kept, s)
	}
	return kept, nil
}

// SpeciesFilter keeps summaries a chat model says focus on Species.
type SpeciesFilter struct {
	Chat    ChatCompleter
	Species string
}

// Keep asks the classifier whether s focuses on the species.
func (f *SpeciesFilter) Keep(ctx context.Context, s types.Summary) (bool, error) {
	prompt, err := render(speciesPromptTmpl, promptData{Text: s.Text, Species: f.Species})
	if err != nil {
		return false, fmt.Errorf("rendering prompt: %w", err)
	}
	answer, err := f.Chat.Complete(ctx, prompt)
	if err != nil {
		return false, err
	}
	log.Debug().Str("answer", answer).Str("species", f.Species).Msg("species classification")
	return parseYesNo(answer)
}

// parseYesNo reads a strict yes/no answer. "no" is checked first, so an
// answer containing both words counts as no.
func parseYesNo(answer string) (bool, error) {
	lower := strings.ToLower(answer)
	switch {
	case strings.Contains(lower, "no"):
		return false, nil
	case strings.Contains(lower, "yes"):
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrClassifierContract, answer)
	}
}

// ScoreFilter keeps summaries whose score is at least Threshold. Summaries
// without a score never pass.
type ScoreFilter struct {
	Threshold float64
}

// Keep compares the summary's score against the threshold.
func (f ScoreFilter) Keep(_ context.Context, s types.Summary) (bool, error) {
	if !s.HasScore() {
		return false, nil
	}
	return *s.Score >= f.Threshold, nil
}
