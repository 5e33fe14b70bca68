// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarise

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	// ErrEmptyInput is returned when Reduce is given no paragraphs.
	ErrEmptyInput = errors.New("nothing to summarise")

	// ErrInvalidMaxItems is returned when a multi-item reduction is asked to
	// keep fewer than two items per round.
	ErrInvalidMaxItems = errors.New("max items per round must be at least 2")
)

// alwaysKept is how many items at the start of every round skip the topic
// check, so a round can never empty out.
const alwaysKept = 2

// Reducer condenses a sequence of paragraphs into one summary through
// repeated rounds of summarise-and-pair, each round roughly halving the
// number of items.
type Reducer struct {
	Chat ChatCompleter
}

// Reduce runs rounds until one item remains, then asks for a final
// topic-focused summary of it.
//
// In each round an item is dropped once maxItems items have been kept, or
// when at least two items have been kept and the item does not mention topic
// (case-insensitive). Each kept item is summarised; consecutive summaries are
// joined in pairs. An unpaired last summary is appended to the previous pair.
// The caller's slice is not modified.
func (r *Reducer) Reduce(ctx context.Context, paragraphs []string, topic string, maxItems int) (string, error) {
	if len(paragraphs) == 0 {
		return "", ErrEmptyInput
	}
	if len(paragraphs) > 1 && maxItems < alwaysKept {
		return "", fmt.Errorf("%w: got %d", ErrInvalidMaxItems, maxItems)
	}

	items := paragraphs
	for round := 1; len(items) > 1; round++ {
		next, err := r.round(ctx, round, items, topic, maxItems)
		if err != nil {
			return "", err
		}
		log.Debug().Int("round", round).Int("in", len(items)).Int("out", len(next)).Msg("reduction round complete")
		items = next
	}

	prompt, err := render(finalPromptTmpl, promptData{Text: items[0], Topic: topic})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	summary, err := r.Chat.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return summary, nil
}

func (r *Reducer) round(ctx context.Context, round int, items []string, topic string, maxItems int) ([]string, error) {
	var (
		next []string
		acc  pairAccumulator
		kept int
	)

	for _, item := range items {
		mentioned := mentions(item, topic)
		if kept >= maxItems || (kept >= alwaysKept && !mentioned) {
			continue
		}

		prompt, err := render(paragraphPromptTmpl, promptData{Text: item, Topic: topic, Focus: mentioned})
		if err != nil {
			return nil, fmt.Errorf("rendering prompt: %w", err)
		}
		summary, err := r.Chat.Complete(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("round %d, paragraph %d: %w", round, kept+1, err)
		}
		kept++
		log.Info().Int("round", round).Msgf("Summarising paragraph: %d", kept)

		if pair, ok := acc.push(summary); ok {
			next = append(next, pair)
		}
	}

	if left, ok := acc.flush(); ok {
		if len(next) == 0 {
			return []string{left}, nil
		}
		next[len(next)-1] += " " + left
	}
	return next, nil
}

// pairAccumulator holds the pending left half of a pair between kept items.
type pairAccumulator struct {
	left    string
	pending bool
}

// push adds s. It returns the joined pair once a right half arrives.
func (a *pairAccumulator) push(s string) (string, bool) {
	if !a.pending {
		a.left, a.pending = s, true
		return "", false
	}
	a.pending = false
	return a.left + " " + s, true
}

// flush returns the unpaired left half, if any.
func (a *pairAccumulator) flush() (string, bool) {
	if !a.pending {
		return "", false
	}
	a.pending = false
	return a.left, true
}

func mentions(text, topic string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(topic))
}
