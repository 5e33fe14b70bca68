// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// maxBlockChars bounds a single paragraph. Extracted PDF text often has no
// blank lines at all, which would otherwise turn a whole page into one item.
const maxBlockChars = 1500

var blankLine = regexp.MustCompile(`\n[ \t\r]*\n`)

// paragraphsFromPDF extracts plain text page by page and splits it into
// paragraphs.
func paragraphsFromPDF(data []byte, minChars int) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	var paras []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Debug().Err(err).Int("page", i).Msg("skipping unreadable PDF page")
			continue
		}
		paras = append(paras, splitBlocks(text, minChars)...)
	}
	return paras, nil
}

// splitBlocks splits text on blank lines, normalises whitespace, breaks
// oversized blocks at sentence ends, and drops blocks shorter than minChars.
func splitBlocks(text string, minChars int) []string {
	var out []string
	for _, block := range blankLine.Split(text, -1) {
		for _, p := range chunkSentences(cleanParagraph(block), maxBlockChars) {
			if len(p) >= minChars {
				out = append(out, p)
			}
		}
	}
	return out
}

// chunkSentences splits s into pieces of at most roughly max bytes, cutting
// after ". " where possible.
func chunkSentences(s string, max int) []string {
	if len(s) <= max {
		return []string{s}
	}

	var chunks []string
	for len(s) > max {
		cut := strings.LastIndex(s[:max], ". ")
		if cut <= 0 {
			cut = max
		} else {
			cut++ // keep the full stop
		}
		chunks = append(chunks, strings.TrimSpace(s[:cut]))
		s = strings.TrimSpace(s[cut:])
	}
	if s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

func cleanParagraph(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
