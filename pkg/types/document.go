// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Document is the text of one retrieved article as an ordered sequence of
// paragraphs.
type Document struct {
	// Source is the URL the document was downloaded from.
	Source string `json:"source" yaml:"source"`

	// Title is the article title when the extractor could find one.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Paragraphs holds the article text in reading order.
	Paragraphs []string `json:"paragraphs" yaml:"paragraphs"`
}

// IsEmpty reports whether the document has no paragraphs.
func (d Document) IsEmpty() bool {
	return len(d.Paragraphs) == 0
}

// Corpus is the ordered set of documents retrieved for one query, one per
// search result.
type Corpus []Document

// Summary is text produced by a summarisation backend. Score is set only by
// backends that compute a query-similarity score; chat-derived summaries
// carry none.
type Summary struct {
	Text  string   `json:"text" yaml:"text"`
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// HasScore reports whether the summary carries a numeric relevance score.
func (s Summary) HasScore() bool {
	return s.Score != nil
}
