// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// paragraphsFromHTML runs readability over the page, then collects the text
// of each paragraph element in the extracted article. When the article HTML
// yields nothing usable, the plain article text is split on blank lines.
func paragraphsFromHTML(data []byte, u *url.URL, minChars int) (string, []string, error) {
	article, err := readability.FromReader(bytes.NewReader(data), u)
	if err != nil {
		return "", nil, err
	}

	var paras []string
	if article.Content != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
		if err != nil {
			return "", nil, err
		}
		doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			if p := cleanParagraph(s.Text()); len(p) >= minChars {
				paras = append(paras, p)
			}
		})
	}

	if len(paras) == 0 {
		paras = splitBlocks(article.TextContent, minChars)
	}
	return strings.TrimSpace(article.Title), paras, nil
}
