// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarise

import (
	"bytes"
	"text/template"
)

// paragraphPromptTmpl asks for a short summary of one item. When the item
// mentions the topic the model is asked to focus on it.
var paragraphPromptTmpl = template.Must(template.New("paragraph").Parse(
	`Please summarise the following paragraph in less than 200 words: "{{.Text}}".` +
		`{{if .Focus}} Focus on the description of the gene {{.Topic}} in the paragraph.{{end}}`))

// finalPromptTmpl produces the answer from the last remaining item of a reduction.
var finalPromptTmpl = template.Must(template.New("final").Parse(
	`Please summarise the description of gene {{.Topic}} in the following paragraph: "{{.Text}}".`))

// speciesPromptTmpl is the strict yes/no species-focus classification.
var speciesPromptTmpl = template.Must(template.New("species").Parse(
	`Does this paragraph focus on the species {{.Species}}? "{{.Text}}" Only answer with the words "Yes" or "No" and nothing else`))

type promptData struct {
	Text    string
	Topic   string
	Species string
	Focus   bool
}

func render(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
