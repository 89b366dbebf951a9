// Package markdown renders note content for export.
package markdown

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/notamente/backend/internal/models"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ToHTML renders a note as a standalone HTML fragment. Markdown notes go
// through goldmark; plain notes are escaped and wrapped in a pre block so
// their whitespace survives.
func ToHTML(note *models.Note) (string, error) {
	var body bytes.Buffer
	switch note.Kind {
	case models.KindMarkdown:
		if err := md.Convert([]byte(note.Content), &body); err != nil {
			return "", fmt.Errorf("failed to render markdown: %w", err)
		}
	default:
		body.WriteString("<pre>")
		body.WriteString(html.EscapeString(note.Content))
		body.WriteString("</pre>\n")
	}
	return fmt.Sprintf("<h1>%s</h1>\n%s", html.EscapeString(note.Title), body.String()), nil
}

// ToMarkdown renders a note as a markdown document with the title as a
// top-level heading.
func ToMarkdown(note *models.Note) string {
	return fmt.Sprintf("# %s\n\n%s\n", note.Title, note.Content)
}
