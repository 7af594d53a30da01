// Package post renders the daily notification for the team chat. Lines are
// laid out by a markdown template and converted to HTML, keeping the inline
// <at>...</at> mention tags the chat client resolves.
package post

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/oit-helpdesk/required-today/internal/tickets"
)

// DefaultTemplate is used when no template file is configured.
const DefaultTemplate = `**Tickets required today ({{ .Date }})**

{{ if .Lines -}}
{{ range .Lines }}- {{ . }}
{{ end -}}
{{ else -}}
No scheduled tickets are due today.
{{ end -}}
`

// Data is what templates see. Lines are markdown; build them with Lines so
// ticket text is escaped.
type Data struct {
	Date  string
	Lines []string
}

// Lines formats tickets as post lines with their text escaped, so subjects
// come through the markdown renderer verbatim. Only the mention tags stay raw.
func Lines(ts []tickets.Processed) []string {
	lines := make([]string, 0, len(ts))
	for _, t := range ts {
		lines = append(lines, tickets.FormatLineWith(t, EscapeMarkdown))
	}
	return lines
}

// EscapeMarkdown backslash-escapes every ASCII punctuation character, which
// CommonMark renders as the literal character (HTML-escaped where needed).
func EscapeMarkdown(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isASCIIPunct(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isASCIIPunct(r rune) bool {
	return (r >= '!' && r <= '/') || (r >= ':' && r <= '@') || (r >= '[' && r <= '`') || (r >= '{' && r <= '~')
}

// LoadTemplate reads a template file. An empty path yields DefaultTemplate.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return DefaultTemplate, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading template: %w", err)
	}
	return string(content), nil
}

// Render executes the markdown template against data.
func Render(data Data, tmpl string) (string, error) {
	t, err := template.New("post").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return b.String(), nil
}

// GFM minus Linkify: autolinking would wrap the address inside a mention in
// a mailto link. Mentions are raw inline HTML and must reach the output
// untouched.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.TaskList),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// ToHTML converts rendered markdown to the HTML body of a chat message.
func ToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}
