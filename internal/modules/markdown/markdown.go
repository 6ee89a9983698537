// Package markdown turns operator supplied markdown into body HTML that the
// rich text editor accepts.
package markdown

import (
	"bytes"
	"strings"

	"github.com/campusgrid/cms-core/internal/modules/editor/document"
	"github.com/campusgrid/cms-core/internal/pkg/sanitize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.Linkify,
	),
)

// Heading is one entry of a document outline.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// ToHTML renders src and rewrites it into the editor's canonical markup
// (del becomes s, h4-h6 become h3, thead rows join tbody) before the body
// sanitizer sees it.
func ToHTML(src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	var out bytes.Buffer
	if err := engine.Convert([]byte(src), &out); err != nil {
		return "", err
	}
	return sanitize.HTML(document.Serialize(document.Parse(out.String()))), nil
}

// Headings lists the ATX and setext headings of src in document order.
func Headings(src string) []Heading {
	source := []byte(src)
	doc := engine.Parser().Parse(text.NewReader(source))

	headings := []Heading{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		label := strings.TrimSpace(string(h.Text(source)))
		if label != "" {
			headings = append(headings, Heading{Level: h.Level, Text: label, ID: anchor(label)})
		}
		return ast.WalkSkipChildren, nil
	})
	return headings
}

func anchor(label string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.ReplaceAll(label, " ", "-")) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			sb.WriteRune(r)
		}
	}
	id := strings.Trim(sb.String(), "-")
	if id == "" {
		return "heading"
	}
	return id
}
