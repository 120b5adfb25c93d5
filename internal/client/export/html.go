// Package export turns a resolved note into a standalone HTML document, a
// markdown file with YAML frontmatter, or a PDF rendered by the collaborator
// backend.
package export

import (
	"bytes"
	"fmt"
	"html/template"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/dmitrijs2005/notetake/internal/client/models"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// DefaultStyle is the chroma style used for fenced code blocks.
const DefaultStyle = "github"

// Options tune HTMLDocument.
type Options struct {
	// BaseURL becomes <base href>, so relative image links resolve when the
	// document is rendered elsewhere.
	BaseURL string
	// Style names a chroma style; unknown names fall back to DefaultStyle.
	Style string
}

var documentTmpl = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
  <head>
    {{- if .BaseURL}}
    <base href="{{.BaseURL}}" />
    {{- end}}
    <meta charset="utf-8" />
    <title>{{.Title}}</title>
    <style>
      body {
        font-family: Arial, sans-serif;
        margin: 0.5in;
      }
      .markdown-body {
        max-width: 100%;
        word-wrap: break-word;
      }
      a {
        color: blue;
        text-decoration: underline;
      }
      img {
        max-width: 500px;
        max-height: 400px;
        object-fit: contain;
        display: inline-block;
      }
      img, a {
        page-break-inside: avoid;
        break-inside: avoid;
      }
    </style>
  </head>
  <body>
    <div class="markdown-body">
{{.Body}}
    </div>
  </body>
</html>
`))

func newMarkdown(style string) goldmark.Markdown {
	if styles.Get(style) == styles.Fallback && style != styles.Fallback.Name {
		style = DefaultStyle
	}
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(false)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

// RenderMarkdown converts markdown to an HTML fragment.
func RenderMarkdown(md string, style string) (string, error) {
	var b bytes.Buffer
	if err := newMarkdown(style).Convert([]byte(md), &b); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return b.String(), nil
}

// HTMLDocument wraps the rendered note in a print-ready HTML page.
func HTMLDocument(note models.Note, opts Options) (string, error) {
	style := opts.Style
	if style == "" {
		style = DefaultStyle
	}
	body, err := RenderMarkdown(note.Markdown, style)
	if err != nil {
		return "", err
	}

	title := note.Title
	if title == "" {
		title = "Note"
	}

	var b bytes.Buffer
	err = documentTmpl.Execute(&b, struct {
		BaseURL string
		Title   string
		Body    template.HTML
	}{
		BaseURL: opts.BaseURL,
		Title:   title,
		Body:    template.HTML(body),
	})
	if err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return b.String(), nil
}
