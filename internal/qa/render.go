package qa

import (
	"bytes"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// RenderHTML converts a Markdown answer to HTML. Raw HTML in the answer is
// not passed through.
func RenderHTML(answer string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(answer), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
