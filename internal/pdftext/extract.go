// Package pdftext turns raw PDF bytes into per-page plain text.
package pdftext

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ziadkadry99/docqa/internal/docerr"
)

// Page is the text of a single PDF page. Number is 1-based; Text may be empty.
type Page struct {
	Number int
	Text   string
}

// Content is the result of extracting a whole document.
type Content struct {
	Pages     []Page
	PageCount int
	FullText  string
}

// Extract parses data as a PDF and returns the text of every page in order.
// A document with zero pages is not an error here. A page whose text cannot
// be decoded is returned empty.
func Extract(data []byte) (content *Content, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", docerr.ErrExtraction)
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			content = nil
			err = fmt.Errorf("%w: %v", docerr.ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", docerr.ErrExtraction, err)
	}

	n := reader.NumPage()
	pages := make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, Page{Number: i, Text: pageText(reader, i)})
	}

	return &Content{
		Pages:     pages,
		PageCount: len(pages),
		FullText:  FullText(pages),
	}, nil
}

func pageText(reader *pdf.Reader, num int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pdftext: page %d: %v", num, r)
			text = ""
		}
	}()

	p := reader.Page(num)
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		log.Printf("pdftext: page %d: %v", num, err)
		return ""
	}
	return text
}

// FullText renders pages as "[Page N]\n<text>" blocks separated by a blank line.
func FullText(pages []Page) string {
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Page %d]\n%s", p.Number, p.Text)
	}
	return b.String()
}

// IsBlank reports whether the page carries no indexable text.
func (p Page) IsBlank() bool {
	return strings.TrimSpace(p.Text) == ""
}
