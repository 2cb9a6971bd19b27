package qa

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/docqa/internal/index"
)

const answerPrompt = `You are a helpful assistant that answers questions based on the provided document excerpts.

Use ONLY the information from the excerpts below to answer the question. If the excerpts don't contain enough information to fully answer the question, say so.

When citing information, mention which document and page it came from.

Document Excerpts:
%s

Question: %s

Answer:`

const passageSeparator = "\n\n---\n\n"

// buildContext renders passages in search order as "[title, Page n]" blocks.
func buildContext(passages []index.Passage) string {
	parts := make([]string, len(passages))
	for i, p := range passages {
		parts[i] = fmt.Sprintf("[%s, Page %d]\n%s", p.Title, p.PageNumber, p.Content)
	}
	return strings.Join(parts, passageSeparator)
}

func buildPrompt(question string, passages []index.Passage) string {
	return fmt.Sprintf(answerPrompt, buildContext(passages), question)
}

// excerpt returns the first 200 characters of content followed by "...".
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return string(runes) + "..."
}

// sourcesFor keeps the first passage seen for each (document, page) pair.
func sourcesFor(passages []index.Passage) []Source {
	type key struct {
		docID string
		page  int
	}
	seen := make(map[key]bool)
	sources := make([]Source, 0, len(passages))
	for _, p := range passages {
		k := key{p.DocumentID, p.PageNumber}
		if seen[k] {
			continue
		}
		seen[k] = true
		sources = append(sources, Source{
			DocumentID:    p.DocumentID,
			DocumentTitle: p.Title,
			PageNumber:    p.PageNumber,
			Excerpt:       excerpt(p.Content),
		})
	}
	return sources
}
