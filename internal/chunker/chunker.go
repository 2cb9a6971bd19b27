// Package chunker splits page text into overlapping, size-bounded chunks,
// preferring to break on paragraph, line, sentence and word boundaries.
package chunker

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/docqa/internal/docerr"
)

const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Separators in order of preference. A hard split is used when none fits.
var separators = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(". "),
	[]rune(" "),
}

// Splitter cuts text into chunks of at most Size characters where each chunk
// shares exactly Overlap characters with the one before it.
type Splitter struct {
	size    int
	overlap int
}

// New returns a Splitter. Lengths are counted in runes.
func New(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", docerr.ErrConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", docerr.ErrConfig, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap (%d) must be smaller than chunk size (%d)", docerr.ErrConfig, overlap, size)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Size returns the maximum chunk length.
func (s *Splitter) Size() int { return s.size }

// Overlap returns the number of characters shared by consecutive chunks.
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns the chunks of text in order. Blank text yields no chunks and
// text that already fits is returned unchanged.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= s.size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		if len(runes)-start <= s.size {
			chunks = appendChunk(chunks, runes[start:])
			break
		}
		end := s.cut(runes, start)
		chunks = appendChunk(chunks, runes[start:end])
		start = end - s.overlap
	}
	return chunks
}

// cut picks the end of the chunk starting at start. The end always lies past
// start+overlap so every iteration advances.
func (s *Splitter) cut(runes []rune, start int) int {
	window := runes[start : start+s.size]
	for _, sep := range separators {
		if end := lastBoundary(window, sep, s.overlap); end > 0 {
			return start + end
		}
	}
	return start + s.size
}

// lastBoundary returns the offset just past the last occurrence of sep in
// window, provided that offset is greater than floor. It returns 0 otherwise.
func lastBoundary(window, sep []rune, floor int) int {
	for i := len(window) - len(sep); i >= 0; i-- {
		if i+len(sep) <= floor {
			return 0
		}
		if hasPrefix(window[i:], sep) {
			return i + len(sep)
		}
	}
	return 0
}

func hasPrefix(s, prefix []rune) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}

func appendChunk(chunks []string, runes []rune) []string {
	c := string(runes)
	if strings.TrimSpace(c) == "" {
		return chunks
	}
	return append(chunks, c)
}
