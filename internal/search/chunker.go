package search

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Window is one fixed-size slice of a document's text.
type Window struct {
	Text  string
	Start int // byte offset within the source text
}

// ChunkText splits text into windows of `size` characters that overlap by
// `overlap` characters. Windows begin and end on rune boundaries, so the
// spans are always valid UTF-8; Start counts bytes so a span can be sliced
// straight out of the source. Windows whose trimmed content is empty are
// discarded. An empty text yields no windows and no error.
func ChunkText(text string, size, overlap int) ([]Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap must satisfy 0 <= overlap < size, got %d", ErrInvalidConfig, overlap)
	}

	runes := []rune(text)
	// byte offset of each rune start, so Start stays a source-text index
	offsets := make([]int, len(runes)+1)
	for i, r := range runes {
		offsets[i+1] = offsets[i] + utf8.RuneLen(r)
	}

	var windows []Window
	step := size - overlap
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		span := string(runes[start:end])
		if strings.TrimSpace(span) == "" {
			continue
		}
		windows = append(windows, Window{Text: span, Start: offsets[start]})
	}
	return windows, nil
}
