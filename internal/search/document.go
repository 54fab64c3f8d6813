package search

import (
	"regexp"
	"strings"
)

// Document is one corpus entry handed to the index by the loader.
type Document struct {
	ID   string // unique identifier, typically the file path
	Text string // full extracted text
}

// Chunk is a bounded window of a document's text, the unit of retrieval.
type Chunk struct {
	Document string // owning document ID
	Text     string // raw text span
	Start    int    // byte offset of the span within the document
	Index    int    // position in the index's global chunk list
}

// Result is one ranked retrieval hit returned by a query.
type Result struct {
	ChunkText string  `json:"chunk_text"`
	Document  string  `json:"document"`
	Score     float64 `json:"score"`
}

// Word tokens are runs of two or more letters/digits.
var tokenPattern = regexp.MustCompile(`[\pL\pN][\pL\pN]+`)

// Tokenize splits text into normalized tokens (lowercase words)
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// DefaultStopwords returns the built-in English stopword set.
func DefaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was",
		"were", "be", "been", "being", "it", "its", "this", "that", "these",
		"those", "from", "up", "down", "over", "under", "again", "further",
		"than", "so", "such", "into", "about", "between", "through", "during",
		"before", "after", "above", "below", "out", "off", "own", "same",
		"too", "very", "can", "will", "just", "should", "now", "he", "she",
		"they", "them", "his", "her", "their", "we", "you", "your", "i", "me",
		"my", "not", "no", "nor", "do", "does", "did", "has", "have", "had",
		"what", "which", "who", "whom", "when", "where", "why", "how", "all",
		"any", "both", "each", "few", "more", "most", "other", "some", "only",
		"there", "here", "once", "while", "because", "until", "against",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
