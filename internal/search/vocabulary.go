package search

import (
	"sort"
	"strings"
)

// VocabularyOptions controls tokenization and feature selection.
type VocabularyOptions struct {
	// MaxFeatures caps the vocabulary size. Zero or negative means no cap.
	MaxFeatures int
	// Stopwords are dropped before n-gram assembly.
	Stopwords map[string]struct{}
	// NgramMin and NgramMax bound the n-gram sizes indexed as terms.
	// Both default to 1 (unigrams only).
	NgramMin int
	NgramMax int
}

func (o VocabularyOptions) withDefaults() VocabularyOptions {
	if o.NgramMin <= 0 {
		o.NgramMin = 1
	}
	if o.NgramMax < o.NgramMin {
		o.NgramMax = o.NgramMin
	}
	return o
}

// termsOf produces the candidate terms of a text: stopword-filtered tokens
// expanded into n-grams (adjacent tokens joined by a single space).
func (o VocabularyOptions) termsOf(text string) []string {
	tokens := Tokenize(text)
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, stop := o.Stopwords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}

	if o.NgramMin == 1 && o.NgramMax == 1 {
		return kept
	}
	var terms []string
	for n := o.NgramMin; n <= o.NgramMax; n++ {
		for i := 0; i+n <= len(kept); i++ {
			terms = append(terms, strings.Join(kept[i:i+n], " "))
		}
	}
	return terms
}

// Vocabulary maps terms to stable 0-based ids with per-term document
// frequency statistics. It is built once per corpus and read-only afterward.
type Vocabulary struct {
	TermIDs map[string]int // term -> id
	Terms   []string       // id -> term
	DF      []int          // id -> number of distinct chunks containing the term
	Docs    int            // total chunks scanned during the build

	opts VocabularyOptions
}

// BuildVocabulary scans all chunks once and selects up to MaxFeatures terms.
// When the candidate count exceeds the cap, the highest-document-frequency
// terms are kept, ties broken by earliest first appearance. An entirely
// filtered corpus yields an empty vocabulary, not an error.
func BuildVocabulary(chunks []string, opts VocabularyOptions) *Vocabulary {
	opts = opts.withDefaults()

	df := make(map[string]int)
	firstSeen := make(map[string]int)
	var candidates []string

	for _, text := range chunks {
		seen := make(map[string]struct{})
		for _, term := range opts.termsOf(text) {
			if _, ok := firstSeen[term]; !ok {
				firstSeen[term] = len(candidates)
				candidates = append(candidates, term)
			}
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	selected := candidates
	if opts.MaxFeatures > 0 && len(candidates) > opts.MaxFeatures {
		selected = append([]string(nil), candidates...)
		sort.SliceStable(selected, func(i, j int) bool {
			if df[selected[i]] != df[selected[j]] {
				return df[selected[i]] > df[selected[j]]
			}
			return firstSeen[selected[i]] < firstSeen[selected[j]]
		})
		selected = selected[:opts.MaxFeatures]
	}

	v := &Vocabulary{
		TermIDs: make(map[string]int, len(selected)),
		Terms:   make([]string, 0, len(selected)),
		DF:      make([]int, 0, len(selected)),
		Docs:    len(chunks),
		opts:    opts,
	}
	for _, term := range selected {
		v.TermIDs[term] = len(v.Terms)
		v.Terms = append(v.Terms, term)
		v.DF = append(v.DF, df[term])
	}
	return v
}

// Size returns the number of terms in the vocabulary.
func (v *Vocabulary) Size() int { return len(v.Terms) }

// TermsOf tokenizes text with the same rules the vocabulary was built with.
func (v *Vocabulary) TermsOf(text string) []string { return v.opts.termsOf(text) }
