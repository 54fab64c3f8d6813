package search

import (
	"math"
	"sync"
)

// Vector is a sparse TF-IDF vector: term-id -> weight. Non-degenerate
// vectors are normalized to unit L2 length.
type Vector map[int]float64

// Dot computes the sparse dot product, iterating the smaller operand.
func (a Vector) Dot(b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for id, w := range a {
		if w2, ok := b[id]; ok {
			dot += w * w2
		}
	}
	return dot
}

// Norm returns the L2 norm of the vector.
func (a Vector) Norm() float64 {
	var sum float64
	for _, w := range a {
		sum += w * w
	}
	return math.Sqrt(sum)
}

func (a Vector) normalize() {
	norm := a.Norm()
	if norm == 0 {
		return
	}
	for id := range a {
		a[id] /= norm
	}
}

// Vectorizer converts text into TF-IDF vectors against a fixed vocabulary.
// Transform never mutates the vocabulary, so queries cannot grow the index.
type Vectorizer struct {
	Vocab       *Vocabulary
	SublinearTF bool

	idf []float64
}

// NewVectorizer precomputes smoothed idf weights from the vocabulary's
// document frequencies: idf(t) = ln((1+N)/(1+df(t))) + 1. Every term in
// the vocabulary gets a strictly positive idf.
func NewVectorizer(vocab *Vocabulary, sublinearTF bool) *Vectorizer {
	idf := make([]float64, vocab.Size())
	n := float64(vocab.Docs)
	for id, df := range vocab.DF {
		idf[id] = math.Log((1+n)/(1+float64(df))) + 1
	}
	return &Vectorizer{Vocab: vocab, SublinearTF: sublinearTF, idf: idf}
}

// Transform converts one text into a unit-length sparse vector. A text that
// shares no vocabulary term yields an empty (zero) vector.
func (v *Vectorizer) Transform(text string) Vector {
	counts := make(map[int]int)
	for _, term := range v.Vocab.TermsOf(text) {
		if id, ok := v.Vocab.TermIDs[term]; ok {
			counts[id]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	vec := make(Vector, len(counts))
	for id, c := range counts {
		tf := float64(c)
		if v.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		vec[id] = tf * v.idf[id]
	}
	vec.normalize()
	return vec
}

// TransformAll vectorizes every text, optionally across workers. Results
// are written positionally so the output order always matches the input
// order regardless of scheduling.
func (v *Vectorizer) TransformAll(texts []string, workers int) []Vector {
	vectors := make([]Vector, len(texts))
	if workers <= 1 || len(texts) < 2 {
		for i, text := range texts {
			vectors[i] = v.Transform(text)
		}
		return vectors
	}

	if workers > len(texts) {
		workers = len(texts)
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				vectors[i] = v.Transform(texts[i])
			}
		}()
	}
	for i := range texts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return vectors
}
