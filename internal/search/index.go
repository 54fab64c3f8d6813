package search

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// ErrNoIndex signals that no searchable content is available: the corpus was
// empty, every chunk was filtered, or the vocabulary came out empty. Callers
// should treat it as "no matching content", not as a failure.
var ErrNoIndex = errors.New("no index available")

// ErrInvalidConfig marks malformed configuration detected at build or query
// entry. It is the only error class that surfaces past the index boundary.
var ErrInvalidConfig = errors.New("invalid configuration")

// IndexOptions holds every knob of the retrieval core.
type IndexOptions struct {
	ChunkSize    int // characters per chunk
	ChunkOverlap int // overlapping characters between consecutive chunks
	MaxFeatures  int // vocabulary cap, <=0 means uncapped
	Stopwords    map[string]struct{}
	NgramMin     int
	NgramMax     int
	SublinearTF  bool
	Workers      int // parallel vectorization workers, <=1 means sequential
}

// Validate rejects malformed options before any computation starts.
func (o IndexOptions) Validate() error {
	if o.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, o.ChunkSize)
	}
	if o.ChunkOverlap < 0 || o.ChunkOverlap >= o.ChunkSize {
		return fmt.Errorf("%w: chunk overlap must satisfy 0 <= overlap < chunk size, got %d", ErrInvalidConfig, o.ChunkOverlap)
	}
	if o.NgramMin < 0 || o.NgramMax < o.NgramMin {
		return fmt.Errorf("%w: n-gram range (%d,%d) is not ascending", ErrInvalidConfig, o.NgramMin, o.NgramMax)
	}
	return nil
}

// Index owns the vocabulary and the ordered (chunk, vector) pairs for one
// corpus build. It is immutable after BuildIndex returns; a corpus reload
// replaces the whole value.
type Index struct {
	Vocab *Vocabulary

	vectorizer *Vectorizer
	chunks     []Chunk
	vectors    []Vector
}

// BuildIndex chunks every document, builds the vocabulary over the full
// chunk set, and vectorizes each chunk. Chunks whose vector has zero norm
// share no vocabulary term and are excluded with a log notice. An empty or
// fully degenerate corpus yields an empty index, not an error.
func BuildIndex(docs []Document, opts IndexOptions, logger *logrus.Entry) (*Index, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}

	var chunks []Chunk
	for _, doc := range docs {
		windows, err := ChunkText(doc.Text, opts.ChunkSize, opts.ChunkOverlap)
		if err != nil {
			return nil, err
		}
		for _, w := range windows {
			chunks = append(chunks, Chunk{
				Document: doc.ID,
				Text:     w.Text,
				Start:    w.Start,
				Index:    len(chunks),
			})
		}
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vocab := BuildVocabulary(texts, VocabularyOptions{
		MaxFeatures: opts.MaxFeatures,
		Stopwords:   opts.Stopwords,
		NgramMin:    opts.NgramMin,
		NgramMax:    opts.NgramMax,
	})
	vectorizer := NewVectorizer(vocab, opts.SublinearTF)
	vectors := vectorizer.TransformAll(texts, opts.Workers)

	ix := &Index{Vocab: vocab, vectorizer: vectorizer}
	for i, vec := range vectors {
		if len(vec) == 0 {
			logger.WithField("document", chunks[i].Document).
				Warnf("Skipping chunk %d: no vocabulary terms present", chunks[i].Index)
			continue
		}
		c := chunks[i]
		c.Index = len(ix.chunks)
		ix.chunks = append(ix.chunks, c)
		ix.vectors = append(ix.vectors, vec)
	}

	logger.Infof("Index built: %d chunks, %d terms", len(ix.chunks), vocab.Size())
	return ix, nil
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int { return len(ix.chunks) }

// Empty reports whether the index has nothing searchable.
func (ix *Index) Empty() bool { return len(ix.chunks) == 0 || ix.Vocab.Size() == 0 }

// Chunks returns the indexed chunks in positional order.
func (ix *Index) Chunks() []Chunk { return ix.chunks }

// Vectors returns the chunk vectors in positional order; vector i belongs
// to chunk i.
func (ix *Index) Vectors() []Vector { return ix.vectors }

// Query vectorizes the query text against the stored vocabulary and returns
// the top-k chunks ranked by cosine similarity strictly above minSimilarity.
// An empty index yields ErrNoIndex; a query with no vocabulary terms yields
// an empty result.
func (ix *Index) Query(text string, topK int, minSimilarity float64) ([]Result, error) {
	if topK < 0 {
		return nil, fmt.Errorf("%w: top-k must not be negative, got %d", ErrInvalidConfig, topK)
	}
	if ix.Empty() {
		return nil, ErrNoIndex
	}

	queryVec := ix.vectorizer.Transform(text)
	hits := Rank(queryVec, ix.vectors, topK, minSimilarity)

	results := make([]Result, len(hits))
	for i, hit := range hits {
		chunk := ix.chunks[hit.ChunkIndex]
		results[i] = Result{
			ChunkText: chunk.Text,
			Document:  chunk.Document,
			Score:     hit.Score,
		}
	}
	return results, nil
}
