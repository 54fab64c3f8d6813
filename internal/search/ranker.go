package search

import "sort"

// Hit pairs a chunk index with its similarity score.
type Hit struct {
	ChunkIndex int
	Score      float64
}

// Rank scores the query vector against every corpus vector and returns the
// top-k hits whose cosine similarity strictly exceeds minSimilarity. Both
// sides are pre-normalized, so the score is a plain sparse dot product.
// Ties break toward the lower chunk index. A non-positive topK, an empty
// corpus, or a degenerate (zero) query vector yields no hits.
func Rank(query Vector, vectors []Vector, topK int, minSimilarity float64) []Hit {
	if topK <= 0 || len(vectors) == 0 || len(query) == 0 {
		return nil
	}

	hits := make([]Hit, 0, len(vectors))
	for i, vec := range vectors {
		score := query.Dot(vec)
		if score > minSimilarity {
			hits = append(hits, Hit{ChunkIndex: i, Score: score})
		}
	}

	// Stable sort keeps equal scores in ascending chunk order.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}
