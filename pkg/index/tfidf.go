package index

import (
	"math"
	"sort"

	"github.com/markserve/markserve/internal/utils"
	"github.com/markserve/markserve/pkg/bookmark"
)

// Vector is a sparse term -> weight mapping for one document.
type Vector map[string]float64

// Neighbor is one "similar item" candidate with its cosine similarity.
type Neighbor struct {
	ID    string
	Score float64
}

// TFIDF holds the per-document vectors and the corpus-wide IDF table for one
// snapshot. Everything here is invalidated together on snapshot swap.
type TFIDF struct {
	ids     []string
	byID    map[string]int
	vectors []Vector
	norms   []float64
	idf     map[string]float64
}

// NewTFIDF builds vectors for every record's indexable document.
//
// Term frequency is raw count over document length; IDF is the smoothed
// ln(N/(df+1)) + 1 so rare terms stay finite and nothing divides by zero.
func NewTFIDF(records []bookmark.Record) *TFIDF {
	n := len(records)
	ix := &TFIDF{
		ids:     make([]string, n),
		byID:    make(map[string]int, n),
		vectors: make([]Vector, n),
		norms:   make([]float64, n),
		idf:     make(map[string]float64),
	}

	docTokens := make([][]string, n)
	docFreq := make(map[string]int)
	for i, r := range records {
		ix.ids[i] = r.ID
		ix.byID[r.ID] = i

		tokens := utils.Tokenize(r.Document())
		docTokens[i] = tokens

		seen := make(map[string]bool, len(tokens))
		for _, t := range tokens {
			if !seen[t] {
				seen[t] = true
				docFreq[t]++
			}
		}
	}

	for term, df := range docFreq {
		ix.idf[term] = math.Log(float64(n)/float64(df+1)) + 1
	}

	for i, tokens := range docTokens {
		vec := make(Vector, len(tokens))
		if len(tokens) > 0 {
			counts := make(map[string]int, len(tokens))
			for _, t := range tokens {
				counts[t]++
			}
			docLen := float64(len(tokens))
			for term, count := range counts {
				vec[term] = (float64(count) / docLen) * ix.idf[term]
			}
		}
		ix.vectors[i] = vec
		ix.norms[i] = norm(vec)
	}
	return ix
}

// Size returns the number of indexed documents.
func (ix *TFIDF) Size() int { return len(ix.ids) }

// Vector returns the sparse vector for a bookmark id, or nil if unknown.
func (ix *TFIDF) Vector(id string) Vector {
	if i, ok := ix.byID[id]; ok {
		return ix.vectors[i]
	}
	return nil
}

// Similar returns up to k neighbors of the given item, most similar first,
// excluding the item itself. Ties keep snapshot order. Unknown ids and
// zero-magnitude vectors yield an empty result, not an error.
func (ix *TFIDF) Similar(id string, k int) []Neighbor {
	self, ok := ix.byID[id]
	if !ok || k <= 0 {
		return nil
	}

	var out []Neighbor
	for i := range ix.vectors {
		if i == self {
			continue
		}
		score := cosine(ix.vectors[self], ix.vectors[i], ix.norms[self], ix.norms[i])
		if score <= 0 {
			continue
		}
		out = append(out, Neighbor{ID: ix.ids[i], Score: score})
	}

	// Stable keeps snapshot order for equal scores.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// CosineSimilarity computes the similarity of two sparse vectors.
// Zero magnitude on either side means similarity 0, never an error.
func CosineSimilarity(a, b Vector) float64 {
	return cosine(a, b, norm(a), norm(b))
}

func cosine(a, b Vector, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	// Iterate the smaller map.
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	return dot / (normA * normB)
}

func norm(v Vector) float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}
