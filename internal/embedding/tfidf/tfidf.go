package tfidf

import (
	"math"

	"recs/internal/embedding"
)

// Weighter holds corpus document frequencies and the smoothed IDF of every
// vocabulary column. It is immutable after Fit.
type Weighter struct {
	docFreq []int
	idf     []float64
	docs    int
}

// Fit computes document frequencies over counts, one entry per item, for a
// vocabulary of dim columns.
func Fit(counts []embedding.TermCounts, dim int) *Weighter {
	w := &Weighter{
		docFreq: make([]int, dim),
		idf:     make([]float64, dim),
		docs:    len(counts),
	}
	for _, c := range counts {
		for i, idx := range c.Indices {
			if c.Counts[i] > 0 {
				w.docFreq[idx]++
			}
		}
	}
	N := float64(w.docs)
	for t := range w.idf {
		// Smoothed IDF
		w.idf[t] = math.Log((1+N)/(1+float64(w.docFreq[t]))) + 1.0
	}
	return w
}

// Dimension returns the vocabulary size the weighter was fit on.
func (w *Weighter) Dimension() int { return len(w.idf) }

// Docs returns the number of items in the fitted corpus.
func (w *Weighter) Docs() int { return w.docs }

// DocFreq returns the number of items containing column t.
func (w *Weighter) DocFreq(t int) int { return w.docFreq[t] }

// IDF returns the inverse document frequency of column t.
func (w *Weighter) IDF(t int) float64 { return w.idf[t] }

// Weigh converts raw counts into TF-IDF weights. Term frequency is the raw
// count.
func (w *Weighter) Weigh(c embedding.TermCounts) embedding.Vector {
	if c.Len() == 0 {
		return embedding.Vector{}
	}
	vec := embedding.Vector{
		Indices: make([]int, 0, c.Len()),
		Values:  make([]float64, 0, c.Len()),
	}
	for i, idx := range c.Indices {
		if c.Counts[i] <= 0 {
			continue
		}
		vec.Indices = append(vec.Indices, idx)
		vec.Values = append(vec.Values, float64(c.Counts[i])*w.idf[idx])
	}
	return vec
}
