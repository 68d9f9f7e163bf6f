package inverted

import (
	"recs/internal/embedding"
	"recs/internal/vectorstore"
)

type posting struct {
	row    int
	weight float64
}

// Index keeps one posting list per vocabulary column and computes
// similarity rows on demand, touching only items that share a term with
// the query. Nothing of size N×N is ever materialized.
type Index struct {
	vectors  []embedding.Vector
	postings [][]posting
	nonZero  []bool
}

// NewIndex builds posting lists for L2-normalized vectors over a vocabulary
// of dim columns. Postings are appended in row order.
func NewIndex(vectors []embedding.Vector, dim int) *Index {
	idx := &Index{
		vectors:  vectors,
		postings: make([][]posting, dim),
		nonZero:  make([]bool, len(vectors)),
	}
	for row, v := range vectors {
		idx.nonZero[row] = !v.IsZero()
		for k, t := range v.Indices {
			if v.Values[k] == 0 {
				continue
			}
			idx.postings[t] = append(idx.postings[t], posting{row: row, weight: v.Values[k]})
		}
	}
	return idx
}

// Name returns the identifier of this storage implementation.
func (x *Index) Name() string { return "sparse" }

// Len returns the number of rows.
func (x *Index) Len() int { return len(x.vectors) }

// Row computes row i. Scores for each candidate accumulate in ascending
// column order, the same order embedding.Dot uses, so rows match the dense
// matrix exactly.
func (x *Index) Row(i int) ([]float64, error) {
	if err := vectorstore.CheckIndex(i, len(x.vectors)); err != nil {
		return nil, err
	}
	acc := make([]float64, len(x.vectors))
	if !x.nonZero[i] {
		return acc, nil
	}
	q := x.vectors[i]
	for k, t := range q.Indices {
		for _, p := range x.postings[t] {
			acc[p.row] += float64(q.Values[k] * p.weight)
		}
	}
	for j := range acc {
		acc[j] = vectorstore.Score(i, j, acc[j], true)
	}
	return acc, nil
}

// Pair returns the similarity of rows i and j without building a full row.
func (x *Index) Pair(i, j int) (float64, error) {
	if err := vectorstore.CheckIndex(i, len(x.vectors)); err != nil {
		return 0, err
	}
	if err := vectorstore.CheckIndex(j, len(x.vectors)); err != nil {
		return 0, err
	}
	if !x.nonZero[i] || !x.nonZero[j] {
		return 0, nil
	}
	return vectorstore.Score(i, j, embedding.Dot(x.vectors[i], x.vectors[j]), true), nil
}
