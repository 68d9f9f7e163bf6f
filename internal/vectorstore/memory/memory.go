package memory

import (
	"context"

	"recs/internal/embedding"
	"recs/internal/parallel"
	"recs/internal/vectorstore"
)

// Matrix is a dense, fully materialized N×N similarity matrix. It suits
// small corpora; memory grows with the square of the item count.
type Matrix struct {
	n    int
	data []float64
}

// NewMatrix computes every pairwise similarity of vectors, which must be
// L2-normalized. Rows are split into blocks on exec and each block writes
// only its own rows.
func NewMatrix(ctx context.Context, exec parallel.Executor, vectors []embedding.Vector) (*Matrix, error) {
	n := len(vectors)
	m := &Matrix{n: n, data: make([]float64, n*n)}
	nonZero := make([]bool, n)
	for i, v := range vectors {
		nonZero[i] = !v.IsZero()
	}
	err := exec.Blocks(ctx, n, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			row := m.data[i*n : (i+1)*n]
			for j := range vectors {
				if !nonZero[i] || !nonZero[j] {
					continue
				}
				row[j] = vectorstore.Score(i, j, embedding.Dot(vectors[i], vectors[j]), true)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Name returns the identifier of this storage implementation.
func (m *Matrix) Name() string { return "dense" }

// Len returns the number of rows.
func (m *Matrix) Len() int { return m.n }

// Row returns a copy of row i.
func (m *Matrix) Row(i int) ([]float64, error) {
	if err := vectorstore.CheckIndex(i, m.n); err != nil {
		return nil, err
	}
	out := make([]float64, m.n)
	copy(out, m.data[i*m.n:(i+1)*m.n])
	return out, nil
}

// Pair returns the similarity of rows i and j.
func (m *Matrix) Pair(i, j int) (float64, error) {
	if err := vectorstore.CheckIndex(i, m.n); err != nil {
		return 0, err
	}
	if err := vectorstore.CheckIndex(j, m.n); err != nil {
		return 0, err
	}
	return m.data[i*m.n+j], nil
}
