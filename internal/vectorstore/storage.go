package vectorstore

import (
	"fmt"

	"recs/internal/domain"
)

// Storage answers cosine similarity lookups over a fixed set of unit
// vectors, addressed by dense row index.
type Storage interface {
	Name() string
	Len() int
	Row(i int) ([]float64, error)
	Pair(i, j int) (float64, error)
}

// Score turns a raw dot product into the stored similarity. The diagonal is
// pinned to 1 for non-zero vectors and 0 otherwise; everything else is
// clamped to [0, 1] to absorb rounding on near-identical vectors.
func Score(i, j int, dot float64, nonZero bool) float64 {
	if i == j {
		if nonZero {
			return 1
		}
		return 0
	}
	if dot > 1 {
		return 1
	}
	if dot < 0 {
		return 0
	}
	return dot
}

// CheckIndex validates row i against a store of n rows.
func CheckIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("row %d not in [0, %d): %w", i, n, domain.ErrOutOfRange)
	}
	return nil
}
