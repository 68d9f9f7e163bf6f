// Package ranking orders similarity rows into neighbor lists.
package ranking

import (
	"fmt"
	"sort"

	"recs/internal/domain"
)

// TopK returns up to k row indices from row, highest score first, ties
// broken by ascending item ID. ids maps row index to item ID and must be as
// long as row. The query row self is left out unless includeSelf is set.
func TopK(row []float64, ids []int, self, k int, includeSelf bool) ([]int, error) {
	if k < 0 {
		return nil, fmt.Errorf("k = %d: %w", k, domain.ErrInvalidInput)
	}
	if len(ids) != len(row) {
		return nil, fmt.Errorf("row has %d scores for %d ids: %w", len(row), len(ids), domain.ErrInvalidInput)
	}
	if k == 0 {
		return []int{}, nil
	}
	idxs := make([]int, 0, len(row))
	for i := range row {
		if i == self && !includeSelf {
			continue
		}
		idxs = append(idxs, i)
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		sa, sb := row[idxs[a]], row[idxs[b]]
		if sa != sb {
			return sa > sb
		}
		return ids[idxs[a]] < ids[idxs[b]]
	})
	if k > len(idxs) {
		k = len(idxs)
	}
	return idxs[:k], nil
}
