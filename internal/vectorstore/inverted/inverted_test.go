package inverted

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"recs/internal/domain"
	"recs/internal/embedding"
	"recs/internal/parallel"
	"recs/internal/vectorstore/memory"
)

func randomCorpus(n, dim int, seed int64) []embedding.Vector {
	rng := rand.New(rand.NewSource(seed))
	out := make([]embedding.Vector, n)
	for i := range out {
		var v embedding.Vector
		for t := 0; t < dim; t++ {
			if rng.Intn(4) == 0 {
				v.Indices = append(v.Indices, t)
				v.Values = append(v.Values, float64(1+rng.Intn(3))*(1+rng.Float64()))
			}
		}
		out[i] = embedding.Normalize(v)
	}
	return out
}

func TestIndexMatchesDenseMatrix(t *testing.T) {
	vectors := randomCorpus(60, 25, 7)
	idx := NewIndex(vectors, 25)
	dense, err := memory.NewMatrix(context.Background(), parallel.Executor{Workers: 4}, vectors)
	if err != nil {
		t.Fatalf("NewMatrix() error = %v", err)
	}
	if idx.Len() != dense.Len() {
		t.Fatalf("Len() = %d, want %d", idx.Len(), dense.Len())
	}
	for i := 0; i < idx.Len(); i++ {
		got, err := idx.Row(i)
		if err != nil {
			t.Fatalf("Row(%d) error = %v", i, err)
		}
		want, _ := dense.Row(i)
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("(%d,%d): sparse %v != dense %v", i, j, got[j], want[j])
			}
			pair, _ := idx.Pair(i, j)
			if pair != want[j] {
				t.Fatalf("Pair(%d,%d) = %v, want %v", i, j, pair, want[j])
			}
		}
	}
}

func TestIndexZeroVector(t *testing.T) {
	vectors := []embedding.Vector{
		{},
		embedding.Normalize(embedding.Vector{Indices: []int{0}, Values: []float64{1}}),
	}
	idx := NewIndex(vectors, 1)
	row, err := idx.Row(0)
	if err != nil {
		t.Fatalf("Row(0) error = %v", err)
	}
	for j, s := range row {
		if s != 0 {
			t.Errorf("zero item row[%d] = %v, want 0", j, s)
		}
	}
	if s, _ := idx.Pair(1, 1); s != 1 {
		t.Errorf("Pair(1,1) = %v, want 1", s)
	}
	if s, _ := idx.Pair(1, 0); s != 0 {
		t.Errorf("Pair(1,0) = %v, want 0", s)
	}
}

func TestIndexOutOfRange(t *testing.T) {
	idx := NewIndex(nil, 0)
	if _, err := idx.Row(0); !errors.Is(err, domain.ErrOutOfRange) {
		t.Errorf("Row(0) on empty index error = %v, want ErrOutOfRange", err)
	}
	if _, err := idx.Pair(0, 0); !errors.Is(err, domain.ErrOutOfRange) {
		t.Errorf("Pair(0,0) on empty index error = %v, want ErrOutOfRange", err)
	}
}
