package embedding

import "math"

// Vector is a sparse real vector stored as parallel slices of ascending
// column indices and their values. The zero vector has no entries.
type Vector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of stored entries.
func (v Vector) Len() int { return len(v.Indices) }

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// Norm returns the L2 norm of v.
func Norm(v Vector) float64 {
	sum := 0.0
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalize returns v scaled to unit L2 length. A zero vector stays zero.
func Normalize(v Vector) Vector {
	norm := Norm(v)
	if norm == 0 {
		return Vector{}
	}
	out := Vector{
		Indices: make([]int, len(v.Indices)),
		Values:  make([]float64, len(v.Values)),
	}
	copy(out.Indices, v.Indices)
	for i, x := range v.Values {
		out.Values[i] = x / norm
	}
	return out
}

// Dot computes the inner product of two sorted sparse vectors with a
// merge-join. Products are summed in ascending index order, so Dot(a, b)
// and Dot(b, a) are bit-identical. Each product is rounded before the add
// so the compiler cannot fuse it.
func Dot(a, b Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += float64(a.Values[i] * b.Values[j])
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
