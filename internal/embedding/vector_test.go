package embedding

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	v := Normalize(Vector{Indices: []int{0, 2}, Values: []float64{3, 4}})
	if math.Abs(Norm(v)-1) > 1e-12 {
		t.Errorf("Norm = %f, want 1", Norm(v))
	}
	if math.Abs(v.Values[0]-0.6) > 1e-12 || math.Abs(v.Values[1]-0.8) > 1e-12 {
		t.Errorf("Values = %v, want [0.6 0.8]", v.Values)
	}
}

func TestNormalizeZero(t *testing.T) {
	tests := []struct {
		name string
		in   Vector
	}{
		{name: "empty", in: Vector{}},
		{name: "explicit zeros", in: Vector{Indices: []int{1, 4}, Values: []float64{0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(tt.in)
			if !out.IsZero() {
				t.Errorf("Normalize(%v) = %v, want zero vector", tt.in, out)
			}
			if out.Len() != 0 {
				t.Errorf("Len() = %d, want 0", out.Len())
			}
		})
	}
}

func TestNormalizeDoesNotAlias(t *testing.T) {
	in := Vector{Indices: []int{0}, Values: []float64{2}}
	_ = Normalize(in)
	if in.Values[0] != 2 {
		t.Errorf("input mutated: %v", in.Values)
	}
}

func TestDot(t *testing.T) {
	// a=[3,4,0], b=[0,4,3]
	a := Vector{Indices: []int{0, 1}, Values: []float64{3, 4}}
	b := Vector{Indices: []int{1, 2}, Values: []float64{4, 3}}
	if got := Dot(a, b); got != 16 {
		t.Errorf("Dot = %f, want 16", got)
	}
	if Dot(a, b) != Dot(b, a) {
		t.Error("Dot is not symmetric")
	}
	disjoint := Vector{Indices: []int{5}, Values: []float64{1}}
	if got := Dot(a, disjoint); got != 0 {
		t.Errorf("Dot disjoint = %f, want 0", got)
	}
	if got := Dot(a, Vector{}); got != 0 {
		t.Errorf("Dot with zero = %f, want 0", got)
	}
}
