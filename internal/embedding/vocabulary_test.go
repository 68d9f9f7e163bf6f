package embedding

import (
	"reflect"
	"testing"
)

func TestBuildVocabulary(t *testing.T) {
	v := BuildVocabulary([][]string{{"Italian", "Pizza"}, {"Indian", "Curry"}})
	if v.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", v.Len())
	}
	want := []string{"Curry", "Indian", "Italian", "Pizza"}
	for i, term := range want {
		if got := v.Term(i); got != term {
			t.Errorf("Term(%d) = %q, want %q", i, got, term)
		}
		if idx, ok := v.Index(term); !ok || idx != i {
			t.Errorf("Index(%q) = %d, %v; want %d, true", term, idx, ok, i)
		}
	}
}

func TestBuildVocabularyEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		docs [][]string
		want int
	}{
		{name: "nil corpus", docs: nil, want: 0},
		{name: "empty items", docs: [][]string{{}, nil}, want: 0},
		{name: "empty tokens ignored", docs: [][]string{{"", "thai", ""}}, want: 1},
		{name: "duplicates collapse", docs: [][]string{{"thai", "thai"}, {"thai"}}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildVocabulary(tt.docs).Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildVocabularyDeterministic(t *testing.T) {
	docs := [][]string{{"zeta", "alpha", "mid"}, {"beta", "alpha"}}
	a := BuildVocabulary(docs)
	b := BuildVocabulary(docs)
	if !reflect.DeepEqual(a.terms, b.terms) {
		t.Errorf("vocabularies differ: %v vs %v", a.terms, b.terms)
	}
}

func TestCount(t *testing.T) {
	v := BuildVocabulary([][]string{{"Italian", "Pizza"}, {"Indian", "Curry"}})

	c := v.Count([]string{"Pizza", "Italian", "Pizza", "unknown"})
	if !reflect.DeepEqual(c.Indices, []int{2, 3}) {
		t.Errorf("Indices = %v, want [2 3]", c.Indices)
	}
	if !reflect.DeepEqual(c.Counts, []int{1, 2}) {
		t.Errorf("Counts = %v, want [1 2]", c.Counts)
	}

	for _, doc := range [][]string{{"Italian", "Pizza"}, {"Indian", "Curry"}} {
		if got := v.Count(doc).Len(); got != 2 {
			t.Errorf("Count(%v).Len() = %d, want 2", doc, got)
		}
	}

	if got := v.Count(nil).Len(); got != 0 {
		t.Errorf("Count(nil).Len() = %d, want 0", got)
	}
}
