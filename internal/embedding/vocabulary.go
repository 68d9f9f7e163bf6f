package embedding

import "sort"

// Vocabulary maps each distinct corpus token to a column index.
// Indices follow lexicographic token order so identical corpora always
// produce identical vectors. A Vocabulary is immutable once built.
type Vocabulary struct {
	index map[string]int
	terms []string
}

// TermCounts is a sparse count vector over a Vocabulary, sorted by index.
type TermCounts struct {
	Indices []int
	Counts  []int
}

// BuildVocabulary collects the distinct non-empty tokens of docs.
func BuildVocabulary(docs [][]string) *Vocabulary {
	seen := make(map[string]struct{})
	for _, tokens := range docs {
		for _, tok := range tokens {
			if tok == "" {
				continue
			}
			seen[tok] = struct{}{}
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}
	return &Vocabulary{index: index, terms: terms}
}

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Index returns the column of term.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Term returns the token at column i.
func (v *Vocabulary) Term(i int) string { return v.terms[i] }

// Count builds the term count vector of tokens. Tokens missing from the
// vocabulary are dropped.
func (v *Vocabulary) Count(tokens []string) TermCounts {
	tf := make(map[int]int)
	for _, tok := range tokens {
		if idx, ok := v.index[tok]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return TermCounts{}
	}
	out := TermCounts{
		Indices: make([]int, 0, len(tf)),
		Counts:  make([]int, 0, len(tf)),
	}
	for idx := range tf {
		out.Indices = append(out.Indices, idx)
	}
	sort.Ints(out.Indices)
	for _, idx := range out.Indices {
		out.Counts = append(out.Counts, tf[idx])
	}
	return out
}

// Len returns the number of non-zero entries.
func (c TermCounts) Len() int { return len(c.Indices) }
