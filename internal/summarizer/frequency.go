package summarizer

import (
	"fmt"
	"sort"
	"strings"

	"recs/internal/embedding"
	"recs/internal/embedding/tfidf"
)

// FrequencySummarizer describes a fitted corpus by its most widespread
// terms (stopwords filtered).
type FrequencySummarizer struct {
	stopwords map[string]struct{}
}

// NewFrequencySummarizer creates a document-frequency corpus summarizer.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{stopwords: defaultStopwords()}
}

// CommonTerms returns up to limit terms ordered by descending document
// frequency, alphabetical on ties.
func (s *FrequencySummarizer) CommonTerms(vocab *embedding.Vocabulary, w *tfidf.Weighter, limit int) []string {
	if limit <= 0 {
		limit = 5
	}
	type pair struct {
		idx int
		df  int
	}
	var scores []pair
	for t := 0; t < vocab.Len(); t++ {
		if _, isStop := s.stopwords[vocab.Term(t)]; isStop {
			continue
		}
		scores = append(scores, pair{t, w.DocFreq(t)})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].df != scores[j].df {
			return scores[i].df > scores[j].df
		}
		return vocab.Term(scores[i].idx) < vocab.Term(scores[j].idx)
	})
	if limit > len(scores) {
		limit = len(scores)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = vocab.Term(scores[i].idx)
	}
	return out
}

// Summarize returns a one-line description of the corpus.
func (s *FrequencySummarizer) Summarize(vocab *embedding.Vocabulary, w *tfidf.Weighter, maxTerms int) string {
	if w.Docs() == 0 {
		return "Empty corpus."
	}
	common := s.CommonTerms(vocab, w, maxTerms)
	line := fmt.Sprintf("%d restaurants, %d terms", w.Docs(), vocab.Len())
	if len(common) > 0 {
		line += "; most common: " + strings.Join(common, ", ")
	}
	return line
}

// defaultStopwords are the function words that join feature phrases
// ("Good for Kids", "Wine and Beer", "Off the Beaten Path").
func defaultStopwords() map[string]struct{} {
	words := []string{"a", "an", "and", "at", "by", "for", "in", "of", "on", "or", "the", "to", "with"}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
