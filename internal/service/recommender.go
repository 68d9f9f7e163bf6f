package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"recs/internal/domain"
	"recs/internal/embedding"
	"recs/internal/embedding/tfidf"
	"recs/internal/logging"
	"recs/internal/metrics"
	"recs/internal/parallel"
	"recs/internal/ranking"
	"recs/internal/vectorstore"
	"recs/internal/vectorstore/inverted"
	"recs/internal/vectorstore/memory"
)

// Similarity storage strategies.
const (
	StrategyAuto   = "auto"
	StrategyDense  = "dense"
	StrategySparse = "sparse"
)

// DefaultDenseLimit is the largest corpus the auto strategy materializes
// as a dense matrix.
const DefaultDenseLimit = 2000

// Options configures a Fit run.
type Options struct {
	Strategy    string
	DenseLimit  int
	IncludeSelf bool
	Executor    parallel.Executor
}

// Recommender is the immutable result of fitting a corpus. It answers
// neighbor and pairwise similarity queries and is safe for concurrent use.
type Recommender struct {
	items       []domain.Item
	rows        map[int]int
	ids         []int
	vocab       *embedding.Vocabulary
	weighter    *tfidf.Weighter
	vectors     []embedding.Vector
	store       vectorstore.Storage
	includeSelf bool
}

// Fit runs the whole pipeline over items: vocabulary, term counts, TF-IDF
// weights, normalization and the similarity store. Records with a repeated
// ID are skipped and reported; the rest of the corpus is still fitted.
func Fit(ctx context.Context, items []domain.Item, opts Options) (*Recommender, domain.Report, error) {
	var report domain.Report
	exec := opts.Executor
	if exec.Workers == 0 {
		exec = parallel.Default()
	}

	r := &Recommender{rows: make(map[int]int, len(items)), includeSelf: opts.IncludeSelf}
	for i, it := range items {
		if _, dup := r.rows[it.ID]; dup {
			report.Add(&domain.ItemError{Line: i + 1, ItemID: it.ID, Err: fmt.Errorf("duplicate item id: %w", domain.ErrInvalidInput)})
			metrics.ItemFailures.WithLabelValues("fit").Inc()
			logging.Warn().Int("item", it.ID).Msg("duplicate item id skipped")
			continue
		}
		r.rows[it.ID] = len(r.items)
		r.items = append(r.items, it)
		r.ids = append(r.ids, it.ID)
	}
	report.Processed = len(r.items)
	n := len(r.items)
	if n == 0 {
		logging.Warn().Msg("fitting an empty corpus")
	}

	start := time.Now()
	docs := make([][]string, n)
	for i, it := range r.items {
		docs[i] = it.Tokens
	}
	r.vocab = embedding.BuildVocabulary(docs)
	metrics.ObserveStage("vocabulary", start)

	start = time.Now()
	counts := make([]embedding.TermCounts, n)
	err := exec.Blocks(ctx, n, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			counts[i] = r.vocab.Count(docs[i])
		}
		return nil
	})
	if err != nil {
		return nil, report, err
	}
	r.weighter = tfidf.Fit(counts, r.vocab.Len())
	metrics.ObserveStage("weights", start)

	start = time.Now()
	r.vectors = make([]embedding.Vector, n)
	err = exec.Blocks(ctx, n, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			r.vectors[i] = embedding.Normalize(r.weighter.Weigh(counts[i]))
		}
		return nil
	})
	if err != nil {
		return nil, report, err
	}
	metrics.ObserveStage("normalize", start)

	start = time.Now()
	r.store, err = buildStore(ctx, exec, opts, r.vectors, r.vocab.Len())
	if err != nil {
		return nil, report, err
	}
	metrics.ObserveStage("similarity", start)

	metrics.CorpusItems.Set(float64(n))
	metrics.VocabularySize.Set(float64(r.vocab.Len()))
	logging.Debug().
		Int("items", n).
		Int("terms", r.vocab.Len()).
		Str("store", r.store.Name()).
		Int("failures", len(report.Failures)).
		Msg("corpus fitted")
	return r, report, nil
}

func buildStore(ctx context.Context, exec parallel.Executor, opts Options, vectors []embedding.Vector, dim int) (vectorstore.Storage, error) {
	limit := opts.DenseLimit
	if limit <= 0 {
		limit = DefaultDenseLimit
	}
	switch opts.Strategy {
	case StrategyAuto, "":
		if len(vectors) <= limit {
			return memory.NewMatrix(ctx, exec, vectors)
		}
		return inverted.NewIndex(vectors, dim), nil
	case StrategyDense:
		return memory.NewMatrix(ctx, exec, vectors)
	case StrategySparse:
		return inverted.NewIndex(vectors, dim), nil
	default:
		return nil, fmt.Errorf("unknown similarity strategy %q: %w", opts.Strategy, domain.ErrInvalidInput)
	}
}

// Len returns the number of fitted items.
func (r *Recommender) Len() int { return len(r.items) }

// Item looks up a fitted item by ID.
func (r *Recommender) Item(itemID int) (domain.Item, bool) {
	row, ok := r.rows[itemID]
	if !ok {
		return domain.Item{}, false
	}
	return r.items[row], true
}

// Items returns the fitted items in row order.
func (r *Recommender) Items() []domain.Item {
	out := make([]domain.Item, len(r.items))
	copy(out, r.items)
	return out
}

// Vocabulary returns the fitted vocabulary.
func (r *Recommender) Vocabulary() *embedding.Vocabulary { return r.vocab }

// Weighter returns the fitted TF-IDF weights.
func (r *Recommender) Weighter() *tfidf.Weighter { return r.weighter }

// StoreName reports which similarity storage backs the recommender.
func (r *Recommender) StoreName() string { return r.store.Name() }

// Vector returns the normalized TF-IDF vector of an item.
func (r *Recommender) Vector(itemID int) (embedding.Vector, error) {
	row, err := r.row(itemID)
	if err != nil {
		return embedding.Vector{}, err
	}
	return r.vectors[row], nil
}

// Similar returns the k items most similar to itemID. An empty corpus
// yields no neighbors and no error.
func (r *Recommender) Similar(ctx context.Context, itemID, k int) (out []domain.Neighbor, err error) {
	defer func() { metrics.RecordQuery("similar", err) }()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, fmt.Errorf("k = %d: %w", k, domain.ErrInvalidInput)
	}
	if len(r.items) == 0 {
		return []domain.Neighbor{}, nil
	}
	row, err := r.row(itemID)
	if err != nil {
		return nil, err
	}
	scores, err := r.store.Row(row)
	if err != nil {
		return nil, err
	}
	idxs, err := ranking.TopK(scores, r.ids, row, k, r.includeSelf)
	if err != nil {
		return nil, err
	}
	out = make([]domain.Neighbor, len(idxs))
	for i, j := range idxs {
		out[i] = domain.Neighbor{ItemID: r.ids[j], Name: r.items[j].Name, Score: scores[j]}
	}
	return out, nil
}

// Similarity returns the cosine similarity of two items.
func (r *Recommender) Similarity(itemA, itemB int) (score float64, err error) {
	defer func() { metrics.RecordQuery("similarity", err) }()
	a, err := r.row(itemA)
	if err != nil {
		return 0, err
	}
	b, err := r.row(itemB)
	if err != nil {
		return 0, err
	}
	return r.store.Pair(a, b)
}

// TermWeight is one weighted vocabulary term of an item.
type TermWeight struct {
	Term   string
	Weight float64
}

// TopTerms returns the n highest weighted terms of an item, heaviest first
// and alphabetical on ties.
func (r *Recommender) TopTerms(itemID, n int) ([]TermWeight, error) {
	v, err := r.Vector(itemID)
	if err != nil {
		return nil, err
	}
	terms := make([]TermWeight, v.Len())
	for i, idx := range v.Indices {
		terms[i] = TermWeight{Term: r.vocab.Term(idx), Weight: v.Values[i]}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Weight != terms[j].Weight {
			return terms[i].Weight > terms[j].Weight
		}
		return terms[i].Term < terms[j].Term
	})
	if n >= 0 && n < len(terms) {
		terms = terms[:n]
	}
	return terms, nil
}

func (r *Recommender) row(itemID int) (int, error) {
	row, ok := r.rows[itemID]
	if !ok {
		return 0, fmt.Errorf("item %d: %w", itemID, domain.ErrOutOfRange)
	}
	return row, nil
}

var _ domain.Recommender = (*Recommender)(nil)
