// Package loader reads the restaurant listings, the feature code
// dictionary and the session logs into domain records.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"recs/internal/domain"
	"recs/internal/logging"
	"recs/internal/metrics"
)

// Features maps a feature code to its descriptive phrase.
type Features map[string]string

// ReadFeatures parses a code<TAB>phrase dictionary. Blank lines are
// skipped; lines without a tab are rejected.
func ReadFeatures(r io.Reader) (Features, error) {
	out := make(Features)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		code, phrase, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("features line %d: missing tab: %w", line, domain.ErrInvalidInput)
		}
		out[strings.TrimSpace(code)] = strings.TrimSpace(phrase)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadFeatures reads a dictionary file.
func LoadFeatures(path string) (Features, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFeatures(f)
}

// Restaurants turns listing records into items. Each record is
// id<TAB>name<TAB>codes[<TAB>price]; codes are space separated and are
// expanded through Features into word tokens. A trailing price field is
// kept on the record but never tokenized.
type Restaurants struct {
	Features     Features
	PreserveCase bool
}

// Read parses one listing stream. A bad line is reported and skipped; an
// unknown feature code is reported and dropped while the rest of the item
// is kept.
func (l *Restaurants) Read(source string, r io.Reader) ([]domain.Restaurant, domain.Report, error) {
	var (
		out    []domain.Restaurant
		report domain.Report
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		rest, fails := l.parse(text)
		itemID := -1
		if rest != nil {
			itemID = rest.ID
		}
		for _, err := range fails {
			report.Add(&domain.ItemError{Source: source, Line: line, ItemID: itemID, Err: err})
			metrics.ItemFailures.WithLabelValues("load").Inc()
		}
		if rest == nil {
			continue
		}
		out = append(out, *rest)
		report.Processed++
	}
	if err := sc.Err(); err != nil {
		return out, report, fmt.Errorf("%s: %w", source, err)
	}
	return out, report, nil
}

func (l *Restaurants) parse(text string) (*domain.Restaurant, []error) {
	fields := strings.Split(text, "\t")
	if len(fields) < 3 || len(fields) > 4 {
		return nil, []error{fmt.Errorf("want 3 or 4 tab separated fields, got %d: %w", len(fields), domain.ErrInvalidInput)}
	}
	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return nil, []error{fmt.Errorf("bad id %q: %w", fields[0], domain.ErrInvalidInput)}
	}
	rest := &domain.Restaurant{
		Item:  domain.Item{ID: id, Name: strings.TrimSpace(fields[1])},
		Codes: strings.Fields(fields[2]),
	}
	if len(fields) == 4 {
		rest.Price = strings.TrimSpace(fields[3])
	}
	var fails []error
	for _, code := range rest.Codes {
		phrase, ok := l.Features[code]
		if !ok {
			fails = append(fails, fmt.Errorf("unknown feature code %q: %w", code, domain.ErrInvalidInput))
			continue
		}
		for _, word := range strings.Fields(phrase) {
			if !l.PreserveCase {
				word = strings.ToLower(word)
			}
			rest.Tokens = append(rest.Tokens, word)
		}
	}
	return rest, fails
}

// Load reads every listing matched by paths, expanding glob patterns.
// Files are read in sorted order within each pattern.
func (l *Restaurants) Load(paths []string) ([]domain.Restaurant, domain.Report, error) {
	var (
		all    []domain.Restaurant
		report domain.Report
	)
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		sort.Strings(matches)
		for _, m := range matches {
			f, err := os.Open(m)
			if err != nil {
				return nil, report, err
			}
			rs, rep, err := l.Read(m, f)
			f.Close()
			if err != nil {
				return nil, report, err
			}
			all = append(all, rs...)
			report.Merge(rep)
			logging.Debug().Str("file", m).Int("restaurants", len(rs)).Int("failures", len(rep.Failures)).Msg("listing loaded")
		}
	}
	if len(all) == 0 {
		return nil, report, fmt.Errorf("no restaurants found: %w", domain.ErrEmptyCorpus)
	}
	return all, report, nil
}

// Items strips listing details down to the records the recommender fits.
func Items(rs []domain.Restaurant) []domain.Item {
	out := make([]domain.Item, len(rs))
	for i, r := range rs {
		out[i] = r.Item
	}
	return out
}
