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
	"recs/internal/metrics"
)

// Personalities maps the navigation letters that express a preference to a
// personality tag. Other letters are plain navigation.
var Personalities = map[byte]string{
	'M': "spendthrift",
	'P': "traditional",
	'Q': "creative",
	'R': "fun",
	'S': "quiet",
}

// ReadSessions parses date<TAB>ip<TAB>entry_point<TAB>rates<TAB>end_point
// records. rates is a space separated list of <restaurant_id><letter>
// tokens. Malformed lines and tokens are reported and skipped.
func ReadSessions(source string, r io.Reader) ([]domain.Session, domain.Report, error) {
	var (
		out    []domain.Session
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
		fields := strings.Split(text, "\t")
		if len(fields) != 5 {
			report.Add(&domain.ItemError{Source: source, Line: line, ItemID: -1,
				Err: fmt.Errorf("want 5 tab separated fields, got %d: %w", len(fields), domain.ErrInvalidInput)})
			metrics.ItemFailures.WithLabelValues("sessions").Inc()
			continue
		}
		s := domain.Session{
			Date:       strings.TrimSpace(fields[0]),
			IP:         strings.TrimSpace(fields[1]),
			EntryPoint: strings.TrimSpace(fields[2]),
			EndPoint:   strings.TrimSpace(fields[4]),
		}
		for _, tok := range strings.Fields(fields[3]) {
			rating, err := ParseRating(tok)
			if err != nil {
				report.Add(&domain.ItemError{Source: source, Line: line, ItemID: -1, Err: err})
				metrics.ItemFailures.WithLabelValues("sessions").Inc()
				continue
			}
			s.Ratings = append(s.Ratings, rating)
		}
		out = append(out, s)
		report.Processed++
	}
	if err := sc.Err(); err != nil {
		return out, report, fmt.Errorf("%s: %w", source, err)
	}
	return out, report, nil
}

// ParseRating splits a <restaurant_id><letter> token.
func ParseRating(tok string) (domain.Rating, error) {
	if len(tok) < 2 {
		return domain.Rating{}, fmt.Errorf("rating %q too short: %w", tok, domain.ErrInvalidInput)
	}
	letter := tok[len(tok)-1]
	if letter < 'A' || letter > 'Z' {
		return domain.Rating{}, fmt.Errorf("rating %q: no navigation letter: %w", tok, domain.ErrInvalidInput)
	}
	id, err := strconv.Atoi(tok[:len(tok)-1])
	if err != nil {
		return domain.Rating{}, fmt.Errorf("rating %q: bad restaurant id: %w", tok, domain.ErrInvalidInput)
	}
	return domain.Rating{ItemID: id, Letter: letter, Personality: Personalities[letter]}, nil
}

// LoadSessions reads every session log matched by paths.
func LoadSessions(paths []string) ([]domain.Session, domain.Report, error) {
	var (
		all    []domain.Session
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
			ss, rep, err := ReadSessions(m, f)
			f.Close()
			if err != nil {
				return nil, report, err
			}
			all = append(all, ss...)
			report.Merge(rep)
		}
	}
	return all, report, nil
}

// PersonalityProfile counts personality tags per restaurant over sessions.
// It describes the session logs only; the recommender does not consume it.
func PersonalityProfile(sessions []domain.Session) map[int]map[string]int {
	out := make(map[int]map[string]int)
	for _, s := range sessions {
		for _, r := range s.Ratings {
			if r.Personality == "" {
				continue
			}
			tags, ok := out[r.ItemID]
			if !ok {
				tags = make(map[string]int)
				out[r.ItemID] = tags
			}
			tags[r.Personality]++
		}
	}
	return out
}
