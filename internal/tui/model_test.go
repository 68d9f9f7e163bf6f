package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"recs/internal/domain"
	"recs/internal/service"
)

type fakePort struct {
	items []domain.Item
	err   error
	gotK  int
}

func (f *fakePort) Similar(_ context.Context, itemID, k int) ([]domain.Neighbor, error) {
	f.gotK = k
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Neighbor
	for _, it := range f.items {
		if it.ID != itemID {
			out = append(out, domain.Neighbor{ItemID: it.ID, Name: it.Name, Score: 0.5})
		}
	}
	return out, nil
}

func (f *fakePort) Item(itemID int) (domain.Item, bool) {
	for _, it := range f.items {
		if it.ID == itemID {
			return it, true
		}
	}
	return domain.Item{}, false
}

func (f *fakePort) Items() []domain.Item { return f.items }

func (f *fakePort) TopTerms(itemID, n int) ([]service.TermWeight, error) {
	it, ok := f.Item(itemID)
	if !ok {
		return nil, domain.ErrOutOfRange
	}
	out := make([]service.TermWeight, 0, len(it.Tokens))
	for _, tok := range it.Tokens {
		out = append(out, service.TermWeight{Term: tok, Weight: 1})
	}
	return out, nil
}

func newFake() *fakePort {
	return &fakePort{items: []domain.Item{
		{ID: 10, Name: "Pizzeria Uno", Tokens: []string{"pizza", "italian"}},
		{ID: 20, Name: "Thai Spice", Tokens: []string{"thai", "spicy"}},
		{ID: 30, Name: "Luigi's", Tokens: []string{"pizza", "wine"}},
	}}
}

func TestResolve(t *testing.T) {
	m := New(newFake(), "", 5)
	tests := []struct {
		q      string
		wantID int
		wantOK bool
	}{
		{"20", 20, true},
		{"thai", 20, true},
		{"LUIGI", 30, true},
		{"99", 0, false},
		{"sushi", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			it, ok := m.resolve(tt.q)
			if ok != tt.wantOK || it.ID != tt.wantID {
				t.Errorf("resolve(%q) = (%d, %v), want (%d, %v)", tt.q, it.ID, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestRunQuery(t *testing.T) {
	fake := newFake()
	m := New(fake, "", 0)
	m.runQuery("pizzeria")
	if fake.gotK != 10 {
		t.Errorf("k = %d, want default 10", fake.gotK)
	}
	if len(m.results) != 2 || m.query.ID != 10 {
		t.Fatalf("results = %+v, query = %+v", m.results, m.query)
	}
	if !strings.Contains(m.status, "Pizzeria Uno (#10)") {
		t.Errorf("status = %q", m.status)
	}

	m.runQuery("sushi")
	if m.results != nil || !strings.Contains(m.status, "No restaurant") {
		t.Errorf("unmatched query: results = %v, status = %q", m.results, m.status)
	}

	fake.err = errors.New("boom")
	m.runQuery("10")
	if m.results != nil || m.status != "Error: boom" {
		t.Errorf("failed query: results = %v, status = %q", m.results, m.status)
	}
}

func TestUpdateNavigation(t *testing.T) {
	var tm tea.Model = New(newFake(), "3 restaurants", 5)
	tm, _ = tm.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	for _, r := range "10" {
		tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := tm.(Model)
	if len(m.results) != 2 || m.cursor != 0 {
		t.Fatalf("after enter: results = %d, cursor = %d", len(m.results), m.cursor)
	}

	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := tm.(Model).cursor; got != 1 {
		t.Errorf("cursor after down = %d, want 1", got)
	}
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := tm.(Model).cursor; got != 0 {
		t.Errorf("cursor should wrap, got %d", got)
	}
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := tm.(Model).cursor; got != 1 {
		t.Errorf("cursor after up = %d, want 1", got)
	}

	if _, cmd := tm.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Error("ctrl+c should return a quit command")
	}
}

func TestRenderCurrentResult(t *testing.T) {
	m := New(newFake(), "", 5)
	if got := m.renderCurrentResult(); got != "No results yet." {
		t.Errorf("empty render = %q", got)
	}
	m.runQuery("10")
	out := m.renderCurrentResult()
	if !strings.Contains(out, "Result 1/2") || !strings.Contains(out, "Thai Spice (#20)") {
		t.Errorf("render = %q", out)
	}
}
