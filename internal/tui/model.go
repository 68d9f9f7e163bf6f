package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"recs/internal/domain"
	"recs/internal/service"
)

// RecommenderPort is the TUI-facing subset of the fitted recommender.
type RecommenderPort interface {
	Similar(ctx context.Context, itemID, k int) ([]domain.Neighbor, error)
	Item(itemID int) (domain.Item, bool)
	Items() []domain.Item
	TopTerms(itemID, n int) ([]service.TermWeight, error)
}

// Model is the Bubble Tea model for the neighbor browser.
type Model struct {
	service  RecommenderPort
	topK     int
	input    textinput.Model
	viewport viewport.Model
	results  []domain.Neighbor
	query    domain.Item
	summary  string
	status   string
	cursor   int
	ready    bool
}

// New creates a new TUI model instance.
func New(service RecommenderPort, summary string, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Restaurant id or name, then Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	if topK <= 0 {
		topK = 10
	}
	return Model{service: service, topK: topK, input: ti, viewport: vp, summary: summary, status: "Loaded. Pick a restaurant."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + summary, status, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.runQuery(q)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) runQuery(q string) {
	item, ok := m.resolve(q)
	if !ok {
		m.status = fmt.Sprintf("No restaurant matches %q", q)
		m.results = nil
		return
	}
	res, err := m.service.Similar(context.Background(), item.ID, m.topK)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
		return
	}
	m.status = fmt.Sprintf("Restaurants similar to %s (#%d)", item.Name, item.ID)
	m.results = res
	m.query = item
	m.cursor = 0
}

// resolve accepts a numeric id or a case-insensitive name fragment.
func (m Model) resolve(q string) (domain.Item, bool) {
	if id, err := strconv.Atoi(q); err == nil {
		return m.service.Item(id)
	}
	needle := strings.ToLower(q)
	for _, it := range m.service.Items() {
		if strings.Contains(strings.ToLower(it.Name), needle) {
			return it, true
		}
	}
	return domain.Item{}, false
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Restaurant Recommendations")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	title := fmt.Sprintf("Result %d/%d  score=%.3f", m.cursor+1, len(m.results), r.Score)
	name := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s (#%d)", r.Name, r.ItemID))
	return title + "\n\n" + name + "\n" + m.renderTerms(r.ItemID)
}

// renderTerms lists the heaviest terms of an item, highlighting the ones
// the queried restaurant shares.
func (m Model) renderTerms(itemID int) string {
	terms, err := m.service.TopTerms(itemID, 12)
	if err != nil {
		return err.Error()
	}
	shared := toTokenSet(m.query.Tokens)
	parts := make([]string, len(terms))
	for i, t := range terms {
		if _, ok := shared[t.Term]; ok {
			parts[i] = highlightStyle.Render(t.Term)
		} else {
			parts[i] = t.Term
		}
	}
	return strings.Join(parts, " ")
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func toTokenSet(tokens []string) map[string]struct{} {
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}
