package ui

import (
	"context"
	"fmt"
	"strings"

	"furnish/internal/catalog"
	"furnish/internal/logging"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// SearchFailedAlert is shown when a search request fails.
const SearchFailedAlert = "Something went wrong while fetching recommendations."

// EmptyResultsHint is shown while there is nothing to display.
const EmptyResultsHint = "No recommendations yet."

type recommendFocus int

const (
	focusInput recommendFocus = iota
	focusResults
)

// RecommendPageModel is the search screen: a query input, a search control
// and the ranked result cards.
type RecommendPageModel struct {
	ctx     context.Context
	mount   string
	backend Recommender
	topN    int
	styles  Styles

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	// loading is true while a search is in flight; the search control is
	// disabled for that time.
	loading    bool
	generation uint64
	results    []catalog.Product
	cards      []catalog.Card
	selected   int
	focus      recommendFocus
	alert      string
	status     string

	width  int
	height int
}

// NewRecommendPageModel creates a search screen bound to one mount.
func NewRecommendPageModel(ctx context.Context, mount string, backend Recommender, topN int, styles Styles) RecommendPageModel {
	ti := textinput.New()
	ti.Placeholder = "modern wooden chair"
	ti.Prompt = "🔍 "
	ti.CharLimit = 256
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return RecommendPageModel{
		ctx:      ctx,
		mount:    mount,
		backend:  backend,
		topN:     topN,
		styles:   styles,
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(0, 0),
	}
}

// Init starts the cursor blink.
func (m RecommendPageModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize sets the page dimensions.
func (m *RecommendPageModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-20, 10)
	m.viewport.Width = width
	m.viewport.Height = max(height-RecommendChromeHeight, 3)
	m.refreshResults()
}

// SetQuery replaces the query text.
func (m *RecommendPageModel) SetQuery(text string) {
	m.input.SetValue(text)
}

// Query returns the current query text as typed.
func (m RecommendPageModel) Query() string { return m.input.Value() }

// Loading reports whether a search is in flight.
func (m RecommendPageModel) Loading() bool { return m.loading }

// Alert returns the visible alert text, or "".
func (m RecommendPageModel) Alert() string { return m.alert }

// Generation returns the id of the most recently issued search.
func (m RecommendPageModel) Generation() uint64 { return m.generation }

// Results returns a copy of the displayed products in rank order.
func (m RecommendPageModel) Results() []catalog.Product {
	out := make([]catalog.Product, len(m.results))
	copy(out, m.results)
	return out
}

// Selected returns the index of the highlighted card.
func (m RecommendPageModel) Selected() int { return m.selected }

// CapturesKeys reports whether plain keys belong to the page (typing or a
// visible alert) rather than to the shell.
func (m RecommendPageModel) CapturesKeys() bool {
	return m.alert != "" || m.focus == focusInput
}

// Search issues a request for the current query. A blank query or a search
// already in flight makes it a no-op.
func (m RecommendPageModel) Search() (RecommendPageModel, tea.Cmd) {
	query := strings.TrimSpace(m.input.Value())
	if query == "" || m.loading {
		return m, nil
	}

	m.loading = true
	m.generation++
	m.status = ""
	logging.Get(logging.CategoryUI).Debug("search issued",
		zap.String("mount", m.mount),
		zap.Uint64("generation", m.generation),
		zap.String("query", query),
	)
	return m, tea.Batch(m.spinner.Tick, m.searchCmd(query, m.generation))
}

func (m RecommendPageModel) searchCmd(query string, generation uint64) tea.Cmd {
	ctx, backend, topN, mount := m.ctx, m.backend, m.topN, m.mount
	return func() tea.Msg {
		products, err := backend.Recommend(ctx, query, topN)
		return recommendResultMsg{
			Mount:      mount,
			Generation: generation,
			Query:      query,
			Products:   products,
			Err:        err,
		}
	}
}

// Update handles messages.
func (m RecommendPageModel) Update(msg tea.Msg) (RecommendPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case recommendResultMsg:
		m.applyResult(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *RecommendPageModel) applyResult(msg recommendResultMsg) {
	if msg.Mount != m.mount || msg.Generation != m.generation {
		logging.Get(logging.CategoryUI).Debug("stale search result ignored",
			zap.Uint64("generation", msg.Generation),
			zap.Uint64("current", m.generation),
		)
		return
	}

	m.loading = false
	if msg.Err != nil {
		logging.Get(logging.CategoryAPI).Error("recommendation request failed",
			zap.String("query", msg.Query),
			zap.Error(msg.Err),
		)
		m.alert = SearchFailedAlert
		return
	}

	m.results = msg.Products
	m.cards = catalog.NewCards(msg.Products)
	m.selected = 0
	m.viewport.GotoTop()
	m.refreshResults()
}

func (m RecommendPageModel) handleKey(msg tea.KeyMsg) (RecommendPageModel, tea.Cmd) {
	// The alert blocks everything else until dismissed.
	if m.alert != "" {
		switch msg.String() {
		case "enter", "esc":
			m.alert = ""
		}
		return m, nil
	}

	if msg.String() == "tab" {
		if m.focus == focusInput && len(m.cards) > 0 {
			m.focus = focusResults
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		m.refreshResults()
		return m, nil
	}

	if m.focus == focusInput {
		if msg.String() == "enter" {
			return m.Search()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "left", "h":
		if m.selected > 0 {
			m.selected--
			m.refreshResults()
		}
		return m, nil
	case "right", "l":
		if m.selected < len(m.cards)-1 {
			m.selected++
			m.refreshResults()
		}
		return m, nil
	case "y":
		m.copySelected()
		return m, nil
	case "enter":
		return m.Search()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *RecommendPageModel) copySelected() {
	if m.selected < 0 || m.selected >= len(m.cards) {
		return
	}
	card := m.cards[m.selected]
	text := card.Title
	if card.Brand != "" {
		text += " — " + card.Brand
	}
	if err := clipboardWriteAll(text); err != nil {
		logging.Get(logging.CategoryUI).Warn("clipboard write failed", zap.Error(err))
		m.status = m.styles.Error.Render("Failed to copy to clipboard")
		return
	}
	m.status = m.styles.Success.Render(fmt.Sprintf("Copied %q to clipboard", text))
}

func (m *RecommendPageModel) contentWidth() int {
	if m.width <= 0 {
		return MinimumTerminalWidth
	}
	return m.width
}

func (m *RecommendPageModel) resultsView() string {
	if len(m.cards) == 0 {
		return m.styles.Muted.Render(EmptyResultsHint)
	}
	selected := -1
	if m.focus == focusResults {
		selected = m.selected
	}
	return RenderCardGrid(m.cards, m.contentWidth(), selected, m.styles)
}

func (m *RecommendPageModel) refreshResults() {
	m.viewport.SetContent(m.resultsView())
}

// View renders the page.
func (m RecommendPageModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Product Recommendations"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Subtitle.Render(`Ask for any type of furniture (e.g., "modern wooden chair") to get AI recommendations.`))
	sb.WriteString("\n\n")

	inputBox := m.styles.Input
	if m.focus == focusInput && m.alert == "" {
		inputBox = m.styles.InputFocused
	}
	var control string
	if m.loading {
		control = m.styles.ButtonDisabled.Render(m.spinner.View() + " Searching")
	} else if strings.TrimSpace(m.input.Value()) == "" {
		control = m.styles.ButtonDisabled.Render("Search")
	} else {
		control = m.styles.Button.Render("Search")
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, inputBox.Render(m.input.View()), " ", control))
	sb.WriteString("\n")

	if m.alert != "" {
		alert := m.styles.Error.Render("Error") + "\n" +
			m.styles.Body.Render(m.alert) + "\n" +
			m.styles.Muted.Render("press enter to dismiss")
		sb.WriteString(m.styles.Alert.Render(alert))
		sb.WriteString("\n")
	} else if m.status != "" {
		sb.WriteString(m.status)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	// Without a known height everything is rendered in place.
	if m.height <= 0 {
		sb.WriteString(m.resultsView())
	} else {
		sb.WriteString(m.viewport.View())
	}
	return sb.String()
}
