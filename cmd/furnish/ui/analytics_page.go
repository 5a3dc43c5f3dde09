package ui

import (
	"context"
	"fmt"
	"strings"

	"furnish/internal/catalog"
	"furnish/internal/logging"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// AnalyticsState is the lifecycle of the dashboard data.
type AnalyticsState int

const (
	AnalyticsLoading AnalyticsState = iota
	AnalyticsLoaded
	AnalyticsFailed
)

func (s AnalyticsState) String() string {
	switch s {
	case AnalyticsLoading:
		return "loading"
	case AnalyticsLoaded:
		return "loaded"
	case AnalyticsFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoadingAnalyticsText is shown until the snapshot arrives.
const LoadingAnalyticsText = "Loading Analytics..."

// AnalyticsPageModel is the dashboard screen. It fetches the snapshot once
// per mount and renders it read-only.
type AnalyticsPageModel struct {
	ctx    context.Context
	mount  string
	source AnalyticsSource
	styles Styles

	spinner  spinner.Model
	viewport viewport.Model

	state      AnalyticsState
	generation uint64
	snapshot   catalog.AnalyticsSnapshot
	brands     catalog.ChartSeries
	categories catalog.ChartSeries
	err        error

	width  int
	height int
}

// NewAnalyticsPageModel creates a dashboard bound to one mount. Nothing is
// fetched until Init.
func NewAnalyticsPageModel(ctx context.Context, mount string, source AnalyticsSource, styles Styles) AnalyticsPageModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return AnalyticsPageModel{
		ctx:        ctx,
		mount:      mount,
		source:     source,
		styles:     styles,
		spinner:    sp,
		viewport:   viewport.New(0, 0),
		state:      AnalyticsLoading,
		generation: 1,
	}
}

// Init issues the mount's fetch.
func (m AnalyticsPageModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd(m.generation))
}

func (m AnalyticsPageModel) fetchCmd(generation uint64) tea.Cmd {
	ctx, source, mount := m.ctx, m.source, m.mount
	return func() tea.Msg {
		snap, err := source.Analytics(ctx)
		return analyticsResultMsg{Mount: mount, Generation: generation, Snapshot: snap, Err: err}
	}
}

// SetSize sets the page dimensions.
func (m *AnalyticsPageModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-1, 3)
	m.refresh()
}

// State returns the current lifecycle state.
func (m AnalyticsPageModel) State() AnalyticsState { return m.state }

// Snapshot returns the loaded snapshot; ok is false unless Loaded.
func (m AnalyticsPageModel) Snapshot() (catalog.AnalyticsSnapshot, bool) {
	return m.snapshot, m.state == AnalyticsLoaded
}

// Err returns the failure reason while Failed.
func (m AnalyticsPageModel) Err() error { return m.err }

// CapturesKeys is always false: the dashboard has no text entry.
func (m AnalyticsPageModel) CapturesKeys() bool { return false }

// Retry returns to Loading and re-issues the fetch. Only valid from Failed.
func (m AnalyticsPageModel) Retry() (AnalyticsPageModel, tea.Cmd) {
	if m.state != AnalyticsFailed {
		return m, nil
	}
	m.state = AnalyticsLoading
	m.err = nil
	m.generation++
	m.refresh()
	logging.Get(logging.CategoryUI).Debug("analytics retry",
		zap.String("mount", m.mount),
		zap.Uint64("generation", m.generation),
	)
	return m, tea.Batch(m.spinner.Tick, m.fetchCmd(m.generation))
}

// Update handles messages.
func (m AnalyticsPageModel) Update(msg tea.Msg) (AnalyticsPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case analyticsResultMsg:
		m.applyResult(msg)
		return m, nil

	case spinner.TickMsg:
		if m.state != AnalyticsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "r" {
			return m.Retry()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *AnalyticsPageModel) applyResult(msg analyticsResultMsg) {
	// A loaded snapshot is never replaced.
	if msg.Mount != m.mount || msg.Generation != m.generation || m.state != AnalyticsLoading {
		return
	}

	if msg.Err != nil {
		logging.Get(logging.CategoryAPI).Error("analytics request failed", zap.Error(msg.Err))
		m.state = AnalyticsFailed
		m.err = msg.Err
		m.refresh()
		return
	}

	m.state = AnalyticsLoaded
	m.snapshot = msg.Snapshot
	m.brands = catalog.BrandSeries(msg.Snapshot)
	m.categories = catalog.CategorySeries(msg.Snapshot)
	m.refresh()
}

func (m *AnalyticsPageModel) contentWidth() int {
	if m.width <= 0 {
		return MinimumTerminalWidth
	}
	return m.width
}

func (m *AnalyticsPageModel) dashboardView() string {
	width := m.contentWidth()

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Product Analytics Dashboard"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Subtitle.Render("Visual insights into your dataset: top brands, categories, and pricing trends."))
	sb.WriteString("\n\n")

	summary := m.styles.Bold.Render(fmt.Sprintf("Total Products: %d", m.snapshot.TotalProducts)) + "\n" +
		m.styles.Bold.Render("Average Price: "+catalog.FormatAveragePrice(m.snapshot.AvgPrice))
	sb.WriteString(m.styles.Panel.Render(summary))
	sb.WriteString("\n\n")

	chartWidth := width - 6
	brands := BarChart{Title: "Top Brands", Series: m.brands, Color: BrandBarColor}
	categories := BarChart{Title: "Top Categories", Series: m.categories, Color: CategoryBarColor}
	sb.WriteString(m.styles.Panel.Render(brands.View(chartWidth, m.styles)))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Panel.Render(categories.View(chartWidth, m.styles)))
	return sb.String()
}

func (m *AnalyticsPageModel) failedView() string {
	reason := "unknown error"
	if m.err != nil {
		reason = m.err.Error()
	}
	body := m.styles.Error.Render("Analytics unavailable") + "\n" +
		lipgloss.NewStyle().Width(max(m.contentWidth()-8, 20)).Render(m.styles.Body.Render(reason)) + "\n\n" +
		m.styles.Muted.Render("press r to retry")
	return m.styles.Alert.Render(body)
}

func (m *AnalyticsPageModel) refresh() {
	switch m.state {
	case AnalyticsLoaded:
		m.viewport.SetContent(m.dashboardView())
	case AnalyticsFailed:
		m.viewport.SetContent(m.failedView())
	default:
		m.viewport.SetContent("")
	}
}

// View renders the page.
func (m AnalyticsPageModel) View() string {
	if m.state == AnalyticsLoading {
		return m.spinner.View() + " " + m.styles.Muted.Render(LoadingAnalyticsText)
	}
	if m.height <= 0 {
		if m.state == AnalyticsLoaded {
			return m.dashboardView()
		}
		return m.failedView()
	}
	return m.viewport.View()
}
