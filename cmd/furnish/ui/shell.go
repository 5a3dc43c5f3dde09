package ui

import (
	"context"
	"strings"

	"furnish/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Page identifies a shell tab.
type Page int

const (
	PageRecommend Page = iota
	PageAnalytics
)

func (p Page) String() string {
	switch p {
	case PageRecommend:
		return "Recommend"
	case PageAnalytics:
		return "Analytics"
	default:
		return "Unknown"
	}
}

// ShellOptions configures NewShellModel.
type ShellOptions struct {
	TopN      int
	Styles    Styles
	StartPage Page
	// InitialQuery pre-fills the search input.
	InitialQuery string
	// NewMountToken defaults to uuid.NewString.
	NewMountToken func() string
}

// ShellModel hosts exactly one mounted screen at a time and switches between
// them. Leaving a screen discards it; returning mounts a fresh instance.
type ShellModel struct {
	ctx     context.Context
	backend Backend
	opts    ShellOptions
	styles  Styles

	active Page
	mount  string
	cancel context.CancelFunc

	recommend RecommendPageModel
	analytics AnalyticsPageModel

	width  int
	height int
}

// NewShellModel creates the shell with its start page already mounted.
func NewShellModel(ctx context.Context, backend Backend, opts ShellOptions) ShellModel {
	if opts.NewMountToken == nil {
		opts.NewMountToken = uuid.NewString
	}
	if opts.TopN <= 0 {
		opts.TopN = 3
	}
	m := ShellModel{
		ctx:     ctx,
		backend: backend,
		opts:    opts,
		styles:  opts.Styles,
		active:  opts.StartPage,
	}
	m.mountPage(opts.StartPage)
	if opts.InitialQuery != "" && m.active == PageRecommend {
		m.recommend.SetQuery(opts.InitialQuery)
	}
	return m
}

// Init starts the mounted page.
func (m ShellModel) Init() tea.Cmd {
	return m.pageInit()
}

// Active returns the mounted page.
func (m ShellModel) Active() Page { return m.active }

// MountToken returns the token of the mounted screen instance.
func (m ShellModel) MountToken() string { return m.mount }

// Recommend returns the search screen; only meaningful while it is active.
func (m ShellModel) Recommend() RecommendPageModel { return m.recommend }

// Analytics returns the dashboard; only meaningful while it is active.
func (m ShellModel) Analytics() AnalyticsPageModel { return m.analytics }

func (m *ShellModel) mountPage(page Page) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.active = page
	m.mount = m.opts.NewMountToken()

	switch page {
	case PageAnalytics:
		m.analytics = NewAnalyticsPageModel(ctx, m.mount, m.backend, m.styles)
		m.recommend = RecommendPageModel{}
	default:
		m.active = PageRecommend
		m.recommend = NewRecommendPageModel(ctx, m.mount, m.backend, m.opts.TopN, m.styles)
		m.analytics = AnalyticsPageModel{}
	}
	m.resizePage()

	logging.Get(logging.CategoryUI).Debug("screen mounted",
		zap.Stringer("page", m.active),
		zap.String("mount", m.mount),
	)
}

func (m ShellModel) pageInit() tea.Cmd {
	if m.active == PageAnalytics {
		return m.analytics.Init()
	}
	return m.recommend.Init()
}

// Navigate switches to page. Selecting the active page does nothing.
func (m ShellModel) Navigate(page Page) (ShellModel, tea.Cmd) {
	if page == m.active {
		return m, nil
	}
	logging.Get(logging.CategoryUI).Debug("screen unmounted",
		zap.Stringer("page", m.active),
		zap.String("mount", m.mount),
	)
	m.mountPage(page)
	return m, m.pageInit()
}

func (m *ShellModel) resizePage() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	layout := NewLayoutConfig(m.width, m.height)
	w, h := layout.TerminalWidth-4, layout.PageHeight()-2
	switch m.active {
	case PageAnalytics:
		m.analytics.SetSize(w, h)
	default:
		m.recommend.SetSize(w, h)
	}
}

func (m ShellModel) capturesKeys() bool {
	if m.active == PageAnalytics {
		return m.analytics.CapturesKeys()
	}
	return m.recommend.CapturesKeys()
}

// Update handles messages.
func (m ShellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		// Cards are keyed by width; entries for the old size are dead.
		DefaultRenderCache.Clear()
		m.resizePage()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()
		case "f1":
			return m.Navigate(PageRecommend)
		case "f2":
			return m.Navigate(PageAnalytics)
		// ctrl+a and ctrl+r are line editing keys in the query input.
		case "ctrl+r":
			if !m.capturesKeys() {
				return m.Navigate(PageRecommend)
			}
		case "ctrl+a":
			if !m.capturesKeys() {
				return m.Navigate(PageAnalytics)
			}
		case "q", "esc":
			if !m.capturesKeys() {
				return m.quit()
			}
		}

	case mountedMsg:
		if msg.mountToken() != m.mount {
			logging.Get(logging.CategoryUI).Debug("dropped message for unmounted screen",
				zap.String("mount", msg.mountToken()),
				zap.String("current", m.mount),
			)
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.active == PageAnalytics {
		m.analytics, cmd = m.analytics.Update(msg)
	} else {
		m.recommend, cmd = m.recommend.Update(msg)
	}
	return m, cmd
}

func (m ShellModel) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	return m, tea.Quit
}

// View renders the shell.
func (m ShellModel) View() string {
	var tabs []string
	for _, p := range []Page{PageRecommend, PageAnalytics} {
		style := m.styles.TabInactive
		if p == m.active {
			style = m.styles.TabActive
		}
		tabs = append(tabs, style.Render(p.String()))
	}
	header := m.styles.Header.Render("🪑 Furniture Recommender") + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.width > 0 {
		header = lipgloss.NewStyle().Width(m.width).Background(m.styles.Theme.Primary).Render(header)
	}

	var body string
	if m.active == PageAnalytics {
		body = m.analytics.View()
	} else {
		body = m.recommend.View()
	}

	help := []string{"f1 recommend", "f2 analytics"}
	if m.active == PageRecommend {
		help = append(help, "enter search", "tab focus", "←/→ select", "y copy")
	} else {
		help = append(help, "r retry", "↑/↓ scroll")
	}
	help = append(help, "ctrl+c quit")
	footer := m.styles.Footer.Render(strings.Join(help, " • "))

	return lipgloss.JoinVertical(lipgloss.Left, header, m.styles.Content.Render(body), footer)
}
