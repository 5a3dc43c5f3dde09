package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"furnish/internal/catalog"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestShell(backend Backend, start Page, query string) ShellModel {
	n := 0
	return NewShellModel(context.Background(), backend, ShellOptions{
		TopN:         3,
		Styles:       NewStyles(LightTheme()),
		StartPage:    start,
		InitialQuery: query,
		NewMountToken: func() string {
			n++
			return fmt.Sprintf("mount-%d", n)
		},
	})
}

func updateShell(t *testing.T, m ShellModel, msg tea.Msg) (ShellModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	shell, ok := next.(ShellModel)
	if !ok {
		t.Fatalf("expected ShellModel, got %T", next)
	}
	return shell, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestShell_NavigateMountsFreshScreen(t *testing.T) {
	m := newTestShell(&fakeBackend{}, PageRecommend, "")
	if m.Active() != PageRecommend || m.MountToken() != "mount-1" {
		t.Fatalf("expected recommend mounted as mount-1, got %s/%s", m.Active(), m.MountToken())
	}

	m, cmd := updateShell(t, m, tea.KeyMsg{Type: tea.KeyF2})
	if m.Active() != PageAnalytics {
		t.Fatalf("expected analytics after f2")
	}
	if m.MountToken() != "mount-2" {
		t.Fatalf("expected new mount token, got %s", m.MountToken())
	}
	if cmd == nil {
		t.Fatalf("expected analytics mount to fetch")
	}

	// Selecting the active tab does nothing.
	m, cmd = m.Navigate(PageAnalytics)
	if cmd != nil || m.MountToken() != "mount-2" {
		t.Fatalf("expected re-selecting the active tab to be a no-op")
	}

	m, _ = updateShell(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.Active() != PageRecommend || m.MountToken() != "mount-3" {
		t.Fatalf("expected fresh recommend mount, got %s/%s", m.Active(), m.MountToken())
	}
}

func TestShell_CtrlAWhileTypingStaysOnScreen(t *testing.T) {
	m := newTestShell(&fakeBackend{}, PageRecommend, "")
	m, _ = updateShell(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("oak chair")})
	if got := m.Recommend().Query(); got != "oak chair" {
		t.Fatalf("expected typed query, got %q", got)
	}

	m, _ = updateShell(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	if m.Active() != PageRecommend || m.MountToken() != "mount-1" {
		t.Fatalf("expected ctrl+a to stay in the input, got %s/%s", m.Active(), m.MountToken())
	}
	if got := m.Recommend().Query(); got != "oak chair" {
		t.Fatalf("expected query kept, got %q", got)
	}

	m, _ = updateShell(t, m, tea.KeyMsg{Type: tea.KeyF2})
	if m.Active() != PageAnalytics {
		t.Fatalf("expected f2 to switch tabs while typing")
	}
}

func TestShell_RecommendStateDiscardedOnLeave(t *testing.T) {
	backend := &fakeBackend{recommend: func(string, int) ([]catalog.Product, error) {
		return products("Oak Chair"), nil
	}}
	m := newTestShell(backend, PageRecommend, "chair")

	m, cmd := updateShell(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = updateShell(t, m, recommendResult(t, cmd))
	if len(m.Recommend().Results()) != 1 {
		t.Fatalf("expected results before navigating away")
	}

	m, _ = m.Navigate(PageAnalytics)
	m, _ = m.Navigate(PageRecommend)
	if len(m.Recommend().Results()) != 0 || m.Recommend().Query() != "" {
		t.Fatalf("expected a fresh recommendation screen")
	}
}

func TestShell_DropsResultsForUnmountedScreen(t *testing.T) {
	backend := &fakeBackend{
		recommend: func(string, int) ([]catalog.Product, error) {
			return products("Oak Chair"), nil
		},
		analytics: func() (catalog.AnalyticsSnapshot, error) {
			return analyticsScenario(), nil
		},
	}
	m := newTestShell(backend, PageRecommend, "chair")

	m, cmd := updateShell(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	late := recommendResult(t, cmd)

	m, cmd = m.Navigate(PageAnalytics)
	lateAnalytics := analyticsResult(t, cmd)
	m, _ = m.Navigate(PageRecommend)

	m, cmd = updateShell(t, m, late)
	if cmd != nil {
		t.Fatalf("expected dropped message to produce no command")
	}
	if len(m.Recommend().Results()) != 0 || m.Recommend().Loading() {
		t.Fatalf("expected late result for the old mount to be dropped")
	}

	m, _ = m.Navigate(PageAnalytics)
	m, _ = updateShell(t, m, lateAnalytics)
	if m.Analytics().State() != AnalyticsLoading {
		t.Fatalf("expected analytics result for the old mount to be dropped")
	}
}

func TestShell_AnalyticsLoadsThroughShell(t *testing.T) {
	backend := &fakeBackend{analytics: func() (catalog.AnalyticsSnapshot, error) {
		return analyticsScenario(), nil
	}}
	m := newTestShell(backend, PageAnalytics, "")

	m, _ = updateShell(t, m, analyticsResult(t, m.Init()))
	if m.Analytics().State() != AnalyticsLoaded {
		t.Fatalf("expected analytics loaded, got %s", m.Analytics().State())
	}
	if !strings.Contains(m.View(), "Total Products: 100") {
		t.Fatalf("expected dashboard in shell view")
	}
}

func TestShell_QuitKeys(t *testing.T) {
	m := newTestShell(&fakeBackend{}, PageRecommend, "")

	// Typing q into the search box must not quit.
	m, cmd := updateShell(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if m.Recommend().Query() != "q" {
		t.Fatalf("expected q to be typed, got %q", m.Recommend().Query())
	}
	_ = cmd

	_, cmd = updateShell(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !isQuit(cmd) {
		t.Fatalf("expected ctrl+c to quit")
	}

	a := newTestShell(&fakeBackend{}, PageAnalytics, "")
	_, cmd = updateShell(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !isQuit(cmd) {
		t.Fatalf("expected q to quit from the dashboard")
	}
}

func TestShell_WindowSizeForwarded(t *testing.T) {
	backend := &fakeBackend{recommend: func(string, int) ([]catalog.Product, error) {
		return products("Oak Chair", "Pine Desk", "Ash Shelf"), nil
	}}
	m := newTestShell(backend, PageRecommend, "desk")
	m, _ = updateShell(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})

	m, cmd := updateShell(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = updateShell(t, m, recommendResult(t, cmd))

	view := m.View()
	for _, title := range []string{"Oak Chair", "Pine Desk", "Ash Shelf"} {
		if !strings.Contains(view, title) {
			t.Fatalf("expected %q in wide layout", title)
		}
	}
	// Three columns: all titles share the first card row.
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, "Oak Chair") {
			if !strings.Contains(line, "Pine Desk") || !strings.Contains(line, "Ash Shelf") {
				t.Fatalf("expected cards side by side, got %q", line)
			}
			return
		}
	}
	t.Fatalf("expected a row with the first card")
}

func TestRecommendPage_SelectAndCopy(t *testing.T) {
	var copied string
	old := clipboardWriteAll
	clipboardWriteAll = func(s string) error {
		copied = s
		return nil
	}
	defer func() { clipboardWriteAll = old }()

	backend := &fakeBackend{recommend: func(string, int) ([]catalog.Product, error) {
		return []catalog.Product{
			{Title: "Oak Chair", Brand: "Acme"},
			{Title: "Pine Desk", Brand: "Zen"},
		}, nil
	}}
	m := newRecommendPage(backend)
	m.SetQuery("desk")
	m, cmd := m.Search()
	m, _ = m.Update(recommendResult(t, cmd))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.CapturesKeys() {
		t.Fatalf("expected results focus to release plain keys")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.Selected() != 1 {
		t.Fatalf("expected selection clamped to last card, got %d", m.Selected())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if copied != "Pine Desk — Zen" {
		t.Fatalf("expected selected card copied, got %q", copied)
	}
	if !strings.Contains(m.View(), "Copied") {
		t.Fatalf("expected copy status")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.Selected() != 0 {
		t.Fatalf("expected left to move selection back")
	}
}

func TestRecommendPage_TabWithoutResultsKeepsInputFocus(t *testing.T) {
	m := newRecommendPage(&fakeBackend{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !m.CapturesKeys() {
		t.Fatalf("expected input focus with nothing to select")
	}
}
