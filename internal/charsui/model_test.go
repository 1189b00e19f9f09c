package charsui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/charfit/internal/model"
	"github.com/verte-zerg/charfit/internal/stats"
)

func sampleData() []model.CharStat {
	return []model.CharStat{
		{Char: "a", Count: 3, Counted: true, Frequency: 50},
		{Char: "b", Count: 2, Counted: true, Frequency: 100.0 / 3},
		{Char: "1", Count: 1, Counted: true, Frequency: 100.0 / 6},
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDefaultSortIsFrequencyDesc(t *testing.T) {
	m := NewModel(Config{Data: sampleData()})
	got := strings.Join(m.Rows(), "")
	if got != "ab1" {
		t.Fatalf("expected ab1, got %q", got)
	}
}

func TestSortKeys(t *testing.T) {
	m := NewModel(Config{Data: sampleData()})

	m.Update(keyMsg("r"))
	if got := strings.Join(m.Rows(), ""); got != "1ba" {
		t.Fatalf("reverse: expected 1ba, got %q", got)
	}

	m.Update(keyMsg("c"))
	if m.cfg.Field != stats.SortChar {
		t.Fatalf("expected char sort, got %s", m.cfg.Field)
	}
	if got := strings.Join(m.Rows(), ""); got != "ab1" {
		t.Fatalf("char asc: expected ab1, got %q", got)
	}

	m.Update(keyMsg("c"))
	if m.cfg.Dir != stats.SortDesc {
		t.Fatalf("expected repeated key to flip direction")
	}
	if got := strings.Join(m.Rows(), ""); got != "ba1" {
		t.Fatalf("char desc: expected ba1, got %q", got)
	}

	m.Update(keyMsg("n"))
	if m.cfg.Field != stats.SortCount {
		t.Fatalf("expected count sort, got %s", m.cfg.Field)
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(Config{})
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestUsageMsgUpdatesHeader(t *testing.T) {
	m := NewModel(Config{Data: sampleData()})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(UsageMsg(12))
	if !strings.Contains(m.View(), "calculations=12") {
		t.Fatalf("header missing usage count: %s", m.View())
	}
}

func TestResultCards(t *testing.T) {
	reduced := 29
	adjusted := 20
	res := &model.CapacityResult{
		MaxCharLength:         33,
		ReducedMaxCharLength:  &reduced,
		AdjustedMaxCharLength: &adjusted,
		TotalFrequencyWidth:   15,
		ExpansionRate:         1.4,
	}
	out := renderResultCards(500, res, 3, 120)
	for _, want := range []string{"500 px", "33", "29", "Localized x1.40", "20", "Recommended"} {
		if !strings.Contains(out, want) {
			t.Fatalf("result cards missing %q:\n%s", want, out)
		}
	}
	if got := renderResultCards(500, nil, 0, 120); !strings.Contains(got, "No result yet") {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestTabNavigationWraps(t *testing.T) {
	m := NewModel(Config{})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabResult {
		t.Fatalf("expected wrap to result tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabChars {
		t.Fatalf("expected wrap to chars tab, got %d", m.activeTab)
	}
}
