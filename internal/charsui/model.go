// Package charsui provides the Bubble Tea character ranking interface.
package charsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/verte-zerg/charfit/internal/model"
	"github.com/verte-zerg/charfit/internal/stats"
)

const (
	tabChars = iota
	tabLanguages
	tabResult
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Config holds what the view shows.
type Config struct {
	Data         []model.CharStat
	Localization model.LocalizationSettings
	Budget       float64
	Result       *model.CapacityResult
	Usage        int64
	Field        stats.SortField
	Dir          stats.SortDirection
	Locale       language.Tag
}

// UsageMsg carries a live usage counter value into the program.
type UsageMsg int64

// Model implements the Bubble Tea character UI.
type Model struct {
	cfg Config

	tabs      []string
	activeTab int
	viewports []viewport.Model
	charTable table.Model

	width  int
	height int
}

// NewModel constructs a character UI model.
func NewModel(cfg Config) *Model {
	if cfg.Field == "" {
		cfg.Field = stats.SortFrequency
	}
	if cfg.Dir == "" {
		cfg.Dir = stats.SortDesc
	}
	m := &Model{
		cfg:  cfg,
		tabs: []string{"Characters", "Languages", "Result"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.charTable = table.New(
		table.WithColumns(charColumns()),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	m.charTable.SetStyles(charTableStyles())
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case UsageMsg:
		m.cfg.Usage = int64(msg)
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "c":
			m.setSort(stats.SortChar)
			return m, nil
		case "n":
			m.setSort(stats.SortCount)
			return m, nil
		case "f":
			m.setSort(stats.SortFrequency)
			return m, nil
		case "r":
			m.cfg.Dir = m.cfg.Dir.Reverse()
			m.refresh()
			return m, nil
		case "g", "home":
			if m.activeTab == tabChars {
				m.charTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabChars {
				m.charTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabChars {
				var cmd tea.Cmd
				m.charTable, cmd = m.charTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Rows returns the character column in the current order.
func (m *Model) Rows() []string {
	rows := m.charTable.Rows()
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row[0]
	}
	return out
}

// setSort switches the ranking column. Selecting the active column flips the direction.
func (m *Model) setSort(field stats.SortField) {
	if m.cfg.Field == field {
		m.cfg.Dir = m.cfg.Dir.Reverse()
	} else {
		m.cfg.Field = field
	}
	m.refresh()
}

func (m *Model) refresh() {
	ranked := stats.Sorted(m.cfg.Data, m.cfg.Field, m.cfg.Dir, stats.WithLocale(m.cfg.Locale))
	cells := stats.CharRows(ranked)
	rows := make([]table.Row, len(cells))
	for i, c := range cells {
		rows[i] = table.Row(c)
	}
	m.charTable.SetRows(rows)
	m.charTable.GotoTop()
	m.renderTabContents()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.charTable.SetWidth(m.width)
	m.charTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabChars {
		m.charTable.Focus()
	} else {
		m.charTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := fmt.Sprintf("Sort: %s %s  chars=%d  calculations=%d", m.cfg.Field, m.cfg.Dir, len(m.cfg.Data), m.cfg.Usage)
	return tabs + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down  Sort: c/n/f  Reverse: r  Quit: q")
}

func (m *Model) renderBody() string {
	if m.activeTab == tabChars {
		if len(m.cfg.Data) == 0 {
			return "No character stats found."
		}
		return tableMutedStyle.Render(m.charTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabLanguages].SetContent(renderLanguages(m.cfg.Localization))
	m.viewports[tabResult].SetContent(renderResultCards(m.cfg.Budget, m.cfg.Result, m.cfg.Usage, width))
}

func renderLanguages(l model.LocalizationSettings) string {
	if len(l.Languages) == 0 {
		return "No localization languages."
	}
	var buf bytes.Buffer
	if err := stats.RenderLanguages(&buf, l); err != nil {
		return fmt.Sprintf("Failed to render languages: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderResultCards(budget float64, res *model.CapacityResult, usage int64, width int) string {
	if res == nil {
		return "No result yet. Set an element width and measure character widths."
	}
	cards := []string{
		metricCard("Element width", fmt.Sprintf("%.0f px", budget)),
		metricCard("Avg char width", fmt.Sprintf("%.2f px", res.TotalFrequencyWidth)),
		metricCard("Max chars", fmt.Sprintf("%d", res.MaxCharLength)),
	}
	if res.ReducedMaxCharLength != nil {
		cards = append(cards, metricCard("Reduced 10%", fmt.Sprintf("%d", *res.ReducedMaxCharLength)))
	}
	if res.AdjustedMaxCharLength != nil {
		cards = append(cards, metricCard(fmt.Sprintf("Localized x%.2f", res.ExpansionRate), fmt.Sprintf("%d", *res.AdjustedMaxCharLength)))
	}
	cards = append(cards,
		metricCard("Recommended", fmt.Sprintf("%d", res.Effective())),
		metricCard("Calculations", fmt.Sprintf("%d", usage)),
	)
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func charColumns() []table.Column {
	return []table.Column{
		{Title: "Char", Width: 9},
		{Title: "Count", Width: 8},
		{Title: "Frequency", Width: 10},
		{Title: "Width (px)", Width: 11},
	}
}

func charTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
