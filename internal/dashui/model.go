// Package dashui provides the Bubble Tea chapter dashboard.
package dashui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pyqdash/internal/model"
	"github.com/verte-zerg/pyqdash/internal/report"
	"github.com/verte-zerg/pyqdash/internal/view"
)

const (
	narrowWidth  = 80
	displayYears = 2
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
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	tableMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	panelTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Bold(true)
	panelCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// Model implements the Bubble Tea dashboard.
type Model struct {
	ctrl  *view.Controller
	years []string

	table    table.Model
	layout   tableLayout
	visible  []model.Chapter
	subjects []model.SubjectStats

	panelMode   bool
	panel       viewport.Model
	panelItems  []panelItem
	panelCursor int

	width  int
	height int
}

type tableLayout struct {
	width    int
	height   int
	narrow   bool
	rowCount int
}

// NewModel constructs a dashboard model over the controller's catalog.
func NewModel(ctrl *view.Controller) *Model {
	m := &Model{
		ctrl:     ctrl,
		years:    report.DisplayYears(ctrl.Catalog().All(), displayYears),
		subjects: ctrl.Catalog().Stats(),
		panel:    viewport.New(0, 0),
	}
	m.table = table.New(table.WithFocused(true))
	m.table.SetStyles(chapterTableStyles())
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
		m.updateLayout(false)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.panelMode {
			return m.updatePanel(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveSubject(-1)
			return m, nil
		case "right", "l":
			m.moveSubject(1)
			return m, nil
		case "1", "2", "3":
			subjects := model.Subjects()
			idx := int(msg.String()[0] - '1')
			m.dispatch(func(s view.State) view.State { return s.WithSubject(subjects[idx]) })
			return m, nil
		case "s":
			m.dispatch(view.State.CycleStatus)
			return m, nil
		case "w":
			m.dispatch(view.State.ToggleWeak)
			return m, nil
		case "o":
			m.dispatch(view.State.CycleSortKey)
			return m, nil
		case "r":
			m.dispatch(view.State.ToggleOrder)
			return m, nil
		case "x":
			m.dispatch(view.State.ClearAll)
			return m, nil
		case "/", "f":
			m.openPanel()
			return m, nil
		case "g", "home":
			m.table.GotoTop()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			return m, nil
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
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
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// State returns the current selection.
func (m *Model) State() view.State {
	return m.ctrl.State()
}

// Visible returns the chapters currently listed.
func (m *Model) Visible() []model.Chapter {
	return slices.Clone(m.visible)
}

func (m *Model) dispatch(action view.Action) {
	m.ctrl.Dispatch(action)
	m.refresh()
}

func (m *Model) refresh() {
	m.visible = m.ctrl.Visible()
	if m.panelMode {
		m.rebuildPanel()
	}
	m.updateLayout(true)
	m.table.GotoTop()
}

func (m *Model) moveSubject(delta int) {
	subjects := model.Subjects()
	idx := slices.Index(subjects, m.ctrl.State().Subject)
	next := (idx + delta + len(subjects)) % len(subjects)
	m.dispatch(func(s view.State) view.State { return s.WithSubject(subjects[next]) })
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

func (m *Model) updateLayout(force bool) {
	width := m.width
	if width <= 0 {
		width = narrowWidth
	}
	_, bodyHeight, _ := m.layoutHeights()
	narrow := width < narrowWidth
	tableHeight := maxInt(1, bodyHeight-1)
	if !force &&
		m.layout.width == width &&
		m.layout.height == tableHeight &&
		m.layout.narrow == narrow &&
		m.layout.rowCount == len(m.visible) {
		return
	}
	cols, rows := buildChapterTable(m.visible, m.years, width, narrow)
	// Clear rows first so the table never renders old rows against new columns.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.SetWidth(width)
	m.table.SetHeight(tableHeight)
	m.layout = tableLayout{width: width, height: tableHeight, narrow: narrow, rowCount: len(rows)}

	m.panel.Width = width
	m.panel.Height = bodyHeight
}

func (m *Model) renderTabs() string {
	state := m.ctrl.State()
	parts := make([]string, 0, len(m.subjects))
	for _, s := range m.subjects {
		label := fmt.Sprintf("%s %d · %d/%d", s.Subject, s.Chapters, s.Solved, s.TotalQuestions)
		if m.width > 0 && m.width < narrowWidth {
			label = string(s.Subject)
		}
		if s.Subject == state.Subject {
			parts = append(parts, activeNavStyle.Render(label))
		} else {
			parts = append(parts, inactiveNavStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + padLines(m.renderFilterSummary(), m.width)
}

func (m *Model) renderFilterSummary() string {
	state := m.ctrl.State()
	summary := report.FilterSummary(state.Subject, state.Filters, state.SortKey, state.SortOrder)
	summary = fmt.Sprintf("%s  filters=%d  showing %d", summary, state.ActiveFilterCount(), len(m.visible))
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Subject: left/right 1-3  Filters: /  Status: s  Weak: w  Sort: o  Reverse: r  Clear: x  Quit: q"
	if m.panelMode {
		help = "Move: up/down  Toggle: space/enter  Close: esc  Clear: x  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if m.panelMode {
		return fitLines(m.panel.View(), m.width, height)
	}
	if len(m.visible) == 0 {
		if m.ctrl.State().ActiveFilterCount() > 0 {
			return fitLines("No chapters match the current filters. Press x to clear.", m.width, height)
		}
		return fitLines("No chapters for this subject.", m.width, height)
	}
	return fitLines(tableMutedStyle.Render(m.table.View()), m.width, height)
}

func buildChapterTable(records []model.Chapter, years []string, width int, narrow bool) ([]table.Column, []table.Row) {
	headers := report.ChapterHeaders(years)
	keep := keptColumns(len(headers), narrow)

	rows := make([]table.Row, 0, len(records))
	for _, ch := range records {
		full := report.ChapterRow(ch, years)
		row := make(table.Row, 0, len(keep))
		for _, idx := range keep {
			row = append(row, full[idx])
		}
		rows = append(rows, row)
	}

	cols := make([]table.Column, 0, len(keep))
	fixed := 0
	for _, idx := range keep {
		w := lipgloss.Width(headers[idx])
		for _, row := range rows {
			w = maxInt(w, lipgloss.Width(row[len(cols)]))
		}
		cols = append(cols, table.Column{Title: headers[idx], Width: w})
		if idx != 0 {
			fixed += w + 1
		}
	}
	cols[0].Width = maxInt(12, width-fixed-1)
	return cols, rows
}

// keptColumns drops the unit and year columns on narrow terminals.
func keptColumns(count int, narrow bool) []int {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		if narrow && (i == 2 || (i > 4 && i < count-1)) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func chapterTableStyles() table.Styles {
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
