package dashui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pyqdash/internal/model"
	"github.com/verte-zerg/pyqdash/internal/view"
)

type panelKind int

const (
	panelClass panelKind = iota
	panelUnit
	panelStatus
	panelWeak
)

var panelTitles = map[panelKind]string{
	panelClass:  "Class",
	panelUnit:   "Unit",
	panelStatus: "Status (one at a time)",
	panelWeak:   "Weak chapters",
}

// panelItem is one toggle. absent marks a selected value the active subject does not have.
type panelItem struct {
	kind   panelKind
	value  string
	absent bool
}

func (m *Model) openPanel() {
	m.panelMode = true
	m.panelCursor = 0
	m.rebuildPanel()
	m.panel.GotoTop()
}

func (m *Model) closePanel() {
	m.panelMode = false
}

func (m *Model) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "/", "f":
		m.closePanel()
		return m, nil
	case "up", "k":
		m.movePanelCursor(-1)
		return m, nil
	case "down", "j":
		m.movePanelCursor(1)
		return m, nil
	case " ", "enter":
		m.togglePanelItem()
		return m, nil
	case "x":
		m.dispatch(view.State.ClearAll)
		return m, nil
	}
	var cmd tea.Cmd
	m.panel, cmd = m.panel.Update(msg)
	return m, cmd
}

func (m *Model) movePanelCursor(delta int) {
	if len(m.panelItems) == 0 {
		return
	}
	m.panelCursor = (m.panelCursor + delta + len(m.panelItems)) % len(m.panelItems)
	m.rebuildPanel()
}

func (m *Model) togglePanelItem() {
	if m.panelCursor < 0 || m.panelCursor >= len(m.panelItems) {
		return
	}
	item := m.panelItems[m.panelCursor]
	switch item.kind {
	case panelClass:
		m.dispatch(func(s view.State) view.State { return s.ToggleClass(item.value) })
	case panelUnit:
		m.dispatch(func(s view.State) view.State { return s.ToggleUnit(item.value) })
	case panelStatus:
		m.dispatch(func(s view.State) view.State { return s.SelectStatus(model.Status(item.value)) })
	case panelWeak:
		m.dispatch(view.State.ToggleWeak)
	}
}

func (m *Model) rebuildPanel() {
	opts := m.ctrl.Options()
	state := m.ctrl.State()
	items := make([]panelItem, 0, len(opts.Classes)+len(opts.Units)+len(opts.Statuses)+1)
	items = appendOptions(items, panelClass, opts.Classes, state.Filters.Classes)
	items = appendOptions(items, panelUnit, opts.Units, state.Filters.Units)
	for _, st := range opts.Statuses {
		items = append(items, panelItem{kind: panelStatus, value: string(st)})
	}
	items = append(items, panelItem{kind: panelWeak, value: "Weak only"})
	m.panelItems = items
	if m.panelCursor >= len(items) {
		m.panelCursor = len(items) - 1
	}

	content, cursorLine := renderPanel(items, m.panelCursor, state)
	m.panel.SetContent(content)
	if cursorLine < m.panel.YOffset {
		m.panel.SetYOffset(cursorLine)
	} else if m.panel.Height > 0 && cursorLine >= m.panel.YOffset+m.panel.Height {
		m.panel.SetYOffset(cursorLine - m.panel.Height + 1)
	}
}

// appendOptions lists available values, then selected values left over from another subject.
func appendOptions(items []panelItem, kind panelKind, available, selected []string) []panelItem {
	for _, v := range available {
		items = append(items, panelItem{kind: kind, value: v})
	}
	for _, v := range selected {
		if !slices.Contains(available, v) {
			items = append(items, panelItem{kind: kind, value: v, absent: true})
		}
	}
	return items
}

func renderPanel(items []panelItem, cursor int, state view.State) (string, int) {
	var lines []string
	cursorLine := 0
	for i, item := range items {
		if i == 0 || items[i-1].kind != item.kind {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, panelTitleStyle.Render(panelTitles[item.kind]))
		}
		mark := " "
		if itemSelected(item, state) {
			mark = "x"
		}
		line := fmt.Sprintf("  [%s] %s", mark, item.value)
		if item.absent {
			line += " (not in this subject)"
		}
		if i == cursor {
			cursorLine = len(lines)
			line = panelCursorStyle.Render(">" + line[1:])
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), cursorLine
}

func itemSelected(item panelItem, state view.State) bool {
	switch item.kind {
	case panelClass:
		return state.HasClass(item.value)
	case panelUnit:
		return state.HasUnit(item.value)
	case panelStatus:
		return state.Filters.Status == model.Status(item.value)
	case panelWeak:
		return state.Filters.WeakOnly
	}
	return false
}
