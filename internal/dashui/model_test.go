package dashui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pyqdash/internal/catalog"
	"github.com/verte-zerg/pyqdash/internal/model"
	"github.com/verte-zerg/pyqdash/internal/view"
)

func testModel(t *testing.T) *Model {
	t.Helper()
	c := catalog.New("test", []model.Chapter{
		{Subject: model.Physics, Name: "Optics", Class: "12", Unit: "Waves", Solved: 2, Status: model.StatusInProgress, YearCounts: map[string]int{"2024": 1, "2025": 4}},
		{Subject: model.Physics, Name: "Gravitation", Class: "11", Unit: "Mechanics", Solved: 6, Status: model.StatusCompleted, Weak: true, YearCounts: map[string]int{"2024": 3, "2025": 3}},
		{Subject: model.Physics, Name: "Atoms", Class: "12", Unit: "Modern", Solved: 0, Status: model.StatusNotStarted, YearCounts: map[string]int{"2025": 2}},
		{Subject: model.Chemistry, Name: "Amines", Class: "12", Unit: "Organic", Solved: 1, Status: model.StatusInProgress, YearCounts: map[string]int{"2025": 5}},
	})
	m := NewModel(view.NewController(c, nil, view.DefaultState(model.Physics)))
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func visibleNames(m *Model) string {
	names := []string{}
	for _, ch := range m.Visible() {
		names = append(names, ch.Name)
	}
	return strings.Join(names, ",")
}

func TestDashboardSortKeys(t *testing.T) {
	m := testModel(t)
	if got := visibleNames(m); got != "Atoms,Gravitation,Optics" {
		t.Fatalf("unexpected default order: %s", got)
	}
	m.Update(key("o"))
	if got := visibleNames(m); got != "Atoms,Optics,Gravitation" {
		t.Fatalf("unexpected questions order: %s", got)
	}
	m.Update(key("r"))
	if got := visibleNames(m); got != "Gravitation,Optics,Atoms" {
		t.Fatalf("unexpected reversed order: %s", got)
	}
	m.Update(key("x"))
	if m.State().SortKey != model.SortByName || m.State().SortOrder != model.Ascending {
		t.Fatalf("clear did not reset sort: %+v", m.State())
	}
}

func TestDashboardFilterKeys(t *testing.T) {
	m := testModel(t)
	m.Update(key("w"))
	if got := visibleNames(m); got != "Gravitation" {
		t.Fatalf("unexpected weak filter result: %s", got)
	}
	m.Update(key("w"))
	m.Update(key("s"))
	if m.State().Filters.Status != model.StatusNotStarted {
		t.Fatalf("expected not started status, got %q", m.State().Filters.Status)
	}
	if got := visibleNames(m); got != "Atoms" {
		t.Fatalf("unexpected status filter result: %s", got)
	}
}

func TestDashboardSubjectSwitch(t *testing.T) {
	m := testModel(t)
	m.Update(key("right"))
	if m.State().Subject != model.Chemistry {
		t.Fatalf("expected chemistry, got %s", m.State().Subject)
	}
	if got := visibleNames(m); got != "Amines" {
		t.Fatalf("unexpected chemistry chapters: %s", got)
	}
	m.Update(key("3"))
	if m.State().Subject != model.Mathematics || len(m.Visible()) != 0 {
		t.Fatalf("expected empty mathematics view, got %s %v", m.State().Subject, m.Visible())
	}
	if !strings.Contains(m.View(), "No chapters for this subject.") {
		t.Fatalf("expected empty subject message")
	}
}

func TestDashboardPanelTogglesClass(t *testing.T) {
	m := testModel(t)
	m.Update(key("/"))
	if !m.panelMode {
		t.Fatalf("expected panel mode")
	}
	// First item is class 11.
	m.Update(key("enter"))
	if !m.State().HasClass("11") {
		t.Fatalf("expected class 11 selected: %+v", m.State().Filters)
	}
	if got := visibleNames(m); got != "Gravitation" {
		t.Fatalf("unexpected class filter result: %s", got)
	}
	if !strings.Contains(m.View(), "[x] 11") {
		t.Fatalf("expected checked class in panel view")
	}
	m.Update(key("enter"))
	if m.State().ActiveFilterCount() != 0 {
		t.Fatalf("expected toggle to clear class: %+v", m.State().Filters)
	}
	m.Update(key("esc"))
	if m.panelMode {
		t.Fatalf("expected panel closed")
	}
}

func TestDashboardPanelStatusIsSingleSelect(t *testing.T) {
	m := testModel(t)
	m.Update(key("/"))
	// classes 11,12 then units Mechanics,Modern,Waves then statuses.
	for i := 0; i < 5; i++ {
		m.Update(key("down"))
	}
	m.Update(key("enter"))
	if m.State().Filters.Status != model.StatusNotStarted {
		t.Fatalf("expected not started, got %q", m.State().Filters.Status)
	}
	m.Update(key("down"))
	m.Update(key("enter"))
	if m.State().Filters.Status != model.StatusInProgress {
		t.Fatalf("expected in progress to replace status, got %q", m.State().Filters.Status)
	}
}

func TestDashboardNarrowDropsColumns(t *testing.T) {
	m := testModel(t)
	wide := m.table.Columns()
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	narrow := m.table.Columns()
	if len(narrow) != len(wide)-3 {
		t.Fatalf("expected unit and year columns dropped: wide=%d narrow=%d", len(wide), len(narrow))
	}
	for _, col := range narrow {
		if col.Title == "Unit" || col.Title == "2025" {
			t.Fatalf("unexpected column %q on narrow layout", col.Title)
		}
	}
}

func TestDashboardQuit(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestPanelListsFiltersFromOtherSubject(t *testing.T) {
	m := testModel(t)
	m.Update(key("/"))
	m.Update(key("enter")) // class 11
	m.Update(key("esc"))
	m.Update(key("right"))
	if m.State().Subject != model.Chemistry || !m.State().HasClass("11") {
		t.Fatalf("unexpected state after switch: %+v", m.State())
	}
	m.Update(key("/"))
	if !strings.Contains(m.View(), "[x] 11 (not in this subject)") {
		t.Fatalf("panel should list the class carried over:\n%s", m.View())
	}
	// Chemistry offers class 12 only, so the carried-over 11 is next.
	m.Update(key("down"))
	m.Update(key("enter"))
	if m.State().HasClass("11") || len(m.State().Filters.Classes) != 0 {
		t.Fatalf("expected carried-over class cleared, got %v", m.State().Filters.Classes)
	}
	if strings.Contains(m.View(), "not in this subject") {
		t.Fatalf("cleared value should leave the panel")
	}
}

func TestTruncateLineUsesDisplayWidth(t *testing.T) {
	got := truncateLine("物理 化学 数学 chapters", 10)
	if w := runewidth.StringWidth(got); w > 10 {
		t.Fatalf("truncated line is %d cells wide: %q", w, got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if truncateLine("short", 10) != "short" {
		t.Fatalf("short line should be unchanged")
	}
}
