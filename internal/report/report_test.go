package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/pyqdash/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Chapter", "Solved/Total"}
	rows := [][]string{
		{"Optics", "3/10"},
		{"Gravitation", "12/40"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Chapter      Solved/Total" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Optics               3/10" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Gravitation         12/40" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestChapterRowShowsRecentYearsAndTrend(t *testing.T) {
	ch := model.Chapter{
		Name:       "Optics",
		Class:      "12",
		Unit:       "Waves",
		Status:     model.StatusInProgress,
		Weak:       true,
		Solved:     4,
		YearCounts: map[string]int{"2024": 2, "2025": 5},
	}
	row := ChapterRow(ch, []string{"2024", "2025"})
	want := []string{"Optics", "12", "Waves", "In Progress", "weak", "5 ↑", "2", "4/7"}
	if strings.Join(row, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected row: %q", row)
	}
	headers := ChapterHeaders([]string{"2024", "2025"})
	if len(headers) != len(row) || headers[5] != "2025" || headers[6] != "2024" {
		t.Fatalf("unexpected headers: %v", headers)
	}
}

func TestChapterRowMissingYearIsZero(t *testing.T) {
	ch := model.Chapter{Name: "Atoms", Status: model.StatusNotStarted, YearCounts: map[string]int{"2019": 3}}
	row := ChapterRow(ch, []string{"2024", "2025"})
	if row[5] != "0" || row[6] != "0" || row[7] != "0/3" {
		t.Fatalf("unexpected row: %q", row)
	}
}

func TestRenderChaptersEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChapters(&buf, nil, nil, 80); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No chapters match") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRenderChaptersTruncatesNames(t *testing.T) {
	records := []model.Chapter{{
		Name:       strings.Repeat("Electromagnetic ", 6),
		Class:      "12",
		Unit:       "Magnetism",
		Status:     model.StatusCompleted,
		YearCounts: map[string]int{"2025": 1},
	}}
	var buf bytes.Buffer
	if err := RenderChapters(&buf, records, []string{"2025"}, 80); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if displayWidth(line) > 80 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}
	if !strings.Contains(buf.String(), "…") {
		t.Fatalf("expected truncation marker: %s", buf.String())
	}
}

func TestRenderSummary(t *testing.T) {
	records := []model.Chapter{
		{Subject: model.Physics, Name: "A", Solved: 2, Weak: true, YearCounts: map[string]int{"2023": 1, "2024": 3}},
		{Subject: model.Chemistry, Name: "B", Solved: 1, YearCounts: map[string]int{"2024": 4}},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, records); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"2024 - 2023 | 2 Chapters | 8 Qs", "Physics", "Chemistry", "Mathematics", "50.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in summary:\n%s", want, out)
		}
	}
}

func TestSparklineFlatAndRange(t *testing.T) {
	if got := Sparkline([]int{3, 3}); got != "++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if got := Sparkline([]int{0, 9}); got != " @" {
		t.Fatalf("unexpected range sparkline: %q", got)
	}
	if Percent(1, 0) != "0.0%" {
		t.Fatalf("expected 0.0%% for empty total")
	}
}
