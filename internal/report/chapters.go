package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/pyqdash/internal/chapters"
	"github.com/verte-zerg/pyqdash/internal/model"
)

const (
	minNameWidth = 12
	weakBadge    = "weak"
)

// TrendArrow returns the arrow shown next to the latest year count.
func TrendArrow(t model.Trend) string {
	switch t {
	case model.TrendUp:
		return "↑"
	case model.TrendDown:
		return "↓"
	default:
		return ""
	}
}

// DisplayYears picks the n most recent year labels present anywhere in records.
func DisplayYears(records []model.Chapter, n int) []string {
	years, _ := chapters.YearTotals(records)
	if n > 0 && len(years) > n {
		years = years[len(years)-n:]
	}
	return years
}

// ChapterRow formats a chapter as table cells. years are shown newest first.
func ChapterRow(ch model.Chapter, years []string) []string {
	row := []string{ch.Name, ch.Class, ch.Unit, string(ch.Status), ""}
	if ch.Weak {
		row[4] = weakBadge
	}
	for i := len(years) - 1; i >= 0; i-- {
		cell := fmt.Sprintf("%d", chapters.YearCount(ch.YearCounts, years[i]))
		if i == len(years)-1 {
			if arrow := TrendArrow(chapters.CalculateTrend(ch.YearCounts)); arrow != "" {
				cell += " " + arrow
			}
		}
		row = append(row, cell)
	}
	row = append(row, fmt.Sprintf("%d/%d", ch.Solved, chapters.TotalQuestions(ch.YearCounts)))
	return row
}

// ChapterHeaders returns the column titles matching ChapterRow.
func ChapterHeaders(years []string) []string {
	headers := []string{"Chapter", "Class", "Unit", "Status", "Weak"}
	for i := len(years) - 1; i >= 0; i-- {
		headers = append(headers, years[i])
	}
	return append(headers, "Solved/Total")
}

// RenderChapters prints the chapter table, shrinking names to fit width.
func RenderChapters(w io.Writer, records []model.Chapter, years []string, width int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No chapters match the current filters.")
		return err
	}
	headers := ChapterHeaders(years)
	rows := make([][]string, 0, len(records))
	for _, ch := range records {
		rows = append(rows, ChapterRow(ch, years))
	}
	rightAlign := map[int]bool{}
	for i := 5; i < len(headers); i++ {
		rightAlign[i] = true
	}
	if width > 0 {
		fitNameColumn(headers, rows, width)
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func fitNameColumn(headers []string, rows [][]string, width int) {
	others := 0
	for col := 1; col < len(headers); col++ {
		colWidth := displayWidth(headers[col])
		for _, row := range rows {
			if w := displayWidth(row[col]); w > colWidth {
				colWidth = w
			}
		}
		others += colWidth + 2
	}
	nameWidth := width - others
	if nameWidth < minNameWidth {
		nameWidth = minNameWidth
	}
	for _, row := range rows {
		row[0] = Truncate(row[0], nameWidth)
	}
}

// FilterSummary describes the active filters and sort for a header line.
func FilterSummary(subject model.Subject, f model.Filters, key model.SortKey, order model.SortOrder) string {
	parts := []string{string(subject)}
	if len(f.Classes) > 0 {
		parts = append(parts, "class="+strings.Join(f.Classes, ","))
	}
	if len(f.Units) > 0 {
		parts = append(parts, "unit="+strings.Join(f.Units, ","))
	}
	if f.Status != model.StatusNone {
		parts = append(parts, "status="+string(f.Status))
	}
	if f.WeakOnly {
		parts = append(parts, "weak only")
	}
	parts = append(parts, fmt.Sprintf("sort=%s %s", key, order))
	return strings.Join(parts, "  ")
}
