package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/pyqdash/internal/chapters"
	"github.com/verte-zerg/pyqdash/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if minVal == maxVal {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := float64(v-minVal) / float64(maxVal-minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// YearSpan returns "first - last" for the years present in records.
func YearSpan(records []model.Chapter) string {
	years, _ := chapters.YearTotals(records)
	if len(years) == 0 {
		return "no years"
	}
	return years[len(years)-1] + " - " + years[0]
}

// RenderSummary prints per-subject totals with a yearly question sparkline.
func RenderSummary(w io.Writer, records []model.Chapter) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No chapters found.")
		return err
	}
	grand := 0
	headers := []string{"Subject", "Chapters", "Questions", "Solved", "Progress", "Weak", "Per year"}
	rows := make([][]string, 0, len(model.Subjects()))
	for _, subject := range model.Subjects() {
		s := chapters.Summarize(subject, records)
		grand += s.TotalQuestions
		_, totals := chapters.YearTotals(subjectRecords(records, subject))
		rows = append(rows, []string{
			string(subject),
			fmt.Sprintf("%d", s.Chapters),
			fmt.Sprintf("%d", s.TotalQuestions),
			fmt.Sprintf("%d", s.Solved),
			Percent(s.Solved, s.TotalQuestions),
			fmt.Sprintf("%d", s.Weak),
			Sparkline(totals),
		})
	}
	if _, err := fmt.Fprintf(w, "%s | %d Chapters | %d Qs\n\n", YearSpan(records), len(records), grand); err != nil {
		return err
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Percent formats part/total as a percentage, 0% when total is zero.
func Percent(part, total int) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

func subjectRecords(records []model.Chapter, subject model.Subject) []model.Chapter {
	out := make([]model.Chapter, 0, len(records))
	for _, ch := range records {
		if ch.Subject == subject {
			out = append(out, ch)
		}
	}
	return out
}
