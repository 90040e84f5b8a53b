// Package chapters implements the pure chapter aggregation, filtering and sorting.
package chapters

import (
	"sort"

	"github.com/verte-zerg/pyqdash/internal/model"
)

// TotalQuestions sums the question counts of all years.
func TotalQuestions(counts map[string]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

// YearCount returns the count for a year, or 0 when the year is absent.
func YearCount(counts map[string]int, year string) int {
	return counts[year]
}

// RecentYears returns up to n of the latest year labels in ascending order.
// Labels are compared lexicographically, so they must share a width.
func RecentYears(counts map[string]int, n int) []string {
	if n <= 0 || len(counts) == 0 {
		return nil
	}
	years := make([]string, 0, len(counts))
	for year := range counts {
		years = append(years, year)
	}
	sort.Strings(years)
	if len(years) > n {
		years = years[len(years)-n:]
	}
	return years
}

// CalculateTrend compares the two most recent years.
func CalculateTrend(counts map[string]int) model.Trend {
	recent := RecentYears(counts, 2)
	if len(recent) < 2 {
		return model.TrendNeutral
	}
	prev := counts[recent[0]]
	curr := counts[recent[1]]
	switch {
	case curr > prev:
		return model.TrendUp
	case curr < prev:
		return model.TrendDown
	default:
		return model.TrendNeutral
	}
}

// Summarize aggregates totals for one subject.
func Summarize(subject model.Subject, records []model.Chapter) model.SubjectStats {
	out := model.SubjectStats{Subject: subject}
	for _, ch := range records {
		if ch.Subject != subject {
			continue
		}
		out.Chapters++
		out.TotalQuestions += TotalQuestions(ch.YearCounts)
		out.Solved += ch.Solved
		if ch.Weak {
			out.Weak++
		}
	}
	return out
}

// YearTotals sums question counts per year across records.
func YearTotals(records []model.Chapter) ([]string, []int) {
	byYear := map[string]int{}
	for _, ch := range records {
		for year, n := range ch.YearCounts {
			byYear[year] += n
		}
	}
	years := make([]string, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Strings(years)
	totals := make([]int, len(years))
	for i, year := range years {
		totals[i] = byYear[year]
	}
	return years, totals
}
