package chapters

import (
	"slices"

	"github.com/verte-zerg/pyqdash/internal/model"
)

// Filter keeps the records that satisfy every active clause of f.
// The result preserves input order in a new slice. Records are copied by
// value, so their YearCounts maps are shared with the input.
func Filter(records []model.Chapter, f model.Filters) []model.Chapter {
	out := make([]model.Chapter, 0, len(records))
	for _, ch := range records {
		if Match(ch, f) {
			out = append(out, ch)
		}
	}
	return out
}

// Match reports whether a single chapter passes all clauses of f.
func Match(ch model.Chapter, f model.Filters) bool {
	if len(f.Classes) > 0 && !slices.Contains(f.Classes, ch.Class) {
		return false
	}
	if len(f.Units) > 0 && !slices.Contains(f.Units, ch.Unit) {
		return false
	}
	if f.Status != model.StatusNone && ch.Status != f.Status {
		return false
	}
	if f.WeakOnly && !ch.Weak {
		return false
	}
	return true
}

// UniqueClasses returns the sorted distinct class values.
func UniqueClasses(records []model.Chapter) []string {
	return uniqueSorted(records, func(ch model.Chapter) string { return ch.Class })
}

// UniqueUnits returns the sorted distinct unit values.
func UniqueUnits(records []model.Chapter) []string {
	return uniqueSorted(records, func(ch model.Chapter) string { return ch.Unit })
}

func uniqueSorted(records []model.Chapter, field func(model.Chapter) string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, ch := range records {
		v := field(ch)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
