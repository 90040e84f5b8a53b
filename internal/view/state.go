// Package view holds the dashboard selection state and derives the visible chapters.
package view

import (
	"slices"

	"github.com/verte-zerg/pyqdash/internal/model"
)

// State is the full user selection. Transitions return new values and never
// share slices with the receiver.
type State struct {
	Subject   model.Subject
	Filters   model.Filters
	SortKey   model.SortKey
	SortOrder model.SortOrder
}

// DefaultState returns match-all filters sorted by name ascending.
func DefaultState(subject model.Subject) State {
	return State{
		Subject:   subject,
		SortKey:   model.SortByName,
		SortOrder: model.Ascending,
	}
}

// Action is a pure state transition.
type Action func(State) State

// WithSubject switches the active subject. Filters are kept.
func (s State) WithSubject(subject model.Subject) State {
	next := s.clone()
	next.Subject = subject
	return next
}

// ToggleClass adds the class to the selection, or removes it if present.
func (s State) ToggleClass(class string) State {
	next := s.clone()
	next.Filters.Classes = toggle(next.Filters.Classes, class)
	return next
}

// ToggleUnit adds the unit to the selection, or removes it if present.
func (s State) ToggleUnit(unit string) State {
	next := s.clone()
	next.Filters.Units = toggle(next.Filters.Units, unit)
	return next
}

// SelectStatus is single-select: a new status replaces the current one and
// selecting the current status clears it.
func (s State) SelectStatus(status model.Status) State {
	next := s.clone()
	if next.Filters.Status == status {
		next.Filters.Status = model.StatusNone
	} else {
		next.Filters.Status = status
	}
	return next
}

// ToggleWeak flips the weak-only flag.
func (s State) ToggleWeak() State {
	next := s.clone()
	next.Filters.WeakOnly = !next.Filters.WeakOnly
	return next
}

// WithSort sets the sort key and order.
func (s State) WithSort(key model.SortKey, order model.SortOrder) State {
	next := s.clone()
	next.SortKey = key
	next.SortOrder = order
	return next
}

// ToggleOrder reverses the sort direction.
func (s State) ToggleOrder() State {
	next := s.clone()
	next.SortOrder = next.SortOrder.Reverse()
	return next
}

// CycleSortKey moves to the next sort key, keeping the order.
func (s State) CycleSortKey() State {
	keys := model.SortKeys()
	idx := slices.Index(keys, s.SortKey)
	next := s.clone()
	next.SortKey = keys[(idx+1)%len(keys)]
	return next
}

// CycleStatus steps through none -> each status -> none.
func (s State) CycleStatus() State {
	statuses := model.Statuses()
	idx := slices.Index(statuses, s.Filters.Status)
	next := s.clone()
	if idx+1 >= len(statuses) {
		next.Filters.Status = model.StatusNone
	} else {
		next.Filters.Status = statuses[idx+1]
	}
	return next
}

// ClearAll resets filters and sort in one transition. The subject is kept.
func (s State) ClearAll() State {
	return DefaultState(s.Subject)
}

// ActiveFilterCount counts selected classes, units, status and weak flag.
func (s State) ActiveFilterCount() int {
	n := len(s.Filters.Classes) + len(s.Filters.Units)
	if s.Filters.Status != model.StatusNone {
		n++
	}
	if s.Filters.WeakOnly {
		n++
	}
	return n
}

// HasClass reports whether a class is selected.
func (s State) HasClass(class string) bool {
	return slices.Contains(s.Filters.Classes, class)
}

// HasUnit reports whether a unit is selected.
func (s State) HasUnit(unit string) bool {
	return slices.Contains(s.Filters.Units, unit)
}

func (s State) clone() State {
	next := s
	next.Filters.Classes = slices.Clone(s.Filters.Classes)
	next.Filters.Units = slices.Clone(s.Filters.Units)
	return next
}

func toggle(values []string, v string) []string {
	if idx := slices.Index(values, v); idx >= 0 {
		values = slices.Delete(values, idx, idx+1)
		if len(values) == 0 {
			return nil
		}
		return values
	}
	return append(values, v)
}
