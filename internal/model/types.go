// Package model defines shared data structures.
package model

import (
	"fmt"
	"maps"
	"strings"
)

// Subject is one of the fixed exam subjects.
type Subject string

// Known subjects.
const (
	Physics     Subject = "Physics"
	Chemistry   Subject = "Chemistry"
	Mathematics Subject = "Mathematics"
)

// Subjects returns all subjects in display order.
func Subjects() []Subject {
	return []Subject{Physics, Chemistry, Mathematics}
}

// ParseSubject resolves a subject name case-insensitively.
func ParseSubject(s string) (Subject, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "physics", "phy":
		return Physics, nil
	case "chemistry", "chem":
		return Chemistry, nil
	case "mathematics", "maths", "math":
		return Mathematics, nil
	}
	return "", fmt.Errorf("unknown subject %q (use physics, chemistry or mathematics)", s)
}

// Status is the study progress of a chapter.
type Status string

// Known statuses. StatusNone means no status is selected in a filter.
const (
	StatusNone       Status = ""
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses returns the selectable statuses in display order.
func Statuses() []Status {
	return []Status{StatusNotStarted, StatusInProgress, StatusCompleted}
}

// ParseStatus accepts display labels and kebab-case forms.
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	switch norm {
	case "not started":
		return StatusNotStarted, nil
	case "in progress":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return StatusNone, fmt.Errorf("unknown status %q (use not-started, in-progress or completed)", s)
}

// Chapter is one row of the PYQ dataset.
type Chapter struct {
	Subject    Subject        `json:"subject" yaml:"subject"`
	Name       string         `json:"chapter" yaml:"chapter"`
	Class      string         `json:"class" yaml:"class"`
	Unit       string         `json:"unit" yaml:"unit"`
	YearCounts map[string]int `json:"yearWiseQuestionCount" yaml:"yearWiseQuestionCount"`
	Solved     int            `json:"questionSolved" yaml:"questionSolved"`
	Status     Status         `json:"status" yaml:"status"`
	Weak       bool           `json:"isWeakChapter" yaml:"isWeakChapter"`
}

// Clone returns a copy of ch that does not share its year counts.
func (ch Chapter) Clone() Chapter {
	if ch.YearCounts == nil {
		ch.YearCounts = map[string]int{}
	} else {
		ch.YearCounts = maps.Clone(ch.YearCounts)
	}
	return ch
}

// CloneChapters deep-copies records.
func CloneChapters(records []Chapter) []Chapter {
	out := make([]Chapter, len(records))
	for i, ch := range records {
		out[i] = ch.Clone()
	}
	return out
}

// Trend is the direction of the latest year-over-year change.
type Trend string

// Trend values.
const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Filters selects chapters. Zero values match everything.
type Filters struct {
	Classes  []string
	Units    []string
	Status   Status
	WeakOnly bool
}

// SortKey selects the chapter ordering.
type SortKey string

// Sort keys.
const (
	SortByName      SortKey = "name"
	SortByQuestions SortKey = "questions"
	SortBySolved    SortKey = "solved"
)

// SortKeys returns the sort keys in cycling order.
func SortKeys() []SortKey {
	return []SortKey{SortByName, SortByQuestions, SortBySolved}
}

// ParseSortKey resolves a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "chapter":
		return SortByName, nil
	case "questions", "total", "totalquestions":
		return SortByQuestions, nil
	case "solved":
		return SortBySolved, nil
	}
	return "", fmt.Errorf("unknown sort key %q (use name, questions or solved)", s)
}

// Label returns the column title used for the key.
func (k SortKey) Label() string {
	switch k {
	case SortByQuestions:
		return "Questions"
	case SortBySolved:
		return "Solved"
	default:
		return "Name"
	}
}

// SortOrder is ascending or descending.
type SortOrder string

// Sort orders.
const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder resolves a sort order name.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort order %q (use asc or desc)", s)
}

// Reverse returns the opposite order.
func (o SortOrder) Reverse() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// SubjectStats summarizes all chapters of a subject.
type SubjectStats struct {
	Subject        Subject
	Chapters       int
	TotalQuestions int
	Solved         int
	Weak           int
}

// DashboardConfig holds resolved runtime settings.
type DashboardConfig struct {
	Subject   Subject
	SortKey   SortKey
	SortOrder SortOrder
	Locale    string
	DataPath  string
	UseDB     bool
}
