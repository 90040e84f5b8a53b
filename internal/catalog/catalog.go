// Package catalog holds the immutable chapter dataset for a running view.
package catalog

import (
	"github.com/verte-zerg/pyqdash/internal/chapters"
	"github.com/verte-zerg/pyqdash/internal/model"
)

// Catalog is an ordered, read-only set of chapter records.
type Catalog struct {
	records   []model.Chapter
	bySubject map[model.Subject][]model.Chapter
	source    string
}

// New copies records into a catalog. The caller's slice is not retained.
func New(source string, records []model.Chapter) *Catalog {
	c := &Catalog{
		records:   make([]model.Chapter, len(records)),
		bySubject: map[model.Subject][]model.Chapter{},
		source:    source,
	}
	for i, ch := range records {
		ch = ch.Clone()
		c.records[i] = ch
		c.bySubject[ch.Subject] = append(c.bySubject[ch.Subject], ch)
	}
	return c
}

// Source describes where the records were loaded from.
func (c *Catalog) Source() string {
	return c.source
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// All returns a deep copy of every record in dataset order.
func (c *Catalog) All() []model.Chapter {
	return model.CloneChapters(c.records)
}

// ForSubject returns a deep copy of the subject's records in dataset order.
func (c *Catalog) ForSubject(subject model.Subject) []model.Chapter {
	return model.CloneChapters(c.bySubject[subject])
}

// Classes returns the sorted distinct classes of a subject.
func (c *Catalog) Classes(subject model.Subject) []string {
	return chapters.UniqueClasses(c.bySubject[subject])
}

// Units returns the sorted distinct units of a subject.
func (c *Catalog) Units(subject model.Subject) []string {
	return chapters.UniqueUnits(c.bySubject[subject])
}

// Stats summarizes every subject in display order.
func (c *Catalog) Stats() []model.SubjectStats {
	out := make([]model.SubjectStats, 0, len(model.Subjects()))
	for _, subject := range model.Subjects() {
		out = append(out, chapters.Summarize(subject, c.bySubject[subject]))
	}
	return out
}

// SubjectStats summarizes a single subject.
func (c *Catalog) SubjectStats(subject model.Subject) model.SubjectStats {
	return chapters.Summarize(subject, c.bySubject[subject])
}
