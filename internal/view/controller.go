package view

import (
	"strconv"
	"strings"

	"github.com/verte-zerg/pyqdash/internal/catalog"
	"github.com/verte-zerg/pyqdash/internal/chapters"
	"github.com/verte-zerg/pyqdash/internal/model"
)

// Options lists what the filter controls can offer for the active subject.
type Options struct {
	Classes  []string
	Units    []string
	Statuses []model.Status
}

// Controller owns the current State and derives the visible chapters from it.
type Controller struct {
	catalog *catalog.Catalog
	coll    *chapters.Collator
	state   State

	cached    []model.Chapter
	cachedKey cacheKey
	hasCache  bool
}

// cacheKey covers every input of the derivation: subject, filters, sort key and order.
type cacheKey struct {
	subject model.Subject
	classes string
	units   string
	status  model.Status
	weak    bool
	key     model.SortKey
	order   model.SortOrder
}

// NewController starts from the given state.
func NewController(c *catalog.Catalog, coll *chapters.Collator, initial State) *Controller {
	return &Controller{catalog: c, coll: coll, state: initial}
}

// State returns the current selection.
func (c *Controller) State() State {
	return c.state.clone()
}

// Dispatch applies a transition and returns the new state.
func (c *Controller) Dispatch(action Action) State {
	c.state = action(c.state.clone())
	return c.State()
}

// Visible returns the filtered and sorted chapters of the active subject.
func (c *Controller) Visible() []model.Chapter {
	key := keyFor(c.state)
	if !c.hasCache || key != c.cachedKey {
		c.cached = Derive(c.catalog, c.coll, c.state)
		c.cachedKey = key
		c.hasCache = true
	}
	return model.CloneChapters(c.cached)
}

// Options returns the selectable filter values for the active subject.
func (c *Controller) Options() Options {
	return Options{
		Classes:  c.catalog.Classes(c.state.Subject),
		Units:    c.catalog.Units(c.state.Subject),
		Statuses: model.Statuses(),
	}
}

// Catalog returns the backing dataset.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// Derive computes the visible chapters without caching.
func Derive(c *catalog.Catalog, coll *chapters.Collator, s State) []model.Chapter {
	filtered := chapters.Filter(c.ForSubject(s.Subject), s.Filters)
	return chapters.Sort(filtered, s.SortKey, s.SortOrder, coll)
}

func keyFor(s State) cacheKey {
	return cacheKey{
		subject: s.Subject,
		classes: encodeList(s.Filters.Classes),
		units:   encodeList(s.Filters.Units),
		status:  s.Filters.Status,
		weak:    s.Filters.WeakOnly,
		key:     s.SortKey,
		order:   s.SortOrder,
	}
}

// encodeList length-prefixes each value so distinct lists never share a key.
func encodeList(values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}
