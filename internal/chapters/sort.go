package chapters

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/verte-zerg/pyqdash/internal/model"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

// Collator orders chapter names for a locale. It is not safe for concurrent use.
type Collator struct {
	tag  language.Tag
	coll *collate.Collator
}

// NewCollator builds a collator for a BCP 47 locale such as "en" or "de-DE".
func NewCollator(locale string) (*Collator, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Collator{tag: tag, coll: collate.New(tag)}, nil
}

// Locale returns the collator's language tag.
func (c *Collator) Locale() string {
	return c.tag.String()
}

// Compare orders two names per the locale's collation rules.
func (c *Collator) Compare(a, b string) int {
	return c.coll.CompareString(a, b)
}

// Sort returns a stably sorted copy of records. Equal keys keep input order
// in both directions. A nil collator orders names with English rules.
func Sort(records []model.Chapter, key model.SortKey, order model.SortOrder, coll *Collator) []model.Chapter {
	if coll == nil {
		coll = &Collator{tag: language.English, coll: collate.New(language.English)}
	}
	out := slices.Clone(records)
	if out == nil {
		out = []model.Chapter{}
	}
	compare := comparator(key, coll)
	slices.SortStableFunc(out, func(a, b model.Chapter) int {
		c := compare(a, b)
		if order == model.Descending {
			return -c
		}
		return c
	})
	return out
}

func comparator(key model.SortKey, coll *Collator) func(a, b model.Chapter) int {
	switch key {
	case model.SortByQuestions:
		return func(a, b model.Chapter) int {
			return cmp.Compare(TotalQuestions(a.YearCounts), TotalQuestions(b.YearCounts))
		}
	case model.SortBySolved:
		return func(a, b model.Chapter) int {
			return cmp.Compare(a.Solved, b.Solved)
		}
	default:
		return func(a, b model.Chapter) int {
			return coll.Compare(a.Name, b.Name)
		}
	}
}
