package chapters

import (
	"testing"

	"github.com/verte-zerg/pyqdash/internal/model"
)

func TestSortScenario(t *testing.T) {
	records := []model.Chapter{
		{Name: "B", Class: "11", Solved: 2, YearCounts: map[string]int{"2024": 4, "2025": 6}},
		{Name: "A", Class: "12", Solved: 5, YearCounts: map[string]int{"2024": 3, "2025": 3}},
	}
	equalNames(t, Filter(records, model.Filters{Classes: []string{"11"}}), "B")
	equalNames(t, Sort(records, model.SortByName, model.Ascending, nil), "A", "B")
	equalNames(t, Sort(records, model.SortByQuestions, model.Descending, nil), "B", "A")
	equalNames(t, Sort(records, model.SortBySolved, model.Descending, nil), "A", "B")
}

func TestSortIsStableInBothDirections(t *testing.T) {
	records := sampleChapters()
	// A and D share Solved=5; C and B differ.
	equalNames(t, Sort(records, model.SortBySolved, model.Ascending, nil), "C", "B", "A", "D")
	equalNames(t, Sort(records, model.SortBySolved, model.Descending, nil), "A", "D", "B", "C")

	asc := Sort(records, model.SortBySolved, model.Ascending, nil)
	equalNames(t, Sort(asc, model.SortBySolved, model.Descending, nil), "A", "D", "B", "C")
}

func TestSortDoesNotMutateInput(t *testing.T) {
	records := sampleChapters()
	_ = Sort(records, model.SortByName, model.Ascending, nil)
	equalNames(t, records, "B", "A", "C", "D")
}

func TestSortEmpty(t *testing.T) {
	got := Sort(nil, model.SortByName, model.Ascending, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSortNameLocaleAware(t *testing.T) {
	coll, err := NewCollator("en")
	if err != nil {
		t.Fatalf("new collator: %v", err)
	}
	records := []model.Chapter{
		{Name: "electrostatics"},
		{Name: "Énergie"},
		{Name: "Atoms"},
		{Name: "alternating Current"},
	}
	equalNames(t, Sort(records, model.SortByName, model.Ascending, coll),
		"alternating Current", "Atoms", "electrostatics", "Énergie")
}

func TestNewCollatorRejectsBadLocale(t *testing.T) {
	if _, err := NewCollator("not a locale!"); err == nil {
		t.Fatalf("expected error for invalid locale")
	}
	coll, err := NewCollator("")
	if err != nil {
		t.Fatalf("default collator: %v", err)
	}
	if coll.Locale() != "en" {
		t.Fatalf("expected default locale en, got %s", coll.Locale())
	}
}
