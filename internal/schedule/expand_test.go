package schedule

import (
	"testing"

	"github.com/dukerupert/chorecheck/internal/model"
	"github.com/dukerupert/chorecheck/internal/week"
)

const monday = week.Date("2025-01-06")

func TestExpandWeekSingleDay(t *testing.T) {
	chores := []model.Chore{
		{ID: 1, KidID: 5, Name: "Trash", DaysOfWeek: "thursday", Active: true},
	}

	occs := ExpandWeek(chores, monday)
	if len(occs) != 1 {
		t.Fatalf("occurrences = %d, want 1", len(occs))
	}
	if occs[0].Date != "2025-01-09" {
		t.Errorf("date = %q, want %q", occs[0].Date, "2025-01-09")
	}
	if occs[0].ChoreID != 1 || occs[0].KidID != 5 {
		t.Errorf("occurrence = %+v", occs[0])
	}
}

func TestExpandWeekMultipleDays(t *testing.T) {
	chores := []model.Chore{
		{ID: 1, KidID: 5, Name: "Dishes", DaysOfWeek: "monday,wednesday,friday", Active: true},
	}

	occs := ExpandWeek(chores, monday)
	if len(occs) != 3 {
		t.Fatalf("occurrences = %d, want 3", len(occs))
	}
	want := []week.Date{"2025-01-06", "2025-01-08", "2025-01-10"}
	for i, w := range want {
		if occs[i].Date != w {
			t.Errorf("occs[%d].Date = %q, want %q", i, occs[i].Date, w)
		}
	}
}

func TestExpandWeekSkipsInactive(t *testing.T) {
	chores := []model.Chore{
		{ID: 1, KidID: 5, Name: "Dishes", DaysOfWeek: "monday", Active: false},
	}

	if occs := ExpandWeek(chores, monday); len(occs) != 0 {
		t.Errorf("occurrences = %d, want 0 for inactive chore", len(occs))
	}
}

func TestExpandWeekSkipsBadDayName(t *testing.T) {
	chores := []model.Chore{
		{ID: 1, KidID: 5, Name: "Dishes", DaysOfWeek: "monday,funday", Active: true},
	}

	occs := ExpandWeek(chores, monday)
	if len(occs) != 1 {
		t.Fatalf("occurrences = %d, want 1 (bad day skipped)", len(occs))
	}
	if occs[0].Date != "2025-01-06" {
		t.Errorf("date = %q, want %q", occs[0].Date, "2025-01-06")
	}
}

func TestExpandWeekSortedAcrossChores(t *testing.T) {
	chores := []model.Chore{
		{ID: 2, KidID: 5, Name: "Sweep", DaysOfWeek: "friday,monday", Active: true},
		{ID: 1, KidID: 5, Name: "Dishes", DaysOfWeek: "monday", Active: true},
	}

	occs := ExpandWeek(chores, monday)
	if len(occs) != 3 {
		t.Fatalf("occurrences = %d, want 3", len(occs))
	}
	if occs[0].ChoreID != 1 || occs[0].Date != "2025-01-06" {
		t.Errorf("occs[0] = %+v, want chore 1 on monday", occs[0])
	}
	if occs[1].ChoreID != 2 || occs[1].Date != "2025-01-06" {
		t.Errorf("occs[1] = %+v, want chore 2 on monday", occs[1])
	}
	if occs[2].ChoreID != 2 || occs[2].Date != "2025-01-10" {
		t.Errorf("occs[2] = %+v, want chore 2 on friday", occs[2])
	}
}
