package agenda

import (
	"testing"
	"time"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

// Wednesday Jan 8 2025, mid-afternoon local.
func wednesdayAfternoon(t *testing.T) (time.Time, *time.Location) {
	t.Helper()
	loc := newYork(t)
	return time.Date(2025, 1, 8, 15, 0, 0, 0, loc), loc
}

func TestChoreStatusByDayPosition(t *testing.T) {
	now, loc := wednesdayAfternoon(t)
	chores := []ChoreInput{
		{OccurrenceID: 1, Name: "Trash", ScheduledDate: "2025-01-06"},  // Monday
		{OccurrenceID: 2, Name: "Dishes", ScheduledDate: "2025-01-08"}, // Wednesday
		{OccurrenceID: 3, Name: "Sweep", ScheduledDate: "2025-01-10"},  // Friday
	}

	items := Build(chores, nil, now, loc)
	byID := map[int64]Item{}
	for _, it := range items {
		byID[it.ID] = it
	}

	if got := byID[1].Status; got != StatusOverdue {
		t.Errorf("monday chore status = %q, want %q", got, StatusOverdue)
	}
	if got := byID[2].Status; got != StatusToday {
		t.Errorf("wednesday chore status = %q, want %q", got, StatusToday)
	}
	if got := byID[3].Status; got != StatusUpcoming {
		t.Errorf("friday chore status = %q, want %q", got, StatusUpcoming)
	}
}

func TestCompletedAndExcusedAlwaysCompleted(t *testing.T) {
	now, loc := wednesdayAfternoon(t)
	done := time.Date(2025, 1, 6, 18, 0, 0, 0, loc)
	chores := []ChoreInput{
		{OccurrenceID: 1, Name: "Trash", ScheduledDate: "2025-01-06", CompletedAt: &done},
		{OccurrenceID: 2, Name: "Dishes", ScheduledDate: "2025-01-06", Excused: true},
	}

	items := Build(chores, nil, now, loc)
	for _, it := range items {
		if it.Status != StatusCompleted {
			t.Errorf("item %d status = %q, want %q", it.ID, it.Status, StatusCompleted)
		}
	}
}

func TestTaskStatusUsesCalendarDates(t *testing.T) {
	loc := newYork(t)
	// 03:30 UTC Thursday is still Wednesday 10:30pm local, so a task due
	// Wednesday must still read as today.
	now := time.Date(2025, 1, 9, 3, 30, 0, 0, time.UTC)
	tasks := []TaskInput{
		{ID: 1, Title: "Book report", DueDate: "2025-01-08"},
		{ID: 2, Title: "Library book", DueDate: "2025-01-07"},
		{ID: 3, Title: "Bake sale form", DueDate: "2025-01-09"},
	}

	items := Build(nil, tasks, now, loc)
	byID := map[int64]Item{}
	for _, it := range items {
		byID[it.ID] = it
	}

	if got := byID[1].Status; got != StatusToday {
		t.Errorf("task due today status = %q, want %q", got, StatusToday)
	}
	if got := byID[2].Status; got != StatusOverdue {
		t.Errorf("past-due task status = %q, want %q", got, StatusOverdue)
	}
	if got := byID[3].Status; got != StatusUpcoming {
		t.Errorf("future task status = %q, want %q", got, StatusUpcoming)
	}
}

func TestCompletability(t *testing.T) {
	now, loc := wednesdayAfternoon(t)
	chores := []ChoreInput{
		{OccurrenceID: 1, Name: "Fixed Monday", ScheduledDate: "2025-01-06"},
		{OccurrenceID: 2, Name: "Fixed Wednesday", ScheduledDate: "2025-01-08"},
		{OccurrenceID: 3, Name: "Fixed Friday", ScheduledDate: "2025-01-10"},
		{OccurrenceID: 4, Name: "Flex Monday", ScheduledDate: "2025-01-06", Flexible: true},
		{OccurrenceID: 5, Name: "Flex Friday", ScheduledDate: "2025-01-10", Flexible: true},
	}

	items := Build(chores, nil, now, loc)
	want := map[int64]bool{1: false, 2: true, 3: false, 4: true, 5: false}
	for _, it := range items {
		if it.Completable != want[it.ID] {
			t.Errorf("item %d completable = %v, want %v", it.ID, it.Completable, want[it.ID])
		}
	}
}

func TestSortOrder(t *testing.T) {
	now, loc := wednesdayAfternoon(t)
	doneEarly := time.Date(2025, 1, 6, 9, 0, 0, 0, loc)
	doneLate := time.Date(2025, 1, 7, 19, 0, 0, 0, loc)

	chores := []ChoreInput{
		{OccurrenceID: 1, Name: "Dishes", ScheduledDate: "2025-01-08"},                           // fixed, today
		{OccurrenceID: 2, Name: "Vacuum", ScheduledDate: "2025-01-08", Flexible: true},          // flexible, today's slot
		{OccurrenceID: 3, Name: "Sweep", ScheduledDate: "2025-01-10"},                           // upcoming Friday
		{OccurrenceID: 4, Name: "Trash", ScheduledDate: "2025-01-06", CompletedAt: &doneEarly},  // completed Monday
		{OccurrenceID: 5, Name: "Laundry", ScheduledDate: "2025-01-07", CompletedAt: &doneLate}, // completed Tuesday
	}
	tasks := []TaskInput{
		{ID: 10, Title: "Book report", DueDate: "2025-01-08"}, // due today
		{ID: 11, Title: "Bake sale form", DueDate: "2025-01-10"},
	}

	items := Build(chores, tasks, now, loc)

	type key struct {
		typ string
		id  int64
	}
	var got []key
	for _, it := range items {
		got = append(got, key{it.Type, it.ID})
	}
	want := []key{
		{"task", 10},  // day 2, must-do-today, task before chore
		{"chore", 1},  // day 2, must-do-today fixed chore
		{"chore", 2},  // day 2, flexible
		{"task", 11},  // day 4, task before chore
		{"chore", 3},  // day 4
		{"chore", 5},  // completed, most recent first
		{"chore", 4},  // completed earlier
	}
	if len(got) != len(want) {
		t.Fatalf("items = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSortStableAfterCompletingOneItem(t *testing.T) {
	now, loc := wednesdayAfternoon(t)
	chores := []ChoreInput{
		{OccurrenceID: 1, Name: "Dishes", ScheduledDate: "2025-01-08"},
		{OccurrenceID: 2, Name: "Vacuum", ScheduledDate: "2025-01-08", Flexible: true},
		{OccurrenceID: 3, Name: "Sweep", ScheduledDate: "2025-01-10"},
		{OccurrenceID: 4, Name: "Mop", ScheduledDate: "2025-01-06", Flexible: true},
	}
	tasks := []TaskInput{
		{ID: 10, Title: "Book report", DueDate: "2025-01-08"},
		{ID: 11, Title: "Bake sale form", DueDate: "2025-01-10"},
	}

	before := Build(chores, tasks, now, loc)

	// Complete the vacuum chore and rebuild.
	done := now.Add(-time.Hour)
	chores[1].CompletedAt = &done
	after := Build(chores, tasks, now, loc)

	type key struct {
		typ string
		id  int64
	}
	remaining := func(items []Item) []key {
		var keys []key
		for _, it := range items {
			if it.Type == "chore" && it.ID == 2 {
				continue
			}
			keys = append(keys, key{it.Type, it.ID})
		}
		return keys
	}

	beforeKeys := remaining(before)
	afterKeys := remaining(after)
	if len(beforeKeys) != len(afterKeys) {
		t.Fatalf("remaining items: before %d, after %d", len(beforeKeys), len(afterKeys))
	}
	for i := range beforeKeys {
		if beforeKeys[i] != afterKeys[i] {
			t.Errorf("remaining order changed at %d: before %v, after %v", i, beforeKeys[i], afterKeys[i])
		}
	}
}
