package store

import (
	"testing"
	"time"

	"github.com/dukerupert/chorecheck/internal/database"
	"github.com/dukerupert/chorecheck/internal/week"
)

const testMonday = week.Date("2025-01-06")

func setupTestDB(t *testing.T) (*KidStore, *ChoreStore, *TaskStore, *ClaimStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewKidStore(db), NewChoreStore(db), NewTaskStore(db), NewClaimStore(db)
}

func TestChoreCRUD(t *testing.T) {
	ks, cs, _, _ := setupTestDB(t)

	kid, err := ks.Create("Milo", "#ff8800", "🦊", 0)
	if err != nil {
		t.Fatalf("create kid: %v", err)
	}

	chore, err := cs.Create(kid.ID, "Feed the dog", false, "monday,thursday")
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if chore.Name != "Feed the dog" {
		t.Errorf("name = %q, want %q", chore.Name, "Feed the dog")
	}
	if chore.Flexible {
		t.Error("chore should be fixed")
	}
	if !chore.Active {
		t.Error("new chore should be active")
	}

	updated, err := cs.Update(chore.ID, "Feed the dog", true, "monday", false)
	if err != nil {
		t.Fatalf("update chore: %v", err)
	}
	if !updated.Flexible {
		t.Error("chore should be flexible after update")
	}
	if updated.Active {
		t.Error("chore should be inactive after update")
	}

	if err := cs.Delete(chore.ID); err != nil {
		t.Fatalf("delete chore: %v", err)
	}
	got, err := cs.GetByID(chore.ID)
	if err != nil {
		t.Fatalf("get deleted chore: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted chore")
	}
}

func TestEnsureWeekIdempotent(t *testing.T) {
	ks, cs, _, _ := setupTestDB(t)

	kid, _ := ks.Create("Milo", "", "", 0)
	if _, err := cs.Create(kid.ID, "Dishes", false, "monday,wednesday,friday"); err != nil {
		t.Fatalf("create chore: %v", err)
	}

	if err := cs.EnsureWeek(kid.ID, testMonday); err != nil {
		t.Fatalf("ensure week: %v", err)
	}
	if err := cs.EnsureWeek(kid.ID, testMonday); err != nil {
		t.Fatalf("ensure week again: %v", err)
	}

	snapshot, err := cs.WeekSnapshot(kid.ID, testMonday, week.FridayOf(testMonday))
	if err != nil {
		t.Fatalf("week snapshot: %v", err)
	}
	if len(snapshot) != 3 {
		t.Errorf("snapshot rows = %d, want 3 (no duplicates)", len(snapshot))
	}
}

func TestWeekSnapshotCompletionAndLateness(t *testing.T) {
	ks, cs, _, _ := setupTestDB(t)

	kid, _ := ks.Create("Milo", "", "", 0)
	fixed, _ := cs.Create(kid.ID, "Feed the dog", false, "monday")
	flex, _ := cs.Create(kid.ID, "Vacuum room", true, "monday")
	if err := cs.EnsureWeek(kid.ID, testMonday); err != nil {
		t.Fatalf("ensure week: %v", err)
	}

	snapshot, err := cs.WeekSnapshot(kid.ID, testMonday, week.FridayOf(testMonday))
	if err != nil {
		t.Fatalf("week snapshot: %v", err)
	}
	if len(snapshot) != 2 {
		t.Fatalf("snapshot rows = %d, want 2", len(snapshot))
	}

	byChore := map[int64]ChoreWeekRow{}
	for _, r := range snapshot {
		byChore[r.ChoreID] = r
	}

	// Complete both on Wednesday, two days after the Monday slot.
	completedAt := time.Date(2025, 1, 8, 17, 0, 0, 0, time.UTC)
	for _, r := range snapshot {
		if _, err := cs.Complete(r.OccurrenceID, completedAt, "2025-01-08"); err != nil {
			t.Fatalf("complete occurrence: %v", err)
		}
	}

	snapshot, err = cs.WeekSnapshot(kid.ID, testMonday, week.FridayOf(testMonday))
	if err != nil {
		t.Fatalf("week snapshot after completion: %v", err)
	}
	for _, r := range snapshot {
		if r.CompletionID == nil {
			t.Fatalf("chore %d has no completion", r.ChoreID)
		}
		q := r.QualificationRow()
		switch r.ChoreID {
		case fixed.ID:
			if !q.LateCompletion {
				t.Error("fixed chore completed after its day should be late")
			}
		case flex.ID:
			if q.LateCompletion {
				t.Error("flexible chore is never late")
			}
		}
	}
}

func TestWeekSnapshotExcuse(t *testing.T) {
	ks, cs, _, _ := setupTestDB(t)

	kid, _ := ks.Create("Milo", "", "", 0)
	if _, err := cs.Create(kid.ID, "Feed the dog", false, "monday"); err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if err := cs.EnsureWeek(kid.ID, testMonday); err != nil {
		t.Fatalf("ensure week: %v", err)
	}

	snapshot, _ := cs.WeekSnapshot(kid.ID, testMonday, week.FridayOf(testMonday))
	if len(snapshot) != 1 {
		t.Fatalf("snapshot rows = %d, want 1", len(snapshot))
	}
	occID := snapshot[0].OccurrenceID

	if err := cs.Excuse(occID, "sick day"); err != nil {
		t.Fatalf("excuse: %v", err)
	}
	// Second excuse is a no-op, not an error.
	if err := cs.Excuse(occID, "sick day again"); err != nil {
		t.Fatalf("second excuse: %v", err)
	}

	snapshot, _ = cs.WeekSnapshot(kid.ID, testMonday, week.FridayOf(testMonday))
	if !snapshot[0].Excused {
		t.Error("occurrence should be excused")
	}

	if err := cs.Unexcuse(occID); err != nil {
		t.Fatalf("unexcuse: %v", err)
	}
	snapshot, _ = cs.WeekSnapshot(kid.ID, testMonday, week.FridayOf(testMonday))
	if snapshot[0].Excused {
		t.Error("occurrence should no longer be excused")
	}
}

func TestWeekSnapshotScopedToKidAndWeek(t *testing.T) {
	ks, cs, _, _ := setupTestDB(t)

	milo, _ := ks.Create("Milo", "", "", 0)
	june, _ := ks.Create("June", "", "", 1)
	if _, err := cs.Create(milo.ID, "Dishes", false, "monday"); err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if _, err := cs.Create(june.ID, "Trash", false, "monday"); err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if err := cs.EnsureWeek(milo.ID, testMonday); err != nil {
		t.Fatalf("ensure week: %v", err)
	}
	if err := cs.EnsureWeek(june.ID, testMonday); err != nil {
		t.Fatalf("ensure week: %v", err)
	}
	// Materialize the next week for Milo too; it must not leak in.
	if err := cs.EnsureWeek(milo.ID, "2025-01-13"); err != nil {
		t.Fatalf("ensure next week: %v", err)
	}

	snapshot, err := cs.WeekSnapshot(milo.ID, testMonday, week.FridayOf(testMonday))
	if err != nil {
		t.Fatalf("week snapshot: %v", err)
	}
	if len(snapshot) != 1 {
		t.Errorf("snapshot rows = %d, want 1", len(snapshot))
	}
}
