// Package qualification decides whether a kid's week earns the incentive.
//
// The evaluation is a pure function over a snapshot of the week's chore and
// task rows. It does no timezone math of its own: callers bucket everything
// into calendar dates first (see the week package) and the engine compares
// those dates directly. Re-evaluating the same snapshot always yields the same
// answer, which is what lets an excuse retroactively undo a disqualification.
package qualification

import (
	"time"

	"github.com/dukerupert/chorecheck/internal/model"
	"github.com/dukerupert/chorecheck/internal/week"
)

// ChoreRow is one scheduled chore occurrence as fetched for the week under
// evaluation.
type ChoreRow struct {
	OccurrenceID   int64
	ChoreName      string
	Flexible       bool
	ScheduledDate  week.Date
	CompletionID   *int64
	Excused        bool
	LateCompletion bool
}

// TaskRow is one task due within (or overdue into) the week under evaluation.
type TaskRow struct {
	ID          int64
	Title       string
	DueDate     week.Date
	CompletedAt *time.Time
	ExcusedAt   *time.Time
}

// MissedItem identifies a chore or task that cost the kid the week.
type MissedItem struct {
	Type          string    `json:"type"` // "chore" or "task"
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ScheduledDate week.Date `json:"scheduled_date"`
	KidName       string    `json:"kid_name"`
}

// Status is the outcome of evaluating one kid's week. Exactly one of
// Qualified, Disqualified, and InProgress is true.
type Status struct {
	Qualified    bool                  `json:"qualified"`
	Disqualified bool                  `json:"disqualified"`
	InProgress   bool                  `json:"in_progress"`
	MissedItems  []MissedItem          `json:"missed_items"`
	Claim        *model.IncentiveClaim `json:"claim,omitempty"`
}

func (r ChoreRow) done() bool { return r.CompletionID != nil }

func (r TaskRow) done() bool { return r.CompletedAt != nil }

func (r TaskRow) excused() bool { return r.ExcusedAt != nil }

// Evaluate computes the qualification status for one kid's week.
//
// Disqualification is sticky: a single missed or late fixed obligation loses
// the whole week no matter how much else got done. Flexible chores get grace
// until friday — before then their incompleteness neither qualifies nor
// disqualifies, and they are never flagged late regardless of which day they
// were done on. An excuse suppresses both the missed and the late path for its
// item. An empty week is vacuously qualified.
//
// The caller restricts chores and tasks to the target kid and the target
// Monday-to-Friday window; any existing claim is passed through unchanged.
func Evaluate(kidName string, chores []ChoreRow, tasks []TaskRow, today, friday week.Date, claim *model.IncentiveClaim) Status {
	var missed []MissedItem
	disqualified := false

	record := func(item MissedItem) {
		disqualified = true
		missed = append(missed, item)
	}

	for _, c := range chores {
		if c.Flexible || c.Excused {
			continue
		}
		missedDay := c.ScheduledDate.Before(today) && !c.done()
		if missedDay || c.LateCompletion {
			record(MissedItem{
				Type:          "chore",
				ID:            c.OccurrenceID,
				Name:          c.ChoreName,
				ScheduledDate: c.ScheduledDate,
				KidName:       kidName,
			})
		}
	}

	// Flexible chores only come due at the end of the work week.
	if !today.Before(friday) {
		for _, c := range chores {
			if !c.Flexible || c.Excused || c.done() {
				continue
			}
			record(MissedItem{
				Type:          "chore",
				ID:            c.OccurrenceID,
				Name:          c.ChoreName,
				ScheduledDate: c.ScheduledDate,
				KidName:       kidName,
			})
		}
	}

	for _, t := range tasks {
		if t.done() || t.excused() {
			continue
		}
		if t.DueDate.Before(today) {
			record(MissedItem{
				Type:          "task",
				ID:            t.ID,
				Name:          t.Title,
				ScheduledDate: t.DueDate,
				KidName:       kidName,
			})
		}
	}

	allChoresComplete := true
	for _, c := range chores {
		if !c.done() && !c.Excused {
			allChoresComplete = false
			break
		}
	}
	allTasksComplete := true
	for _, t := range tasks {
		if !t.done() && !t.excused() {
			allTasksComplete = false
			break
		}
	}

	qualified := !disqualified && allChoresComplete && allTasksComplete

	return Status{
		Qualified:    qualified,
		Disqualified: disqualified,
		InProgress:   !disqualified && !qualified,
		MissedItems:  missed,
		Claim:        claim,
	}
}
