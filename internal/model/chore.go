package model

import (
	"time"

	"github.com/dukerupert/chorecheck/internal/week"
)

// Chore is a weekly chore definition: which kid, which days, and whether the
// scheduled day is binding. A fixed chore must be done on its exact scheduled
// date; a flexible one may be done any day through the end of the work week.
type Chore struct {
	ID         int64     `json:"id"`
	KidID      int64     `json:"kid_id"`
	Name       string    `json:"name"`
	Flexible   bool      `json:"flexible"`
	DaysOfWeek string    `json:"days_of_week"` // comma-separated day names, e.g. "monday,thursday"
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ChoreOccurrence is one dated instance of a chore within a materialized week.
type ChoreOccurrence struct {
	ID            int64     `json:"id"`
	ChoreID       int64     `json:"chore_id"`
	KidID         int64     `json:"kid_id"`
	ScheduledDate week.Date `json:"scheduled_date"`
	CreatedAt     time.Time `json:"created_at"`
}

type ChoreCompletion struct {
	ID           int64     `json:"id"`
	OccurrenceID int64     `json:"occurrence_id"`
	CompletedAt  time.Time `json:"completed_at"`
	CompletedOn  week.Date `json:"completed_on"`
}

// ChoreExcuse waives an occurrence: an excused chore never disqualifies the
// week, whether it was missed or completed late.
type ChoreExcuse struct {
	ID           int64     `json:"id"`
	OccurrenceID int64     `json:"occurrence_id"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}
