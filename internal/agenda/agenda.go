// Package agenda derives per-item display status and a unified stable
// ordering for a kid's chores and tasks, for the parent and kid views.
package agenda

import (
	"sort"
	"time"

	"github.com/dukerupert/chorecheck/internal/week"
)

type Status string

const (
	StatusOverdue   Status = "overdue"
	StatusToday     Status = "today"
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
)

// ChoreInput is a chore occurrence as the agenda needs it.
type ChoreInput struct {
	OccurrenceID  int64
	Name          string
	Flexible      bool
	ScheduledDate week.Date
	CompletedAt   *time.Time
	Excused       bool
}

// TaskInput is a task as the agenda needs it.
type TaskInput struct {
	ID          int64
	Title       string
	DueDate     week.Date
	CompletedAt *time.Time
	Excused     bool
}

// Item is one display row of the combined agenda.
type Item struct {
	Type        string     `json:"type"` // "chore" or "task"
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Status      Status     `json:"status"`
	DueDate     week.Date  `json:"due_date"`
	DayPos      int        `json:"day_pos"` // 0=Monday .. 6=Sunday
	Flexible    bool       `json:"flexible"`
	Completable bool       `json:"completable"`
	MustDoToday bool       `json:"must_do_today"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (it Item) completed() bool { return it.Status == StatusCompleted }

// Build computes statuses and returns the combined, sorted agenda.
//
// Chore status compares day-of-week positions within the week; task status
// compares calendar dates, so a task due today reads as today until local
// midnight, not UTC midnight. Completability mirrors the qualification rules:
// a fixed chore only on its exact day, a flexible one any day at or before
// today. The sort is stable under completion flips — completing one item
// never reorders the remaining incomplete items relative to each other.
func Build(chores []ChoreInput, tasks []TaskInput, now time.Time, loc *time.Location) []Item {
	today := week.DateOf(now, loc)
	todayPos := week.DaysSinceMonday(week.DayOfWeek(now, loc))

	items := make([]Item, 0, len(chores)+len(tasks))

	for _, c := range chores {
		dayPos := week.DaysSinceMonday(week.DayOfWeekOfDate(c.ScheduledDate))
		it := Item{
			Type:        "chore",
			ID:          c.OccurrenceID,
			Name:        c.Name,
			DueDate:     c.ScheduledDate,
			DayPos:      dayPos,
			Flexible:    c.Flexible,
			CompletedAt: c.CompletedAt,
		}
		switch {
		case c.CompletedAt != nil || c.Excused:
			it.Status = StatusCompleted
		case dayPos < todayPos:
			it.Status = StatusOverdue
		case dayPos == todayPos:
			it.Status = StatusToday
		default:
			it.Status = StatusUpcoming
		}
		if c.Flexible {
			it.Completable = dayPos <= todayPos
		} else {
			it.Completable = dayPos == todayPos
		}
		it.MustDoToday = !c.Flexible && dayPos == todayPos
		items = append(items, it)
	}

	for _, t := range tasks {
		it := Item{
			Type:        "task",
			ID:          t.ID,
			Name:        t.Title,
			DueDate:     t.DueDate,
			DayPos:      week.DaysSinceMonday(week.DayOfWeekOfDate(t.DueDate)),
			Completable: true,
			CompletedAt: t.CompletedAt,
		}
		switch {
		case t.CompletedAt != nil || t.Excused:
			it.Status = StatusCompleted
		case t.DueDate.Before(today):
			it.Status = StatusOverdue
		case t.DueDate == today:
			it.Status = StatusToday
		default:
			it.Status = StatusUpcoming
		}
		it.MustDoToday = t.DueDate == today
		items = append(items, it)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
	return items
}

// less orders: incomplete before completed; completed by recency; incomplete
// by day position, must-do-today first within a day, tasks before chores,
// then name.
func less(a, b Item) bool {
	if a.completed() != b.completed() {
		return !a.completed()
	}
	if a.completed() {
		return completionTime(a).After(completionTime(b))
	}
	if a.DayPos != b.DayPos {
		return a.DayPos < b.DayPos
	}
	if a.MustDoToday != b.MustDoToday {
		return a.MustDoToday
	}
	if a.Type != b.Type {
		return a.Type == "task"
	}
	return a.Name < b.Name
}

func completionTime(it Item) time.Time {
	if it.CompletedAt == nil {
		return time.Time{}
	}
	return *it.CompletedAt
}
