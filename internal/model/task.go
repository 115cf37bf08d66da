package model

import (
	"time"

	"github.com/dukerupert/chorecheck/internal/week"
)

// Task is a one-time obligation with a hard due date. Tasks have no
// fixed/flexible distinction; they are always due by DueDate.
type Task struct {
	ID          int64      `json:"id"`
	KidID       int64      `json:"kid_id"`
	Title       string     `json:"title"`
	DueDate     week.Date  `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	ExcusedAt   *time.Time `json:"excused_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
