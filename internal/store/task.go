package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/chorecheck/internal/agenda"
	"github.com/dukerupert/chorecheck/internal/model"
	"github.com/dukerupert/chorecheck/internal/qualification"
	"github.com/dukerupert/chorecheck/internal/week"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var completedAt, excusedAt sql.NullTime
	err := scanner.Scan(
		&t.ID, &t.KidID, &t.Title, &t.DueDate, &completedAt, &excusedAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		v := completedAt.Time
		t.CompletedAt = &v
	}
	if excusedAt.Valid {
		v := excusedAt.Time
		t.ExcusedAt = &v
	}
	return &t, nil
}

const taskCols = `id, kid_id, title, due_date, completed_at, excused_at, created_at, updated_at`

func (s *TaskStore) Create(kidID int64, title string, dueDate week.Date) (*model.Task, error) {
	result, err := s.db.Exec(
		`INSERT INTO tasks (kid_id, title, due_date) VALUES (?, ?, ?)`,
		kidID, title, string(dueDate),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) ListByKid(kidID int64) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE kid_id = ? ORDER BY due_date ASC, title ASC`,
		kidID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// ListForWeek fetches the kid's tasks due within [monday, friday].
func (s *TaskStore) ListForWeek(kidID int64, monday, friday week.Date) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE kid_id = ? AND due_date >= ? AND due_date <= ? ORDER BY due_date ASC, title ASC`,
		kidID, string(monday), string(friday),
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks for week: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Update(id int64, title string, dueDate week.Date) (*model.Task, error) {
	_, err := s.db.Exec(
		`UPDATE tasks SET title = ?, due_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, string(dueDate), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *TaskStore) Complete(id int64, completedAt time.Time) (*model.Task, error) {
	_, err := s.db.Exec(
		`UPDATE tasks SET completed_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		completedAt.UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) Uncomplete(id int64) (*model.Task, error) {
	_, err := s.db.Exec(
		`UPDATE tasks SET completed_at = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("uncomplete task: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) Excuse(id int64, excusedAt time.Time) (*model.Task, error) {
	_, err := s.db.Exec(
		`UPDATE tasks SET excused_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		excusedAt.UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("excuse task: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) Unexcuse(id int64) (*model.Task, error) {
	_, err := s.db.Exec(
		`UPDATE tasks SET excused_at = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("unexcuse task: %w", err)
	}
	return s.GetByID(id)
}

// QualificationRow converts a task to the qualification engine's input shape.
func QualificationRow(t model.Task) qualification.TaskRow {
	return qualification.TaskRow{
		ID:          t.ID,
		Title:       t.Title,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		ExcusedAt:   t.ExcusedAt,
	}
}

// AgendaInput converts a task to the agenda engine's input shape.
func AgendaInput(t model.Task) agenda.TaskInput {
	return agenda.TaskInput{
		ID:          t.ID,
		Title:       t.Title,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		Excused:     t.ExcusedAt != nil,
	}
}
