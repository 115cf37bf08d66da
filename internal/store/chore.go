package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/chorecheck/internal/agenda"
	"github.com/dukerupert/chorecheck/internal/model"
	"github.com/dukerupert/chorecheck/internal/qualification"
	"github.com/dukerupert/chorecheck/internal/schedule"
	"github.com/dukerupert/chorecheck/internal/week"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

// --- Definition methods ---

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	err := scanner.Scan(
		&c.ID, &c.KidID, &c.Name, &c.Flexible, &c.DaysOfWeek, &c.Active,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const choreCols = `id, kid_id, name, flexible, days_of_week, active, created_at, updated_at`

func (s *ChoreStore) Create(kidID int64, name string, flexible bool, daysOfWeek string) (*model.Chore, error) {
	result, err := s.db.Exec(
		`INSERT INTO chores (kid_id, name, flexible, days_of_week) VALUES (?, ?, ?, ?)`,
		kidID, name, flexible, daysOfWeek,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChoreStore) GetByID(id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) ListByKid(kidID int64) ([]model.Chore, error) {
	rows, err := s.db.Query(
		`SELECT `+choreCols+` FROM chores WHERE kid_id = ? ORDER BY name ASC`,
		kidID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

func (s *ChoreStore) Update(id int64, name string, flexible bool, daysOfWeek string, active bool) (*model.Chore, error) {
	_, err := s.db.Exec(
		`UPDATE chores SET name = ?, flexible = ?, days_of_week = ?, active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, flexible, daysOfWeek, active, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChoreStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}

// --- Occurrence methods ---

// EnsureWeek materializes occurrences for the kid's active chores in the week
// starting at monday. Already-materialized occurrences are left alone, so the
// call is idempotent and safe on every page load.
func (s *ChoreStore) EnsureWeek(kidID int64, monday week.Date) error {
	chores, err := s.ListByKid(kidID)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, occ := range schedule.ExpandWeek(chores, monday) {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO chore_occurrences (chore_id, kid_id, scheduled_date) VALUES (?, ?, ?)`,
			occ.ChoreID, occ.KidID, string(occ.Date),
		)
		if err != nil {
			return fmt.Errorf("insert occurrence: %w", err)
		}
	}
	return tx.Commit()
}

func (s *ChoreStore) GetOccurrence(id int64) (*model.ChoreOccurrence, error) {
	row := s.db.QueryRow(
		`SELECT id, chore_id, kid_id, scheduled_date, created_at FROM chore_occurrences WHERE id = ?`, id,
	)
	var o model.ChoreOccurrence
	err := row.Scan(&o.ID, &o.ChoreID, &o.KidID, &o.ScheduledDate, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get occurrence: %w", err)
	}
	return &o, nil
}

// Complete records a completion for the occurrence. completedOn is the local
// calendar date of the completion instant; lateness is derived from it at
// snapshot time, never stored.
func (s *ChoreStore) Complete(occurrenceID int64, completedAt time.Time, completedOn week.Date) (*model.ChoreCompletion, error) {
	result, err := s.db.Exec(
		`INSERT INTO chore_completions (occurrence_id, completed_at, completed_on) VALUES (?, ?, ?)`,
		occurrenceID, completedAt.UTC(), string(completedOn),
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(
		`SELECT id, occurrence_id, completed_at, completed_on FROM chore_completions WHERE id = ?`, id,
	)
	var c model.ChoreCompletion
	if err := row.Scan(&c.ID, &c.OccurrenceID, &c.CompletedAt, &c.CompletedOn); err != nil {
		return nil, fmt.Errorf("scan completion: %w", err)
	}
	return &c, nil
}

func (s *ChoreStore) UndoComplete(occurrenceID int64) error {
	_, err := s.db.Exec(`DELETE FROM chore_completions WHERE occurrence_id = ?`, occurrenceID)
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}

// Excuse waives the occurrence. Excusing twice is a no-op.
func (s *ChoreStore) Excuse(occurrenceID int64, reason string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO chore_excuses (occurrence_id, reason) VALUES (?, ?)`,
		occurrenceID, reason,
	)
	if err != nil {
		return fmt.Errorf("insert excuse: %w", err)
	}
	return nil
}

func (s *ChoreStore) Unexcuse(occurrenceID int64) error {
	_, err := s.db.Exec(`DELETE FROM chore_excuses WHERE occurrence_id = ?`, occurrenceID)
	if err != nil {
		return fmt.Errorf("delete excuse: %w", err)
	}
	return nil
}

// --- Week snapshot ---

// ChoreWeekRow is one occurrence joined with its chore definition, completion,
// and excuse, as fetched for a week under evaluation.
type ChoreWeekRow struct {
	OccurrenceID  int64
	ChoreID       int64
	Name          string
	Flexible      bool
	ScheduledDate week.Date
	CompletionID  *int64
	CompletedAt   *time.Time
	CompletedOn   *week.Date
	Excused       bool
}

// QualificationRow converts the snapshot row to the qualification engine's
// input shape. Lateness only ever applies to fixed chores.
func (r ChoreWeekRow) QualificationRow() qualification.ChoreRow {
	late := !r.Flexible && r.CompletedOn != nil && r.CompletedOn.After(r.ScheduledDate)
	return qualification.ChoreRow{
		OccurrenceID:   r.OccurrenceID,
		ChoreName:      r.Name,
		Flexible:       r.Flexible,
		ScheduledDate:  r.ScheduledDate,
		CompletionID:   r.CompletionID,
		Excused:        r.Excused,
		LateCompletion: late,
	}
}

// AgendaInput converts the snapshot row to the agenda engine's input shape.
func (r ChoreWeekRow) AgendaInput() agenda.ChoreInput {
	return agenda.ChoreInput{
		OccurrenceID:  r.OccurrenceID,
		Name:          r.Name,
		Flexible:      r.Flexible,
		ScheduledDate: r.ScheduledDate,
		CompletedAt:   r.CompletedAt,
		Excused:       r.Excused,
	}
}

// WeekSnapshot fetches the kid's occurrences scheduled in [monday, friday],
// each joined with completion and excuse state.
func (s *ChoreStore) WeekSnapshot(kidID int64, monday, friday week.Date) ([]ChoreWeekRow, error) {
	rows, err := s.db.Query(`
		SELECT o.id, c.id, c.name, c.flexible, o.scheduled_date,
		       comp.id, comp.completed_at, comp.completed_on,
		       ex.id IS NOT NULL
		FROM chore_occurrences o
		JOIN chores c ON c.id = o.chore_id
		LEFT JOIN chore_completions comp ON comp.occurrence_id = o.id
		LEFT JOIN chore_excuses ex ON ex.occurrence_id = o.id
		WHERE o.kid_id = ? AND o.scheduled_date >= ? AND o.scheduled_date <= ?
		ORDER BY o.scheduled_date ASC, c.name ASC`,
		kidID, string(monday), string(friday),
	)
	if err != nil {
		return nil, fmt.Errorf("week snapshot: %w", err)
	}
	defer rows.Close()

	var snapshot []ChoreWeekRow
	for rows.Next() {
		var r ChoreWeekRow
		var completionID sql.NullInt64
		var completedAt sql.NullTime
		var completedOn sql.NullString
		err := rows.Scan(
			&r.OccurrenceID, &r.ChoreID, &r.Name, &r.Flexible, &r.ScheduledDate,
			&completionID, &completedAt, &completedOn, &r.Excused,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		if completionID.Valid {
			r.CompletionID = &completionID.Int64
		}
		if completedAt.Valid {
			t := completedAt.Time
			r.CompletedAt = &t
		}
		if completedOn.Valid {
			d := week.Date(completedOn.String)
			r.CompletedOn = &d
		}
		snapshot = append(snapshot, r)
	}
	return snapshot, rows.Err()
}
