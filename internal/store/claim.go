package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dukerupert/chorecheck/internal/model"
	"github.com/dukerupert/chorecheck/internal/week"
)

type ClaimStore struct {
	db *sql.DB
}

func NewClaimStore(db *sql.DB) *ClaimStore {
	return &ClaimStore{db: db}
}

func scanClaim(scanner interface{ Scan(...any) error }) (*model.IncentiveClaim, error) {
	var c model.IncentiveClaim
	var id string
	var dismissedAt sql.NullTime
	err := scanner.Scan(&id, &c.KidID, &c.KidName, &c.WeekStartDate, &c.RewardType, &c.ClaimedAt, &dismissedAt)
	if err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse claim id: %w", err)
	}
	c.ID = parsed
	if dismissedAt.Valid {
		t := dismissedAt.Time
		c.DismissedAt = &t
	}
	return &c, nil
}

const claimQuery = `
	SELECT cl.id, cl.kid_id, k.name, cl.week_start_date, cl.reward_type, cl.claimed_at, cl.dismissed_at
	FROM incentive_claims cl
	JOIN kids k ON k.id = cl.kid_id`

// GetForWeek returns the claim for the kid and week, or nil if none exists.
func (s *ClaimStore) GetForWeek(kidID int64, weekStart week.Date) (*model.IncentiveClaim, error) {
	row := s.db.QueryRow(claimQuery+` WHERE cl.kid_id = ? AND cl.week_start_date = ?`, kidID, string(weekStart))
	c, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get claim: %w", err)
	}
	return c, nil
}

func (s *ClaimStore) GetByID(id uuid.UUID) (*model.IncentiveClaim, error) {
	row := s.db.QueryRow(claimQuery+` WHERE cl.id = ?`, id.String())
	c, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get claim: %w", err)
	}
	return c, nil
}

// Create inserts a claim for the kid and week. The unique index on
// (kid_id, week_start_date) rejects a second claim for the same week.
func (s *ClaimStore) Create(kidID int64, weekStart week.Date, rewardType model.RewardType) (*model.IncentiveClaim, error) {
	id := uuid.New()
	_, err := s.db.Exec(
		`INSERT INTO incentive_claims (id, kid_id, week_start_date, reward_type) VALUES (?, ?, ?, ?)`,
		id.String(), kidID, string(weekStart), string(rewardType),
	)
	if err != nil {
		return nil, fmt.Errorf("insert claim: %w", err)
	}
	return s.GetByID(id)
}

// Dismiss marks the claim as seen by a parent.
func (s *ClaimStore) Dismiss(id uuid.UUID) (*model.IncentiveClaim, error) {
	_, err := s.db.Exec(
		`UPDATE incentive_claims SET dismissed_at = CURRENT_TIMESTAMP WHERE id = ?`, id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("dismiss claim: %w", err)
	}
	return s.GetByID(id)
}

// ListPending returns undismissed claims across all kids, newest first.
func (s *ClaimStore) ListPending() ([]model.IncentiveClaim, error) {
	rows, err := s.db.Query(claimQuery + ` WHERE cl.dismissed_at IS NULL ORDER BY cl.claimed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list pending claims: %w", err)
	}
	defer rows.Close()

	var claims []model.IncentiveClaim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, *c)
	}
	return claims, rows.Err()
}
