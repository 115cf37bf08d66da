package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/chorecheck/internal/week"
)

type RewardType string

const (
	RewardScreenTime RewardType = "screen_time"
	RewardMoney      RewardType = "money"
)

// IncentiveClaim records a kid cashing in a qualified week. At most one claim
// exists per kid and week, enforced by a unique index in storage.
type IncentiveClaim struct {
	ID            uuid.UUID  `json:"id"`
	KidID         int64      `json:"kid_id"`
	KidName       string     `json:"kid_name"`
	WeekStartDate week.Date  `json:"week_start_date"`
	RewardType    RewardType `json:"reward_type"`
	ClaimedAt     time.Time  `json:"claimed_at"`
	DismissedAt   *time.Time `json:"dismissed_at"`
}
