package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TaskType string

const (
	TaskTypeAd     TaskType = "ad"
	TaskTypeFollow TaskType = "follow"
)

// Task is a registry entry for a repeatable ad task. Rewards live here so
// they can be changed without a client release.
type Task struct {
	ID           string          `json:"id" db:"id"`
	TaskType     TaskType        `json:"task_type" db:"task_type"`
	Title        string          `json:"title" db:"title"`
	URL          string          `json:"url" db:"url"`
	RewardAmount decimal.Decimal `json:"reward_amount" db:"reward_amount"`
	IsActive     bool            `json:"is_active" db:"is_active"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// TaskAttempt tracks the rolling quota for one (user, task) pair. The counter
// is bounded by MaxTaskAttempts until reset_at passes, after which the next
// attempt starts a fresh window at 1.
type TaskAttempt struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	TaskType      TaskType  `json:"task_type" db:"task_type"`
	TaskID        string    `json:"task_id" db:"task_id"`
	AttemptsCount int       `json:"attempts_count" db:"attempts_count"`
	LastAttemptAt time.Time `json:"last_attempt_at" db:"last_attempt_at"`
	ResetAt       time.Time `json:"reset_at" db:"reset_at"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// UserTask is a one-shot task completion record (e.g. channel follow).
// The completed flag only ever moves false -> true.
type UserTask struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	TaskType      TaskType   `json:"task_type" db:"task_type"`
	TaskID        string     `json:"task_id" db:"task_id"`
	Completed     bool       `json:"completed" db:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	RewardClaimed bool       `json:"reward_claimed" db:"reward_claimed"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
