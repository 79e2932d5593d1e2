package config

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attempt quotas and cooldowns enforced by the task and withdrawal flows.
// All comparisons use server-observed time; client clocks are never trusted.
const (
	MaxTaskAttempts   = 10
	TaskAttemptWindow = 24 * time.Hour

	AdTaskCooldown     = 30 * time.Second
	FollowTaskCooldown = 60 * time.Second
	WithdrawalCooldown = 5 * time.Minute

	WithdrawalIdempotencyWindow = time.Minute
)

// Reward economics. Ad task rewards come from the task registry so they can
// be tuned server-side; the rest are fixed.
var (
	FollowTaskReward = decimal.RequireFromString("0.01")

	ReferralCommissionRate = decimal.RequireFromString("0.1")

	MinWithdrawalAmount = decimal.RequireFromString("0.01")
	MaxWithdrawalAmount = decimal.NewFromInt(100)
	MaxDailyWithdrawal  = decimal.NewFromInt(100)
)
