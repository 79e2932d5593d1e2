package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeAdReward           TransactionType = "ad_reward"
	TransactionTypeFollowReward       TransactionType = "follow_reward"
	TransactionTypeReferralCommission TransactionType = "referral_commission"
	TransactionTypeWithdrawal         TransactionType = "withdrawal"
)

// BalanceTransaction is the append-only audit trail behind every balance
// mutation. The sum of amounts for a user must always explain the distance
// between the current balance and zero.
type BalanceTransaction struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"` // positive = credit, negative = debit
	Type          TransactionType `json:"type" db:"type"`
	Description   *string         `json:"description,omitempty" db:"description"`
	ReferenceID   *uuid.UUID      `json:"reference_id,omitempty" db:"reference_id"`
	BalanceBefore decimal.Decimal `json:"balance_before" db:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after" db:"balance_after"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
