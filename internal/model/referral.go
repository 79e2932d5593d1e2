package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Referral links a referred user to whoever invited them. At most one row
// exists per referred user; commission_amount only ever grows.
type Referral struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	ReferrerID       uuid.UUID       `json:"referrer_id" db:"referrer_id"`
	ReferredID       uuid.UUID       `json:"referred_id" db:"referred_id"`
	CommissionAmount decimal.Decimal `json:"commission_amount" db:"commission_amount"`
	RewardClaimed    bool            `json:"reward_claimed" db:"reward_claimed"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

type ReferralStats struct {
	TotalReferrals  int             `json:"total_referrals"`
	TotalCommission decimal.Decimal `json:"total_commission"`
}
