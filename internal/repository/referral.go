package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/Otszy/Bear-App/internal/model"
)

var ErrReferralNotFound = errors.New("referral not found")

func (r *Repository) GetReferralByReferredID(ctx context.Context, referredID uuid.UUID) (*model.Referral, error) {
	var referral model.Referral
	err := r.db.GetContext(ctx, &referral, "SELECT * FROM referrals WHERE referred_id = $1", referredID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	return &referral, nil
}

func (r *Repository) CreateReferral(ctx context.Context, referral *model.Referral) error {
	query := `
		INSERT INTO referrals (referrer_id, referred_id, commission_amount, reward_claimed)
		VALUES ($1, $2, 0, FALSE)
		RETURNING id, commission_amount, created_at`

	return r.db.QueryRowContext(ctx, query,
		referral.ReferrerID,
		referral.ReferredID,
	).Scan(&referral.ID, &referral.CommissionAmount, &referral.CreatedAt)
}

func (r *Repository) GetReferralStats(ctx context.Context, referrerID uuid.UUID) (*model.ReferralStats, error) {
	stats := &model.ReferralStats{}

	err := r.db.GetContext(ctx, &stats.TotalReferrals,
		"SELECT COUNT(*) FROM referrals WHERE referrer_id = $1", referrerID)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &stats.TotalCommission,
		"SELECT COALESCE(SUM(commission_amount), 0) FROM referrals WHERE referrer_id = $1", referrerID)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
