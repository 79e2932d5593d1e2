package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HasRecentWithdrawal reports whether any withdrawal exists for the user on
// or after the cutoff, regardless of status.
func (r *Repository) HasRecentWithdrawal(ctx context.Context, userID uuid.UUID, since time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM withdrawals WHERE user_id = $1 AND created_at >= $2
		)`
	err := r.db.GetContext(ctx, &exists, query, userID, since)
	return exists, err
}

// HasDuplicateWithdrawal reports whether an identical request already landed
// within the idempotency window.
func (r *Repository) HasDuplicateWithdrawal(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, method, accountInfo string, since time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM withdrawals
			WHERE user_id = $1 AND amount = $2 AND method = $3 AND account_info = $4 AND created_at >= $5
		)`
	err := r.db.GetContext(ctx, &exists, query, userID, amount, method, accountInfo, since)
	return exists, err
}

// SumWithdrawals totals all withdrawal amounts for the user in [from, to).
func (r *Repository) SumWithdrawals(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `
		SELECT COALESCE(SUM(amount), 0) FROM withdrawals
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`
	err := r.db.GetContext(ctx, &total, query, userID, from, to)
	return total, err
}
