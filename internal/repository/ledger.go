package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Otszy/Bear-App/internal/model"
)

// ErrConcurrentModification is returned when a conditional balance update
// matched zero rows: the balance moved between read and write. Callers fail
// fast; there is no automatic retry.
var ErrConcurrentModification = errors.New("balance modified concurrently")

// creditBalance applies a delta conditioned on the balance still holding the
// value the caller read, and records the audit row. Runs inside the caller's
// transaction so the whole operation is all-or-nothing.
func creditBalance(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, expected, delta decimal.Decimal, txType model.TransactionType, description string, referenceID *uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE users SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2 AND balance = $3`,
		delta, userID, expected)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrConcurrentModification
	}

	var desc *string
	if description != "" {
		desc = &description
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO balance_transactions (user_id, amount, type, description, reference_id, balance_before, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID, delta, txType, desc, referenceID, expected, expected.Add(delta))
	if err != nil {
		return fmt.Errorf("failed to create transaction record: %w", err)
	}
	return nil
}

// CompleteAdTask records an ad task attempt and credits the reward as one
// atomic operation: the attempt counter, the balance and the audit row either
// all land or none do. A fresh quota window starts when reset_at has passed.
func (r *Repository) CompleteAdTask(ctx context.Context, userID uuid.UUID, taskType model.TaskType, taskID string, reward, expectedBalance decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	zero := decimal.Zero

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return zero, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO task_attempts (user_id, task_type, task_id, attempts_count, last_attempt_at, reset_at)
		VALUES ($1, $2, $3, 1, $4, $5)
		ON CONFLICT (user_id, task_type, task_id) DO UPDATE SET
			attempts_count = CASE
				WHEN task_attempts.reset_at < $4 THEN 1
				ELSE task_attempts.attempts_count + 1
			END,
			reset_at = CASE
				WHEN task_attempts.reset_at < $4 THEN $5
				ELSE task_attempts.reset_at
			END,
			last_attempt_at = $4`,
		userID, taskType, taskID, now, now.Add(24*time.Hour))
	if err != nil {
		return zero, fmt.Errorf("failed to record attempt: %w", err)
	}

	description := fmt.Sprintf("Ad task reward: %s (+%s)", taskID, reward.String())
	if err := creditBalance(ctx, tx, userID, expectedBalance, reward, model.TransactionTypeAdReward, description, nil); err != nil {
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, err
	}
	return expectedBalance.Add(reward), nil
}

// CompleteFollowTask marks a one-shot task completed and credits its reward
// atomically. The completed flag is monotonic: once true it stays true.
func (r *Repository) CompleteFollowTask(ctx context.Context, userID uuid.UUID, taskType model.TaskType, taskID string, reward, expectedBalance decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	zero := decimal.Zero

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return zero, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_tasks (user_id, task_type, task_id, completed, completed_at, reward_claimed)
		VALUES ($1, $2, $3, TRUE, $4, TRUE)
		ON CONFLICT (user_id, task_type, task_id) DO UPDATE SET
			completed = TRUE,
			completed_at = COALESCE(user_tasks.completed_at, $4),
			reward_claimed = TRUE`,
		userID, taskType, taskID, now)
	if err != nil {
		return zero, fmt.Errorf("failed to mark task completed: %w", err)
	}

	description := fmt.Sprintf("Follow task reward: %s (+%s)", taskID, reward.String())
	if err := creditBalance(ctx, tx, userID, expectedBalance, reward, model.TransactionTypeFollowReward, description, nil); err != nil {
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, err
	}
	return expectedBalance.Add(reward), nil
}

// CreateWithdrawal inserts the pending withdrawal and deducts the balance in
// one transaction, closing the orphan-record window a two-step
// insert-then-compensate flow would leave open.
func (r *Repository) CreateWithdrawal(ctx context.Context, withdrawal *model.Withdrawal, expectedBalance decimal.Decimal) (decimal.Decimal, error) {
	zero := decimal.Zero

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return zero, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO withdrawals (user_id, amount, method, account_info, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		withdrawal.UserID,
		withdrawal.Amount,
		withdrawal.Method,
		withdrawal.AccountInfo,
		model.WithdrawalStatusPending,
	).Scan(&withdrawal.ID, &withdrawal.CreatedAt, &withdrawal.UpdatedAt)
	if err != nil {
		return zero, fmt.Errorf("failed to create withdrawal: %w", err)
	}
	withdrawal.Status = model.WithdrawalStatusPending

	description := fmt.Sprintf("Withdrawal via %s (-%s)", withdrawal.Method, withdrawal.Amount.String())
	err = creditBalance(ctx, tx, withdrawal.UserID, expectedBalance, withdrawal.Amount.Neg(), model.TransactionTypeWithdrawal, description, &withdrawal.ID)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, err
	}
	return expectedBalance.Sub(withdrawal.Amount), nil
}

// CreditCommission adds a referral commission to the referrer's balance and
// to the referral's running total. The caller treats failures as best-effort:
// they are logged, never rolled into the referred user's own reward.
func (r *Repository) CreditCommission(ctx context.Context, referralID, referrerID uuid.UUID, referrerBalance, commission decimal.Decimal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE referrals SET commission_amount = commission_amount + $1 WHERE id = $2`,
		commission, referralID)
	if err != nil {
		return fmt.Errorf("failed to update referral commission: %w", err)
	}

	description := fmt.Sprintf("Referral commission (+%s)", commission.String())
	err = creditBalance(ctx, tx, referrerID, referrerBalance, commission, model.TransactionTypeReferralCommission, description, &referralID)
	if err != nil {
		return err
	}

	return tx.Commit()
}
