package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Otszy/Bear-App/internal/config"
	"github.com/Otszy/Bear-App/internal/model"
	"github.com/Otszy/Bear-App/internal/repository"
)

type WithdrawalService struct {
	repo *repository.Repository
	log  zerolog.Logger
}

func NewWithdrawalService(repo *repository.Repository, log zerolog.Logger) *WithdrawalService {
	return &WithdrawalService{repo: repo, log: log}
}

// ValidateAmount enforces the hard payout ceilings: single withdrawals in
// [0.01, 100]. The daily ceiling is checked separately against the ledger.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThan(config.MinWithdrawalAmount) {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(config.MaxWithdrawalAmount) {
		return ErrAmountTooLarge
	}
	return nil
}

// RequestWithdrawal runs the full withdrawal admission pipeline and, on
// success, creates the pending withdrawal and deducts the balance in a
// single transaction. On a concurrent balance change it fails fast with
// repository.ErrConcurrentModification — no retry, no partial state.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, telegramID string, amount decimal.Decimal, method, accountInfo string) (*model.Withdrawal, decimal.Decimal, error) {
	zero := decimal.Zero
	now := time.Now()

	if err := ValidateAmount(amount); err != nil {
		return nil, zero, err
	}

	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, zero, ErrUserNotFound
		}
		return nil, zero, err
	}

	if user.Balance.LessThan(amount) {
		return nil, zero, ErrInsufficientBalance
	}

	recent, err := s.repo.HasRecentWithdrawal(ctx, user.ID, now.Add(-config.WithdrawalCooldown))
	if err != nil {
		return nil, zero, err
	}
	if recent {
		return nil, zero, ErrRateLimited
	}

	duplicate, err := s.repo.HasDuplicateWithdrawal(ctx, user.ID, amount, method, accountInfo, now.Add(-config.WithdrawalIdempotencyWindow))
	if err != nil {
		return nil, zero, err
	}
	if duplicate {
		return nil, zero, ErrDuplicateRequest
	}

	dayStart := now.UTC().Truncate(24 * time.Hour)
	todayTotal, err := s.repo.SumWithdrawals(ctx, user.ID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, zero, err
	}
	if todayTotal.Add(amount).GreaterThan(config.MaxDailyWithdrawal) {
		return nil, zero, ErrDailyLimitExceeded
	}

	withdrawal := &model.Withdrawal{
		UserID:      user.ID,
		Amount:      amount,
		Method:      method,
		AccountInfo: accountInfo,
	}
	newBalance, err := s.repo.CreateWithdrawal(ctx, withdrawal, user.Balance)
	if err != nil {
		return nil, zero, err
	}

	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("amount", amount.String()).
		Str("method", method).
		Msg("withdrawal requested")

	return withdrawal, newBalance, nil
}
