package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Otszy/Bear-App/internal/config"
	"github.com/Otszy/Bear-App/internal/model"
	"github.com/Otszy/Bear-App/internal/repository"
)

const referralParamPrefix = "ref_"

type ReferralService struct {
	repo *repository.Repository
}

func NewReferralService(repo *repository.Repository) *ReferralService {
	return &ReferralService{repo: repo}
}

// ParseReferralParam extracts the referrer's Telegram id from a /start
// payload of the form "ref_<telegramID>". Empty result means no referral.
func ParseReferralParam(param string) string {
	if !strings.HasPrefix(param, referralParamPrefix) {
		return ""
	}
	return strings.TrimPrefix(param, referralParamPrefix)
}

// Attribute links a freshly created user to the referrer named by the start
// parameter. It is called at most once per user, at first-contact time.
// Self-references and unknown referrers attribute nothing; a second
// attribution attempt fails with ErrReferralExists.
func (s *ReferralService) Attribute(ctx context.Context, referred *model.User, referrerTelegramID string) (*model.Referral, *model.User, error) {
	if referrerTelegramID == referred.TelegramID {
		return nil, nil, ErrSelfReferral
	}

	referrer, err := s.repo.GetUserByTelegramID(ctx, referrerTelegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	if _, err := s.repo.GetReferralByReferredID(ctx, referred.ID); err == nil {
		return nil, nil, ErrReferralExists
	} else if !errors.Is(err, repository.ErrReferralNotFound) {
		return nil, nil, err
	}

	referral := &model.Referral{
		ReferrerID: referrer.ID,
		ReferredID: referred.ID,
	}
	if err := s.repo.CreateReferral(ctx, referral); err != nil {
		return nil, nil, err
	}

	return referral, referrer, nil
}

// Commission computes the referrer's cut of a reward.
func Commission(reward decimal.Decimal) decimal.Decimal {
	return reward.Mul(config.ReferralCommissionRate)
}

// PayCommission credits 10% of a reward event to the referred user's
// referrer, if one exists. It runs after the primary reward has been applied
// and must never undo it: callers log failures and move on.
func (s *ReferralService) PayCommission(ctx context.Context, referredUserID uuid.UUID, reward decimal.Decimal) error {
	referral, err := s.repo.GetReferralByReferredID(ctx, referredUserID)
	if err != nil {
		if errors.Is(err, repository.ErrReferralNotFound) {
			return nil
		}
		return err
	}

	referrer, err := s.repo.GetUser(ctx, referral.ReferrerID)
	if err != nil {
		return err
	}

	commission := Commission(reward)
	return s.repo.CreditCommission(ctx, referral.ID, referrer.ID, referrer.Balance, commission)
}

func (s *ReferralService) GetStats(ctx context.Context, referrerID uuid.UUID) (*model.ReferralStats, error) {
	return s.repo.GetReferralStats(ctx, referrerID)
}
