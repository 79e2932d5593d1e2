package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Otszy/Bear-App/internal/config"
	"github.com/Otszy/Bear-App/internal/model"
	"github.com/Otszy/Bear-App/internal/repository"
)

// TaskService runs the server-side task completion flows: identity has
// already been verified by the caller, everything after that — cooldowns,
// quotas, external verification, the atomic reward credit and the referral
// commission — happens here.
type TaskService struct {
	repo           *repository.Repository
	referralSvc    *ReferralService
	adVerifier     TaskVerifier
	followVerifier TaskVerifier
	log            zerolog.Logger
}

func NewTaskService(repo *repository.Repository, referralSvc *ReferralService, adVerifier, followVerifier TaskVerifier, log zerolog.Logger) *TaskService {
	return &TaskService{
		repo:           repo,
		referralSvc:    referralSvc,
		adVerifier:     adVerifier,
		followVerifier: followVerifier,
		log:            log,
	}
}

// CheckQuota decides admissibility of a new attempt against the tracking
// row. A nil row means no attempts yet. Once reset_at has passed the quota
// counts as fully replenished; the stale counter is ignored.
func CheckQuota(attempt *model.TaskAttempt, now time.Time) error {
	if attempt == nil {
		return nil
	}
	if !now.After(attempt.ResetAt) && attempt.AttemptsCount >= config.MaxTaskAttempts {
		return ErrQuotaExceeded
	}
	return nil
}

// CompleteAdTask validates and rewards one attempt at a repeatable ad task.
// Returns the reward credited and the resulting balance.
func (s *TaskService) CompleteAdTask(ctx context.Context, telegramID, taskID string, taskType model.TaskType) (decimal.Decimal, decimal.Decimal, error) {
	zero := decimal.Zero
	now := time.Now()

	task, err := s.repo.GetActiveTask(ctx, taskID, taskType)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return zero, zero, ErrTaskNotFound
		}
		return zero, zero, err
	}

	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return zero, zero, ErrUserNotFound
		}
		return zero, zero, err
	}

	recent, err := s.repo.HasRecentAttempt(ctx, user.ID, taskType, taskID, now.Add(-config.AdTaskCooldown))
	if err != nil {
		return zero, zero, err
	}
	if recent {
		return zero, zero, ErrRateLimited
	}

	attempt, err := s.repo.GetTaskAttempt(ctx, user.ID, taskType, taskID)
	if err != nil && !errors.Is(err, repository.ErrAttemptNotFound) {
		return zero, zero, err
	}
	if err := CheckQuota(attempt, now); err != nil {
		return zero, zero, err
	}

	completed, err := s.adVerifier.Verify(ctx, telegramID, taskID)
	if err != nil {
		return zero, zero, err
	}
	if !completed {
		return zero, zero, ErrVerificationFailed
	}

	newBalance, err := s.repo.CompleteAdTask(ctx, user.ID, taskType, taskID, task.RewardAmount, user.Balance, now)
	if err != nil {
		return zero, zero, err
	}

	s.payCommission(ctx, user.ID, task.RewardAmount)

	return task.RewardAmount, newBalance, nil
}

// CompleteFollowTask validates and rewards a one-shot channel-follow task.
func (s *TaskService) CompleteFollowTask(ctx context.Context, telegramID, channelUsername string, taskType model.TaskType) (decimal.Decimal, decimal.Decimal, error) {
	zero := decimal.Zero
	now := time.Now()

	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return zero, zero, ErrUserNotFound
		}
		return zero, zero, err
	}

	existing, err := s.repo.GetUserTask(ctx, user.ID, taskType, channelUsername)
	if err != nil && !errors.Is(err, repository.ErrUserTaskNotFound) {
		return zero, zero, err
	}
	if existing != nil && existing.Completed {
		return zero, zero, ErrTaskAlreadyCompleted
	}

	recent, err := s.repo.HasRecentUserTask(ctx, user.ID, taskType, now.Add(-config.FollowTaskCooldown))
	if err != nil {
		return zero, zero, err
	}
	if recent {
		return zero, zero, ErrRateLimited
	}

	followed, err := s.followVerifier.Verify(ctx, telegramID, channelUsername)
	if err != nil {
		return zero, zero, err
	}
	if !followed {
		return zero, zero, ErrVerificationFailed
	}

	reward := config.FollowTaskReward
	newBalance, err := s.repo.CompleteFollowTask(ctx, user.ID, taskType, channelUsername, reward, user.Balance, now)
	if err != nil {
		return zero, zero, err
	}

	s.payCommission(ctx, user.ID, reward)

	return reward, newBalance, nil
}

// payCommission is best-effort: a failed commission never rolls back the
// referred user's own reward.
func (s *TaskService) payCommission(ctx context.Context, userID uuid.UUID, reward decimal.Decimal) {
	if err := s.referralSvc.PayCommission(ctx, userID, reward); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to pay referral commission")
	}
}

func (s *TaskService) GetTaskAttempts(ctx context.Context, telegramID string) ([]model.TaskAttempt, error) {
	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.repo.GetTaskAttempts(ctx, user.ID)
}
