package service

import (
	"context"
	"errors"

	"github.com/Otszy/Bear-App/internal/model"
	"github.com/Otszy/Bear-App/internal/repository"
)

type UserService struct {
	repo *repository.Repository
}

func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// TelegramProfile carries the identity fields accepted from either a
// verified initData payload or an inbound bot message.
type TelegramProfile struct {
	TelegramID string
	Username   *string
	FirstName  *string
	LastName   *string
}

// GetOrCreateUser returns the user for a Telegram identity, creating the row
// on first contact. The boolean reports whether a new user was created.
func (s *UserService) GetOrCreateUser(ctx context.Context, profile TelegramProfile) (*model.User, bool, error) {
	existing, err := s.repo.GetUserByTelegramID(ctx, profile.TelegramID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, err
	}

	user := &model.User{
		TelegramID: profile.TelegramID,
		Username:   profile.Username,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, false, err
	}

	return user, true, nil
}

// GetUserByTelegramID never creates; callers that must not mint users on
// lookup (the /balance command) go through this.
func (s *UserService) GetUserByTelegramID(ctx context.Context, telegramID string) (*model.User, error) {
	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
