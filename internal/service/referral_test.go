package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otszy/Bear-App/internal/model"
)

func TestParseReferralParam(t *testing.T) {
	assert.Equal(t, "12345", ParseReferralParam("ref_12345"))
	assert.Equal(t, "", ParseReferralParam("12345"))
	assert.Equal(t, "", ParseReferralParam(""))
	assert.Equal(t, "", ParseReferralParam("referral_12345"))
}

func TestCommission(t *testing.T) {
	// Exactly 10%, no floating point drift.
	assert.True(t, Commission(dec("0.01")).Equal(dec("0.001")))
	assert.True(t, Commission(dec("0.003")).Equal(dec("0.0003")))
	assert.True(t, Commission(dec("100")).Equal(dec("10")))
}

func TestAttribute_SelfReferral(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewReferralService(repo)

	referred := &model.User{ID: uuid.New(), TelegramID: "67890"}
	_, _, err := svc.Attribute(context.Background(), referred, "67890")
	assert.ErrorIs(t, err, ErrSelfReferral)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttribute_ReferrerNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewReferralService(repo)

	mock.ExpectQuery(`SELECT \* FROM users WHERE telegram_id`).
		WithArgs("12345").
		WillReturnError(sql.ErrNoRows)

	referred := &model.User{ID: uuid.New(), TelegramID: "67890"}
	_, _, err := svc.Attribute(context.Background(), referred, "12345")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttribute_AlreadyExists(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewReferralService(repo)

	referrerID := uuid.New()
	referredID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM users WHERE telegram_id`).
		WillReturnRows(userRow(referrerID, "12345", "5"))
	mock.ExpectQuery(`SELECT \* FROM referrals WHERE referred_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "referrer_id", "referred_id", "commission_amount", "reward_claimed", "created_at"}).
			AddRow(uuid.NewString(), referrerID.String(), referredID.String(), "0", false, now))

	referred := &model.User{ID: referredID, TelegramID: "67890"}
	_, _, err := svc.Attribute(context.Background(), referred, "12345")
	assert.ErrorIs(t, err, ErrReferralExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttribute_CreatesExactlyOneReferral(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewReferralService(repo)

	referrerID := uuid.New()
	referredID := uuid.New()
	referralID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM users WHERE telegram_id`).
		WithArgs("12345").
		WillReturnRows(userRow(referrerID, "12345", "5"))
	mock.ExpectQuery(`SELECT \* FROM referrals WHERE referred_id`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO referrals`).
		WithArgs(referrerID, referredID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "commission_amount", "created_at"}).
			AddRow(referralID.String(), "0", now))

	referred := &model.User{ID: referredID, TelegramID: "67890"}
	referral, referrer, err := svc.Attribute(context.Background(), referred, "12345")
	require.NoError(t, err)
	assert.Equal(t, referralID, referral.ID)
	assert.Equal(t, referrerID, referral.ReferrerID)
	assert.Equal(t, referredID, referral.ReferredID)
	assert.Equal(t, "12345", referrer.TelegramID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayCommission_NoReferral(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewReferralService(repo)

	mock.ExpectQuery(`SELECT \* FROM referrals WHERE referred_id`).
		WillReturnError(sql.ErrNoRows)

	err := svc.PayCommission(context.Background(), uuid.New(), dec("0.01"))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayCommission_CreditsReferrer(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewReferralService(repo)

	referrerID := uuid.New()
	referredID := uuid.New()
	referralID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM referrals WHERE referred_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "referrer_id", "referred_id", "commission_amount", "reward_claimed", "created_at"}).
			AddRow(referralID.String(), referrerID.String(), referredID.String(), "0.5", false, now))
	mock.ExpectQuery(`SELECT \* FROM users WHERE id`).
		WithArgs(referrerID).
		WillReturnRows(userRow(referrerID, "12345", "5"))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE referrals SET commission_amount`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET balance = balance \+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO balance_transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.PayCommission(context.Background(), referredID, dec("0.01"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
