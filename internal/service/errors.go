package service

import "errors"

// Request-fatal failures surfaced to clients in the error envelope. None of
// them are retried server-side; the client may retry later where the message
// says so.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrTaskNotFound         = errors.New("invalid or inactive task")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrRateLimited          = errors.New("rate limit exceeded")
	ErrQuotaExceeded        = errors.New("maximum attempts reached for this period")
	ErrVerificationFailed   = errors.New("task verification failed - please try again")
	ErrInvalidAmount        = errors.New("invalid withdrawal amount (minimum $0.01)")
	ErrAmountTooLarge       = errors.New("maximum withdrawal amount is $100")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrDuplicateRequest     = errors.New("duplicate withdrawal request detected")
	ErrDailyLimitExceeded   = errors.New("daily withdrawal limit exceeded ($100)")
	ErrSelfReferral         = errors.New("cannot refer yourself")
	ErrReferralExists       = errors.New("referral already exists")
)
