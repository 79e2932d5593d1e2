package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	TelegramID string          `json:"telegram_id" db:"telegram_id"`
	Username   *string         `json:"username,omitempty" db:"username"`
	FirstName  *string         `json:"first_name,omitempty" db:"first_name"`
	LastName   *string         `json:"last_name,omitempty" db:"last_name"`
	Balance    decimal.Decimal `json:"balance" db:"balance"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}
