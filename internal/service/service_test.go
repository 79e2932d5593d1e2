package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Otszy/Bear-App/internal/repository"
)

func newMockRepo(t *testing.T) (*repository.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return repository.NewWithDB(sqlx.NewDb(db, "sqlmock")), mock
}

var userColumns = []string{"id", "telegram_id", "username", "first_name", "last_name", "balance", "created_at", "updated_at"}

func userRow(id uuid.UUID, telegramID, balance string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userColumns).
		AddRow(id.String(), telegramID, nil, nil, nil, balance, now, now)
}

func existsRow(exists bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(exists)
}
