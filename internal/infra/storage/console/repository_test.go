package console

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/pkg/dbmetrics"
)

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), db, mock
}

func consoleRow(id string, status domain.ConsoleStatus) *sqlmock.Rows {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(consoleColumns).
		AddRow(id, "PS5 #1", "PlayStation 5", "{FIFA,Tekken}", 1000.0, nil, string(status), nil, false, now, now)
}

func TestRepository_GetByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo, _, mock := newRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM consoles WHERE id = \\$1$").
			WithArgs("c1").
			WillReturnRows(consoleRow("c1", domain.ConsoleAvailable))

		c, err := repo.GetByID(context.Background(), "c1")

		require.NoError(t, err)
		assert.Equal(t, "PS5 #1", c.Name)
		assert.Equal(t, []string{"FIFA", "Tekken"}, c.Games)
		assert.Nil(t, c.SalePrice)
		assert.True(t, c.IsAvailable())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, _, mock := newRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM consoles").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), "missing")

		assert.ErrorIs(t, err, ErrConsoleNotFound)
	})

	t.Run("Row is locked inside a transaction", func(t *testing.T) {
		repo, db, mock := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM consoles WHERE id = \\$1 FOR UPDATE").
			WithArgs("c1").
			WillReturnRows(consoleRow("c1", domain.ConsoleRented))
		mock.ExpectCommit()

		tx, err := dbmetrics.Wrap(db, nil).BeginTx(context.Background(), nil)
		require.NoError(t, err)

		c, err := repo.GetByID(dbmetrics.WithTx(context.Background(), tx), "c1")
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		assert.Equal(t, domain.ConsoleRented, c.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, _, mock := newRepo(t)

		mock.ExpectExec("UPDATE consoles SET status = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
			WithArgs(domain.ConsoleRented, "c1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), "c1", domain.ConsoleRented)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, _, mock := newRepo(t)

		mock.ExpectExec("UPDATE consoles").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), "c1", domain.ConsoleAvailable)

		assert.ErrorIs(t, err, ErrConsoleNotFound)
	})
}

func TestRepository_List(t *testing.T) {
	repo, _, mock := newRepo(t)
	status := domain.ConsoleAvailable

	mock.ExpectQuery("SELECT (.+) FROM consoles WHERE status = \\$1 ORDER BY name ASC").
		WithArgs(status).
		WillReturnRows(consoleRow("c1", status))

	consoles, err := repo.List(context.Background(), &status)

	require.NoError(t, err)
	require.Len(t, consoles, 1)
	assert.Equal(t, "c1", consoles[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
