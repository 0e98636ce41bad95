package txmanager

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/pkg/dbmetrics"
)

func newManager(t *testing.T) (*TransactionManager, *dbmetrics.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewTransactionManager(wrapped), wrapped, mock
}

func TestTransactionManager_DoSerializable(t *testing.T) {
	t.Run("Commit on success", func(t *testing.T) {
		tm, db, mock := newManager(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE consoles").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
			assert.True(t, dbmetrics.IsInTransaction(ctx))
			_, err := dbmetrics.GetExecutor(ctx, db).ExecContext(ctx, "UPDATE consoles SET status = 'rented'")
			return err
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback on error", func(t *testing.T) {
		tm, _, mock := newManager(t)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nested call reuses transaction", func(t *testing.T) {
		tm, _, mock := newManager(t)

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := tm.Do(context.Background(), func(ctx context.Context) error {
			return tm.DoSerializable(ctx, func(ctx context.Context) error {
				return nil
			})
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Begin failure", func(t *testing.T) {
		tm, _, mock := newManager(t)
		mock.ExpectBegin().WillReturnError(errors.New("no connection"))

		err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
			return nil
		})

		assert.ErrorIs(t, err, ErrBeginTx)
	})
}

func serializationFailure() error {
	return &pq.Error{Code: pq.ErrorCode(pgerrcode.SerializationFailure), Message: "could not serialize access"}
}

func TestTransactionManager_SerializationRetry(t *testing.T) {
	t.Run("Commit conflict is retried", func(t *testing.T) {
		tm, _, mock := newManager(t)

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(serializationFailure())
		mock.ExpectBegin()
		mock.ExpectCommit()

		calls := 0
		err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Statement conflict hidden by wrapping is retried", func(t *testing.T) {
		tm, db, mock := newManager(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO temp_reservations").WillReturnError(serializationFailure())
		mock.ExpectRollback()
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO temp_reservations").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		calls := 0
		err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
			calls++
			_, err := dbmetrics.GetExecutor(ctx, db).ExecContext(ctx, "INSERT INTO temp_reservations (console_id) VALUES ($1)", "ps5-1")
			if err != nil {
				return fmt.Errorf("create hold: %v", err)
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Attempts exhausted", func(t *testing.T) {
		tm, _, mock := newManager(t)

		for i := 0; i < DefaultMaxAttempts; i++ {
			mock.ExpectBegin()
			mock.ExpectCommit().WillReturnError(serializationFailure())
		}

		calls := 0
		err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
			calls++
			return nil
		})

		assert.ErrorIs(t, err, ErrSerializationFailure)
		assert.Equal(t, DefaultMaxAttempts, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Other errors are not retried", func(t *testing.T) {
		tm, _, mock := newManager(t)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		calls := 0
		err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
			calls++
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrSerializationFailure)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Single attempt", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		tm := NewTransactionManagerWithAttempts(dbmetrics.Wrap(db, nil), 0)

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(serializationFailure())

		err = tm.DoSerializable(context.Background(), func(ctx context.Context) error {
			return nil
		})

		assert.ErrorIs(t, err, ErrSerializationFailure)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
