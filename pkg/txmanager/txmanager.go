package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-ConsoleRental/pkg/dbmetrics"
)

// DefaultMaxAttempts число попыток транзакции при конфликте сериализации
const DefaultMaxAttempts = 3

var (
	// ErrBeginTx ошибка открытия транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx ошибка фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrSerializationFailure конфликт сериализации не разрешился за все попытки
	ErrSerializationFailure = errors.New("txmanager: concurrent update, retry later")
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// failureReporter транзакция, запоминающая первую ошибку драйвера (*dbmetrics.Tx)
type failureReporter interface {
	Failure() error
}

// TransactionManager выполняет функции внутри транзакции, передавая её через контекст
// Репозитории получают транзакцию через dbmetrics.GetExecutor
type TransactionManager struct {
	db          TxBeginner
	maxAttempts int
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return NewTransactionManagerWithAttempts(db, DefaultMaxAttempts)
}

// NewTransactionManagerWithAttempts создает менеджер с заданным числом попыток
func NewTransactionManagerWithAttempts(db TxBeginner, maxAttempts int) *TransactionManager {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &TransactionManager{db: db, maxAttempts: maxAttempts}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции
// При конфликте сериализации (SQLSTATE 40001) fn выполняется заново целиком
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		var conflict bool
		conflict, err = m.attempt(ctx, opts, fn)
		if !conflict {
			return err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("%w: %v", ErrSerializationFailure, err)
}

// attempt выполняет одну транзакцию; conflict сообщает о конфликте сериализации
func (m *TransactionManager) attempt(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (conflict bool, err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return isSerializationFailure(tx, err), err
	}

	if err := tx.Commit(); err != nil {
		return pgerrors.IsSerializationFailure(err), fmt.Errorf("%w: %v", ErrCommitTx, err)
	}
	return false, nil
}

// isSerializationFailure проверяет саму ошибку и первую ошибку драйвера в транзакции
func isSerializationFailure(tx dbmetrics.TxExecutor, err error) bool {
	if pgerrors.IsSerializationFailure(err) {
		return true
	}
	if reporter, ok := tx.(failureReporter); ok {
		return pgerrors.IsSerializationFailure(reporter.Failure())
	}
	return false
}
