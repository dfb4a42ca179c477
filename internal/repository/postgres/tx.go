package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// txKey это ключ контекста для активной транзакции
type txKey struct{}

// querier объединяет pgxpool.Pool и pgx.Tx: репозитории выполняют
// запросы через него и автоматически попадают в транзакцию, если она
// есть в контексте
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// queryEngine возвращает транзакцию из контекста, если она открыта,
// иначе пул соединений
func queryEngine(ctx context.Context, db *pgxpool.Pool) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db
}

// TxManager реализует repository.TxManager для PostgreSQL
type TxManager struct {
	db *pgxpool.Pool
}

// NewTxManager создает новый экземпляр TxManager
func NewTxManager(db *pgxpool.Pool) *TxManager {
	return &TxManager{db: db}
}

// WithinUserLock выполняет fn внутри транзакции, предварительно взяв
// pg_advisory_xact_lock по ID пользователя. Лок освобождается
// автоматически при commit/rollback.
func (m *TxManager) WithinUserLock(ctx context.Context, userID uuid.UUID, fn func(ctx context.Context) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID.String()); err != nil {
		return err
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
