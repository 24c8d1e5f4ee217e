package tr

import (
	"context"

	"github.com/DRSN-tech/product-catalog/pkg/e"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type txKey struct{}

type managerKey struct{}

// Querier - общее подмножество pgx.Tx и *pgxpool.Pool.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WithTx кладёт объект транзакции в контекст
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}

// QuerierFromCtx возвращает транзакцию из контекста, а если её нет - fallback (обычно пул).
func QuerierFromCtx(ctx context.Context, fallback Querier) Querier {
	if tx, err := TxFromCtx(ctx); err == nil {
		return tx
	}
	return fallback
}

// TxManager реализует unit of work поверх go-transaction-manager:
// Begin открывает транзакцию и кладёт её в контекст, Commit фиксирует всё накопленное.
type TxManager struct {
	db   transaction.Transactional
	opts pgx.TxOptions
}

func NewTxManager(db transaction.Transactional) *TxManager {
	return &TxManager{
		db:   db,
		opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	}
}

// Begin открывает транзакцию. Вложенные транзакции не поддерживаются.
func (m *TxManager) Begin(ctx context.Context) (context.Context, error) {
	const op = "TxManager.Begin"

	if _, ok := ctx.Value(managerKey{}).(*transaction.Transaction); ok {
		return ctx, e.Wrap(op, e.ErrTransactionActive)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, m.opts, m.db)
	if err != nil {
		return ctx, e.Wrap(op, err)
	}

	ctx = context.WithValue(ctx, managerKey{}, tx)
	if pgxTx, ok := tx.Transaction().(pgx.Tx); ok {
		ctx = WithTx(ctx, pgxTx)
	}

	return ctx, nil
}

// Commit фиксирует транзакцию из контекста.
func (m *TxManager) Commit(ctx context.Context) error {
	const op = "TxManager.Commit"

	tx, ok := ctx.Value(managerKey{}).(*transaction.Transaction)
	if !ok {
		return e.Wrap(op, e.ErrTransactionNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Rollback откатывает транзакцию, если она ещё активна.
func (m *TxManager) Rollback(ctx context.Context) {
	tx, ok := ctx.Value(managerKey{}).(*transaction.Transaction)
	if !ok || !tx.IsActive() {
		return
	}

	// контекст запроса мог быть уже отменён, откат всё равно нужен
	_ = tx.Rollback(context.WithoutCancel(ctx))
}
