package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"posledger/internal/core/tx"
	"posledger/pkg/logger"
)

var tracer = otel.Tracer("posledger/tx")

// Compile-time check that TxManager implements tx.Manager interface.
var _ tx.Manager = (*TxManager)(nil)

// TxOptions configures transaction behavior.
type TxOptions struct {
	// IsolationLevel: pgx.Serializable, pgx.RepeatableRead, pgx.ReadCommitted
	IsolationLevel pgx.TxIsoLevel

	// AccessMode: pgx.ReadWrite, pgx.ReadOnly
	AccessMode pgx.TxAccessMode

	// StatementTimeout protects against long-running queries (default 30s)
	StatementTimeout time.Duration
}

// DefaultTxOptions returns production-safe defaults.
func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel:   pgx.ReadCommitted,
		AccessMode:       pgx.ReadWrite,
		StatementTimeout: 30 * time.Second,
	}
}

// TxManager runs work inside pgx transactions stored in the context.
// Repositories call GetQuerier so the same code runs inside and outside
// a transaction.
type TxManager struct {
	pool *pgxpool.Pool
	opts TxOptions
}

// NewTxManager creates a new transaction manager.
func NewTxManager(pool *Pool, opts TxOptions) *TxManager {
	return &TxManager{pool: pool.Pool, opts: opts}
}

type txKey struct{}

// RunInTransaction executes fn within a transaction.
// If a transaction already exists in ctx, it is reused.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransactionWithOptions(ctx, m.opts, fn)
}

// ReadOnly executes fn in a repeatable-read, read-only transaction so
// multi-query reports see one snapshot.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := m.opts
	opts.AccessMode = pgx.ReadOnly
	opts.IsolationLevel = pgx.RepeatableRead
	return m.RunInTransactionWithOptions(ctx, opts, fn)
}

// RunInTransactionWithOptions executes fn with custom transaction options.
func (m *TxManager) RunInTransactionWithOptions(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	if m.GetTx(ctx) != nil {
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(
			attribute.String("tx.isolation", string(opts.IsolationLevel)),
			attribute.String("tx.access", string(opts.AccessMode)),
		))
	defer span.End()

	pgTx, err := m.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   opts.IsolationLevel,
		AccessMode: opts.AccessMode,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if opts.StatementTimeout > 0 {
		_, err = pgTx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", opts.StatementTimeout.Milliseconds()))
		if err != nil {
			_ = pgTx.Rollback(context.Background())
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	txCtx := context.WithValue(ctx, txKey{}, pgTx)

	if err := fn(txCtx); err != nil {
		// Background context so the rollback completes even if ctx was cancelled.
		if rbErr := pgTx.Rollback(context.Background()); rbErr != nil {
			logger.Error(ctx, "rollback failed", "error", rbErr, "original_error", err)
		}
		span.RecordError(err)
		return err
	}

	if err := pgTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetTx returns the current transaction from context, or nil if none.
func (m *TxManager) GetTx(ctx context.Context) pgx.Tx {
	if t, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return t
	}
	return nil
}

// Querier is satisfied by both pgx.Tx and *pgxpool.Pool.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetQuerier returns the active transaction or the pool.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if t := m.GetTx(ctx); t != nil {
		return t
	}
	return m.pool
}
