// Package report_repo provides the PostgreSQL dashboard aggregates.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"posledger/internal/domain/documents/bill"
	"posledger/internal/domain/reports"
	"posledger/internal/infrastructure/storage/postgres"
	"posledger/internal/infrastructure/storage/postgres/document_repo"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// SaleDetailTotals returns the non-blank total texts of sale bill details.
// Parsing happens in the service; the column is free text.
func (r *ReportRepo) SaleDetailTotals(ctx context.Context) ([]string, error) {
	sql, args, err := r.builder.
		Select("total").
		From("sale_bill_details").
		Where("total IS NOT NULL").
		Where("btrim(total) <> ''").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	totals := make([]string, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &totals, sql, args...); err != nil {
		return nil, fmt.Errorf("sale detail totals: %w", err)
	}
	return totals, nil
}

// CountBillsSince counts bills of dir dated at or after since.
func (r *ReportRepo) CountBillsSince(ctx context.Context, dir bill.Direction, since time.Time) (int64, error) {
	table := document_repo.HeaderTable(dir)
	if table == "" {
		return 0, fmt.Errorf("unknown bill direction %q", dir)
	}

	sql, args, err := r.builder.
		Select("COUNT(*)").
		From(table).
		Where(squirrel.GtOrEq{"time": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var n int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bills: %w", err)
	}
	return n, nil
}
