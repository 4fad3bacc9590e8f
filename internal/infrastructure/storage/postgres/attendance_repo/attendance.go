// Package attendance_repo provides the PostgreSQL attendance log.
package attendance_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"posledger/internal/core/id"
	"posledger/internal/domain"
	"posledger/internal/domain/attendance"
	"posledger/internal/infrastructure/storage/postgres"
)

const attendanceTable = "employee_attendance"

var attendanceCols = postgres.ExtractDBColumns[attendance.Record]()

// AttendanceRepo implements attendance.Repository.
type AttendanceRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ attendance.Repository = (*AttendanceRepo)(nil)

// NewAttendanceRepo creates a new attendance repository.
func NewAttendanceRepo(txManager *postgres.TxManager) *AttendanceRepo {
	return &AttendanceRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create appends a mark.
func (r *AttendanceRepo) Create(ctx context.Context, rec *attendance.Record) error {
	sql, args, err := r.builder.
		Insert(attendanceTable).
		SetMap(postgres.PickColumns(postgres.StructToMap(rec), attendanceCols)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapWriteError("attendance record", fmt.Errorf("insert attendance: %w", err))
	}
	return nil
}

// ListByDate returns the marks of one day, oldest first.
func (r *AttendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]*attendance.Record, error) {
	sql, args, err := r.builder.
		Select(attendanceCols...).
		From(attendanceTable).
		Where(squirrel.Eq{"date": date}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]*attendance.Record, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list attendance by date: %w", err)
	}
	return items, nil
}

// ListByEmployee returns an employee's marks, newest first.
func (r *AttendanceRepo) ListByEmployee(ctx context.Context, employeeID id.ID, page domain.ListFilter) (domain.ListResult[*attendance.Record], error) {
	result := domain.ListResult[*attendance.Record]{
		Limit:  page.Limit,
		Offset: page.Offset,
	}

	querier := r.txManager.GetQuerier(ctx)

	countSQL, countArgs, err := r.builder.
		Select("COUNT(*)").
		From(attendanceTable).
		Where(squirrel.Eq{"employee_id": employeeID}).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q := r.builder.
		Select(attendanceCols...).
		From(attendanceTable).
		Where(squirrel.Eq{"employee_id": employeeID}).
		OrderBy("created_at DESC", "id DESC")
	if page.Limit > 0 {
		q = q.Limit(uint64(page.Limit))
	}
	if page.Offset > 0 {
		q = q.Offset(uint64(page.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	result.Items = make([]*attendance.Record, 0)
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list attendance: %w", err)
	}
	return result, nil
}
