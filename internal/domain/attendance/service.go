package attendance

import (
	"context"
	"fmt"
	"time"

	"posledger/internal/core/id"
	"posledger/internal/core/tx"
	"posledger/internal/domain"
	"posledger/internal/domain/catalogs/employee"
	"posledger/pkg/logger"
)

// EmployeeDirectory is the part of the employee service attendance needs.
type EmployeeDirectory interface {
	ResolveActive(ctx context.Context, employeeID id.ID) (*employee.Employee, error)
	ListActive(ctx context.Context) ([]*employee.Employee, error)
}

// Service records and lists attendance.
type Service struct {
	repo      Repository
	employees EmployeeDirectory
	txManager tx.Manager
	now       func() time.Time
}

// NewService creates a new attendance service.
func NewService(repo Repository, employees EmployeeDirectory, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		txManager: txManager,
		now:       time.Now,
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Mark records a mark for today. The caller cannot choose the date.
func (s *Service) Mark(ctx context.Context, employeeID id.ID, present bool) (*Record, error) {
	now := s.now().UTC()
	rec := &Record{
		ID:         id.New(),
		Date:       employee.Today(now),
		EmployeeID: employeeID,
		Present:    present,
		CreatedAt:  now,
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.employees.ResolveActive(ctx, employeeID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, rec); err != nil {
			return fmt.Errorf("create attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "attendance marked", "employee_id", employeeID, "present", present)
	return rec, nil
}

// ListByDate returns all marks of the given day.
func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]*Record, error) {
	return s.repo.ListByDate(ctx, employee.Today(date))
}

// ListByEmployee returns an employee's marks, newest first.
func (s *Service) ListByEmployee(ctx context.Context, employeeID id.ID, page domain.ListFilter) (domain.ListResult[*Record], error) {
	return s.repo.ListByEmployee(ctx, employeeID, page.Normalize())
}

// Today returns today's sheet: active employees and today's marks.
func (s *Service) Today(ctx context.Context) (*Sheet, error) {
	today := employee.Today(s.now())

	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	records, err := s.repo.ListByDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return &Sheet{Date: today, Employees: employees, Records: records}, nil
}
