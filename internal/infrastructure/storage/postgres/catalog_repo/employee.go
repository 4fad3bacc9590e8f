package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"posledger/internal/core/entity"
	"posledger/internal/domain/catalogs/employee"
	"posledger/internal/infrastructure/storage/postgres"
)

// EmployeeRepo implements employee.Repository.
type EmployeeRepo struct {
	*BaseCatalogRepo[*employee.Employee]
}

var _ employee.Repository = (*EmployeeRepo)(nil)

// NewEmployeeRepo creates a new employee repository.
func NewEmployeeRepo(txManager *postgres.TxManager) *EmployeeRepo {
	return &EmployeeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(txManager, BaseConfig[*employee.Employee]{
			TableName:  "employees",
			EntityName: "employee",
			SelectCols: postgres.ExtractDBColumns[employee.Employee](),
			NewFn:      func() *employee.Employee { return &employee.Employee{} },
			SearchCols: []string{"name", "designation", "nic"},
			LookupCols: []string{"phone", "email", "nic"},
		}),
	}
}

// ListActive returns active employees by name.
func (r *EmployeeRepo) ListActive(ctx context.Context) ([]*employee.Employee, error) {
	return r.Select(ctx, r.baseSelect().
		Where(squirrel.Eq{"status": entity.StatusActive}).
		OrderBy("name ASC"))
}
