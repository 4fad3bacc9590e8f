package catalog_repo

import (
	"posledger/internal/domain/catalogs/supplier"
	"posledger/internal/infrastructure/storage/postgres"
)

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

var _ supplier.Repository = (*SupplierRepo)(nil)

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(txManager, BaseConfig[*supplier.Supplier]{
			TableName:  "suppliers",
			EntityName: "supplier",
			SelectCols: postgres.ExtractDBColumns[supplier.Supplier](),
			NewFn:      func() *supplier.Supplier { return &supplier.Supplier{} },
			SearchCols: []string{"name", "phone", "nic"},
			LookupCols: []string{"phone", "email", "nic"},
		}),
	}
}
