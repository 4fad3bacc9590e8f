package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"posledger/internal/core/apperror"
	"posledger/internal/core/id"
	"posledger/internal/domain"
	"posledger/internal/domain/attendance"
	"posledger/internal/domain/auth"
	"posledger/internal/domain/catalogs/employee"
	"posledger/internal/domain/catalogs/stockitem"
	"posledger/internal/domain/catalogs/supplier"
)

// --- Stock items ---

// StockItems implements stockitem.Repository.
type StockItems struct {
	catalogRepo[stockitem.StockItem, *stockitem.StockItem]
}

var _ stockitem.Repository = (*StockItems)(nil)

// StockItems returns the stock item repository.
func (s *Store) StockItems() *StockItems {
	return &StockItems{catalogRepo[stockitem.StockItem, *stockitem.StockItem]{
		store:      s,
		entityName: "stock item",
		table:      func(st *state) map[id.ID]stockitem.StockItem { return st.stock },
		unique: map[string]func(*stockitem.StockItem) string{
			"name":  func(e *stockitem.StockItem) string { return e.Name },
			"model": func(e *stockitem.StockItem) string { return e.Model },
		},
		sortKeys: map[string]func(a, b *stockitem.StockItem) int{
			"quantity": func(a, b *stockitem.StockItem) int { return cmp.Compare(a.Quantity, b.Quantity) },
		},
	}}
}

// GetForUpdate returns the item. The store serializes transactions, so
// no row lock is needed.
func (r *StockItems) GetForUpdate(ctx context.Context, itemID id.ID) (*stockitem.StockItem, error) {
	return r.GetByID(ctx, itemID)
}

// AdjustQuantity adds delta to the stored quantity.
func (r *StockItems) AdjustQuantity(_ context.Context, itemID id.ID, delta int) (int, error) {
	var qty int
	err := r.store.write(func(st *state) error {
		item, ok := st.stock[itemID]
		if !ok {
			return apperror.NewNotFound("stock item", itemID.String())
		}
		item.Quantity += delta
		item.SetVersion(item.GetVersion() + 1)
		st.stock[itemID] = item
		qty = item.Quantity
		return nil
	})
	return qty, err
}

// ListActiveByQuantity returns active items, largest quantity first.
func (r *StockItems) ListActiveByQuantity(ctx context.Context) ([]*stockitem.StockItem, error) {
	res, err := r.List(ctx, domain.ListFilter{OrderBy: "-quantity"})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Quantity is a test helper returning the stored quantity.
func (r *StockItems) Quantity(itemID id.ID) int {
	var qty int
	r.store.read(func(st *state) { qty = st.stock[itemID].Quantity })
	return qty
}

// --- Suppliers ---

// Suppliers implements supplier.Repository.
type Suppliers struct {
	catalogRepo[supplier.Supplier, *supplier.Supplier]
}

var _ supplier.Repository = (*Suppliers)(nil)

// Suppliers returns the supplier repository.
func (s *Store) Suppliers() *Suppliers {
	return &Suppliers{catalogRepo[supplier.Supplier, *supplier.Supplier]{
		store:      s,
		entityName: "supplier",
		table:      func(st *state) map[id.ID]supplier.Supplier { return st.suppliers },
		unique: map[string]func(*supplier.Supplier) string{
			"phone": func(e *supplier.Supplier) string { return e.Phone },
			"email": func(e *supplier.Supplier) string { return e.Email },
			"nic":   func(e *supplier.Supplier) string { return e.NIC },
		},
	}}
}

// --- Employees ---

// Employees implements employee.Repository.
type Employees struct {
	catalogRepo[employee.Employee, *employee.Employee]
}

var _ employee.Repository = (*Employees)(nil)

// Employees returns the employee repository.
func (s *Store) Employees() *Employees {
	return &Employees{catalogRepo[employee.Employee, *employee.Employee]{
		store:      s,
		entityName: "employee",
		table:      func(st *state) map[id.ID]employee.Employee { return st.employees },
		unique: map[string]func(*employee.Employee) string{
			"phone": func(e *employee.Employee) string { return e.Phone },
			"email": func(e *employee.Employee) string { return e.Email },
			"nic":   func(e *employee.Employee) string { return e.NIC },
		},
	}}
}

// ListActive returns active employees by name.
func (r *Employees) ListActive(ctx context.Context) ([]*employee.Employee, error) {
	res, err := r.List(ctx, domain.ListFilter{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// --- Attendance ---

// Attendance implements attendance.Repository.
type Attendance struct {
	store *Store
}

var _ attendance.Repository = (*Attendance)(nil)

// Attendance returns the attendance repository.
func (s *Store) Attendance() *Attendance {
	return &Attendance{store: s}
}

func (r *Attendance) Create(_ context.Context, rec *attendance.Record) error {
	return r.store.write(func(st *state) error {
		if _, ok := st.employees[rec.EmployeeID]; !ok {
			return apperror.NewValidation("employee does not exist").WithDetail("field", "employeeId")
		}
		st.attendance = append(st.attendance, *rec)
		return nil
	})
}

func (r *Attendance) ListByDate(_ context.Context, date time.Time) ([]*attendance.Record, error) {
	out := []*attendance.Record{}
	r.store.read(func(st *state) {
		for _, rec := range st.attendance {
			if rec.Date.Equal(date) {
				out = append(out, &rec)
			}
		}
	})
	return out, nil
}

func (r *Attendance) ListByEmployee(_ context.Context, employeeID id.ID, filter domain.ListFilter) (domain.ListResult[*attendance.Record], error) {
	var items []*attendance.Record
	r.store.read(func(st *state) {
		for _, rec := range st.attendance {
			if rec.EmployeeID == employeeID {
				items = append(items, &rec)
			}
		}
	})
	slices.SortStableFunc(items, func(a, b *attendance.Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return domain.ListResult[*attendance.Record]{
		Items:      page(items, filter.Offset, filter.Limit),
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// --- Users ---

// Users implements auth.UserRepository.
type Users struct {
	store *Store
}

var _ auth.UserRepository = (*Users)(nil)

// Users returns the user repository.
func (s *Store) Users() *Users {
	return &Users{store: s}
}

func (r *Users) Create(_ context.Context, u *auth.User) error {
	return r.store.write(func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Username, u.Username) {
				return apperror.NewDuplicate("user", "username", u.Username)
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *Users) GetByID(_ context.Context, userID id.ID) (*auth.User, error) {
	var (
		u  auth.User
		ok bool
	)
	r.store.read(func(st *state) { u, ok = st.users[userID] })
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return &u, nil
}

func (r *Users) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	var out *auth.User
	r.store.read(func(st *state) {
		for _, u := range st.users {
			if strings.EqualFold(u.Username, username) {
				out = &u
				return
			}
		}
	})
	if out == nil {
		return nil, apperror.NewNotFound("user", username)
	}
	return out, nil
}

func (r *Users) UpdatePassword(_ context.Context, userID id.ID, hash string) error {
	return r.store.write(func(st *state) error {
		u, ok := st.users[userID]
		if !ok {
			return apperror.NewNotFound("user", userID.String())
		}
		u.PasswordHash = hash
		st.users[userID] = u
		return nil
	})
}

func (r *Users) TouchLogin(_ context.Context, userID id.ID, at time.Time) error {
	return r.store.write(func(st *state) error {
		u, ok := st.users[userID]
		if !ok {
			return apperror.NewNotFound("user", userID.String())
		}
		u.LastLoginAt = &at
		st.users[userID] = u
		return nil
	})
}
