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
	"posledger/internal/domain/documents/bill"
)

// Bills implements bill.Repository and reports.Repository.
type Bills struct {
	store *Store
}

var _ bill.Repository = (*Bills)(nil)

// Bills returns the bill repository.
func (s *Store) Bills() *Bills {
	return &Bills{store: s}
}

func notFound(dir bill.Direction, billID id.ID) error {
	return apperror.NewNotFound(string(dir)+" bill", billID.String())
}

func (r *Bills) Create(_ context.Context, b *bill.Bill) error {
	return r.store.write(func(st *state) error {
		set := st.bills[b.Direction]
		if b.Direction == bill.DirectionPurchase {
			if b.SupplierID == nil {
				return apperror.NewValidation("supplier is required")
			}
			if _, ok := st.suppliers[*b.SupplierID]; !ok {
				return apperror.NewValidation("referenced record does not exist").WithDetail("field", "supplier_id")
			}
		}
		header := *b
		header.Details = nil
		header.Lines = nil
		set.headers[b.ID] = header
		return nil
	})
}

func (r *Bills) get(dir bill.Direction, billID id.ID) (*bill.Bill, error) {
	var (
		b  bill.Bill
		ok bool
	)
	r.store.read(func(st *state) { b, ok = st.bills[dir].headers[billID] })
	if !ok {
		return nil, notFound(dir, billID)
	}
	return &b, nil
}

func (r *Bills) GetByID(_ context.Context, dir bill.Direction, billID id.ID) (*bill.Bill, error) {
	return r.get(dir, billID)
}

func (r *Bills) GetForUpdate(_ context.Context, dir bill.Direction, billID id.ID) (*bill.Bill, error) {
	return r.get(dir, billID)
}

func (r *Bills) DeleteHeader(_ context.Context, dir bill.Direction, billID id.ID) error {
	return r.store.write(func(st *state) error {
		set := st.bills[dir]
		if _, ok := set.details[billID]; ok {
			return apperror.NewValidation("bill details still reference the header")
		}
		for _, l := range set.lines {
			if l.BillID == billID {
				return apperror.NewValidation("bill lines still reference the header")
			}
		}
		delete(set.headers, billID)
		return nil
	})
}

func (r *Bills) List(_ context.Context, filter bill.ListFilter) (domain.ListResult[*bill.Bill], error) {
	var all []*bill.Bill
	r.store.read(func(st *state) {
		for _, b := range st.bills[filter.Direction].headers {
			all = append(all, &b)
		}
	})

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	items := make([]*bill.Bill, 0, len(all))
	for _, b := range all {
		if filter.SupplierID != nil && (b.SupplierID == nil || *b.SupplierID != *filter.SupplierID) {
			continue
		}
		if filter.DateFrom != nil && b.Time.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && !b.Time.Before(*filter.DateTo) {
			continue
		}
		if search != "" && !matchesBill(b, search) {
			continue
		}
		items = append(items, b)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "-time"
		if filter.Direction == bill.DirectionSale {
			orderBy = "nic"
		}
	}
	slices.SortStableFunc(items, billComparator(orderBy))

	return domain.ListResult[*bill.Bill]{
		Items:      page(items, filter.Offset, filter.Limit),
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func matchesBill(b *bill.Bill, search string) bool {
	if strings.Contains(strings.ToLower(b.Number), search) {
		return true
	}
	if b.Customer != nil {
		return strings.Contains(strings.ToLower(b.Customer.Name), search) ||
			strings.Contains(strings.ToLower(b.Customer.NIC), search)
	}
	return false
}

func billComparator(orderBy string) func(a, b *bill.Bill) int {
	desc := strings.HasPrefix(orderBy, "-")
	var fn func(a, b *bill.Bill) int
	switch strings.TrimPrefix(orderBy, "-") {
	case "number":
		fn = func(a, b *bill.Bill) int { return cmp.Compare(a.Number, b.Number) }
	case "nic":
		fn = func(a, b *bill.Bill) int { return cmp.Compare(customerNIC(a), customerNIC(b)) }
	default:
		fn = func(a, b *bill.Bill) int { return a.Time.Compare(b.Time) }
	}
	if desc {
		return func(a, b *bill.Bill) int { return -fn(a, b) }
	}
	return fn
}

func customerNIC(b *bill.Bill) string {
	if b.Customer == nil {
		return ""
	}
	return b.Customer.NIC
}

func (r *Bills) CreateDetails(_ context.Context, dir bill.Direction, billID id.ID) error {
	return r.store.write(func(st *state) error {
		set := st.bills[dir]
		if _, ok := set.headers[billID]; !ok {
			return notFound(dir, billID)
		}
		set.details[billID] = bill.Details{BillID: billID}
		return nil
	})
}

func (r *Bills) GetDetails(_ context.Context, dir bill.Direction, billID id.ID) (*bill.Details, error) {
	var (
		d  bill.Details
		ok bool
	)
	r.store.read(func(st *state) { d, ok = st.bills[dir].details[billID] })
	if !ok {
		return nil, apperror.NewNotFound(string(dir)+" bill details", billID.String())
	}
	return &d, nil
}

func (r *Bills) SaveDetails(_ context.Context, dir bill.Direction, d *bill.Details) error {
	return r.store.write(func(st *state) error {
		set := st.bills[dir]
		if _, ok := set.headers[d.BillID]; !ok {
			return notFound(dir, d.BillID)
		}
		set.details[d.BillID] = *d
		return nil
	})
}

func (r *Bills) DeleteDetails(_ context.Context, dir bill.Direction, billID id.ID) error {
	return r.store.write(func(st *state) error {
		delete(st.bills[dir].details, billID)
		return nil
	})
}

func (r *Bills) AddLine(_ context.Context, dir bill.Direction, line bill.Line) error {
	return r.store.write(func(st *state) error {
		if _, ok := st.bills[dir].headers[line.BillID]; !ok {
			return notFound(dir, line.BillID)
		}
		if _, ok := st.stock[line.StockID]; !ok {
			return apperror.NewValidation("referenced record does not exist").WithDetail("field", "stock_id")
		}
		st.bills[dir].lines = append(st.bills[dir].lines, line)
		return nil
	})
}

func (r *Bills) GetLines(_ context.Context, dir bill.Direction, billID id.ID) ([]bill.Line, error) {
	lines := []bill.Line{}
	r.store.read(func(st *state) {
		for _, l := range st.bills[dir].lines {
			if l.BillID == billID {
				lines = append(lines, l)
			}
		}
	})
	slices.SortFunc(lines, func(a, b bill.Line) int { return cmp.Compare(a.LineNo, b.LineNo) })
	return lines, nil
}

func (r *Bills) DeleteLines(_ context.Context, dir bill.Direction, billID id.ID) error {
	return r.store.write(func(st *state) error {
		set := st.bills[dir]
		set.lines = slices.DeleteFunc(set.lines, func(l bill.Line) bool { return l.BillID == billID })
		return nil
	})
}

// --- Dashboard aggregates ---

// SaleDetailTotals implements reports.Repository.
func (r *Bills) SaleDetailTotals(_ context.Context) ([]string, error) {
	var out []string
	r.store.read(func(st *state) {
		for _, d := range st.bills[bill.DirectionSale].details {
			if d.Total != nil && strings.TrimSpace(*d.Total) != "" {
				out = append(out, *d.Total)
			}
		}
	})
	return out, nil
}

// CountBillsSince implements reports.Repository.
func (r *Bills) CountBillsSince(_ context.Context, dir bill.Direction, since time.Time) (int64, error) {
	var n int64
	r.store.read(func(st *state) {
		for _, b := range st.bills[dir].headers {
			if !b.Time.Before(since) {
				n++
			}
		}
	})
	return n, nil
}

// Counts is a test helper returning header, details and line counts.
func (r *Bills) Counts(dir bill.Direction) (headers, details, lines int) {
	r.store.read(func(st *state) {
		set := st.bills[dir]
		headers, details, lines = len(set.headers), len(set.details), len(set.lines)
	})
	return headers, details, lines
}
