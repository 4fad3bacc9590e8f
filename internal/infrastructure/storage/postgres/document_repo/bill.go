// Package document_repo provides the PostgreSQL implementation of the bill
// repository. Purchase and sale bills live in parallel table sets.
package document_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"posledger/internal/core/apperror"
	"posledger/internal/core/id"
	"posledger/internal/domain"
	"posledger/internal/domain/documents/bill"
	"posledger/internal/infrastructure/storage/postgres"
)

type tableSet struct {
	header     string
	details    string
	lines      string
	headerCols []string
	detailCols []string
	searchCols []string
	sortCols   map[string]string
	defaultOrd string
}

var (
	lineCols = postgres.ExtractDBColumns[bill.Line]()

	tableSets = map[bill.Direction]tableSet{
		bill.DirectionPurchase: {
			header:     "purchase_bills",
			details:    "purchase_bill_details",
			lines:      "purchase_items",
			headerCols: []string{"id", "number", "time", "created_by", "supplier_id"},
			detailCols: []string{"bill_id", "eway", "veh", "destination", "po", "bank", "acno", "addr", "total"},
			searchCols: []string{"number"},
			sortCols:   map[string]string{"time": "time", "number": "number"},
			defaultOrd: "-time",
		},
		bill.DirectionSale: {
			header:  "sale_bills",
			details: "sale_bill_details",
			lines:   "sale_items",
			headerCols: []string{
				"id", "number", "time", "created_by",
				"customer_name", "customer_phone", "customer_address", "customer_email", "customer_nic",
			},
			detailCols: []string{"bill_id", "eway", "veh", "destination", "po", "addr", "total"},
			searchCols: []string{"number", "customer_name", "customer_nic"},
			sortCols:   map[string]string{"time": "time", "number": "number", "nic": "customer_nic"},
			defaultOrd: "nic",
		},
	}
)

// HeaderTable returns the header table of dir.
func HeaderTable(dir bill.Direction) string {
	return tableSets[dir].header
}

func tablesFor(dir bill.Direction) (tableSet, error) {
	ts, ok := tableSets[dir]
	if !ok {
		return tableSet{}, apperror.NewValidation("unknown bill direction").
			WithDetail("field", "direction").
			WithDetail("value", string(dir))
	}
	return ts, nil
}

// headerRow is the union of both header layouts; only the columns of one
// direction are selected at a time.
type headerRow struct {
	ID              id.ID     `db:"id"`
	Number          string    `db:"number"`
	Time            time.Time `db:"time"`
	CreatedBy       string    `db:"created_by"`
	SupplierID      *id.ID    `db:"supplier_id"`
	CustomerName    string    `db:"customer_name"`
	CustomerPhone   string    `db:"customer_phone"`
	CustomerAddress string    `db:"customer_address"`
	CustomerEmail   string    `db:"customer_email"`
	CustomerNIC     string    `db:"customer_nic"`
}

func toRow(b *bill.Bill) headerRow {
	row := headerRow{
		ID:         b.ID,
		Number:     b.Number,
		Time:       b.Time,
		CreatedBy:  b.CreatedBy,
		SupplierID: b.SupplierID,
	}
	if c := b.Customer; c != nil {
		row.CustomerName = c.Name
		row.CustomerPhone = c.Phone
		row.CustomerAddress = c.Address
		row.CustomerEmail = c.Email
		row.CustomerNIC = c.NIC
	}
	return row
}

func (row *headerRow) toBill(dir bill.Direction) *bill.Bill {
	b := &bill.Bill{
		ID:        row.ID,
		Direction: dir,
		Number:    row.Number,
		Time:      row.Time,
		CreatedBy: row.CreatedBy,
	}
	if dir == bill.DirectionPurchase {
		b.SupplierID = row.SupplierID
	} else {
		b.Customer = &bill.Customer{
			Name:    row.CustomerName,
			Phone:   row.CustomerPhone,
			Address: row.CustomerAddress,
			Email:   row.CustomerEmail,
			NIC:     row.CustomerNIC,
		}
	}
	return b
}

// BillRepo implements bill.Repository.
type BillRepo struct {
	txManager *postgres.TxManager
}

var _ bill.Repository = (*BillRepo)(nil)

// NewBillRepo creates a new bill repository.
func NewBillRepo(txManager *postgres.TxManager) *BillRepo {
	return &BillRepo{txManager: txManager}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BillRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BillRepo) exec(ctx context.Context, entityName string, q squirrel.Sqlizer) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapWriteError(entityName, err)
	}
	return tag.RowsAffected(), nil
}

func entityName(dir bill.Direction) string {
	return string(dir) + " bill"
}

// --- Header ---

func (r *BillRepo) Create(ctx context.Context, b *bill.Bill) error {
	ts, err := tablesFor(b.Direction)
	if err != nil {
		return err
	}
	data := postgres.PickColumns(postgres.StructToMap(toRow(b)), ts.headerCols)
	_, err = r.exec(ctx, entityName(b.Direction), r.Builder().Insert(ts.header).SetMap(data))
	return err
}

func (r *BillRepo) GetByID(ctx context.Context, dir bill.Direction, billID id.ID) (*bill.Bill, error) {
	return r.getHeader(ctx, dir, billID, false)
}

func (r *BillRepo) GetForUpdate(ctx context.Context, dir bill.Direction, billID id.ID) (*bill.Bill, error) {
	return r.getHeader(ctx, dir, billID, true)
}

func (r *BillRepo) getHeader(ctx context.Context, dir bill.Direction, billID id.ID, lock bool) (*bill.Bill, error) {
	ts, err := tablesFor(dir)
	if err != nil {
		return nil, err
	}

	q := r.Builder().
		Select(ts.headerCols...).
		From(ts.header).
		Where(squirrel.Eq{"id": billID})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row headerRow
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(entityName(dir), billID.String())
		}
		return nil, fmt.Errorf("get %s: %w", ts.header, err)
	}
	return row.toBill(dir), nil
}

func (r *BillRepo) DeleteHeader(ctx context.Context, dir bill.Direction, billID id.ID) error {
	ts, err := tablesFor(dir)
	if err != nil {
		return err
	}
	n, err := r.exec(ctx, entityName(dir), r.Builder().Delete(ts.header).Where(squirrel.Eq{"id": billID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound(entityName(dir), billID.String())
	}
	return nil
}

// listQuery applies filter conditions without ordering or paging.
func (r *BillRepo) listQuery(ts tableSet, filter bill.ListFilter) squirrel.SelectBuilder {
	q := r.Builder().
		Select(ts.headerCols...).
		From(ts.header)

	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"time": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"time": *filter.DateTo})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + s + "%"
		or := make(squirrel.Or, 0, len(ts.searchCols))
		for _, col := range ts.searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}
	return q
}

func (r *BillRepo) List(ctx context.Context, filter bill.ListFilter) (domain.ListResult[*bill.Bill], error) {
	result := domain.ListResult[*bill.Bill]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	ts, err := tablesFor(filter.Direction)
	if err != nil {
		return result, err
	}

	q := r.listQuery(ts, filter)

	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := parseOrderBy(ts, filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	var rows []headerRow
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", ts.header, err)
	}

	result.Items = make([]*bill.Bill, 0, len(rows))
	for i := range rows {
		result.Items = append(result.Items, rows[i].toBill(filter.Direction))
	}
	return result, nil
}

// parseOrderBy maps "nic" / "-time" onto the direction's columns.
func parseOrderBy(ts tableSet, orderBy string) (string, error) {
	if orderBy == "" {
		orderBy = ts.defaultOrd
	}

	dir := "ASC"
	key := orderBy
	if strings.HasPrefix(key, "-") {
		dir = "DESC"
		key = key[1:]
	}

	col, ok := ts.sortCols[key]
	if !ok {
		return "", apperror.NewValidation("invalid sort column").
			WithDetail("field", "orderBy").
			WithDetail("value", orderBy)
	}
	return col + " " + dir + ", id " + dir, nil
}

// --- Details ---

func (r *BillRepo) CreateDetails(ctx context.Context, dir bill.Direction, billID id.ID) error {
	ts, err := tablesFor(dir)
	if err != nil {
		return err
	}
	_, err = r.exec(ctx, entityName(dir), r.Builder().
		Insert(ts.details).
		Columns("bill_id").
		Values(billID))
	return err
}

func (r *BillRepo) GetDetails(ctx context.Context, dir bill.Direction, billID id.ID) (*bill.Details, error) {
	ts, err := tablesFor(dir)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.Builder().
		Select(ts.detailCols...).
		From(ts.details).
		Where(squirrel.Eq{"bill_id": billID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var d bill.Details
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &d, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(entityName(dir)+" details", billID.String())
		}
		return nil, fmt.Errorf("get %s: %w", ts.details, err)
	}
	return &d, nil
}

// SaveDetails replaces every details column, creating the row when it is
// missing. Columns absent from the direction (bank, acno on sales) are
// never written.
func (r *BillRepo) SaveDetails(ctx context.Context, dir bill.Direction, d *bill.Details) error {
	ts, err := tablesFor(dir)
	if err != nil {
		return err
	}
	_, err = r.exec(ctx, entityName(dir), r.saveDetailsQuery(ts, d))
	return err
}

func (r *BillRepo) saveDetailsQuery(ts tableSet, d *bill.Details) squirrel.InsertBuilder {
	data := postgres.PickColumns(postgres.StructToMap(d), ts.detailCols)
	updates := make([]string, 0, len(ts.detailCols)-1)
	for _, col := range ts.detailCols {
		if col == "bill_id" {
			continue
		}
		updates = append(updates, col+" = EXCLUDED."+col)
	}

	return r.Builder().
		Insert(ts.details).
		SetMap(data).
		Suffix("ON CONFLICT (bill_id) DO UPDATE SET " + strings.Join(updates, ", "))
}

func (r *BillRepo) DeleteDetails(ctx context.Context, dir bill.Direction, billID id.ID) error {
	ts, err := tablesFor(dir)
	if err != nil {
		return err
	}
	_, err = r.exec(ctx, entityName(dir), r.Builder().Delete(ts.details).Where(squirrel.Eq{"bill_id": billID}))
	return err
}

// --- Lines ---

func (r *BillRepo) AddLine(ctx context.Context, dir bill.Direction, line bill.Line) error {
	ts, err := tablesFor(dir)
	if err != nil {
		return err
	}
	data := postgres.PickColumns(postgres.StructToMap(line), lineCols)
	_, err = r.exec(ctx, entityName(dir), r.Builder().Insert(ts.lines).SetMap(data))
	return err
}

func (r *BillRepo) GetLines(ctx context.Context, dir bill.Direction, billID id.ID) ([]bill.Line, error) {
	ts, err := tablesFor(dir)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.Builder().
		Select(lineCols...).
		From(ts.lines).
		Where(squirrel.Eq{"bill_id": billID}).
		OrderBy("line_no ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	lines := make([]bill.Line, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", ts.lines, err)
	}
	return lines, nil
}

func (r *BillRepo) DeleteLines(ctx context.Context, dir bill.Direction, billID id.ID) error {
	ts, err := tablesFor(dir)
	if err != nil {
		return err
	}
	_, err = r.exec(ctx, entityName(dir), r.Builder().Delete(ts.lines).Where(squirrel.Eq{"bill_id": billID}))
	return err
}
