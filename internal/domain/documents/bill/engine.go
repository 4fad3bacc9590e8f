package bill

import (
	"context"
	"fmt"
	"strings"
	"time"

	"posledger/internal/core/apperror"
	appctx "posledger/internal/core/context"
	"posledger/internal/core/id"
	"posledger/internal/core/numerator"
	"posledger/internal/core/tx"
	"posledger/internal/core/types"
	"posledger/internal/core/validate"
	"posledger/internal/domain"
	"posledger/internal/domain/audit"
	"posledger/internal/domain/catalogs/stockitem"
	"posledger/internal/domain/catalogs/supplier"
	"posledger/pkg/logger"
)

const auditEntity = "bill"

// StockLedger is the part of the stock item service the engine needs.
type StockLedger interface {
	Lock(ctx context.Context, itemID id.ID) (*stockitem.StockItem, error)
	Adjust(ctx context.Context, itemID id.ID, delta int) (int, error)
}

// SupplierResolver resolves the supplier of a new purchase bill.
type SupplierResolver interface {
	ResolveActive(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error)
}

// Observer is notified after a bill operation commits.
type Observer interface {
	BillCreated(dir Direction, lines int)
	BillDeleted(dir Direction)
}

type nopObserver struct{}

func (nopObserver) BillCreated(Direction, int) {}
func (nopObserver) BillDeleted(Direction)      {}

// Config holds engine policy.
type Config struct {
	// AllowNegativeStock lets a sale drive quantity below zero.
	AllowNegativeStock bool
}

// Engine creates and tears down bill aggregates and keeps the stock ledger
// consistent with them. Every mutating call is one transaction.
type Engine struct {
	repo      Repository
	stock     StockLedger
	suppliers SupplierResolver
	numerator numerator.Generator
	txManager tx.Manager
	audit     audit.Recorder
	observer  Observer
	cfg       Config
	now       func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithAudit sets the recorder for deleted and edited bills.
func WithAudit(r audit.Recorder) Option {
	return func(e *Engine) { e.audit = r }
}

// WithObserver sets the post-commit observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a new bill engine.
func NewEngine(
	repo Repository,
	stock StockLedger,
	suppliers SupplierResolver,
	gen numerator.Generator,
	txManager tx.Manager,
	cfg Config,
	opts ...Option,
) *Engine {
	e := &Engine{
		repo:      repo,
		stock:     stock,
		suppliers: suppliers,
		numerator: gen,
		txManager: txManager,
		audit:     audit.Nop{},
		observer:  nopObserver{},
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create builds a bill aggregate: header, empty details, then one line and
// one stock adjustment per input line. Any failure rolls back all of it.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*Bill, error) {
	if err := e.validateCreate(in); err != nil {
		return nil, err
	}

	var b *Bill
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		header, err := e.newHeader(ctx, in)
		if err != nil {
			return err
		}
		if err := e.repo.Create(ctx, header); err != nil {
			return fmt.Errorf("create bill header: %w", err)
		}
		if err := e.repo.CreateDetails(ctx, in.Direction, header.ID); err != nil {
			return fmt.Errorf("create bill details: %w", err)
		}

		lines := make([]Line, 0, len(in.Lines))
		for i, li := range in.Lines {
			line, err := e.applyLine(ctx, header, i+1, li)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}

		header.Details = &Details{BillID: header.ID}
		header.Lines = lines
		header.Total = GrandTotal(lines)
		b = header
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.observer.BillCreated(b.Direction, len(b.Lines))
	logger.Info(ctx, "bill created",
		"direction", b.Direction,
		"id", b.ID,
		"number", b.Number,
		"lines", len(b.Lines),
		"total", b.Total.String())

	return b, nil
}

func (e *Engine) validateCreate(in CreateInput) error {
	if !in.Direction.Valid() {
		return apperror.NewValidation("unknown bill direction").
			WithDetail("field", "direction").
			WithDetail("value", string(in.Direction))
	}

	switch in.Direction {
	case DirectionPurchase:
		if id.IsNil(in.SupplierID) {
			return apperror.NewValidation("supplier is required").
				WithDetail("field", "supplierId")
		}
	case DirectionSale:
		if in.Customer == nil {
			return apperror.NewValidation("customer is required").
				WithDetail("field", "customer")
		}
		in.Customer.normalize()
		if err := validate.Struct(in.Customer); err != nil {
			return err
		}
	}

	for i, l := range in.Lines {
		lineNo := i + 1
		if id.IsNil(l.StockID) {
			return lineError("stock item is required", "stockId", lineNo)
		}
		if l.Quantity <= 0 {
			return lineError("quantity must be positive", "quantity", lineNo)
		}
		if !l.PerPrice.IsPositive() {
			return lineError("price must be positive", "perPrice", lineNo)
		}
	}
	return nil
}

func lineError(msg, field string, lineNo int) *apperror.AppError {
	return apperror.NewValidation(msg).
		WithDetail("field", "lines").
		WithDetail("lineField", field).
		WithDetail("lineNo", lineNo)
}

func (e *Engine) newHeader(ctx context.Context, in CreateInput) (*Bill, error) {
	now := e.now().UTC()
	b := &Bill{
		ID:        id.New(),
		Direction: in.Direction,
		Time:      now,
		CreatedBy: appctx.GetUsername(ctx),
	}

	switch in.Direction {
	case DirectionPurchase:
		sup, err := e.suppliers.ResolveActive(ctx, in.SupplierID)
		if err != nil {
			return nil, err
		}
		supplierID := sup.ID
		b.SupplierID = &supplierID
	case DirectionSale:
		customer := *in.Customer
		b.Customer = &customer
	}

	number, err := e.numerator.Next(ctx, in.Direction.NumberPrefix(), now)
	if err != nil {
		return nil, fmt.Errorf("generate bill number: %w", err)
	}
	b.Number = number
	return b, nil
}

func (e *Engine) applyLine(ctx context.Context, b *Bill, lineNo int, in LineInput) (Line, error) {
	item, err := e.stock.Lock(ctx, in.StockID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return Line{}, lineError("stock item not found", "stockId", lineNo).
				WithDetail("stockId", in.StockID.String())
		}
		return Line{}, err
	}
	if item.IsDeleted() {
		return Line{}, lineError("stock item is deleted", "stockId", lineNo).
			WithDetail("stockId", in.StockID.String())
	}

	delta := b.Direction.StockDelta(in.Quantity)
	if !e.cfg.AllowNegativeStock && item.Quantity+delta < 0 {
		return Line{}, apperror.NewInsufficientStock(in.StockID.String(), in.Quantity, item.Quantity).
			WithDetail("lineNo", lineNo)
	}

	line := Line{
		ID:         id.New(),
		BillID:     b.ID,
		LineNo:     lineNo,
		StockID:    in.StockID,
		Quantity:   in.Quantity,
		PerPrice:   in.PerPrice,
		TotalPrice: types.LineTotal(in.Quantity, in.PerPrice),
	}
	if err := e.repo.AddLine(ctx, b.Direction, line); err != nil {
		return Line{}, fmt.Errorf("add bill line %d: %w", lineNo, err)
	}
	if _, err := e.stock.Adjust(ctx, in.StockID, delta); err != nil {
		return Line{}, err
	}
	return line, nil
}

// Delete removes a bill aggregate and reverses its stock adjustments.
// Items soft-deleted since the bill was created keep their quantity.
func (e *Engine) Delete(ctx context.Context, dir Direction, billID id.ID) error {
	if !dir.Valid() {
		return apperror.NewValidation("unknown bill direction").WithDetail("value", string(dir))
	}

	var lineCount int
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := e.load(ctx, dir, billID, true)
		if err != nil {
			return err
		}
		lineCount = len(b.Lines)

		for _, l := range b.Lines {
			item, err := e.stock.Lock(ctx, l.StockID)
			if err != nil {
				return err
			}
			if item.IsDeleted() {
				continue
			}
			if _, err := e.stock.Adjust(ctx, l.StockID, -dir.StockDelta(l.Quantity)); err != nil {
				return err
			}
		}

		if err := e.repo.DeleteLines(ctx, dir, billID); err != nil {
			return fmt.Errorf("delete bill lines: %w", err)
		}
		if err := e.repo.DeleteDetails(ctx, dir, billID); err != nil {
			return fmt.Errorf("delete bill details: %w", err)
		}
		if err := e.repo.DeleteHeader(ctx, dir, billID); err != nil {
			return fmt.Errorf("delete bill header: %w", err)
		}

		return e.record(ctx, b, audit.ActionDelete)
	})
	if err != nil {
		return err
	}

	e.observer.BillDeleted(dir)
	logger.Info(ctx, "bill deleted", "direction", dir, "id", billID, "lines", lineCount)
	return nil
}

// UpdateDetails overwrites the logistics fields of a bill.
func (e *Engine) UpdateDetails(ctx context.Context, dir Direction, billID id.ID, in DetailsInput) (*Details, error) {
	if !dir.Valid() {
		return nil, apperror.NewValidation("unknown bill direction").WithDetail("value", string(dir))
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if dir == DirectionSale && (filled(in.Bank) || filled(in.AccountNo)) {
		return nil, apperror.NewValidation("sale bills have no bank details").
			WithDetail("field", "bank")
	}

	d := &Details{
		BillID:      billID,
		Eway:        in.Eway,
		Veh:         in.Veh,
		Destination: in.Destination,
		PO:          in.PO,
		Bank:        in.Bank,
		AccountNo:   in.AccountNo,
		Address:     in.Address,
		Total:       in.Total,
	}

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := e.repo.GetForUpdate(ctx, dir, billID)
		if err != nil {
			return e.notFound(err, dir, billID)
		}
		if err := e.repo.SaveDetails(ctx, dir, d); err != nil {
			return fmt.Errorf("save bill details: %w", err)
		}
		b.Details = d
		return e.record(ctx, b, audit.ActionUpdateDetails)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func filled(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// Get returns the full aggregate with its grand total.
func (e *Engine) Get(ctx context.Context, dir Direction, billID id.ID) (*Bill, error) {
	if !dir.Valid() {
		return nil, apperror.NewValidation("unknown bill direction").WithDetail("value", string(dir))
	}
	return e.load(ctx, dir, billID, false)
}

// List returns bill headers. Totals are not loaded.
func (e *Engine) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Bill], error) {
	if !filter.Direction.Valid() {
		return domain.ListResult[*Bill]{}, apperror.NewValidation("unknown bill direction").
			WithDetail("value", string(filter.Direction))
	}
	if filter.Direction == DirectionSale && filter.SupplierID != nil {
		return domain.ListResult[*Bill]{}, apperror.NewValidation("sale bills have no supplier").
			WithDetail("field", "supplierId")
	}
	filter.ListFilter = filter.ListFilter.Normalize()
	return e.repo.List(ctx, filter)
}

// ListBySupplier returns a supplier's purchase bills, newest first.
func (e *Engine) ListBySupplier(ctx context.Context, supplierID id.ID, page domain.ListFilter) (domain.ListResult[*Bill], error) {
	if page.OrderBy == "" {
		page.OrderBy = "-time"
	}
	return e.List(ctx, ListFilter{
		ListFilter: page,
		Direction:  DirectionPurchase,
		SupplierID: &supplierID,
	})
}

func (e *Engine) load(ctx context.Context, dir Direction, billID id.ID, lock bool) (*Bill, error) {
	var (
		b   *Bill
		err error
	)
	if lock {
		b, err = e.repo.GetForUpdate(ctx, dir, billID)
	} else {
		b, err = e.repo.GetByID(ctx, dir, billID)
	}
	if err != nil {
		return nil, e.notFound(err, dir, billID)
	}

	if b.Details, err = e.repo.GetDetails(ctx, dir, billID); err != nil && !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("get bill details: %w", err)
	}
	if b.Lines, err = e.repo.GetLines(ctx, dir, billID); err != nil {
		return nil, fmt.Errorf("get bill lines: %w", err)
	}
	b.Total = GrandTotal(b.Lines)
	return b, nil
}

func (e *Engine) notFound(err error, dir Direction, billID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(string(dir)+" bill", billID.String())
	}
	return err
}

func (e *Engine) record(ctx context.Context, b *Bill, action audit.Action) error {
	entry, err := audit.NewEntry(ctx, auditEntity+"."+string(b.Direction), b.ID, action, b)
	if err != nil {
		return err
	}
	if err := e.audit.Record(ctx, entry); err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}
