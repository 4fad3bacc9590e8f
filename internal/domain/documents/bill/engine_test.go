package bill_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posledger/internal/core/apperror"
	appctx "posledger/internal/core/context"
	"posledger/internal/core/id"
	"posledger/internal/core/types"
	"posledger/internal/domain"
	"posledger/internal/domain/catalogs/party"
	"posledger/internal/domain/catalogs/stockitem"
	"posledger/internal/domain/catalogs/supplier"
	"posledger/internal/domain/documents/bill"
	"posledger/internal/testing/memstore"
)

type fixture struct {
	ctx       context.Context
	store     *memstore.Store
	stock     *memstore.StockItems
	bills     *memstore.Bills
	stockSvc  *stockitem.Service
	suppliers *supplier.Service
	engine    *bill.Engine
	observer  *countingObserver
}

type countingObserver struct {
	created map[bill.Direction]int
	deleted map[bill.Direction]int
}

func (o *countingObserver) BillCreated(dir bill.Direction, _ int) { o.created[dir]++ }
func (o *countingObserver) BillDeleted(dir bill.Direction)        { o.deleted[dir]++ }

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func newFixture(t *testing.T, cfg bill.Config) *fixture {
	t.Helper()

	store := memstore.New()
	txm := store.TxManager()
	stockRepo := store.StockItems()
	f := &fixture{
		ctx:       appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "u-1", Username: "cashier"}),
		store:     store,
		stock:     stockRepo,
		bills:     store.Bills(),
		stockSvc:  stockitem.NewService(stockRepo, txm),
		suppliers: supplier.NewService(store.Suppliers(), txm),
		observer: &countingObserver{
			created: map[bill.Direction]int{},
			deleted: map[bill.Direction]int{},
		},
	}
	f.engine = bill.NewEngine(
		f.bills,
		f.stockSvc,
		f.suppliers,
		store.Numerator(),
		txm,
		cfg,
		bill.WithAudit(store.AuditRecorder()),
		bill.WithObserver(f.observer),
		bill.WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

func (f *fixture) addStock(t *testing.T, name string, qty int) id.ID {
	t.Helper()
	item := stockitem.NewStockItem(name, "M-"+name, "Acme")
	item.Quantity = qty
	require.NoError(t, f.stockSvc.Create(f.ctx, item))
	return item.ID
}

func (f *fixture) addSupplier(t *testing.T, name, phone, nic string) id.ID {
	t.Helper()
	s := supplier.NewSupplier(name, party.Contact{
		Phone:   phone,
		Address: "12 Harbour Road",
		Email:   strings.ToLower(name) + "@example.com",
		NIC:     nic,
	})
	require.NoError(t, f.suppliers.Create(f.ctx, s))
	return s.ID
}

func customer() *bill.Customer {
	return &bill.Customer{
		Name:    "Nimal Perera",
		Phone:   "0771234567",
		Address: "5 Temple Lane",
		Email:   "nimal@example.com",
		NIC:     "851234567V",
	}
}

func money(v int64) types.Money { return types.NewMoneyFromInt(v) }

func TestCreatePurchase_IncrementsStock(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	supplierID := f.addSupplier(t, "Lanka", "0112345678", "771234567V")
	a := f.addStock(t, "Cement", 10)
	b := f.addStock(t, "Sand", 0)

	created, err := f.engine.Create(f.ctx, bill.CreateInput{
		Direction:  bill.DirectionPurchase,
		SupplierID: supplierID,
		Lines: []bill.LineInput{
			{StockID: a, Quantity: 4, PerPrice: money(250)},
			{StockID: b, Quantity: 7, PerPrice: types.MustMoney("12.50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "PB-2026-00001", created.Number)
	assert.Equal(t, fixedNow, created.Time)
	assert.Equal(t, "cashier", created.CreatedBy)
	require.NotNil(t, created.SupplierID)
	assert.Equal(t, supplierID, *created.SupplierID)
	require.Len(t, created.Lines, 2)
	assert.True(t, created.Lines[0].TotalPrice.Equal(money(1000)))
	assert.True(t, created.Lines[1].TotalPrice.Equal(types.MustMoney("87.50")))
	assert.True(t, created.Total.Equal(types.MustMoney("1087.50")))

	assert.Equal(t, 14, f.stock.Quantity(a))
	assert.Equal(t, 7, f.stock.Quantity(b))
	assert.Equal(t, 1, f.observer.created[bill.DirectionPurchase])

	got, err := f.engine.Get(f.ctx, bill.DirectionPurchase, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 2)
	assert.Equal(t, 1, got.Lines[0].LineNo)
	require.NotNil(t, got.Details)
	assert.Nil(t, got.Details.Eway)
	assert.True(t, got.Total.Equal(created.Total))
}

func TestCreateSale_DecrementsBelowZeroByDefault(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	a := f.addStock(t, "Paint", 2)

	_, err := f.engine.Create(f.ctx, bill.CreateInput{
		Direction: bill.DirectionSale,
		Customer:  customer(),
		Lines:     []bill.LineInput{{StockID: a, Quantity: 5, PerPrice: money(10)}},
	})
	require.NoError(t, err)
	assert.Equal(t, -3, f.stock.Quantity(a))
}

func TestCreateSale_ThenDelete_RestoresQuantity(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	a := f.addStock(t, "Tiles", 10)

	sale, err := f.engine.Create(f.ctx, bill.CreateInput{
		Direction: bill.DirectionSale,
		Customer:  customer(),
		Lines:     []bill.LineInput{{StockID: a, Quantity: 3, PerPrice: money(5)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, f.stock.Quantity(a))
	require.Len(t, sale.Lines, 1)
	assert.True(t, sale.Lines[0].TotalPrice.Equal(money(15)))
	assert.Equal(t, "SB-2026-00001", sale.Number)

	require.NoError(t, f.engine.Delete(f.ctx, bill.DirectionSale, sale.ID))
	assert.Equal(t, 10, f.stock.Quantity(a))

	headers, details, lines := f.bills.Counts(bill.DirectionSale)
	assert.Zero(t, headers)
	assert.Zero(t, details)
	assert.Zero(t, lines)

	_, err = f.engine.Get(f.ctx, bill.DirectionSale, sale.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 1, f.observer.deleted[bill.DirectionSale])
}

func TestPurchaseCreateDelete_RoundTrip(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	supplierID := f.addSupplier(t, "Lanka", "0112345678", "771234567V")
	a := f.addStock(t, "Pipe", 3)
	b := f.addStock(t, "Valve", 8)

	p, err := f.engine.Create(f.ctx, bill.CreateInput{
		Direction:  bill.DirectionPurchase,
		SupplierID: supplierID,
		Lines: []bill.LineInput{
			{StockID: a, Quantity: 2, PerPrice: money(40)},
			{StockID: b, Quantity: 1, PerPrice: money(90)},
			{StockID: a, Quantity: 5, PerPrice: money(38)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, f.stock.Quantity(a))
	assert.Equal(t, 9, f.stock.Quantity(b))

	require.NoError(t, f.engine.Delete(f.ctx, bill.DirectionPurchase, p.ID))
	assert.Equal(t, 3, f.stock.Quantity(a))
	assert.Equal(t, 8, f.stock.Quantity(b))
}

func TestDelete_SkipsSoftDeletedItems(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	a := f.addStock(t, "Wire", 10)
	b := f.addStock(t, "Switch", 10)

	sale, err := f.engine.Create(f.ctx, bill.CreateInput{
		Direction: bill.DirectionSale,
		Customer:  customer(),
		Lines: []bill.LineInput{
			{StockID: a, Quantity: 4, PerPrice: money(3)},
			{StockID: b, Quantity: 2, PerPrice: money(7)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.stockSvc.SoftDelete(f.ctx, a))
	require.NoError(t, f.engine.Delete(f.ctx, bill.DirectionSale, sale.ID))

	assert.Equal(t, 6, f.stock.Quantity(a), "deleted item keeps its quantity")
	assert.Equal(t, 10, f.stock.Quantity(b))
}

func TestStaleStockEdit_RejectedAfterBillAdjustments(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	supplierID := f.addSupplier(t, "Lanka", "0112345678", "771234567V")
	a := f.addStock(t, "Cable", 10)

	t.Run("after create", func(t *testing.T) {
		form, err := f.stockSvc.GetByID(f.ctx, a)
		require.NoError(t, err)

		_, err = f.engine.Create(f.ctx, bill.CreateInput{
			Direction: bill.DirectionSale,
			Customer:  customer(),
			Lines:     []bill.LineInput{{StockID: a, Quantity: 3, PerPrice: money(5)}},
		})
		require.NoError(t, err)

		form.Quantity = 10
		err = f.stockSvc.Update(f.ctx, form)
		assert.True(t, apperror.IsConcurrentModification(err), "got %v", err)
		assert.Equal(t, 7, f.stock.Quantity(a))
	})

	t.Run("after delete", func(t *testing.T) {
		p, err := f.engine.Create(f.ctx, bill.CreateInput{
			Direction:  bill.DirectionPurchase,
			SupplierID: supplierID,
			Lines:      []bill.LineInput{{StockID: a, Quantity: 5, PerPrice: money(4)}},
		})
		require.NoError(t, err)
		require.Equal(t, 12, f.stock.Quantity(a))

		form, err := f.stockSvc.GetByID(f.ctx, a)
		require.NoError(t, err)

		require.NoError(t, f.engine.Delete(f.ctx, bill.DirectionPurchase, p.ID))

		form.Quantity = 12
		err = f.stockSvc.Update(f.ctx, form)
		assert.True(t, apperror.IsConcurrentModification(err), "got %v", err)
		assert.Equal(t, 7, f.stock.Quantity(a))
	})

	t.Run("fresh form succeeds", func(t *testing.T) {
		form, err := f.stockSvc.GetByID(f.ctx, a)
		require.NoError(t, err)
		form.Quantity = 20
		require.NoError(t, f.stockSvc.Update(f.ctx, form))
		assert.Equal(t, 20, f.stock.Quantity(a))
	})
}

func TestCreatePurchase_EmptyLines(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	supplierID := f.addSupplier(t, "Lanka", "0112345678", "771234567V")
	a := f.addStock(t, "Nails", 5)

	p, err := f.engine.Create(f.ctx, bill.CreateInput{
		Direction:  bill.DirectionPurchase,
		SupplierID: supplierID,
	})
	require.NoError(t, err)
	assert.Empty(t, p.Lines)
	assert.True(t, p.Total.IsZero())

	headers, details, lines := f.bills.Counts(bill.DirectionPurchase)
	assert.Equal(t, 1, headers)
	assert.Equal(t, 1, details)
	assert.Zero(t, lines)
	assert.Equal(t, 5, f.stock.Quantity(a))
}

func TestCreate_UnknownStockRollsBackEverything(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	a := f.addStock(t, "Glue", 10)

	_, err := f.engine.Create(f.ctx, bill.CreateInput{
		Direction: bill.DirectionSale,
		Customer:  customer(),
		Lines: []bill.LineInput{
			{StockID: a, Quantity: 2, PerPrice: money(5)},
			{StockID: id.New(), Quantity: 1, PerPrice: money(5)},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 2, appErr.Details["lineNo"])

	assert.Equal(t, 10, f.stock.Quantity(a), "first line's decrement is rolled back")
	headers, details, lines := f.bills.Counts(bill.DirectionSale)
	assert.Zero(t, headers+details+lines)

	next, err := f.engine.Create(f.ctx, bill.CreateInput{Direction: bill.DirectionSale, Customer: customer()})
	require.NoError(t, err)
	assert.Equal(t, "SB-2026-00001", next.Number, "rolled back bill does not consume a number")
}

func TestCreate_StorageFailureRollsBack(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	a := f.addStock(t, "Brick", 50)

	// numerator, header, details, line 1, adjust 1, line 2 <- fails
	f.store.FailOnWrite(6)
	_, err := f.engine.Create(f.ctx, bill.CreateInput{
		Direction: bill.DirectionSale,
		Customer:  customer(),
		Lines: []bill.LineInput{
			{StockID: a, Quantity: 5, PerPrice: money(2)},
			{StockID: a, Quantity: 5, PerPrice: money(2)},
		},
	})
	require.ErrorIs(t, err, memstore.ErrInjected)
	assert.Equal(t, 50, f.stock.Quantity(a))
}

func TestCreate_DeletedStockRejected(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	a := f.addStock(t, "Hinge", 10)
	require.NoError(t, f.stockSvc.SoftDelete(f.ctx, a))

	_, err := f.engine.Create(f.ctx, bill.CreateInput{
		Direction: bill.DirectionSale,
		Customer:  customer(),
		Lines:     []bill.LineInput{{StockID: a, Quantity: 1, PerPrice: money(5)}},
	})
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, 10, f.stock.Quantity(a))
}

func TestCreate_NegativeStockGuard(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: false})
	a := f.addStock(t, "Lamp", 4)

	_, err := f.engine.Create(f.ctx, bill.CreateInput{
		Direction: bill.DirectionSale,
		Customer:  customer(),
		Lines: []bill.LineInput{
			{StockID: a, Quantity: 3, PerPrice: money(5)},
			{StockID: a, Quantity: 2, PerPrice: money(5)},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 1, appErr.Details["available"])
	assert.Equal(t, 2, appErr.Details["requested"])
	assert.Equal(t, 4, f.stock.Quantity(a))

	_, err = f.engine.Create(f.ctx, bill.CreateInput{
		Direction: bill.DirectionSale,
		Customer:  customer(),
		Lines:     []bill.LineInput{{StockID: a, Quantity: 4, PerPrice: money(5)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock.Quantity(a))
}

func TestDeletePurchase_NotBlockedByGuard(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: false})
	supplierID := f.addSupplier(t, "Lanka", "0112345678", "771234567V")
	a := f.addStock(t, "Fan", 0)

	p, err := f.engine.Create(f.ctx, bill.CreateInput{
		Direction:  bill.DirectionPurchase,
		SupplierID: supplierID,
		Lines:      []bill.LineInput{{StockID: a, Quantity: 5, PerPrice: money(20)}},
	})
	require.NoError(t, err)

	_, err = f.engine.Create(f.ctx, bill.CreateInput{
		Direction: bill.DirectionSale,
		Customer:  customer(),
		Lines:     []bill.LineInput{{StockID: a, Quantity: 4, PerPrice: money(30)}},
	})
	require.NoError(t, err)

	require.NoError(t, f.engine.Delete(f.ctx, bill.DirectionPurchase, p.ID))
	assert.Equal(t, -4, f.stock.Quantity(a))
}

func TestCreatePurchase_SupplierChecks(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})

	_, err := f.engine.Create(f.ctx, bill.CreateInput{
		Direction:  bill.DirectionPurchase,
		SupplierID: id.New(),
	})
	assert.True(t, apperror.IsNotFound(err))

	supplierID := f.addSupplier(t, "Lanka", "0112345678", "771234567V")
	require.NoError(t, f.suppliers.Delete(f.ctx, supplierID))

	_, err = f.engine.Create(f.ctx, bill.CreateInput{
		Direction:  bill.DirectionPurchase,
		SupplierID: supplierID,
	})
	assert.True(t, apperror.IsValidation(err))

	_, err = f.engine.Create(f.ctx, bill.CreateInput{Direction: bill.DirectionPurchase})
	assert.True(t, apperror.IsValidation(err))
}

func TestCreate_InputValidation(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	a := f.addStock(t, "Rope", 10)

	missingEmail := customer()
	missingEmail.Email = ""

	tests := []struct {
		name string
		in   bill.CreateInput
	}{
		{"unknown direction", bill.CreateInput{Direction: "transfer"}},
		{"sale without customer", bill.CreateInput{Direction: bill.DirectionSale}},
		{"customer without email", bill.CreateInput{Direction: bill.DirectionSale, Customer: missingEmail}},
		{"zero quantity", bill.CreateInput{
			Direction: bill.DirectionSale, Customer: customer(),
			Lines: []bill.LineInput{{StockID: a, Quantity: 0, PerPrice: money(1)}},
		}},
		{"zero price", bill.CreateInput{
			Direction: bill.DirectionSale, Customer: customer(),
			Lines: []bill.LineInput{{StockID: a, Quantity: 1, PerPrice: money(0)}},
		}},
		{"missing stock id", bill.CreateInput{
			Direction: bill.DirectionSale, Customer: customer(),
			Lines: []bill.LineInput{{Quantity: 1, PerPrice: money(1)}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Create(f.ctx, tt.in)
			assert.True(t, apperror.IsValidation(err), "got %v", err)
		})
	}
	assert.Equal(t, 10, f.stock.Quantity(a))
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	err := f.engine.Delete(f.ctx, bill.DirectionPurchase, id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_RecordsAudit(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	a := f.addStock(t, "Bulb", 10)
	sale, err := f.engine.Create(f.ctx, bill.CreateInput{
		Direction: bill.DirectionSale,
		Customer:  customer(),
		Lines:     []bill.LineInput{{StockID: a, Quantity: 1, PerPrice: money(3)}},
	})
	require.NoError(t, err)
	require.NoError(t, f.engine.Delete(f.ctx, bill.DirectionSale, sale.ID))

	entries := f.store.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "bill.sale", entries[0].EntityType)
	assert.Equal(t, sale.ID, entries[0].EntityID)
	assert.Equal(t, "u-1", entries[0].UserID)
	assert.Contains(t, string(entries[0].Snapshot), sale.Number)
}

func strp(s string) *string { return &s }

func TestUpdateDetails(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	supplierID := f.addSupplier(t, "Lanka", "0112345678", "771234567V")
	p, err := f.engine.Create(f.ctx, bill.CreateInput{Direction: bill.DirectionPurchase, SupplierID: supplierID})
	require.NoError(t, err)

	_, err = f.engine.UpdateDetails(f.ctx, bill.DirectionPurchase, p.ID, bill.DetailsInput{
		Eway:      strp("EW-1"),
		Bank:      strp("People's Bank"),
		AccountNo: strp("00123"),
		Total:     strp("1,200"),
	})
	require.NoError(t, err)

	got, err := f.engine.Get(f.ctx, bill.DirectionPurchase, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "EW-1", *got.Details.Eway)
	assert.Equal(t, "People's Bank", *got.Details.Bank)

	// absent fields are cleared
	_, err = f.engine.UpdateDetails(f.ctx, bill.DirectionPurchase, p.ID, bill.DetailsInput{Veh: strp("WP-1234")})
	require.NoError(t, err)
	got, err = f.engine.Get(f.ctx, bill.DirectionPurchase, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Details.Eway)
	assert.Nil(t, got.Details.Bank)
	assert.Equal(t, "WP-1234", *got.Details.Veh)
}

func TestUpdateDetails_SaleRejectsBank(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	sale, err := f.engine.Create(f.ctx, bill.CreateInput{Direction: bill.DirectionSale, Customer: customer()})
	require.NoError(t, err)

	_, err = f.engine.UpdateDetails(f.ctx, bill.DirectionSale, sale.ID, bill.DetailsInput{Bank: strp("BOC")})
	assert.True(t, apperror.IsValidation(err))

	_, err = f.engine.UpdateDetails(f.ctx, bill.DirectionSale, id.New(), bill.DetailsInput{})
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.engine.UpdateDetails(f.ctx, bill.DirectionSale, sale.ID, bill.DetailsInput{
		Destination: strp(strings.Repeat("x", 51)),
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestList(t *testing.T) {
	f := newFixture(t, bill.Config{AllowNegativeStock: true})
	s1 := f.addSupplier(t, "Lanka", "0112345678", "771234567V")
	s2 := f.addSupplier(t, "Ceylon", "0112345679", "771234568V")

	for _, sid := range []id.ID{s1, s1, s2} {
		_, err := f.engine.Create(f.ctx, bill.CreateInput{Direction: bill.DirectionPurchase, SupplierID: sid})
		require.NoError(t, err)
	}

	res, err := f.engine.ListBySupplier(f.ctx, s1, domain.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.TotalCount)

	all, err := f.engine.List(f.ctx, bill.ListFilter{Direction: bill.DirectionPurchase})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.TotalCount)

	_, err = f.engine.List(f.ctx, bill.ListFilter{Direction: bill.DirectionSale, SupplierID: &s1})
	assert.True(t, apperror.IsValidation(err))
}
