package stockitem_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posledger/internal/core/apperror"
	"posledger/internal/core/id"
	"posledger/internal/domain"
	"posledger/internal/domain/catalogs/stockitem"
	"posledger/internal/testing/memstore"
)

func newService(t *testing.T) (*stockitem.Service, *memstore.StockItems) {
	t.Helper()
	store := memstore.New()
	repo := store.StockItems()
	return stockitem.NewService(repo, store.TxManager()), repo
}

func TestNewStockItem_Defaults(t *testing.T) {
	item := stockitem.NewStockItem("  Cement ", "C-42", "Acme")
	assert.Equal(t, "Cement", item.Name)
	assert.Equal(t, stockitem.DefaultQuantity, item.Quantity)
	assert.False(t, item.IsDeleted())
}

func TestStockItem_Validate(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		item  *stockitem.StockItem
		field string
	}{
		{"missing name", stockitem.NewStockItem("", "M", "Acme"), "name"},
		{"missing model", stockitem.NewStockItem("Nut", "", "Acme"), "model"},
		{"missing manufacturer", stockitem.NewStockItem("Nut", "M", ""), "manufacturer"},
		{"long model", stockitem.NewStockItem("Nut", strings.Repeat("m", 31), "Acme"), "model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate(ctx)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
	assert.NoError(t, stockitem.NewStockItem("Nut", "N-1", "Acme").Validate(ctx))
}

func TestService_CreateRejectsDuplicates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, stockitem.NewStockItem("Bolt", "B-1", "Acme")))

	err := svc.Create(ctx, stockitem.NewStockItem("Bolt", "B-2", "Acme"))
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))

	err = svc.Create(ctx, stockitem.NewStockItem("Bolt XL", "B-1", "Acme"))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "model", appErr.Details["field"])
}

func TestService_CreateRejectsNegativeQuantity(t *testing.T) {
	svc, _ := newService(t)
	item := stockitem.NewStockItem("Bolt", "B-1", "Acme")
	item.Quantity = -1
	assert.True(t, apperror.IsValidation(svc.Create(context.Background(), item)))
}

func TestService_IncrementDecrement(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	item := stockitem.NewStockItem("Bolt", "B-1", "Acme")
	item.Quantity = 2
	require.NoError(t, svc.Create(ctx, item))

	qty, err := svc.Increment(ctx, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, qty)

	qty, err = svc.Decrement(ctx, item.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, -2, qty, "decrement does not clamp")
	assert.Equal(t, -2, repo.Quantity(item.ID))

	_, err = svc.Decrement(ctx, item.ID, -3)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Increment(ctx, id.New(), 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_SoftDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	kept := stockitem.NewStockItem("Bolt", "B-1", "Acme")
	gone := stockitem.NewStockItem("Nut", "N-1", "Acme")
	require.NoError(t, svc.Create(ctx, kept))
	require.NoError(t, svc.Create(ctx, gone))

	require.NoError(t, svc.SoftDelete(ctx, gone.ID))

	res, err := svc.List(ctx, domain.DefaultListFilter())
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, kept.ID, res.Items[0].ID)

	all, err := svc.List(ctx, domain.ListFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	got, err := svc.GetByID(ctx, gone.ID)
	require.NoError(t, err, "deleted items stay resolvable by id")
	assert.True(t, got.IsDeleted())

	_, err = svc.Increment(ctx, gone.ID, 1)
	assert.True(t, apperror.IsValidation(err))
}

func TestService_VersionMovesWithQuantityAndStatus(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	item := stockitem.NewStockItem("Bolt", "B-1", "Acme")
	require.NoError(t, svc.Create(ctx, item))

	form, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)

	_, err = svc.Increment(ctx, item.ID, 4)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, form.Version+1, got.Version)

	form.Quantity = 1
	assert.True(t, apperror.IsConcurrentModification(svc.Update(ctx, form)))

	require.NoError(t, svc.SoftDelete(ctx, item.ID))
	deleted, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Version+1, deleted.Version)

	got.Description = "stale"
	assert.True(t, apperror.IsConcurrentModification(svc.Update(ctx, got)))
}

func TestService_ListActiveByQuantity(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for name, qty := range map[string]int{"A": 3, "B": 30, "C": 12} {
		item := stockitem.NewStockItem(name, "M-"+name, "Acme")
		item.Quantity = qty
		require.NoError(t, svc.Create(ctx, item))
	}

	items, err := svc.ListActiveByQuantity(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"B", "C", "A"}, []string{items[0].Name, items[1].Name, items[2].Name})
}

func TestService_UpdateOptimisticLock(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	item := stockitem.NewStockItem("Bolt", "B-1", "Acme")
	require.NoError(t, svc.Create(ctx, item))

	first, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	second, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)

	first.Description = "zinc plated"
	require.NoError(t, svc.Update(ctx, first))

	second.Description = "stale"
	err = svc.Update(ctx, second)
	assert.True(t, apperror.IsConcurrentModification(err))
}
