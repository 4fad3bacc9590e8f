package catalog_repo

import (
	"testing"

	"posledger/internal/core/id"
)

func TestAdjustQuery_BumpsVersion(t *testing.T) {
	repo := NewStockItemRepo(nil)
	itemID := id.New()

	sql, args, err := repo.adjustQuery(itemID, -3).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "UPDATE stock_items SET quantity = quantity + $1, version = version + 1, " +
		"updated_at = NOW() WHERE id = $2 RETURNING quantity"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 2 || args[0] != -3 || args[1] != itemID.String() {
		t.Errorf("Args mismatch\ngot: %v", args)
	}
}
