package document_repo

import (
	"testing"
	"time"

	"posledger/internal/core/apperror"
	"posledger/internal/core/id"
	"posledger/internal/domain"
	"posledger/internal/domain/documents/bill"
)

func strPtr(s string) *string { return &s }

func TestListQuery_PurchaseFilters(t *testing.T) {
	repo := NewBillRepo(nil)
	supplierID := id.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	sql, args, err := repo.listQuery(tableSets[bill.DirectionPurchase], bill.ListFilter{
		Direction:  bill.DirectionPurchase,
		SupplierID: &supplierID,
		DateFrom:   &from,
		DateTo:     &to,
		ListFilter: domain.ListFilter{Search: " PB-2026 "},
	}).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, number, time, created_by, supplier_id FROM purchase_bills " +
		"WHERE supplier_id = $1 AND time >= $2 AND time < $3 AND (number ILIKE $4)"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 4 || args[0] != supplierID.String() || args[1] != from || args[2] != to || args[3] != "%PB-2026%" {
		t.Errorf("Args mismatch\ngot: %v", args)
	}
}

func TestListQuery_SaleSearchesCustomer(t *testing.T) {
	repo := NewBillRepo(nil)

	sql, args, err := repo.listQuery(tableSets[bill.DirectionSale], bill.ListFilter{
		Direction:  bill.DirectionSale,
		ListFilter: domain.ListFilter{Search: "perera"},
	}).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, number, time, created_by, customer_name, customer_phone, customer_address, " +
		"customer_email, customer_nic FROM sale_bills " +
		"WHERE (number ILIKE $1 OR customer_name ILIKE $2 OR customer_nic ILIKE $3)"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 3 {
		t.Errorf("Args mismatch\ngot: %v", args)
	}
}

func TestParseOrderBy_DirectionDefaults(t *testing.T) {
	tests := []struct {
		dir  bill.Direction
		in   string
		want string
	}{
		{bill.DirectionSale, "", "customer_nic ASC, id ASC"},
		{bill.DirectionPurchase, "", "time DESC, id DESC"},
		{bill.DirectionSale, "-time", "time DESC, id DESC"},
		{bill.DirectionPurchase, "number", "number ASC, id ASC"},
	}
	for _, tt := range tests {
		got, err := parseOrderBy(tableSets[tt.dir], tt.in)
		if err != nil {
			t.Fatalf("parseOrderBy(%s, %q) failed: %v", tt.dir, tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseOrderBy(%s, %q) = %q, want %q", tt.dir, tt.in, got, tt.want)
		}
	}

	_, err := parseOrderBy(tableSets[bill.DirectionPurchase], "nic")
	if !apperror.IsValidation(err) {
		t.Errorf("purchases have no nic column, expected validation error, got %v", err)
	}
}

func TestSaveDetailsQuery_SaleSkipsBankColumns(t *testing.T) {
	repo := NewBillRepo(nil)
	bank := strPtr("Commercial")
	d := &bill.Details{
		BillID:    id.New(),
		Eway:      strPtr("EW-1"),
		Bank:      bank,
		AccountNo: strPtr("0012"),
		Total:     strPtr("1500"),
	}

	sql, args, err := repo.saveDetailsQuery(tableSets[bill.DirectionSale], d).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "INSERT INTO sale_bill_details (addr,bill_id,destination,eway,po,total,veh) " +
		"VALUES ($1,$2,$3,$4,$5,$6,$7) ON CONFLICT (bill_id) DO UPDATE SET " +
		"eway = EXCLUDED.eway, veh = EXCLUDED.veh, destination = EXCLUDED.destination, " +
		"po = EXCLUDED.po, addr = EXCLUDED.addr, total = EXCLUDED.total"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 7 {
		t.Fatalf("Args mismatch\ngot: %v", args)
	}
	for _, a := range args {
		if p, ok := a.(*string); ok && p == bank {
			t.Errorf("bank value written for a sale bill")
		}
	}
}

func TestSaveDetailsQuery_PurchaseWritesBankColumns(t *testing.T) {
	repo := NewBillRepo(nil)

	sql, _, err := repo.saveDetailsQuery(tableSets[bill.DirectionPurchase], &bill.Details{BillID: id.New()}).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "INSERT INTO purchase_bill_details (acno,addr,bank,bill_id,destination,eway,po,total,veh) " +
		"VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) ON CONFLICT (bill_id) DO UPDATE SET " +
		"eway = EXCLUDED.eway, veh = EXCLUDED.veh, destination = EXCLUDED.destination, " +
		"po = EXCLUDED.po, bank = EXCLUDED.bank, acno = EXCLUDED.acno, " +
		"addr = EXCLUDED.addr, total = EXCLUDED.total"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
}
