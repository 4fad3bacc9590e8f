package catalog_repo

import (
	"testing"

	"posledger/internal/core/apperror"
	"posledger/internal/core/entity"
	"posledger/internal/core/id"
	"posledger/internal/domain"
)

type testRow struct {
	entity.Catalog
	Model string `db:"model"`
}

func newTestRepo() *BaseCatalogRepo[*testRow] {
	return NewBaseCatalogRepo(nil, BaseConfig[*testRow]{
		TableName:  "test_table",
		EntityName: "test",
		SelectCols: []string{"id", "status", "version", "name", "model"},
		NewFn:      func() *testRow { return &testRow{} },
		SearchCols: []string{"name", "model"},
		LookupCols: []string{"model"},
	})
}

func TestListQuery_ActiveOnlyByDefault(t *testing.T) {
	repo := newTestRepo()

	sql, args, err := repo.listQuery(domain.ListFilter{}).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, status, version, name, model FROM test_table WHERE status = $1"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 1 || args[0] != entity.StatusActive {
		t.Errorf("Args mismatch\nwant: [active]\ngot:  %v", args)
	}
}

func TestListQuery_SearchAndIDs(t *testing.T) {
	repo := newTestRepo()
	a, b := id.New(), id.New()

	sql, args, err := repo.listQuery(domain.ListFilter{
		Search:         " cem ",
		IDs:            []id.ID{a, b},
		IncludeDeleted: true,
	}).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, status, version, name, model FROM test_table " +
		"WHERE (name ILIKE $1 OR model ILIKE $2) AND id IN ($3,$4)"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 4 || args[0] != "%cem%" || args[1] != "%cem%" {
		t.Errorf("Args mismatch\ngot: %v", args)
	}
}

func TestBuildUpdate_OptimisticLock(t *testing.T) {
	repo := newTestRepo()
	row := &testRow{Catalog: entity.NewCatalog("Cement"), Model: "C-1"}
	row.Version = 3

	q, version, err := repo.buildUpdate(row)
	if err != nil {
		t.Fatalf("buildUpdate failed: %v", err)
	}
	if version != 3 {
		t.Errorf("version = %d, want 3", version)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "UPDATE test_table SET model = $1, name = $2, status = $3, updated_at = NOW(), " +
		"version = version + 1 WHERE id = $4 AND version = $5"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 5 || args[3] != row.ID.String() || args[4] != 3 {
		t.Errorf("Args mismatch\ngot: %v", args)
	}
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		in   string
		want string
	}{
		{"", "name ASC"},
		{"name", "name ASC, id ASC"},
		{"-model", "model DESC, id DESC"},
	}
	for _, tt := range tests {
		got, err := repo.parseOrderBy(tt.in)
		if err != nil {
			t.Fatalf("parseOrderBy(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseOrderBy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	_, err := repo.parseOrderBy("name; DROP TABLE test_table")
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}
