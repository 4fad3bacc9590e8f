package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"posledger/internal/core/entity"
)

type mockItem struct {
	entity.Catalog
	Model    string `db:"model" json:"model"`
	Quantity int    `db:"quantity" json:"quantity"`
	Note     string `json:"note"`
	Ignored  string `db:"-"`
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[mockItem]()

	for _, expected := range []string{"id", "status", "version", "created_at", "updated_at", "name", "model", "quantity"} {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "note")
	assert.NotContains(t, cols, "-")
}

func TestExtractDBColumns_Pointer(t *testing.T) {
	assert.Equal(t, ExtractDBColumns[mockItem](), ExtractDBColumns[*mockItem]())
}

func TestStructToMap(t *testing.T) {
	item := &mockItem{
		Catalog:  entity.NewCatalog("Router"),
		Model:    "RT-1",
		Quantity: 4,
	}
	item.MarkDeleted()

	m := StructToMap(item)

	assert.Equal(t, item.ID, m["id"])
	assert.Equal(t, entity.StatusDeleted, m["status"])
	assert.Equal(t, 1, m["version"])
	assert.Equal(t, "Router", m["name"])
	assert.Equal(t, "RT-1", m["model"])
	assert.Equal(t, 4, m["quantity"])
	_, hasNote := m["note"]
	assert.False(t, hasNote)
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}

func TestPickColumns(t *testing.T) {
	data := map[string]any{"id": 1, "name": "x", "version": 3, "extra": true}
	out := PickColumns(data, []string{"id", "name", "version", "missing"}, "id", "version")

	assert.Equal(t, map[string]any{"name": "x"}, out)
}
