package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"posledger/internal/domain/catalogs/stockitem"
)

func TestSumTotals(t *testing.T) {
	tests := []struct {
		name   string
		totals []string
		want   string
	}{
		{"empty", nil, "0"},
		{"plain numbers", []string{"100", "250.50"}, "350.5"},
		{"thousands separators", []string{"1,000", " 20 "}, "1020"},
		{"free text skipped", []string{"paid", "", "15"}, "15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SumTotals(tt.totals).String())
		})
	}
}

func TestBuildStockChart(t *testing.T) {
	a := stockitem.NewStockItem("Bolt", "B-1", "Acme")
	a.Quantity = 40
	b := stockitem.NewStockItem("Nut", "N-1", "Acme")
	b.Quantity = 12

	chart := BuildStockChart([]*stockitem.StockItem{a, b})

	assert.Equal(t, []string{"Bolt", "Nut"}, chart.Labels)
	assert.Equal(t, []int{40, 12}, chart.Data)
}

func TestBuildStockChart_Empty(t *testing.T) {
	chart := BuildStockChart(nil)
	assert.NotNil(t, chart.Labels)
	assert.Empty(t, chart.Data)
}
