package dto

import (
	"time"

	"posledger/internal/core/types"
	"posledger/internal/domain/documents/bill"
	"posledger/internal/domain/reports"
)

// DashboardResponse is the landing page summary.
type DashboardResponse struct {
	StockChart      reports.StockChart `json:"stockChart"`
	LatestSales     []BillResponse     `json:"latestSales"`
	LatestPurchases []BillResponse     `json:"latestPurchases"`
	TotalSales      types.Money        `json:"totalSales"`
	TodaySales      int64              `json:"todaySales"`
	TodayPurchases  int64              `json:"todayPurchases"`
	GeneratedAt     time.Time          `json:"generatedAt"`
}

func fromBills(bills []*bill.Bill) []BillResponse {
	out := make([]BillResponse, len(bills))
	for i, b := range bills {
		out[i] = FromBill(b)
	}
	return out
}

// FromDashboard maps the summary.
func FromDashboard(d *reports.Dashboard) DashboardResponse {
	return DashboardResponse{
		StockChart:      d.StockChart,
		LatestSales:     fromBills(d.LatestSales),
		LatestPurchases: fromBills(d.LatestPurchases),
		TotalSales:      d.TotalSales,
		TodaySales:      d.TodaySales,
		TodayPurchases:  d.TodayPurchases,
		GeneratedAt:     d.GeneratedAt,
	}
}
