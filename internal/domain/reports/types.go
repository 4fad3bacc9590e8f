// Package reports provides the dashboard summary.
package reports

import (
	"time"

	"posledger/internal/core/types"
	"posledger/internal/domain/documents/bill"
)

// LatestBillsCount is how many recent bills of each direction the
// dashboard shows.
const LatestBillsCount = 3

// StockChart is the active stock by quantity, largest first.
type StockChart struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// Dashboard is the landing page summary.
type Dashboard struct {
	StockChart      StockChart   `json:"stockChart"`
	LatestSales     []*bill.Bill `json:"latestSales"`
	LatestPurchases []*bill.Bill `json:"latestPurchases"`

	// TotalSales sums the numeric "total" fields of sale bill details.
	// Free text that is not a number is skipped.
	TotalSales types.Money `json:"totalSales"`

	TodaySales     int64     `json:"todaySales"`
	TodayPurchases int64     `json:"todayPurchases"`
	GeneratedAt    time.Time `json:"generatedAt"`
}
