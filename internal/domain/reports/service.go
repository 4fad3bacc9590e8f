package reports

import (
	"context"
	"fmt"
	"time"

	"posledger/internal/core/types"
	"posledger/internal/domain"
	"posledger/internal/domain/catalogs/stockitem"
	"posledger/internal/domain/documents/bill"
)

// StockSource lists active stock for the chart.
type StockSource interface {
	ListActiveByQuantity(ctx context.Context) ([]*stockitem.StockItem, error)
}

// BillLister lists bill headers.
type BillLister interface {
	List(ctx context.Context, filter bill.ListFilter) (domain.ListResult[*bill.Bill], error)
}

// Service builds the dashboard.
type Service struct {
	repo  Repository
	stock StockSource
	bills BillLister
	now   func() time.Time
}

// NewService creates a new reports service.
func NewService(repo Repository, stock StockSource, bills BillLister) *Service {
	return &Service{repo: repo, stock: stock, bills: bills, now: time.Now}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Dashboard assembles the summary.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now()
	d := &Dashboard{GeneratedAt: now.UTC()}

	items, err := s.stock.ListActiveByQuantity(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	d.StockChart = BuildStockChart(items)

	if d.LatestSales, err = s.latest(ctx, bill.DirectionSale); err != nil {
		return nil, err
	}
	if d.LatestPurchases, err = s.latest(ctx, bill.DirectionPurchase); err != nil {
		return nil, err
	}

	totals, err := s.repo.SaleDetailTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("sale totals: %w", err)
	}
	d.TotalSales = SumTotals(totals)

	midnight := startOfDay(now)
	if d.TodaySales, err = s.repo.CountBillsSince(ctx, bill.DirectionSale, midnight); err != nil {
		return nil, fmt.Errorf("count sales: %w", err)
	}
	if d.TodayPurchases, err = s.repo.CountBillsSince(ctx, bill.DirectionPurchase, midnight); err != nil {
		return nil, fmt.Errorf("count purchases: %w", err)
	}

	return d, nil
}

func (s *Service) latest(ctx context.Context, dir bill.Direction) ([]*bill.Bill, error) {
	res, err := s.bills.List(ctx, bill.ListFilter{
		ListFilter: domain.ListFilter{Limit: LatestBillsCount, OrderBy: "-time"},
		Direction:  dir,
	})
	if err != nil {
		return nil, fmt.Errorf("latest %s bills: %w", dir, err)
	}
	return res.Items, nil
}

// BuildStockChart turns items into chart series, keeping their order.
func BuildStockChart(items []*stockitem.StockItem) StockChart {
	chart := StockChart{
		Labels: make([]string, 0, len(items)),
		Data:   make([]int, 0, len(items)),
	}
	for _, it := range items {
		chart.Labels = append(chart.Labels, it.Name)
		chart.Data = append(chart.Data, it.Quantity)
	}
	return chart
}

// SumTotals adds up the numeric entries of free-text totals.
func SumTotals(totals []string) types.Money {
	sum := types.Zero()
	for _, t := range totals {
		if v, ok := types.ParseLooseMoney(t); ok {
			sum = sum.Add(v)
		}
	}
	return sum
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
