package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfarias-dev/puntoventa-backend/internal/catalog"
	"github.com/mfarias-dev/puntoventa-backend/internal/sales"
	pkgerrors "github.com/mfarias-dev/puntoventa-backend/pkg/errors"
)

const recentSalesLimit = 5

// Dashboard is the aggregated snapshot served to the admin home screen.
type Dashboard struct {
	TodayRevenue decimal.Decimal        `json:"today_revenue"`
	TodaySales   int                    `json:"today_sales"`
	LowStock     []catalog.ProductDTO   `json:"low_stock"`
	RecentSales  []sales.SaleSummaryDTO `json:"recent_sales"`
}

// Service assembles reporting views over sales and inventory.
type Service interface {
	Dashboard(ctx context.Context, now time.Time) (*Dashboard, error)
}

type service struct {
	salesRepo *sales.Repository
	catalog   catalog.Service
}

// NewService constructs a reports service instance.
func NewService(salesRepo *sales.Repository, catalogSvc catalog.Service) (Service, error) {
	if salesRepo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &service{salesRepo: salesRepo, catalog: catalogSvc}, nil
}

// Dashboard aggregates today's revenue, low-stock products, and the latest
// sales. "Today" spans [midnight, midnight+24h) in the clock's location.
func (s *service) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	todaySales, err := s.salesRepo.SumBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load today's sales")
	}
	revenue := decimal.Zero
	for i := range todaySales {
		revenue = revenue.Add(todaySales[i].TotalAmount)
	}

	lowStock, err := s.catalog.ListProducts(ctx, catalog.ListProductsInput{
		ActiveOnly: true,
		LowStock:   true,
	})
	if err != nil {
		return nil, err
	}

	recent, err := s.salesRepo.Recent(ctx, recentSalesLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recent sales")
	}
	recentDTOs := make([]sales.SaleSummaryDTO, 0, len(recent))
	for i := range recent {
		recentDTOs = append(recentDTOs, sales.SummaryFromModel(&recent[i]))
	}

	return &Dashboard{
		TodayRevenue: revenue,
		TodaySales:   len(todaySales),
		LowStock:     lowStock,
		RecentSales:  recentDTOs,
	}, nil
}
