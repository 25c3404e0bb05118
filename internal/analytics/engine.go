package analytics

import (
	"context"
	"time"

	"retailpos/backend/internal/cache"
	"retailpos/backend/internal/domain"
	"retailpos/backend/internal/store"
)

// Engine recomputes the derived analytics views from the full
// (products, bills) state. Results are cached per user and invalidated
// explicitly whenever a write changes the underlying data; there is no
// hidden observer graph.
type Engine struct {
	repo              store.Repository
	cache             cache.AnalyticsCache
	cacheTTL          time.Duration
	lowStockThreshold int
}

func NewEngine(repo store.Repository, cacheStore cache.AnalyticsCache, cacheTTL time.Duration, lowStockThreshold int) *Engine {
	if cacheStore == nil {
		cacheStore = cache.NoopAnalyticsCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 60 * time.Second
	}
	if lowStockThreshold < 1 {
		lowStockThreshold = 5
	}

	return &Engine{
		repo:              repo,
		cache:             cacheStore,
		cacheTTL:          cacheTTL,
		lowStockThreshold: lowStockThreshold,
	}
}

func (e *Engine) LowStockThreshold() int {
	return e.lowStockThreshold
}

func (e *Engine) Overview(ctx context.Context, userID string) (domain.AnalyticsOverview, error) {
	key := overviewKey(userID)
	if cached, ok, err := e.cache.Get(ctx, key); err == nil && ok {
		return *cached, nil
	}

	products, err := e.repo.ListProducts(ctx)
	if err != nil {
		return domain.AnalyticsOverview{}, err
	}
	bills, err := e.repo.ListBills(ctx, userID)
	if err != nil {
		return domain.AnalyticsOverview{}, err
	}

	overview := domain.AnalyticsOverview{
		MonthlySales:   MonthlySales(bills),
		CategoryShares: CategorySales(bills),
		Forecasts:      ProductForecasts(products),
		LowStock:       LowStockProducts(products, e.lowStockThreshold),
		TopSelling:     TopSellingProducts(products),
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	_ = e.cache.Set(ctx, key, &overview, e.cacheTTL)
	return overview, nil
}

func (e *Engine) Dashboard(ctx context.Context, userID string) (domain.DashboardResponse, error) {
	products, err := e.repo.ListProducts(ctx)
	if err != nil {
		return domain.DashboardResponse{}, err
	}
	bills, err := e.repo.ListBills(ctx, userID)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	return domain.DashboardResponse{
		TotalRevenueCents:   TotalRevenue(bills),
		InventoryValueCents: TotalInventoryValue(products),
		BillCount:           len(bills),
		ProductCount:        len(products),
		LowStock:            LowStockProducts(products, e.lowStockThreshold),
		TopSelling:          TopSellingProducts(products),
	}, nil
}

// Invalidate drops the cached overview for userID. Called by the service
// after any catalog or bill write.
func (e *Engine) Invalidate(ctx context.Context, userID string) {
	_ = e.cache.Delete(ctx, overviewKey(userID))
}

func overviewKey(userID string) string {
	return "pos:analytics:overview:" + userID
}
