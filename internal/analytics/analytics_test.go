package analytics

import (
	"testing"
	"time"

	"retailpos/backend/internal/domain"
)

func billAt(year int, month time.Month, totalCents int64) domain.Bill {
	return domain.Bill{
		TotalAmountCents: totalCents,
		CreatedAt:        time.Date(year, month, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestMonthlySalesCollapsesYears(t *testing.T) {
	bills := []domain.Bill{
		billAt(2024, time.January, 1000),
		billAt(2025, time.January, 500),
		billAt(2025, time.March, 250),
	}

	points := MonthlySales(bills)
	if len(points) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(points))
	}
	if points[0].Month != "Jan" || points[0].SalesCents != 1500 {
		t.Fatalf("expected Jan bucket 1500 across years, got %s=%d", points[0].Month, points[0].SalesCents)
	}
	if points[2].SalesCents != 250 {
		t.Fatalf("expected Mar bucket 250, got %d", points[2].SalesCents)
	}
	if points[11].SalesCents != 0 {
		t.Fatalf("expected empty Dec bucket, got %d", points[11].SalesCents)
	}
}

func TestCategorySalesPercentShares(t *testing.T) {
	bills := []domain.Bill{
		{
			TotalAmountCents: 1000,
			Items: []domain.BillItem{
				{Product: domain.Product{Category: "grocery"}, TotalPriceCents: 750},
				{Product: domain.Product{Category: "dairy"}, TotalPriceCents: 250},
			},
			CreatedAt: time.Now().UTC(),
		},
	}

	shares := CategorySales(bills)
	if len(shares) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(shares))
	}
	// Sorted by category name.
	if shares[0].Category != "dairy" || shares[0].Percent != 25 {
		t.Fatalf("expected dairy 25%%, got %s=%d", shares[0].Category, shares[0].Percent)
	}
	if shares[1].Category != "grocery" || shares[1].Percent != 75 {
		t.Fatalf("expected grocery 75%%, got %s=%d", shares[1].Category, shares[1].Percent)
	}
}

func TestCategorySalesZeroRevenueUsesDivisorOne(t *testing.T) {
	// A bill with zero total but categorized items: shares divide by 1,
	// so each category reports value*100 rather than NaN or a panic.
	bills := []domain.Bill{
		{
			TotalAmountCents: 0,
			Items: []domain.BillItem{
				{Product: domain.Product{Category: "grocery"}, TotalPriceCents: 0},
			},
			CreatedAt: time.Now().UTC(),
		},
	}

	shares := CategorySales(bills)
	if len(shares) != 1 {
		t.Fatalf("expected 1 category, got %d", len(shares))
	}
	if shares[0].Percent != 0 {
		t.Fatalf("expected 0%% share for zero revenue, got %d", shares[0].Percent)
	}
}

func TestProductForecastsFirstFiveOnly(t *testing.T) {
	products := make([]domain.Product, 0, 7)
	for i := 0; i < 7; i++ {
		products = append(products, domain.Product{
			ID:         "prod-" + string(rune('a'+i)),
			Name:       "Product",
			Quantity:   10,
			SalesCount: 30,
		})
	}

	forecasts := ProductForecasts(products)
	if len(forecasts) != 5 {
		t.Fatalf("expected forecasts for first 5 products, got %d", len(forecasts))
	}
}

func TestProductForecastFormulas(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Name: "Coffee Sachet", Quantity: 4, SalesCount: 60},
	}

	forecasts := ProductForecasts(products)
	if len(forecasts) != 1 {
		t.Fatalf("expected 1 forecast, got %d", len(forecasts))
	}
	f := forecasts[0]

	// 60/30*7 = 14 weekly, 60/30*14 = 28 fortnightly.
	if f.PredictedDemand != 14 {
		t.Fatalf("expected predicted demand 14, got %d", f.PredictedDemand)
	}
	if f.RecommendedStock != 28 {
		t.Fatalf("expected recommended stock 28 (fortnightly > current), got %d", f.RecommendedStock)
	}
	if f.Trend != domain.TrendIncreasing {
		t.Fatalf("expected increasing trend for sales count > 50, got %s", f.Trend)
	}
}

func TestProductForecastStableTrendKeepsCurrentStock(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Name: "Sugar 1kg", Quantity: 45, SalesCount: 21},
	}

	f := ProductForecasts(products)[0]
	if f.Trend != domain.TrendStable {
		t.Fatalf("expected stable trend for sales count <= 50, got %s", f.Trend)
	}
	// Fortnightly demand round(21/30*14)=10 is below current stock 45.
	if f.RecommendedStock != 45 {
		t.Fatalf("expected recommended stock to stay at 45, got %d", f.RecommendedStock)
	}
}

func TestLowStockThresholdIsInclusive(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Quantity: 5},
		{ID: "p2", Quantity: 6},
		{ID: "p3", Quantity: 0},
	}

	low := LowStockProducts(products, 5)
	if len(low) != 2 {
		t.Fatalf("expected 2 low-stock products, got %d", len(low))
	}
	for _, p := range low {
		if p.Quantity > 5 {
			t.Fatalf("product %s with quantity %d should not be low stock", p.ID, p.Quantity)
		}
	}
}

func TestTopSellingProductsTopFiveDescending(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", SalesCount: 10},
		{ID: "p2", SalesCount: 90},
		{ID: "p3", SalesCount: 50},
		{ID: "p4", SalesCount: 70},
		{ID: "p5", SalesCount: 30},
		{ID: "p6", SalesCount: 80},
	}

	top := TopSellingProducts(products)
	if len(top) != 5 {
		t.Fatalf("expected top 5, got %d", len(top))
	}
	if top[0].ID != "p2" {
		t.Fatalf("expected p2 first, got %s", top[0].ID)
	}
	for i := 1; i < len(top); i++ {
		if top[i].SalesCount > top[i-1].SalesCount {
			t.Fatalf("expected descending sales counts, got %d before %d", top[i-1].SalesCount, top[i].SalesCount)
		}
	}
	// The original slice must not be reordered.
	if products[0].ID != "p1" {
		t.Fatalf("expected input slice untouched, got %s first", products[0].ID)
	}
}

func TestTotalInventoryValue(t *testing.T) {
	products := []domain.Product{
		{PriceCents: 200, Quantity: 3},
		{PriceCents: 1890, Quantity: 2},
	}
	if got := TotalInventoryValue(products); got != 600+3780 {
		t.Fatalf("expected inventory value 4380, got %d", got)
	}
}
