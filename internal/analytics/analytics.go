package analytics

import (
	"math"
	"sort"

	"retailpos/backend/internal/domain"
)

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

const (
	forecastLimit   = 5
	topSellingLimit = 5
)

// MonthlySales buckets each bill's total into the calendar month of its
// creation date. Buckets are year-agnostic: bills from January of different
// years land in the same bucket.
func MonthlySales(bills []domain.Bill) []domain.MonthlySalesPoint {
	var byMonth [12]int64
	for _, bill := range bills {
		byMonth[int(bill.CreatedAt.Month())-1] += bill.TotalAmountCents
	}

	points := make([]domain.MonthlySalesPoint, 12)
	for i, name := range monthNames {
		points[i] = domain.MonthlySalesPoint{Month: name, SalesCents: byMonth[i]}
	}
	return points
}

// CategorySales computes each category's integer percent share of total bill
// revenue. When total revenue is zero the divisor falls back to 1, so every
// share computes against 1 rather than dividing by zero.
func CategorySales(bills []domain.Bill) []domain.CategoryShare {
	categoryTotals := make(map[string]int64)
	totalSales := int64(0)
	for _, bill := range bills {
		totalSales += bill.TotalAmountCents
		for _, item := range bill.Items {
			if item.Product.Category == "" {
				continue
			}
			categoryTotals[item.Product.Category] += item.TotalPriceCents
		}
	}
	if totalSales == 0 {
		totalSales = 1
	}

	shares := make([]domain.CategoryShare, 0, len(categoryTotals))
	for category, value := range categoryTotals {
		shares = append(shares, domain.CategoryShare{
			Category: category,
			Percent:  int(math.Round(float64(value) / float64(totalSales) * 100)),
		})
	}
	sort.Slice(shares, func(i, j int) bool { return shares[i].Category < shares[j].Category })
	return shares
}

// ProductForecasts derives a fixed-formula weekly demand estimate for the
// first five products in catalog order. The 30-day cumulative sales counter
// is scaled to a 7-day run rate; the trend formula never yields "decreasing".
func ProductForecasts(products []domain.Product) []domain.ProductForecast {
	limit := forecastLimit
	if len(products) < limit {
		limit = len(products)
	}

	forecasts := make([]domain.ProductForecast, 0, limit)
	for _, product := range products[:limit] {
		weekly := int(math.Round(float64(product.SalesCount) / 30 * 7))
		fortnightly := int(math.Round(float64(product.SalesCount) / 30 * 14))

		recommended := product.Quantity
		if fortnightly > recommended {
			recommended = fortnightly
		}

		trend := domain.TrendStable
		if product.SalesCount > 50 {
			trend = domain.TrendIncreasing
		}

		forecasts = append(forecasts, domain.ProductForecast{
			ProductID:        product.ID,
			Name:             product.Name,
			CurrentStock:     product.Quantity,
			PredictedDemand:  weekly,
			RecommendedStock: recommended,
			Trend:            trend,
		})
	}
	return forecasts
}

func LowStockProducts(products []domain.Product, threshold int) []domain.Product {
	low := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if product.Quantity <= threshold {
			low = append(low, product)
		}
	}
	return low
}

func TopSellingProducts(products []domain.Product) []domain.Product {
	sorted := make([]domain.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SalesCount > sorted[j].SalesCount
	})
	if len(sorted) > topSellingLimit {
		sorted = sorted[:topSellingLimit]
	}
	return sorted
}

func TotalRevenue(bills []domain.Bill) int64 {
	total := int64(0)
	for _, bill := range bills {
		total += bill.TotalAmountCents
	}
	return total
}

func TotalInventoryValue(products []domain.Product) int64 {
	total := int64(0)
	for _, product := range products {
		total += product.PriceCents * int64(product.Quantity)
	}
	return total
}
