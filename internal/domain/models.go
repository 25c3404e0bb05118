package domain

import "time"

type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Barcode        string    `json:"barcode"`
	Category       string    `json:"category"`
	PriceCents     int64     `json:"price_cents"`
	Quantity       int       `json:"quantity"`
	CostPriceCents int64     `json:"cost_price_cents,omitempty"`
	SalesCount     int       `json:"sales_count"`
	Description    string    `json:"description,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ProductCreateRequest struct {
	Name           string `json:"name"`
	Barcode        string `json:"barcode"`
	Category       string `json:"category"`
	PriceCents     int64  `json:"price_cents"`
	Quantity       int    `json:"quantity"`
	CostPriceCents int64  `json:"cost_price_cents,omitempty"`
	Description    string `json:"description,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
}

type ProductUpdateRequest struct {
	Name           *string `json:"name,omitempty"`
	Category       *string `json:"category,omitempty"`
	PriceCents     *int64  `json:"price_cents,omitempty"`
	CostPriceCents *int64  `json:"cost_price_cents,omitempty"`
	Description    *string `json:"description,omitempty"`
	ImageURL       *string `json:"image_url,omitempty"`
}

// QuantityUpdateRequest sets an absolute quantity or applies a signed delta.
// Exactly one of the two fields must be present.
type QuantityUpdateRequest struct {
	Quantity *int `json:"quantity,omitempty"`
	Delta    *int `json:"delta,omitempty"`
}

// BillItem is one line of a bill. Product is a snapshot copy, never a live
// catalog reference, so committed bills are immune to later catalog edits.
type BillItem struct {
	Product         Product `json:"product"`
	Quantity        int     `json:"quantity"`
	TotalPriceCents int64   `json:"total_price_cents"`
}

type Bill struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Items            []BillItem `json:"items"`
	TotalAmountCents int64      `json:"total_amount_cents"`
	PaymentMethod    string     `json:"payment_method,omitempty"`
	CustomerName     string     `json:"customer_name,omitempty"`
	CustomerPhone    string     `json:"customer_phone,omitempty"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
}

type BillAddItemRequest struct {
	Barcode   string `json:"barcode,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

type BillItemQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CurrentBillResponse struct {
	Items            []BillItem `json:"items"`
	TotalAmountCents int64      `json:"total_amount_cents"`
	ItemCount        int        `json:"item_count"`
}

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
}

type CheckoutResponse struct {
	Bill Bill `json:"bill"`
}

type MonthlySalesPoint struct {
	Month      string `json:"month"`
	SalesCents int64  `json:"sales_cents"`
}

type CategoryShare struct {
	Category string `json:"category"`
	Percent  int    `json:"percent"`
}

type ProductForecast struct {
	ProductID        string `json:"product_id"`
	Name             string `json:"name"`
	CurrentStock     int    `json:"current_stock"`
	PredictedDemand  int    `json:"predicted_demand"`
	RecommendedStock int    `json:"recommended_stock"`
	Trend            string `json:"trend"`
}

type AnalyticsOverview struct {
	MonthlySales   []MonthlySalesPoint `json:"monthly_sales"`
	CategoryShares []CategoryShare     `json:"category_shares"`
	Forecasts      []ProductForecast   `json:"forecasts"`
	LowStock       []Product           `json:"low_stock"`
	TopSelling     []Product           `json:"top_selling"`
	GeneratedAt    string              `json:"generated_at"`
}

type DashboardResponse struct {
	TotalRevenueCents   int64     `json:"total_revenue_cents"`
	InventoryValueCents int64     `json:"inventory_value_cents"`
	BillCount           int       `json:"bill_count"`
	ProductCount        int       `json:"product_count"`
	LowStock            []Product `json:"low_stock"`
	TopSelling          []Product `json:"top_selling"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type CashierCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CashierUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type AuditLog struct {
	ID            string    `json:"id"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	BillStatusCompleted = "completed"
	BillStatusPending   = "pending"
	BillStatusCancelled = "cancelled"
)

const (
	TrendIncreasing = "increasing"
	TrendStable     = "stable"
)
