package memory

import (
	"context"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"retailpos/backend/internal/domain"
	"retailpos/backend/internal/store"
	"retailpos/backend/internal/xid"
)

type Store struct {
	mu               sync.RWMutex
	products         map[string]domain.Product
	productByBarcode map[string]string
	billsByID        map[string]*domain.Bill
	auditLogs        []domain.AuditLog
	usersByUsername  map[string]domain.UserAccount
}

func New() *Store {
	return &Store{
		products:         make(map[string]domain.Product),
		productByBarcode: make(map[string]string),
		billsByID:        make(map[string]*domain.Bill),
		auditLogs:        make([]domain.AuditLog, 0, 128),
		usersByUsername:  seedUsers(),
	}
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials are read from SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD
// environment variables, with hardcoded dev defaults and a warning when
// unset. The memory store is never used when DATABASE_URL is configured.
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	cashierPwd := envOr("SEED_CASHIER_PASSWORD", "cashier123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_CASHIER_PASSWORD") == "" {
		log.Warn().Msg("memory store: using default dev credentials; set SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD to override")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"cashier", cashierPwd, "cashier"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Str("username", u.username).Msg("memory store: failed to hash seed password")
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()

	seed := []domain.Product{
		{Name: "Instant Noodles", Barcode: "8991002101234", Category: "grocery", PriceCents: 350, CostPriceCents: 270, Quantity: 120, SalesCount: 64},
		{Name: "Eggs 10pk", Barcode: "8991002102941", Category: "grocery", PriceCents: 2650, CostPriceCents: 2300, Quantity: 80, SalesCount: 38},
		{Name: "UHT Milk 1L", Barcode: "8991002103559", Category: "dairy", PriceCents: 1890, CostPriceCents: 1360, Quantity: 60, SalesCount: 72},
		{Name: "White Bread", Barcode: "8991002104187", Category: "bakery", PriceCents: 1780, CostPriceCents: 1250, Quantity: 35, SalesCount: 29},
		{Name: "Coffee Sachet", Barcode: "8991002105722", Category: "beverage", PriceCents: 260, CostPriceCents: 170, Quantity: 200, SalesCount: 95},
		{Name: "Sugar 1kg", Barcode: "8991002106095", Category: "grocery", PriceCents: 1740, CostPriceCents: 1530, Quantity: 45, SalesCount: 21},
		{Name: "Mineral Water 600ml", Barcode: "8991002107412", Category: "beverage", PriceCents: 390, CostPriceCents: 320, Quantity: 150, SalesCount: 54},
		{Name: "Cassava Chips", Barcode: "8991002108863", Category: "snack", PriceCents: 1280, CostPriceCents: 810, Quantity: 25, SalesCount: 17},
		{Name: "Chocolate Bar", Barcode: "8991002109270", Category: "snack", PriceCents: 860, CostPriceCents: 560, Quantity: 4, SalesCount: 12},
		{Name: "Bath Soap", Barcode: "8991002110556", Category: "household", PriceCents: 740, CostPriceCents: 500, Quantity: 3, SalesCount: 8},
	}

	for i, p := range seed {
		p.ID = xid.New("prod")
		// Stagger creation times so recency ordering is deterministic.
		p.CreatedAt = now.Add(-time.Duration(len(seed)-i) * time.Minute)
		p.UpdatedAt = p.CreatedAt
		s.products[p.ID] = p
		s.productByBarcode[p.Barcode] = p.ID
	}

	return s
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}

	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(a.ID, b.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})

	return products, nil
}

func (s *Store) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyProduct := product
	return &copyProduct, nil
}

func (s *Store) GetProductByBarcode(_ context.Context, barcode string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.productByBarcode[barcode]
	if !exists {
		return nil, store.ErrNotFound
	}
	product := s.products[id]
	return &product, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if product.Name == "" || product.Barcode == "" || product.Category == "" {
		return nil, store.ErrInvalidArgument
	}
	if product.PriceCents < 1 || product.Quantity < 0 {
		return nil, store.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.productByBarcode[product.Barcode]; exists {
		return nil, store.ErrDuplicateBarcode
	}

	now := time.Now().UTC()
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = product.CreatedAt

	s.products[product.ID] = product
	s.productByBarcode[product.Barcode] = product.ID
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if product.Name == "" || product.Category == "" || product.PriceCents < 1 {
		return nil, store.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.products[product.ID]
	if !exists {
		return nil, store.ErrNotFound
	}

	product.Barcode = existing.Barcode
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	s.products[product.ID] = product
	updated := product
	return &updated, nil
}

func (s *Store) SetProductQuantity(_ context.Context, productID string, quantity int, at time.Time) (*domain.Product, error) {
	if quantity < 0 {
		return nil, store.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.products[productID]
	if !exists {
		return nil, store.ErrNotFound
	}

	product.Quantity = quantity
	product.UpdatedAt = at
	s.products[productID] = product
	updated := product
	return &updated, nil
}

func (s *Store) AdjustProductQuantity(_ context.Context, productID string, delta int, at time.Time) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.products[productID]
	if !exists {
		return nil, store.ErrNotFound
	}

	product.Quantity += delta
	if product.Quantity < 0 {
		product.Quantity = 0
	}
	product.UpdatedAt = at
	s.products[productID] = product
	updated := product
	return &updated, nil
}

// CreateBill persists the bill and applies the per-product quantity and
// sales-counter updates as one critical section: everything is validated
// before the first mutation, so a failed checkout leaves the catalog intact.
func (s *Store) CreateBill(_ context.Context, bill domain.Bill) (*domain.Bill, error) {
	if len(bill.Items) == 0 {
		return nil, store.ErrEmptyBill
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	total := int64(0)
	for i, item := range bill.Items {
		if item.Quantity < 1 {
			return nil, store.ErrInvalidArgument
		}
		if _, exists := s.products[item.Product.ID]; !exists {
			return nil, store.ErrNotFound
		}
		bill.Items[i].TotalPriceCents = item.Product.PriceCents * int64(item.Quantity)
		total += bill.Items[i].TotalPriceCents
	}

	if bill.ID == "" {
		bill.ID = xid.New("bill")
	}
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = time.Now().UTC()
	}
	if bill.Status == "" {
		bill.Status = domain.BillStatusCompleted
	}
	bill.TotalAmountCents = total

	for _, item := range bill.Items {
		product := s.products[item.Product.ID]
		product.Quantity -= item.Quantity
		if product.Quantity < 0 {
			product.Quantity = 0
		}
		product.SalesCount += item.Quantity
		product.UpdatedAt = bill.CreatedAt
		s.products[product.ID] = product
	}

	stored := cloneBill(&bill)
	s.billsByID[bill.ID] = stored
	return cloneBill(stored), nil
}

func (s *Store) ListBills(_ context.Context, userID string) ([]domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bills := make([]domain.Bill, 0, len(s.billsByID))
	for _, bill := range s.billsByID {
		if bill.UserID != userID {
			continue
		}
		bills = append(bills, *cloneBill(bill))
	}

	slices.SortFunc(bills, func(a, b domain.Bill) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})

	return bills, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 1 {
		limit = 100
	}

	result := make([]domain.AuditLog, 0, limit)
	for _, entry := range s.auditLogs {
		if entry.CreatedAt.Before(from) || !entry.CreatedAt.Before(to) {
			continue
		}
		result = append(result, entry)
	}

	slices.SortFunc(result, func(a, b domain.AuditLog) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || user.Password == "" {
		return store.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrInvalidArgument
	}
	user.Username = username
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.usersByUsername[username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func cloneBill(bill *domain.Bill) *domain.Bill {
	clone := *bill
	clone.Items = make([]domain.BillItem, len(bill.Items))
	copy(clone.Items, bill.Items)
	return &clone
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
