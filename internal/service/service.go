package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"retailpos/backend/internal/analytics"
	"retailpos/backend/internal/billing"
	"retailpos/backend/internal/domain"
	"retailpos/backend/internal/store"
	"retailpos/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// Service owns the catalog operations, the per-cashier bill builders, and
// checkout. Builders live in memory keyed by username: the in-progress bill
// is terminal state, not catalog state, and is lost on restart by design of
// the checkout flow (only settled bills are persisted).
type Service struct {
	repo      store.Repository
	analytics *analytics.Engine

	mu       sync.Mutex
	builders map[string]*billing.Builder
}

func New(repo store.Repository, engine *analytics.Engine) *Service {
	return &Service{
		repo:      repo,
		analytics: engine,
		builders:  make(map[string]*billing.Builder),
	}
}

func (s *Service) builderFor(username string) *billing.Builder {
	s.mu.Lock()
	defer s.mu.Unlock()

	builder, ok := s.builders[username]
	if !ok {
		builder = billing.NewBuilder()
		s.builders[username] = builder
	}
	return builder
}

func requireActor(ctx context.Context) (domain.Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Username == "" {
		return domain.Actor{}, store.ErrInvalidArgument
	}
	return actor, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, store.ErrInvalidArgument
	}
	return s.repo.GetProductByID(ctx, id)
}

func (s *Service) FindProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, store.ErrInvalidArgument
	}
	return s.repo.GetProductByBarcode(ctx, barcode)
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (*domain.Product, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Barcode = strings.TrimSpace(req.Barcode)
	req.Category = strings.TrimSpace(req.Category)
	if req.Name == "" || req.Barcode == "" || req.Category == "" {
		return nil, store.ErrInvalidArgument
	}
	if req.PriceCents < 1 || req.Quantity < 0 || req.CostPriceCents < 0 {
		return nil, store.ErrInvalidArgument
	}

	product := domain.Product{
		ID:             xid.New("prod"),
		Name:           req.Name,
		Barcode:        req.Barcode,
		Category:       req.Category,
		PriceCents:     req.PriceCents,
		Quantity:       req.Quantity,
		CostPriceCents: req.CostPriceCents,
		Description:    strings.TrimSpace(req.Description),
		ImageURL:       strings.TrimSpace(req.ImageURL),
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}

	s.analytics.Invalidate(ctx, actor.Username)
	s.logAudit(ctx, actor, "product.create", "product", created.ID,
		fmt.Sprintf("name=%s barcode=%s price_cents=%d qty=%d", created.Name, created.Barcode, created.PriceCents, created.Quantity))
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (*domain.Product, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, store.ErrInvalidArgument
	}

	existing, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product := *existing
	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		product.Category = strings.TrimSpace(*req.Category)
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.CostPriceCents != nil {
		product.CostPriceCents = *req.CostPriceCents
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.ImageURL != nil {
		product.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if product.Name == "" || product.Category == "" || product.PriceCents < 1 || product.CostPriceCents < 0 {
		return nil, store.ErrInvalidArgument
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, err
	}

	s.analytics.Invalidate(ctx, actor.Username)
	s.logAudit(ctx, actor, "product.update", "product", updated.ID,
		fmt.Sprintf("name=%s price_cents=%d", updated.Name, updated.PriceCents))
	return updated, nil
}

// SetProductQuantity applies either an absolute quantity or a signed delta.
// Deltas floor at zero; absolute values below zero are rejected.
func (s *Service) SetProductQuantity(ctx context.Context, id string, req domain.QuantityUpdateRequest) (*domain.Product, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, store.ErrInvalidArgument
	}

	now := time.Now().UTC()
	var updated *domain.Product
	switch {
	case req.Quantity != nil:
		updated, err = s.repo.SetProductQuantity(ctx, id, *req.Quantity, now)
	case req.Delta != nil:
		updated, err = s.repo.AdjustProductQuantity(ctx, id, *req.Delta, now)
	default:
		return nil, store.ErrInvalidArgument
	}
	if err != nil {
		return nil, err
	}

	s.analytics.Invalidate(ctx, actor.Username)
	s.logAudit(ctx, actor, "product.quantity", "product", updated.ID,
		fmt.Sprintf("quantity=%d", updated.Quantity))
	return updated, nil
}

// AddToBill resolves the product by barcode (preferred) or ID, then appends
// it to the caller's in-progress bill. The current catalog quantity is the
// stock ceiling: lines already on the bill count against it.
func (s *Service) AddToBill(ctx context.Context, req domain.BillAddItemRequest) (domain.CurrentBillResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.CurrentBillResponse{}, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	var product *domain.Product
	switch {
	case strings.TrimSpace(req.Barcode) != "":
		product, err = s.repo.GetProductByBarcode(ctx, strings.TrimSpace(req.Barcode))
	case strings.TrimSpace(req.ProductID) != "":
		product, err = s.repo.GetProductByID(ctx, strings.TrimSpace(req.ProductID))
	default:
		return domain.CurrentBillResponse{}, store.ErrInvalidArgument
	}
	if err != nil {
		return domain.CurrentBillResponse{}, err
	}

	builder := s.builderFor(actor.Username)
	if err := builder.AddItem(*product, quantity); err != nil {
		return domain.CurrentBillResponse{}, err
	}
	return currentBill(builder), nil
}

func (s *Service) UpdateBillItem(ctx context.Context, index int, req domain.BillItemQuantityRequest) (domain.CurrentBillResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.CurrentBillResponse{}, err
	}

	builder := s.builderFor(actor.Username)
	line, err := builder.ItemAt(index)
	if err != nil {
		return domain.CurrentBillResponse{}, err
	}

	// Reload the product so the stock ceiling reflects the current catalog,
	// not the snapshot captured when the line was added.
	product, err := s.repo.GetProductByID(ctx, line.Product.ID)
	if err != nil {
		return domain.CurrentBillResponse{}, err
	}

	if err := builder.SetItemQuantity(index, req.Quantity, *product); err != nil {
		return domain.CurrentBillResponse{}, err
	}
	return currentBill(builder), nil
}

func (s *Service) RemoveBillItem(ctx context.Context, index int) (domain.CurrentBillResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.CurrentBillResponse{}, err
	}

	builder := s.builderFor(actor.Username)
	if err := builder.RemoveItem(index); err != nil {
		return domain.CurrentBillResponse{}, err
	}
	return currentBill(builder), nil
}

func (s *Service) ClearBill(ctx context.Context) (domain.CurrentBillResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.CurrentBillResponse{}, err
	}

	builder := s.builderFor(actor.Username)
	builder.Clear()
	return currentBill(builder), nil
}

func (s *Service) CurrentBill(ctx context.Context) (domain.CurrentBillResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.CurrentBillResponse{}, err
	}
	return currentBill(s.builderFor(actor.Username)), nil
}

// Checkout settles the caller's in-progress bill. The store commits the
// bill, its line items, and the product quantity and sales-count updates
// atomically; the builder is cleared only after the commit succeeds, so a
// failed checkout leaves the bill editable.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	builder := s.builderFor(actor.Username)
	items := builder.Items()
	if len(items) == 0 {
		return nil, store.ErrEmptyBill
	}

	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	bill := domain.Bill{
		ID:               xid.New("bill"),
		UserID:           actor.Username,
		Items:            items,
		TotalAmountCents: builder.Total(),
		PaymentMethod:    paymentMethod,
		CustomerName:     strings.TrimSpace(req.CustomerName),
		CustomerPhone:    strings.TrimSpace(req.CustomerPhone),
		Status:           domain.BillStatusCompleted,
		CreatedAt:        time.Now().UTC(),
	}

	created, err := s.repo.CreateBill(ctx, bill)
	if err != nil {
		return nil, err
	}

	builder.Clear()
	s.analytics.Invalidate(ctx, actor.Username)
	s.logAudit(ctx, actor, "bill.checkout", "bill", created.ID,
		fmt.Sprintf("total_cents=%d items=%d payment=%s", created.TotalAmountCents, len(created.Items), created.PaymentMethod))

	return &domain.CheckoutResponse{Bill: *created}, nil
}

func (s *Service) ListBills(ctx context.Context) ([]domain.Bill, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListBills(ctx, actor.Username)
}

func (s *Service) AnalyticsOverview(ctx context.Context) (domain.AnalyticsOverview, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.AnalyticsOverview{}, err
	}
	return s.analytics.Overview(ctx, actor.Username)
}

func (s *Service) Dashboard(ctx context.Context) (domain.DashboardResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.DashboardResponse{}, err
	}
	return s.analytics.Dashboard(ctx, actor.Username)
}

func (s *Service) ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	if !from.Before(to) {
		return nil, store.ErrInvalidArgument
	}
	return s.repo.ListAuditLogs(ctx, from, to, limit)
}

func currentBill(builder *billing.Builder) domain.CurrentBillResponse {
	items := builder.Items()
	return domain.CurrentBillResponse{
		Items:            items,
		TotalAmountCents: builder.Total(),
		ItemCount:        builder.ItemCount(),
	}
}

func (s *Service) logAudit(ctx context.Context, actor domain.Actor, action string, entityType string, entityID string, detail string) {
	entry := domain.AuditLog{
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("audit log write failed")
	}
}
