package service

import (
	"context"
	"errors"
	"sync"

	"github.com/mtljason322/freshcart/internal/domain"
	"github.com/mtljason322/freshcart/internal/events"
	"github.com/mtljason322/freshcart/pkg/middleware"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound    = domain.ErrProductNotFound
	ErrProductExists      = errors.New("product already exists")
	ErrExpiryRequired     = errors.New("expiry_date is required for perishable products")
	ErrUnknownProductType = errors.New("unknown product type")
	ErrHistoryUnavailable = errors.New("product history is not available")
)

// HistoryReader returns the recorded events of a product.
type HistoryReader interface {
	History(ctx context.Context, sku string) ([]events.InventoryEvent, error)
}

// ProductService is the entry point to the inventory. The inventory
// itself allows duplicate SKUs; this service rejects them. All access
// to the inventory is serialised by mu.
type ProductService struct {
	mu        sync.Mutex
	inventory *domain.Inventory
	clock     domain.Clock
	publisher events.Publisher
	history   HistoryReader
	logger    *zap.Logger
}

type Option func(*ProductService)

// WithClock sets the time source for perishable products.
func WithClock(clock domain.Clock) Option {
	return func(s *ProductService) {
		s.clock = clock
	}
}

// WithPublisher sends inventory changes to p.
func WithPublisher(p events.Publisher) Option {
	return func(s *ProductService) {
		s.publisher = p
	}
}

func WithHistory(h HistoryReader) Option {
	return func(s *ProductService) {
		s.history = h
	}
}

func NewProductService(logger *zap.Logger, opts ...Option) *ProductService {
	s := &ProductService{
		clock:  domain.SystemClock,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.inventory = domain.NewInventory(domain.WithAddObserver(func(item domain.Item) {
		s.logger.Debug("Product added to inventory",
			zap.String("sku", item.SKU()),
			zap.Stringer("product", item))
	}))
	return s
}

func (s *ProductService) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.Item, error) {
	if req.InitialPrice == nil {
		return nil, &domain.ValidationError{Field: "price", Reason: "is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 중복 체크
	if s.inventory.Contains(req.SKU) {
		return nil, ErrProductExists
	}

	var (
		item domain.Item
		err  error
	)
	switch req.Type {
	case domain.KindRegular, "":
		item, err = domain.NewProduct(req.SKU, req.Name, *req.InitialPrice)
	case domain.KindPerishable:
		if req.ExpiryDate == nil {
			return nil, ErrExpiryRequired
		}
		item, err = domain.NewPerishableProduct(req.SKU, req.Name, *req.InitialPrice, *req.ExpiryDate,
			domain.WithClock(s.clock))
	default:
		return nil, ErrUnknownProductType
	}
	if err != nil {
		return nil, err
	}

	s.inventory.Add(item)

	s.logger.Info("Product created successfully",
		zap.String("sku", item.SKU()),
		zap.String("type", string(item.Kind())),
		zap.Float64("price", item.Price()))

	s.publish(ctx, events.ProductAdded, item)

	return item, nil
}

func (s *ProductService) GetProduct(ctx context.Context, sku string) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.inventory.Find(sku)
	if !ok {
		return nil, &domain.ProductNotFoundError{SKU: sku}
	}
	return item, nil
}

// ListProducts returns every product ordered by ascending price.
func (s *ProductService) ListProducts(ctx context.Context) []domain.Item {
	s.mu.Lock()
	items := s.inventory.All()
	s.mu.Unlock()

	domain.SortByPrice(items)
	return items
}

func (s *ProductService) ExpiredProducts(ctx context.Context) []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inventory.Expired()
}

func (s *ProductService) RemoveProduct(ctx context.Context, sku string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.inventory.Find(sku)
	if err := s.inventory.Remove(sku); err != nil {
		return err
	}

	s.logger.Info("Product removed", zap.String("sku", sku))

	if ok {
		s.publish(ctx, events.ProductRemoved, item)
	}
	return nil
}

func (s *ProductService) TotalValue(ctx context.Context) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inventory.TotalValue()
}

func (s *ProductService) ProductHistory(ctx context.Context, sku string) ([]events.InventoryEvent, error) {
	if s.history == nil {
		return nil, ErrHistoryUnavailable
	}
	return s.history.History(ctx, sku)
}

// publish never fails the caller; delivery errors are only logged.
func (s *ProductService) publish(ctx context.Context, eventType events.EventType, item domain.Item) {
	if s.publisher == nil {
		return
	}

	event := events.NewInventoryEvent(eventType, item, middleware.RequestIDFromContext(ctx))
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish inventory event",
			zap.String("event_id", event.EventID),
			zap.String("type", string(eventType)),
			zap.String("sku", item.SKU()),
			zap.Error(err))
	}
}
