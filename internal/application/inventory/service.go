package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/minicart/fulfillment/internal/domain/product"
	"github.com/minicart/fulfillment/internal/pkg/logging"
)

// Service owns the stock store's application operations: the availability
// query used by order validation and the administrative product surface.
type Service struct {
	products product.Repository
	log      *zap.Logger
}

func NewService(products product.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		products: products,
		log:      logger.With(zap.String("component", "inventory_service")),
	}
}

type AvailabilityResult struct {
	Available bool
	Current   int
}

// Availability answers whether qty units of the product can currently be
// satisfied. The answer is advisory: no hold or reservation is taken, and
// nothing prevents concurrent callers from each being told yes against the
// same stock.
func (s *Service) Availability(ctx context.Context, productID string, qty int) (AvailabilityResult, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return AvailabilityResult{}, err
	}
	available, current := p.Availability(qty)

	logging.FromContext(ctx).Debug("availability_checked",
		zap.String("product_id", productID),
		zap.Int("requested", qty),
		zap.Bool("available", available),
		zap.Int("current", current),
	)
	return AvailabilityResult{Available: available, Current: current}, nil
}

type ProductInput struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Quantity    int
}

// CreateProduct registers a new product. An empty id gets one assigned by
// the caller-facing layer; here it is required.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*product.Product, error) {
	p, err := product.New(in.ID, in.Name, in.Description, in.Price, in.Quantity)
	if err != nil {
		return nil, err
	}
	if err := s.products.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct replaces the administrative fields of an existing product.
func (s *Service) UpdateProduct(ctx context.Context, in ProductInput) (*product.Product, error) {
	p, err := s.products.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	updated, err := product.New(p.ID, in.Name, in.Description, in.Price, in.Quantity)
	if err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]*product.Product, error) {
	return s.products.List(ctx)
}
