package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/money"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/transport"
)

// OrderService owns the order aggregate. Customer and product references are
// checked against their stores at write time and the total is a price
// snapshot; nothing here re-prices an existing order.
type OrderService struct {
	Orders    *repo.Repository[models.Order]
	Products  *repo.Repository[models.Product]
	Customers *repo.Repository[models.Customer]
	Now       func() time.Time
}

func NewOrderService(orders *repo.Repository[models.Order], products *repo.Repository[models.Product], customers *repo.Repository[models.Customer]) *OrderService {
	return &OrderService{Orders: orders, Products: products, Customers: customers, Now: time.Now}
}

func (s *OrderService) GetAll(ctx context.Context) ([]models.Order, error) {
	return s.Orders.FindAll(ctx)
}

func (s *OrderService) GetByID(ctx context.Context, id string) (*models.Order, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: order %s not found", ErrNotFound, id)
	}
	o, err := s.Orders.FindByID(ctx, key)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: order %s not found", ErrNotFound, id)
	}
	return o, nil
}

func (s *OrderService) Create(ctx context.Context, req transport.OrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create")

	var customerID string
	if req.CustomerID != nil {
		customerID = *req.CustomerID
	}
	cid, err := s.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if req.Items == nil {
		return nil, fmt.Errorf("%w: 'items' must be a non-empty array", ErrValidation)
	}
	items, total, err := s.price(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.Now().Unix()
	o := &models.Order{
		ID:         uuid.NewString(),
		CustomerID: cid,
		Items:      items,
		Total:      total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Orders.Create(ctx, o); err != nil {
		l.Error("create_order_error", "error", err)
		return nil, err
	}
	l.Info("order_created", "order_id", o.ID, "total", o.Total)
	return o, nil
}

// Update applies the supplied fields. A supplied item list replaces the old one
// and the total is recomputed from it; otherwise the total is left alone.
func (s *OrderService) Update(ctx context.Context, id string, req transport.OrderRequest) (*models.Order, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: order %s not found", ErrNotFound, id)
	}
	existing, err := s.Orders.FindByID(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: order %s not found", ErrNotFound, id)
	}

	var cid string
	if req.CustomerID != nil {
		if cid, err = s.customer(ctx, *req.CustomerID); err != nil {
			return nil, err
		}
	}
	var (
		items []models.OrderItem
		total float64
	)
	if req.Items != nil {
		if items, total, err = s.price(ctx, req.Items); err != nil {
			return nil, err
		}
	}

	o, err := s.Orders.Update(ctx, key, func(o *models.Order) error {
		if req.CustomerID != nil {
			o.CustomerID = cid
		}
		if req.Items != nil {
			o.Items = items
			o.Total = total
		}
		o.UpdatedAt = s.Now().Unix()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: order %s not found", ErrNotFound, id)
	}
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) (*models.Order, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: order %s not found", ErrNotFound, id)
	}
	o, err := s.Orders.Delete(ctx, key)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: order %s not found", ErrNotFound, id)
	}
	return o, nil
}

// Search returns the orders matching every supplied filter.
func (s *OrderService) Search(ctx context.Context, f transport.OrderSearch) ([]models.Order, error) {
	var customerID, productID string
	if f.CustomerID != nil {
		id, ok := parseID(*f.CustomerID)
		if !ok {
			return nil, fmt.Errorf("%w: 'customer_id' must be a valid id", ErrValidation)
		}
		customerID = id
	}
	if f.ProductID != nil {
		id, ok := parseID(*f.ProductID)
		if !ok {
			return nil, fmt.Errorf("%w: 'product_id' must be a valid id", ErrValidation)
		}
		productID = id
	}

	return s.Orders.Filter(ctx, func(o *models.Order) bool {
		if customerID != "" && o.CustomerID != customerID {
			return false
		}
		if productID != "" && !slices.ContainsFunc(o.Items, func(it models.OrderItem) bool {
			return it.ProductID == productID
		}) {
			return false
		}
		return true
	})
}

func (s *OrderService) customer(ctx context.Context, raw string) (string, error) {
	id, ok := parseID(raw)
	if !ok {
		return "", fmt.Errorf("%w: order must have a valid customer", ErrValidation)
	}
	c, err := s.Customers.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", fmt.Errorf("%w: order must have a valid customer", ErrValidation)
	}
	return id, nil
}

// price validates every line against the product store and returns the
// normalised items with their total.
func (s *OrderService) price(ctx context.Context, reqItems []transport.OrderItemRequest) ([]models.OrderItem, float64, error) {
	if len(reqItems) == 0 {
		return nil, 0, fmt.Errorf("%w: 'items' must be a non-empty array", ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(reqItems))
	lines := make([]money.Line, 0, len(reqItems))
	for _, it := range reqItems {
		pid, ok := parseID(it.ProductID)
		if !ok {
			return nil, 0, fmt.Errorf("%w: 'items' must contain a valid productId and an integer quantity", ErrValidation)
		}
		qty, ok := quantity(it.Quantity)
		if !ok {
			return nil, 0, fmt.Errorf("%w: 'items' must contain a valid productId and an integer quantity", ErrValidation)
		}
		if qty <= 0 {
			return nil, 0, fmt.Errorf("%w: 'quantity' must be greater than 0", ErrValidation)
		}
		p, err := s.Products.FindByID(ctx, pid)
		if err != nil {
			return nil, 0, err
		}
		if p == nil {
			return nil, 0, fmt.Errorf("%w: product with id %s not found", ErrValidation, it.ProductID)
		}

		items = append(items, models.OrderItem{ProductID: pid, Quantity: int(qty)})
		lines = append(lines, money.Line{Price: p.Value, Quantity: int(qty)})
	}
	total, err := money.Total(lines)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: order total is out of range", ErrValidation)
	}
	return items, total, nil
}

// quantity accepts any integral JSON number, including 3.0 and 1e2.
func quantity(n json.Number) (int64, bool) {
	d, err := money.Parse(n.String())
	if err != nil || !d.IsInteger() {
		return 0, false
	}
	q := d.IntPart()
	if !decimal.NewFromInt(q).Equal(d) || q > math.MaxInt32 {
		return 0, false
	}
	return q, true
}
