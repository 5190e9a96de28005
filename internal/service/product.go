package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/money"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/transport"
)

type ProductService struct {
	Repo *repo.Repository[models.Product]
}

func NewProductService(r *repo.Repository[models.Product]) *ProductService {
	return &ProductService{Repo: r}
}

func (s *ProductService) GetAll(ctx context.Context) ([]models.Product, error) {
	return s.Repo.FindAll(ctx)
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: product %s not found", ErrNotFound, id)
	}
	p, err := s.Repo.FindByID(ctx, key)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product %s not found", ErrNotFound, id)
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.create")

	if req.Name == nil {
		return nil, fmt.Errorf("%w: 'name' must be a non-empty string", ErrValidation)
	}
	name, err := productName(*req.Name)
	if err != nil {
		return nil, err
	}
	if req.Value == nil {
		return nil, fmt.Errorf("%w: 'value' must be a numeric value", ErrValidation)
	}
	value, err := productValue(req.Value.String())
	if err != nil {
		return nil, err
	}

	p := &models.Product{ID: uuid.NewString(), Name: name, Value: value}
	if err := s.Repo.Create(ctx, p); err != nil {
		l.Error("create_product_error", "error", err)
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req transport.ProductRequest) (*models.Product, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: product %s not found", ErrNotFound, id)
	}

	var name *string
	if req.Name != nil {
		n, err := productName(*req.Name)
		if err != nil {
			return nil, err
		}
		name = &n
	}
	var value *float64
	if req.Value != nil {
		v, err := productValue(req.Value.String())
		if err != nil {
			return nil, err
		}
		value = &v
	}

	p, err := s.Repo.Update(ctx, key, func(p *models.Product) error {
		if name != nil {
			p.Name = *name
		}
		if value != nil {
			p.Value = *value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product %s not found", ErrNotFound, id)
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) (*models.Product, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: product %s not found", ErrNotFound, id)
	}
	p, err := s.Repo.Delete(ctx, key)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product %s not found", ErrNotFound, id)
	}
	return p, nil
}

func productName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", fmt.Errorf("%w: 'name' must be a non-empty string", ErrValidation)
	}
	return name, nil
}

func productValue(s string) (float64, error) {
	d, err := money.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%w: 'value' must be a numeric value", ErrValidation)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: 'value' must be greater than or equal to 0", ErrValidation)
	}
	v, err := money.Amount(d)
	if err != nil {
		return 0, fmt.Errorf("%w: 'value' must be a numeric value", ErrValidation)
	}
	return v, nil
}
