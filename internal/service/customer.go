package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/transport"
)

type CustomerService struct {
	Repo *repo.Repository[models.Customer]
}

func NewCustomerService(r *repo.Repository[models.Customer]) *CustomerService {
	return &CustomerService{Repo: r}
}

func (s *CustomerService) GetAll(ctx context.Context) ([]models.Customer, error) {
	return s.Repo.FindAll(ctx)
}

func (s *CustomerService) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: customer %s not found", ErrNotFound, id)
	}
	c, err := s.Repo.FindByID(ctx, key)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: customer %s not found", ErrNotFound, id)
	}
	return c, nil
}

func (s *CustomerService) Create(ctx context.Context, req transport.CustomerRequest) (*models.Customer, error) {
	l := logging.FromContext(ctx).With("svc", "customer.create")

	if req.Name == nil {
		return nil, fmt.Errorf("%w: 'name' must be a non-empty string", ErrValidation)
	}
	name, err := customerName(*req.Name)
	if err != nil {
		return nil, err
	}
	if req.Email == nil {
		return nil, fmt.Errorf("%w: 'email' must be a valid email", ErrValidation)
	}
	email, err := customerEmail(*req.Email)
	if err != nil {
		return nil, err
	}

	c := &models.Customer{ID: uuid.NewString(), Name: name, Email: email}
	if err := s.Repo.Create(ctx, c); err != nil {
		l.Error("create_customer_error", "error", err)
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, req transport.CustomerRequest) (*models.Customer, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: customer %s not found", ErrNotFound, id)
	}

	var name, email *string
	if req.Name != nil {
		n, err := customerName(*req.Name)
		if err != nil {
			return nil, err
		}
		name = &n
	}
	if req.Email != nil {
		e, err := customerEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		email = &e
	}

	c, err := s.Repo.Update(ctx, key, func(c *models.Customer) error {
		if name != nil {
			c.Name = *name
		}
		if email != nil {
			c.Email = *email
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: customer %s not found", ErrNotFound, id)
	}
	return c, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) (*models.Customer, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: customer %s not found", ErrNotFound, id)
	}
	c, err := s.Repo.Delete(ctx, key)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: customer %s not found", ErrNotFound, id)
	}
	return c, nil
}

func customerName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", fmt.Errorf("%w: 'name' must be a non-empty string", ErrValidation)
	}
	return name, nil
}

func customerEmail(s string) (string, error) {
	if !validEmail(s) {
		return "", fmt.Errorf("%w: 'email' must be a valid email", ErrValidation)
	}
	return strings.ToLower(s), nil
}
