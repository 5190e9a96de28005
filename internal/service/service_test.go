package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/inventory/internal/kv"
	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/transport"
)

type fixture struct {
	products  *ProductService
	customers *CustomerService
	orders    *OrderService
	users     *UserService
}

func memStore(t *testing.T) kv.Store {
	t.Helper()
	s, err := kv.NewMemLevelDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	products := repo.New[models.Product](memStore(t), "products")
	customers := repo.New[models.Customer](memStore(t), "customers")
	orders := repo.New[models.Order](memStore(t), "orders")

	osvc := NewOrderService(orders, products, customers)
	osvc.Now = func() time.Time { return time.Unix(1700000000, 0) }

	return &fixture{
		products:  NewProductService(products),
		customers: NewCustomerService(customers),
		orders:    osvc,
		users:     NewUserService(repo.NewUserRepo(memStore(t))),
	}
}

func ptr[T any](v T) *T { return &v }

func num(s string) *json.Number {
	n := json.Number(s)
	return &n
}

func (f *fixture) product(t *testing.T, name, value string) *models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), transport.ProductRequest{Name: ptr(name), Value: num(value)})
	require.NoError(t, err)
	return p
}

func (f *fixture) customer(t *testing.T, name, email string) *models.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), transport.CustomerRequest{Name: ptr(name), Email: ptr(email)})
	require.NoError(t, err)
	return c
}

func item(productID string, qty string) transport.OrderItemRequest {
	return transport.OrderItemRequest{ProductID: productID, Quantity: json.Number(qty)}
}
