package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/inventory/internal/transport"
)

func TestProductService_CreateRoundsAndTrims(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	p := f.product(t, "  Widget ", "9.999")
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, 10.0, p.Value)

	p = f.product(t, "Half", "10.005")
	assert.Equal(t, 10.01, p.Value)

	got, err := f.products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestProductService_CreateValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name string
		req  transport.ProductRequest
	}{
		{name: "missing name", req: transport.ProductRequest{Value: num("1")}},
		{name: "blank name", req: transport.ProductRequest{Name: ptr("   "), Value: num("1")}},
		{name: "missing value", req: transport.ProductRequest{Name: ptr("a")}},
		{name: "not numeric", req: transport.ProductRequest{Name: ptr("a"), Value: num("abc")}},
		{name: "negative", req: transport.ProductRequest{Name: ptr("a"), Value: num("-0.001")}},
		{name: "beyond float range", req: transport.ProductRequest{Name: ptr("a"), Value: num("1e400")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.products.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	all, err := f.products.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProductService_PartialUpdate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Widget", "5")

	got, err := f.products.Update(ctx, p.ID, transport.ProductRequest{Value: num("7.456")})
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, 7.46, got.Value)

	got, err = f.products.Update(ctx, p.ID, transport.ProductRequest{Name: ptr("Gadget")})
	require.NoError(t, err)
	assert.Equal(t, "Gadget", got.Name)
	assert.Equal(t, 7.46, got.Value)

	_, err = f.products.Update(ctx, p.ID, transport.ProductRequest{Name: ptr(""), Value: num("1")})
	assert.ErrorIs(t, err, ErrValidation)
	got, err = f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.46, got.Value)

	_, err = f.products.Update(ctx, uuid.NewString(), transport.ProductRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_Delete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Widget", "5")

	removed, err := f.products.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, removed)

	_, err = f.products.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.products.Delete(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrNotFound)
}
