package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/inventory/internal/transport"
)

func TestOrderService_CreateTotalSnapshot(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.product(t, "p1", "9.999")
	require.Equal(t, 10.0, p1.Value)
	c := f.customer(t, "Ada", "ada@example.com")

	o, err := f.orders.Create(ctx, transport.OrderRequest{
		CustomerID: ptr(c.ID),
		Items:      []transport.OrderItemRequest{item(p1.ID, "3")},
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, o.Total)
	assert.Equal(t, int64(1700000000), o.CreatedAt)
	assert.Equal(t, o.CreatedAt, o.UpdatedAt)

	_, err = f.products.Update(ctx, p1.ID, transport.ProductRequest{Value: num("99")})
	require.NoError(t, err)

	got, err := f.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, got)
	assert.Equal(t, 30.0, got.Total)
}

func TestOrderService_CreateTotals(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	c := f.customer(t, "Ada", "ada@example.com")

	a := f.product(t, "a", "0.1")
	b := f.product(t, "b", "0.2")
	d := f.product(t, "d", "19.99")

	tests := []struct {
		name  string
		items []transport.OrderItemRequest
		want  float64
	}{
		{name: "single", items: []transport.OrderItemRequest{item(d.ID, "1")}, want: 19.99},
		{name: "float sum", items: []transport.OrderItemRequest{item(a.ID, "1"), item(b.ID, "1")}, want: 0.3},
		{name: "mixed", items: []transport.OrderItemRequest{item(a.ID, "3"), item(d.ID, "7")}, want: 140.23},
		{name: "same product twice", items: []transport.OrderItemRequest{item(b.ID, "2"), item(b.ID, "3")}, want: 1.0},
		{name: "integral float quantity", items: []transport.OrderItemRequest{item(d.ID, "3.0")}, want: 59.97},
		{name: "exponent quantity", items: []transport.OrderItemRequest{item(a.ID, "1e2")}, want: 10.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := f.orders.Create(ctx, transport.OrderRequest{CustomerID: ptr(c.ID), Items: tt.items})
			require.NoError(t, err)
			assert.Equal(t, tt.want, o.Total)
		})
	}
}

func TestOrderService_CreateFailuresPersistNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	c := f.customer(t, "Ada", "ada@example.com")
	p := f.product(t, "p", "1")
	huge := f.product(t, "huge", "1e300")

	tests := []struct {
		name string
		req  transport.OrderRequest
	}{
		{name: "unknown customer", req: transport.OrderRequest{CustomerID: ptr(uuid.NewString()), Items: []transport.OrderItemRequest{item(p.ID, "1")}}},
		{name: "malformed customer", req: transport.OrderRequest{CustomerID: ptr("7"), Items: []transport.OrderItemRequest{item(p.ID, "1")}}},
		{name: "missing customer", req: transport.OrderRequest{Items: []transport.OrderItemRequest{item(p.ID, "1")}}},
		{name: "no items", req: transport.OrderRequest{CustomerID: ptr(c.ID)}},
		{name: "empty items", req: transport.OrderRequest{CustomerID: ptr(c.ID), Items: []transport.OrderItemRequest{}}},
		{name: "zero quantity", req: transport.OrderRequest{CustomerID: ptr(c.ID), Items: []transport.OrderItemRequest{item(p.ID, "0")}}},
		{name: "fractional quantity", req: transport.OrderRequest{CustomerID: ptr(c.ID), Items: []transport.OrderItemRequest{item(p.ID, "1.5")}}},
		{name: "bad product id", req: transport.OrderRequest{CustomerID: ptr(c.ID), Items: []transport.OrderItemRequest{item("1", "1")}}},
		{name: "one unknown product", req: transport.OrderRequest{CustomerID: ptr(c.ID), Items: []transport.OrderItemRequest{item(p.ID, "1"), item(uuid.NewString(), "2")}}},
		{name: "total beyond float range", req: transport.OrderRequest{CustomerID: ptr(c.ID), Items: []transport.OrderItemRequest{item(huge.ID, "1000000000")}}},
		{name: "quantity too large", req: transport.OrderRequest{CustomerID: ptr(c.ID), Items: []transport.OrderItemRequest{item(p.ID, "1e30")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.Create(ctx, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	all, err := f.orders.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOrderService_Update(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	c1 := f.customer(t, "Ada", "ada@example.com")
	c2 := f.customer(t, "Bob", "bob@example.com")
	p1 := f.product(t, "p1", "2.50")
	p2 := f.product(t, "p2", "4")

	o, err := f.orders.Create(ctx, transport.OrderRequest{
		CustomerID: ptr(c1.ID),
		Items:      []transport.OrderItemRequest{item(p1.ID, "2")},
	})
	require.NoError(t, err)
	require.Equal(t, 5.0, o.Total)

	_, err = f.products.Update(ctx, p1.ID, transport.ProductRequest{Value: num("3")})
	require.NoError(t, err)

	f.orders.Now = func() time.Time { return time.Unix(1700000100, 0) }
	got, err := f.orders.Update(ctx, o.ID, transport.OrderRequest{CustomerID: ptr(c2.ID)})
	require.NoError(t, err)
	assert.Equal(t, c2.ID, got.CustomerID)
	assert.Equal(t, 5.0, got.Total, "total untouched without items")
	assert.Equal(t, o.CreatedAt, got.CreatedAt)
	assert.Equal(t, int64(1700000100), got.UpdatedAt)

	got, err = f.orders.Update(ctx, o.ID, transport.OrderRequest{
		Items: []transport.OrderItemRequest{item(p2.ID, "1")},
	})
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Total, "recomputed from the new list only")
	require.Len(t, got.Items, 1)
	assert.Equal(t, p2.ID, got.Items[0].ProductID)

	_, err = f.orders.Update(ctx, o.ID, transport.OrderRequest{Items: []transport.OrderItemRequest{}})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.orders.Update(ctx, o.ID, transport.OrderRequest{CustomerID: ptr(uuid.NewString())})
	assert.ErrorIs(t, err, ErrValidation)

	stored, err := f.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)

	_, err = f.orders.Update(ctx, uuid.NewString(), transport.OrderRequest{CustomerID: ptr(c1.ID)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_Delete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	c := f.customer(t, "Ada", "ada@example.com")
	p := f.product(t, "p", "1")

	o, err := f.orders.Create(ctx, transport.OrderRequest{CustomerID: ptr(c.ID), Items: []transport.OrderItemRequest{item(p.ID, "1")}})
	require.NoError(t, err)

	removed, err := f.orders.Delete(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, removed)

	_, err = f.orders.Delete(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.orders.GetByID(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_Search(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	x := f.customer(t, "X", "x@example.com")
	z := f.customer(t, "Z", "z@example.com")
	y := f.product(t, "Y", "1")
	w := f.product(t, "W", "2")

	create := func(cid string, items ...transport.OrderItemRequest) string {
		o, err := f.orders.Create(ctx, transport.OrderRequest{CustomerID: ptr(cid), Items: items})
		require.NoError(t, err)
		return o.ID
	}
	xy := create(x.ID, item(w.ID, "1"), item(y.ID, "1"))
	xw := create(x.ID, item(w.ID, "2"))
	zy := create(z.ID, item(y.ID, "3"))

	tests := []struct {
		name   string
		filter transport.OrderSearch
		want   []string
	}{
		{name: "none", filter: transport.OrderSearch{}, want: []string{xy, xw, zy}},
		{name: "customer", filter: transport.OrderSearch{CustomerID: ptr(x.ID)}, want: []string{xy, xw}},
		{name: "product", filter: transport.OrderSearch{ProductID: ptr(y.ID)}, want: []string{xy, zy}},
		{name: "both", filter: transport.OrderSearch{CustomerID: ptr(x.ID), ProductID: ptr(y.ID)}, want: []string{xy}},
		{name: "no match", filter: transport.OrderSearch{CustomerID: ptr(z.ID), ProductID: ptr(w.ID)}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.orders.Search(ctx, tt.filter)
			require.NoError(t, err)
			gotIDs := make([]string, 0, len(got))
			for _, o := range got {
				gotIDs = append(gotIDs, o.ID)
			}
			assert.ElementsMatch(t, tt.want, gotIDs)
		})
	}

	_, err := f.orders.Search(ctx, transport.OrderSearch{CustomerID: ptr("abc")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.orders.Search(ctx, transport.OrderSearch{ProductID: ptr("12")})
	assert.ErrorIs(t, err, ErrValidation)
}
