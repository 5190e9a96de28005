package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/events"
	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/metrics"
	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/transport"
)

type OrderHTTP struct {
	Svc     *service.OrderService
	Events  events.Publisher
	Metrics *metrics.Metrics
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	orders, err := h.Svc.GetAll(ctx)
	if err != nil {
		return fail(l, "get_orders_error", err)
	}
	return list(c, orders)
}

func (h *OrderHTTP) SearchOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.search")

	var f transport.OrderSearch
	q := c.QueryParams()
	if v, ok := q["customer_id"]; ok {
		f.CustomerID = &v[0]
	}
	if v, ok := q["product_id"]; ok {
		f.ProductID = &v[0]
	}

	orders, err := h.Svc.Search(ctx, f)
	if err != nil {
		return fail(l, "search_orders_error", err)
	}
	return list(c, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	o, err := h.Svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.OrderRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_order_error", err)
	}

	o, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_order_error", err)
	}

	if h.Metrics != nil {
		h.Metrics.OrderCreated(o.Total)
	}
	publish(c, h.Events, events.TopicOrders, events.Created, o.ID, o)
	l.Info("create_order_success", "order_id", o.ID)
	return c.JSON(http.StatusCreated, o)
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update")

	var req transport.OrderRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_order_error", err)
	}

	o, err := h.Svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "update_order_error", err)
	}

	publish(c, h.Events, events.TopicOrders, events.Updated, o.ID, o)
	l.Info("update_order_success", "order_id", o.ID)
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	o, err := h.Svc.Delete(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "delete_order_error", err)
	}

	publish(c, h.Events, events.TopicOrders, events.Deleted, o.ID, o)
	l.Info("delete_order_success", "order_id", o.ID)
	return c.JSON(http.StatusOK, o)
}
