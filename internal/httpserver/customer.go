package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/events"
	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/transport"
)

type CustomerHTTP struct {
	Svc    *service.CustomerService
	Events events.Publisher
}

func (h *CustomerHTTP) GetCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get_customers")

	customers, err := h.Svc.GetAll(ctx)
	if err != nil {
		return fail(l, "get_customers_error", err)
	}
	return list(c, customers)
}

func (h *CustomerHTTP) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get_customer")

	cu, err := h.Svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_customer_error", err)
	}
	return c.JSON(http.StatusOK, cu)
}

func (h *CustomerHTTP) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.create")

	var req transport.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_customer_error", err)
	}

	cu, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_customer_error", err)
	}

	publish(c, h.Events, events.TopicCustomers, events.Created, cu.ID, cu)
	l.Info("create_customer_success", "customer_id", cu.ID)
	return c.JSON(http.StatusCreated, cu)
}

func (h *CustomerHTTP) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.update")

	var req transport.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_customer_error", err)
	}

	cu, err := h.Svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "update_customer_error", err)
	}

	publish(c, h.Events, events.TopicCustomers, events.Updated, cu.ID, cu)
	l.Info("update_customer_success", "customer_id", cu.ID)
	return c.JSON(http.StatusOK, cu)
}

func (h *CustomerHTTP) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.delete")

	cu, err := h.Svc.Delete(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "delete_customer_error", err)
	}

	publish(c, h.Events, events.TopicCustomers, events.Deleted, cu.ID, cu)
	l.Info("delete_customer_success", "customer_id", cu.ID)
	return c.JSON(http.StatusOK, cu)
}
