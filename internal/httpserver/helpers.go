package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/events"
	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/middleware/auth"
	"github.com/Skotchmaster/inventory/internal/util"
)

// publish sends a best-effort event; failures are logged and never reach
// the client.
func publish(c echo.Context, p events.Publisher, topic, typ, id string, data any) {
	if p == nil {
		return
	}
	ctx := c.Request().Context()
	if err := p.PublishEvent(ctx, topic, id, events.New(typ, id, actor(c), data)); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "type", typ, "id", id, "error", err)
	}
}

func actor(c echo.Context) string {
	if claims := auth.ClaimsFrom(c); claims != nil {
		return claims.Username
	}
	return ""
}

// list writes items as a JSON array. When page or size is given only that
// page is written and X-Total-Count carries the full length.
func list[T any](c echo.Context, items []T) error {
	page, size := c.QueryParam("page"), c.QueryParam("size")
	if page == "" && size == "" {
		return c.JSON(http.StatusOK, items)
	}
	c.Response().Header().Set("X-Total-Count", strconv.Itoa(len(items)))
	return c.JSON(http.StatusOK, util.Page(items,
		util.ParseIntDefault(page, 1),
		util.ParseIntDefault(size, util.DefaultPageSize)))
}
