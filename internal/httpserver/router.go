package httpserver

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/metrics"
	"github.com/Skotchmaster/inventory/internal/middleware/auth"
	"github.com/Skotchmaster/inventory/internal/middleware/ratelimit"
	"github.com/Skotchmaster/inventory/internal/policy"
)

type Deps struct {
	Products  *ProductHTTP
	Customers *CustomerHTTP
	Orders    *OrderHTTP
	Auth      *AuthHTTP

	AuthMW       *auth.Middleware
	LoginLimiter *ratelimit.Limiter
	Metrics      *metrics.Metrics

	// StaticDir holds the front-end; pages are not served when empty.
	StaticDir string
	// Ready reports whether the stores can serve requests.
	Ready func() error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	login := []echo.MiddlewareFunc{}
	if d.LoginLimiter != nil {
		login = append(login, d.LoginLimiter.Middleware)
	}
	e.POST("/api/login", d.Auth.Login, login...)
	e.POST("/api/logout", d.Auth.LogOut)

	mw := d.AuthMW
	api := e.Group("/api", mw.RequireAuth)

	products := api.Group("/products")
	products.GET("", d.Products.GetProducts, mw.Require(policy.ProductsRead))
	products.GET("/:id", d.Products.GetProduct, mw.Require(policy.ProductsRead))
	products.POST("", d.Products.CreateProduct, mw.Require(policy.ProductsWrite))
	products.PUT("/:id", d.Products.UpdateProduct, mw.Require(policy.ProductsWrite))
	products.DELETE("/:id", d.Products.DeleteProduct, mw.Require(policy.ProductsWrite))

	customers := api.Group("/customers")
	customers.GET("", d.Customers.GetCustomers, mw.Require(policy.CustomersRead))
	customers.GET("/:id", d.Customers.GetCustomer, mw.Require(policy.CustomersRead))
	customers.POST("", d.Customers.CreateCustomer, mw.Require(policy.CustomersWrite))
	customers.PUT("/:id", d.Customers.UpdateCustomer, mw.Require(policy.CustomersWrite))
	customers.DELETE("/:id", d.Customers.DeleteCustomer, mw.Require(policy.CustomersWrite))

	orders := api.Group("/orders")
	orders.GET("", d.Orders.GetOrders, mw.Require(policy.OrdersRead))
	orders.GET("/search", d.Orders.SearchOrders, mw.Require(policy.OrdersRead))
	orders.GET("/:id", d.Orders.GetOrder, mw.Require(policy.OrdersRead))
	orders.POST("", d.Orders.CreateOrder, mw.Require(policy.OrdersWrite))
	orders.PUT("/:id", d.Orders.UpdateOrder, mw.Require(policy.OrdersWrite))
	orders.DELETE("/:id", d.Orders.DeleteOrder, mw.Require(policy.OrdersWrite))

	users := api.Group("/login")
	users.GET("", d.Auth.CurrentUser, mw.Require(policy.UsersSelf))
	users.GET("/verify", d.Auth.Verify, mw.Require(policy.UsersSelf))
	users.GET("/all", d.Auth.GetUsers, mw.Require(policy.UsersManage))
	users.POST("/create", d.Auth.CreateUser, mw.Require(policy.UsersManage))
	users.GET("/:username", d.Auth.GetUser, mw.Require(policy.UsersManage))
	users.PUT("/:username", d.Auth.UpdateUser, mw.Require(policy.UsersManage))
	users.DELETE("/:username", d.Auth.DeleteUser, mw.Require(policy.UsersManage))

	if d.StaticDir != "" {
		registerPages(e, d.StaticDir, mw)
	}
}

func registerPages(e *echo.Echo, dir string, mw *auth.Middleware) {
	page := func(name string) echo.HandlerFunc {
		return func(c echo.Context) error { return c.File(filepath.Join(dir, name)) }
	}

	// Static registers "/" too, so the gated pages go after it.
	e.Static("/", dir)
	e.GET("/login", page("login.html"))
	e.GET("/", page("dashboard.html"), mw.RequirePage)
	e.GET("/dashboard", page("dashboard.html"), mw.RequirePage)
}
