package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/events"
	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/metrics"
	"github.com/Skotchmaster/inventory/internal/middleware/auth"
	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/tokens"
	"github.com/Skotchmaster/inventory/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.UserService
	Tokens       *tokens.Manager
	Events       events.Publisher
	Metrics      *metrics.Metrics
	SecureCookie bool
}

type tokenInfo struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "login_error", err)
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		l.Warn("login_error", "status", 400, "reason", "missing credentials")
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}

	u, err := h.Svc.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}
	if u == nil {
		if h.Metrics != nil {
			h.Metrics.LoginFailed()
		}
		l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, exp, err := h.Tokens.Issue(u.ID, u.Username, u.Role)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	c.SetCookie(auth.CreateCookie(auth.CookieName, token, "/", exp, h.SecureCookie))

	l.Info("login_successful", "username", u.Username)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   token,
		"user":    u.Public(),
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	c.SetCookie(auth.DeleteCookie(auth.CookieName, "/", h.SecureCookie))
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

func (h *AuthHTTP) Verify(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	info := tokenInfo{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Valid JWT token",
		"user":      info,
		"tokenInfo": info,
	})
}

func (h *AuthHTTP) CurrentUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.current_user")

	u, err := h.Svc.GetByID(ctx, auth.ClaimsFrom(c).UserID)
	if err != nil {
		return fail(l, "current_user_error", err)
	}
	return c.JSON(http.StatusOK, u.Public())
}

func (h *AuthHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.get_users")

	users, err := h.Svc.GetAll(ctx)
	if err != nil {
		return fail(l, "get_users_error", err)
	}
	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return list(c, out)
}

func (h *AuthHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.get_user")

	u, err := h.Svc.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		return fail(l, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, u.Public())
}

func (h *AuthHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.create_user")

	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_user_error", err)
	}

	u, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_user_error", err)
	}

	publish(c, h.Events, events.TopicUsers, events.Created, u.ID, u.Public())
	l.Info("create_user_success", "username", u.Username)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"user":    u.Public(),
	})
}

func (h *AuthHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_user")

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_user_error", err)
	}

	u, err := h.Svc.Update(ctx, c.Param("username"), req, actor(c))
	if err != nil {
		return fail(l, "update_user_error", err)
	}

	publish(c, h.Events, events.TopicUsers, events.Updated, u.ID, u.Public())
	l.Info("update_user_success", "username", u.Username)
	return c.JSON(http.StatusOK, u.Public())
}

func (h *AuthHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.delete_user")

	u, err := h.Svc.Delete(ctx, c.Param("username"), actor(c))
	if err != nil {
		return fail(l, "delete_user_error", err)
	}

	publish(c, h.Events, events.TopicUsers, events.Deleted, u.ID, u.Public())
	l.Info("delete_user_success", "username", u.Username)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User deleted successfully",
		"user":    u.Public(),
	})
}
