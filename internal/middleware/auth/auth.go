// Package auth authenticates requests by token and gates them by role.
package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/policy"
	"github.com/Skotchmaster/inventory/internal/tokens"
)

const tokenLookup = "header:Authorization:Bearer ,cookie:" + CookieName

type Middleware struct {
	Tokens       *tokens.Manager
	Policy       *policy.Policy
	SecureCookie bool
}

func New(tm *tokens.Manager, p *policy.Policy, secureCookie bool) *Middleware {
	return &Middleware{Tokens: tm, Policy: p, SecureCookie: secureCookie}
}

func (m *Middleware) parse(_ echo.Context, raw string) (interface{}, error) {
	return m.Tokens.Verify(raw)
}

// RequireAuth accepts a bearer header or the token cookie. A bad token
// clears the cookie.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	jwtMW := echojwt.WithConfig(echojwt.Config{
		ContextKey:     ctxClaims,
		TokenLookup:    tokenLookup,
		ParseTokenFunc: m.parse,
		ErrorHandler: func(c echo.Context, err error) error {
			l := logging.FromContext(c.Request().Context())
			if !hasToken(c) {
				l.Warn("auth_error", "status", 401, "reason", "no token")
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized - Token not provided")
			}
			c.SetCookie(DeleteCookie(CookieName, "/", m.SecureCookie))
			l.Warn("auth_error", "status", 401, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token. Please login again.")
		},
	})
	return jwtMW(withUser(next))
}

// RequirePage is RequireAuth for HTML pages: failures redirect to the login page.
func (m *Middleware) RequirePage(next echo.HandlerFunc) echo.HandlerFunc {
	jwtMW := echojwt.WithConfig(echojwt.Config{
		ContextKey:     ctxClaims,
		TokenLookup:    "cookie:" + CookieName,
		ParseTokenFunc: m.parse,
		ErrorHandler: func(c echo.Context, err error) error {
			if hasToken(c) {
				c.SetCookie(DeleteCookie(CookieName, "/", m.SecureCookie))
			}
			return c.Redirect(http.StatusFound, "/login")
		},
	})
	return jwtMW(withUser(next))
}

// Require allows the request only if the caller's role may perform op.
// It must run after RequireAuth.
func (m *Middleware) Require(op policy.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized - Token not provided")
			}
			if !m.Policy.Allows(claims.Role, op) {
				logging.FromContext(c.Request().Context()).Warn("auth_error",
					"status", 403, "reason", "insufficient permissions", "op", string(op), "role", claims.Role)
				return echo.NewHTTPError(http.StatusForbidden, "Permission denied. You do not have access to this operation.")
			}
			return next(c)
		}
	}
}

func withUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims := ClaimsFrom(c); claims != nil {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.With(req.Context(), "user", claims.Username)))
		}
		return next(c)
	}
}
