package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/tokens"
)

const (
	CookieName = "token"
	ctxClaims  = "claims"
)

func CreateCookie(name, value, path string, exp time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		MaxAge:   int(time.Until(exp).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func DeleteCookie(name, path string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClaimsFrom returns the verified claims of the current request, or nil on
// routes that are not behind RequireAuth.
func ClaimsFrom(c echo.Context) *tokens.Claims {
	claims, _ := c.Get(ctxClaims).(*tokens.Claims)
	return claims
}

func hasToken(c echo.Context) bool {
	if c.Request().Header.Get(echo.HeaderAuthorization) != "" {
		return true
	}
	ck, err := c.Cookie(CookieName)
	return err == nil && ck.Value != ""
}
