package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/telran/accounting/internal/api/handler"
	"github.com/telran/accounting/internal/core/domain"
)

// AccountLoader resolves the token subject to its stored account.
type AccountLoader interface {
	GetUser(ctx context.Context, login string) (*domain.Account, error)
}

// Auth validates the bearer JWT, reloads the subject's account and stores the
// caller's login and current role set in the echo context under
// handler.CtxLogin and handler.CtxRoles. Roles come from the store, not the
// token, so revoked roles and removed accounts stop working immediately.
func Auth(jwtSecret string, accounts AccountLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			login, err := claims.GetSubject()
			if err != nil || login == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			account, err := accounts.GetUser(c.Request().Context(), login)
			if err != nil {
				if errors.Is(err, domain.ErrAccountNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
				}
				return err
			}

			c.Set(handler.CtxLogin, account.Login)
			c.Set(handler.CtxRoles, account.Roles.Clone())

			return next(c)
		}
	}
}
