package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/telran/accounting/internal/api/handler"
	"github.com/telran/accounting/internal/core/domain"
)

// RBAC lets the request through when the caller holds any of allowedRoles.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return OwnerOrRBAC("", allowedRoles...)
}

// OwnerOrRBAC lets the request through when the caller owns the account named
// by the path parameter, or holds any of allowedRoles. An empty param disables
// the ownership check.
func OwnerOrRBAC(param string, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := domain.NewRoleSet(allowedRoles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			login, _ := c.Get(handler.CtxLogin).(string)
			roles, _ := c.Get(handler.CtxRoles).(domain.RoleSet)

			if param != "" && login != "" && c.Param(param) == login {
				return next(c)
			}
			for r := range roles {
				if allowed.Contains(r) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
