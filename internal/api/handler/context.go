package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/telran/accounting/internal/core/domain"
)

// Context keys populated by middleware.Auth.
const (
	CtxLogin = "login"
	CtxRoles = "roles"
)

// ctxPrincipal returns the caller's login and roles as injected by the Auth
// middleware. An unauthenticated context yields an empty login and nil roles.
func ctxPrincipal(c echo.Context) (string, domain.RoleSet) {
	login, _ := c.Get(CtxLogin).(string)
	roles, _ := c.Get(CtxRoles).(domain.RoleSet)
	return login, roles
}
