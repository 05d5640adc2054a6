package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/telran/accounting/internal/api/metrics"
	"github.com/telran/accounting/internal/core/domain"
	"github.com/telran/accounting/internal/core/ports"
)

// AccountHandler exposes the account use cases over HTTP.
type AccountHandler struct {
	service ports.AccountService
	log     zerolog.Logger
}

func NewAccountHandler(service ports.AccountService, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{service: service, log: log}
}

// --- Request / Response types ---

type registerRequest struct {
	Login     string `json:"login"      validate:"required,alphanum,max=64,ne=me"`
	Password  string `json:"password"   validate:"required,min=4,max=72"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name"  validate:"max=100"`
}

type editAccountRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=100"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=4,max=72"`
}

type accountResponse struct {
	Login     string   `json:"login"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		Login:     a.Login,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Roles:     a.Roles.Slice(),
	}
}

// bindAndValidate decodes the body into req and runs the registered validator.
// Failures come back as 400 echo.HTTPErrors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// respond records the operation outcome and renders either the account or the error.
func (h *AccountHandler) respond(c echo.Context, op string, status int, acc *domain.Account, err error) error {
	metrics.ObserveOperation(op, err)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(status, toAccountResponse(acc))
}

// Register creates a new account with the default USER role.
//
// @Summary      Register a new account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /accounts [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	acc, err := h.service.AddUser(c.Request().Context(), req.Login, req.Password, req.FirstName, req.LastName)
	return h.respond(c, "add_user", http.StatusCreated, acc, err)
}

// Get returns a single account.
//
// @Summary      Get an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        login  path      string  true  "Account login"
// @Success      200    {object}  accountResponse
// @Failure      404    {object}  errorResponse
// @Router       /accounts/{login} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	acc, err := h.service.GetUser(c.Request().Context(), c.Param("login"))
	return h.respond(c, "get_user", http.StatusOK, acc, err)
}

// Edit updates the names of an account. Omitted fields keep their value.
//
// @Summary      Edit an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        login  path      string              true  "Account login"
// @Param        body   body      editAccountRequest  true  "Fields to change"
// @Success      200    {object}  accountResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /accounts/{login} [put]
func (h *AccountHandler) Edit(c echo.Context) error {
	var req editAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	acc, err := h.service.EditUser(c.Request().Context(), c.Param("login"), ports.EditAccountInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	return h.respond(c, "edit_user", http.StatusOK, acc, err)
}

// Remove deletes an account and returns its last state.
//
// @Summary      Remove an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        login  path      string  true  "Account login"
// @Success      200    {object}  accountResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /accounts/{login} [delete]
func (h *AccountHandler) Remove(c echo.Context) error {
	acc, err := h.service.RemoveUser(c.Request().Context(), c.Param("login"))
	return h.respond(c, "remove_user", http.StatusOK, acc, err)
}

// AddRole grants a role. Granting a role twice is not an error.
//
// @Summary      Grant a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        login  path      string  true  "Account login"
// @Param        role   path      string  true  "Role name"
// @Success      200    {object}  accountResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /accounts/{login}/roles/{role} [put]
func (h *AccountHandler) AddRole(c echo.Context) error {
	acc, err := h.service.AddRole(c.Request().Context(), c.Param("login"), c.Param("role"))
	return h.respond(c, "add_role", http.StatusOK, acc, err)
}

// RemoveRole revokes a role. Revoking a missing role is not an error.
//
// @Summary      Revoke a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        login  path      string  true  "Account login"
// @Param        role   path      string  true  "Role name"
// @Success      200    {object}  accountResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /accounts/{login}/roles/{role} [delete]
func (h *AccountHandler) RemoveRole(c echo.Context) error {
	acc, err := h.service.RemoveRole(c.Request().Context(), c.Param("login"), c.Param("role"))
	return h.respond(c, "remove_role", http.StatusOK, acc, err)
}

// ChangePassword rotates the caller's password.
//
// @Summary      Change password
// @Tags         accounts
// @Accept       json
// @Security     BearerAuth
// @Param        login  path  string                 true  "Account login"
// @Param        body   body  changePasswordRequest  true  "Current and new password"
// @Success      204
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /accounts/{login}/password [put]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, err := h.service.ChangePassword(c.Request().Context(), c.Param("login"), req.OldPassword, req.NewPassword)
	metrics.ObserveOperation("change_password", err)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the account of the authenticated caller.
//
// @Summary      Current account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  errorResponse
// @Router       /accounts/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	login, _ := ctxPrincipal(c)
	if login == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	acc, err := h.service.GetUser(c.Request().Context(), login)
	return h.respond(c, "get_user", http.StatusOK, acc, err)
}
