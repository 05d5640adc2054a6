package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/telran/accounting/internal/core/domain"
	"github.com/telran/accounting/internal/core/ports"
)

type stubAccountService struct {
	addUserFn        func(ctx context.Context, login, password, firstName, lastName string) (*domain.Account, error)
	getUserFn        func(ctx context.Context, login string) (*domain.Account, error)
	editUserFn       func(ctx context.Context, login string, in ports.EditAccountInput) (*domain.Account, error)
	changePasswordFn func(ctx context.Context, login, oldPassword, newPassword string) (*domain.Account, error)
}

func (s *stubAccountService) AddUser(ctx context.Context, login, password, firstName, lastName string) (*domain.Account, error) {
	return s.addUserFn(ctx, login, password, firstName, lastName)
}

func (s *stubAccountService) GetUser(ctx context.Context, login string) (*domain.Account, error) {
	return s.getUserFn(ctx, login)
}

func (s *stubAccountService) RemoveUser(ctx context.Context, login string) (*domain.Account, error) {
	return nil, domain.AccountNotFound(login)
}

func (s *stubAccountService) EditUser(ctx context.Context, login string, in ports.EditAccountInput) (*domain.Account, error) {
	return s.editUserFn(ctx, login, in)
}

func (s *stubAccountService) AddRole(ctx context.Context, login, role string) (*domain.Account, error) {
	return nil, domain.AccountNotFound(login)
}

func (s *stubAccountService) RemoveRole(ctx context.Context, login, role string) (*domain.Account, error) {
	return nil, domain.AccountNotFound(login)
}

func (s *stubAccountService) ChangePassword(ctx context.Context, login, oldPassword, newPassword string) (*domain.Account, error) {
	return s.changePasswordFn(ctx, login, oldPassword, newPassword)
}

func newHandlerEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// serve runs h and lets echo render any returned error, like the router does.
func serve(e *echo.Echo, h echo.HandlerFunc, c echo.Context) {
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAccountHandler_Register_Success(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubAccountService{
		addUserFn: func(ctx context.Context, login, password, firstName, lastName string) (*domain.Account, error) {
			if login != "alex01" || password != "1234" || firstName != "Alex" || lastName != "Kurd" {
				t.Fatalf("unexpected args: %s %s %s %s", login, password, firstName, lastName)
			}
			acc := domain.NewAccount(login, "digest", firstName, lastName)
			return &acc, nil
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/accounts", `{"login":"alex01","password":"1234","first_name":"Alex","last_name":"Kurd"}`), rec)
	serve(e, h.Register, c)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["login"] != "alex01" || resp["first_name"] != "Alex" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "digest") {
		t.Fatalf("password digest leaked: %s", rec.Body.String())
	}
}

func TestAccountHandler_Register_Conflict(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubAccountService{
		addUserFn: func(ctx context.Context, login, password, firstName, lastName string) (*domain.Account, error) {
			return nil, domain.AccountExists(login)
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/accounts", `{"login":"bob","password":"1234"}`), rec)
	serve(e, h.Register, c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAccountHandler_Register_ValidationFailure(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubAccountService{
		addUserFn: func(ctx context.Context, login, password, firstName, lastName string) (*domain.Account, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/accounts", `{"login":"bob","password":"12"}`), rec)
	serve(e, h.Register, c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "password must be at least 4 characters") {
		t.Fatalf("unexpected message: %s", rec.Body.String())
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubAccountService{
		getUserFn: func(ctx context.Context, login string) (*domain.Account, error) {
			return nil, domain.AccountNotFound(login)
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("login")
	c.SetParamValues("ghost")
	serve(e, h.Get, c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_InternalErrorHidden(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubAccountService{
		getUserFn: func(ctx context.Context, login string) (*domain.Account, error) {
			return nil, errors.New("mongo: connection reset")
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("login")
	c.SetParamValues("alex01")
	serve(e, h.Get, c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "mongo") {
		t.Fatalf("internal error leaked: %s", rec.Body.String())
	}
}

func TestAccountHandler_Edit_PassesOnlyProvidedFields(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubAccountService{
		editUserFn: func(ctx context.Context, login string, in ports.EditAccountInput) (*domain.Account, error) {
			if in.FirstName == nil || *in.FirstName != "Maria" {
				t.Fatalf("expected first name Maria, got %v", in.FirstName)
			}
			if in.LastName != nil {
				t.Fatalf("expected last name to be omitted, got %q", *in.LastName)
			}
			acc := domain.NewAccount(login, "digest", *in.FirstName, "Vatson")
			return &acc, nil
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/", `{"first_name":"Maria"}`), rec)
	c.SetParamNames("login")
	c.SetParamValues("mary12")
	serve(e, h.Edit, c)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAccountHandler_ChangePassword_InvalidCredentials(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubAccountService{
		changePasswordFn: func(ctx context.Context, login, oldPassword, newPassword string) (*domain.Account, error) {
			return nil, domain.InvalidCredentials(login)
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/", `{"old_password":"bad","new_password":"1234qwer"}`), rec)
	c.SetParamNames("login")
	c.SetParamValues("patricia14")
	serve(e, h.ChangePassword, c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.AccountNotFound("a"), http.StatusNotFound},
		{domain.AccountExists("a"), http.StatusConflict},
		{domain.InvalidCredentials("a"), http.StatusUnauthorized},
		{domain.Invalid("a", "role is required"), http.StatusBadRequest},
		{domain.ErrForbidden, http.StatusForbidden},
	}
	for _, tc := range cases {
		code, _, ok := StatusFor(tc.err)
		if !ok || code != tc.code {
			t.Errorf("StatusFor(%v) = %d, %v; want %d", tc.err, code, ok, tc.code)
		}
	}

	if _, msg, _ := StatusFor(domain.Invalid("a", "role is required")); msg != "role is required" {
		t.Errorf("expected validation reason as message, got %q", msg)
	}
	if _, _, ok := StatusFor(errors.New("boom")); ok {
		t.Errorf("unknown errors must not be mapped")
	}
}
