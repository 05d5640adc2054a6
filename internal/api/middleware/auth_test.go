package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/telran/accounting/internal/api/handler"
	"github.com/telran/accounting/internal/core/domain"
)

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

type stubLoader map[string]*domain.Account

func (s stubLoader) GetUser(_ context.Context, login string) (*domain.Account, error) {
	if login == "broken" {
		return nil, errors.New("store unavailable")
	}
	acc, ok := s[login]
	if !ok {
		return nil, domain.AccountNotFound(login)
	}
	return acc, nil
}

func stubAccounts() stubLoader {
	alice := domain.NewAccount("alice", "digest", "Alice", "Liddell")
	alice, _ = alice.WithRole(domain.RoleModerator)
	return stubLoader{"alice": &alice}
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Auth("secret", stubAccounts())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := signed(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"sub":   "alice",
		"roles": []string{"USER"},
	})

	rec, c, called := runAuth(t, "Bearer "+token)

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if c.Get(handler.CtxLogin) != "alice" {
		t.Fatalf("login not set")
	}
	roles, _ := c.Get(handler.CtxRoles).(domain.RoleSet)
	// Roles are read from the stored account, not from the token claim.
	if !roles.Equal(domain.NewRoleSet("USER", "MODERATOR")) {
		t.Fatalf("unexpected roles: %v", roles.Slice())
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec, _, called := runAuth(t, "")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without calling next, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	rec, _, called := runAuth(t, "Token abc")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without calling next, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec, _, called := runAuth(t, "Bearer not-a-token")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without calling next, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	token := signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "alice"})

	rec, _, called := runAuth(t, "Bearer "+token)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without calling next, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthMiddleware_MissingSubject(t *testing.T) {
	token := signed(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"roles": []string{"USER"}})

	rec, _, called := runAuth(t, "Bearer "+token)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without calling next, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthMiddleware_RemovedAccount(t *testing.T) {
	token := signed(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"sub":   "ghost",
		"roles": []string{"ADMINISTRATOR"},
	})

	rec, _, called := runAuth(t, "Bearer "+token)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without calling next, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthMiddleware_StoreFailure(t *testing.T) {
	token := signed(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"sub": "broken"})

	rec, _, called := runAuth(t, "Bearer "+token)
	if called || rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without calling next, got %d (called=%v)", rec.Code, called)
	}
}
