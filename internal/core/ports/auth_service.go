package ports

import (
	"context"

	"github.com/telran/accounting/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, login, password string) (string, *domain.Account, error)
}
