package ports

import (
	"context"

	"github.com/telran/accounting/internal/core/domain"
)

// AccountRepository is the persistence contract for accounts, keyed by login.
// Implementations must make Create and Save atomic and must reject a duplicate
// login in Create even when several writers race on the same login.
type AccountRepository interface {
	// Find returns domain.ErrAccountNotFound when no account has this login.
	Find(ctx context.Context, login string) (*domain.Account, error)
	Exists(ctx context.Context, login string) (bool, error)
	// Create inserts a new account, returning domain.ErrAccountExists on a
	// duplicate login.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// Save replaces a stored account as a whole.
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Delete(ctx context.Context, account *domain.Account) error
}
