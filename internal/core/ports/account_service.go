package ports

import (
	"context"

	"github.com/telran/accounting/internal/core/domain"
)

// EditAccountInput carries a partial name update. Nil fields are left as is.
type EditAccountInput struct {
	FirstName *string
	LastName  *string
}

// AccountService exposes the account use cases to transport layers.
type AccountService interface {
	AddUser(ctx context.Context, login, password, firstName, lastName string) (*domain.Account, error)
	GetUser(ctx context.Context, login string) (*domain.Account, error)
	RemoveUser(ctx context.Context, login string) (*domain.Account, error)
	EditUser(ctx context.Context, login string, input EditAccountInput) (*domain.Account, error)
	AddRole(ctx context.Context, login, role string) (*domain.Account, error)
	RemoveRole(ctx context.Context, login, role string) (*domain.Account, error)
	ChangePassword(ctx context.Context, login, oldPassword, newPassword string) (*domain.Account, error)
}
