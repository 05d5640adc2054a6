package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/telran/accounting/internal/core/domain"
)

// EnsureAdministrator creates login with the ADMINISTRATOR role when no such
// account exists. An existing account is left as is, so roles revoked later
// are not granted back on restart. It reports whether an account was created.
func (s *AccountService) EnsureAdministrator(ctx context.Context, login, password string) (bool, error) {
	if login == "" {
		return false, nil
	}

	if _, err := s.AddUser(ctx, login, password, "", ""); err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			s.logger.Debug().Str("login", login).Msg("administrator account already present")
			return false, nil
		}
		return false, fmt.Errorf("seed administrator: %w", err)
	}

	if _, err := s.AddRole(ctx, login, domain.RoleAdministrator); err != nil {
		return true, fmt.Errorf("seed administrator: %w", err)
	}

	s.logger.Info().Str("login", login).Msg("administrator account created")
	return true, nil
}
