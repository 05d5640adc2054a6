package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/telran/accounting/internal/core/domain"
	"github.com/telran/accounting/internal/core/ports"
)

// AccountService implements the account use cases on top of a repository and
// a credential codec. It keeps no state between calls.
type AccountService struct {
	repo   ports.AccountRepository
	codec  ports.CredentialCodec
	logger zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, codec ports.CredentialCodec, logger zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, codec: codec, logger: logger}
}

// AddUser registers a new account holding the default role. The Exists
// pre-check only gives a fast answer; Create is what guarantees uniqueness.
func (s *AccountService) AddUser(ctx context.Context, login, password, firstName, lastName string) (*domain.Account, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, domain.Invalid(login, "login is required")
	}
	if password == "" {
		return nil, domain.Invalid(login, "password is required")
	}

	digest, err := s.hash("add user", login, password)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}
	if exists {
		return nil, domain.AccountExists(login)
	}

	account := domain.NewAccount(login, digest, firstName, lastName)
	created, err := s.repo.Create(ctx, &account)
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, domain.AccountExists(login)
		}
		s.logger.Error().Err(err).Str("login", login).Msg("failed to create account")
		return nil, fmt.Errorf("add user: %w", err)
	}

	s.logger.Info().Str("login", login).Msg("account created")
	return created, nil
}

// GetUser returns the account stored under login.
func (s *AccountService) GetUser(ctx context.Context, login string) (*domain.Account, error) {
	return s.find(ctx, "get user", login)
}

// RemoveUser deletes the account and returns the snapshot it had before deletion.
func (s *AccountService) RemoveUser(ctx context.Context, login string) (*domain.Account, error) {
	account, err := s.find(ctx, "remove user", login)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, account); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.AccountNotFound(login)
		}
		return nil, fmt.Errorf("remove user: %w", err)
	}

	s.logger.Info().Str("login", login).Msg("account removed")
	return account, nil
}

// EditUser applies a partial name update.
func (s *AccountService) EditUser(ctx context.Context, login string, input ports.EditAccountInput) (*domain.Account, error) {
	account, err := s.find(ctx, "edit user", login)
	if err != nil {
		return nil, err
	}

	next := account.WithNames(input.FirstName, input.LastName)
	return s.save(ctx, "edit user", next)
}

// AddRole grants role. Granting a role the account already holds succeeds
// without touching the store.
func (s *AccountService) AddRole(ctx context.Context, login, role string) (*domain.Account, error) {
	if domain.NormalizeRole(role) == "" {
		return nil, domain.Invalid(login, "role is required")
	}

	account, err := s.find(ctx, "add role", login)
	if err != nil {
		return nil, err
	}

	next, changed := account.WithRole(role)
	if !changed {
		return account, nil
	}

	saved, err := s.save(ctx, "add role", next)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("login", login).Str("role", domain.NormalizeRole(role)).Msg("role granted")
	return saved, nil
}

// RemoveRole revokes role. Revoking a role the account does not hold succeeds
// without touching the store.
func (s *AccountService) RemoveRole(ctx context.Context, login, role string) (*domain.Account, error) {
	if domain.NormalizeRole(role) == "" {
		return nil, domain.Invalid(login, "role is required")
	}

	account, err := s.find(ctx, "remove role", login)
	if err != nil {
		return nil, err
	}

	next, changed := account.WithoutRole(role)
	if !changed {
		return account, nil
	}

	saved, err := s.save(ctx, "remove role", next)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("login", login).Str("role", domain.NormalizeRole(role)).Msg("role revoked")
	return saved, nil
}

// ChangePassword rotates the password after verifying the current one.
func (s *AccountService) ChangePassword(ctx context.Context, login, oldPassword, newPassword string) (*domain.Account, error) {
	if newPassword == "" {
		return nil, domain.Invalid(login, "new password is required")
	}

	account, err := s.find(ctx, "change password", login)
	if err != nil {
		return nil, err
	}

	if !s.codec.Verify(oldPassword, account.PasswordDigest) {
		s.logger.Warn().Str("login", login).Msg("password change rejected")
		return nil, domain.InvalidCredentials(login)
	}

	digest, err := s.hash("change password", login, newPassword)
	if err != nil {
		return nil, err
	}

	saved, err := s.save(ctx, "change password", account.WithPasswordDigest(digest))
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("login", login).Msg("password changed")
	return saved, nil
}

func (s *AccountService) hash(op, login, password string) (string, error) {
	digest, err := s.codec.Hash(password)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordTooLong) {
			return "", domain.Invalid(login, "password is too long")
		}
		return "", fmt.Errorf("%s: hash password: %w", op, err)
	}
	return digest, nil
}

func (s *AccountService) find(ctx context.Context, op, login string) (*domain.Account, error) {
	if login == "" {
		return nil, domain.Invalid(login, "login is required")
	}

	account, err := s.repo.Find(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.AccountNotFound(login)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return account, nil
}

func (s *AccountService) save(ctx context.Context, op string, account domain.Account) (*domain.Account, error) {
	saved, err := s.repo.Save(ctx, &account)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.AccountNotFound(account.Login)
		}
		s.logger.Error().Err(err).Str("login", account.Login).Msg("failed to save account")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}
