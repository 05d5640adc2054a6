// Package memory implements the account store in process memory. It backs
// tests and the STORE=memory development mode.
package memory

import (
	"context"
	"sync"

	"github.com/telran/accounting/internal/core/domain"
	"github.com/telran/accounting/internal/core/ports"
)

// AccountRepository keeps accounts in a map guarded by a mutex. Every method
// stores and returns deep copies, so callers never share role sets with it.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]domain.Account)}
}

func (r *AccountRepository) Find(_ context.Context, login string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[login]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := a.Clone()
	return &clone, nil
}

func (r *AccountRepository) Exists(_ context.Context, login string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.accounts[login]
	return ok, nil
}

// Create checks and inserts under one write lock.
func (r *AccountRepository) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[a.Login]; ok {
		return nil, domain.ErrAccountExists
	}
	r.accounts[a.Login] = a.Clone()
	clone := a.Clone()
	return &clone, nil
}

func (r *AccountRepository) Save(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[a.Login]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	r.accounts[a.Login] = a.Clone()
	clone := a.Clone()
	return &clone, nil
}

func (r *AccountRepository) Delete(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[a.Login]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, a.Login)
	return nil
}
