package service

import (
	"context"
	"errors"
	"testing"

	"github.com/telran/accounting/internal/core/domain"
)

func TestAccountService_EnsureAdministrator_CreatesOnce(t *testing.T) {
	svc, repo, codec := newTestAccountService()

	created, err := svc.EnsureAdministrator(context.Background(), "root", "toor")
	if err != nil || !created {
		t.Fatalf("expected admin to be created, got created=%v err=%v", created, err)
	}
	admin := repo.stored("root")
	if !admin.Roles.Equal(domain.NewRoleSet(domain.RoleUser, domain.RoleAdministrator)) {
		t.Fatalf("unexpected roles: %v", admin.Roles.Slice())
	}
	if !codec.Verify("toor", admin.PasswordDigest) {
		t.Fatalf("admin password not stored")
	}

	created, err = svc.EnsureAdministrator(context.Background(), "root", "toor")
	if err != nil || created {
		t.Fatalf("expected second run to be a no-op, got created=%v err=%v", created, err)
	}
}

func TestAccountService_EnsureAdministrator_KeepsExistingAccount(t *testing.T) {
	svc, repo, _ := newTestAccountService()
	if _, err := svc.AddUser(context.Background(), "root", "1234", "Root", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	created, err := svc.EnsureAdministrator(context.Background(), "root", "toor")
	if err != nil || created {
		t.Fatalf("expected no-op for an existing account, got created=%v err=%v", created, err)
	}
	if repo.stored("root").HasRole(domain.RoleAdministrator) {
		t.Fatalf("existing account must not be promoted")
	}
}

func TestAccountService_EnsureAdministrator_Disabled(t *testing.T) {
	svc, repo, _ := newTestAccountService()

	created, err := svc.EnsureAdministrator(context.Background(), "", "")
	if err != nil || created {
		t.Fatalf("expected no-op, got created=%v err=%v", created, err)
	}
	if len(repo.accounts) != 0 {
		t.Fatalf("no account expected")
	}
}

func TestAccountService_EnsureAdministrator_StoreFailure(t *testing.T) {
	svc, repo, _ := newTestAccountService()
	repo.saveErr = errors.New("disk full")

	if _, err := svc.EnsureAdministrator(context.Background(), "root", "toor"); err == nil {
		t.Fatalf("expected role grant failure to surface")
	}
}
