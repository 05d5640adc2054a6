package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/telran/accounting/internal/core/domain"
	"github.com/telran/accounting/internal/core/ports"
)

// AuthService checks credentials and issues signed session tokens.
type AuthService struct {
	repo      ports.AccountRepository
	codec     ports.CredentialCodec
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.AccountRepository, codec ports.CredentialCodec, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, codec: codec, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login returns a token for the account when password matches. Unknown
// logins and wrong passwords are reported the same way.
func (s *AuthService) Login(ctx context.Context, login, password string) (string, *domain.Account, error) {
	if login == "" || password == "" {
		return "", nil, domain.InvalidCredentials(login)
	}

	account, err := s.repo.Find(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.InvalidCredentials(login)
		}
		return "", nil, err
	}

	if !s.codec.Verify(password, account.PasswordDigest) {
		return "", nil, domain.InvalidCredentials(login)
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

func (s *AuthService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":   account.Login,
		"roles": account.Roles.Slice(),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
