// Package crypto provides the bcrypt-backed credential codec.
package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/telran/accounting/internal/core/domain"
	"github.com/telran/accounting/internal/core/ports"
)

// BcryptCodec hashes passwords with bcrypt. Salts are generated per call, so
// hashing the same plaintext twice yields different digests.
type BcryptCodec struct {
	cost int
}

var _ ports.CredentialCodec = (*BcryptCodec)(nil)

// NewBcryptCodec returns a codec using cost, falling back to bcrypt.DefaultCost
// when cost is outside bcrypt's accepted range.
func NewBcryptCodec(cost int) *BcryptCodec {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptCodec{cost: cost}
}

// Hash fails with domain.ErrPasswordTooLong beyond bcrypt's 72 byte input limit.
func (c *BcryptCodec) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), c.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.ErrPasswordTooLong
		}
		return "", err
	}
	return string(b), nil
}

// Verify is false for any mismatch, including digests bcrypt cannot parse.
func (c *BcryptCodec) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
