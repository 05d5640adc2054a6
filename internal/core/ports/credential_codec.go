package ports

// CredentialCodec is a one-way password hashing capability. Implementations
// hold no mutable state and are safe for concurrent use.
type CredentialCodec interface {
	// Hash returns domain.ErrPasswordTooLong when the scheme cannot take
	// plaintext in full.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext produced digest. A malformed digest
	// yields false rather than an error.
	Verify(plaintext, digest string) bool
}
