package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("access forbidden")
)

// ErrPasswordTooLong is reported by codecs whose scheme caps the plaintext
// length. It is a validation failure.
var ErrPasswordTooLong = fmt.Errorf("%w: password is too long", ErrValidation)

// AccountError ties one of the sentinel kinds above to the login it concerns.
// Use errors.Is for the kind and errors.As to recover the login.
type AccountError struct {
	Login  string
	Err    error
	Reason string // optional detail, only set for validation failures
}

func (e *AccountError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (login %q)", e.Err, e.Reason, e.Login)
	}
	return fmt.Sprintf("%s (login %q)", e.Err, e.Login)
}

func (e *AccountError) Unwrap() error { return e.Err }

func AccountExists(login string) error {
	return &AccountError{Login: login, Err: ErrAccountExists}
}

func AccountNotFound(login string) error {
	return &AccountError{Login: login, Err: ErrAccountNotFound}
}

func InvalidCredentials(login string) error {
	return &AccountError{Login: login, Err: ErrInvalidCredentials}
}

func Invalid(login, reason string) error {
	return &AccountError{Login: login, Err: ErrValidation, Reason: reason}
}

// LoginOf extracts the login carried by err, if any.
func LoginOf(err error) (string, bool) {
	var ae *AccountError
	if errors.As(err, &ae) {
		return ae.Login, true
	}
	return "", false
}
