package domain

import (
	"sort"
	"strings"
)

const (
	RoleUser          = "USER"
	RoleModerator     = "MODERATOR"
	RoleAdministrator = "ADMINISTRATOR"
)

// DefaultRole is granted to every newly created account.
const DefaultRole = RoleUser

// RoleSet is an unordered, de-duplicated collection of role names.
type RoleSet map[string]struct{}

// NewRoleSet builds a set from the given names, normalising each one.
// Blank names are skipped.
func NewRoleSet(roles ...string) RoleSet {
	rs := make(RoleSet, len(roles))
	for _, r := range roles {
		if n := NormalizeRole(r); n != "" {
			rs[n] = struct{}{}
		}
	}
	return rs
}

// NormalizeRole trims and upper-cases a role name.
func NormalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

func (rs RoleSet) Contains(role string) bool {
	_, ok := rs[NormalizeRole(role)]
	return ok
}

// Clone returns an independent copy of the set.
func (rs RoleSet) Clone() RoleSet {
	out := make(RoleSet, len(rs))
	for r := range rs {
		out[r] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold exactly the same roles.
func (rs RoleSet) Equal(other RoleSet) bool {
	if len(rs) != len(other) {
		return false
	}
	for r := range rs {
		if _, ok := other[r]; !ok {
			return false
		}
	}
	return true
}

// Slice returns the roles sorted alphabetically, suitable for storage and JSON.
func (rs RoleSet) Slice() []string {
	out := make([]string, 0, len(rs))
	for r := range rs {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Account is the sole aggregate of the accounting domain. It is treated as a
// value: every transition below returns a new Account and leaves the receiver
// untouched.
type Account struct {
	Login          string
	PasswordDigest string
	FirstName      string
	LastName       string
	Roles          RoleSet
}

// NewAccount builds a fresh account holding only the default role.
func NewAccount(login, passwordDigest, firstName, lastName string) Account {
	return Account{
		Login:          login,
		PasswordDigest: passwordDigest,
		FirstName:      firstName,
		LastName:       lastName,
		Roles:          NewRoleSet(DefaultRole),
	}
}

// Clone deep-copies the account, including its role set.
func (a Account) Clone() Account {
	a.Roles = a.Roles.Clone()
	return a
}

// Equal compares every field; role order is irrelevant.
func (a Account) Equal(other Account) bool {
	return a.Login == other.Login &&
		a.PasswordDigest == other.PasswordDigest &&
		a.FirstName == other.FirstName &&
		a.LastName == other.LastName &&
		a.Roles.Equal(other.Roles)
}

// WithNames applies a partial name update. Nil arguments keep the current value.
func (a Account) WithNames(firstName, lastName *string) Account {
	next := a.Clone()
	if firstName != nil {
		next.FirstName = *firstName
	}
	if lastName != nil {
		next.LastName = *lastName
	}
	return next
}

// WithRole returns a copy holding role. The bool is false when the role was
// already present and nothing changed.
func (a Account) WithRole(role string) (Account, bool) {
	role = NormalizeRole(role)
	if a.Roles.Contains(role) {
		return a, false
	}
	next := a.Clone()
	if next.Roles == nil {
		next.Roles = RoleSet{}
	}
	next.Roles[role] = struct{}{}
	return next, true
}

// WithoutRole returns a copy lacking role. The bool is false when the role
// was absent and nothing changed.
func (a Account) WithoutRole(role string) (Account, bool) {
	role = NormalizeRole(role)
	if !a.Roles.Contains(role) {
		return a, false
	}
	next := a.Clone()
	delete(next.Roles, role)
	return next, true
}

func (a Account) WithPasswordDigest(digest string) Account {
	next := a.Clone()
	next.PasswordDigest = digest
	return next
}

// HasRole is a convenience for authorization checks.
func (a Account) HasRole(role string) bool {
	return a.Roles.Contains(role)
}
