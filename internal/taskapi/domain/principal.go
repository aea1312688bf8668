package domain

import (
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrUnknownRole
	}
}

// Principal is a registered account. Email is the login identifier and is
// compared case-sensitively. PasswordHash never leaves the process.
type Principal struct {
	ID                    string
	Name                  string
	Email                 string
	PasswordHash          string
	Role                  Role
	Enabled               bool
	AccountNonExpired     bool
	AccountNonLocked      bool
	CredentialsNonExpired bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Subject is the identifier tokens are issued for.
func (p *Principal) Subject() string { return p.Email }

// HasRole reports whether the principal holds the named role.
func (p *Principal) HasRole(role string) bool { return string(p.Role) == role }

// Active reports whether every account status flag permits use.
func (p *Principal) Active() bool {
	return p.Enabled && p.AccountNonExpired && p.AccountNonLocked && p.CredentialsNonExpired
}
