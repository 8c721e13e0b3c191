package models

import (
	"database/sql/driver"
	"fmt"
)

// Role is the closed set of privilege tiers. The zero value is not a valid
// role so an unset field never passes a comparison.
type Role uint8

const (
	RoleUser Role = iota + 1
	RoleManager
	RolePartner
	RoleAdmin
	RoleSuperAdmin
)

var roleNames = map[Role]string{
	RoleUser:       "user",
	RoleManager:    "manager",
	RolePartner:    "partner",
	RoleAdmin:      "admin",
	RoleSuperAdmin: "super_admin",
}

var roleLabels = map[Role]string{
	RoleUser:       "User",
	RoleManager:    "Manager",
	RolePartner:    "Partner",
	RoleAdmin:      "Administrator",
	RoleSuperAdmin: "Super Administrator",
}

// Roles lists every role from least to most privileged.
func Roles() []Role {
	return []Role{RoleUser, RoleManager, RolePartner, RoleAdmin, RoleSuperAdmin}
}

// ParseRole converts a stored role name to a Role.
func ParseRole(name string) (Role, error) {
	for r, n := range roleNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", name)
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// Rank is the ordinal used for comparisons. Invalid roles rank 0.
func (r Role) Rank() int {
	if !r.Valid() {
		return 0
	}
	return int(r)
}

// IsAtLeast reports whether r ranks at or above threshold. An invalid role is
// never at least anything.
func (r Role) IsAtLeast(threshold Role) bool {
	return r.Valid() && threshold.Valid() && r.Rank() >= threshold.Rank()
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Label returns the display label for r.
func (r Role) Label() string {
	return roleLabels[r]
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return []byte(roleNames[r]), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value stores the role as its name.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return roleNames[r], nil
}

// Scan loads a role name written by Value. Unknown names fail the scan.
func (r *Role) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
}
