package enums

import (
	"fmt"
	"strings"
)

// UserRole distinguishes the two kinds of marketplace participants.
type UserRole string

const (
	UserRoleNone     UserRole = "NONE"
	UserRoleMerchant UserRole = "MERCHANT"
	UserRoleShopper  UserRole = "SHOPPER"
)

var validUserRoles = []UserRole{
	UserRoleMerchant,
	UserRoleShopper,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a role a registered user may hold.
// NONE marks the signed-out state and is never stored on a user.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole. Matching ignores case.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
