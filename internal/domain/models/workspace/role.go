package workspace

import "fmt"

// Role is a user's workspace-wide role. Privilege is totally ordered:
// Owner ⊇ Admin ⊇ Member.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("unknown workspace role %q", s)
	}
	return role, nil
}

// IsValid reports whether the role is one of the known variants.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// String returns the role as a string.
func (r Role) String() string {
	return string(r)
}

// Level returns the role's position in the privilege order, for comparison.
func (r Role) Level() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleAdmin:
		return 2
	case RoleMember:
		return 1
	default:
		return 0
	}
}

// Includes reports whether this role's privilege covers the other role's.
func (r Role) Includes(other Role) bool {
	return r.Level() >= other.Level()
}

// CanAssign reports whether a user holding this role may change another
// user's role to target. Owners assign any role; admins may only manage
// members.
func (r Role) CanAssign(target Role) bool {
	switch r {
	case RoleOwner:
		return true
	case RoleAdmin:
		return target == RoleMember
	default:
		return false
	}
}
