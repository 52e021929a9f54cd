package auth

import "strings"

// Role is the hierarchy position of an employee. Any name outside the three
// system roles is a custom role with no authority over other employees.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

func ParseRole(name string) Role {
	return Role(strings.ToLower(strings.TrimSpace(name)))
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) IsManager() bool {
	return r == RoleManager
}

func (r Role) IsSystem() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleCashier
}

// ManagesOthers reports whether the role has authority over any other employee.
// Employees without it are read-only, their own record included.
func (r Role) ManagesOthers() bool {
	return r == RoleAdmin || r == RoleManager
}

// RequiresWarehouse reports whether employees holding the role must have a primary warehouse.
func (r Role) RequiresWarehouse() bool {
	return r != RoleAdmin
}

// CanActOn is the role hierarchy. Self-management is decided by the caller.
//
//	admin   -> every role except admin
//	manager -> cashier only
//	others  -> nobody
func CanActOn(actor, target Role) bool {
	switch actor {
	case RoleAdmin:
		return target != RoleAdmin
	case RoleManager:
		return target == RoleCashier
	default:
		return false
	}
}

// CanChangeRole reports whether actor may move an employee from one role to another.
// Only admins change roles, and never to admin.
func CanChangeRole(actor, from, to Role) bool {
	if from == to {
		return true
	}
	return actor == RoleAdmin && to != RoleAdmin && from != RoleAdmin
}
