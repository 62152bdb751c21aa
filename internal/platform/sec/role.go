// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package sec

// # User Roles

// Role represents the authorization level granted to an account.
//
// The set is closed: every policy decision matches exhaustively over these
// three values, so a typo'd role string can never grant access.
type Role string

const (
	// Unrestricted system access, including catalogue and user management
	RoleAdmin Role = "admin"

	// Can edit or delete any review and comment
	RoleModerator Role = "moderator"

	// Default role for standard registered accounts
	RoleUser Role = "user"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// IsValid reports whether r is one of the three known roles.
func (r Role) IsValid() bool {
	return r.level() > 0
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleModerator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
