// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package auth

import (
	"time"

	"github.com/critiqapp/critiq/internal/platform/sec"
)

// # Domain Entities

// User represents a registered Critiq account.
//
// # Identity
//
// Accounts are identified by a time-sortable UUIDv7 primary key. The username
// and email are both unique across the platform and together form the signup
// identity pair.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio"`
	Role      sec.Role  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the account holds administrator privileges.
func (user *User) IsAdmin() bool {
	return user.Role == sec.RoleAdmin
}

// SignupIdentity is the public echo of a successful signup request.
type SignupIdentity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
