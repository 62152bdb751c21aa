// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
Package authz centralizes every authorization decision the API makes.

It evaluates an explicit actor (the verified token claims, or nil for an
anonymous request) against the operation being attempted.

Decision model:

  - nil error: the actor may proceed.
  - UNAUTHENTICATED (401): an anonymous actor attempted a write.
  - FORBIDDEN (403): an authenticated actor lacks the required privileges.

Handlers never inspect roles directly. They call into this package so that the
full policy surface is auditable in one file.
*/
package authz

import (
	"github.com/critiqapp/critiq/internal/platform/apperr"
	"github.com/critiqapp/critiq/internal/platform/sec"
)

// # Catalogue Management

// CanManageCatalog decides whether the actor may create, update, or delete
// categories, genres, and titles. Reserved for administrators.
func CanManageCatalog(actor *sec.AuthClaims) error {
	if actor == nil {
		return apperr.Unauthenticated("Authentication required")
	}
	if sec.Role(actor.Role) != sec.RoleAdmin {
		return apperr.Forbidden("Catalogue management requires administrator privileges")
	}
	return nil
}

// # Content Creation

// CanCreateContent decides whether the actor may publish a new review or
// comment. Any authenticated account qualifies.
func CanCreateContent(actor *sec.AuthClaims) error {
	if actor == nil {
		return apperr.Unauthenticated("Authentication required")
	}
	if !sec.Role(actor.Role).IsValid() {
		return apperr.Forbidden("Unknown role")
	}
	return nil
}

// # Content Modification

// CanModifyContent decides whether the actor may update or delete an existing
// review or comment authored by authorID.
//
// The rule is: the author themselves, or a moderator, or an administrator.
func CanModifyContent(actor *sec.AuthClaims, authorID string) error {
	if actor == nil {
		return apperr.Unauthenticated("Authentication required")
	}
	if actor.UserID == authorID {
		return nil
	}
	if sec.Role(actor.Role).AtLeast(sec.RoleModerator) {
		return nil
	}
	return apperr.Forbidden("You can only modify your own content")
}

// # User Administration

// CanManageUsers decides whether the actor may list, create, update, or
// delete arbitrary accounts. Reserved for administrators.
//
// The /users/me self accessor is NOT covered by this check: any
// authenticated actor may read and edit their own profile.
func CanManageUsers(actor *sec.AuthClaims) error {
	if actor == nil {
		return apperr.Unauthenticated("Authentication required")
	}
	if sec.Role(actor.Role) != sec.RoleAdmin {
		return apperr.Forbidden("User management requires administrator privileges")
	}
	return nil
}
