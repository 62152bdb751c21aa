// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiqapp/critiq/internal/platform/apperr"
	"github.com/critiqapp/critiq/internal/platform/authz"
	"github.com/critiqapp/critiq/internal/platform/sec"
)

// actor builds token claims for a test user with the given role.
func actor(userID string, role sec.Role) *sec.AuthClaims {
	return &sec.AuthClaims{
		UserID:   userID,
		Username: "user-" + userID,
		Role:     string(role),
	}
}

// assertCode verifies that err carries the expected taxonomy code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, code, ae.Code)
}

/*
TestCanManageCatalog verifies that catalogue writes are admin-only.
*/
func TestCanManageCatalog(t *testing.T) {
	tests := []struct {
		name     string
		actor    *sec.AuthClaims
		wantCode string
	}{
		{"anonymous", nil, "UNAUTHENTICATED"},
		{"regular_user", actor("u1", sec.RoleUser), "FORBIDDEN"},
		{"moderator", actor("m1", sec.RoleModerator), "FORBIDDEN"},
		{"admin", actor("a1", sec.RoleAdmin), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.CanManageCatalog(tt.actor)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assertCode(t, err, tt.wantCode)
			}
		})
	}
}

/*
TestCanCreateContent verifies that any authenticated account may publish
reviews and comments, while anonymous actors are rejected with 401.
*/
func TestCanCreateContent(t *testing.T) {
	assert.NoError(t, authz.CanCreateContent(actor("u1", sec.RoleUser)))
	assert.NoError(t, authz.CanCreateContent(actor("m1", sec.RoleModerator)))
	assert.NoError(t, authz.CanCreateContent(actor("a1", sec.RoleAdmin)))

	assertCode(t, authz.CanCreateContent(nil), "UNAUTHENTICATED")
	assertCode(t, authz.CanCreateContent(actor("x1", sec.Role("ghost"))), "FORBIDDEN")
}

/*
TestCanModifyContent verifies the author-or-moderator-or-admin rule for
editing and deleting reviews and comments.
*/
func TestCanModifyContent(t *testing.T) {
	const authorID = "author-7"

	tests := []struct {
		name     string
		actor    *sec.AuthClaims
		wantCode string
	}{
		{"anonymous", nil, "UNAUTHENTICATED"},
		{"author_edits_own", actor(authorID, sec.RoleUser), ""},
		{"stranger_denied", actor("other-1", sec.RoleUser), "FORBIDDEN"},
		{"moderator_allowed", actor("m1", sec.RoleModerator), ""},
		{"admin_allowed", actor("a1", sec.RoleAdmin), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.CanModifyContent(tt.actor, authorID)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assertCode(t, err, tt.wantCode)
			}
		})
	}
}

/*
TestCanManageUsers verifies that account administration is admin-only.
*/
func TestCanManageUsers(t *testing.T) {
	assert.NoError(t, authz.CanManageUsers(actor("a1", sec.RoleAdmin)))
	assertCode(t, authz.CanManageUsers(actor("m1", sec.RoleModerator)), "FORBIDDEN")
	assertCode(t, authz.CanManageUsers(actor("u1", sec.RoleUser)), "FORBIDDEN")
	assertCode(t, authz.CanManageUsers(nil), "UNAUTHENTICATED")
}
