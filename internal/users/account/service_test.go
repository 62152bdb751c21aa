// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package account_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiqapp/critiq/internal/platform/apperr"
	"github.com/critiqapp/critiq/internal/platform/sec"
	"github.com/critiqapp/critiq/internal/users/account"
	"github.com/critiqapp/critiq/internal/users/auth"
	"github.com/critiqapp/critiq/pkg/pagination"
	"github.com/critiqapp/critiq/pkg/pointer"
)

// # Test Doubles

// memoryUserRepository is an in-memory auth.UserRepository for service tests.
type memoryUserRepository struct {
	users map[string]*auth.User // keyed by ID
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*auth.User)}
}

func (repo *memoryUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repo.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) Create(_ context.Context, user *auth.User) error {
	for _, existing := range repo.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.DuplicateUser("Username or email is already registered")
		}
	}
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *memoryUserRepository) Update(_ context.Context, user *auth.User) error {
	for id, existing := range repo.users {
		if id != user.ID && existing.Username == user.Username {
			return apperr.DuplicateUser("Username or email is already registered")
		}
	}
	if _, ok := repo.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *memoryUserRepository) Delete(_ context.Context, username string) error {
	for id, user := range repo.users {
		if user.Username == username {
			delete(repo.users, id)
			return nil
		}
	}
	return apperr.NotFound("User")
}

func (repo *memoryUserRepository) List(_ context.Context, limit, offset int) ([]auth.User, int, error) {
	all := make([]auth.User, 0, len(repo.users))
	for _, user := range repo.users {
		all = append(all, *user)
	}
	return all, len(all), nil
}

// seed inserts a user directly into the repository.
func (repo *memoryUserRepository) seed(id, username string, role sec.Role) *auth.User {
	user := &auth.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	repo.users[id] = user
	return user
}

// actorFor builds token claims matching a seeded user.
func actorFor(user *auth.User) *sec.AuthClaims {
	return &sec.AuthClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}
}

func newTestService() (*account.Service, *memoryUserRepository) {
	repo := newMemoryUserRepository()
	service := account.NewService(repo, slog.Default())
	return service, repo
}

// # Self Accessor

/*
TestUpdateSelf_NeverChangesRole verifies that a member editing their own
profile cannot affect their stored role through any input combination.
*/
func TestUpdateSelf_NeverChangesRole(t *testing.T) {
	service, repo := newTestService()
	member := repo.seed("u1", "carol", sec.RoleUser)

	updated, err := service.UpdateSelf(context.Background(), member.ID, account.SelfUpdateInput{
		Bio:       pointer.To("Science fiction enthusiast"),
		FirstName: pointer.To("Carol"),
	})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleUser, updated.Role)
	assert.Equal(t, "Science fiction enthusiast", updated.Bio)

	stored, err := repo.FindByID(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, stored.Role)
}

/*
TestUpdateSelf_UsernameRules verifies that username changes go through the
same validation as signup.
*/
func TestUpdateSelf_UsernameRules(t *testing.T) {
	service, repo := newTestService()
	member := repo.seed("u1", "carol", sec.RoleUser)
	repo.seed("u2", "dave", sec.RoleUser)

	t.Run("reserved_me", func(t *testing.T) {
		_, err := service.UpdateSelf(context.Background(), member.ID, account.SelfUpdateInput{
			Username: pointer.To("me"),
		})
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("taken_username", func(t *testing.T) {
		_, err := service.UpdateSelf(context.Background(), member.ID, account.SelfUpdateInput{
			Username: pointer.To("dave"),
		})
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "DUPLICATE_USER"))
	})

	t.Run("valid_rename", func(t *testing.T) {
		updated, err := service.UpdateSelf(context.Background(), member.ID, account.SelfUpdateInput{
			Username: pointer.To("carol.s"),
		})
		require.NoError(t, err)
		assert.Equal(t, "carol.s", updated.Username)
	})
}

// # Administration Surface

/*
TestAdminSurface_AuthorizationMatrix verifies that every administrative
operation is admin-only.
*/
func TestAdminSurface_AuthorizationMatrix(t *testing.T) {
	service, repo := newTestService()
	member := repo.seed("u1", "carol", sec.RoleUser)
	moderator := repo.seed("m1", "mod", sec.RoleModerator)

	tests := []struct {
		name     string
		actor    *sec.AuthClaims
		wantCode string
	}{
		{"anonymous", nil, "UNAUTHENTICATED"},
		{"regular_member", actorFor(member), "FORBIDDEN"},
		{"moderator", actorFor(moderator), "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.List(context.Background(), tt.actor, pagination.Params{Page: 1, Limit: 20})
			require.Error(t, err)
			assert.True(t, apperr.IsCode(err, tt.wantCode))

			_, err = service.Create(context.Background(), tt.actor, account.AdminCreateInput{})
			require.Error(t, err)
			assert.True(t, apperr.IsCode(err, tt.wantCode))

			err = service.DeleteByUsername(context.Background(), tt.actor, "carol")
			require.Error(t, err)
			assert.True(t, apperr.IsCode(err, tt.wantCode))
		})
	}
}

/*
TestAdminCreate verifies provisioning defaults and role validation.
*/
func TestAdminCreate(t *testing.T) {
	service, repo := newTestService()
	admin := repo.seed("a1", "root", sec.RoleAdmin)

	t.Run("defaults_to_user_role", func(t *testing.T) {
		created, err := service.Create(context.Background(), actorFor(admin), account.AdminCreateInput{
			Username: "erin",
			Email:    "erin@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleUser, created.Role)
	})

	t.Run("explicit_moderator_role", func(t *testing.T) {
		created, err := service.Create(context.Background(), actorFor(admin), account.AdminCreateInput{
			Username: "frank",
			Email:    "frank@example.com",
			Role:     "moderator",
		})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleModerator, created.Role)
	})

	t.Run("unknown_role_rejected", func(t *testing.T) {
		_, err := service.Create(context.Background(), actorFor(admin), account.AdminCreateInput{
			Username: "grace",
			Email:    "grace@example.com",
			Role:     "superuser",
		})
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}

/*
TestAdminUpdate_ChangesRole verifies that administrators can promote and
demote accounts.
*/
func TestAdminUpdate_ChangesRole(t *testing.T) {
	service, repo := newTestService()
	admin := repo.seed("a1", "root", sec.RoleAdmin)
	repo.seed("u1", "carol", sec.RoleUser)

	updated, err := service.UpdateByUsername(context.Background(), actorFor(admin), "carol", account.AdminUpdateInput{
		Role: pointer.To("moderator"),
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, updated.Role)

	stored, err := repo.FindByUsername(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, stored.Role)
}

/*
TestAdminDelete verifies removal and the NotFound edge.
*/
func TestAdminDelete(t *testing.T) {
	service, repo := newTestService()
	admin := repo.seed("a1", "root", sec.RoleAdmin)
	repo.seed("u1", "carol", sec.RoleUser)

	require.NoError(t, service.DeleteByUsername(context.Background(), actorFor(admin), "carol"))

	err := service.DeleteByUsername(context.Background(), actorFor(admin), "carol")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
