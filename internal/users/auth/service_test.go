// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiqapp/critiq/internal/platform/apperr"
	"github.com/critiqapp/critiq/internal/platform/sec"
	"github.com/critiqapp/critiq/internal/users/auth"
)

// # Test Doubles

// memoryUserRepository is an in-memory UserRepository for service tests.
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

// memoryCodeRepository is an in-memory ConfirmationCodeRepository.
type memoryCodeRepository struct {
	hashes map[string]string // keyed by username
}

func newMemoryCodeRepository() *memoryCodeRepository {
	return &memoryCodeRepository{hashes: make(map[string]string)}
}

func (repo *memoryCodeRepository) Set(_ context.Context, username, codeHash string, _ time.Duration) error {
	repo.hashes[username] = codeHash
	return nil
}

func (repo *memoryCodeRepository) Get(_ context.Context, username string) (string, error) {
	if hash, ok := repo.hashes[username]; ok {
		return hash, nil
	}
	return "", apperr.NotFound("Confirmation code")
}

func (repo *memoryCodeRepository) Delete(_ context.Context, username string) error {
	delete(repo.hashes, username)
	return nil
}

// captureNotifier records every delivered confirmation code per username.
type captureNotifier struct {
	codes map[string]string
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{codes: make(map[string]string)}
}

func (notifier *captureNotifier) SendConfirmation(_ context.Context, email, username, code string) error {
	notifier.codes[username] = code
	return nil
}

// stubTokenProvider issues predictable token strings.
type stubTokenProvider struct{}

func (stubTokenProvider) GenerateAccessToken(userID, username, role string, _ time.Duration) (string, error) {
	return fmt.Sprintf("jwt.%s.%s.%s", userID, username, role), nil
}

// newTestService wires a Service with all in-memory doubles.
func newTestService() (*auth.Service, *memoryUserRepository, *memoryCodeRepository, *captureNotifier) {
	users := newMemoryUserRepository()
	codes := newMemoryCodeRepository()
	notifier := newCaptureNotifier()
	service := auth.NewService(users, codes, notifier, stubTokenProvider{})
	return service, users, codes, notifier
}

// # Signup

/*
TestSignup_CreatesAccountAndDeliversCode covers the happy path: a fresh
identity pair yields a stored account with the default role and a delivered
confirmation code.
*/
func TestSignup_CreatesAccountAndDeliversCode(t *testing.T) {
	service, users, _, notifier := newTestService()

	identity, err := service.Signup(context.Background(), auth.SignupInput{
		Username: "carol",
		Email:    "carol@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "carol", identity.Username)
	assert.Equal(t, "carol@example.com", identity.Email)

	stored, err := users.FindByUsername(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, stored.Role)

	code, delivered := notifier.codes["carol"]
	require.True(t, delivered, "notifier should have received a code")
	assert.Len(t, code, auth.ConfirmationCodeLength)
}

/*
TestSignup_IdempotentForSamePair verifies that re-submitting the exact
identity pair re-issues a fresh code instead of failing.
*/
func TestSignup_IdempotentForSamePair(t *testing.T) {
	service, users, _, notifier := newTestService()
	ctx := context.Background()

	_, err := service.Signup(ctx, auth.SignupInput{Username: "carol", Email: "carol@example.com"})
	require.NoError(t, err)
	firstCode := notifier.codes["carol"]

	_, err = service.Signup(ctx, auth.SignupInput{Username: "carol", Email: "carol@example.com"})
	require.NoError(t, err)

	// Still exactly one account.
	assert.Len(t, users.users, 1)

	// A code was delivered both times.
	assert.NotEmpty(t, firstCode)
	assert.NotEmpty(t, notifier.codes["carol"])
}

/*
TestSignup_IdentityConflicts exercises the three collision shapes of the
identity pair.
*/
func TestSignup_IdentityConflicts(t *testing.T) {
	service, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := service.Signup(ctx, auth.SignupInput{Username: "carol", Email: "carol@example.com"})
	require.NoError(t, err)
	_, err = service.Signup(ctx, auth.SignupInput{Username: "dave", Email: "dave@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		email    string
		wantCode string
	}{
		{"username_taken", "carol", "other@example.com", "DUPLICATE_USER"},
		{"email_taken", "newname", "carol@example.com", "DUPLICATE_USER"},
		{"pair_split_across_accounts", "carol", "dave@example.com", "CONFLICTING_IDENTITY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Signup(ctx, auth.SignupInput{Username: tt.username, Email: tt.email})
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
		})
	}
}

/*
TestSignup_RejectsInvalidIdentities verifies input validation before storage.
*/
func TestSignup_RejectsInvalidIdentities(t *testing.T) {
	service, users, _, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"reserved_me", "me", "me@example.com"},
		{"bad_charset", "carol smith", "carol@example.com"},
		{"bad_email", "carol", "not-an-email"},
		{"empty_username", "", "carol@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Signup(ctx, auth.SignupInput{Username: tt.username, Email: tt.email})
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}

	assert.Empty(t, users.users, "no account should be created on validation failure")
}

// # Token Issuance

/*
TestIssueToken_ExchangesCodeOnce covers the full code exchange lifecycle:
a valid code yields a token exactly once and is burned on use.
*/
func TestIssueToken_ExchangesCodeOnce(t *testing.T) {
	service, _, _, notifier := newTestService()
	ctx := context.Background()

	_, err := service.Signup(ctx, auth.SignupInput{Username: "carol", Email: "carol@example.com"})
	require.NoError(t, err)
	code := notifier.codes["carol"]

	issued, err := service.IssueToken(ctx, auth.TokenInput{Username: "carol", ConfirmationCode: code})
	require.NoError(t, err)
	assert.Contains(t, issued.AccessToken, "carol")
	assert.Contains(t, issued.AccessToken, string(sec.RoleUser))

	// The code is single use: replaying it must fail.
	_, err = service.IssueToken(ctx, auth.TokenInput{Username: "carol", ConfirmationCode: code})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "INVALID_CONFIRMATION_CODE"))
}

/*
TestIssueToken_Failures covers wrong codes and unknown usernames.
*/
func TestIssueToken_Failures(t *testing.T) {
	service, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := service.Signup(ctx, auth.SignupInput{Username: "carol", Email: "carol@example.com"})
	require.NoError(t, err)

	t.Run("wrong_code", func(t *testing.T) {
		_, err := service.IssueToken(ctx, auth.TokenInput{Username: "carol", ConfirmationCode: "WRONGCOD"})
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "INVALID_CONFIRMATION_CODE"))
	})

	t.Run("unknown_username", func(t *testing.T) {
		_, err := service.IssueToken(ctx, auth.TokenInput{Username: "nobody", ConfirmationCode: "ABCDEFGH"})
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("missing_code", func(t *testing.T) {
		_, err := service.IssueToken(ctx, auth.TokenInput{Username: "carol", ConfirmationCode: ""})
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}
