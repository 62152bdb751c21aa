// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/critiqapp/critiq/internal/platform/apperr"
	"github.com/critiqapp/critiq/internal/platform/authz"
	"github.com/critiqapp/critiq/internal/platform/sec"
	"github.com/critiqapp/critiq/internal/platform/validate"
	"github.com/critiqapp/critiq/internal/users/auth"
	"github.com/critiqapp/critiq/pkg/pagination"
	"github.com/critiqapp/critiq/pkg/uuidv7"
)

// # Validation Bounds

const (
	// MaxBioLen bounds the free-text bio column width.
	MaxBioLen = 500
)

// # Service Layer

// Service orchestrates business logic for user account management.
//
// It covers two surfaces: the self accessor (any authenticated member reading
// or editing their own profile) and the administration surface (full CRUD
// over arbitrary accounts, admin-only).
type Service struct {
	userRepository auth.UserRepository
	logger         *slog.Logger
}

// NewService constructs a new account [Service] with its dependencies.
func NewService(userRepo auth.UserRepository, logger *slog.Logger) *Service {
	return &Service{
		userRepository: userRepo,
		logger:         logger,
	}
}

// # Self Accessor

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SelfUpdateInput defines the subset of profile fields a member may edit
// on their own account.
//
// Role is deliberately absent: a member can never change their own role,
// and a "role" key in the request payload is silently discarded.
type SelfUpdateInput struct {
	Username  *string
	FirstName *string
	LastName  *string
	Bio       *string
}

/*
UpdateSelf applies a partial set of changes to the caller's own account.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage. The stored role always wins
over anything the caller submitted.

Parameters:
  - context: context.Context
  - userID: string
  - input: SelfUpdateInput

Returns:
  - *auth.User: The updated user profile
  - error: ValidationError, DuplicateUser, or storage failures
*/
func (service *Service) UpdateSelf(context context.Context, userID string, input SelfUpdateInput) (*auth.User, error) {

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// A changed username goes through the same rules as signup.
	validator := &validate.Validator{}
	if input.Username != nil {
		validator.Required(auth.FieldUsername, *input.Username).
			Username(auth.FieldUsername, *input.Username)
	}
	if input.FirstName != nil {
		validator.MaxLen(auth.FieldFirstName, *input.FirstName, auth.MaxNameLen)
	}
	if input.LastName != nil {
		validator.MaxLen(auth.FieldLastName, *input.LastName, auth.MaxNameLen)
	}
	if input.Bio != nil {
		validator.MaxLen(auth.FieldBio, *input.Bio, MaxBioLen)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	// Persist changes
	if err := service.userRepository.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

// # Administration Surface

/*
List returns a page of all registered accounts, ordered by username.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (Requesting identity, nil if anonymous)
  - params: pagination.Params

Returns:
  - []auth.User: Page of accounts
  - int: Total account count
  - error: Unauthenticated, Forbidden, or retrieval failures
*/
func (service *Service) List(context context.Context, actor *sec.AuthClaims, params pagination.Params) ([]auth.User, int, error) {
	if err := authz.CanManageUsers(actor); err != nil {
		return nil, 0, err
	}

	users, total, err := service.userRepository.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}

	return users, total, nil
}

// AdminCreateInput holds the fields an administrator provides when
// provisioning an account directly.
type AdminCreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

/*
Create provisions a new account on behalf of an administrator.

Description: Unlike signup, no confirmation code is issued; the account
exists immediately with the role the administrator assigned.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - input: AdminCreateInput

Returns:
  - *auth.User: Created entity
  - error: Unauthenticated, Forbidden, ValidationError, DuplicateUser, or storage failures
*/
func (service *Service) Create(context context.Context, actor *sec.AuthClaims, input AdminCreateInput) (*auth.User, error) {
	if err := authz.CanManageUsers(actor); err != nil {
		return nil, err
	}

	// Default to the standard role when none is given.
	role := sec.Role(input.Role)
	if input.Role == "" {
		role = sec.RoleUser
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, input.Username).
		Username(auth.FieldUsername, input.Username).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		MaxLen(auth.FieldEmail, input.Email, auth.MaxEmailLen).
		MaxLen(auth.FieldFirstName, input.FirstName, auth.MaxNameLen).
		MaxLen(auth.FieldLastName, input.LastName, auth.MaxNameLen).
		MaxLen(auth.FieldBio, input.Bio, MaxBioLen).
		Custom(auth.FieldRole, !role.IsValid(), "Unknown role")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &auth.User{
		ID:        uuidv7.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      role,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_account_provisioned",
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
		slog.String("actor_id", actor.UserID),
	)

	return user, nil
}

/*
GetByUsername retrieves an arbitrary account by its username.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - username: string

Returns:
  - *auth.User: Hydrated entity
  - error: Unauthenticated, Forbidden, NotFound, or retrieval failures
*/
func (service *Service) GetByUsername(context context.Context, actor *sec.AuthClaims, username string) (*auth.User, error) {
	if err := authz.CanManageUsers(actor); err != nil {
		return nil, err
	}

	return service.userRepository.FindByUsername(context, username)
}

// AdminUpdateInput defines the fields an administrator may change on any
// account, including the role.
type AdminUpdateInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

/*
UpdateByUsername applies administrative changes to an arbitrary account.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - username: string
  - input: AdminUpdateInput

Returns:
  - *auth.User: The updated entity
  - error: Unauthenticated, Forbidden, NotFound, ValidationError, or storage failures
*/
func (service *Service) UpdateByUsername(context context.Context, actor *sec.AuthClaims, username string, input AdminUpdateInput) (*auth.User, error) {
	if err := authz.CanManageUsers(actor); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Email != nil {
		validator.Email(auth.FieldEmail, *input.Email).
			MaxLen(auth.FieldEmail, *input.Email, auth.MaxEmailLen)
	}
	if input.FirstName != nil {
		validator.MaxLen(auth.FieldFirstName, *input.FirstName, auth.MaxNameLen)
	}
	if input.LastName != nil {
		validator.MaxLen(auth.FieldLastName, *input.LastName, auth.MaxNameLen)
	}
	if input.Bio != nil {
		validator.MaxLen(auth.FieldBio, *input.Bio, MaxBioLen)
	}
	if input.Role != nil {
		validator.Custom(auth.FieldRole, !sec.Role(*input.Role).IsValid(), "Unknown role")
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil {
		user.Role = sec.Role(*input.Role)
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_account_updated_by_admin",
		slog.String("username", username),
		slog.String("actor_id", actor.UserID),
	)

	return user, nil
}

/*
DeleteByUsername permanently removes an arbitrary account.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - username: string

Returns:
  - error: Unauthenticated, Forbidden, NotFound, or execution failures
*/
func (service *Service) DeleteByUsername(context context.Context, actor *sec.AuthClaims, username string) error {
	if err := authz.CanManageUsers(actor); err != nil {
		return err
	}

	if err := service.userRepository.Delete(context, username); err != nil {
		return err
	}

	service.logger.Warn("user_account_deleted",
		slog.String("username", username),
		slog.String("actor_id", actor.UserID),
	)

	return nil
}

// guardSelf rejects attempts to address the reserved "me" literal through
// the administration surface.
func guardSelf(username string) error {
	if username == validate.ReservedUsername {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   auth.FieldUsername,
			Message: `Use the /users/me endpoints to manage your own account`,
		})
	}
	return nil
}
