// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// It is shared with the account management feature, which layers listing and
// mutation operations on top of the same users.account table.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.DuplicateUser on unique violations, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to mutable profile fields.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		Delete permanently removes the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, username string) error

	/*
		List returns a page of accounts ordered by username, plus the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []User: Page of accounts
		  - int: Total account count
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]User, int, error)
}

// # Volatile Data Access

// ConfirmationCodeRepository defines the contract for storing volatile
// signup confirmation codes.
//
// Only the bcrypt hash of a code is ever stored.
type ConfirmationCodeRepository interface {

	/*
		Set stores a code hash for a username, replacing any previous one.

		Parameters:
		  - context: context.Context
		  - username: string
		  - codeHash: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, username string, codeHash string, ttl time.Duration) error

	/*
		Get retrieves the stored code hash for a username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - string: Code hash
		  - error: apperr.NotFound if absent or expired, or retrieval failures
	*/
	Get(context context.Context, username string) (string, error)

	/*
		Delete removes the code hash after successful use.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, username string) error
}
