// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

// PostgreSQL implementation of the account storage contracts.
//
// # err Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/critiqapp/critiq/internal/platform/apperr"
	"github.com/critiqapp/critiq/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// accountColumns is the canonical column list for users.account scans.
const accountColumns = "id, username, email, firstname, lastname, bio, role, createdat, updatedat"

// scanUser hydrates a [User] from a single-row query result.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.DuplicateUser on username/email collisions, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, firstname, lastname, bio, role, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		// The unique indexes on username and email are the authoritative
		// guard against a concurrent signup with the same identity.
		return dberr.WrapUnique(err, apperr.DuplicateUser("Username or email is already registered"), "user_create")
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE username = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE email = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
Update persists changes to a user's mutable profile fields.

Description: Synchronizes the in-memory user state with the database,
refreshing the updatedat timestamp.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.DuplicateUser on username/email collisions, or update failures
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET username = $2, email = $3, firstname = $4, lastname = $5, bio = $6, role = $7, updatedat = $8
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.WrapUnique(err, apperr.DuplicateUser("Username or email is already registered"), "user_update")
	}

	return nil
}

/*
Delete permanently removes a user account by username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: apperr.NotFound if no row matched, or execution errors
*/
func (repository *PostgresUserRepository) Delete(context context.Context, username string) error {
	const query = "DELETE FROM users.account WHERE username = $1"

	tag, err := repository.pool.Exec(context, query, username)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
List returns a page of user accounts ordered by username.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []User: Page of accounts
  - int: Total account count
  - error: Database retrieval failures
*/
func (repository *PostgresUserRepository) List(context context.Context, limit, offset int) ([]User, int, error) {
	const countQuery = "SELECT COUNT(*) FROM users.account"

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_count_failed: %w", err)
	}

	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		ORDER BY username ASC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_list_rows_failed: %w", err)
	}

	return users, total, nil
}
