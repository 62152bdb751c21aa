// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package catalog

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

// # Genre Repository

// PostgresGenreRepository implements the GenreRepository interface using pgx.
type PostgresGenreRepository struct {
	pool *pgxpool.Pool
}

// NewGenreRepository creates a new PostgreSQL implementation of the GenreRepository.
func NewGenreRepository(pool *pgxpool.Pool) *PostgresGenreRepository {
	return &PostgresGenreRepository{pool: pool}
}

/*
Create persists a new genre record into the catalog.genre table.

Parameters:
  - context: context.Context
  - genre: *Genre

Returns:
  - error: apperr.Conflict on slug collisions, or connectivity errors
*/
func (repository *PostgresGenreRepository) Create(context context.Context, genre *Genre) error {
	const query = `
		INSERT INTO catalog.genre (id, name, slug, createdat)
		VALUES ($1, $2, $3, $4)`

	if genre.CreatedAt.IsZero() {
		genre.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		genre.ID,
		genre.Name,
		genre.Slug,
		genre.CreatedAt,
	)

	if err != nil {
		return dberr.WrapUnique(err, apperr.Conflict("Genre slug already exists"), "genre_create")
	}

	return nil
}

/*
FindBySlug retrieves a genre record by its unique slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Genre: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresGenreRepository) FindBySlug(context context.Context, slug string) (*Genre, error) {
	const query = `
		SELECT id, name, slug, createdat
		FROM catalog.genre
		WHERE slug = $1`

	genre := &Genre{}
	err := repository.pool.QueryRow(context, query, slug).Scan(
		&genre.ID,
		&genre.Name,
		&genre.Slug,
		&genre.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Genre")
		}
		return nil, fmt.Errorf("postgres_genre_repo_find_failed: %w", err)
	}

	return genre, nil
}

/*
FindBySlugs resolves a set of slugs into genre entities.

Description: Returns apperr.NotFound if any requested slug does not exist,
so callers never silently attach a partial genre set.

Parameters:
  - context: context.Context
  - slugs: []string

Returns:
  - []Genre: Resolved genres
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresGenreRepository) FindBySlugs(context context.Context, slugs []string) ([]Genre, error) {
	if len(slugs) == 0 {
		return []Genre{}, nil
	}

	const query = `
		SELECT id, name, slug, createdat
		FROM catalog.genre
		WHERE slug = ANY($1)`

	rows, err := repository.pool.Query(context, query, slugs)
	if err != nil {
		return nil, fmt.Errorf("postgres_genre_repo_find_by_slugs_failed: %w", err)
	}
	defer rows.Close()

	genres := make([]Genre, 0, len(slugs))
	for rows.Next() {
		genre := Genre{}
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_genre_repo_find_by_slugs_scan_failed: %w", err)
		}
		genres = append(genres, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_genre_repo_find_by_slugs_rows_failed: %w", err)
	}

	if len(genres) != len(slugs) {
		return nil, apperr.NotFound("Genre")
	}

	return genres, nil
}

/*
List returns a page of genres ordered by name.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []Genre: Page of genres
  - int: Total count
  - error: Database retrieval failures
*/
func (repository *PostgresGenreRepository) List(context context.Context, limit, offset int) ([]Genre, int, error) {
	const countQuery = "SELECT COUNT(*) FROM catalog.genre"

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_genre_repo_count_failed: %w", err)
	}

	const query = `
		SELECT id, name, slug, createdat
		FROM catalog.genre
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_genre_repo_list_failed: %w", err)
	}
	defer rows.Close()

	genres := make([]Genre, 0, limit)
	for rows.Next() {
		genre := Genre{}
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("postgres_genre_repo_list_scan_failed: %w", err)
		}
		genres = append(genres, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_genre_repo_list_rows_failed: %w", err)
	}

	return genres, total, nil
}

/*
DeleteBySlug removes a genre by its slug.

Description: Title associations in catalog.titlegenre are removed by the
ON DELETE CASCADE on the join table; the titles themselves are untouched.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresGenreRepository) DeleteBySlug(context context.Context, slug string) error {
	const query = "DELETE FROM catalog.genre WHERE slug = $1"

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return fmt.Errorf("postgres_genre_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Genre")
	}

	return nil
}
