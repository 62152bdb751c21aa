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

// # Category Repository

// PostgresCategoryRepository implements the CategoryRepository interface using pgx.
type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new PostgreSQL implementation of the CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pool: pool}
}

/*
Create persists a new category record into the catalog.category table.

Parameters:
  - context: context.Context
  - category: *Category

Returns:
  - error: apperr.Conflict on slug collisions, or connectivity errors
*/
func (repository *PostgresCategoryRepository) Create(context context.Context, category *Category) error {
	const query = `
		INSERT INTO catalog.category (id, name, slug, createdat)
		VALUES ($1, $2, $3, $4)`

	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		category.ID,
		category.Name,
		category.Slug,
		category.CreatedAt,
	)

	if err != nil {
		return dberr.WrapUnique(err, apperr.Conflict("Category slug already exists"), "category_create")
	}

	return nil
}

/*
FindBySlug retrieves a category record by its unique slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Category: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresCategoryRepository) FindBySlug(context context.Context, slug string) (*Category, error) {
	const query = `
		SELECT id, name, slug, createdat
		FROM catalog.category
		WHERE slug = $1`

	category := &Category{}
	err := repository.pool.QueryRow(context, query, slug).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Category")
		}
		return nil, fmt.Errorf("postgres_category_repo_find_failed: %w", err)
	}

	return category, nil
}

/*
List returns a page of categories ordered by name.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []Category: Page of categories
  - int: Total count
  - error: Database retrieval failures
*/
func (repository *PostgresCategoryRepository) List(context context.Context, limit, offset int) ([]Category, int, error) {
	const countQuery = "SELECT COUNT(*) FROM catalog.category"

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_category_repo_count_failed: %w", err)
	}

	const query = `
		SELECT id, name, slug, createdat
		FROM catalog.category
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_category_repo_list_failed: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0, limit)
	for rows.Next() {
		category := Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("postgres_category_repo_list_scan_failed: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_category_repo_list_rows_failed: %w", err)
	}

	return categories, total, nil
}

/*
DeleteBySlug removes a category by its slug.

Description: The catalog.title foreign key is declared ON DELETE RESTRICT,
so a category still referenced by titles cannot be removed. The violation
is surfaced as a client-safe Conflict.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - error: apperr.NotFound, apperr.Conflict, or execution errors
*/
func (repository *PostgresCategoryRepository) DeleteBySlug(context context.Context, slug string) error {
	const query = "DELETE FROM catalog.category WHERE slug = $1"

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return apperr.Conflict("Category is still referenced by titles")
		}
		return fmt.Errorf("postgres_category_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}

/*
CountTitles returns how many titles reference the category.

Parameters:
  - context: context.Context
  - categoryID: string

Returns:
  - int: Referencing title count
  - error: Database retrieval failures
*/
func (repository *PostgresCategoryRepository) CountTitles(context context.Context, categoryID string) (int, error) {
	const query = "SELECT COUNT(*) FROM catalog.title WHERE categoryid = $1"

	var count int
	if err := repository.pool.QueryRow(context, query, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_category_repo_count_titles_failed: %w", err)
	}

	return count, nil
}
