// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/critiqapp/critiq/internal/platform/apperr"
)

// # Title Repository

// PostgresTitleRepository implements the TitleRepository interface using pgx.
//
// # Rating Derivation
//
// The rating column does not exist in storage. Every SELECT aggregates the
// review scores with AVG, rounded to one decimal, and a title without
// reviews scans a NULL into the nil rating pointer.
type PostgresTitleRepository struct {
	pool *pgxpool.Pool
}

// NewTitleRepository creates a new PostgreSQL implementation of the TitleRepository.
func NewTitleRepository(pool *pgxpool.Pool) *PostgresTitleRepository {
	return &PostgresTitleRepository{pool: pool}
}

// titleSelect is the canonical hydrating query head shared by FindByID and List.
const titleSelect = `
	SELECT
		t.id, t.name, t.year, t.description, t.createdat, t.updatedat,
		c.id, c.name, c.slug, c.createdat,
		ROUND(AVG(r.score)::numeric, 1)::float8 AS rating
	FROM catalog.title t
	LEFT JOIN catalog.category c ON c.id = t.categoryid
	LEFT JOIN reviews.review r ON r.titleid = t.id`

// titleGroupBy closes the aggregate over the non-aggregated columns.
const titleGroupBy = `
	GROUP BY t.id, t.name, t.year, t.description, t.createdat, t.updatedat,
		c.id, c.name, c.slug, c.createdat`

// scanTitle hydrates a [Title] (minus genres) from a hydrating query row.
// The category columns come through the LEFT JOIN, so an uncategorised
// title scans NULLs and keeps a nil Category.
func scanTitle(row pgx.Row) (*Title, error) {
	title := &Title{}
	var (
		categoryID        *string
		categoryName      *string
		categorySlug      *string
		categoryCreatedAt *time.Time
	)
	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CreatedAt,
		&title.UpdatedAt,
		&categoryID,
		&categoryName,
		&categorySlug,
		&categoryCreatedAt,
		&title.Rating,
	)
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		title.Category = &Category{
			ID:        *categoryID,
			Name:      *categoryName,
			Slug:      *categorySlug,
			CreatedAt: *categoryCreatedAt,
		}
	}
	return title, nil
}

// categoryID extracts the nullable foreign key for inserts and updates.
func categoryID(title *Title) *string {
	if title.Category == nil {
		return nil
	}
	return &title.Category.ID
}

/*
Create persists a new title and its genre associations atomically.

Parameters:
  - context: context.Context
  - title: *Title

Returns:
  - error: Persistence failures
*/
func (repository *PostgresTitleRepository) Create(context context.Context, title *Title) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	const insertTitle = `
		INSERT INTO catalog.title (id, name, year, description, categoryid, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if title.CreatedAt.IsZero() {
		title.CreatedAt = now
	}
	title.UpdatedAt = now

	_, err = transaction.Exec(context, insertTitle,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		categoryID(title),
		title.CreatedAt,
		title.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_create_failed: %w", err)
	}

	if err := insertGenreLinks(context, transaction, title.ID, title.Genres); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_title_repo_commit_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a fully hydrated title, including category, genres, and
the derived rating.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Title: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresTitleRepository) FindByID(context context.Context, id string) (*Title, error) {
	query := titleSelect + `
	WHERE t.id = $1` + titleGroupBy

	title, err := scanTitle(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Title")
		}
		return nil, fmt.Errorf("postgres_title_repo_find_failed: %w", err)
	}

	genresByTitle, err := repository.loadGenres(context, []string{title.ID})
	if err != nil {
		return nil, err
	}
	title.Genres = genresByTitle[title.ID]

	return title, nil
}

/*
List returns a page of hydrated titles matching the filter.

Description: Filters compose with AND. Name matching is case-insensitive
substring search; category and genre filter by slug; year is exact.

Parameters:
  - context: context.Context
  - filter: TitleFilter
  - limit: int
  - offset: int

Returns:
  - []Title: Page of hydrated titles
  - int: Total matching count
  - error: Database retrieval failures
*/
func (repository *PostgresTitleRepository) List(context context.Context, filter TitleFilter, limit, offset int) ([]Title, int, error) {
	conditions, args := buildTitleFilter(filter)

	where := ""
	if len(conditions) > 0 {
		where = "\n\tWHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `
		SELECT COUNT(*)
		FROM catalog.title t
		LEFT JOIN catalog.category c ON c.id = t.categoryid` + where

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_title_repo_count_failed: %w", err)
	}

	listQuery := titleSelect + where + titleGroupBy + fmt.Sprintf(`
	ORDER BY t.name ASC
	LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	rows, err := repository.pool.Query(context, listQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_title_repo_list_failed: %w", err)
	}
	defer rows.Close()

	titles := make([]Title, 0, limit)
	titleIDs := make([]string, 0, limit)
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_title_repo_list_scan_failed: %w", err)
		}
		titles = append(titles, *title)
		titleIDs = append(titleIDs, title.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_title_repo_list_rows_failed: %w", err)
	}

	// Hydrate genre sets in a single batch query.
	genresByTitle, err := repository.loadGenres(context, titleIDs)
	if err != nil {
		return nil, 0, err
	}
	for i := range titles {
		titles[i].Genres = genresByTitle[titles[i].ID]
	}

	return titles, total, nil
}

/*
Update persists title changes and replaces the genre associations atomically.

Parameters:
  - context: context.Context
  - title: *Title

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresTitleRepository) Update(context context.Context, title *Title) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	const updateTitle = `
		UPDATE catalog.title
		SET name = $2, year = $3, description = $4, categoryid = $5, updatedat = $6
		WHERE id = $1`

	title.UpdatedAt = time.Now()
	tag, err := transaction.Exec(context, updateTitle,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		categoryID(title),
		title.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	// Replace the genre set wholesale.
	if _, err := transaction.Exec(context, "DELETE FROM catalog.titlegenre WHERE titleid = $1", title.ID); err != nil {
		return fmt.Errorf("postgres_title_repo_unlink_genres_failed: %w", err)
	}
	if err := insertGenreLinks(context, transaction, title.ID, title.Genres); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_title_repo_commit_failed: %w", err)
	}

	return nil
}

/*
Delete removes a title by ID. Reviews and their comments are removed by the
ON DELETE CASCADE chain.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresTitleRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM catalog.title WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	return nil
}

// # Helpers

// buildTitleFilter translates a [TitleFilter] into SQL conditions and args.
func buildTitleFilter(filter TitleFilter) ([]string, []any) {
	conditions := []string{}
	args := []any{}

	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", len(args)))
	}

	if filter.GenreSlug != "" {
		args = append(args, filter.GenreSlug)
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM catalog.titlegenre tg
			JOIN catalog.genre g ON g.id = tg.genreid
			WHERE tg.titleid = t.id AND g.slug = $%d)`, len(args)))
	}

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("t.name ILIKE $%d", len(args)))
	}

	if filter.Year != 0 {
		args = append(args, filter.Year)
		conditions = append(conditions, fmt.Sprintf("t.year = $%d", len(args)))
	}

	return conditions, args
}

// insertGenreLinks writes the join rows for a title's genre set.
func insertGenreLinks(context context.Context, transaction pgx.Tx, titleID string, genres []Genre) error {
	const insertLink = "INSERT INTO catalog.titlegenre (titleid, genreid) VALUES ($1, $2)"

	for _, genre := range genres {
		if _, err := transaction.Exec(context, insertLink, titleID, genre.ID); err != nil {
			return fmt.Errorf("postgres_title_repo_link_genre_failed: %w", err)
		}
	}

	return nil
}

// loadGenres fetches the genre sets for a batch of title IDs.
func (repository *PostgresTitleRepository) loadGenres(context context.Context, titleIDs []string) (map[string][]Genre, error) {
	result := make(map[string][]Genre, len(titleIDs))
	if len(titleIDs) == 0 {
		return result, nil
	}

	const query = `
		SELECT tg.titleid, g.id, g.name, g.slug, g.createdat
		FROM catalog.titlegenre tg
		JOIN catalog.genre g ON g.id = tg.genreid
		WHERE tg.titleid = ANY($1)
		ORDER BY g.name ASC`

	rows, err := repository.pool.Query(context, query, titleIDs)
	if err != nil {
		return nil, fmt.Errorf("postgres_title_repo_load_genres_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var titleID string
		genre := Genre{}
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_title_repo_load_genres_scan_failed: %w", err)
		}
		result[titleID] = append(result[titleID], genre)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_title_repo_load_genres_rows_failed: %w", err)
	}

	return result, nil
}
