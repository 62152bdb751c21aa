// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package review

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

// # Review Repository

// PostgresReviewRepository implements the ReviewRepository interface using pgx.
//
// The (titleid, authorid) unique index is the authoritative one-review-per-
// member guard; the repository translates its violation into the
// DUPLICATE_REVIEW taxonomy.
type PostgresReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository creates a new PostgreSQL implementation of the ReviewRepository.
func NewReviewRepository(pool *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{pool: pool}
}

// reviewSelect joins users.account so every read carries the author username.
const reviewSelect = `
	SELECT r.id, r.titleid, r.authorid, a.username, r.text, r.score, r.pubdate
	FROM reviews.review r
	JOIN users.account a ON a.id = r.authorid`

// scanReview hydrates a [Review] from a joined row.
func scanReview(row pgx.Row) (*Review, error) {
	review := &Review{}
	err := row.Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.AuthorUsername,
		&review.Text,
		&review.Score,
		&review.PubDate,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}

/*
Create persists a new review into the reviews.review table.

Parameters:
  - context: context.Context
  - review: *Review

Returns:
  - error: apperr.DuplicateReview on a repeat review, or connectivity errors
*/
func (repository *PostgresReviewRepository) Create(context context.Context, review *Review) error {
	const query = `
		INSERT INTO reviews.review (id, titleid, authorid, text, score, pubdate)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if review.PubDate.IsZero() {
		review.PubDate = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		review.ID,
		review.TitleID,
		review.AuthorID,
		review.Text,
		review.Score,
		review.PubDate,
	)

	if err != nil {
		return dberr.WrapUnique(err, apperr.DuplicateReview(), "review_create")
	}

	return nil
}

/*
FindByID retrieves a review scoped to its title.

Parameters:
  - context: context.Context
  - titleID: string
  - reviewID: string

Returns:
  - *Review: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresReviewRepository) FindByID(context context.Context, titleID, reviewID string) (*Review, error) {
	query := reviewSelect + `
	WHERE r.id = $1 AND r.titleid = $2`

	review, err := scanReview(repository.pool.QueryRow(context, query, reviewID, titleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review")
		}
		return nil, fmt.Errorf("postgres_review_repo_find_failed: %w", err)
	}

	return review, nil
}

/*
ExistsByAuthor reports whether the author already reviewed the title.

Parameters:
  - context: context.Context
  - titleID: string
  - authorID: string

Returns:
  - bool: True when a review exists
  - error: Database retrieval failures
*/
func (repository *PostgresReviewRepository) ExistsByAuthor(context context.Context, titleID, authorID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM reviews.review
			WHERE titleid = $1 AND authorid = $2)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID, authorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_review_repo_exists_failed: %w", err)
	}

	return exists, nil
}

/*
List returns a page of a title's reviews, oldest first.

Parameters:
  - context: context.Context
  - titleID: string
  - limit: int
  - offset: int

Returns:
  - []Review: Page of reviews
  - int: Total count for the title
  - error: Database retrieval failures
*/
func (repository *PostgresReviewRepository) List(context context.Context, titleID string, limit, offset int) ([]Review, int, error) {
	const countQuery = "SELECT COUNT(*) FROM reviews.review WHERE titleid = $1"

	var total int
	if err := repository.pool.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_review_repo_count_failed: %w", err)
	}

	query := reviewSelect + `
	WHERE r.titleid = $1
	ORDER BY r.pubdate ASC
	LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, titleID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_review_repo_list_failed: %w", err)
	}
	defer rows.Close()

	reviews := make([]Review, 0, limit)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_review_repo_list_scan_failed: %w", err)
		}
		reviews = append(reviews, *review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_review_repo_list_rows_failed: %w", err)
	}

	return reviews, total, nil
}

/*
Update persists changes to a review's text and score.

Parameters:
  - context: context.Context
  - review: *Review

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresReviewRepository) Update(context context.Context, review *Review) error {
	const query = `
		UPDATE reviews.review
		SET text = $2, score = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, review.ID, review.Text, review.Score)
	if err != nil {
		return fmt.Errorf("postgres_review_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

/*
Delete removes a review by ID. Comments below it are removed by the
ON DELETE CASCADE on reviews.comment.

Parameters:
  - context: context.Context
  - reviewID: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresReviewRepository) Delete(context context.Context, reviewID string) error {
	const query = "DELETE FROM reviews.review WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, reviewID)
	if err != nil {
		return fmt.Errorf("postgres_review_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}
