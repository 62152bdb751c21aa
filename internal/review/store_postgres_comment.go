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
)

// # Comment Repository

// PostgresCommentRepository implements the CommentRepository interface using pgx.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new PostgreSQL implementation of the CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// commentSelect joins users.account so every read carries the author username.
const commentSelect = `
	SELECT c.id, c.reviewid, c.authorid, a.username, c.text, c.pubdate
	FROM reviews.comment c
	JOIN users.account a ON a.id = c.authorid`

// scanComment hydrates a [Comment] from a joined row.
func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.AuthorID,
		&comment.AuthorUsername,
		&comment.Text,
		&comment.PubDate,
	)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

/*
Create persists a new comment into the reviews.comment table.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Persistence failures
*/
func (repository *PostgresCommentRepository) Create(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO reviews.comment (id, reviewid, authorid, text, pubdate)
		VALUES ($1, $2, $3, $4, $5)`

	if comment.PubDate.IsZero() {
		comment.PubDate = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		comment.ID,
		comment.ReviewID,
		comment.AuthorID,
		comment.Text,
		comment.PubDate,
	)

	if err != nil {
		return fmt.Errorf("postgres_comment_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a comment scoped to its review.

Parameters:
  - context: context.Context
  - reviewID: string
  - commentID: string

Returns:
  - *Comment: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresCommentRepository) FindByID(context context.Context, reviewID, commentID string) (*Comment, error) {
	query := commentSelect + `
	WHERE c.id = $1 AND c.reviewid = $2`

	comment, err := scanComment(repository.pool.QueryRow(context, query, commentID, reviewID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_repo_find_failed: %w", err)
	}

	return comment, nil
}

/*
List returns a page of a review's comments, oldest first.

Parameters:
  - context: context.Context
  - reviewID: string
  - limit: int
  - offset: int

Returns:
  - []Comment: Page of comments
  - int: Total count for the review
  - error: Database retrieval failures
*/
func (repository *PostgresCommentRepository) List(context context.Context, reviewID string, limit, offset int) ([]Comment, int, error) {
	const countQuery = "SELECT COUNT(*) FROM reviews.comment WHERE reviewid = $1"

	var total int
	if err := repository.pool.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_count_failed: %w", err)
	}

	query := commentSelect + `
	WHERE c.reviewid = $1
	ORDER BY c.pubdate ASC
	LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, reviewID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_list_failed: %w", err)
	}
	defer rows.Close()

	comments := make([]Comment, 0, limit)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_repo_list_scan_failed: %w", err)
		}
		comments = append(comments, *comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_list_rows_failed: %w", err)
	}

	return comments, total, nil
}

/*
Update persists changes to a comment's text.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresCommentRepository) Update(context context.Context, comment *Comment) error {
	const query = `
		UPDATE reviews.comment
		SET text = $2
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, comment.ID, comment.Text)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

/*
Delete removes a comment by ID.

Parameters:
  - context: context.Context
  - commentID: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresCommentRepository) Delete(context context.Context, commentID string) error {
	const query = "DELETE FROM reviews.comment WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, commentID)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}
