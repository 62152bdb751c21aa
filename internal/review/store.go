// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package review

import "context"

// # Review Data Access

// ReviewRepository defines the data access contract for reviews.
//
// Reviews are always addressed below their title, so lookups take both
// identifiers and miss when the pairing is wrong.
type ReviewRepository interface {

	/*
		Create persists a new review.

		Parameters:
		  - context: context.Context
		  - review: *Review

		Returns:
		  - error: apperr.DuplicateReview when the author already reviewed the
		    title, or persistence failures
	*/
	Create(context context.Context, review *Review) error

	/*
		FindByID returns the review with the given ID under the given title.

		Parameters:
		  - context: context.Context
		  - titleID: string
		  - reviewID: string

		Returns:
		  - *Review: Hydrated entity with author username
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, titleID, reviewID string) (*Review, error)

	/*
		ExistsByAuthor reports whether the author already reviewed the title.

		Parameters:
		  - context: context.Context
		  - titleID: string
		  - authorID: string

		Returns:
		  - bool: True when a review exists
		  - error: Retrieval failures
	*/
	ExistsByAuthor(context context.Context, titleID, authorID string) (bool, error)

	/*
		List returns a page of a title's reviews in publication order,
		oldest first, plus the total count.

		Parameters:
		  - context: context.Context
		  - titleID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []Review: Page of reviews
		  - int: Total count for the title
		  - error: Retrieval failures
	*/
	List(context context.Context, titleID string, limit, offset int) ([]Review, int, error)

	/*
		Update persists changes to a review's text and score.

		Parameters:
		  - context: context.Context
		  - review: *Review

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Update(context context.Context, review *Review) error

	/*
		Delete removes the review. Its comments go with it through the
		storage cascade.

		Parameters:
		  - context: context.Context
		  - reviewID: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Delete(context context.Context, reviewID string) error
}

// # Comment Data Access

// CommentRepository defines the data access contract for review comments.
type CommentRepository interface {

	/*
		Create persists a new comment.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, comment *Comment) error

	/*
		FindByID returns the comment with the given ID under the given review.

		Parameters:
		  - context: context.Context
		  - reviewID: string
		  - commentID: string

		Returns:
		  - *Comment: Hydrated entity with author username
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, reviewID, commentID string) (*Comment, error)

	/*
		List returns a page of a review's comments in publication order,
		oldest first, plus the total count.

		Parameters:
		  - context: context.Context
		  - reviewID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []Comment: Page of comments
		  - int: Total count for the review
		  - error: Retrieval failures
	*/
	List(context context.Context, reviewID string, limit, offset int) ([]Comment, int, error)

	/*
		Update persists changes to a comment's text.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Update(context context.Context, comment *Comment) error

	/*
		Delete removes the comment.

		Parameters:
		  - context: context.Context
		  - commentID: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Delete(context context.Context, commentID string) error
}
