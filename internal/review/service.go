// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
Package review implements scored reviews and their comment threads.

# Ownership

Anyone may read. Any authenticated member may publish. Changing or removing
published content is reserved for the author, with moderators and
administrators overriding for curation.
*/
package review

import (
	"context"
	"log/slog"

	"github.com/critiqapp/critiq/internal/catalog"
	"github.com/critiqapp/critiq/internal/platform/apperr"
	"github.com/critiqapp/critiq/internal/platform/authz"
	"github.com/critiqapp/critiq/internal/platform/sec"
	"github.com/critiqapp/critiq/internal/platform/validate"
	"github.com/critiqapp/critiq/pkg/pagination"
	"github.com/critiqapp/critiq/pkg/uuidv7"
)

// TitleResolver is the slice of the catalogue the review service needs:
// confirming that the title being reviewed exists.
type TitleResolver interface {
	FindByID(context context.Context, id string) (*catalog.Title, error)
}

// # Service

// Service coordinates review and comment business logic.
type Service struct {
	reviewRepository  ReviewRepository
	commentRepository CommentRepository
	titleResolver     TitleResolver
	logger            *slog.Logger
}

/*
NewService creates a new review service.

Parameters:
  - reviewRepository: ReviewRepository
  - commentRepository: CommentRepository
  - titleResolver: TitleResolver
  - logger: *slog.Logger

Returns:
  - *Service: Ready-to-use service instance
*/
func NewService(
	reviewRepository ReviewRepository,
	commentRepository CommentRepository,
	titleResolver TitleResolver,
	logger *slog.Logger,
) *Service {
	return &Service{
		reviewRepository:  reviewRepository,
		commentRepository: commentRepository,
		titleResolver:     titleResolver,
		logger:            logger,
	}
}

// # Review Operations

// ReviewInput carries the fields accepted when publishing a review.
type ReviewInput struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

/*
CreateReview publishes a review of a title. Any authenticated member.

Description: The pre-check on an existing review keeps the common repeat
case friendly; the unique index remains the race authority, so a concurrent
duplicate surfaces identically.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - titleID: string
  - input: ReviewInput

Returns:
  - *Review: Published review
  - error: Authorization, validation, apperr.NotFound, or apperr.DuplicateReview
*/
func (service *Service) CreateReview(context context.Context, actor *sec.AuthClaims, titleID string, input ReviewInput) (*Review, error) {
	if err := authz.CanCreateContent(actor); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text).
		MaxLen(FieldText, input.Text, MaxReviewTextLen).
		Score(FieldScore, input.Score)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.titleResolver.FindByID(context, titleID); err != nil {
		return nil, err
	}

	exists, err := service.reviewRepository.ExistsByAuthor(context, titleID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.DuplicateReview()
	}

	review := &Review{
		ID:             uuidv7.New(),
		TitleID:        titleID,
		AuthorID:       actor.UserID,
		AuthorUsername: actor.Username,
		Text:           input.Text,
		Score:          input.Score,
	}

	if err := service.reviewRepository.Create(context, review); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "review_published",
		slog.String("review_id", review.ID),
		slog.String("title_id", titleID),
		slog.Int("score", review.Score),
	)

	return review, nil
}

/*
GetReview returns a single review under a title. Open to anyone.

Parameters:
  - context: context.Context
  - titleID: string
  - reviewID: string

Returns:
  - *Review: Hydrated review
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetReview(context context.Context, titleID, reviewID string) (*Review, error) {
	return service.reviewRepository.FindByID(context, titleID, reviewID)
}

/*
ListReviews returns a title's reviews in publication order. Open to anyone.

Parameters:
  - context: context.Context
  - titleID: string
  - params: pagination.Params

Returns:
  - []Review: Page of reviews, oldest first
  - int: Total count for the title
  - error: apperr.NotFound for an unknown title, or retrieval failures
*/
func (service *Service) ListReviews(context context.Context, titleID string, params pagination.Params) ([]Review, int, error) {
	if _, err := service.titleResolver.FindByID(context, titleID); err != nil {
		return nil, 0, err
	}

	return service.reviewRepository.List(context, titleID, params.Limit, params.Offset())
}

// ReviewUpdateInput carries the optional fields of a partial review update.
type ReviewUpdateInput struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

/*
UpdateReview edits a published review. Author, moderator, or administrator.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - titleID: string
  - reviewID: string
  - input: ReviewUpdateInput

Returns:
  - *Review: Updated review
  - error: Authorization, validation, apperr.NotFound, or persistence errors
*/
func (service *Service) UpdateReview(context context.Context, actor *sec.AuthClaims, titleID, reviewID string, input ReviewUpdateInput) (*Review, error) {
	review, err := service.reviewRepository.FindByID(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanModifyContent(actor, review.AuthorID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Text != nil {
		validator.Required(FieldText, *input.Text).MaxLen(FieldText, *input.Text, MaxReviewTextLen)
	}
	if input.Score != nil {
		validator.Score(FieldScore, *input.Score)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = *input.Score
	}

	if err := service.reviewRepository.Update(context, review); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "review_updated",
		slog.String("review_id", review.ID),
		slog.String("actor_id", actor.UserID),
	)

	return review, nil
}

/*
DeleteReview removes a published review and its comment thread. Author,
moderator, or administrator.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - titleID: string
  - reviewID: string

Returns:
  - error: Authorization, apperr.NotFound, or persistence errors
*/
func (service *Service) DeleteReview(context context.Context, actor *sec.AuthClaims, titleID, reviewID string) error {
	review, err := service.reviewRepository.FindByID(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := authz.CanModifyContent(actor, review.AuthorID); err != nil {
		return err
	}

	if err := service.reviewRepository.Delete(context, review.ID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "review_deleted",
		slog.String("review_id", review.ID),
		slog.String("actor_id", actor.UserID),
	)

	return nil
}

// # Comment Operations

// CommentInput carries the fields accepted when posting a comment.
type CommentInput struct {
	Text string `json:"text"`
}

/*
CreateComment posts a comment below a review. Any authenticated member.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - titleID: string
  - reviewID: string
  - input: CommentInput

Returns:
  - *Comment: Posted comment
  - error: Authorization, validation, apperr.NotFound, or persistence errors
*/
func (service *Service) CreateComment(context context.Context, actor *sec.AuthClaims, titleID, reviewID string, input CommentInput) (*Comment, error) {
	if err := authz.CanCreateContent(actor); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text).
		MaxLen(FieldText, input.Text, MaxCommentTextLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.reviewRepository.FindByID(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:             uuidv7.New(),
		ReviewID:       reviewID,
		AuthorID:       actor.UserID,
		AuthorUsername: actor.Username,
		Text:           input.Text,
	}

	if err := service.commentRepository.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_posted",
		slog.String("comment_id", comment.ID),
		slog.String("review_id", reviewID),
	)

	return comment, nil
}

/*
GetComment returns a single comment under a review. Open to anyone.

Parameters:
  - context: context.Context
  - titleID: string
  - reviewID: string
  - commentID: string

Returns:
  - *Comment: Hydrated comment
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID string) (*Comment, error) {
	if _, err := service.reviewRepository.FindByID(context, titleID, reviewID); err != nil {
		return nil, err
	}

	return service.commentRepository.FindByID(context, reviewID, commentID)
}

/*
ListComments returns a review's comments in publication order. Open to anyone.

Parameters:
  - context: context.Context
  - titleID: string
  - reviewID: string
  - params: pagination.Params

Returns:
  - []Comment: Page of comments, oldest first
  - int: Total count for the review
  - error: apperr.NotFound for an unknown review, or retrieval failures
*/
func (service *Service) ListComments(context context.Context, titleID, reviewID string, params pagination.Params) ([]Comment, int, error) {
	if _, err := service.reviewRepository.FindByID(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	return service.commentRepository.List(context, reviewID, params.Limit, params.Offset())
}

// CommentUpdateInput carries the optional fields of a partial comment update.
type CommentUpdateInput struct {
	Text *string `json:"text"`
}

/*
UpdateComment edits a posted comment. Author, moderator, or administrator.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - titleID: string
  - reviewID: string
  - commentID: string
  - input: CommentUpdateInput

Returns:
  - *Comment: Updated comment
  - error: Authorization, validation, apperr.NotFound, or persistence errors
*/
func (service *Service) UpdateComment(context context.Context, actor *sec.AuthClaims, titleID, reviewID, commentID string, input CommentUpdateInput) (*Comment, error) {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanModifyContent(actor, comment.AuthorID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Text != nil {
		validator.Required(FieldText, *input.Text).MaxLen(FieldText, *input.Text, MaxCommentTextLen)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Text != nil {
		comment.Text = *input.Text
	}

	if err := service.commentRepository.Update(context, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_updated",
		slog.String("comment_id", comment.ID),
		slog.String("actor_id", actor.UserID),
	)

	return comment, nil
}

/*
DeleteComment removes a posted comment. Author, moderator, or administrator.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - titleID: string
  - reviewID: string
  - commentID: string

Returns:
  - error: Authorization, apperr.NotFound, or persistence errors
*/
func (service *Service) DeleteComment(context context.Context, actor *sec.AuthClaims, titleID, reviewID, commentID string) error {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := authz.CanModifyContent(actor, comment.AuthorID); err != nil {
		return err
	}

	if err := service.commentRepository.Delete(context, comment.ID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "comment_deleted",
		slog.String("comment_id", comment.ID),
		slog.String("actor_id", actor.UserID),
	)

	return nil
}
