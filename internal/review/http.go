// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/critiqapp/critiq/internal/platform/request"
	"github.com/critiqapp/critiq/internal/platform/respond"
	"github.com/critiqapp/critiq/internal/platform/validate"
	"github.com/critiqapp/critiq/pkg/pagination"
)

// Handler implements the HTTP layer for reviews and comments.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

// Routes returns a [chi.Router] with the review and comment endpoints.
//
// The router is mounted below /titles/{titleID}, so the title identifier
// arrives through the parent route context. Write authorization lives in
// the service layer so violations return the precise taxonomy.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listReviews)
	router.Post("/", handler.createReview)
	router.Get("/{reviewID}", handler.getReview)
	router.Patch("/{reviewID}", handler.updateReview)
	router.Delete("/{reviewID}", handler.deleteReview)

	router.Route("/{reviewID}/comments", func(r chi.Router) {
		r.Get("/", handler.listComments)
		r.Post("/", handler.createComment)
		r.Get("/{commentID}", handler.getComment)
		r.Patch("/{commentID}", handler.updateComment)
		r.Delete("/{commentID}", handler.deleteComment)
	})

	return router
}

// # Review Endpoints

/*
GET /api/v1/titles/{titleID}/reviews.

Description: Lists a title's reviews in publication order, oldest first.
Open to anyone.

Response:
  - 200: []Review: Page of reviews with pagination metadata
  - 404: NotFound: Unknown title
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	params := pagination.FromRequest(request)

	reviews, total, err := handler.reviewService.ListReviews(request.Context(), titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/titles/{titleID}/reviews.

Description: Publishes a review. Any authenticated member, once per title.

Request:
  - body: ReviewInput (Text, Score)

Response:
  - 201: Review: The published review
  - 400: Validation failure (e.g. score out of range)
  - 401: Unauthenticated: Authentication required
  - 404: NotFound: Unknown title
  - 409: DuplicateReview: Member already reviewed the title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")

	var input ReviewInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	review, err := handler.reviewService.CreateReview(request.Context(), requestutil.Claims(request), titleID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

/*
GET /api/v1/titles/{titleID}/reviews/{reviewID}.

Description: Retrieves a single review. Open to anyone.

Response:
  - 200: Review: Hydrated review
  - 404: NotFound: Unknown title or review
*/
func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	review, err := handler.reviewService.GetReview(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
PATCH /api/v1/titles/{titleID}/reviews/{reviewID}.

Description: Edits a review. Author, moderator, or administrator.

Request:
  - body: ReviewUpdateInput (Partial JSON)

Response:
  - 200: Review: The updated review
  - 400: Validation failure
  - 401: Unauthenticated: Authentication required
  - 403: Forbidden: Not the author and below moderator
  - 404: NotFound: Unknown title or review
*/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	var input ReviewUpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	review, err := handler.reviewService.UpdateReview(request.Context(), requestutil.Claims(request), titleID, reviewID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
DELETE /api/v1/titles/{titleID}/reviews/{reviewID}.

Description: Removes a review and its comment thread. Author, moderator,
or administrator.

Response:
  - 204: No Content: Review deleted
  - 401: Unauthenticated: Authentication required
  - 403: Forbidden: Not the author and below moderator
  - 404: NotFound: Unknown title or review
*/
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	if err := handler.reviewService.DeleteReview(request.Context(), requestutil.Claims(request), titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Comment Endpoints

/*
GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments.

Description: Lists a review's comments in publication order, oldest first.
Open to anyone.

Response:
  - 200: []Comment: Page of comments with pagination metadata
  - 404: NotFound: Unknown title or review
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	params := pagination.FromRequest(request)

	comments, total, err := handler.reviewService.ListComments(request.Context(), titleID, reviewID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments.

Description: Posts a comment below a review. Any authenticated member.

Request:
  - body: CommentInput (Text)

Response:
  - 201: Comment: The posted comment
  - 400: Validation failure
  - 401: Unauthenticated: Authentication required
  - 404: NotFound: Unknown title or review
*/
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	var input CommentInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	comment, err := handler.reviewService.CreateComment(request.Context(), requestutil.Claims(request), titleID, reviewID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}.

Description: Retrieves a single comment. Open to anyone.

Response:
  - 200: Comment: Hydrated comment
  - 404: NotFound: Unknown title, review, or comment
*/
func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	commentID := requestutil.Param(request, "commentID")

	comment, err := handler.reviewService.GetComment(request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
PATCH /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}.

Description: Edits a comment. Author, moderator, or administrator.

Request:
  - body: CommentUpdateInput (Partial JSON)

Response:
  - 200: Comment: The updated comment
  - 400: Validation failure
  - 401: Unauthenticated: Authentication required
  - 403: Forbidden: Not the author and below moderator
  - 404: NotFound: Unknown title, review, or comment
*/
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	commentID := requestutil.Param(request, "commentID")

	var input CommentUpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	comment, err := handler.reviewService.UpdateComment(request.Context(), requestutil.Claims(request), titleID, reviewID, commentID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
DELETE /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}.

Description: Removes a comment. Author, moderator, or administrator.

Response:
  - 204: No Content: Comment deleted
  - 401: Unauthenticated: Authentication required
  - 403: Forbidden: Not the author and below moderator
  - 404: NotFound: Unknown title, review, or comment
*/
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	commentID := requestutil.Param(request, "commentID")

	if err := handler.reviewService.DeleteComment(request.Context(), requestutil.Claims(request), titleID, reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
