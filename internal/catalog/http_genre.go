// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/critiqapp/critiq/internal/platform/request"
	"github.com/critiqapp/critiq/internal/platform/respond"
	"github.com/critiqapp/critiq/internal/platform/validate"
	"github.com/critiqapp/critiq/pkg/pagination"
)

// GenreRoutes returns a [chi.Router] with the genre endpoints.
func (handler *Handler) GenreRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listGenres)
	router.Post("/", handler.createGenre)
	router.Get("/{slug}", handler.getGenre)
	router.Delete("/{slug}", handler.deleteGenre)

	return router
}

// # Genre Endpoints

/*
GET /api/v1/genres.

Description: Lists genres with pagination. Open to anyone.

Response:
  - 200: []Genre: Page of genres with pagination metadata
*/
func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	genres, total, err := handler.catalogService.ListGenres(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, genres, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/genres.

Description: Creates a genre. Admin-only. An omitted slug is derived
from the name.

Request:
  - body: GenreInput

Response:
  - 201: Genre: The created genre
  - 400: Validation failure
  - 403: Forbidden: Administrator privileges required
  - 409: Conflict: Slug already exists
*/
func (handler *Handler) createGenre(writer http.ResponseWriter, request *http.Request) {
	var input GenreInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	genre, err := handler.catalogService.CreateGenre(request.Context(), requestutil.Claims(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, genre)
}

/*
GET /api/v1/genres/{slug}.

Description: Retrieves a single genre. Open to anyone.

Response:
  - 200: Genre: Hydrated genre
  - 404: NotFound: Unknown slug
*/
func (handler *Handler) getGenre(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	genre, err := handler.catalogService.GetGenre(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, genre)
}

/*
DELETE /api/v1/genres/{slug}.

Description: Removes a genre. Admin-only. Titles carrying the genre keep
existing without it.

Response:
  - 204: No Content: Genre deleted
  - 403: Forbidden: Administrator privileges required
  - 404: NotFound: Unknown slug
*/
func (handler *Handler) deleteGenre(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	if err := handler.catalogService.DeleteGenre(request.Context(), requestutil.Claims(request), slug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
