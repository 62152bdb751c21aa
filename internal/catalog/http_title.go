// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/critiqapp/critiq/internal/platform/request"
	"github.com/critiqapp/critiq/internal/platform/respond"
	"github.com/critiqapp/critiq/internal/platform/validate"
	"github.com/critiqapp/critiq/pkg/pagination"
)

// TitleRoutes returns a [chi.Router] with the title endpoints.
//
// The review feature owns its own routing; its router is handed in here and
// mounted below /{titleID}/reviews so the whole title subtree lives on one
// chi trie.
func (handler *Handler) TitleRoutes(reviewRoutes chi.Router) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listTitles)
	router.Post("/", handler.createTitle)
	router.Get("/{titleID}", handler.getTitle)
	router.Patch("/{titleID}", handler.updateTitle)
	router.Delete("/{titleID}", handler.deleteTitle)

	router.Mount("/{titleID}/reviews", reviewRoutes)

	return router
}

// # Title Endpoints

/*
GET /api/v1/titles.

Description: Lists titles with pagination. Open to anyone. Supports
filtering by category slug, genre slug, name substring, and exact year
through query parameters; filters compose with AND.

Request:
  - query: category, genre, name, year

Response:
  - 200: []Title: Page of hydrated titles with pagination metadata
*/
func (handler *Handler) listTitles(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := titleFilterFromRequest(request)

	titles, total, err := handler.catalogService.ListTitles(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/titles/{titleID}.

Description: Retrieves a single title with category, genres, and the
derived rating. Open to anyone.

Response:
  - 200: Title: Hydrated title
  - 404: NotFound: Unknown title
*/
func (handler *Handler) getTitle(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")

	title, err := handler.catalogService.GetTitle(request.Context(), titleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
POST /api/v1/titles.

Description: Creates a title. Admin-only. The category is optional; when
given, it and every listed genre must already exist.

Request:
  - body: TitleInput

Response:
  - 201: Title: The created title
  - 400: Validation failure (e.g. future year)
  - 403: Forbidden: Administrator privileges required
  - 404: NotFound: Unknown category or genre slug
*/
func (handler *Handler) createTitle(writer http.ResponseWriter, request *http.Request) {
	var input TitleInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	title, err := handler.catalogService.CreateTitle(request.Context(), requestutil.Claims(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

/*
PATCH /api/v1/titles/{titleID}.

Description: Applies a partial update to a title. Admin-only. A genres
field, when present, replaces the genre set wholesale.

Request:
  - body: TitleUpdateInput (Partial JSON)

Response:
  - 200: Title: The updated title, fully hydrated
  - 400: Validation failure
  - 403: Forbidden: Administrator privileges required
  - 404: NotFound: Unknown title, category, or genre
*/
func (handler *Handler) updateTitle(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")

	var input TitleUpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	title, err := handler.catalogService.UpdateTitle(request.Context(), requestutil.Claims(request), titleID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
DELETE /api/v1/titles/{titleID}.

Description: Removes a title together with its reviews and comments. Admin-only.

Response:
  - 204: No Content: Title deleted
  - 403: Forbidden: Administrator privileges required
  - 404: NotFound: Unknown title
*/
func (handler *Handler) deleteTitle(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")

	if err := handler.catalogService.DeleteTitle(request.Context(), requestutil.Claims(request), titleID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// titleFilterFromRequest extracts the supported listing filters.
// A malformed year filter is ignored rather than rejected.
func titleFilterFromRequest(request *http.Request) TitleFilter {
	filter := TitleFilter{
		CategorySlug: request.URL.Query().Get("category"),
		GenreSlug:    request.URL.Query().Get("genre"),
		Name:         request.URL.Query().Get("name"),
	}

	if raw := request.URL.Query().Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			filter.Year = year
		}
	}

	return filter
}
