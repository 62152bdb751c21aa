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

// Handler implements the HTTP layer for the catalogue.
//
// One handler serves the three sub-resources; each gets its own router so
// the server can mount them at /categories, /genres, and /titles.
type Handler struct {
	catalogService *Service
}

// NewHandler constructs a new catalogue [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{catalogService: service}
}

// CategoryRoutes returns a [chi.Router] with the category endpoints.
//
// Reads are anonymous; writes are rejected inside the service layer for
// anyone below administrator.
func (handler *Handler) CategoryRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCategories)
	router.Post("/", handler.createCategory)
	router.Get("/{slug}", handler.getCategory)
	router.Delete("/{slug}", handler.deleteCategory)

	return router
}

// # Category Endpoints

/*
GET /api/v1/categories.

Description: Lists categories with pagination. Open to anyone.

Response:
  - 200: []Category: Page of categories with pagination metadata
*/
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	categories, total, err := handler.catalogService.ListCategories(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, categories, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/categories.

Description: Creates a category. Admin-only. An omitted slug is derived
from the name.

Request:
  - body: CategoryInput

Response:
  - 201: Category: The created category
  - 400: Validation failure
  - 403: Forbidden: Administrator privileges required
  - 409: Conflict: Slug already exists
*/
func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input CategoryInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	category, err := handler.catalogService.CreateCategory(request.Context(), requestutil.Claims(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, category)
}

/*
GET /api/v1/categories/{slug}.

Description: Retrieves a single category. Open to anyone.

Response:
  - 200: Category: Hydrated category
  - 404: NotFound: Unknown slug
*/
func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	category, err := handler.catalogService.GetCategory(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, category)
}

/*
DELETE /api/v1/categories/{slug}.

Description: Removes a category. Admin-only. A category still referenced
by titles is not removable.

Response:
  - 204: No Content: Category deleted
  - 403: Forbidden: Administrator privileges required
  - 404: NotFound: Unknown slug
  - 409: Conflict: Category still referenced by titles
*/
func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	if err := handler.catalogService.DeleteCategory(request.Context(), requestutil.Claims(request), slug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
