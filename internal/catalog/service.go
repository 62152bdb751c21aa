// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
Package catalog implements the reviewable works catalogue: categories,
genres, and titles.

Reads are open to anyone. Every write is gated on the administrator role
through the authz policy layer, so handlers stay thin and the decision
lives in one place.
*/
package catalog

import (
	"context"
	"log/slog"

	"github.com/critiqapp/critiq/internal/platform/apperr"
	"github.com/critiqapp/critiq/internal/platform/authz"
	"github.com/critiqapp/critiq/internal/platform/sec"
	"github.com/critiqapp/critiq/internal/platform/validate"
	"github.com/critiqapp/critiq/pkg/pagination"
	"github.com/critiqapp/critiq/pkg/slug"
	"github.com/critiqapp/critiq/pkg/uuidv7"
)

// # Service

// Service coordinates catalogue business logic across the three repositories.
type Service struct {
	categoryRepository CategoryRepository
	genreRepository    GenreRepository
	titleRepository    TitleRepository
	logger             *slog.Logger
}

/*
NewService creates a new catalogue service.

Parameters:
  - categoryRepository: CategoryRepository
  - genreRepository: GenreRepository
  - titleRepository: TitleRepository
  - logger: *slog.Logger

Returns:
  - *Service: Ready-to-use service instance
*/
func NewService(
	categoryRepository CategoryRepository,
	genreRepository GenreRepository,
	titleRepository TitleRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		categoryRepository: categoryRepository,
		genreRepository:    genreRepository,
		titleRepository:    titleRepository,
		logger:             logger,
	}
}

// # Category Operations

// CategoryInput carries the fields accepted when creating a category.
// An empty slug is generated from the name.
type CategoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

/*
CreateCategory provisions a new category. Administrators only.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - input: CategoryInput

Returns:
  - *Category: Created entity
  - error: Authorization, validation, or conflict errors
*/
func (service *Service) CreateCategory(context context.Context, actor *sec.AuthClaims, input CategoryInput) (*Category, error) {
	if err := authz.CanManageCatalog(actor); err != nil {
		return nil, err
	}

	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLen).
		Slug(FieldSlug, input.Slug).
		MaxLen(FieldSlug, input.Slug, MaxSlugLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	category := &Category{
		ID:   uuidv7.New(),
		Name: input.Name,
		Slug: input.Slug,
	}

	if err := service.categoryRepository.Create(context, category); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "category_created",
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
	)

	return category, nil
}

/*
GetCategory returns a single category by slug. Open to anyone.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Category: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetCategory(context context.Context, slug string) (*Category, error) {
	return service.categoryRepository.FindBySlug(context, slug)
}

/*
ListCategories returns a page of categories. Open to anyone.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []Category: Page of categories
  - int: Total count
  - error: Retrieval failures
*/
func (service *Service) ListCategories(context context.Context, params pagination.Params) ([]Category, int, error) {
	return service.categoryRepository.List(context, params.Limit, params.Offset())
}

/*
DeleteCategory removes a category by slug. Administrators only.

Description: A category still referenced by titles is not removable. The
check runs before the delete so the common case reads cleanly, and the
RESTRICT foreign key backs it against concurrent title creation.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - slug: string

Returns:
  - error: Authorization, apperr.NotFound, apperr.Conflict, or persistence errors
*/
func (service *Service) DeleteCategory(context context.Context, actor *sec.AuthClaims, slug string) error {
	if err := authz.CanManageCatalog(actor); err != nil {
		return err
	}

	category, err := service.categoryRepository.FindBySlug(context, slug)
	if err != nil {
		return err
	}

	titleCount, err := service.categoryRepository.CountTitles(context, category.ID)
	if err != nil {
		return err
	}
	if titleCount > 0 {
		return apperr.Conflict("Category is still referenced by titles")
	}

	if err := service.categoryRepository.DeleteBySlug(context, slug); err != nil {
		return err
	}

	service.logger.InfoContext(context, "category_deleted", slog.String("slug", slug))

	return nil
}

// # Genre Operations

// GenreInput carries the fields accepted when creating a genre.
// An empty slug is generated from the name.
type GenreInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

/*
CreateGenre provisions a new genre. Administrators only.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - input: GenreInput

Returns:
  - *Genre: Created entity
  - error: Authorization, validation, or conflict errors
*/
func (service *Service) CreateGenre(context context.Context, actor *sec.AuthClaims, input GenreInput) (*Genre, error) {
	if err := authz.CanManageCatalog(actor); err != nil {
		return nil, err
	}

	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLen).
		Slug(FieldSlug, input.Slug).
		MaxLen(FieldSlug, input.Slug, MaxSlugLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	genre := &Genre{
		ID:   uuidv7.New(),
		Name: input.Name,
		Slug: input.Slug,
	}

	if err := service.genreRepository.Create(context, genre); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "genre_created",
		slog.String("genre_id", genre.ID),
		slog.String("slug", genre.Slug),
	)

	return genre, nil
}

/*
GetGenre returns a single genre by slug. Open to anyone.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Genre: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetGenre(context context.Context, slug string) (*Genre, error) {
	return service.genreRepository.FindBySlug(context, slug)
}

/*
ListGenres returns a page of genres. Open to anyone.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []Genre: Page of genres
  - int: Total count
  - error: Retrieval failures
*/
func (service *Service) ListGenres(context context.Context, params pagination.Params) ([]Genre, int, error) {
	return service.genreRepository.List(context, params.Limit, params.Offset())
}

/*
DeleteGenre removes a genre by slug. Administrators only.

Description: Titles carrying the genre keep existing; only the association
rows go with it.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - slug: string

Returns:
  - error: Authorization, apperr.NotFound, or persistence errors
*/
func (service *Service) DeleteGenre(context context.Context, actor *sec.AuthClaims, slug string) error {
	if err := authz.CanManageCatalog(actor); err != nil {
		return err
	}

	if err := service.genreRepository.DeleteBySlug(context, slug); err != nil {
		return err
	}

	service.logger.InfoContext(context, "genre_deleted", slog.String("slug", slug))

	return nil
}

// # Title Operations

// TitleInput carries the fields accepted when creating a title.
type TitleInput struct {
	Name         string   `json:"name"`
	Year         int      `json:"year"`
	Description  string   `json:"description"`
	CategorySlug string   `json:"category"`
	GenreSlugs   []string `json:"genres"`
}

/*
CreateTitle provisions a new title. Administrators only.

Description: The category is optional; when given, it and every genre must
already exist, and unknown slugs reject the whole request. The release year
may not lie in the future.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - input: TitleInput

Returns:
  - *Title: Created entity with hydrated category and genres
  - error: Authorization, validation, apperr.NotFound, or persistence errors
*/
func (service *Service) CreateTitle(context context.Context, actor *sec.AuthClaims, input TitleInput) (*Title, error) {
	if err := authz.CanManageCatalog(actor); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLen).
		YearNotFuture(FieldYear, input.Year).
		MaxLen(FieldDescription, input.Description, MaxDescriptionLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	var category *Category
	if input.CategorySlug != "" {
		resolved, err := service.categoryRepository.FindBySlug(context, input.CategorySlug)
		if err != nil {
			return nil, err
		}
		category = resolved
	}

	genres, err := service.genreRepository.FindBySlugs(context, input.GenreSlugs)
	if err != nil {
		return nil, err
	}

	title := &Title{
		ID:          uuidv7.New(),
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    category,
		Genres:      genres,
	}

	if err := service.titleRepository.Create(context, title); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "title_created",
		slog.String("title_id", title.ID),
		slog.String("name", title.Name),
	)

	return title, nil
}

/*
GetTitle returns a single title with category, genres, and rating. Open to anyone.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Title: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetTitle(context context.Context, id string) (*Title, error) {
	return service.titleRepository.FindByID(context, id)
}

/*
ListTitles returns a filtered page of titles. Open to anyone.

Parameters:
  - context: context.Context
  - filter: TitleFilter
  - params: pagination.Params

Returns:
  - []Title: Page of hydrated titles
  - int: Total matching count
  - error: Retrieval failures
*/
func (service *Service) ListTitles(context context.Context, filter TitleFilter, params pagination.Params) ([]Title, int, error) {
	return service.titleRepository.List(context, filter, params.Limit, params.Offset())
}

// TitleUpdateInput carries the optional fields of a partial title update.
// Nil fields are left untouched; an explicit empty category detaches the
// title from its category.
type TitleUpdateInput struct {
	Name         *string   `json:"name"`
	Year         *int      `json:"year"`
	Description  *string   `json:"description"`
	CategorySlug *string   `json:"category"`
	GenreSlugs   *[]string `json:"genres"`
}

/*
UpdateTitle applies a partial update to a title. Administrators only.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - id: string
  - input: TitleUpdateInput

Returns:
  - *Title: Updated entity, fully hydrated
  - error: Authorization, validation, apperr.NotFound, or persistence errors
*/
func (service *Service) UpdateTitle(context context.Context, actor *sec.AuthClaims, id string, input TitleUpdateInput) (*Title, error) {
	if err := authz.CanManageCatalog(actor); err != nil {
		return nil, err
	}

	title, err := service.titleRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, MaxNameLen)
	}
	if input.Year != nil {
		validator.YearNotFuture(FieldYear, *input.Year)
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, MaxDescriptionLen)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = *input.Description
	}
	if input.CategorySlug != nil {
		if *input.CategorySlug == "" {
			title.Category = nil
		} else {
			category, err := service.categoryRepository.FindBySlug(context, *input.CategorySlug)
			if err != nil {
				return nil, err
			}
			title.Category = category
		}
	}
	if input.GenreSlugs != nil {
		genres, err := service.genreRepository.FindBySlugs(context, *input.GenreSlugs)
		if err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	if err := service.titleRepository.Update(context, title); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "title_updated", slog.String("title_id", title.ID))

	// Re-read so the response carries the current derived rating.
	return service.titleRepository.FindByID(context, title.ID)
}

/*
DeleteTitle removes a title and, through the storage cascade, its reviews
and comments. Administrators only.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - id: string

Returns:
  - error: Authorization, apperr.NotFound, or persistence errors
*/
func (service *Service) DeleteTitle(context context.Context, actor *sec.AuthClaims, id string) error {
	if err := authz.CanManageCatalog(actor); err != nil {
		return err
	}

	if err := service.titleRepository.Delete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "title_deleted", slog.String("title_id", id))

	return nil
}
