// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package catalog

import "context"

// # Category Data Access

// CategoryRepository defines the data access contract for categories.
type CategoryRepository interface {

	/*
		Create persists a new category.

		Parameters:
		  - context: context.Context
		  - category: *Category

		Returns:
		  - error: apperr.Conflict on slug collisions, or persistence failures
	*/
	Create(context context.Context, category *Category) error

	/*
		FindBySlug returns the category with the given slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Category: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindBySlug(context context.Context, slug string) (*Category, error)

	/*
		List returns a page of categories ordered by name, plus the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []Category: Page of categories
		  - int: Total count
		  - error: Retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]Category, int, error)

	/*
		DeleteBySlug removes the category with the given slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - error: apperr.NotFound, apperr.Conflict (still referenced by titles),
		    or persistence failures
	*/
	DeleteBySlug(context context.Context, slug string) error

	/*
		CountTitles returns how many titles reference the category.

		Parameters:
		  - context: context.Context
		  - categoryID: string

		Returns:
		  - int: Referencing title count
		  - error: Retrieval failures
	*/
	CountTitles(context context.Context, categoryID string) (int, error)
}

// # Genre Data Access

// GenreRepository defines the data access contract for genres.
type GenreRepository interface {

	/*
		Create persists a new genre.

		Parameters:
		  - context: context.Context
		  - genre: *Genre

		Returns:
		  - error: apperr.Conflict on slug collisions, or persistence failures
	*/
	Create(context context.Context, genre *Genre) error

	/*
		FindBySlug returns the genre with the given slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Genre: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindBySlug(context context.Context, slug string) (*Genre, error)

	/*
		FindBySlugs resolves a set of slugs into genres.

		Parameters:
		  - context: context.Context
		  - slugs: []string

		Returns:
		  - []Genre: Resolved genres, in no particular order
		  - error: apperr.NotFound if any slug is unknown, or retrieval failures
	*/
	FindBySlugs(context context.Context, slugs []string) ([]Genre, error)

	/*
		List returns a page of genres ordered by name, plus the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []Genre: Page of genres
		  - int: Total count
		  - error: Retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]Genre, int, error)

	/*
		DeleteBySlug removes the genre with the given slug. Title associations
		are removed alongside it.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	DeleteBySlug(context context.Context, slug string) error
}

// # Title Data Access

// TitleFilter narrows a title listing. Zero-valued fields are ignored.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

// TitleRepository defines the data access contract for titles.
//
// Every read hydrates the category, the genre set, and the derived rating.
type TitleRepository interface {

	/*
		Create persists a new title and its genre associations.

		Parameters:
		  - context: context.Context
		  - title: *Title

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, title *Title) error

	/*
		FindByID returns the title with the given ID, fully hydrated.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Title: Hydrated entity with rating
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Title, error)

	/*
		List returns a page of titles matching the filter, plus the total count.

		Parameters:
		  - context: context.Context
		  - filter: TitleFilter
		  - limit: int
		  - offset: int

		Returns:
		  - []Title: Page of hydrated titles
		  - int: Total matching count
		  - error: Retrieval failures
	*/
	List(context context.Context, filter TitleFilter, limit, offset int) ([]Title, int, error)

	/*
		Update persists changes to a title and replaces its genre associations.

		Parameters:
		  - context: context.Context
		  - title: *Title

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, title *Title) error

	/*
		Delete removes the title. Reviews and comments below it are removed
		by the storage cascade.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Delete(context context.Context, id string) error
}
