// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package catalog

import "time"

// # Domain Entities

// Category is the single classification a title belongs to (e.g. "Movies").
//
// Categories are addressed by their URL slug, which is unique.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Genre is a thematic label a title can carry any number of (e.g. "Sci-Fi").
//
// Genres are addressed by their URL slug, which is unique.
type Genre struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Title is a reviewable work in the catalogue.
//
// # Rating
//
// Rating is never stored. It is derived on every read as the mean of all
// review scores for the title, rounded to one decimal, and stays nil while
// the title has no reviews.
type Title struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Description string    `json:"description"`
	Category    *Category `json:"category"`
	Genres      []Genre   `json:"genres"`
	Rating      *float64  `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # JSON Field Identifiers

const (
	FieldName        = "name"
	FieldSlug        = "slug"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenres      = "genres"
)

// # Validation Bounds

const (
	// MaxNameLen bounds category, genre, and title names.
	MaxNameLen = 256
	// MaxSlugLen bounds category and genre slugs.
	MaxSlugLen = 50
	// MaxDescriptionLen bounds the free-text title description.
	MaxDescriptionLen = 4000
)
