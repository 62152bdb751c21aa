// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package catalog_test

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiqapp/critiq/internal/catalog"
	"github.com/critiqapp/critiq/internal/platform/apperr"
	"github.com/critiqapp/critiq/internal/platform/sec"
	"github.com/critiqapp/critiq/pkg/pagination"
	"github.com/critiqapp/critiq/pkg/pointer"
)

// # Test Doubles

// memoryCatalog implements all three catalogue repositories over maps, so a
// single fixture keeps categories, genres, and titles consistent.
type memoryCatalog struct {
	categories map[string]*catalog.Category // keyed by slug
	genres     map[string]*catalog.Genre    // keyed by slug
	titles     map[string]*catalog.Title    // keyed by ID
	scores     map[string][]int             // review scores per title ID
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{
		categories: make(map[string]*catalog.Category),
		genres:     make(map[string]*catalog.Genre),
		titles:     make(map[string]*catalog.Title),
		scores:     make(map[string][]int),
	}
}

// rating derives the mean of the stored review scores, rounded to one
// decimal, mirroring what the SQL aggregate produces. Nil with no scores.
func (store *memoryCatalog) rating(titleID string) *float64 {
	scores := store.scores[titleID]
	if len(scores) == 0 {
		return nil
	}
	sum := 0
	for _, score := range scores {
		sum += score
	}
	mean := math.Round(float64(sum)/float64(len(scores))*10) / 10
	return &mean
}

func (store *memoryCatalog) Create(_ context.Context, category *catalog.Category) error {
	if _, ok := store.categories[category.Slug]; ok {
		return apperr.Conflict("Category slug already exists")
	}
	copied := *category
	store.categories[category.Slug] = &copied
	return nil
}

func (store *memoryCatalog) FindBySlug(_ context.Context, slug string) (*catalog.Category, error) {
	if category, ok := store.categories[slug]; ok {
		copied := *category
		return &copied, nil
	}
	return nil, apperr.NotFound("Category")
}

func (store *memoryCatalog) List(_ context.Context, limit, offset int) ([]catalog.Category, int, error) {
	all := make([]catalog.Category, 0, len(store.categories))
	for _, category := range store.categories {
		all = append(all, *category)
	}
	return all, len(all), nil
}

func (store *memoryCatalog) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := store.categories[slug]; !ok {
		return apperr.NotFound("Category")
	}
	delete(store.categories, slug)
	return nil
}

func (store *memoryCatalog) CountTitles(_ context.Context, categoryID string) (int, error) {
	count := 0
	for _, title := range store.titles {
		if title.Category != nil && title.Category.ID == categoryID {
			count++
		}
	}
	return count, nil
}

// genreStore adapts the shared fixture to the GenreRepository interface.
// A separate type keeps the identically-named Create and List methods apart.
type genreStore struct{ *memoryCatalog }

func (store genreStore) Create(_ context.Context, genre *catalog.Genre) error {
	if _, ok := store.genres[genre.Slug]; ok {
		return apperr.Conflict("Genre slug already exists")
	}
	copied := *genre
	store.genres[genre.Slug] = &copied
	return nil
}

func (store genreStore) FindBySlug(_ context.Context, slug string) (*catalog.Genre, error) {
	if genre, ok := store.genres[slug]; ok {
		copied := *genre
		return &copied, nil
	}
	return nil, apperr.NotFound("Genre")
}

func (store genreStore) FindBySlugs(_ context.Context, slugs []string) ([]catalog.Genre, error) {
	resolved := make([]catalog.Genre, 0, len(slugs))
	for _, slug := range slugs {
		genre, ok := store.genres[slug]
		if !ok {
			return nil, apperr.NotFound("Genre")
		}
		resolved = append(resolved, *genre)
	}
	return resolved, nil
}

func (store genreStore) List(_ context.Context, limit, offset int) ([]catalog.Genre, int, error) {
	all := make([]catalog.Genre, 0, len(store.genres))
	for _, genre := range store.genres {
		all = append(all, *genre)
	}
	return all, len(all), nil
}

func (store genreStore) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := store.genres[slug]; !ok {
		return apperr.NotFound("Genre")
	}
	delete(store.genres, slug)
	return nil
}

// titleStore adapts the shared fixture to the TitleRepository interface.
type titleStore struct{ *memoryCatalog }

func (store titleStore) Create(_ context.Context, title *catalog.Title) error {
	copied := *title
	store.titles[title.ID] = &copied
	return nil
}

func (store titleStore) FindByID(_ context.Context, id string) (*catalog.Title, error) {
	title, ok := store.titles[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	copied := *title
	copied.Rating = store.rating(id)
	return &copied, nil
}

func (store titleStore) List(_ context.Context, filter catalog.TitleFilter, limit, offset int) ([]catalog.Title, int, error) {
	all := make([]catalog.Title, 0, len(store.titles))
	for id, title := range store.titles {
		if filter.CategorySlug != "" && (title.Category == nil || title.Category.Slug != filter.CategorySlug) {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(title.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Year != 0 && title.Year != filter.Year {
			continue
		}
		copied := *title
		copied.Rating = store.rating(id)
		all = append(all, copied)
	}
	return all, len(all), nil
}

func (store titleStore) Update(_ context.Context, title *catalog.Title) error {
	if _, ok := store.titles[title.ID]; !ok {
		return apperr.NotFound("Title")
	}
	copied := *title
	store.titles[title.ID] = &copied
	return nil
}

func (store titleStore) Delete(_ context.Context, id string) error {
	if _, ok := store.titles[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(store.titles, id)
	return nil
}

// # Fixtures

func actor(userID string, role sec.Role) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, Username: "user-" + userID, Role: string(role)}
}

func newTestService() (*catalog.Service, *memoryCatalog) {
	store := newMemoryCatalog()
	service := catalog.NewService(store, genreStore{store}, titleStore{store}, slog.Default())
	return service, store
}

// seedCatalog inserts a category and two genres directly into the fixture.
func seedCatalog(store *memoryCatalog) {
	store.categories["movies"] = &catalog.Category{ID: "c1", Name: "Movies", Slug: "movies", CreatedAt: time.Now()}
	store.genres["sci-fi"] = &catalog.Genre{ID: "g1", Name: "Sci-Fi", Slug: "sci-fi", CreatedAt: time.Now()}
	store.genres["drama"] = &catalog.Genre{ID: "g2", Name: "Drama", Slug: "drama", CreatedAt: time.Now()}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, code, ae.Code)
}

// # Tests

/*
TestCreateCategory_GeneratesSlug verifies that an omitted slug is derived
from the name and that explicit slugs are validated.
*/
func TestCreateCategory_GeneratesSlug(t *testing.T) {
	service, store := newTestService()
	admin := actor("a1", sec.RoleAdmin)

	category, err := service.CreateCategory(context.Background(), admin, catalog.CategoryInput{Name: "Feature Films"})
	require.NoError(t, err)
	assert.Equal(t, "feature-films", category.Slug)
	assert.NotEmpty(t, category.ID)
	assert.Contains(t, store.categories, "feature-films")

	t.Run("explicit_slug_kept", func(t *testing.T) {
		category, err := service.CreateCategory(context.Background(), admin, catalog.CategoryInput{Name: "Books", Slug: "paper"})
		require.NoError(t, err)
		assert.Equal(t, "paper", category.Slug)
	})

	t.Run("bad_slug_rejected", func(t *testing.T) {
		_, err := service.CreateCategory(context.Background(), admin, catalog.CategoryInput{Name: "Music", Slug: "no spaces!"})
		assertCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("duplicate_slug_conflicts", func(t *testing.T) {
		_, err := service.CreateCategory(context.Background(), admin, catalog.CategoryInput{Name: "Feature Films"})
		assertCode(t, err, "CONFLICT")
	})
}

/*
TestCatalogWrites_RequireAdministrator verifies that every catalogue write
is rejected for anonymous callers, members, and moderators alike.
*/
func TestCatalogWrites_RequireAdministrator(t *testing.T) {
	service, store := newTestService()
	seedCatalog(store)

	actors := []struct {
		name     string
		claims   *sec.AuthClaims
		wantCode string
	}{
		{"anonymous", nil, "UNAUTHENTICATED"},
		{"member", actor("u1", sec.RoleUser), "FORBIDDEN"},
		{"moderator", actor("m1", sec.RoleModerator), "FORBIDDEN"},
	}

	for _, tt := range actors {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateCategory(context.Background(), tt.claims, catalog.CategoryInput{Name: "X"})
			assertCode(t, err, tt.wantCode)

			_, err = service.CreateGenre(context.Background(), tt.claims, catalog.GenreInput{Name: "X"})
			assertCode(t, err, tt.wantCode)

			_, err = service.CreateTitle(context.Background(), tt.claims, catalog.TitleInput{Name: "X", Year: 2000, CategorySlug: "movies"})
			assertCode(t, err, tt.wantCode)

			err = service.DeleteCategory(context.Background(), tt.claims, "movies")
			assertCode(t, err, tt.wantCode)

			err = service.DeleteGenre(context.Background(), tt.claims, "sci-fi")
			assertCode(t, err, tt.wantCode)
		})
	}
}

/*
TestCreateTitle_YearRules verifies that the release year may be current or
past but never in the future.
*/
func TestCreateTitle_YearRules(t *testing.T) {
	service, store := newTestService()
	seedCatalog(store)
	admin := actor("a1", sec.RoleAdmin)

	currentYear := time.Now().Year()

	title, err := service.CreateTitle(context.Background(), admin, catalog.TitleInput{
		Name:         "Fresh Release",
		Year:         currentYear,
		CategorySlug: "movies",
	})
	require.NoError(t, err)
	assert.Equal(t, currentYear, title.Year)

	_, err = service.CreateTitle(context.Background(), admin, catalog.TitleInput{
		Name:         "Announced Sequel",
		Year:         currentYear + 1,
		CategorySlug: "movies",
	})
	assertCode(t, err, "VALIDATION_ERROR")
}

/*
TestCreateTitle_ResolvesCategoryAndGenres verifies slug resolution: unknown
slugs reject the request, known ones hydrate the created title.
*/
func TestCreateTitle_ResolvesCategoryAndGenres(t *testing.T) {
	service, store := newTestService()
	seedCatalog(store)
	admin := actor("a1", sec.RoleAdmin)

	t.Run("unknown_category", func(t *testing.T) {
		_, err := service.CreateTitle(context.Background(), admin, catalog.TitleInput{
			Name: "Dune", Year: 2021, CategorySlug: "podcasts",
		})
		assertCode(t, err, "NOT_FOUND")
	})

	t.Run("unknown_genre", func(t *testing.T) {
		_, err := service.CreateTitle(context.Background(), admin, catalog.TitleInput{
			Name: "Dune", Year: 2021, CategorySlug: "movies", GenreSlugs: []string{"sci-fi", "western"},
		})
		assertCode(t, err, "NOT_FOUND")
	})

	t.Run("hydrated", func(t *testing.T) {
		title, err := service.CreateTitle(context.Background(), admin, catalog.TitleInput{
			Name: "Dune", Year: 2021, CategorySlug: "movies", GenreSlugs: []string{"sci-fi", "drama"},
		})
		require.NoError(t, err)
		require.NotNil(t, title.Category)
		assert.Equal(t, "movies", title.Category.Slug)
		assert.Len(t, title.Genres, 2)
		assert.Nil(t, title.Rating)
	})
}

/*
TestDeleteCategory_InUse verifies that a category referenced by a title
cannot be removed until the titles are gone.
*/
func TestDeleteCategory_InUse(t *testing.T) {
	service, store := newTestService()
	seedCatalog(store)
	admin := actor("a1", sec.RoleAdmin)

	_, err := service.CreateTitle(context.Background(), admin, catalog.TitleInput{
		Name: "Blade Runner", Year: 1982, CategorySlug: "movies",
	})
	require.NoError(t, err)

	err = service.DeleteCategory(context.Background(), admin, "movies")
	assertCode(t, err, "CONFLICT")

	t.Run("empty_category_deletes", func(t *testing.T) {
		_, err := service.CreateCategory(context.Background(), admin, catalog.CategoryInput{Name: "Podcasts"})
		require.NoError(t, err)
		require.NoError(t, service.DeleteCategory(context.Background(), admin, "podcasts"))
	})
}

/*
TestUpdateTitle_PartialAndGenreReplacement verifies nil-field semantics and
wholesale genre-set replacement.
*/
func TestUpdateTitle_PartialAndGenreReplacement(t *testing.T) {
	service, store := newTestService()
	seedCatalog(store)
	admin := actor("a1", sec.RoleAdmin)

	created, err := service.CreateTitle(context.Background(), admin, catalog.TitleInput{
		Name: "Dune", Year: 2021, CategorySlug: "movies", GenreSlugs: []string{"sci-fi"},
	})
	require.NoError(t, err)

	updated, err := service.UpdateTitle(context.Background(), admin, created.ID, catalog.TitleUpdateInput{
		Description: pointer.To("Spice and sandworms."),
		GenreSlugs:  &[]string{"drama"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Dune", updated.Name)
	assert.Equal(t, 2021, updated.Year)
	assert.Equal(t, "Spice and sandworms.", updated.Description)
	require.Len(t, updated.Genres, 1)
	assert.Equal(t, "drama", updated.Genres[0].Slug)

	t.Run("future_year_rejected", func(t *testing.T) {
		_, err := service.UpdateTitle(context.Background(), admin, created.ID, catalog.TitleUpdateInput{
			Year: pointer.To(time.Now().Year() + 5),
		})
		assertCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("unknown_title", func(t *testing.T) {
		_, err := service.UpdateTitle(context.Background(), admin, "missing", catalog.TitleUpdateInput{})
		assertCode(t, err, "NOT_FOUND")
	})
}

/*
TestGetTitle_DerivesRatingFromScores verifies the rating arithmetic: nil
without reviews, the rounded mean of the live scores otherwise, and a
recomputed mean after a review disappears.
*/
func TestGetTitle_DerivesRatingFromScores(t *testing.T) {
	service, store := newTestService()
	seedCatalog(store)
	admin := actor("a1", sec.RoleAdmin)

	created, err := service.CreateTitle(context.Background(), admin, catalog.TitleInput{
		Name: "Dune", Year: 2021, CategorySlug: "movies",
	})
	require.NoError(t, err)

	fetched, err := service.GetTitle(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.Rating)

	// Two reviews: 8 and 6 average to exactly 7.0.
	store.scores[created.ID] = []int{8, 6}

	fetched, err = service.GetTitle(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Rating)
	assert.InDelta(t, 7.0, *fetched.Rating, 0.001)

	t.Run("rounds_to_one_decimal", func(t *testing.T) {
		store.scores[created.ID] = []int{8, 6, 6}

		fetched, err := service.GetTitle(context.Background(), created.ID)
		require.NoError(t, err)
		require.NotNil(t, fetched.Rating)
		assert.InDelta(t, 6.7, *fetched.Rating, 0.001)
	})

	t.Run("recomputes_after_review_removal", func(t *testing.T) {
		store.scores[created.ID] = []int{8}

		fetched, err := service.GetTitle(context.Background(), created.ID)
		require.NoError(t, err)
		require.NotNil(t, fetched.Rating)
		assert.InDelta(t, 8.0, *fetched.Rating, 0.001)
	})

	t.Run("nil_when_last_review_removed", func(t *testing.T) {
		delete(store.scores, created.ID)

		fetched, err := service.GetTitle(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Nil(t, fetched.Rating)
	})
}

/*
TestTitle_CategoryOptional verifies that a title can live without a
category: creation with no category succeeds, an update can attach one,
and an explicit empty category detaches it again.
*/
func TestTitle_CategoryOptional(t *testing.T) {
	service, store := newTestService()
	seedCatalog(store)
	admin := actor("a1", sec.RoleAdmin)

	created, err := service.CreateTitle(context.Background(), admin, catalog.TitleInput{
		Name: "Uncategorized Work", Year: 2000,
	})
	require.NoError(t, err)
	assert.Nil(t, created.Category)

	fetched, err := service.GetTitle(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.Category)

	t.Run("attach_category", func(t *testing.T) {
		updated, err := service.UpdateTitle(context.Background(), admin, created.ID, catalog.TitleUpdateInput{
			CategorySlug: pointer.To("movies"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Category)
		assert.Equal(t, "movies", updated.Category.Slug)
	})

	t.Run("detach_category", func(t *testing.T) {
		updated, err := service.UpdateTitle(context.Background(), admin, created.ID, catalog.TitleUpdateInput{
			CategorySlug: pointer.To(""),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.Category)
	})

	t.Run("category_filter_skips_uncategorised", func(t *testing.T) {
		titles, total, err := service.ListTitles(context.Background(), catalog.TitleFilter{CategorySlug: "movies"}, pagination.Params{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, titles)
	})
}

/*
TestListCatalog verifies plain listing through the service.
*/
func TestListCatalog(t *testing.T) {
	service, store := newTestService()
	seedCatalog(store)

	categories, total, err := service.ListCategories(context.Background(), pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, categories, 1)

	genres, total, err := service.ListGenres(context.Background(), pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, genres, 2)
}
