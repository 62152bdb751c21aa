// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package review_test

import (
	"context"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiqapp/critiq/internal/catalog"
	"github.com/critiqapp/critiq/internal/platform/apperr"
	"github.com/critiqapp/critiq/internal/platform/sec"
	"github.com/critiqapp/critiq/internal/review"
	"github.com/critiqapp/critiq/pkg/pagination"
	"github.com/critiqapp/critiq/pkg/pointer"
)

// # Test Doubles

// memoryReviewRepository is an in-memory review.ReviewRepository.
type memoryReviewRepository struct {
	reviews map[string]*review.Review // keyed by ID
	clock   time.Time                 // advances per insert so ordering is deterministic
}

func newMemoryReviewRepository() *memoryReviewRepository {
	return &memoryReviewRepository{
		reviews: make(map[string]*review.Review),
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (repo *memoryReviewRepository) Create(_ context.Context, entry *review.Review) error {
	for _, existing := range repo.reviews {
		if existing.TitleID == entry.TitleID && existing.AuthorID == entry.AuthorID {
			return apperr.DuplicateReview()
		}
	}
	repo.clock = repo.clock.Add(time.Minute)
	entry.PubDate = repo.clock
	copied := *entry
	repo.reviews[entry.ID] = &copied
	return nil
}

func (repo *memoryReviewRepository) FindByID(_ context.Context, titleID, reviewID string) (*review.Review, error) {
	if entry, ok := repo.reviews[reviewID]; ok && entry.TitleID == titleID {
		copied := *entry
		return &copied, nil
	}
	return nil, apperr.NotFound("Review")
}

func (repo *memoryReviewRepository) ExistsByAuthor(_ context.Context, titleID, authorID string) (bool, error) {
	for _, entry := range repo.reviews {
		if entry.TitleID == titleID && entry.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *memoryReviewRepository) List(_ context.Context, titleID string, limit, offset int) ([]review.Review, int, error) {
	matched := make([]review.Review, 0, len(repo.reviews))
	for _, entry := range repo.reviews {
		if entry.TitleID == titleID {
			matched = append(matched, *entry)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.Before(matched[j].PubDate) })
	return matched, len(matched), nil
}

func (repo *memoryReviewRepository) Update(_ context.Context, entry *review.Review) error {
	if _, ok := repo.reviews[entry.ID]; !ok {
		return apperr.NotFound("Review")
	}
	copied := *entry
	repo.reviews[entry.ID] = &copied
	return nil
}

func (repo *memoryReviewRepository) Delete(_ context.Context, reviewID string) error {
	if _, ok := repo.reviews[reviewID]; !ok {
		return apperr.NotFound("Review")
	}
	delete(repo.reviews, reviewID)
	return nil
}

// memoryCommentRepository is an in-memory review.CommentRepository.
type memoryCommentRepository struct {
	comments map[string]*review.Comment // keyed by ID
	clock    time.Time
}

func newMemoryCommentRepository() *memoryCommentRepository {
	return &memoryCommentRepository{
		comments: make(map[string]*review.Comment),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (repo *memoryCommentRepository) Create(_ context.Context, entry *review.Comment) error {
	repo.clock = repo.clock.Add(time.Minute)
	entry.PubDate = repo.clock
	copied := *entry
	repo.comments[entry.ID] = &copied
	return nil
}

func (repo *memoryCommentRepository) FindByID(_ context.Context, reviewID, commentID string) (*review.Comment, error) {
	if entry, ok := repo.comments[commentID]; ok && entry.ReviewID == reviewID {
		copied := *entry
		return &copied, nil
	}
	return nil, apperr.NotFound("Comment")
}

func (repo *memoryCommentRepository) List(_ context.Context, reviewID string, limit, offset int) ([]review.Comment, int, error) {
	matched := make([]review.Comment, 0, len(repo.comments))
	for _, entry := range repo.comments {
		if entry.ReviewID == reviewID {
			matched = append(matched, *entry)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.Before(matched[j].PubDate) })
	return matched, len(matched), nil
}

func (repo *memoryCommentRepository) Update(_ context.Context, entry *review.Comment) error {
	if _, ok := repo.comments[entry.ID]; !ok {
		return apperr.NotFound("Comment")
	}
	copied := *entry
	repo.comments[entry.ID] = &copied
	return nil
}

func (repo *memoryCommentRepository) Delete(_ context.Context, commentID string) error {
	if _, ok := repo.comments[commentID]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(repo.comments, commentID)
	return nil
}

// stubTitleResolver resolves a fixed set of title IDs.
type stubTitleResolver struct {
	titles map[string]*catalog.Title
}

func (resolver *stubTitleResolver) FindByID(_ context.Context, id string) (*catalog.Title, error) {
	if title, ok := resolver.titles[id]; ok {
		return title, nil
	}
	return nil, apperr.NotFound("Title")
}

// # Fixtures

func actor(userID, username string, role sec.Role) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, Username: username, Role: string(role)}
}

func newTestService() (*review.Service, *memoryReviewRepository, *memoryCommentRepository) {
	reviews := newMemoryReviewRepository()
	comments := newMemoryCommentRepository()
	resolver := &stubTitleResolver{titles: map[string]*catalog.Title{
		"t-dune": {ID: "t-dune", Name: "Dune", Year: 2021},
	}}
	service := review.NewService(reviews, comments, resolver, slog.Default())
	return service, reviews, comments
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, code, ae.Code)
}

// # Review Tests

/*
TestCreateReview_OncePerTitle verifies the one-review-per-member rule and
that distinct members review freely.
*/
func TestCreateReview_OncePerTitle(t *testing.T) {
	service, _, _ := newTestService()
	carol := actor("u1", "carol", sec.RoleUser)
	dave := actor("u2", "dave", sec.RoleUser)

	published, err := service.CreateReview(context.Background(), carol, "t-dune", review.ReviewInput{
		Text:  "Spice melange for the eyes.",
		Score: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, "carol", published.AuthorUsername)
	assert.Equal(t, 8, published.Score)
	assert.False(t, published.PubDate.IsZero())

	_, err = service.CreateReview(context.Background(), carol, "t-dune", review.ReviewInput{
		Text:  "Changed my mind, even better.",
		Score: 10,
	})
	assertCode(t, err, "DUPLICATE_REVIEW")

	_, err = service.CreateReview(context.Background(), dave, "t-dune", review.ReviewInput{
		Text:  "Too much sand.",
		Score: 5,
	})
	require.NoError(t, err)
}

/*
TestCreateReview_Rejections covers anonymous callers, score bounds, empty
text, and unknown titles.
*/
func TestCreateReview_Rejections(t *testing.T) {
	service, _, _ := newTestService()
	carol := actor("u1", "carol", sec.RoleUser)

	t.Run("anonymous", func(t *testing.T) {
		_, err := service.CreateReview(context.Background(), nil, "t-dune", review.ReviewInput{Text: "x", Score: 5})
		assertCode(t, err, "UNAUTHENTICATED")
	})

	t.Run("score_bounds", func(t *testing.T) {
		for _, score := range []int{0, 11, -1} {
			_, err := service.CreateReview(context.Background(), carol, "t-dune", review.ReviewInput{Text: "x", Score: score})
			assertCode(t, err, "VALIDATION_ERROR")
		}
	})

	t.Run("empty_text", func(t *testing.T) {
		_, err := service.CreateReview(context.Background(), carol, "t-dune", review.ReviewInput{Score: 5})
		assertCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("unknown_title", func(t *testing.T) {
		_, err := service.CreateReview(context.Background(), carol, "t-missing", review.ReviewInput{Text: "x", Score: 5})
		assertCode(t, err, "NOT_FOUND")
	})
}

/*
TestModifyReview_Ownership verifies the author / moderator / administrator
modification rule on both edit and delete.
*/
func TestModifyReview_Ownership(t *testing.T) {
	service, _, _ := newTestService()
	carol := actor("u1", "carol", sec.RoleUser)
	dave := actor("u2", "dave", sec.RoleUser)
	moderator := actor("m1", "mod", sec.RoleModerator)

	published, err := service.CreateReview(context.Background(), carol, "t-dune", review.ReviewInput{
		Text:  "First impressions.",
		Score: 6,
	})
	require.NoError(t, err)

	t.Run("stranger_rejected", func(t *testing.T) {
		_, err := service.UpdateReview(context.Background(), dave, "t-dune", published.ID, review.ReviewUpdateInput{
			Score: pointer.To(1),
		})
		assertCode(t, err, "FORBIDDEN")

		err = service.DeleteReview(context.Background(), dave, "t-dune", published.ID)
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("author_edits", func(t *testing.T) {
		updated, err := service.UpdateReview(context.Background(), carol, "t-dune", published.ID, review.ReviewUpdateInput{
			Text:  pointer.To("On reflection, a masterpiece."),
			Score: pointer.To(10),
		})
		require.NoError(t, err)
		assert.Equal(t, 10, updated.Score)
		assert.Equal(t, "On reflection, a masterpiece.", updated.Text)
	})

	t.Run("moderator_deletes", func(t *testing.T) {
		require.NoError(t, service.DeleteReview(context.Background(), moderator, "t-dune", published.ID))

		_, err := service.GetReview(context.Background(), "t-dune", published.ID)
		assertCode(t, err, "NOT_FOUND")
	})
}

/*
TestListReviews_PublicationOrder verifies oldest-first ordering and the
unknown-title rejection.
*/
func TestListReviews_PublicationOrder(t *testing.T) {
	service, _, _ := newTestService()
	carol := actor("u1", "carol", sec.RoleUser)
	dave := actor("u2", "dave", sec.RoleUser)

	first, err := service.CreateReview(context.Background(), carol, "t-dune", review.ReviewInput{Text: "Early take.", Score: 7})
	require.NoError(t, err)
	second, err := service.CreateReview(context.Background(), dave, "t-dune", review.ReviewInput{Text: "Late take.", Score: 9})
	require.NoError(t, err)

	reviews, total, err := service.ListReviews(context.Background(), "t-dune", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, reviews, 2)
	assert.Equal(t, first.ID, reviews[0].ID)
	assert.Equal(t, second.ID, reviews[1].ID)

	_, _, err = service.ListReviews(context.Background(), "t-missing", pagination.Params{Page: 1, Limit: 20})
	assertCode(t, err, "NOT_FOUND")
}

// # Comment Tests

/*
TestComments_Lifecycle walks a comment through posting, stranger rejection,
author edit, and moderator removal.
*/
func TestComments_Lifecycle(t *testing.T) {
	service, _, _ := newTestService()
	carol := actor("u1", "carol", sec.RoleUser)
	dave := actor("u2", "dave", sec.RoleUser)
	moderator := actor("m1", "mod", sec.RoleModerator)

	published, err := service.CreateReview(context.Background(), carol, "t-dune", review.ReviewInput{Text: "Worth a watch.", Score: 7})
	require.NoError(t, err)

	posted, err := service.CreateComment(context.Background(), dave, "t-dune", published.ID, review.CommentInput{
		Text: "Agreed, the score carried it.",
	})
	require.NoError(t, err)
	assert.Equal(t, "dave", posted.AuthorUsername)

	t.Run("anonymous_rejected", func(t *testing.T) {
		_, err := service.CreateComment(context.Background(), nil, "t-dune", published.ID, review.CommentInput{Text: "x"})
		assertCode(t, err, "UNAUTHENTICATED")
	})

	t.Run("unknown_review", func(t *testing.T) {
		_, err := service.CreateComment(context.Background(), dave, "t-dune", "missing", review.CommentInput{Text: "x"})
		assertCode(t, err, "NOT_FOUND")
	})

	t.Run("stranger_edit_rejected", func(t *testing.T) {
		_, err := service.UpdateComment(context.Background(), carol, "t-dune", published.ID, posted.ID, review.CommentUpdateInput{
			Text: pointer.To("hijacked"),
		})
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("author_edits", func(t *testing.T) {
		updated, err := service.UpdateComment(context.Background(), dave, "t-dune", published.ID, posted.ID, review.CommentUpdateInput{
			Text: pointer.To("Agreed, and the sound design too."),
		})
		require.NoError(t, err)
		assert.Equal(t, "Agreed, and the sound design too.", updated.Text)
	})

	t.Run("moderator_removes", func(t *testing.T) {
		require.NoError(t, service.DeleteComment(context.Background(), moderator, "t-dune", published.ID, posted.ID))

		_, _, err := service.ListComments(context.Background(), "t-dune", published.ID, pagination.Params{Page: 1, Limit: 20})
		require.NoError(t, err)

		_, err = service.GetComment(context.Background(), "t-dune", published.ID, posted.ID)
		assertCode(t, err, "NOT_FOUND")
	})
}
