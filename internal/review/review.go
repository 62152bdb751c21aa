// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package review

import "time"

// # Domain Entities

// Review is a member's scored opinion of a title.
//
// # Uniqueness
//
// A member holds at most one review per title. The rule is enforced by a
// unique index on (titleid, authorid); editing the existing review is the
// way to change one's mind.
type Review struct {
	ID             string    `json:"id"`
	TitleID        string    `json:"title_id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author"`
	Text           string    `json:"text"`
	Score          int       `json:"score"`
	PubDate        time.Time `json:"pub_date"`
}

// Comment is a reply attached to a review. Comments carry no score.
type Comment struct {
	ID             string    `json:"id"`
	ReviewID       string    `json:"review_id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author"`
	Text           string    `json:"text"`
	PubDate        time.Time `json:"pub_date"`
}

// # JSON Field Identifiers

const (
	FieldText  = "text"
	FieldScore = "score"
)

// # Validation Bounds

const (
	// MaxReviewTextLen bounds the review body.
	MaxReviewTextLen = 10000
	// MaxCommentTextLen bounds a comment body.
	MaxCommentTextLen = 2000
)
