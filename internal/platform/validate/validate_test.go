// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package validate_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiqapp/critiq/internal/platform/apperr"
	"github.com/critiqapp/critiq/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Critiq", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Score checks the inclusive 1..10 review score rule.
*/
func TestValidator_Score(t *testing.T) {
	tests := []struct {
		name    string
		score   int
		isValid bool
	}{
		{"lower_bound", 1, true},
		{"upper_bound", 10, true},
		{"middle", 7, true},
		{"zero", 0, false},
		{"above_maximum", 11, false},
		{"negative", -3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Score("score", tt.score)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_YearNotFuture checks the publication year upper bound
against the current server year.
*/
func TestValidator_YearNotFuture(t *testing.T) {
	currentYear := time.Now().Year()

	tests := []struct {
		name    string
		year    int
		isValid bool
	}{
		{"current_year", currentYear, true},
		{"last_year", currentYear - 1, true},
		{"ancient", 1927, true},
		{"next_year", currentYear + 1, false},
		{"far_future", currentYear + 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.YearNotFuture("year", tt.year)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Username checks the account name rules: reserved literal,
charset and length.
*/
func TestValidator_Username(t *testing.T) {
	longName := ""
	for i := 0; i < 151; i++ {
		longName += "a"
	}

	tests := []struct {
		name     string
		username string
		isValid  bool
	}{
		{"simple", "carol", true},
		{"with_symbols", "carol.smith+dev@home_1-x", true},
		{"digits_only", "12345", true},
		{"reserved_me", "me", false},
		{"contains_space", "carol smith", false},
		{"contains_hash", "carol#1", false},
		{"empty", "", false},
		{"too_long", longName, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Username("username", tt.username)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors(), "username %q should be rejected", tt.username)
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Slug checks the URL slug format rule.
*/
func TestValidator_Slug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		isValid bool
	}{
		{"simple", "science-fiction", true},
		{"single_word", "movies", true},
		{"uppercase", "Movies", false},
		{"leading_hyphen", "-movies", false},
		{"trailing_hyphen", "movies-", false},
		{"spaces", "science fiction", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Slug("slug", tt.slug)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("username", "carol").
		Username("username", "carol").
		Email("email", "carol@example.com").
		Score("score", 8).
		YearNotFuture("year", 1965).
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").       // Fails
		Score("score", 0).              // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)

	// The message names the current year, so clients see a concrete bound
	v2 := &validate.Validator{}
	err = v2.YearNotFuture("year", time.Now().Year()+1).Err()
	require.Error(t, err)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Contains(t, ae.Details[0].Message, fmt.Sprintf("%d", time.Now().Year()))
}
