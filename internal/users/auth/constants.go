// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package auth

import "time"

// # Lifecycle Durations

const (
	// ConfirmationCodeTTL is how long a signup confirmation code stays valid.
	ConfirmationCodeTTL = 24 * time.Hour

	// ConfirmationCodeLength is the number of characters in a confirmation code.
	ConfirmationCodeLength = 8

	// AccessTokenTTL is the lifetime of an issued JWT access token.
	AccessTokenTTL = 24 * time.Hour
)

// # JSON Field Identifiers

const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldRole             = "role"
	FieldAccessToken      = "token"
	FieldMessage          = "message"
)

// # Validation Bounds

const (
	// MaxEmailLen bounds the email column width.
	MaxEmailLen = 254
	// MaxNameLen bounds the first_name and last_name column widths.
	MaxNameLen = 150
)
