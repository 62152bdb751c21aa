// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
Package auth implements the confirmation-code based identity flow.

Signing up registers (or re-registers) a username/email pair and emits a
short-lived confirmation code through an injected [Notifier]. Exchanging the
username and code yields an RSA-signed JWT access token.

Architecture:

  - Service: Orchestrates signup and token issuance.
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Codes).
  - Security: Bcrypt-hashed codes and RSA-signed JWTs.

No passwords exist anywhere in the system: the emailed code is the only
credential, and only its hash is ever stored.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/critiqapp/critiq/internal/platform/apperr"
	"github.com/critiqapp/critiq/internal/platform/sec"
	"github.com/critiqapp/critiq/internal/platform/validate"
	"github.com/critiqapp/critiq/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Service implements the signup and token issuance use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to code generation,
// hashing, or issuance logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	codeRepository ConfirmationCodeRepository
	notifier       Notifier
	tokenProvider  TokenProvider
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	codeRepo ConfirmationCodeRepository,
	notifier Notifier,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository: userRepo,
		codeRepository: codeRepo,
		notifier:       notifier,
		tokenProvider:  tokenProv,
	}
}

// # Signup Flow

// SignupInput holds the identity pair required to enroll a new member.
type SignupInput struct {
	Username string
	Email    string
}

/*
Signup registers a username/email pair and emits a confirmation code.

Description: Idempotent enrollment. Re-submitting the exact identity pair of
an existing account re-issues a fresh code instead of failing, so a member
who lost the original email can always recover.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *SignupIdentity: Echo of the registered pair
  - err: ValidationError, DuplicateUser, ConflictingIdentity, or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*SignupIdentity, error) {

	// Reject malformed identities before touching storage.
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, MaxEmailLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Resolve both halves of the identity pair independently.
	byUsername, usernameErr := service.userRepository.FindByUsername(context, input.Username)
	byEmail, emailErr := service.userRepository.FindByEmail(context, input.Email)

	usernameTaken := usernameErr == nil
	emailTaken := emailErr == nil

	switch {

	// Exact pair matches one existing account: re-issue a fresh code.
	case usernameTaken && emailTaken && byUsername.ID == byEmail.ID:
		if err := service.issueConfirmationCode(context, byUsername); err != nil {
			return nil, err
		}
		return &SignupIdentity{Username: byUsername.Username, Email: byUsername.Email}, nil

	// Username and email each belong to a different existing account.
	case usernameTaken && emailTaken:
		return nil, apperr.ConflictingIdentity()

	case usernameTaken:
		return nil, apperr.DuplicateUser("Username is already taken")

	case emailTaken:
		return nil, apperr.DuplicateUser("Email is already registered")
	}

	// Fresh identity: create the account with the default role.
	user := &User{
		ID:       uuidv7.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	// The repository maps a losing concurrent insert to DuplicateUser.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	if err := service.issueConfirmationCode(context, user); err != nil {
		return nil, err
	}

	return &SignupIdentity{Username: user.Username, Email: user.Email}, nil
}

// issueConfirmationCode generates, stores, and delivers a fresh code for the user.
//
// The plain code travels only through the [Notifier]; storage sees the bcrypt
// hash exclusively.
func (service *Service) issueConfirmationCode(context context.Context, user *User) error {

	// Generate the plain code from the OS entropy source.
	code, err := sec.GenerateCode(ConfirmationCodeLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_code_failed: %w", err)
	}

	// Hash before persisting.
	codeHash, err := sec.HashCode(code)
	if err != nil {
		return fmt.Errorf("auth_service_hash_code_failed: %w", err)
	}

	// Store with TTL, replacing any earlier code for this username.
	if err := service.codeRepository.Set(context, user.Username, codeHash, ConfirmationCodeTTL); err != nil {
		return fmt.Errorf("auth_service_store_code_failed: %w", err)
	}

	// Deliver. A failed delivery fails the signup, since the code is the
	// only credential the member will ever receive.
	if err := service.notifier.SendConfirmation(context, user.Email, user.Username, code); err != nil {
		return fmt.Errorf("auth_service_send_confirmation_failed: %w", err)
	}

	return nil
}

// # Token Issuance

// TokenInput holds the credentials for a token exchange attempt.
type TokenInput struct {
	Username         string
	ConfirmationCode string
}

// IssuedToken represents a successfully issued access token.
type IssuedToken struct {
	AccessToken string `json:"token"`
}

/*
IssueToken exchanges a username and confirmation code for a JWT access token.

Description: Verifies the code against its stored hash in constant time,
burns it on success (single use), and signs a fresh access token.

Parameters:
  - context: context.Context
  - input: TokenInput

Returns:
  - *IssuedToken: Transport-ready bearer token
  - err: NotFound (unknown username), InvalidConfirmationCode, or internal failures
*/
func (service *Service) IssueToken(context context.Context, input TokenInput) (*IssuedToken, error) {

	// Validate presence of both credentials.
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// An unknown username is a 404, not a 400: this endpoint exchanges
	// credentials for an EXISTING account.
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return nil, err
	}

	// Resolve the stored hash. Absence means expired, already used, or never issued.
	codeHash, err := service.codeRepository.Get(context, user.Username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.InvalidConfirmationCode()
		}
		return nil, err
	}

	// Constant-time comparison via bcrypt.
	if !sec.VerifyCode(input.ConfirmationCode, codeHash) {
		return nil, apperr.InvalidConfirmationCode()
	}

	// Single use: burn the code before handing out the token.
	if err := service.codeRepository.Delete(context, user.Username); err != nil {
		return nil, fmt.Errorf("auth_service_burn_code_failed: %w", err)
	}

	// Sign the access token with the account's current role.
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &IssuedToken{AccessToken: accessToken}, nil
}
