// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
HTTP delivery layer for the confirmation-code identity flow.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: No cookies or sessions; the issued JWT is a plain bearer token.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/critiqapp/critiq/internal/platform/request"
	"github.com/critiqapp/critiq/internal/platform/respond"
	"github.com/critiqapp/critiq/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the two public entry points of the identity lifecycle
// (Signup and Token exchange). Both are intentionally anonymous.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /signup : Registers an identity pair and emits a confirmation code.
//   - POST /token  : Exchanges username + code for a JWT access token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signup)
	router.Post("/token", handler.token)

	return router
}

// # Request Payloads

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

/*
Signup registers a new identity pair or re-issues a code for an existing one.

POST /api/v1/auth/signup

Description: Validates the identity pair, creates the account when fresh,
and delivers a confirmation code through the configured notifier.

Request:
  - Body: signupRequest (Username, Email)

Response:
  - 200: SignupIdentity: Echo of the registered pair
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: DuplicateUser / ConflictingIdentity: Identity collision
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	identity, err := handler.authService.Signup(request.Context(), SignupInput{
		Username: input.Username,
		Email:    input.Email,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

/*
Token exchanges a username and confirmation code for an access token.

POST /api/v1/auth/token

Description: Verifies the single-use confirmation code and returns an
RSA-signed JWT carrying the account's identity and role.

Request:
  - Body: tokenRequest (Username, ConfirmationCode)

Response:
  - 200: IssuedToken: Bearer token
  - 400: InvalidConfirmationCode: Wrong, expired, or already-used code
  - 404: NotFound: Unknown username
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	issued, err := handler.authService.IssueToken(request.Context(), TokenInput{
		Username:         input.Username,
		ConfirmationCode: input.ConfirmationCode,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, issued)
}
