// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
Package account provides the HTTP delivery layer for profile and user management.

It implements two RESTful surfaces over the same user storage:

  - /users/me: The self accessor, available to any authenticated member.
  - /users:    The administration surface, restricted to administrators.

# Security

The self accessor requires an active authentication session provided by the
RequireAuth middleware. The administration surface is cut off at the router
by the RequireRole middleware, and the service layer re-checks the policy so
direct callers get the same answer.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/critiqapp/critiq/internal/platform/middleware"
	requestutil "github.com/critiqapp/critiq/internal/platform/request"
	"github.com/critiqapp/critiq/internal/platform/respond"
	"github.com/critiqapp/critiq/internal/platform/sec"
	"github.com/critiqapp/critiq/internal/platform/validate"
	"github.com/critiqapp/critiq/pkg/pagination"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
//
// The static "/me" segment takes precedence over the "/{username}" parameter,
// which is why the reserved username "me" can never be registered.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self accessor
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/me", handler.updateMe)
	})

	// Administration surface. RequireRole rejects non-administrators before
	// the handlers run; the service layer repeats the policy check.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/", handler.listUsers)
		r.Post("/", handler.createUser)
		r.Get("/{username}", handler.getUser)
		r.Patch("/{username}", handler.updateUser)
		r.Delete("/{username}", handler.deleteUser)
	})

	return router
}

// # Self Accessor Endpoints

/*
GET /api/v1/users/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: Unauthenticated: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the expected JSON payload for self profile updates.
//
// The Role field is accepted in the payload but never forwarded: members
// cannot change their own role, and submitting one is not an error.
type updateMeRequest struct {
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

/*
PATCH /api/v1/users/me.

Description: Applies partial updates to the authenticated user's profile.
A submitted "role" field is silently ignored.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: Unauthenticated: Authentication required
  - 409: DuplicateUser: New username already taken
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateSelf(request.Context(), userID, SelfUpdateInput{
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Administration Endpoints

/*
GET /api/v1/users.

Description: Lists all registered accounts with pagination. Admin-only.

Response:
  - 200: []User: Page of accounts with pagination metadata
  - 401: Unauthenticated: Authentication required
  - 403: Forbidden: Administrator privileges required
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.accountService.List(request.Context(), requestutil.Claims(request), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

// createUserRequest defines the payload for administrative account provisioning.
type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

/*
POST /api/v1/users.

Description: Provisions a new account with an explicit role. Admin-only.

Request:
  - body: createUserRequest

Response:
  - 201: User: The created account
  - 400: Validation failure
  - 403: Forbidden: Administrator privileges required
  - 409: DuplicateUser: Username or email already registered
*/
func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.Create(request.Context(), requestutil.Claims(request), AdminCreateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
GET /api/v1/users/{username}.

Description: Retrieves an arbitrary account by username. Admin-only.

Response:
  - 200: User: Hydrated account
  - 403: Forbidden: Administrator privileges required
  - 404: NotFound: Unknown username
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")
	if err := guardSelf(username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetByUsername(request.Context(), requestutil.Claims(request), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateUserRequest defines the payload for administrative account edits.
type updateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

/*
PATCH /api/v1/users/{username}.

Description: Applies partial administrative changes to an arbitrary account,
including role reassignment. Admin-only.

Request:
  - body: updateUserRequest (Partial JSON)

Response:
  - 200: User: The updated account
  - 400: Validation failure (e.g. unknown role)
  - 403: Forbidden: Administrator privileges required
  - 404: NotFound: Unknown username
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")
	if err := guardSelf(username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateByUsername(request.Context(), requestutil.Claims(request), username, AdminUpdateInput{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/{username}.

Description: Permanently removes an account. Admin-only.

Response:
  - 204: No Content: Account deleted
  - 403: Forbidden: Administrator privileges required
  - 404: NotFound: Unknown username
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")
	if err := guardSelf(username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteByUsername(request.Context(), requestutil.Claims(request), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
