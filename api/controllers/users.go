package controllers

import (
	"net/http"
	"strings"

	"github.com/techvent/inventory-backend/api/responses"
	"github.com/techvent/inventory-backend/api/validators"
	usersvc "github.com/techvent/inventory-backend/internal/users"
	"github.com/techvent/inventory-backend/pkg/enums"
	pkgerrors "github.com/techvent/inventory-backend/pkg/errors"
	"github.com/techvent/inventory-backend/pkg/logger"
	"github.com/techvent/inventory-backend/pkg/pagination"
)

type createUserRequest struct {
	FirstName  string  `json:"first_name" validate:"required,max=100"`
	MiddleName *string `json:"middle_name,omitempty" validate:"omitempty,max=100"`
	LastName   string  `json:"last_name" validate:"required,max=100"`
	Suffix     *string `json:"suffix,omitempty" validate:"omitempty,max=20"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=100"`
	UserType   *string `json:"user_type,omitempty"`
}

type updateUserRequest struct {
	FirstName  *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	MiddleName *string `json:"middle_name,omitempty" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Suffix     *string `json:"suffix,omitempty" validate:"omitempty,max=20"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=100"`
	UserType   *string `json:"user_type,omitempty"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// UsersCreate provisions an account with a one-time temporary password.
func UsersCreate(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var payload createUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := usersvc.CreateUserInput{
			FirstName:  payload.FirstName,
			MiddleName: payload.MiddleName,
			LastName:   payload.LastName,
			Suffix:     payload.Suffix,
			Email:      payload.Email,
			Phone:      payload.Phone,
			Department: payload.Department,
		}
		if payload.UserType != nil {
			role, err := enums.ParseUserRole(strings.TrimSpace(*payload.UserType))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user type"))
				return
			}
			input.UserType = role
		}

		created, err := svc.CreateUser(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// UsersUpdate mutates an existing account.
func UsersUpdate(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := usersvc.UpdateUserInput{
			FirstName:  payload.FirstName,
			MiddleName: payload.MiddleName,
			LastName:   payload.LastName,
			Suffix:     payload.Suffix,
			Phone:      payload.Phone,
			Department: payload.Department,
		}
		if payload.UserType != nil {
			role, err := enums.ParseUserRole(strings.TrimSpace(*payload.UserType))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user type"))
				return
			}
			input.UserType = &role
		}

		user, err := svc.UpdateUser(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// UsersSetActive toggles whether an account may sign in.
func UsersSetActive(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setActiveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.SetActive(r.Context(), actor, userID, *payload.IsActive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// UsersDelete removes an account.
func UsersDelete(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteUser(r.Context(), actor, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// UsersGet returns one account.
func UsersGet(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// UsersList returns a page of accounts.
func UsersList(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListUsers(r.Context(), usersvc.ListUsersInput{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// UsersMe returns the calling account.
func UsersMe(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetUser(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}
