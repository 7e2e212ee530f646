// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package api

import (
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/warden/internal/auth"
	"github.com/tomtom215/warden/internal/identity"
	"github.com/tomtom215/warden/internal/logging"
	"github.com/tomtom215/warden/internal/models"
	"github.com/tomtom215/warden/internal/validation"
)

// ListUsers returns all usernames in the identity store.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}
	names, err := h.store.List(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.CodeInternal, "Failed to list users", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	respondSuccess(w, r, http.StatusOK, models.UserList{Usernames: names, Count: len(names)})
}

// GetUser returns one identity record without its password hash.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	username, ok := h.usernameParam(w, r)
	if !ok {
		return
	}
	user, err := h.store.Get(r.Context(), username)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, userView(user))
}

// PutUser creates or replaces an identity record. It returns 201 when the
// record is new.
func (h *Handler) PutUser(w http.ResponseWriter, r *http.Request) {
	username, ok := h.usernameParam(w, r)
	if !ok {
		return
	}

	var req models.UserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, models.CodeBadRequest, "Invalid request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	hash, err := identity.HashPassword([]byte(req.Password), h.bcryptCost)
	req.Password = ""
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.CodeInternal, "Failed to hash password", err)
		return
	}

	_, getErr := h.store.Get(r.Context(), username)
	created := errors.Is(getErr, identity.ErrUserNotFound)
	if getErr != nil && !created {
		h.respondStoreError(w, r, getErr)
		return
	}

	user := &identity.User{
		Username:     username,
		PasswordHash: hash,
		Roles:        req.Roles,
		Attributes:   req.Attributes,
		Disabled:     req.Disabled,
	}
	if err := h.store.Put(r.Context(), user); err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	action, status := "update", http.StatusOK
	if created {
		action, status = "create", http.StatusCreated
	}
	h.audit(r, username, action)

	// Re-read so the response carries the stored timestamps.
	stored, err := h.store.Get(r.Context(), username)
	if err != nil {
		stored = user
	}
	respondSuccess(w, r, status, userView(stored))
}

// DeleteUser removes an identity record.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username, ok := h.usernameParam(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), username); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	h.audit(r, username, "delete")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if h.store == nil {
		respondError(w, r, http.StatusNotFound, models.CodeNotFound, ErrIdentityStoreDisabled.Error(), nil)
		return false
	}
	return true
}

func (h *Handler) usernameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !h.requireStore(w, r) {
		return "", false
	}
	username := chi.URLParam(r, "username")
	if err := identity.ValidateUsername(username); err != nil {
		respondError(w, r, http.StatusBadRequest, models.CodeValidation, "Invalid username", nil)
		return "", false
	}
	return username, true
}

func (h *Handler) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, identity.ErrUserNotFound):
		respondError(w, r, http.StatusNotFound, models.CodeNotFound, "User not found", nil)
	case errors.Is(err, identity.ErrInvalidUser):
		respondError(w, r, http.StatusBadRequest, models.CodeValidation, "Invalid user record", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, models.CodeInternal, "Identity store error", err)
	}
}

func (h *Handler) audit(r *http.Request, username, action string) {
	actor := ""
	if sc, ok := auth.SecurityContextFrom(r.Context()); ok {
		actor = sc.Principal.Name
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	logging.NewSecurityLogger().LogIdentityChange(actor, username, action, ip)
}

func userView(u *identity.User) models.UserView {
	return models.UserView{
		Username:   u.Username,
		Roles:      u.Roles,
		Attributes: u.Attributes,
		Disabled:   u.Disabled,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
