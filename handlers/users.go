// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/planora/auth"
	"github.com/danielhkuo/planora/cliparse"
	"github.com/danielhkuo/planora/db"
	"github.com/danielhkuo/planora/middleware"
	"github.com/danielhkuo/planora/models"
	"github.com/danielhkuo/planora/pollengine"
)

type UserHandler struct {
	base
}

func NewUserHandler(store *db.Store, engine *pollengine.Engine, cfg cliparse.Config) *UserHandler {
	return &UserHandler{base{store: store, engine: engine, cfg: cfg}}
}

// Register handles POST /users/register
// Creates a user profile and returns a bearer token for it
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user := models.User{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Name:        strings.TrimSpace(req.Name),
		DisplayName: strings.TrimSpace(req.DisplayName),
		FullName:    strings.TrimSpace(req.FullName),
		Username:    strings.TrimSpace(req.Username),
		Email:       strings.TrimSpace(req.Email),
	}
	if user.FirstName == "" && user.LastName == "" && user.Name == "" && user.DisplayName == "" &&
		user.FullName == "" && user.Username == "" && user.Email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a name, username or email is required")
		return
	}

	user, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID)
	middleware.JSONResponse(w, http.StatusCreated, models.RegisterUserResponse{
		UserID: user.ID,
		Token:  auth.GenerateUserToken(user.ID, h.cfg.TokenSalt),
	})
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	user, err := h.currentUser(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}
