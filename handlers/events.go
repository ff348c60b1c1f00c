// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
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

type EventHandler struct {
	base
}

func NewEventHandler(store *db.Store, engine *pollengine.Engine, cfg cliparse.Config) *EventHandler {
	return &EventHandler{base{store: store, engine: engine, cfg: cfg}}
}

// CreateEvent handles POST /events
// The caller becomes the event owner
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	if _, err := h.currentUser(r.Context(), userID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	event, err := h.store.CreateEvent(r.Context(), models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		OwnerID:     userID,
		EventDate:   req.EventDate,
		Location:    req.Location,
		Status:      models.EventStatusPlanning,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("event created", "event_id", event.ID, "owner_id", userID)
	middleware.JSONResponse(w, http.StatusCreated, event)
}

// GetEvent handles GET /events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	event, err := h.participantEvent(r.Context(), models.NormalizeID(r.PathValue("id")), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, event)
}

// AddMember handles POST /events/{id}/members
// Only the owner or a manager may add members or change their role
func (h *EventHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	eventID := models.NormalizeID(r.PathValue("id"))

	var req models.AddMemberRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.UserID = models.NormalizeID(string(req.UserID))
	if req.UserID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleMember
	}
	if !auth.IsValidRole(req.Role) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "role must be one of: owner, manager, member")
		return
	}

	event, err := h.engine.Store.GetEvent(r.Context(), eventID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	memberships, err := h.store.ListEventMembers(r.Context(), eventID, models.MemberFilter{UserID: actorID})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if !auth.CanManageMembers(actorID, event, memberships) {
		middleware.ErrorResponse(w, http.StatusForbidden, "only the event owner or a manager can manage members")
		return
	}
	if req.UserID == event.OwnerID && req.Role != models.RoleOwner {
		middleware.ErrorResponse(w, http.StatusConflict, "the event owner's role cannot be changed")
		return
	}

	if _, err := h.store.GetUser(r.Context(), req.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, fmt.Sprintf("user %s not found", req.UserID))
			return
		}
		middleware.WriteError(w, err)
		return
	}

	member, err := h.store.AddMember(r.Context(), eventID, req.UserID, req.Role)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("member added", "event_id", eventID, "user_id", req.UserID, "role", req.Role, "actor_id", actorID)
	middleware.JSONResponse(w, http.StatusCreated, member)
}

// ListMembers handles GET /events/{id}/members
func (h *EventHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	eventID := models.NormalizeID(r.PathValue("id"))

	if _, err := h.participantEvent(r.Context(), eventID, userID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	filter := models.MemberFilter{}
	if role := r.URL.Query().Get("role"); role != "" {
		filter.Roles = strings.Split(role, ",")
	}
	members, err := h.store.ListEventMembers(r.Context(), eventID, filter)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, members)
}
