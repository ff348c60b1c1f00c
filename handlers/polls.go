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

// MinOptions is the smallest number of options a poll can be created with
const MinOptions = 2

type PollHandler struct {
	base
}

func NewPollHandler(store *db.Store, engine *pollengine.Engine, cfg cliparse.Config) *PollHandler {
	return &PollHandler{base{store: store, engine: engine, cfg: cfg}}
}

// CreatePoll handles POST /events/{id}/polls
// Any participant of the event may open a poll. Date and location polls
// always accept multiple choices.
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	eventID := models.NormalizeID(r.PathValue("id"))

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	options, err := validatePoll(req)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.participantEvent(r.Context(), eventID, userID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	for i := range options {
		optionID, err := auth.GenerateID(6)
		if err != nil {
			slog.Error("failed to generate option ID", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}
		options[i].ID = models.ID(optionID)
	}

	poll, err := h.store.CreatePoll(r.Context(), models.Poll{
		EventID:       eventID,
		Title:         strings.TrimSpace(req.Title),
		Type:          req.Type,
		Options:       options,
		AllowMultiple: req.AllowMultiple || req.Type != models.PollTypeGeneric,
		IsActive:      true,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("poll created", "poll_id", poll.ID, "event_id", eventID, "type", poll.Type, "options", len(options))
	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// validatePoll checks the request and returns the options to store
func validatePoll(req models.CreatePollRequest) ([]models.Option, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.New("title is required")
	}
	switch req.Type {
	case models.PollTypeDate, models.PollTypeLocation, models.PollTypeGeneric:
	default:
		return nil, errors.New("type must be one of: date, location, generic")
	}
	if len(req.Options) < MinOptions {
		return nil, fmt.Errorf("at least %d options are required", MinOptions)
	}

	options := make([]models.Option, 0, len(req.Options))
	for i, in := range req.Options {
		opt := models.Option{
			Text:     strings.TrimSpace(in.Text),
			Date:     strings.TrimSpace(in.Date),
			Location: strings.TrimSpace(in.Location),
		}
		switch req.Type {
		case models.PollTypeDate:
			if opt.Date == "" {
				return nil, fmt.Errorf("option %d: date is required", i+1)
			}
		case models.PollTypeLocation:
			if opt.Location == "" && opt.Text == "" {
				return nil, fmt.Errorf("option %d: location or text is required", i+1)
			}
		default:
			if opt.Text == "" {
				return nil, fmt.Errorf("option %d: text is required", i+1)
			}
		}
		options = append(options, opt)
	}
	return options, nil
}

// ListPolls handles GET /events/{id}/polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	eventID := models.NormalizeID(r.PathValue("id"))

	if _, err := h.participantEvent(r.Context(), eventID, userID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	polls, err := h.store.ListPolls(r.Context(), eventID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	poll, err := h.store.GetPoll(r.Context(), models.NormalizeID(r.PathValue("id")))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if _, err := h.participantEvent(r.Context(), poll.EventID, userID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}
