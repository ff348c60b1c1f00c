// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/planora/cliparse"
	"github.com/danielhkuo/planora/db"
	"github.com/danielhkuo/planora/middleware"
	"github.com/danielhkuo/planora/models"
	"github.com/danielhkuo/planora/pollengine"
)

type VotingHandler struct {
	base
}

func NewVotingHandler(store *db.Store, engine *pollengine.Engine, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{base{store: store, engine: engine, cfg: cfg}}
}

// CastVote handles POST /polls/vote
// Casting the same vote type twice on an option retracts it
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.currentUser(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	result, err := h.engine.CastVote(r.Context(), pollengine.CastVoteCommand{
		PollID:   req.PollID,
		OptionID: req.OptionID,
		VoteType: req.VoteType,
		UserID:   userID,
		UserName: pollengine.DisplayName(user),
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Success:  true,
		PollID:   result.PollID,
		OptionID: result.OptionID,
		UserVote: result.UserVote,
	})
}

// FinalizePoll handles POST /polls/finalize
// Accepts {pollId, optionId} or the event-scoped {eventId, pollId, optionId}
func (h *VotingHandler) FinalizePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req models.FinalizePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := h.engine.Finalize(r.Context(), pollengine.FinalizeCommand{
		EventID:  req.EventID,
		PollID:   req.PollID,
		OptionID: req.OptionID,
		ActorID:  userID,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	finalResult := result.FinalResult
	middleware.JSONResponse(w, http.StatusOK, models.FinalizePollResponse{
		Success:      true,
		PollID:       result.PollID,
		EventUpdates: result.EventUpdates,
		FinalResult:  &finalResult,
	})
}
