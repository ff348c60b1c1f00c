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

type ResultsHandler struct {
	base
}

func NewResultsHandler(store *db.Store, engine *pollengine.Engine, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{base{store: store, engine: engine, cfg: cfg}}
}

// GetResults handles GET /polls/{id}/results
// Returns per-option tallies and the names of who voted what
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	results, err := h.engine.Results(r.Context(), models.NormalizeID(r.PathValue("id")), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
