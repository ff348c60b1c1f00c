// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/planora/cliparse"
	"github.com/danielhkuo/planora/db"
	"github.com/danielhkuo/planora/handlers"
	"github.com/danielhkuo/planora/middleware"
	"github.com/danielhkuo/planora/pollengine"
)

func NewRouter(store *db.Store, engine *pollengine.Engine, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(store, engine, cfg)
	eventHandler := handlers.NewEventHandler(store, engine, cfg)
	pollHandler := handlers.NewPollHandler(store, engine, cfg)
	votingHandler := handlers.NewVotingHandler(store, engine, cfg)
	resultsHandler := handlers.NewResultsHandler(store, engine, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := store.DB().PingContext(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Users
	mux.HandleFunc("POST /users/register", middleware.WithLogging(userHandler.Register))
	mux.HandleFunc("GET /users/me", middleware.WithLogging(userHandler.GetMe))

	// Events and membership
	mux.HandleFunc("POST /events", middleware.WithLogging(eventHandler.CreateEvent))
	mux.HandleFunc("GET /events/{id}", middleware.WithLogging(eventHandler.GetEvent))
	mux.HandleFunc("POST /events/{id}/members", middleware.WithLogging(eventHandler.AddMember))
	mux.HandleFunc("GET /events/{id}/members", middleware.WithLogging(eventHandler.ListMembers))

	// Polls
	mux.HandleFunc("GET /events/{id}/polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("POST /events/{id}/polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Voting and finalization
	mux.HandleFunc("POST /polls/vote", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("POST /polls/finalize", middleware.WithLogging(votingHandler.FinalizePoll))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("planora API v1"))
	})

	return mux
}
