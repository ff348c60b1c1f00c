// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Planora API.

	mux := router.NewRouter(store, engine, cfg)

# Endpoints

Health:

	GET /health - 200 "OK", or 503 when the database is unreachable

Users:

	POST /users/register - Create a user, returns {user_id, token}
	GET  /users/me       - Caller's profile

Events (Authorization: Bearer <token>):

	POST /events               - Create event (caller becomes owner)
	GET  /events/{id}          - Event details
	POST /events/{id}/members  - Add member or change role (owner/manager)
	GET  /events/{id}/members  - Roster, optionally ?role=owner,manager
	GET  /events/{id}/polls    - Polls of the event
	POST /events/{id}/polls    - Create poll

Polls:

	GET  /polls/{id}         - Poll with options and votes
	GET  /polls/{id}/results - Tallies and voter names per option
	POST /polls/vote         - Cast or retract a vote
	POST /polls/finalize     - Decide a poll (owner/manager)

All routes except /health and / are wrapped with middleware.WithLogging.
*/
package router
