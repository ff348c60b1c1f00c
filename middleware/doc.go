// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, client_ip) and completion (duration_ms).

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type and Authorization.

# Authentication

Callers present "Authorization: Bearer <token>" where the token was issued
by POST /users/register:

	userID, err := middleware.Authenticate(r, cfg.TokenSalt)

# Errors

WriteError maps domain errors onto status codes and the {"error": "..."}
envelope:

	models.ErrValidation       400
	models.ErrUnauthenticated  401
	models.ErrForbidden        403
	models.ErrNotFound         404
	models.ErrConflict         409
	rate-limited upstream      429 with Retry-After (seconds)
	anything else              500 "Internal server error"
*/
package middleware
