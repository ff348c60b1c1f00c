// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/danielhkuo/planora/models"
)

// DefaultRetryAfter is suggested to clients when the database sheds load
const DefaultRetryAfter = 2 * time.Second

// Substrings of driver errors that mean the database is shedding load
var rateLimitMarkers = []string{
	"rate limit",
	"too many requests",
	"too many connections",
	"status 429",
	"database is locked",
	"sqlite_busy",
}

// storeError classifies a driver error for the engine
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if isRateLimited(err) {
		return &models.UpstreamError{Op: op, RateLimited: true, RetryAfter: DefaultRetryAfter, Err: err}
	}
	return &models.UpstreamError{Op: op, Err: err}
}

func isRateLimited(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 53: insufficient resources; 57P03: cannot connect now
		if pqErr.Code.Class() == "53" || pqErr.Code == "57P03" {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
