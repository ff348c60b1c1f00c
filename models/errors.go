// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"time"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not allowed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// UpstreamError reports a failure of the backing store. RateLimited errors
// are retryable after RetryAfter.
type UpstreamError struct {
	Op          string
	RateLimited bool
	RetryAfter  time.Duration
	Err         error
}

func (e *UpstreamError) Error() string {
	if e.RateLimited {
		return e.Op + ": upstream rate limited: " + e.Err.Error()
	}
	return e.Op + ": upstream failure: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
