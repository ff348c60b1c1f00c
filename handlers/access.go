// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielhkuo/planora/cliparse"
	"github.com/danielhkuo/planora/db"
	"github.com/danielhkuo/planora/middleware"
	"github.com/danielhkuo/planora/models"
	"github.com/danielhkuo/planora/pollengine"
)

// base carries what every handler needs. Event reads go through the
// engine's store so they share its cache.
type base struct {
	store  *db.Store
	engine *pollengine.Engine
	cfg    cliparse.Config
}

// authenticate resolves the caller or writes a 401
func (b base) authenticate(w http.ResponseWriter, r *http.Request) (models.ID, bool) {
	userID, err := middleware.Authenticate(r, b.cfg.TokenSalt)
	if err != nil {
		middleware.WriteError(w, err)
		return "", false
	}
	return userID, true
}

// participantEvent loads the event and fails with ErrForbidden unless
// userID owns it or is a member
func (b base) participantEvent(ctx context.Context, eventID, userID models.ID) (models.Event, error) {
	event, err := b.engine.Store.GetEvent(ctx, eventID)
	if err != nil {
		return models.Event{}, err
	}
	if event.OwnerID == userID {
		return event, nil
	}
	members, err := b.store.ListEventMembers(ctx, eventID, models.MemberFilter{UserID: userID})
	if err != nil {
		return models.Event{}, err
	}
	if len(members) == 0 {
		return models.Event{}, fmt.Errorf("%w: not a participant of this event", models.ErrForbidden)
	}
	return event, nil
}

// currentUser loads the caller's profile. A valid token for a user that no
// longer exists counts as unauthenticated.
func (b base) currentUser(ctx context.Context, userID models.ID) (models.User, error) {
	user, err := b.store.GetUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return models.User{}, models.ErrUnauthenticated
	}
	return user, err
}
