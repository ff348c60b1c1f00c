// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/danielhkuo/planora/models"
	"github.com/danielhkuo/planora/pollengine"
)

// EventTTL bounds how stale a cached event can be
const EventTTL = 5 * time.Minute

// EventStore caches event reads of a pollengine.Store. UpdateEvent drops the
// cached copy. Cache failures fall through to the wrapped store.
type EventStore struct {
	pollengine.Store
	cache Cache
	ttl   time.Duration
}

func NewEventStore(store pollengine.Store, c Cache, ttl time.Duration) *EventStore {
	return &EventStore{Store: store, cache: c, ttl: ttl}
}

func (s *EventStore) GetEvent(ctx context.Context, eventID models.ID) (models.Event, error) {
	key := eventKey(eventID)

	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("event cache read failed", "event_id", eventID, "error", err)
	}
	if ok {
		var event models.Event
		if err := json.Unmarshal(data, &event); err == nil {
			return event, nil
		}
		slog.Warn("discarding corrupt cached event", "event_id", eventID)
	}

	event, err := s.Store.GetEvent(ctx, eventID)
	if err != nil {
		return models.Event{}, err
	}

	if data, err := json.Marshal(event); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			slog.Warn("event cache write failed", "event_id", eventID, "error", err)
		}
	}
	return event, nil
}

func (s *EventStore) UpdateEvent(ctx context.Context, eventID models.ID, update models.EventUpdate) (models.Event, error) {
	event, err := s.Store.UpdateEvent(ctx, eventID, update)
	if err != nil {
		return models.Event{}, err
	}
	if err := s.cache.Delete(ctx, eventKey(eventID)); err != nil {
		slog.Warn("event cache invalidation failed", "event_id", eventID, "error", err)
	}
	return event, nil
}

func eventKey(eventID models.ID) string {
	return "planora:event:" + string(eventID)
}
