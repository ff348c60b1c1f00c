// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielhkuo/planora/models"
)

// Message types
const (
	TypeVoteCast  = "poll.vote_cast"
	TypeFinalized = "poll.finalized"
)

// Message is a poll domain event
type Message struct {
	Type         string              `json:"type"`
	PollID       models.ID           `json:"poll_id"`
	EventID      models.ID           `json:"event_id"`
	ActorID      models.ID           `json:"actor_id"`
	OptionID     models.ID           `json:"option_id"`
	UserVote     *string             `json:"user_vote,omitempty"`
	EventUpdates *models.EventUpdate `json:"event_updates,omitempty"`
	OccurredAt   time.Time           `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// LogPublisher writes messages to the log. Used when no broker is configured.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, msg Message) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "domain event",
		"type", msg.Type,
		"poll_id", msg.PollID,
		"event_id", msg.EventID,
		"actor_id", msg.ActorID,
		"option_id", msg.OptionID,
	)
	return nil
}
