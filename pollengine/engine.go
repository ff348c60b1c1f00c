// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollengine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/planora/events"
	"github.com/danielhkuo/planora/models"
)

// Store is the entity storage the engine reads and writes.
// Implementations return errors wrapping models.ErrNotFound for missing
// records and *models.UpstreamError for storage failures.
type Store interface {
	GetPoll(ctx context.Context, pollID models.ID) (models.Poll, error)
	UpdatePoll(ctx context.Context, pollID models.ID, update models.PollUpdate) (models.Poll, error)
	GetEvent(ctx context.Context, eventID models.ID) (models.Event, error)
	UpdateEvent(ctx context.Context, eventID models.ID, update models.EventUpdate) (models.Event, error)
	ListEventMembers(ctx context.Context, eventID models.ID, filter models.MemberFilter) ([]models.Membership, error)
}

type Clock interface {
	Now() time.Time
}

// Engine runs vote casts, finalization and result queries against a Store
type Engine struct {
	Store       Store
	CanFinalize FinalizeAuthorizer
	Publisher   events.Publisher
	Clock       Clock
	Logger      *slog.Logger
}

type CastVoteCommand struct {
	PollID   models.ID
	OptionID models.ID
	VoteType string
	UserID   models.ID
	UserName string
}

type CastVoteResult struct {
	PollID   models.ID
	OptionID models.ID
	UserVote *string
}

// FinalizeCommand selects OptionID as the outcome of PollID. EventID is
// optional; when set the poll must belong to that event.
type FinalizeCommand struct {
	EventID  models.ID
	PollID   models.ID
	OptionID models.ID
	ActorID  models.ID
}

type FinalizeResult struct {
	PollID       models.ID
	EventID      models.ID
	EventUpdates models.EventUpdate
	FinalResult  models.FinalResult
}

// CastVote toggles the caller's vote on an option and persists the new
// votes collection with a single poll write
func (e *Engine) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := e.logger()

	cmd.PollID = models.NormalizeID(string(cmd.PollID))
	cmd.OptionID = models.NormalizeID(string(cmd.OptionID))
	if cmd.UserID == "" {
		return CastVoteResult{}, models.ErrUnauthenticated
	}
	if cmd.PollID == "" || cmd.OptionID == "" || cmd.VoteType == "" {
		return CastVoteResult{}, fmt.Errorf("%w: pollId, optionId and voteType are required", models.ErrValidation)
	}
	if !ValidVoteType(cmd.VoteType) {
		return CastVoteResult{}, fmt.Errorf("%w: voteType must be one of yes, no, maybe", models.ErrValidation)
	}

	poll, err := e.Store.GetPoll(ctx, cmd.PollID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !poll.IsActive {
		return CastVoteResult{}, fmt.Errorf("%w: poll is not open for voting", models.ErrConflict)
	}

	event, err := e.Store.GetEvent(ctx, poll.EventID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if err := e.requireParticipant(ctx, event, cmd.UserID); err != nil {
		return CastVoteResult{}, err
	}

	outcome, err := ApplyVote(poll, cmd.UserID, cmd.UserName, cmd.OptionID, cmd.VoteType, e.now())
	if err != nil {
		return CastVoteResult{}, err
	}

	if _, err := e.Store.UpdatePoll(ctx, poll.ID, models.PollUpdate{Votes: outcome.Votes, RequireActive: true}); err != nil {
		logger.Error("failed to persist votes", "poll_id", poll.ID, "user_id", cmd.UserID, "error", err)
		return CastVoteResult{}, err
	}

	logger.Info("vote cast",
		"poll_id", poll.ID,
		"option_id", cmd.OptionID,
		"user_id", cmd.UserID,
		"retracted", outcome.UserVote == nil,
	)
	e.publish(ctx, events.Message{
		Type:       events.TypeVoteCast,
		PollID:     poll.ID,
		EventID:    poll.EventID,
		ActorID:    cmd.UserID,
		OptionID:   cmd.OptionID,
		UserVote:   outcome.UserVote,
		OccurredAt: e.now(),
	})

	return CastVoteResult{
		PollID:   poll.ID,
		OptionID: cmd.OptionID,
		UserVote: outcome.UserVote,
	}, nil
}

// Finalize decides a poll and applies the outcome to its event.
//
// The poll is closed first with a conditional write, which at most one of
// several racing finalizes wins; the losers get ErrConflict and never touch
// the event. The winner then writes the event. If that write fails the poll
// is reopened so the finalize can be retried.
func (e *Engine) Finalize(ctx context.Context, cmd FinalizeCommand) (FinalizeResult, error) {
	logger := e.logger()

	cmd.EventID = models.NormalizeID(string(cmd.EventID))
	cmd.PollID = models.NormalizeID(string(cmd.PollID))
	cmd.OptionID = models.NormalizeID(string(cmd.OptionID))
	if cmd.ActorID == "" {
		return FinalizeResult{}, models.ErrUnauthenticated
	}
	if cmd.PollID == "" || cmd.OptionID == "" {
		return FinalizeResult{}, fmt.Errorf("%w: pollId and optionId are required", models.ErrValidation)
	}

	poll, err := e.Store.GetPoll(ctx, cmd.PollID)
	if err != nil {
		return FinalizeResult{}, err
	}
	if cmd.EventID != "" && cmd.EventID != poll.EventID {
		return FinalizeResult{}, fmt.Errorf("%w: poll %s in event %s", models.ErrNotFound, cmd.PollID, cmd.EventID)
	}

	event, err := e.Store.GetEvent(ctx, poll.EventID)
	if err != nil {
		return FinalizeResult{}, err
	}
	memberships, err := e.Store.ListEventMembers(ctx, event.ID, models.MemberFilter{UserID: cmd.ActorID})
	if err != nil {
		return FinalizeResult{}, err
	}
	if e.CanFinalize == nil || !e.CanFinalize(cmd.ActorID, event, memberships) {
		logger.Warn("finalize denied", "poll_id", poll.ID, "actor_id", cmd.ActorID)
		return FinalizeResult{}, fmt.Errorf("%w: only the event owner or a manager can finalize polls", models.ErrForbidden)
	}

	decision, err := Decide(poll, cmd.OptionID, cmd.ActorID, e.now())
	if err != nil {
		return FinalizeResult{}, err
	}

	inactive := false
	finalResult := decision.FinalResult
	claim := models.PollUpdate{IsActive: &inactive, FinalResult: &finalResult, RequireActive: true}
	if _, err := e.Store.UpdatePoll(ctx, poll.ID, claim); err != nil {
		if !errors.Is(err, models.ErrConflict) {
			logger.Error("failed to close poll", "poll_id", poll.ID, "error", err)
		}
		return FinalizeResult{}, err
	}

	if !decision.EventUpdates.IsEmpty() {
		if _, err := e.Store.UpdateEvent(ctx, event.ID, decision.EventUpdates); err != nil {
			logger.Error("failed to apply poll outcome to event", "poll_id", poll.ID, "event_id", event.ID, "error", err)
			e.reopen(ctx, poll.ID)
			return FinalizeResult{}, err
		}
	}

	logger.Info("poll finalized",
		"poll_id", poll.ID,
		"event_id", event.ID,
		"option_id", decision.Option.ID,
		"actor_id", cmd.ActorID,
	)
	updates := decision.EventUpdates
	e.publish(ctx, events.Message{
		Type:         events.TypeFinalized,
		PollID:       poll.ID,
		EventID:      event.ID,
		ActorID:      cmd.ActorID,
		OptionID:     decision.Option.ID,
		EventUpdates: &updates,
		OccurredAt:   finalResult.DecidedAt,
	})

	return FinalizeResult{
		PollID:       poll.ID,
		EventID:      event.ID,
		EventUpdates: decision.EventUpdates,
		FinalResult:  finalResult,
	}, nil
}

// Results aggregates a poll's votes for a participant of its event
func (e *Engine) Results(ctx context.Context, pollID, actorID models.ID) (models.PollResults, error) {
	if actorID == "" {
		return models.PollResults{}, models.ErrUnauthenticated
	}

	poll, err := e.Store.GetPoll(ctx, models.NormalizeID(string(pollID)))
	if err != nil {
		return models.PollResults{}, err
	}
	event, err := e.Store.GetEvent(ctx, poll.EventID)
	if err != nil {
		return models.PollResults{}, err
	}
	if err := e.requireParticipant(ctx, event, actorID); err != nil {
		return models.PollResults{}, err
	}

	members, err := e.Store.ListEventMembers(ctx, event.ID, models.MemberFilter{})
	if err != nil {
		return models.PollResults{}, err
	}
	return Summarize(poll, members), nil
}

// reopen undoes a poll close whose event write failed
func (e *Engine) reopen(ctx context.Context, pollID models.ID) {
	active := true
	if _, err := e.Store.UpdatePoll(ctx, pollID, models.PollUpdate{IsActive: &active, ClearFinalResult: true}); err != nil {
		e.logger().Error("poll closed but event not updated", "poll_id", pollID, "error", err)
	}
}

// requireParticipant fails with ErrForbidden unless userID owns or belongs to event
func (e *Engine) requireParticipant(ctx context.Context, event models.Event, userID models.ID) error {
	if event.OwnerID == userID {
		return nil
	}
	memberships, err := e.Store.ListEventMembers(ctx, event.ID, models.MemberFilter{UserID: userID})
	if err != nil {
		return err
	}
	if len(memberships) == 0 {
		return fmt.Errorf("%w: not a participant of this event", models.ErrForbidden)
	}
	return nil
}

// Domain events are best effort; failures are only logged
func (e *Engine) publish(ctx context.Context, msg events.Message) {
	if e.Publisher == nil {
		return
	}
	if err := e.Publisher.Publish(ctx, msg); err != nil {
		e.logger().Warn("failed to publish domain event", "type", msg.Type, "poll_id", msg.PollID, "error", err)
	}
}

func (e *Engine) now() time.Time {
	if e.Clock == nil {
		return time.Now().UTC()
	}
	return e.Clock.Now()
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}
