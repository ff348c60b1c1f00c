// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollengine

import (
	"fmt"
	"time"

	"github.com/danielhkuo/planora/models"
)

// FinalizeAuthorizer decides whether actorID may finalize polls of event.
// memberships holds the actor's membership rows for the event.
type FinalizeAuthorizer func(actorID models.ID, event models.Event, memberships []models.Membership) bool

// Decision is a finalized poll outcome, not yet persisted
type Decision struct {
	Option       models.Option
	EventUpdates models.EventUpdate
	FinalResult  models.FinalResult
}

// Decide selects optionID as the outcome of poll and computes the event
// fields it writes back. It fails with ErrNotFound for an unknown option and
// ErrConflict when the poll is already decided.
func Decide(poll models.Poll, optionID, actorID models.ID, now time.Time) (Decision, error) {
	optionID = models.NormalizeID(string(optionID))
	if optionID == "" {
		return Decision{}, fmt.Errorf("%w: optionId is required", models.ErrValidation)
	}

	option, ok := poll.FindOption(optionID)
	if !ok {
		return Decision{}, fmt.Errorf("%w: option %s", models.ErrNotFound, optionID)
	}
	if !poll.IsActive {
		return Decision{}, fmt.Errorf("%w: poll %s is already finalized", models.ErrConflict, poll.ID)
	}

	return Decision{
		Option:       option,
		EventUpdates: EventUpdatesFor(poll.Type, option),
		FinalResult: models.FinalResult{
			OptionID:  option.ID,
			DecidedBy: actorID,
			DecidedAt: now,
		},
	}, nil
}

// EventUpdatesFor maps a winning option onto event fields by poll type
func EventUpdatesFor(pollType string, option models.Option) models.EventUpdate {
	var updates models.EventUpdate

	switch pollType {
	case models.PollTypeDate:
		if option.Date != "" {
			updates.EventDate = option.Date
			updates.Status = models.EventStatusFinal
		}
	case models.PollTypeLocation:
		location := option.Location
		if location == "" {
			location = option.Text
		}
		updates.Location = location
	}

	return updates
}
