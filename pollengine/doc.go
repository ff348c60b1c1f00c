// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pollengine implements poll voting and finalization for Planora events.

# Vote Ledger

ApplyVote is a pure transform over a poll's votes. Casting the same vote twice
retracts it, casting a different vote replaces it:

	outcome, err := pollengine.ApplyVote(poll, userID, userName, optionID, models.VoteYes, now)
	// outcome.Votes is the new collection, outcome.UserVote is nil on retraction

When allow_multiple is false a new vote also clears the user's votes on every
other option of the poll.

# Aggregation

Tallies and voter rosters are always derived from the ledger:

	tally := pollengine.TallyOption(poll, optionID)
	voters := pollengine.VotersFor(poll, optionID, models.VoteYes, members)

NormalizeVotes upgrades the legacy {optionId: {userId: voteType}} document
shape to the canonical vote list. Stores call it when decoding, so the legacy
shape never reaches the ledger.

# Finalization

Decide picks the winning option and computes the event fields it writes back:

	date      → event_date and status "final"
	location  → location (option location, else option text)
	generic   → nothing

# Engine

Engine wires the pure functions to a Store, an injected finalize authorization
check, a Publisher for domain events and a Clock:

	engine := &pollengine.Engine{
		Store:       store,
		CanFinalize: auth.CanFinalize,
		Publisher:   publisher,
	}
	res, err := engine.CastVote(ctx, pollengine.CastVoteCommand{...})

Vote writes are whole-document overwrites of the poll votes, so two
concurrent casts on the same poll are last-write-wins. Closing a poll is a
conditional write (PollUpdate.RequireActive): of several racing finalizes one
closes the poll and writes the event, the others fail with ErrConflict.
*/
package pollengine
