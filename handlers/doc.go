// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Planora API.

# Handler Types

  - UserHandler: Registration and the caller's profile
  - EventHandler: Events and their membership roster
  - PollHandler: Poll creation and retrieval
  - VotingHandler: Vote casting and poll finalization
  - ResultsHandler: Tallies and voter rosters

Handlers are created with the SQL store, the poll engine and the config:

	votingHandler := handlers.NewVotingHandler(store, engine, cfg)

Every endpoint except registration requires "Authorization: Bearer <token>".
Reading an event, its polls or results requires being its owner or a member.

# Voting

	POST /polls/vote {pollId, optionId, voteType}

voteType is yes, no or maybe. Repeating the caller's current vote on an
option retracts it and the response carries "userVote": null. On polls that
do not allow multiple choices a new vote replaces the caller's votes on
other options. Date and location polls always allow multiple choices.

# Finalization

	POST /polls/finalize {pollId, optionId}
	POST /polls/finalize {eventId, pollId, optionId}

Only the event owner or a manager may finalize. A date poll sets the event
date and marks the event final; a location poll sets the event location;
a generic poll only records its final result. Finalizing a closed poll is a
409 Conflict.
*/
package handlers
