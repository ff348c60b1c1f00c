// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Identifiers

ID decodes from a JSON string or number, so option 7 and "7" are the same
option everywhere.

# Domain Types

  - User, Event, Membership: who plans what, and in which role
  - Poll, Option, Vote, FinalResult: the poll and its votes document
  - EventUpdate, PollUpdate: partial updates written by finalization and voting
  - Tally, Voter, OptionResult, PollResults: aggregated results

# Constants

Poll types:

	PollTypeDate, PollTypeLocation, PollTypeGeneric

Vote types:

	VoteYes, VoteNo, VoteMaybe

Roles and event status:

	RoleOwner, RoleManager, RoleMember
	EventStatusPlanning, EventStatusFinal

# Errors

ErrValidation, ErrUnauthenticated, ErrForbidden, ErrNotFound and ErrConflict
classify failures; wrap them with fmt.Errorf("%w: ...") to add detail.
UpstreamError reports storage failures, optionally rate limited.
*/
package models
