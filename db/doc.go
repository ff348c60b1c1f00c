// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles schema creation and the SQL store.

# Schema Creation

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).

# Tables

  - app_user: User profiles used for display names
  - event: Events with the date, location and status polls decide
  - event_member: Roster with owner, manager or member role
  - poll: Poll metadata, lifecycle and the votes document
  - option: Options per poll, ordered by position

# Relationships

	app_user ─┬─< event (owner_id)
	          └─< event_member >── event ──< poll ──< option

# Store

Store implements pollengine.Store plus the user, event, membership and poll
queries the handlers need:

	store := db.NewStore(conn)
	poll, err := store.GetPoll(ctx, pollID)

Votes and final_result are JSON text columns rewritten as a whole on every
update, so concurrent vote writes on one poll are last-write-wins. Updates
with RequireActive only apply while is_active is set and fail with
models.ErrConflict otherwise. Votes are
decoded through pollengine.NormalizeVotes, which also accepts the legacy
{optionId: {userId: voteType}} shape.

# Errors

Missing rows come back wrapping models.ErrNotFound. Driver errors are wrapped
in *models.UpstreamError; PostgreSQL resource errors (class 53, 57P03) and
SQLite busy errors are marked RateLimited with DefaultRetryAfter.
*/
package db
