// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Planora API server.

Planora is a group event planner. Event members vote yes, no or maybe on
the options of date, location and generic polls; an owner or manager then
finalizes a poll, which writes the chosen date or location back to the event.

# Starting the Server

	DATABASE_URL=file:planora.db TOKEN_SALT=dev go run .

Or against PostgreSQL:

	go run . -t postgres -d "postgres://..." -token-salt dev

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - TOKEN_SALT (-token-salt): Secret for user token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - REDIS_URL (-redis): Redis event cache; in-memory cache otherwise
  - KAFKA_BROKERS, KAFKA_TOPIC: publish poll.vote_cast and poll.finalized
    events to Kafka; logged otherwise

A .env file in the working directory is loaded first when present.

# Architecture

  - pollengine: vote ledger, aggregation, finalization and their orchestration
  - handlers: HTTP request handlers (users, events, polls, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, auth, JSON and error helpers
  - models: Domain, request and response types, domain errors
  - auth: User tokens and event permission checks
  - db: Schema and the SQL store
  - cache: Event read-through cache (Redis or in memory)
  - events: Domain event publishing (Kafka or log)
  - cliparse: Configuration parsing
*/
package main
