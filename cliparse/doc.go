// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type (sqlite or postgres)
	-redis         Redis URL for the event cache
	-kafka-brokers Comma-separated Kafka brokers
	-kafka-topic   Kafka topic for poll events
	-token-salt    User token salt
	-env-file      Environment file (default .env)

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p (default 3318)
	DATABASE_URL  → -d
	DATABASE_TYPE → -t (default sqlite)
	REDIS_URL     → -redis
	KAFKA_BROKERS → -kafka-brokers
	KAFKA_TOPIC   → -kafka-topic (default planora.polls)
	TOKEN_SALT    → -token-salt

CLI flags take precedence over environment variables, and environment
variables take precedence over the env file.

# Validation

ParseFlags returns an error if DATABASE_URL or TOKEN_SALT is missing, or if
the database type is neither sqlite nor postgres.
*/
package cliparse
