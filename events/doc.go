// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package events publishes poll domain events: poll.vote_cast after a vote
// is stored and poll.finalized after a poll is decided. KafkaPublisher sends
// them to a topic keyed by poll id; LogPublisher only logs them.
package events
