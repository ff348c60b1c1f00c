// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/planora/models"
)

func TestNewKafkaMessage(t *testing.T) {
	vote := "maybe"
	occurred := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := Message{
		Type:       TypeVoteCast,
		PollID:     "p1",
		EventID:    "e1",
		ActorID:    "u1",
		OptionID:   "o2",
		UserVote:   &vote,
		OccurredAt: occurred,
	}

	m, err := newKafkaMessage(msg)
	if err != nil {
		t.Fatal(err)
	}

	if string(m.Key) != "p1" {
		t.Errorf("Expected key to be the poll id, got %q", m.Key)
	}
	if !m.Time.Equal(occurred) {
		t.Errorf("Expected message time %v, got %v", occurred, m.Time)
	}
	if len(m.Headers) != 1 || m.Headers[0].Key != "type" || string(m.Headers[0].Value) != TypeVoteCast {
		t.Errorf("Unexpected headers %+v", m.Headers)
	}

	var decoded Message
	if err := json.Unmarshal(m.Value, &decoded); err != nil {
		t.Fatalf("Value is not JSON: %v", err)
	}
	if decoded.OptionID != "o2" || decoded.UserVote == nil || *decoded.UserVote != "maybe" {
		t.Errorf("Unexpected payload %+v", decoded)
	}
}

func TestNewKafkaMessage_Finalized(t *testing.T) {
	m, err := newKafkaMessage(Message{
		Type:         TypeFinalized,
		PollID:       "p1",
		EventUpdates: &models.EventUpdate{EventDate: "2026-06-13", Status: models.EventStatusFinal},
	})
	if err != nil {
		t.Fatal(err)
	}

	body := string(m.Value)
	if !strings.Contains(body, `"event_updates":{"event_date":"2026-06-13","status":"final"}`) {
		t.Errorf("Expected event updates in payload, got %s", body)
	}
	if strings.Contains(body, "user_vote") {
		t.Errorf("Finalize payload should omit user_vote, got %s", body)
	}
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := LogPublisher{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	err := pub.Publish(context.Background(), Message{Type: TypeFinalized, PollID: "p1", EventID: "e1"})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"domain event", "type=poll.finalized", "poll_id=p1", "event_id=e1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in log output %q", want, out)
		}
	}
}
