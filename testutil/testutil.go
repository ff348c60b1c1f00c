// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/planora/auth"
	"github.com/danielhkuo/planora/cache"
	"github.com/danielhkuo/planora/cliparse"
	"github.com/danielhkuo/planora/db"
	"github.com/danielhkuo/planora/events"
	"github.com/danielhkuo/planora/models"
	"github.com/danielhkuo/planora/pollengine"
)

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every connection to :memory: is a separate database
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		TokenSalt:    "test-token-salt",
		KafkaTopic:   cliparse.DefaultKafkaTopic,
	}
}

// FixedClock always returns the same instant
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

// RecordingPublisher keeps published messages for assertions
type RecordingPublisher struct {
	mu       sync.Mutex
	messages []events.Message
}

func (p *RecordingPublisher) Publish(_ context.Context, msg events.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *RecordingPublisher) Messages() []events.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Message(nil), p.messages...)
}

// NewTestEngine wires an engine over store the way main does, with an
// in-memory event cache and a recording publisher
func NewTestEngine(store *db.Store) (*pollengine.Engine, *RecordingPublisher) {
	pub := &RecordingPublisher{}
	return &pollengine.Engine{
		Store:       cache.NewEventStore(store, cache.NewMemory(), cache.EventTTL),
		CanFinalize: auth.CanFinalize,
		Publisher:   pub,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, pub
}

// CreateTestUser registers a user and returns it with a bearer token
func CreateTestUser(t *testing.T, store *db.Store, cfg cliparse.Config, firstName, lastName string) (models.User, string) {
	t.Helper()

	user, err := store.CreateUser(context.Background(), models.User{FirstName: firstName, LastName: lastName})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user, auth.GenerateUserToken(user.ID, cfg.TokenSalt)
}

// CreateTestEvent creates an event owned by ownerID
func CreateTestEvent(t *testing.T, store *db.Store, ownerID models.ID) models.Event {
	t.Helper()

	event, err := store.CreateEvent(context.Background(), models.Event{
		Title:   "Team offsite",
		OwnerID: ownerID,
	})
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	return event
}

// AddTestMember adds userID to the event with role
func AddTestMember(t *testing.T, store *db.Store, eventID, userID models.ID, role string) {
	t.Helper()

	if _, err := store.AddMember(context.Background(), eventID, userID, role); err != nil {
		t.Fatalf("Failed to add test member: %v", err)
	}
}

// CreateTestPoll creates an active poll of pollType with the given options.
// Option ids are "opt-1", "opt-2", ... in order.
func CreateTestPoll(t *testing.T, store *db.Store, eventID models.ID, pollType string, allowMultiple bool, options ...models.Option) models.Poll {
	t.Helper()

	for i := range options {
		if options[i].ID == "" {
			options[i].ID = models.ID("opt-" + strconv.Itoa(i+1))
		}
	}

	poll, err := store.CreatePoll(context.Background(), models.Poll{
		EventID:       eventID,
		Title:         "Test Poll",
		Type:          pollType,
		Options:       options,
		AllowMultiple: allowMultiple,
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// AuthHeader builds the Authorization header for token
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
