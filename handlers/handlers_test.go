// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/planora/cliparse"
	"github.com/danielhkuo/planora/db"
	"github.com/danielhkuo/planora/models"
	"github.com/danielhkuo/planora/pollengine"
	"github.com/danielhkuo/planora/testutil"
)

type testEnv struct {
	store  *db.Store
	engine *pollengine.Engine
	pub    *testutil.RecordingPublisher
	cfg    cliparse.Config
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	store := db.NewStore(testutil.SetupTestDB(t))
	engine, pub := testutil.NewTestEngine(store)
	return testEnv{store: store, engine: engine, pub: pub, cfg: testutil.GetTestConfig()}
}

// serve runs handler against a request carrying token and the {id} path value
func serve(handler http.HandlerFunc, method, path, id string, body interface{}, token string) *httptest.ResponseRecorder {
	headers := map[string]string{}
	if token != "" {
		headers = testutil.AuthHeader(token)
	}
	req := testutil.MakeRequest(method, path, body, headers)
	if id != "" {
		req.SetPathValue("id", id)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func (e testEnv) mustPoll(t *testing.T, pollID models.ID) models.Poll {
	t.Helper()
	poll, err := e.store.GetPoll(context.Background(), pollID)
	if err != nil {
		t.Fatalf("Failed to load poll: %v", err)
	}
	return poll
}

func (e testEnv) mustEvent(t *testing.T, eventID models.ID) models.Event {
	t.Helper()
	event, err := e.store.GetEvent(context.Background(), eventID)
	if err != nil {
		t.Fatalf("Failed to load event: %v", err)
	}
	return event
}
