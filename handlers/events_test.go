// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielhkuo/planora/models"
	"github.com/danielhkuo/planora/testutil"
)

func TestCreateEvent(t *testing.T) {
	env := newTestEnv(t)
	handler := NewEventHandler(env.store, env.engine, env.cfg)

	owner, token := testutil.CreateTestUser(t, env.store, env.cfg, "Ada", "Lovelace")

	t.Run("valid event", func(t *testing.T) {
		w := serve(handler.CreateEvent, "POST", "/events", "",
			models.CreateEventRequest{Title: "Team offsite", Description: "Annual"}, token)
		testutil.AssertStatus(t, w, http.StatusCreated)

		var event models.Event
		testutil.AssertJSON(t, w, &event)
		if event.OwnerID != owner.ID {
			t.Errorf("Expected owner %s, got %s", owner.ID, event.OwnerID)
		}
		if event.Status != models.EventStatusPlanning {
			t.Errorf("Expected status planning, got %s", event.Status)
		}

		// The owner is on the roster
		members, err := env.store.ListEventMembers(context.Background(), event.ID, models.MemberFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(members) != 1 || members[0].UserID != owner.ID || members[0].Role != models.RoleOwner {
			t.Errorf("Expected owner membership, got %+v", members)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		w := serve(handler.CreateEvent, "POST", "/events", "", models.CreateEventRequest{Title: " "}, token)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := serve(handler.CreateEvent, "POST", "/events", "", models.CreateEventRequest{Title: "x"}, "")
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

func TestGetEvent(t *testing.T) {
	env := newTestEnv(t)
	handler := NewEventHandler(env.store, env.engine, env.cfg)

	owner, ownerToken := testutil.CreateTestUser(t, env.store, env.cfg, "Ada", "Lovelace")
	member, memberToken := testutil.CreateTestUser(t, env.store, env.cfg, "Grace", "Hopper")
	_, outsiderToken := testutil.CreateTestUser(t, env.store, env.cfg, "Alan", "Turing")
	event := testutil.CreateTestEvent(t, env.store, owner.ID)
	testutil.AddTestMember(t, env.store, event.ID, member.ID, models.RoleMember)

	tests := []struct {
		name           string
		eventID        models.ID
		token          string
		expectedStatus int
	}{
		{"owner", event.ID, ownerToken, http.StatusOK},
		{"member", event.ID, memberToken, http.StatusOK},
		{"outsider", event.ID, outsiderToken, http.StatusForbidden},
		{"unknown event", "missing", ownerToken, http.StatusNotFound},
		{"no token", event.ID, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(handler.GetEvent, "GET", "/events/"+string(tt.eventID), string(tt.eventID), nil, tt.token)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestAddMember(t *testing.T) {
	env := newTestEnv(t)
	handler := NewEventHandler(env.store, env.engine, env.cfg)

	owner, ownerToken := testutil.CreateTestUser(t, env.store, env.cfg, "Ada", "Lovelace")
	manager, managerToken := testutil.CreateTestUser(t, env.store, env.cfg, "Grace", "Hopper")
	member, memberToken := testutil.CreateTestUser(t, env.store, env.cfg, "Alan", "Turing")
	newcomer, _ := testutil.CreateTestUser(t, env.store, env.cfg, "Edsger", "Dijkstra")
	event := testutil.CreateTestEvent(t, env.store, owner.ID)
	testutil.AddTestMember(t, env.store, event.ID, manager.ID, models.RoleManager)
	testutil.AddTestMember(t, env.store, event.ID, member.ID, models.RoleMember)

	tests := []struct {
		name           string
		token          string
		requestBody    models.AddMemberRequest
		expectedStatus int
	}{
		{"owner adds member", ownerToken, models.AddMemberRequest{UserID: newcomer.ID}, http.StatusCreated},
		{"manager promotes member", managerToken, models.AddMemberRequest{UserID: newcomer.ID, Role: models.RoleManager}, http.StatusCreated},
		{"member cannot add", memberToken, models.AddMemberRequest{UserID: newcomer.ID}, http.StatusForbidden},
		{"unknown user", ownerToken, models.AddMemberRequest{UserID: "ghost"}, http.StatusNotFound},
		{"invalid role", ownerToken, models.AddMemberRequest{UserID: newcomer.ID, Role: "admin"}, http.StatusBadRequest},
		{"missing user", ownerToken, models.AddMemberRequest{}, http.StatusBadRequest},
		{"owner cannot be demoted", managerToken, models.AddMemberRequest{UserID: owner.ID, Role: models.RoleMember}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(handler.AddMember, "POST", "/events/"+string(event.ID)+"/members", string(event.ID), tt.requestBody, tt.token)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	members, err := env.store.ListEventMembers(context.Background(), event.ID, models.MemberFilter{UserID: newcomer.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 1 || members[0].Role != models.RoleManager {
		t.Errorf("Expected newcomer to end up a manager, got %+v", members)
	}
}

func TestListMembers(t *testing.T) {
	env := newTestEnv(t)
	handler := NewEventHandler(env.store, env.engine, env.cfg)

	owner, ownerToken := testutil.CreateTestUser(t, env.store, env.cfg, "Ada", "Lovelace")
	member, _ := testutil.CreateTestUser(t, env.store, env.cfg, "Grace", "Hopper")
	_, outsiderToken := testutil.CreateTestUser(t, env.store, env.cfg, "Alan", "Turing")
	event := testutil.CreateTestEvent(t, env.store, owner.ID)
	testutil.AddTestMember(t, env.store, event.ID, member.ID, models.RoleMember)

	t.Run("full roster with profiles", func(t *testing.T) {
		w := serve(handler.ListMembers, "GET", "/events/"+string(event.ID)+"/members", string(event.ID), nil, ownerToken)
		testutil.AssertStatus(t, w, http.StatusOK)

		var members []models.Membership
		testutil.AssertJSON(t, w, &members)
		if len(members) != 2 {
			t.Fatalf("Expected 2 members, got %d", len(members))
		}
		if members[1].Profile.FirstName != "Grace" {
			t.Errorf("Expected profile to be joined, got %+v", members[1].Profile)
		}
	})

	t.Run("role filter", func(t *testing.T) {
		w := serve(handler.ListMembers, "GET", "/events/"+string(event.ID)+"/members?role=owner,manager", string(event.ID), nil, ownerToken)
		testutil.AssertStatus(t, w, http.StatusOK)

		var members []models.Membership
		testutil.AssertJSON(t, w, &members)
		if len(members) != 1 || members[0].UserID != owner.ID {
			t.Errorf("Expected only the owner, got %+v", members)
		}
	})

	t.Run("outsider", func(t *testing.T) {
		w := serve(handler.ListMembers, "GET", "/events/"+string(event.ID)+"/members", string(event.ID), nil, outsiderToken)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})
}
