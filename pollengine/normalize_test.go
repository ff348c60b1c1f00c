// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollengine

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/danielhkuo/planora/models"
)

func TestNormalizeVotes_Legacy(t *testing.T) {
	got, err := NormalizeVotes([]byte(`{"o1": {"u1": "yes"}}`))
	if err != nil {
		t.Fatal(err)
	}
	want := []models.Vote{{UserID: "u1", OptionID: "o1", VoteType: "yes"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestNormalizeVotes_LegacyOrderingAndInvalidTypes(t *testing.T) {
	raw := []byte(`{
		"o2": {"u9": "no", "u1": "maybe"},
		"o1": {"u3": "yes", "u2": "veto"}
	}`)

	got, err := NormalizeVotes(raw)
	if err != nil {
		t.Fatal(err)
	}
	want := []models.Vote{
		{UserID: "u3", OptionID: "o1", VoteType: "yes"},
		{UserID: "u1", OptionID: "o2", VoteType: "maybe"},
		{UserID: "u9", OptionID: "o2", VoteType: "no"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestNormalizeVotes_CanonicalUnchanged(t *testing.T) {
	votes := []models.Vote{
		{UserID: "u1", UserName: "Ada", OptionID: "o1", VoteType: "yes", Timestamp: testNow},
		{UserID: "u2", UserName: "Grace", OptionID: "o2", VoteType: "maybe", Timestamp: testNow},
	}
	raw, err := json.Marshal(votes)
	if err != nil {
		t.Fatal(err)
	}

	got, err := NormalizeVotes(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, votes) {
		t.Errorf("Expected canonical votes unchanged, got %+v", got)
	}
}

func TestNormalizeVotes_NumericIDs(t *testing.T) {
	got, err := NormalizeVotes([]byte(`[{"user_id": 7, "option_id": 12, "vote_type": "no"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].UserID != "7" || got[0].OptionID != "12" {
		t.Errorf("Expected numeric ids as strings, got %+v", got)
	}
}

func TestNormalizeVotes_Empty(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "[]", "{}"} {
		got, err := NormalizeVotes([]byte(raw))
		if err != nil {
			t.Errorf("%q: unexpected error %v", raw, err)
			continue
		}
		if got == nil || len(got) != 0 {
			t.Errorf("%q: expected empty non-nil list, got %#v", raw, got)
		}
	}
}

func TestNormalizeVotes_Invalid(t *testing.T) {
	for _, raw := range []string{`"yes"`, `42`, `[{"user_id": true}]`, `{"o1": "yes"}`} {
		if _, err := NormalizeVotes([]byte(raw)); err == nil {
			t.Errorf("%s: expected error", raw)
		}
	}
}
