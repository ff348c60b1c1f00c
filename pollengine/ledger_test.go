// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollengine

import (
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/planora/models"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testPoll(allowMultiple bool, votes ...models.Vote) models.Poll {
	return models.Poll{
		ID:            "p1",
		EventID:       "e1",
		Type:          models.PollTypeGeneric,
		Options:       []models.Option{{ID: "o1", Text: "Pizza"}, {ID: "o2", Text: "Sushi"}, {ID: "o3", Text: "Tacos"}},
		AllowMultiple: allowMultiple,
		IsActive:      true,
		Votes:         votes,
	}
}

func vote(userID, optionID models.ID, voteType string) models.Vote {
	return models.Vote{UserID: userID, OptionID: optionID, VoteType: voteType}
}

// summary drops names and timestamps for comparisons
func summary(votes []models.Vote) []models.Vote {
	out := make([]models.Vote, 0, len(votes))
	for _, v := range votes {
		out = append(out, vote(v.UserID, v.OptionID, v.VoteType))
	}
	return out
}

func equalVotes(t *testing.T, got, want []models.Vote) {
	t.Helper()
	got = summary(got)
	if len(got) != len(want) {
		t.Fatalf("Expected %d votes %+v, got %d %+v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Vote %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestApplyVote_ToggleIdempotence(t *testing.T) {
	poll := testPoll(false)

	first, err := ApplyVote(poll, "u1", "Ada", "o1", models.VoteYes, testNow)
	if err != nil {
		t.Fatal(err)
	}
	equalVotes(t, first.Votes, []models.Vote{vote("u1", "o1", models.VoteYes)})
	if first.UserVote == nil || *first.UserVote != models.VoteYes {
		t.Errorf("Expected userVote yes, got %v", first.UserVote)
	}
	if first.Votes[0].UserName != "Ada" || !first.Votes[0].Timestamp.Equal(testNow) {
		t.Errorf("Expected name and timestamp on the new vote, got %+v", first.Votes[0])
	}

	poll.Votes = first.Votes
	second, err := ApplyVote(poll, "u1", "Ada", "o1", models.VoteYes, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if second.UserVote != nil {
		t.Errorf("Expected retraction, got userVote %s", *second.UserVote)
	}
	if second.Votes == nil || len(second.Votes) != 0 {
		t.Errorf("Expected an empty, non-nil vote list, got %#v", second.Votes)
	}
}

func TestApplyVote_ReplacesTypeOnSameOption(t *testing.T) {
	poll := testPoll(true, vote("u1", "o1", models.VoteYes), vote("u2", "o1", models.VoteNo))

	out, err := ApplyVote(poll, "u1", "Ada", "o1", models.VoteMaybe, testNow)
	if err != nil {
		t.Fatal(err)
	}
	equalVotes(t, out.Votes, []models.Vote{
		vote("u2", "o1", models.VoteNo),
		vote("u1", "o1", models.VoteMaybe),
	})
}

func TestApplyVote_SingleChoiceExclusivity(t *testing.T) {
	poll := testPoll(false,
		vote("u1", "o1", models.VoteYes),
		vote("u2", "o1", models.VoteYes),
		vote("u1", "o3", models.VoteMaybe),
	)

	out, err := ApplyVote(poll, "u1", "Ada", "o2", models.VoteNo, testNow)
	if err != nil {
		t.Fatal(err)
	}
	equalVotes(t, out.Votes, []models.Vote{
		vote("u2", "o1", models.VoteYes),
		vote("u1", "o2", models.VoteNo),
	})
}

func TestApplyVote_SingleChoiceRetractionKeepsOtherVotes(t *testing.T) {
	// Legacy data can hold several votes for one user on a single-choice poll;
	// retracting one of them leaves the rest alone
	poll := testPoll(false, vote("u1", "o1", models.VoteYes), vote("u1", "o2", models.VoteNo))

	out, err := ApplyVote(poll, "u1", "Ada", "o2", models.VoteNo, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if out.UserVote != nil {
		t.Error("Expected retraction")
	}
	equalVotes(t, out.Votes, []models.Vote{vote("u1", "o1", models.VoteYes)})
}

func TestApplyVote_MultiChoiceIndependence(t *testing.T) {
	poll := testPoll(true)

	out, err := ApplyVote(poll, "u1", "Ada", "o1", models.VoteYes, testNow)
	if err != nil {
		t.Fatal(err)
	}
	poll.Votes = out.Votes
	out, err = ApplyVote(poll, "u1", "Ada", "o2", models.VoteMaybe, testNow)
	if err != nil {
		t.Fatal(err)
	}
	equalVotes(t, out.Votes, []models.Vote{
		vote("u1", "o1", models.VoteYes),
		vote("u1", "o2", models.VoteMaybe),
	})
}

func TestApplyVote_NormalizesIDs(t *testing.T) {
	poll := testPoll(true, vote("7", "o1", models.VoteYes))

	out, err := ApplyVote(poll, " 7 ", "", " o1", models.VoteYes, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if out.UserVote != nil || len(out.Votes) != 0 {
		t.Errorf("Expected padded ids to match and retract, got %+v", out.Votes)
	}
}

func TestApplyVote_Errors(t *testing.T) {
	poll := testPoll(false, vote("u1", "o1", models.VoteYes))

	tests := []struct {
		name     string
		userID   models.ID
		optionID models.ID
		voteType string
		want     error
	}{
		{"empty user", "", "o1", models.VoteYes, models.ErrValidation},
		{"empty option", "u1", "", models.VoteYes, models.ErrValidation},
		{"bad vote type", "u1", "o1", "love", models.ErrValidation},
		{"unknown option", "u1", "o9", models.VoteYes, models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyVote(poll, tt.userID, "Ada", tt.optionID, tt.voteType, testNow)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	// The input poll is never mutated
	equalVotes(t, poll.Votes, []models.Vote{vote("u1", "o1", models.VoteYes)})
}

func TestValidVoteType(t *testing.T) {
	for _, vt := range []string{"yes", "no", "maybe"} {
		if !ValidVoteType(vt) {
			t.Errorf("Expected %q to be valid", vt)
		}
	}
	for _, vt := range []string{"", "YES", "love", "veto"} {
		if ValidVoteType(vt) {
			t.Errorf("Expected %q to be invalid", vt)
		}
	}
}
