// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollengine

import (
	"fmt"
	"time"

	"github.com/danielhkuo/planora/models"
)

// VoteOutcome is the result of casting a vote
type VoteOutcome struct {
	Votes []models.Vote
	// UserVote is the caller's effective vote on the option, nil when the
	// cast retracted it
	UserVote *string
}

// ValidVoteType reports whether t is yes, no or maybe
func ValidVoteType(t string) bool {
	switch t {
	case models.VoteYes, models.VoteNo, models.VoteMaybe:
		return true
	}
	return false
}

// ApplyVote records, replaces or retracts userID's vote on optionID.
// The returned Votes slice is never nil.
func ApplyVote(poll models.Poll, userID models.ID, userName string, optionID models.ID, voteType string, now time.Time) (VoteOutcome, error) {
	userID = models.NormalizeID(string(userID))
	optionID = models.NormalizeID(string(optionID))

	if userID == "" {
		return VoteOutcome{}, fmt.Errorf("%w: user id is required", models.ErrValidation)
	}
	if optionID == "" {
		return VoteOutcome{}, fmt.Errorf("%w: optionId is required", models.ErrValidation)
	}
	if !ValidVoteType(voteType) {
		return VoteOutcome{}, fmt.Errorf("%w: voteType must be one of yes, no, maybe", models.ErrValidation)
	}
	if _, ok := poll.FindOption(optionID); !ok {
		return VoteOutcome{}, fmt.Errorf("%w: option %s", models.ErrNotFound, optionID)
	}

	sameVote := false
	for _, v := range poll.Votes {
		if v.UserID == userID && v.OptionID == optionID && v.VoteType == voteType {
			sameVote = true
			break
		}
	}

	votes := make([]models.Vote, 0, len(poll.Votes)+1)
	for _, v := range poll.Votes {
		if v.UserID != userID {
			votes = append(votes, v)
			continue
		}
		// The slot on this option is always cleared
		if v.OptionID == optionID {
			continue
		}
		// Single-choice polls drop the user's other votes, unless this cast is a retraction
		if !sameVote && !poll.AllowMultiple {
			continue
		}
		votes = append(votes, v)
	}

	if sameVote {
		return VoteOutcome{Votes: votes}, nil
	}

	votes = append(votes, models.Vote{
		UserID:    userID,
		UserName:  userName,
		OptionID:  optionID,
		VoteType:  voteType,
		Timestamp: now,
	})
	effective := voteType
	return VoteOutcome{Votes: votes, UserVote: &effective}, nil
}
