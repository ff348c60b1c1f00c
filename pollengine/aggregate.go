// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollengine

import (
	"strings"

	"github.com/danielhkuo/planora/models"
)

// fallbackNamePrefix labels voters missing from the membership roster
const fallbackNamePrefix = "participant "

// TallyOption counts yes/no/maybe votes on an option
func TallyOption(poll models.Poll, optionID models.ID) models.Tally {
	optionID = models.NormalizeID(string(optionID))

	var tally models.Tally
	for _, v := range poll.Votes {
		if v.OptionID != optionID {
			continue
		}
		switch v.VoteType {
		case models.VoteYes:
			tally.Yes++
		case models.VoteNo:
			tally.No++
		case models.VoteMaybe:
			tally.Maybe++
		}
	}
	return tally
}

// VotersFor lists who cast voteType on optionID, in ledger order, with names
// resolved against the event's membership roster
func VotersFor(poll models.Poll, optionID models.ID, voteType string, members []models.Membership) []models.Voter {
	optionID = models.NormalizeID(string(optionID))

	profiles := make(map[models.ID]models.User, len(members))
	for _, m := range members {
		profile := m.Profile
		profile.ID = m.UserID
		profiles[m.UserID] = profile
	}

	voters := []models.Voter{}
	for _, v := range poll.Votes {
		if v.OptionID != optionID || v.VoteType != voteType {
			continue
		}
		profile, ok := profiles[v.UserID]
		if !ok {
			profile = models.User{ID: v.UserID}
		}
		voters = append(voters, models.Voter{ID: v.UserID, Name: DisplayName(profile)})
	}
	return voters
}

// DisplayName resolves a user's display name.
// Precedence: first+last name, then name, display name, full name, username,
// email, and finally "participant <first 6 chars of id>".
func DisplayName(u models.User) string {
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full != "" {
		return full
	}

	for _, candidate := range []string{u.Name, u.DisplayName, u.FullName, u.Username, u.Email} {
		if c := strings.TrimSpace(candidate); c != "" {
			return c
		}
	}

	id := string(u.ID)
	if r := []rune(id); len(r) > 6 {
		id = string(r[:6])
	}
	return fallbackNamePrefix + id
}

// Summarize computes per-option tallies and voter rosters for a poll
func Summarize(poll models.Poll, members []models.Membership) models.PollResults {
	voters := make(map[models.ID]struct{})
	for _, v := range poll.Votes {
		voters[v.UserID] = struct{}{}
	}

	options := make([]models.OptionResult, 0, len(poll.Options))
	for _, opt := range poll.Options {
		options = append(options, models.OptionResult{
			Option: opt,
			Tally:  TallyOption(poll, opt.ID),
			Yes:    VotersFor(poll, opt.ID, models.VoteYes, members),
			No:     VotersFor(poll, opt.ID, models.VoteNo, members),
			Maybe:  VotersFor(poll, opt.ID, models.VoteMaybe, members),
		})
	}

	return models.PollResults{
		PollID:      poll.ID,
		IsActive:    poll.IsActive,
		FinalResult: poll.FinalResult,
		VoterCount:  len(voters),
		Options:     options,
	}
}
