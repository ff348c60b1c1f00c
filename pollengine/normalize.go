// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollengine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/danielhkuo/planora/models"
)

// NormalizeVotes decodes a stored votes document into the canonical vote list.
//
// Two shapes are accepted:
//
//	[{"user_id": "u1", "option_id": "o1", "vote_type": "yes", ...}]  canonical
//	{"o1": {"u1": "yes"}}                                           legacy
//
// Legacy entries come out ordered by option id, then user id, and carry no
// user name or timestamp. Legacy entries with an unknown vote type are dropped.
func NormalizeVotes(raw []byte) ([]models.Vote, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []models.Vote{}, nil
	}

	switch raw[0] {
	case '[':
		votes := []models.Vote{}
		if err := json.Unmarshal(raw, &votes); err != nil {
			return nil, fmt.Errorf("failed to decode votes: %w", err)
		}
		return votes, nil

	case '{':
		var legacy map[string]map[string]string
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, fmt.Errorf("failed to decode legacy votes: %w", err)
		}
		return fromLegacy(legacy), nil
	}

	return nil, fmt.Errorf("unsupported votes document starting with %q", raw[0])
}

func fromLegacy(legacy map[string]map[string]string) []models.Vote {
	optionIDs := make([]string, 0, len(legacy))
	for optionID := range legacy {
		optionIDs = append(optionIDs, optionID)
	}
	sort.Strings(optionIDs)

	votes := []models.Vote{}
	for _, optionID := range optionIDs {
		byUser := legacy[optionID]
		userIDs := make([]string, 0, len(byUser))
		for userID := range byUser {
			userIDs = append(userIDs, userID)
		}
		sort.Strings(userIDs)

		for _, userID := range userIDs {
			voteType := byUser[userID]
			if !ValidVoteType(voteType) {
				continue
			}
			votes = append(votes, models.Vote{
				UserID:   models.NormalizeID(userID),
				OptionID: models.NormalizeID(optionID),
				VoteType: voteType,
			})
		}
	}
	return votes
}
