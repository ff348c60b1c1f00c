// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"
)

// Poll type constants
const (
	PollTypeDate     = "date"
	PollTypeLocation = "location"
	PollTypeGeneric  = "generic"
)

// Vote type constants
const (
	VoteYes   = "yes"
	VoteNo    = "no"
	VoteMaybe = "maybe"
)

// Membership role constants
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleMember  = "member"
)

// Event status constants
const (
	EventStatusPlanning = "planning"
	EventStatusFinal    = "final"
)

// Request types

type RegisterUserRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	FullName    string `json:"full_name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
}

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
	Location    string `json:"location"`
}

type AddMemberRequest struct {
	UserID ID     `json:"user_id"`
	Role   string `json:"role"`
}

type CreatePollRequest struct {
	Title         string        `json:"title"`
	Type          string        `json:"type"`
	AllowMultiple bool          `json:"allow_multiple"`
	Options       []OptionInput `json:"options"`
}

type OptionInput struct {
	Text     string `json:"text"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

// Field names follow the client wire format (camelCase)
type CastVoteRequest struct {
	PollID   ID     `json:"pollId"`
	OptionID ID     `json:"optionId"`
	VoteType string `json:"voteType"`
}

// EventID is only sent by the event-scoped finalize path
type FinalizePollRequest struct {
	EventID  ID `json:"eventId,omitempty"`
	PollID   ID `json:"pollId"`
	OptionID ID `json:"optionId"`
}

// Response types

type RegisterUserResponse struct {
	UserID ID     `json:"user_id"`
	Token  string `json:"token"`
}

type CastVoteResponse struct {
	Success  bool    `json:"success"`
	PollID   ID      `json:"pollId"`
	OptionID ID      `json:"optionId"`
	UserVote *string `json:"userVote"`
}

type FinalizePollResponse struct {
	Success      bool         `json:"success"`
	PollID       ID           `json:"pollId"`
	EventUpdates EventUpdate  `json:"eventUpdates"`
	FinalResult  *FinalResult `json:"finalResult"`
}

// Domain types

type User struct {
	ID          ID        `json:"id"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	Name        string    `json:"name,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	FullName    string    `json:"full_name,omitempty"`
	Username    string    `json:"username,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Event struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     ID        `json:"owner_id"`
	EventDate   string    `json:"event_date,omitempty"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventUpdate carries the event fields a finalized poll writes back.
// Empty fields are left untouched.
type EventUpdate struct {
	EventDate string `json:"event_date,omitempty"`
	Location  string `json:"location,omitempty"`
	Status    string `json:"status,omitempty"`
}

func (u EventUpdate) IsEmpty() bool {
	return u.EventDate == "" && u.Location == "" && u.Status == ""
}

// Membership is an event_member row joined with the member's profile
type Membership struct {
	EventID ID     `json:"event_id"`
	UserID  ID     `json:"user_id"`
	Role    string `json:"role"`
	Profile User   `json:"profile"`
}

type Option struct {
	ID       ID     `json:"id"`
	Text     string `json:"text,omitempty"`
	Date     string `json:"date,omitempty"`
	Location string `json:"location,omitempty"`
}

type Vote struct {
	UserID    ID        `json:"user_id"`
	UserName  string    `json:"user_name"`
	OptionID  ID        `json:"option_id"`
	VoteType  string    `json:"vote_type"`
	Timestamp time.Time `json:"timestamp"`
}

type FinalResult struct {
	OptionID  ID        `json:"option_id"`
	DecidedBy ID        `json:"decided_by"`
	DecidedAt time.Time `json:"decided_at"`
}

type Poll struct {
	ID            ID           `json:"id"`
	EventID       ID           `json:"event_id"`
	Title         string       `json:"title"`
	Type          string       `json:"type"`
	Options       []Option     `json:"options"`
	AllowMultiple bool         `json:"allow_multiple"`
	IsActive      bool         `json:"is_active"`
	Votes         []Vote       `json:"votes"`
	FinalResult   *FinalResult `json:"final_result,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// FindOption returns the option with the given id
func (p Poll) FindOption(id ID) (Option, bool) {
	for _, opt := range p.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// PollUpdate lists the poll fields a caller persists. Nil fields are left untouched.
type PollUpdate struct {
	Votes       []Vote
	IsActive    *bool
	FinalResult *FinalResult

	// ClearFinalResult removes a stored final result. Ignored when FinalResult is set.
	ClearFinalResult bool

	// RequireActive applies the update only while the poll is still active.
	// Stores fail with ErrConflict when the poll has already been closed.
	RequireActive bool
}

// MemberFilter narrows ListEventMembers. Zero value lists everyone.
type MemberFilter struct {
	UserID ID
	Roles  []string
}

// Aggregation result types

type Tally struct {
	Yes   int `json:"yes"`
	No    int `json:"no"`
	Maybe int `json:"maybe"`
}

type Voter struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type OptionResult struct {
	Option Option  `json:"option"`
	Tally  Tally   `json:"tally"`
	Yes    []Voter `json:"yes"`
	No     []Voter `json:"no"`
	Maybe  []Voter `json:"maybe"`
}

type PollResults struct {
	PollID      ID             `json:"poll_id"`
	IsActive    bool           `json:"is_active"`
	FinalResult *FinalResult   `json:"final_result,omitempty"`
	VoterCount  int            `json:"voter_count"`
	Options     []OptionResult `json:"options"`
}

// Error response

type ErrorResponse struct {
	Error string `json:"error"`
}
