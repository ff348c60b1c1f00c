// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/planora/models"
	"github.com/danielhkuo/planora/pollengine"
)

// Store is the SQL-backed entity store. It implements pollengine.Store.
type Store struct {
	db *sql.DB
}

var _ pollengine.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection pool (for health checks)
func (s *Store) DB() *sql.DB {
	return s.db
}

// Users

func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = models.ID(uuid.NewString())
	}
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_user (id, first_name, last_name, name, display_name, full_name, username, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, u.ID, u.FirstName, u.LastName, u.Name, u.DisplayName, u.FullName, u.Username, u.Email, u.CreatedAt)
	if err != nil {
		return models.User{}, storeError("create user", err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, userID models.ID) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, name, display_name, full_name, username, email, created_at
		FROM app_user
		WHERE id = $1
	`, userID).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Name, &u.DisplayName,
		&u.FullName, &u.Username, &u.Email, &u.CreatedAt,
	)
	if err != nil {
		return models.User{}, storeError("get user", err)
	}
	return u, nil
}

// Events

// CreateEvent inserts the event and an owner membership for its owner
func (s *Store) CreateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	if e.ID == "" {
		e.ID = models.ID(uuid.NewString())
	}
	if e.Status == "" {
		e.Status = models.EventStatusPlanning
	}
	e.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Event{}, storeError("create event", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO event (id, title, description, owner_id, event_date, location, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.Title, e.Description, e.OwnerID, e.EventDate, e.Location, e.Status, e.CreatedAt)
	if err != nil {
		return models.Event{}, storeError("create event", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO event_member (event_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`, e.ID, e.OwnerID, models.RoleOwner, e.CreatedAt)
	if err != nil {
		return models.Event{}, storeError("create event owner membership", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Event{}, storeError("create event", err)
	}
	return e, nil
}

func (s *Store) GetEvent(ctx context.Context, eventID models.ID) (models.Event, error) {
	var e models.Event
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, owner_id, event_date, location, status, created_at
		FROM event
		WHERE id = $1
	`, eventID).Scan(
		&e.ID, &e.Title, &e.Description, &e.OwnerID,
		&e.EventDate, &e.Location, &e.Status, &e.CreatedAt,
	)
	if err != nil {
		return models.Event{}, storeError("get event", err)
	}
	return e, nil
}

// UpdateEvent writes the non-empty fields of update
func (s *Store) UpdateEvent(ctx context.Context, eventID models.ID, update models.EventUpdate) (models.Event, error) {
	var sets setBuilder
	if update.EventDate != "" {
		sets.add("event_date", update.EventDate)
	}
	if update.Location != "" {
		sets.add("location", update.Location)
	}
	if update.Status != "" {
		sets.add("status", update.Status)
	}
	if sets.empty() {
		return s.GetEvent(ctx, eventID)
	}

	query, args := sets.update("event", eventID)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Event{}, storeError("update event", err)
	}
	if err := requireRow(res, "update event"); err != nil {
		return models.Event{}, err
	}
	return s.GetEvent(ctx, eventID)
}

// Membership

// AddMember adds userID to the event, or changes the role of an existing member
func (s *Store) AddMember(ctx context.Context, eventID, userID models.ID, role string) (models.Membership, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_member (event_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_id) DO UPDATE SET role = excluded.role
	`, eventID, userID, role, time.Now().UTC())
	if err != nil {
		return models.Membership{}, storeError("add member", err)
	}

	members, err := s.ListEventMembers(ctx, eventID, models.MemberFilter{UserID: userID})
	if err != nil {
		return models.Membership{}, err
	}
	if len(members) == 0 {
		return models.Membership{}, fmt.Errorf("add member: %w", models.ErrNotFound)
	}
	return members[0], nil
}

// ListEventMembers returns memberships joined with member profiles, oldest first
func (s *Store) ListEventMembers(ctx context.Context, eventID models.ID, filter models.MemberFilter) ([]models.Membership, error) {
	query := `
		SELECT m.event_id, m.user_id, m.role,
		       COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.name, ''),
		       COALESCE(u.display_name, ''), COALESCE(u.full_name, ''),
		       COALESCE(u.username, ''), COALESCE(u.email, '')
		FROM event_member m
		LEFT JOIN app_user u ON u.id = m.user_id
		WHERE m.event_id = $1`
	args := []any{eventID}

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += " AND m.user_id = $" + strconv.Itoa(len(args))
	}
	if len(filter.Roles) > 0 {
		placeholders := make([]string, 0, len(filter.Roles))
		for _, role := range filter.Roles {
			args = append(args, role)
			placeholders = append(placeholders, "$"+strconv.Itoa(len(args)))
		}
		query += " AND m.role IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY m.joined_at, m.user_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("list event members", err)
	}
	defer rows.Close()

	members := []models.Membership{}
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(
			&m.EventID, &m.UserID, &m.Role,
			&m.Profile.FirstName, &m.Profile.LastName, &m.Profile.Name,
			&m.Profile.DisplayName, &m.Profile.FullName,
			&m.Profile.Username, &m.Profile.Email,
		); err != nil {
			return nil, storeError("scan event member", err)
		}
		m.Profile.ID = m.UserID
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list event members", err)
	}
	return members, nil
}

// Polls

// CreatePoll inserts a poll with its options. Options keep their order.
func (s *Store) CreatePoll(ctx context.Context, p models.Poll) (models.Poll, error) {
	if p.ID == "" {
		p.ID = models.ID(uuid.NewString())
	}
	if p.Votes == nil {
		p.Votes = []models.Vote{}
	}
	p.CreatedAt = time.Now().UTC()

	votesJSON, err := json.Marshal(p.Votes)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to encode votes: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, storeError("create poll", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, event_id, title, type, allow_multiple, is_active, votes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.EventID, p.Title, p.Type, p.AllowMultiple, p.IsActive, string(votesJSON), p.CreatedAt)
	if err != nil {
		return models.Poll{}, storeError("create poll", err)
	}

	for i, opt := range p.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO option (id, poll_id, position, label, option_date, location)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, opt.ID, p.ID, i, opt.Text, opt.Date, opt.Location)
		if err != nil {
			return models.Poll{}, storeError("create poll option", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, storeError("create poll", err)
	}
	return p, nil
}

func (s *Store) GetPoll(ctx context.Context, pollID models.ID) (models.Poll, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, event_id, title, type, allow_multiple, is_active, votes, final_result, created_at
		FROM poll
		WHERE id = $1
	`, pollID)
	p, err := scanPoll(row)
	if err != nil {
		return models.Poll{}, storeError("get poll", err)
	}

	options, err := s.listOptions(ctx, p.ID)
	if err != nil {
		return models.Poll{}, err
	}
	p.Options = options
	return p, nil
}

// ListPolls returns an event's polls, oldest first
func (s *Store) ListPolls(ctx context.Context, eventID models.ID) ([]models.Poll, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, title, type, allow_multiple, is_active, votes, final_result, created_at
		FROM poll
		WHERE event_id = $1
		ORDER BY created_at, id
	`, eventID)
	if err != nil {
		return nil, storeError("list polls", err)
	}

	polls := []models.Poll{}
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			rows.Close()
			return nil, storeError("scan poll", err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, storeError("list polls", err)
	}
	rows.Close()

	// Options are loaded after the poll rows are released
	for i := range polls {
		options, err := s.listOptions(ctx, polls[i].ID)
		if err != nil {
			return nil, err
		}
		polls[i].Options = options
	}
	return polls, nil
}

// UpdatePoll persists the non-nil fields of update. Votes are written as a
// whole document: concurrent updates are last-write-wins.
//
// With RequireActive the write is conditional on is_active in the same
// statement, so of several racing writers that close the poll only one
// succeeds and the rest get ErrConflict.
func (s *Store) UpdatePoll(ctx context.Context, pollID models.ID, update models.PollUpdate) (models.Poll, error) {
	var sets setBuilder
	if update.Votes != nil {
		votesJSON, err := json.Marshal(update.Votes)
		if err != nil {
			return models.Poll{}, fmt.Errorf("failed to encode votes: %w", err)
		}
		sets.add("votes", string(votesJSON))
	}
	if update.IsActive != nil {
		sets.add("is_active", *update.IsActive)
	}
	if update.FinalResult != nil {
		resultJSON, err := json.Marshal(update.FinalResult)
		if err != nil {
			return models.Poll{}, fmt.Errorf("failed to encode final result: %w", err)
		}
		sets.add("final_result", string(resultJSON))
	} else if update.ClearFinalResult {
		sets.add("final_result", nil)
	}
	if sets.empty() {
		return s.GetPoll(ctx, pollID)
	}

	query, args := sets.update("poll", pollID)
	if update.RequireActive {
		query += " AND is_active"
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Poll{}, storeError("update poll", err)
	}
	if err := requireRow(res, "update poll"); err != nil {
		if update.RequireActive && errors.Is(err, models.ErrNotFound) {
			// Either the poll is gone or someone else closed it first
			if _, getErr := s.GetPoll(ctx, pollID); getErr != nil {
				return models.Poll{}, getErr
			}
			return models.Poll{}, fmt.Errorf("update poll %s: %w: poll is already closed", pollID, models.ErrConflict)
		}
		return models.Poll{}, err
	}
	return s.GetPoll(ctx, pollID)
}

func (s *Store) listOptions(ctx context.Context, pollID models.ID) ([]models.Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, option_date, location
		FROM option
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, storeError("list options", err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.Text, &opt.Date, &opt.Location); err != nil {
			return nil, storeError("scan option", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list options", err)
	}
	return options, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPoll reads a poll row. Stored votes may use the legacy map shape and
// are normalized here.
func scanPoll(row rowScanner) (models.Poll, error) {
	var p models.Poll
	var votesJSON string
	var finalResultJSON sql.NullString

	err := row.Scan(
		&p.ID, &p.EventID, &p.Title, &p.Type, &p.AllowMultiple,
		&p.IsActive, &votesJSON, &finalResultJSON, &p.CreatedAt,
	)
	if err != nil {
		return models.Poll{}, err
	}

	p.Votes, err = pollengine.NormalizeVotes([]byte(votesJSON))
	if err != nil {
		return models.Poll{}, fmt.Errorf("poll %s: %w", p.ID, err)
	}

	if finalResultJSON.Valid && finalResultJSON.String != "" {
		var result models.FinalResult
		if err := json.Unmarshal([]byte(finalResultJSON.String), &result); err != nil {
			return models.Poll{}, fmt.Errorf("poll %s: failed to decode final result: %w", p.ID, err)
		}
		p.FinalResult = &result
	}
	return p, nil
}

// setBuilder assembles "UPDATE ... SET a = $1, b = $2 WHERE id = $3"
type setBuilder struct {
	columns []string
	args    []any
}

func (b *setBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.columns = append(b.columns, column+" = $"+strconv.Itoa(len(b.args)))
}

func (b *setBuilder) empty() bool {
	return len(b.columns) == 0
}

func (b *setBuilder) update(table string, id models.ID) (string, []any) {
	args := append(b.args, id)
	query := "UPDATE " + table + " SET " + strings.Join(b.columns, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))
	return query, args
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeError(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
