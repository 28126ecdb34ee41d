package tickets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ticketdesk/internal/models"
	"ticketdesk/internal/realtime"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a ticket id does not exist
var ErrNotFound = errors.New("ticket not found")

// Store owns all ticket, message and user persistence. Writes publish
// a change event to the hub so mounted views re-fetch.
type Store struct {
	db     *sqlx.DB
	hub    *realtime.Hub
	logger zerolog.Logger
}

// NewStore creates a ticket store. hub may be nil in tests.
func NewStore(db *sqlx.DB, hub *realtime.Hub, logger zerolog.Logger) *Store {
	return &Store{db: db, hub: hub, logger: logger}
}

func (s *Store) publish(op string) {
	if s.hub != nil {
		s.hub.Publish(realtime.TableTickets, op)
	}
}

// ListPage executes the built filter query for one page
func (s *Store) ListPage(ctx context.Context, f FilterState, now time.Time, page int) ([]models.Ticket, error) {
	var matched []int64
	if strings.TrimSpace(f.Search) != "" {
		ids, err := s.SearchUserIDs(ctx, f.Search)
		if err != nil {
			return nil, err
		}
		matched = ids
	}

	query, args := BuildQuery(f, now, matched, page)
	tickets := []models.Ticket{}
	if err := s.db.SelectContext(ctx, &tickets, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// SearchUserIDs is the secondary lookup resolving the search text to
// user ids whose email contains it as a case-insensitive substring.
func (s *Store) SearchUserIDs(ctx context.Context, search string) ([]int64, error) {
	ids := []int64{}
	query := s.db.Rebind(`SELECT id FROM users WHERE LOWER(email) LIKE ? ORDER BY id`)
	pattern := "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
	if err := s.db.SelectContext(ctx, &ids, query, pattern); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return ids, nil
}

// KnownProjectIDs returns every configured project id, used to decide
// whether a game selection covers the full set.
func (s *Store) KnownProjectIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	if err := s.db.SelectContext(ctx, &ids, `SELECT project_id FROM projects ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to load project ids: %w", err)
	}
	return ids, nil
}

// Get returns one ticket with its submitter email
func (s *Store) Get(ctx context.Context, id int64) (*models.Ticket, error) {
	var t models.Ticket
	query := s.db.Rebind(`SELECT ` + listColumns + `
		FROM tickets t JOIN users u ON u.id = t.user_id WHERE t.id = ?`)
	if err := s.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &t, nil
}

// Messages returns a ticket's messages ordered oldest-first
func (s *Store) Messages(ctx context.Context, ticketID int64) ([]models.Message, error) {
	msgs := []models.Message{}
	query := s.db.Rebind(`SELECT id, ticket_id, content, translated, sender, created_at
		FROM messages WHERE ticket_id = ? ORDER BY created_at ASC, id ASC`)
	if err := s.db.SelectContext(ctx, &msgs, query, ticketID); err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	return msgs, nil
}

// InboundTicket is the payload for a new customer submission
type InboundTicket struct {
	Email      string
	Subject    string
	Message    string
	Lang       string
	ProjectID  *string
	GameState  models.Snapshot
	DeviceInfo models.Snapshot
}

// Create inserts a new ticket from a first inbound message, lazily
// creating the submitting user and assigning the next ticket number.
func (s *Store) Create(ctx context.Context, in InboundTicket) (*models.Ticket, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	userID, err := s.userIDForEmail(ctx, tx, in.Email)
	if err != nil {
		return nil, err
	}

	var number int64
	if err := tx.GetContext(ctx, &number,
		`SELECT COALESCE(MAX(ticket_number), 0) + 1 FROM tickets`); err != nil {
		return nil, fmt.Errorf("failed to allocate ticket number: %w", err)
	}

	var id int64
	insert := tx.Rebind(`INSERT INTO tickets
		(ticket_number, subject, message, status, importance, sentiment, lang,
		 tags, keywords, user_id, project_id, game_state, device_info)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	err = tx.GetContext(ctx, &id, insert,
		number, in.Subject, in.Message, models.StatusOpen, models.ImportanceNormal,
		models.SentimentNeutral, in.Lang, models.StringList{}, models.StringList{},
		userID, in.ProjectID, in.GameState, in.DeviceInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ticket: %w", err)
	}

	msgInsert := tx.Rebind(`INSERT INTO messages (ticket_id, content, sender) VALUES (?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, msgInsert, id, in.Message, models.SenderUser); err != nil {
		return nil, fmt.Errorf("failed to insert first message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ticket: %w", err)
	}

	s.publish(realtime.OpInsert)
	return s.Get(ctx, id)
}

// userIDForEmail finds or lazily creates the user row for an email
func (s *Store) userIDForEmail(ctx context.Context, tx *sqlx.Tx, email string) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var id int64
	err := tx.GetContext(ctx, &id, tx.Rebind(`SELECT id FROM users WHERE email = ?`), email)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up user: %w", err)
	}
	err = tx.GetContext(ctx, &id, tx.Rebind(`INSERT INTO users (email) VALUES (?) RETURNING id`), email)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// AddMessage appends a message to a ticket. A user message on a closed
// ticket reopens it and bumps the reopened counter.
func (s *Store) AddMessage(ctx context.Context, ticketID int64, content string, translated *string, sender string) (*models.Message, error) {
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	var msg models.Message
	insert := s.db.Rebind(`INSERT INTO messages (ticket_id, content, translated, sender)
		VALUES (?, ?, ?, ?) RETURNING id, ticket_id, content, translated, sender, created_at`)
	if err := s.db.GetContext(ctx, &msg, insert, ticketID, content, translated, sender); err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	if sender == models.SenderUser && ticket.Status == models.StatusClosed {
		reopen := s.db.Rebind(`UPDATE tickets SET status = ?, reopened = reopened + 1 WHERE id = ?`)
		if _, err := s.db.ExecContext(ctx, reopen, models.StatusOpen, ticketID); err != nil {
			return nil, fmt.Errorf("failed to reopen ticket: %w", err)
		}
	}

	s.publish(realtime.OpUpdate)
	return &msg, nil
}

// SetStatus sets a ticket's status to an explicit value
func (s *Store) SetStatus(ctx context.Context, id int64, status string) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}
	query := s.db.Rebind(`UPDATE tickets SET status = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	s.publish(realtime.OpUpdate)
	return nil
}

// ToggleStatus advances a ticket through the manual status cycle
func (s *Store) ToggleStatus(ctx context.Context, id int64) (string, error) {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	next := models.NextStatus(ticket.Status)
	if err := s.SetStatus(ctx, id, next); err != nil {
		return "", err
	}
	return next, nil
}

// BulkSetStatus updates the status of every ticket in the selection
func (s *Store) BulkSetStatus(ctx context.Context, ids []int64, status string) error {
	if len(ids) == 0 {
		return nil
	}
	if !models.ValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}
	query, args, err := sqlx.In(`UPDATE tickets SET status = ? WHERE id IN (?)`, status, ids)
	if err != nil {
		return fmt.Errorf("failed to build bulk update: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to bulk update status: %w", err)
	}
	s.publish(realtime.OpUpdate)
	return nil
}

// BulkDelete hard-deletes every ticket in the selection
func (s *Store) BulkDelete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM tickets WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("failed to build bulk delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to bulk delete: %w", err)
	}
	s.publish(realtime.OpDelete)
	return nil
}

// Snapshot returns every ticket in the window, newest first, without
// pagination. The aggregator consumes this.
func (s *Store) Snapshot(ctx context.Context, from, to *time.Time) ([]models.Ticket, error) {
	var conds []string
	var args []interface{}
	if from != nil {
		conds = append(conds, "t.created_at >= ?")
		args = append(args, *from)
	}
	if to != nil {
		conds = append(conds, "t.created_at < ?")
		args = append(args, *to)
	}
	query := `SELECT ` + listColumns + ` FROM tickets t JOIN users u ON u.id = t.user_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.created_at DESC, t.id DESC"

	tickets := []models.Ticket{}
	if err := s.db.SelectContext(ctx, &tickets, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return tickets, nil
}

// GameNames returns the project-id → game-name mapping
func (s *Store) GameNames(ctx context.Context) (map[string]string, error) {
	projects := []models.Project{}
	if err := s.db.SelectContext(ctx, &projects, `SELECT id, project_id, game_name, created_at FROM projects ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ProjectID] = p.GameName
	}
	return names, nil
}
