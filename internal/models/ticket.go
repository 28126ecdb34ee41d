package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Ticket status values
const (
	StatusOpen       = "open"
	StatusPending    = "pending"
	StatusClosed     = "closed"
	StatusDuplicated = "duplicated"
)

// Ticket importance values (set by an external classification process)
const (
	ImportanceImportant    = "important"
	ImportanceNormal       = "normal"
	ImportanceNotImportant = "not_important"
)

// Ticket sentiment values
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
	SentimentAngry    = "Angry"
)

// ValidStatus reports whether s is one of the four ticket statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusPending, StatusClosed, StatusDuplicated:
		return true
	}
	return false
}

// NextStatus returns the status the single-ticket toggle moves to.
// The toggle cycles open → closed → pending → open; a duplicated
// ticket re-enters the cycle at open. Duplicated is only ever set via
// bulk actions or an explicit status update.
func NextStatus(current string) string {
	switch current {
	case StatusOpen:
		return StatusClosed
	case StatusClosed:
		return StatusPending
	default:
		return StatusOpen
	}
}

// StringList is a JSON-encoded string slice column (tags, keywords).
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	if len(b) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(b, l)
}

// Snapshot is an open-ended key/value column (game state, device info).
type Snapshot map[string]interface{}

// Value implements driver.Valuer
func (s Snapshot) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *Snapshot) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Snapshot", src)
	}
	if len(b) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(b, s)
}

// Ticket represents a single customer support case
type Ticket struct {
	ID           int64      `db:"id" json:"id"`
	TicketNumber int64      `db:"ticket_number" json:"ticket_number"` // Human-facing sequential number
	Subject      string     `db:"subject" json:"subject"`
	Message      string     `db:"message" json:"message"` // Original inbound message text
	Status       string     `db:"status" json:"status"`
	Importance   string     `db:"importance" json:"importance"`
	Sentiment    string     `db:"sentiment" json:"sentiment"`
	Lang         string     `db:"lang" json:"lang"`
	Tags         StringList `db:"tags" json:"tags"`
	Keywords     StringList `db:"keywords" json:"keywords"`
	UserID       int64      `db:"user_id" json:"user_id"`
	UserEmail    string     `db:"user_email" json:"user_email"` // Joined from users
	ProjectID    *string    `db:"project_id" json:"project_id"` // Nil/empty displays as Unknown
	GameState    Snapshot   `db:"game_state" json:"game_state"`
	DeviceInfo   Snapshot   `db:"device_info" json:"device_info"`
	Reopened     int        `db:"reopened" json:"reopened"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Message sender roles
const (
	SenderAgent = "agent"
	SenderUser  = "user"
)

// Message belongs to exactly one ticket; append-only
type Message struct {
	ID         int64     `db:"id" json:"id"`
	TicketID   int64     `db:"ticket_id" json:"ticket_id"`
	Content    string    `db:"content" json:"content"`
	Translated *string   `db:"translated" json:"translated,omitempty"`
	Sender     string    `db:"sender" json:"sender"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// User is a ticket submitter, created lazily on first submission
type User struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Project maps an external project identifier to a game name
type Project struct {
	ID        int64     `db:"id" json:"id"`
	ProjectID string    `db:"project_id" json:"project_id"`
	GameName  string    `db:"game_name" json:"game_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UnknownGame is the display name for a missing or unmatched project id
const UnknownGame = "Unknown"

// TagDefinition is an agent-managed tag with auto-tagging keywords
type TagDefinition struct {
	ID        int64      `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Keywords  StringList `db:"keywords" json:"keywords"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// QuickReply is a canned response usable from the ticket composer
type QuickReply struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
