package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Bootstrap creates the application tables if they don't exist.
// Only runs against PostgreSQL; MySQL connections are read-only
// mirrors of an existing support database and never receive DDL.
func Bootstrap(db *sqlx.DB) error {
	if db.DriverName() != DriverPostgres {
		return nil
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         SERIAL PRIMARY KEY,
			email      TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tickets (
			id            SERIAL PRIMARY KEY,
			ticket_number BIGINT NOT NULL,
			subject       TEXT NOT NULL,
			message       TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL DEFAULT 'open',
			importance    TEXT NOT NULL DEFAULT 'normal',
			sentiment     TEXT NOT NULL DEFAULT 'Neutral',
			lang          TEXT NOT NULL DEFAULT 'en',
			tags          JSONB NOT NULL DEFAULT '[]',
			keywords      JSONB NOT NULL DEFAULT '[]',
			user_id       INT NOT NULL REFERENCES users(id),
			project_id    TEXT,
			game_state    JSONB NOT NULL DEFAULT '{}',
			device_info   JSONB NOT NULL DEFAULT '{}',
			reopened      INT NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_tickets_number ON tickets(ticket_number)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_created_at ON tickets(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_user ON tickets(user_id)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id         SERIAL PRIMARY KEY,
			ticket_id  INT NOT NULL REFERENCES tickets(id) ON DELETE CASCADE,
			content    TEXT NOT NULL,
			translated TEXT,
			sender     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_ticket ON messages(ticket_id)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id         SERIAL PRIMARY KEY,
			project_id TEXT NOT NULL UNIQUE,
			game_name  TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tag_definitions (
			id         SERIAL PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			keywords   JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS quick_replies (
			id         SERIAL PRIMARY KEY,
			title      TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS alert_settings (
			id          SERIAL PRIMARY KEY,
			key         TEXT NOT NULL UNIQUE,
			enabled     BOOLEAN NOT NULL DEFAULT FALSE,
			threshold   DOUBLE PRECISION NOT NULL DEFAULT 0,
			webhook_url TEXT NOT NULL DEFAULT '',
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS report_settings (
			id          SERIAL PRIMARY KEY,
			frequency   TEXT NOT NULL UNIQUE,
			enabled     BOOLEAN NOT NULL DEFAULT FALSE,
			hour        INT NOT NULL DEFAULT 9,
			webhook_url TEXT NOT NULL DEFAULT '',
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS agent_profiles (
			id         SERIAL PRIMARY KEY,
			email      TEXT NOT NULL UNIQUE,
			name       TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS board_entries (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to bootstrap schema: %w", err)
		}
	}

	return installChangeNotify(db)
}

// installChangeNotify wires the ticket_changes NOTIFY trigger so that
// writes from any connection (not just this process) reach subscribers.
func installChangeNotify(db *sqlx.DB) error {
	queries := []string{
		`CREATE OR REPLACE FUNCTION notify_ticket_change() RETURNS trigger AS $$
		BEGIN
			PERFORM pg_notify('ticket_changes', TG_OP);
			RETURN NULL;
		END;
		$$ LANGUAGE plpgsql`,
		`DROP TRIGGER IF EXISTS tickets_notify ON tickets`,
		`CREATE TRIGGER tickets_notify
			AFTER INSERT OR UPDATE OR DELETE ON tickets
			FOR EACH STATEMENT EXECUTE FUNCTION notify_ticket_change()`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to install change trigger: %w", err)
		}
	}
	return nil
}
