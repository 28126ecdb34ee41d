package models

import "time"

// Alert setting keys
const (
	AlertVolumeSpike    = "volume_spike"
	AlertAngryToday     = "angry_today"
	AlertOpenImportant  = "open_important"
	AlertResolutionRate = "resolution_rate"
)

// AlertSetting is a keyed configuration row driving webhook alerts
type AlertSetting struct {
	ID         int64     `db:"id" json:"id"`
	Key        string    `db:"key" json:"key"`
	Enabled    bool      `db:"enabled" json:"enabled"`
	Threshold  float64   `db:"threshold" json:"threshold"`
	WebhookURL string    `db:"webhook_url" json:"webhook_url"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Report frequencies
const (
	ReportDaily  = "daily"
	ReportWeekly = "weekly"
)

// ReportSetting drives the scheduled Discord summary posts
type ReportSetting struct {
	ID         int64     `db:"id" json:"id"`
	Frequency  string    `db:"frequency" json:"frequency"` // daily, weekly
	Enabled    bool      `db:"enabled" json:"enabled"`
	Hour       int       `db:"hour" json:"hour"` // Local hour the report fires at
	WebhookURL string    `db:"webhook_url" json:"webhook_url"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// AgentProfile holds per-agent display data (name, avatar)
type AgentProfile struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
