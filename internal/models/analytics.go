package models

import "time"

// StatusCounts holds per-status ticket totals
type StatusCounts struct {
	Open    int `json:"open"`
	Pending int `json:"pending"`
	Closed  int `json:"closed"`
}

// ImportanceCounts holds per-importance ticket totals
type ImportanceCounts struct {
	Important    int `json:"important"`
	Normal       int `json:"normal"`
	NotImportant int `json:"not_important"`
}

// SentimentCounts holds the fixed four-category sentiment distribution
type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
	Angry    int `json:"angry"`
}

// NameCount is a top-N entry (game or tag frequency)
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MonthBucket is one column of the month-by-importance stacked histogram
type MonthBucket struct {
	Label        string `json:"label"` // e.g. "Mar24"
	Important    int    `json:"important"`
	Normal       int    `json:"normal"`
	NotImportant int    `json:"not_important"`
}

// Alert severity levels
const (
	AlertSeverityInfo     = "info"
	AlertSeverityWarning  = "warning"
	AlertSeverityCritical = "critical"
)

// AlertItem is a derived, presentation-level alert (not persisted).
// Key matches the alert_settings row that governs the condition and is
// empty for the all-clear item.
type AlertItem struct {
	Key      string `json:"key,omitempty"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
}

// DashboardSummary is the full aggregate computed over a ticket snapshot
type DashboardSummary struct {
	Total          int              `json:"total"`
	Statuses       StatusCounts     `json:"statuses"`
	Importances    ImportanceCounts `json:"importances"`
	Reopened       int              `json:"reopened"` // Tickets with reopened counter > 0
	HourHistogram  [24]int          `json:"hour_histogram"`
	DayHistogram   [7]int           `json:"day_histogram"` // Sunday-first
	MonthBuckets   []MonthBucket    `json:"month_buckets"`
	TopGames       []NameCount      `json:"top_games"`
	TopTags        []NameCount      `json:"top_tags"`
	Sentiments     SentimentCounts  `json:"sentiments"`
	TodayCount     int              `json:"today_count"`
	YesterdayCount int              `json:"yesterday_count"`
	PercentChange  float64          `json:"percent_change"`
	AngryToday     int              `json:"angry_today"`     // Angry-sentiment tickets created today
	OpenImportant  int              `json:"open_important"`  // Tickets both open and important
	ResolutionRate float64          `json:"resolution_rate"` // Closed / total, percent
	Alerts         []AlertItem      `json:"alerts"`
	GeneratedAt    time.Time        `json:"generated_at"`
}
