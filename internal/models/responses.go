package models

import "time"

// HealthResponse represents the health check response
// @Description Health check response payload
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`
	Version   string    `json:"version" example:"1.0.0"`
	Timestamp time.Time `json:"timestamp"`
}

// DBHealthResponse represents the database health check response
// @Description Database health check response payload
type DBHealthResponse struct {
	Status    string        `json:"status" example:"healthy"`
	Connected bool          `json:"connected" example:"true"`
	Latency   time.Duration `json:"latency_ns"`
	Timestamp time.Time     `json:"timestamp"`
	Error     string        `json:"error,omitempty" example:""`
}

// StatusResponse is the generic success/error wrapper for writes
// @Description Generic operation result payload
type StatusResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty" example:""`
}

// TicketListResponse represents one page of the filtered ticket list
// @Description Ticket list page payload
type TicketListResponse struct {
	Success bool     `json:"success" example:"true"`
	Tickets []Ticket `json:"tickets"`
	Page    int      `json:"page"`
	HasMore bool     `json:"has_more"`
	Error   string   `json:"error,omitempty" example:""`
}

// TicketDetailResponse represents a single ticket with its messages
// @Description Ticket detail payload
type TicketDetailResponse struct {
	Success  bool      `json:"success" example:"true"`
	Ticket   *Ticket   `json:"ticket,omitempty"`
	Messages []Message `json:"messages,omitempty"`
	Error    string    `json:"error,omitempty" example:""`
}

// DashboardResponse represents the analytics aggregate payload
// @Description Dashboard aggregate payload
type DashboardResponse struct {
	Success bool              `json:"success" example:"true"`
	Summary *DashboardSummary `json:"summary,omitempty"`
	Error   string            `json:"error,omitempty" example:""`
}

// ProjectListResponse lists the project/game mappings
type ProjectListResponse struct {
	Success  bool      `json:"success" example:"true"`
	Projects []Project `json:"projects"`
	Error    string    `json:"error,omitempty" example:""`
}

// TagListResponse lists the tag definitions
type TagListResponse struct {
	Success bool            `json:"success" example:"true"`
	Tags    []TagDefinition `json:"tags"`
	Error   string          `json:"error,omitempty" example:""`
}

// QuickReplyListResponse lists the saved quick replies
type QuickReplyListResponse struct {
	Success bool         `json:"success" example:"true"`
	Replies []QuickReply `json:"replies"`
	Error   string       `json:"error,omitempty" example:""`
}

// AlertSettingsResponse lists the alert configuration rows
type AlertSettingsResponse struct {
	Success  bool           `json:"success" example:"true"`
	Settings []AlertSetting `json:"settings"`
	Error    string         `json:"error,omitempty" example:""`
}

// ReportSettingsResponse lists the report configuration rows
type ReportSettingsResponse struct {
	Success  bool            `json:"success" example:"true"`
	Settings []ReportSetting `json:"settings"`
	Error    string          `json:"error,omitempty" example:""`
}

// ProfileResponse carries an agent profile
type ProfileResponse struct {
	Success bool          `json:"success" example:"true"`
	Profile *AgentProfile `json:"profile,omitempty"`
	Error   string        `json:"error,omitempty" example:""`
}

// BoardResponse carries one key-value board entry as raw JSON
type BoardResponse struct {
	Success bool        `json:"success" example:"true"`
	Key     string      `json:"key"`
	Value   interface{} `json:"value"`
	Error   string      `json:"error,omitempty" example:""`
}
