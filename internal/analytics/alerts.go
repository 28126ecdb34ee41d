package analytics

import (
	"fmt"

	"ticketdesk/internal/models"
)

// Thresholds configure the derived-alert heuristics. Zero values fall
// back to the defaults below. A key present in Disabled suppresses
// that condition entirely.
type Thresholds struct {
	VolumeChangePct   float64 // Day-over-day change that flags a spike
	OpenImportant     int     // Open+important count that flags a backlog
	ResolutionRatePct float64 // Resolution rate below this flags a lag

	Disabled map[string]bool // Alert setting keys switched off
}

// Default thresholds used when no alert settings row overrides them
const (
	DefaultVolumeChangePct   = 50.0
	DefaultOpenImportant     = 5
	DefaultResolutionRatePct = 40.0
)

func (t Thresholds) withDefaults() Thresholds {
	if t.VolumeChangePct == 0 {
		t.VolumeChangePct = DefaultVolumeChangePct
	}
	if t.OpenImportant == 0 {
		t.OpenImportant = DefaultOpenImportant
	}
	if t.ResolutionRatePct == 0 {
		t.ResolutionRatePct = DefaultResolutionRatePct
	}
	return t
}

func (t Thresholds) enabled(key string) bool {
	return !t.Disabled[key]
}

// DeriveAlerts evaluates the presentation-level alert heuristics over
// an aggregate. Pure: nothing is persisted or sent. When no condition
// fires, exactly one informational all-clear item is returned.
func DeriveAlerts(s models.DashboardSummary, t Thresholds) []models.AlertItem {
	t = t.withDefaults()
	var items []models.AlertItem

	if t.enabled(models.AlertVolumeSpike) {
		if s.PercentChange >= t.VolumeChangePct {
			items = append(items, models.AlertItem{
				Key:      models.AlertVolumeSpike,
				Severity: models.AlertSeverityWarning,
				Title:    "Ticket volume spike",
				Detail:   fmt.Sprintf("Tickets up %.0f%% vs yesterday (%d vs %d)", s.PercentChange, s.TodayCount, s.YesterdayCount),
			})
		} else if s.PercentChange <= -t.VolumeChangePct {
			items = append(items, models.AlertItem{
				Key:      models.AlertVolumeSpike,
				Severity: models.AlertSeverityInfo,
				Title:    "Ticket volume drop",
				Detail:   fmt.Sprintf("Tickets down %.0f%% vs yesterday (%d vs %d)", -s.PercentChange, s.TodayCount, s.YesterdayCount),
			})
		}
	}

	if t.enabled(models.AlertAngryToday) && s.AngryToday > 0 {
		items = append(items, models.AlertItem{
			Key:      models.AlertAngryToday,
			Severity: models.AlertSeverityCritical,
			Title:    "Angry customers today",
			Detail:   fmt.Sprintf("%d angry-sentiment tickets created today", s.AngryToday),
		})
	}

	if t.enabled(models.AlertOpenImportant) && s.OpenImportant >= t.OpenImportant {
		items = append(items, models.AlertItem{
			Key:      models.AlertOpenImportant,
			Severity: models.AlertSeverityWarning,
			Title:    "Important tickets piling up",
			Detail:   fmt.Sprintf("%d tickets are open and important", s.OpenImportant),
		})
	}

	if t.enabled(models.AlertResolutionRate) && s.Total > 0 && s.ResolutionRate < t.ResolutionRatePct {
		items = append(items, models.AlertItem{
			Key:      models.AlertResolutionRate,
			Severity: models.AlertSeverityWarning,
			Title:    "Resolution rate low",
			Detail:   fmt.Sprintf("Only %.0f%% of tickets are closed", s.ResolutionRate),
		})
	}

	if len(items) == 0 {
		items = append(items, models.AlertItem{
			Severity: models.AlertSeverityInfo,
			Title:    "All clear",
			Detail:   "No alert conditions are currently firing",
		})
	}

	return items
}
