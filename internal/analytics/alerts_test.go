package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdesk/internal/models"
)

func TestDeriveAlerts_AllClear(t *testing.T) {
	s := models.DashboardSummary{
		Total:          10,
		ResolutionRate: 80,
	}

	items := DeriveAlerts(s, Thresholds{})

	require.Len(t, items, 1)
	assert.Equal(t, models.AlertSeverityInfo, items[0].Severity)
	assert.Equal(t, "All clear", items[0].Title)
}

func TestDeriveAlerts_VolumeSpike(t *testing.T) {
	s := models.DashboardSummary{
		Total:          10,
		TodayCount:     6,
		YesterdayCount: 3,
		PercentChange:  100,
		ResolutionRate: 80,
	}

	items := DeriveAlerts(s, Thresholds{})

	require.Len(t, items, 1)
	assert.Equal(t, models.AlertSeverityWarning, items[0].Severity)
	assert.Equal(t, "Ticket volume spike", items[0].Title)
	assert.Contains(t, items[0].Detail, "6 vs 3")
}

func TestDeriveAlerts_VolumeDropIsInformational(t *testing.T) {
	s := models.DashboardSummary{
		Total:          10,
		TodayCount:     1,
		YesterdayCount: 4,
		PercentChange:  -75,
		ResolutionRate: 80,
	}

	items := DeriveAlerts(s, Thresholds{})

	require.Len(t, items, 1)
	assert.Equal(t, models.AlertSeverityInfo, items[0].Severity)
	assert.Equal(t, "Ticket volume drop", items[0].Title)
}

func TestDeriveAlerts_AngryIsCritical(t *testing.T) {
	s := models.DashboardSummary{
		Total:          10,
		AngryToday:     2,
		ResolutionRate: 80,
	}

	items := DeriveAlerts(s, Thresholds{})

	require.Len(t, items, 1)
	assert.Equal(t, models.AlertAngryToday, items[0].Key)
	assert.Equal(t, models.AlertSeverityCritical, items[0].Severity)
	assert.Contains(t, items[0].Detail, "2 angry-sentiment")
}

func TestDeriveAlerts_DisabledKeyIsSuppressed(t *testing.T) {
	s := models.DashboardSummary{
		Total:          10,
		AngryToday:     2,
		ResolutionRate: 80,
	}

	items := DeriveAlerts(s, Thresholds{
		Disabled: map[string]bool{models.AlertAngryToday: true},
	})

	// The only firing condition is switched off, so the all-clear
	// fallback remains
	require.Len(t, items, 1)
	assert.Equal(t, "All clear", items[0].Title)
}

func TestDeriveAlerts_DisabledKeyLeavesOthers(t *testing.T) {
	s := models.DashboardSummary{
		Total:          20,
		TodayCount:     8,
		YesterdayCount: 2,
		PercentChange:  300,
		AngryToday:     1,
		ResolutionRate: 80,
	}

	items := DeriveAlerts(s, Thresholds{
		Disabled: map[string]bool{models.AlertVolumeSpike: true},
	})

	require.Len(t, items, 1)
	assert.Equal(t, models.AlertAngryToday, items[0].Key)
}

func TestDeriveAlerts_OpenImportantBacklog(t *testing.T) {
	s := models.DashboardSummary{
		Total:          20,
		OpenImportant:  5,
		ResolutionRate: 80,
	}

	items := DeriveAlerts(s, Thresholds{})

	require.Len(t, items, 1)
	assert.Equal(t, models.AlertSeverityWarning, items[0].Severity)
	assert.Equal(t, "Important tickets piling up", items[0].Title)
}

func TestDeriveAlerts_LowResolutionRate(t *testing.T) {
	s := models.DashboardSummary{
		Total:          20,
		ResolutionRate: 10,
	}

	items := DeriveAlerts(s, Thresholds{})

	require.Len(t, items, 1)
	assert.Equal(t, "Resolution rate low", items[0].Title)
}

func TestDeriveAlerts_EmptySummaryNeverFlagsResolution(t *testing.T) {
	items := DeriveAlerts(models.DashboardSummary{}, Thresholds{})

	require.Len(t, items, 1)
	assert.Equal(t, "All clear", items[0].Title)
}

func TestDeriveAlerts_CustomThresholds(t *testing.T) {
	s := models.DashboardSummary{
		Total:          20,
		OpenImportant:  3,
		ResolutionRate: 80,
	}

	// Defaults would not fire at 3, the tightened threshold does
	items := DeriveAlerts(s, Thresholds{OpenImportant: 2})

	require.Len(t, items, 1)
	assert.Equal(t, "Important tickets piling up", items[0].Title)
}

func TestDeriveAlerts_MultipleConditionsStack(t *testing.T) {
	s := models.DashboardSummary{
		Total:          20,
		TodayCount:     8,
		YesterdayCount: 2,
		PercentChange:  300,
		AngryToday:     1,
		OpenImportant:  7,
		ResolutionRate: 5,
	}

	items := DeriveAlerts(s, Thresholds{})

	require.Len(t, items, 4)
	severities := make([]string, len(items))
	for i, it := range items {
		severities[i] = it.Severity
	}
	assert.Contains(t, severities, models.AlertSeverityCritical)
}
