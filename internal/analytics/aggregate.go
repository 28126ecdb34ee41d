package analytics

import (
	"sort"
	"time"

	"ticketdesk/internal/models"
)

// Top-N sizes for the dashboard frequency lists
const (
	TopGamesCount = 6
	TopTagsCount  = 5
)

// Summarize computes the full dashboard aggregate over a materialized
// ticket snapshot. Pure and deterministic: no I/O, and identical input
// ordering always yields identical output (top-N ties break by
// first-encountered order). Histograms use now's location as local
// time; day-over-day uses now's calendar day.
func Summarize(ticketList []models.Ticket, gameNames map[string]string, now time.Time) models.DashboardSummary {
	loc := now.Location()
	today := dateOf(now)
	yesterday := dateOf(now.AddDate(0, 0, -1))

	s := models.DashboardSummary{
		Total:       len(ticketList),
		GeneratedAt: now,
	}

	gameCounter := newCounter()
	tagCounter := newCounter()
	monthCounts := map[time.Time]*models.MonthBucket{}

	for _, t := range ticketList {
		switch t.Status {
		case models.StatusOpen:
			s.Statuses.Open++
		case models.StatusPending:
			s.Statuses.Pending++
		case models.StatusClosed:
			s.Statuses.Closed++
		}

		switch t.Importance {
		case models.ImportanceImportant:
			s.Importances.Important++
		case models.ImportanceNotImportant:
			s.Importances.NotImportant++
		default:
			s.Importances.Normal++
		}

		if t.Status == models.StatusOpen && t.Importance == models.ImportanceImportant {
			s.OpenImportant++
		}

		if t.Reopened > 0 {
			s.Reopened++
		}

		local := t.CreatedAt.In(loc)
		s.HourHistogram[local.Hour()]++
		s.DayHistogram[int(local.Weekday())]++

		monthKey := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		bucket, ok := monthCounts[monthKey]
		if !ok {
			bucket = &models.MonthBucket{Label: local.Format("Jan06")}
			monthCounts[monthKey] = bucket
		}
		switch t.Importance {
		case models.ImportanceImportant:
			bucket.Important++
		case models.ImportanceNotImportant:
			bucket.NotImportant++
		default:
			bucket.Normal++
		}

		gameCounter.add(gameName(gameNames, t.ProjectID))
		for _, tag := range t.Tags {
			tagCounter.add(tag)
		}

		// Missing or unrecognized sentiment counts as Neutral
		switch t.Sentiment {
		case models.SentimentPositive:
			s.Sentiments.Positive++
		case models.SentimentNegative:
			s.Sentiments.Negative++
		case models.SentimentAngry:
			s.Sentiments.Angry++
		default:
			s.Sentiments.Neutral++
		}

		created := dateOf(local)
		if created.Equal(today) {
			s.TodayCount++
			if t.Sentiment == models.SentimentAngry {
				s.AngryToday++
			}
		} else if created.Equal(yesterday) {
			s.YesterdayCount++
		}
	}

	s.MonthBuckets = sortedMonthBuckets(monthCounts)
	s.TopGames = gameCounter.top(TopGamesCount)
	s.TopTags = tagCounter.top(TopTagsCount)
	s.PercentChange = PercentChange(s.TodayCount, s.YesterdayCount)
	if s.Total > 0 {
		s.ResolutionRate = float64(s.Statuses.Closed) / float64(s.Total) * 100
	}

	return s
}

// PercentChange is the day-over-day delta as a percentage. A zero
// baseline never divides: it yields +100 when today has volume and 0
// otherwise.
func PercentChange(today, yesterday int) float64 {
	if yesterday == 0 {
		if today > 0 {
			return 100
		}
		return 0
	}
	return float64(today-yesterday) / float64(yesterday) * 100
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func gameName(names map[string]string, projectID *string) string {
	if projectID == nil || *projectID == "" {
		return models.UnknownGame
	}
	if name, ok := names[*projectID]; ok {
		return name
	}
	return models.UnknownGame
}

// counter tallies frequencies while remembering first-seen order so
// that top-N ties break deterministically.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(name string) {
	if name == "" {
		return
	}
	if _, seen := c.counts[name]; !seen {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

func (c *counter) top(n int) []models.NameCount {
	out := make([]models.NameCount, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, models.NameCount{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func sortedMonthBuckets(monthCounts map[time.Time]*models.MonthBucket) []models.MonthBucket {
	keys := make([]time.Time, 0, len(monthCounts))
	for k := range monthCounts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]models.MonthBucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, *monthCounts[k])
	}
	return out
}
