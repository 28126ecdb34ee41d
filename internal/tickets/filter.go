package tickets

import "time"

// PageSize is the fixed ticket list page size
const PageSize = 50

// Date range presets
const (
	RangeAll       = "all"
	RangeToday     = "today"
	RangeYesterday = "yesterday"
	RangeLast3     = "last_3_days"
	RangeLast7     = "last_7_days"
	RangeLast30    = "last_30_days"
	RangeLast90    = "last_90_days"
	RangeLast180   = "last_180_days"
	RangeCustom    = "custom"
)

// StatusAll disables the status predicate
const StatusAll = "all"

// UnknownGameID is the selection sentinel matching tickets whose
// project id is null or empty.
const UnknownGameID = "unknown"

// FilterState is the full ticket list filter. GameIDs semantics: nil
// means every game is selected (no predicate); an empty non-nil slice
// means nothing is selected and the result set must be empty.
type FilterState struct {
	Status        string
	ImportantOnly bool
	DateRange     string
	CustomFrom    time.Time
	CustomTo      time.Time
	GameIDs       []string
	Search        string
}

// DateBounds resolves the date-range preset into a concrete [from, to)
// interval. A nil pointer means that side is unbounded. All bounds are
// derived independently from the single now snapshot; now itself is
// never reused as a mutable intermediate.
func (f FilterState) DateBounds(now time.Time) (from, to *time.Time) {
	dayStart := startOfDay(now)

	switch f.DateRange {
	case RangeToday:
		return &dayStart, nil
	case RangeYesterday:
		start := dayStart.AddDate(0, 0, -1)
		return &start, &dayStart
	case RangeLast3:
		return daysBack(dayStart, 3), nil
	case RangeLast7:
		return daysBack(dayStart, 7), nil
	case RangeLast30:
		return daysBack(dayStart, 30), nil
	case RangeLast90:
		return daysBack(dayStart, 90), nil
	case RangeLast180:
		return daysBack(dayStart, 180), nil
	case RangeCustom:
		if f.CustomFrom.IsZero() && f.CustomTo.IsZero() {
			return nil, nil
		}
		from := f.CustomFrom
		to := f.CustomTo
		return &from, &to
	default:
		return nil, nil
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysBack(dayStart time.Time, n int) *time.Time {
	start := dayStart.AddDate(0, 0, -n)
	return &start
}

// CoversAllGames reports whether the selected game ids cover every
// known project id plus the unknown sentinel, i.e. the selection is
// equivalent to no game filtering at all.
func CoversAllGames(selected, known []string) bool {
	set := make(map[string]bool, len(selected))
	for _, id := range selected {
		set[id] = true
	}
	if !set[UnknownGameID] {
		return false
	}
	for _, id := range known {
		if !set[id] {
			return false
		}
	}
	return true
}
