package tickets

import (
	"context"
	"errors"
	"sync"
	"time"

	"ticketdesk/internal/models"

	"github.com/rs/zerolog"
)

// LoadTimeout is the hard cap on a single page load. When it expires
// the loading gate clears but already-loaded rows are retained.
const LoadTimeout = 15 * time.Second

// ErrLoadInFlight is returned when a load is requested while another
// one has not settled yet.
var ErrLoadInFlight = errors.New("a ticket load is already in flight")

// Loader owns the incrementally loaded ticket list for one view: it
// replaces the list on a filter change, appends on page advance,
// deduplicates across pages and tracks whether more pages may exist.
type Loader struct {
	store   *Store
	logger  zerolog.Logger
	timeout time.Duration

	mu      sync.Mutex
	loading bool
	tickets []models.Ticket
	hasMore bool
}

// NewLoader creates a loader over the given store
func NewLoader(store *Store, logger zerolog.Logger) *Loader {
	return &Loader{store: store, logger: logger, timeout: LoadTimeout}
}

// Load fetches one page for the filter state. When isNewFilter is true
// prior results are discarded and the page is forced to 0; otherwise
// the page is appended with first-wins dedup by ticket id. Returns the
// full accumulated list and whether more pages may exist.
func (l *Loader) Load(ctx context.Context, f FilterState, page int, isNewFilter bool) ([]models.Ticket, bool, error) {
	l.mu.Lock()
	if l.loading {
		current := l.snapshotLocked()
		hasMore := l.hasMore
		l.mu.Unlock()
		return current, hasMore, ErrLoadInFlight
	}
	l.loading = true
	l.mu.Unlock()

	if isNewFilter {
		page = 0
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	rows, err := l.store.ListPage(ctx, f, time.Now(), page)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			// Silent degrade: clear the gate, keep what we have
			l.logger.Warn().Int("page", page).Msg("Ticket load timed out")
			return l.snapshotLocked(), l.hasMore, nil
		}
		return l.snapshotLocked(), l.hasMore, err
	}

	if isNewFilter {
		l.tickets = rows
	} else {
		seen := make(map[int64]bool, len(l.tickets))
		for _, t := range l.tickets {
			seen[t.ID] = true
		}
		for _, t := range rows {
			if !seen[t.ID] {
				seen[t.ID] = true
				l.tickets = append(l.tickets, t)
			}
		}
	}
	l.hasMore = len(rows) == PageSize

	return l.snapshotLocked(), l.hasMore, nil
}

// Tickets returns a copy of the currently accumulated list
func (l *Loader) Tickets() []models.Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// HasMore reports whether a further page may exist
func (l *Loader) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

func (l *Loader) snapshotLocked() []models.Ticket {
	out := make([]models.Ticket, len(l.tickets))
	copy(out, l.tickets)
	return out
}
