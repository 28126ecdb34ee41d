package tickets

import (
	"context"
	"reflect"
	"sync"
	"time"

	"ticketdesk/internal/debounce"
	"ticketdesk/internal/models"

	"github.com/rs/zerolog"
)

const (
	sessionIdleLimit = 30 * time.Minute

	// How long the search text must stay quiet before a
	// search-triggered reload actually hits the database
	searchQuiescence = 500 * time.Millisecond
)

// Sessions tracks one Loader per continuously-scrolled list session so
// that successive page requests from the same session accumulate and
// deduplicate server-side. Idle sessions are pruned.
type Sessions struct {
	store  *Store
	logger zerolog.Logger

	// Debouncer constructor, swapped for a virtual clock in tests
	newDebouncer func() *debounce.Debouncer

	mu    sync.Mutex
	views map[string]*viewState
}

type viewState struct {
	loader  *Loader
	filter  FilterState
	primed  bool
	touched time.Time
	search  *debounce.Debouncer
}

// NewSessions creates the session registry
func NewSessions(store *Store, logger zerolog.Logger) *Sessions {
	return &Sessions{
		store:  store,
		logger: logger,
		newDebouncer: func() *debounce.Debouncer {
			return debounce.New(searchQuiescence)
		},
		views: make(map[string]*viewState),
	}
}

// Load fetches a page within the named session. Any filter change (or
// a brand-new session) counts as a new filter: prior results are
// discarded and the page resets to 0. When the only thing that changed
// is the search text, the reload is debounced: the request returns the
// currently loaded rows immediately and the query runs once the text
// has been quiet for the quiescence window.
func (s *Sessions) Load(ctx context.Context, sessionID string, f FilterState, page int) ([]models.Ticket, bool, error) {
	s.mu.Lock()
	s.prune()
	view, ok := s.views[sessionID]
	if !ok {
		view = &viewState{loader: NewLoader(s.store, s.logger)}
		s.views[sessionID] = view
	}
	isNewFilter := !view.primed || !reflect.DeepEqual(view.filter, f)
	searchOnly := view.primed && isNewFilter && searchOnlyChange(view.filter, f)
	view.filter = f
	view.primed = true
	view.touched = time.Now()
	loader := view.loader

	if searchOnly {
		if view.search == nil {
			view.search = s.newDebouncer()
		}
		deb := view.search
		s.mu.Unlock()

		deb.Trigger(func() {
			if _, _, err := loader.Load(context.Background(), f, 0, true); err != nil {
				s.logger.Warn().Err(err).Str("session", sessionID).Msg("Debounced search load failed")
			}
		})
		return loader.Tickets(), loader.HasMore(), nil
	}

	// A non-search change (or a plain page advance) supersedes any
	// still-pending debounced search load
	if view.search != nil {
		view.search.Stop()
	}
	s.mu.Unlock()

	return loader.Load(ctx, f, page, isNewFilter)
}

// searchOnlyChange reports whether the two filters differ in nothing
// but their search text
func searchOnlyChange(prev, next FilterState) bool {
	if prev.Search == next.Search {
		return false
	}
	prev.Search, next.Search = "", ""
	return reflect.DeepEqual(prev, next)
}

// Drop discards a session's accumulated state
func (s *Sessions) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if view, ok := s.views[sessionID]; ok && view.search != nil {
		view.search.Stop()
	}
	delete(s.views, sessionID)
}

func (s *Sessions) prune() {
	cutoff := time.Now().Add(-sessionIdleLimit)
	for id, view := range s.views {
		if view.touched.Before(cutoff) {
			if view.search != nil {
				view.search.Stop()
			}
			delete(s.views, id)
		}
	}
}
