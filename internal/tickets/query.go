package tickets

import (
	"strconv"
	"strings"
	"time"

	"ticketdesk/internal/models"
)

const listColumns = `t.id, t.ticket_number, t.subject, t.message, t.status,
	t.importance, t.sentiment, t.lang, t.tags, t.keywords, t.user_id,
	u.email AS user_email, t.project_id, t.game_state, t.device_info,
	t.reopened, t.created_at`

// BuildQuery translates a filter state into a single list query with
// `?` bindvars (rebind per driver before executing). Identical inputs
// always produce an identical query string and argument list.
// matchedUserIDs is the result of the secondary email-substring lookup
// for the current search text; it only participates when Search is set.
func BuildQuery(f FilterState, now time.Time, matchedUserIDs []int64, page int) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.Status != "" && f.Status != StatusAll {
		conds = append(conds, "t.status = ?")
		args = append(args, f.Status)
	}

	if f.ImportantOnly {
		conds = append(conds, "t.importance = ?")
		args = append(args, models.ImportanceImportant)
	}

	from, to := f.DateBounds(now)
	if from != nil {
		conds = append(conds, "t.created_at >= ?")
		args = append(args, *from)
	}
	if to != nil {
		conds = append(conds, "t.created_at < ?")
		args = append(args, *to)
	}

	if cond, gameArgs, ok := gamePredicate(f.GameIDs); ok {
		conds = append(conds, cond)
		args = append(args, gameArgs...)
	}

	if cond, searchArgs, ok := searchPredicate(f.Search, matchedUserIDs); ok {
		conds = append(conds, cond)
		args = append(args, searchArgs...)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(listColumns)
	sb.WriteString(" FROM tickets t JOIN users u ON u.id = t.user_id")
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	// Secondary id ordering keeps pagination stable across equal timestamps
	sb.WriteString(" ORDER BY t.created_at DESC, t.id DESC LIMIT ? OFFSET ?")
	args = append(args, PageSize, page*PageSize)

	return sb.String(), args
}

// gamePredicate builds the project-id membership condition. A nil
// selection means all games (no predicate). An empty selection is the
// deliberate deselect-all contract: the query matches zero rows.
func gamePredicate(gameIDs []string) (string, []interface{}, bool) {
	if gameIDs == nil {
		return "", nil, false
	}
	if len(gameIDs) == 0 {
		return "1 = 0", nil, true
	}

	var ids []string
	unknown := false
	for _, id := range gameIDs {
		if id == UnknownGameID {
			unknown = true
			continue
		}
		ids = append(ids, id)
	}

	var parts []string
	var args []interface{}
	if len(ids) > 0 {
		parts = append(parts, "t.project_id IN ("+placeholders(len(ids))+")")
		for _, id := range ids {
			args = append(args, id)
		}
	}
	if unknown {
		parts = append(parts, "t.project_id IS NULL OR t.project_id = ''")
	}
	if len(parts) == 0 {
		return "1 = 0", nil, true
	}
	return "(" + strings.Join(parts, " OR ") + ")", args, true
}

// searchPredicate builds the OR-group for free-text search: subject
// substring, exact ticket number when the text parses as one, and
// membership in the user ids matched by email substring.
func searchPredicate(search string, matchedUserIDs []int64) (string, []interface{}, bool) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil, false
	}

	var parts []string
	var args []interface{}

	parts = append(parts, "LOWER(t.subject) LIKE ?")
	args = append(args, "%"+strings.ToLower(search)+"%")

	if n, err := strconv.ParseInt(search, 10, 64); err == nil {
		parts = append(parts, "t.ticket_number = ?")
		args = append(args, n)
	}

	if len(matchedUserIDs) > 0 {
		parts = append(parts, "t.user_id IN ("+placeholders(len(matchedUserIDs))+")")
		for _, id := range matchedUserIDs {
			args = append(args, id)
		}
	}

	return "(" + strings.Join(parts, " OR ") + ")", args, true
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
