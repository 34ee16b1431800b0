package pgx

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/khuluma/core"
)

const opportunityColumns = `
	o.id, o.title, COALESCE(o.description, ''), COALESCE(o.company_name, ''),
	COALESCE(o.location, ''), COALESCE(o.type, ''), o.status, COALESCE(o.priority, ''),
	o.category_id, o.deadline, o.published_at, o.views_count, o.applications_count,
	o.created_at, o.updated_at, c.name`

const viewerColumns = `,
	a.status, (a.id IS NOT NULL), (b.id IS NOT NULL)`

const anonymousColumns = `,
	NULL::text, false, false`

// The viewer id is always $1 when present so both joins share it.
const viewerJoins = `
	LEFT JOIN applications a ON a.opportunity_id = o.id AND a.client_id = $1
	LEFT JOIN bookmarks b ON b.opportunity_id = o.id AND b.client_id = $1`

// compiledFilter is a WHERE clause with its bound values. Placeholders are
// numbered from the start index given to compileFilter.
type compiledFilter struct {
	where string
	args  []any
}

// compileFilter turns each active predicate into a parameterized clause.
// Filter values are only ever passed as arguments.
func compileFilter(f core.ListFilter, start int) compiledFilter {
	var (
		clauses []string
		args    []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", start+len(args)-1)
	}

	for _, p := range f.Predicates() {
		switch p {
		case core.PredicatePublished:
			clauses = append(clauses, "o.status = "+next(core.OpportunityStatusPublished))
		case core.PredicateCategory:
			clauses = append(clauses, "c.name = "+next(strings.TrimSpace(f.Category)))
		case core.PredicateType:
			clauses = append(clauses, "o.type = "+next(strings.TrimSpace(f.Type)))
		case core.PredicateSearch:
			ph := next("%" + escapeLike(strings.TrimSpace(f.Search)) + "%")
			clauses = append(clauses, fmt.Sprintf(
				"(o.title ILIKE %[1]s OR o.description ILIKE %[1]s OR o.location ILIKE %[1]s OR o.company_name ILIKE %[1]s)",
				ph,
			))
		}
	}

	return compiledFilter{where: strings.Join(clauses, " AND "), args: args}
}

// escapeLike makes LIKE metacharacters in s match literally under the
// default backslash escape.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// priorityOrder ranks priorities from core.PriorityRanks; unknown or unset
// priorities rank 0.
func priorityOrder() string {
	var b strings.Builder
	b.WriteString("CASE o.priority")
	for _, r := range core.PriorityRanks {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", r.Priority, r.Rank)
	}
	b.WriteString(" ELSE 0 END")
	return b.String()
}

var listingOrder = priorityOrder() + " DESC, o.published_at DESC NULLS LAST, o.id ASC"

// listingSQL holds the count and page statements for one listing query.
type listingSQL struct {
	count     string
	countArgs []any
	page      string
	pageArgs  []any
}

func buildListing(q core.ListQuery) listingSQL {
	countFilter := compileFilter(q.Filter, 1)

	var out listingSQL
	out.count = `SELECT COUNT(*) FROM opportunities o LEFT JOIN categories c ON c.id = o.category_id WHERE ` + countFilter.where
	out.countArgs = countFilter.args

	var (
		pageFilter compiledFilter
		columns    string
		joins      string
		args       []any
	)
	if q.Viewer != nil {
		pageFilter = compileFilter(q.Filter, 2)
		columns = opportunityColumns + viewerColumns
		joins = viewerJoins
		args = append(args, int64(*q.Viewer))
	} else {
		pageFilter = compileFilter(q.Filter, 1)
		columns = opportunityColumns + anonymousColumns
	}
	args = append(args, pageFilter.args...)

	limitAt := len(args) + 1
	args = append(args, q.Limit, q.Offset)

	out.page = fmt.Sprintf(`SELECT %s
	FROM opportunities o
	LEFT JOIN categories c ON c.id = o.category_id%s
	WHERE %s
	ORDER BY %s
	LIMIT $%d OFFSET $%d`, columns, joins, pageFilter.where, listingOrder, limitAt, limitAt+1)
	out.pageArgs = args

	return out
}

// buildDetail selects one published opportunity by id, enriched for viewer
// the same way as the listing.
func buildDetail(id int64, viewer *core.ClientID) (string, []any) {
	if viewer != nil {
		return `SELECT ` + opportunityColumns + viewerColumns + `
	FROM opportunities o
	LEFT JOIN categories c ON c.id = o.category_id` + viewerJoins + `
	WHERE o.id = $2 AND o.status = $3`, []any{int64(*viewer), id, core.OpportunityStatusPublished}
	}
	return `SELECT ` + opportunityColumns + anonymousColumns + `
	FROM opportunities o
	LEFT JOIN categories c ON c.id = o.category_id
	WHERE o.id = $1 AND o.status = $2`, []any{id, core.OpportunityStatusPublished}
}

func scanEnriched(row pgx.Row) (core.EnrichedOpportunity, error) {
	var (
		e        core.EnrichedOpportunity
		priority string
	)
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.CompanyName,
		&e.Location,
		&e.Type,
		&e.Status,
		&priority,
		&e.CategoryID,
		&e.Deadline,
		&e.PublishedAt,
		&e.ViewsCount,
		&e.ApplicationsCount,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.CategoryName,
		&e.ApplicationStatus,
		&e.HasApplied,
		&e.IsBookmarked,
	)
	e.Priority = core.Priority(priority)
	return e, err
}
