package core

import (
	"math"
	"strings"
)

// Priority is the editorial priority of an opportunity.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PriorityRanks lists ranked priorities from highest to lowest. Anything
// else ranks 0.
var PriorityRanks = []struct {
	Priority Priority
	Rank     int
}{
	{PriorityUrgent, 4},
	{PriorityHigh, 3},
	{PriorityMedium, 2},
	{PriorityLow, 1},
}

func (p Priority) Rank() int {
	for _, r := range PriorityRanks {
		if r.Priority == p {
			return r.Rank
		}
	}
	return 0
}

// Predicate enumerates the filters the listing query understands.
type Predicate int

const (
	PredicatePublished Predicate = iota
	PredicateCategory
	PredicateType
	PredicateSearch
)

func (p Predicate) String() string {
	switch p {
	case PredicatePublished:
		return "published"
	case PredicateCategory:
		return "category"
	case PredicateType:
		return "type"
	case PredicateSearch:
		return "search"
	default:
		return "unknown"
	}
}

// ListFilter holds the optional listing filters. Empty fields are ignored.
type ListFilter struct {
	Category string // exact category name
	Type     string // exact opportunity type
	Search   string // substring of title, description, location or company name
}

// Predicates returns the active predicates in a fixed order. The published
// predicate is always first.
func (f ListFilter) Predicates() []Predicate {
	preds := []Predicate{PredicatePublished}
	if strings.TrimSpace(f.Category) != "" {
		preds = append(preds, PredicateCategory)
	}
	if strings.TrimSpace(f.Type) != "" {
		preds = append(preds, PredicateType)
	}
	if strings.TrimSpace(f.Search) != "" {
		preds = append(preds, PredicateSearch)
	}
	return preds
}

// ListParams is the caller-facing listing request. Limit is nil when the
// caller did not ask for one.
type ListParams struct {
	Filter ListFilter
	Page   int
	Limit  *int
}

// ListQuery is a normalized listing request handed to storage.
type ListQuery struct {
	Filter ListFilter
	Viewer *ClientID
	Limit  int
	Offset int
}

type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

type ListResult struct {
	Opportunities []EnrichedOpportunity `json:"opportunities"`
	Pagination    Pagination            `json:"pagination"`
}

type ListingConfig struct {
	// DefaultLimit applies when no limit is given. It is deliberately large
	// so unpaginated callers get everything in one page.
	DefaultLimit int
	MaxLimit     int
}

func DefaultListingConfig() ListingConfig {
	return ListingConfig{
		DefaultLimit: 1000,
		MaxLimit:     50,
	}
}

// Normalize clamps page to [1, MaxInt/limit] and an explicit limit to
// [1, MaxLimit].
func (c ListingConfig) Normalize(p ListParams) (page, limit int) {
	page = p.Page
	if page < 1 {
		page = 1
	}

	if p.Limit == nil {
		limit = c.DefaultLimit
	} else {
		limit = *p.Limit
		if limit > c.MaxLimit {
			limit = c.MaxLimit
		}
	}
	if limit < 1 {
		limit = 1
	}

	// page*limit must fit in an int so the offset stays non-negative
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}
