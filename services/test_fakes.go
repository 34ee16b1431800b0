package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lborres/khuluma/core"
)

// fakeClock is a settable core.Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type pairKey struct {
	client      core.ClientID
	opportunity int64
}

// FakeStorage is a test-only fake implementing core.StorageAdapter over
// maps. It mirrors the SQL adapter's filtering, ordering and enrichment and
// exposes error fields and call counters for behavior injection.
type FakeStorage struct {
	mu sync.Mutex

	sessions      map[string]*core.ClientSession
	clients       map[core.ClientID]*core.Client
	opportunities map[int64]*core.Opportunity
	categories    map[int64]core.Category
	applications  map[pairKey]*core.Application
	bookmarks     map[pairKey]bool
	documents     map[int64]core.ClientID
	nextAppID     int64

	getSessionErr error
	statusErr     error
	touchErr      error
	createErr     error
	deleteErr     error
	listErr       error
	categoriesErr error
	pingErr       error

	getSessionCalls int
	statusCalls     int
	touchCalls      int
	touches         int
	listCalls       int
	lastQuery       core.ListQuery

	sessionLookupHasDeadline bool
}

var _ core.StorageAdapter = (*FakeStorage)(nil)

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		sessions:      make(map[string]*core.ClientSession),
		clients:       make(map[core.ClientID]*core.Client),
		opportunities: make(map[int64]*core.Opportunity),
		categories:    make(map[int64]core.Category),
		applications:  make(map[pairKey]*core.Application),
		bookmarks:     make(map[pairKey]bool),
		documents:     make(map[int64]core.ClientID),
	}
}

func (f *FakeStorage) addClient(c *core.Client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients[c.ID] = c
}

func (f *FakeStorage) addSession(s *core.ClientSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.Token] = s
}

func (f *FakeStorage) addOpportunity(o core.Opportunity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opportunities[o.ID] = &o
}

func (f *FakeStorage) addCategory(c core.Category) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories[c.ID] = c
}

func (f *FakeStorage) setClientStatus(id core.ClientID, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients[id].Status = status
}

func (f *FakeStorage) calls() (getSession, status, touches int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getSessionCalls, f.statusCalls, f.touches
}

// ============================================
// SESSIONS & CLIENTS
// ============================================

func (f *FakeStorage) CreateSession(_ context.Context, s *core.ClientSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	copied := *s
	f.sessions[s.Token] = &copied
	return nil
}

func (f *FakeStorage) GetActiveSession(ctx context.Context, token string, now time.Time) (*core.ClientSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getSessionCalls++
	if err := ctx.Err(); err != nil {
		return nil, core.NewConnectionError("get session", err)
	}
	_, f.sessionLookupHasDeadline = ctx.Deadline()
	if f.getSessionErr != nil {
		return nil, f.getSessionErr
	}
	s, ok := f.sessions[token]
	if !ok || !s.ExpiresAt.After(now) {
		return nil, core.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *FakeStorage) TouchSession(_ context.Context, token string, now, staleBefore time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touchCalls++
	if f.touchErr != nil {
		return false, f.touchErr
	}
	s, ok := f.sessions[token]
	if !ok {
		return false, nil
	}
	if s.LastUsed != nil && s.LastUsed.After(staleBefore) {
		return false, nil
	}
	touched := now
	s.LastUsed = &touched
	f.touches++
	return true, nil
}

func (f *FakeStorage) DeleteSession(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.sessions[token]; !ok {
		return core.ErrSessionNotFound
	}
	delete(f.sessions, token)
	return nil
}

func (f *FakeStorage) GetClientStatus(_ context.Context, id core.ClientID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		return "", f.statusErr
	}
	c, ok := f.clients[id]
	if !ok {
		return "", core.ErrClientNotFound
	}
	return c.Status, nil
}

func (f *FakeStorage) GetClientByEmail(_ context.Context, email string) (*core.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		if strings.EqualFold(c.Email, email) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, core.ErrClientNotFound
}

// ============================================
// OPPORTUNITIES
// ============================================

func (f *FakeStorage) ListOpportunities(_ context.Context, q core.ListQuery) ([]core.EnrichedOpportunity, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastQuery = q
	if f.listErr != nil {
		return nil, 0, f.listErr
	}

	var matched []*core.Opportunity
	for _, o := range f.opportunities {
		if f.matches(o, q.Filter) {
			matched = append(matched, o)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		switch {
		case a.PublishedAt != nil && b.PublishedAt == nil:
			return true
		case a.PublishedAt == nil && b.PublishedAt != nil:
			return false
		case a.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt):
			return a.PublishedAt.After(*b.PublishedAt)
		}
		return a.ID < b.ID
	})

	total := len(matched)
	start := q.Offset
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	page := make([]core.EnrichedOpportunity, 0, end-start)
	for _, o := range matched[start:end] {
		page = append(page, f.enrich(o, q.Viewer))
	}
	return page, total, nil
}

func (f *FakeStorage) matches(o *core.Opportunity, filter core.ListFilter) bool {
	if o.Status != core.OpportunityStatusPublished {
		return false
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		if o.CategoryID == nil || f.categories[*o.CategoryID].Name != category {
			return false
		}
	}
	if typ := strings.TrimSpace(filter.Type); typ != "" && o.Type != typ {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		found := false
		for _, field := range []string{o.Title, o.Description, o.Location, o.CompanyName} {
			if strings.Contains(strings.ToLower(field), search) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f *FakeStorage) enrich(o *core.Opportunity, viewer *core.ClientID) core.EnrichedOpportunity {
	e := core.EnrichedOpportunity{Opportunity: *o}
	if o.CategoryID != nil {
		if c, ok := f.categories[*o.CategoryID]; ok {
			name := c.Name
			e.CategoryName = &name
		}
	}
	if viewer != nil {
		key := pairKey{client: *viewer, opportunity: o.ID}
		if app, ok := f.applications[key]; ok {
			status := app.Status
			e.ApplicationStatus = &status
			e.HasApplied = true
		}
		e.IsBookmarked = f.bookmarks[key]
	}
	return e
}

func (f *FakeStorage) GetOpportunity(_ context.Context, id int64, viewer *core.ClientID) (*core.EnrichedOpportunity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.opportunities[id]
	if !ok || o.Status != core.OpportunityStatusPublished {
		return nil, core.ErrOpportunityNotFound
	}
	o.ViewsCount++
	e := f.enrich(o, viewer)
	return &e, nil
}

func (f *FakeStorage) Apply(_ context.Context, clientID core.ClientID, in core.ApplyInput) (*core.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.opportunities[in.OpportunityID]
	if !ok || o.Status != core.OpportunityStatusPublished {
		return nil, core.ErrOpportunityNotFound
	}
	key := pairKey{client: clientID, opportunity: in.OpportunityID}
	if _, exists := f.applications[key]; exists {
		return nil, core.ErrAlreadyApplied
	}
	if in.DocumentID != nil {
		if owner, ok := f.documents[*in.DocumentID]; !ok || owner != clientID {
			return nil, core.ErrDocumentNotFound
		}
	}

	f.nextAppID++
	app := &core.Application{
		ID:            f.nextAppID,
		ClientID:      clientID,
		OpportunityID: in.OpportunityID,
		Status:        core.ApplicationStatusPending,
		Message:       in.Message,
		DocumentID:    in.DocumentID,
		AppliedAt:     time.Now(),
	}
	f.applications[key] = app
	o.ApplicationsCount++
	return app, nil
}

func (f *FakeStorage) ToggleBookmark(_ context.Context, clientID core.ClientID, opportunityID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.opportunities[opportunityID]; !ok {
		return false, core.ErrOpportunityNotFound
	}
	key := pairKey{client: clientID, opportunity: opportunityID}
	if f.bookmarks[key] {
		delete(f.bookmarks, key)
		return false, nil
	}
	f.bookmarks[key] = true
	return true, nil
}

func (f *FakeStorage) ListActiveCategories(_ context.Context) ([]core.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	var out []core.Category
	for _, c := range f.categories {
		if c.Status == core.CategoryStatusActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeStorage) Ping(_ context.Context) error {
	return f.pingErr
}

// failingCache always errors on Set and never hits.
type failingCache struct{}

func (failingCache) Get(string) (core.ClientID, error) { return 0, core.ErrCacheNotFound }
func (failingCache) Set(string, core.ClientID, time.Duration) error {
	return core.NewConnectionError("cache set", context.DeadlineExceeded)
}
func (failingCache) Delete(string) error { return nil }
func (failingCache) Clear() error        { return nil }
