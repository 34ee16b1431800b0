package khuluma

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lborres/khuluma/core"
)

type MockStorage struct {
	mu       sync.Mutex
	sessions map[string]*core.ClientSession
	lookups  int
	getErr   error
	pingErr  error
}

func NewMockStorage() *MockStorage {
	return &MockStorage{sessions: make(map[string]*core.ClientSession)}
}

// SessionStorage methods
func (m *MockStorage) CreateSession(_ context.Context, s *core.ClientSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *MockStorage) GetActiveSession(_ context.Context, token string, now time.Time) (*core.ClientSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[token]
	if !ok || !s.ExpiresAt.After(now) {
		return nil, core.ErrSessionNotFound
	}
	return s, nil
}

func (m *MockStorage) TouchSession(context.Context, string, time.Time, time.Time) (bool, error) {
	return true, nil
}

func (m *MockStorage) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// ClientStorage methods (every client is active)
func (m *MockStorage) GetClientStatus(context.Context, core.ClientID) (string, error) {
	return core.ClientStatusActive, nil
}
func (m *MockStorage) GetClientByEmail(context.Context, string) (*core.Client, error) {
	return nil, core.ErrClientNotFound
}

// OpportunityStorage and CategoryStorage methods (minimal stubs)
func (m *MockStorage) ListOpportunities(context.Context, core.ListQuery) ([]core.EnrichedOpportunity, int, error) {
	return nil, 0, nil
}
func (m *MockStorage) GetOpportunity(context.Context, int64, *core.ClientID) (*core.EnrichedOpportunity, error) {
	return nil, core.ErrOpportunityNotFound
}
func (m *MockStorage) Apply(context.Context, core.ClientID, core.ApplyInput) (*core.Application, error) {
	return nil, core.ErrOpportunityNotFound
}
func (m *MockStorage) ToggleBookmark(context.Context, core.ClientID, int64) (bool, error) {
	return false, nil
}
func (m *MockStorage) ListActiveCategories(context.Context) ([]core.Category, error) {
	return nil, nil
}
func (m *MockStorage) Ping(context.Context) error { return m.pingErr }

// dummy HTTP Adapter
type dummyHTTP struct {
	registered *Khuluma
	err        error
}

func (d *dummyHTTP) RegisterRoutes(k *Khuluma) error {
	d.registered = k
	return d.err
}

func seededStorage() *MockStorage {
	storage := NewMockStorage()
	storage.sessions["tok"] = &core.ClientSession{Token: "tok", ClientID: 5, ExpiresAt: time.Now().Add(time.Hour)}
	return storage
}

func TestNewRequiresAdapters(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "missing database", config: Config{HTTP: &dummyHTTP{}}, wantErr: ErrDBAdapterRequired},
		{name: "missing http", config: Config{Database: NewMockStorage()}, wantErr: ErrHTTPAdapterRequired},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := New(test.config)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestNewRegistersRoutesWithDefaults(t *testing.T) {
	// Arrange
	adapter := &dummyHTTP{}

	// Act
	k, err := New(Config{Database: NewMockStorage(), HTTP: adapter})

	// Assert
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if adapter.registered != k {
		t.Fatal("RegisterRoutes was not called with the new instance")
	}
	if k.BasePath != "/api" {
		t.Errorf("BasePath = %q, want /api", k.BasePath)
	}
	if len(k.Endpoints) == 0 {
		t.Error("Endpoints should be populated")
	}
	if k.Sessions == nil || k.Listings == nil || k.Opportunities == nil || k.Auth == nil || k.Health == nil {
		t.Error("New() left a service unset")
	}
}

func TestNewPropagatesRouteRegistrationError(t *testing.T) {
	boom := errors.New("route conflict")
	_, err := New(Config{Database: NewMockStorage(), HTTP: &dummyHTTP{err: boom}})
	if !errors.Is(err, boom) {
		t.Fatalf("New() error = %v, want %v", err, boom)
	}
}

func TestNewUsesCacheByDefault(t *testing.T) {
	// Arrange
	storage := seededStorage()
	k, err := New(Config{Database: storage, HTTP: &dummyHTTP{}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	if _, err := k.Sessions.Validate(ctx, "tok"); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	// Act: storage now fails, the cached validation still answers
	storage.getErr = core.NewConnectionError("get session", errors.New("refused"))
	id, err := k.Sessions.Validate(ctx, "tok")

	// Assert
	if err != nil || id != 5 {
		t.Fatalf("Validate() = %d, %v; want cached 5, nil", id, err)
	}
	if report := k.Health.Health(ctx); report.Cache.Hits != 1 {
		t.Errorf("cache hits = %d, want 1", report.Cache.Hits)
	}
}

func TestNewShouldNotUseCacheWhenDisableCacheTrue(t *testing.T) {
	// Arrange
	storage := seededStorage()
	k, err := New(Config{Database: storage, HTTP: &dummyHTTP{}, DisableCache: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	if _, err := k.Sessions.Validate(ctx, "tok"); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	// Act: with no cache, validation hits storage and fails
	storage.getErr = core.NewConnectionError("get session", errors.New("refused"))
	_, err = k.Sessions.Validate(ctx, "tok")

	// Assert
	if !errors.Is(err, ErrConnection) {
		t.Fatalf("expected ErrConnection because cache disabled, got %v", err)
	}
	if storage.lookups != 2 {
		t.Errorf("lookups = %d, want 2", storage.lookups)
	}
}
