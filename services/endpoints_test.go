package services

import (
	"testing"

	"github.com/lborres/khuluma/core"
)

// Requirement: the route table declares which routes accept anonymous
// callers and which require a valid session.
func TestBaseEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		wantMethod string
		wantPath   string
		wantOpID   string
		wantAuth   core.AuthMode
	}{
		{name: "listing is optional auth", wantMethod: "GET", wantPath: "/opportunities", wantOpID: OpListOpportunities, wantAuth: core.AuthOptional},
		{name: "detail is optional auth", wantMethod: "GET", wantPath: "/opportunities/:id", wantOpID: OpGetOpportunity, wantAuth: core.AuthOptional},
		{name: "apply requires auth", wantMethod: "POST", wantPath: "/opportunities/:id/apply", wantOpID: OpApply, wantAuth: core.AuthRequired},
		{name: "bookmark requires auth", wantMethod: "POST", wantPath: "/opportunities/:id/bookmark", wantOpID: OpToggleBookmark, wantAuth: core.AuthRequired},
		{name: "categories are public", wantMethod: "GET", wantPath: "/categories", wantOpID: OpListCategories, wantAuth: core.AuthNone},
		{name: "login is public", wantMethod: "POST", wantPath: "/auth/login", wantOpID: OpLogin, wantAuth: core.AuthNone},
		{name: "session requires auth", wantMethod: "GET", wantPath: "/auth/session", wantOpID: OpGetSession, wantAuth: core.AuthRequired},
		{name: "logout requires auth", wantMethod: "DELETE", wantPath: "/auth/session", wantOpID: OpLogout, wantAuth: core.AuthRequired},
	}

	// Arrange
	endpoints := BaseEndpoints()
	if len(endpoints) != len(tests) {
		t.Fatalf("BaseEndpoints should return %d endpoints, got %d", len(tests), len(endpoints))
	}
	byKey := make(map[string]core.Endpoint)
	for _, ep := range endpoints {
		byKey[ep.Method+" "+ep.Path] = ep
	}

	// Act & Assert
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			ep, found := byKey[test.wantMethod+" "+test.wantPath]
			if !found {
				t.Fatalf("BaseEndpoints should include %s %s", test.wantMethod, test.wantPath)
			}
			if ep.Metadata.OperationID != test.wantOpID {
				t.Errorf("OperationID = %q, want %q", ep.Metadata.OperationID, test.wantOpID)
			}
			if ep.Auth != test.wantAuth {
				t.Errorf("Auth = %v, want %v", ep.Auth, test.wantAuth)
			}
			if ep.Metadata.Description == "" {
				t.Error("Description should not be empty")
			}
		})
	}
}

// Requirement: All endpoints must have unique OperationIDs.
func TestBaseEndpoints_OperationIDsAreUnique(t *testing.T) {
	operationIDs := make(map[string]bool)
	for _, ep := range BaseEndpoints() {
		if operationIDs[ep.Metadata.OperationID] {
			t.Errorf("BaseEndpoints contains duplicate OperationID: %q", ep.Metadata.OperationID)
		}
		operationIDs[ep.Metadata.OperationID] = true
	}
}

func TestEndpointRegistry_RegistersBaseEndpoints(t *testing.T) {
	// Arrange & Act
	registry := NewEndpointRegistry()

	// Assert
	endpoints := registry.Endpoints()
	if len(endpoints) != len(BaseEndpoints()) {
		t.Fatalf("registry has %d endpoints, want %d", len(endpoints), len(BaseEndpoints()))
	}
	for i := 1; i < len(endpoints); i++ {
		prev, cur := endpoints[i-1], endpoints[i]
		if prev.Path > cur.Path || (prev.Path == cur.Path && prev.Method > cur.Method) {
			t.Errorf("Endpoints() not sorted at %d: %s %s after %s %s", i, cur.Method, cur.Path, prev.Method, prev.Path)
		}
	}
}

// Requirement: the registry rejects a second METHOD:PATH registration and
// leaves itself unchanged when a batch fails.
func TestEndpointRegistry_Register(t *testing.T) {
	tests := []struct {
		name      string
		batch     []core.Endpoint
		wantErr   bool
		wantCount int
	}{
		{
			name:      "rejects duplicate GET /opportunities",
			batch:     []core.Endpoint{{Method: "GET", Path: "/opportunities"}},
			wantErr:   true,
			wantCount: 8,
		},
		{
			name:      "allows same path different method",
			batch:     []core.Endpoint{{Method: "PUT", Path: "/auth/session"}},
			wantCount: 9,
		},
		{
			name: "registers several new endpoints",
			batch: []core.Endpoint{
				{Method: "GET", Path: "/documents"},
				{Method: "GET", Path: "/bookmarks"},
			},
			wantCount: 10,
		},
		{
			name: "rejects duplicates within one batch",
			batch: []core.Endpoint{
				{Method: "GET", Path: "/documents"},
				{Method: "GET", Path: "/documents"},
			},
			wantErr:   true,
			wantCount: 8,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			registry := NewEndpointRegistry()

			// Act
			err := registry.Register(test.batch)

			// Assert
			if (err != nil) != test.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, test.wantErr)
			}
			if got := len(registry.Endpoints()); got != test.wantCount {
				t.Errorf("len(Endpoints()) = %d, want %d", got, test.wantCount)
			}
		})
	}
}
