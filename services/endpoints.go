package services

import (
	"fmt"
	"sort"

	"github.com/lborres/khuluma/core"
)

// Operation ids bound by the HTTP adapters.
const (
	OpListOpportunities = "listOpportunities"
	OpGetOpportunity    = "getOpportunity"
	OpApply             = "applyToOpportunity"
	OpToggleBookmark    = "toggleBookmark"
	OpListCategories    = "listCategories"
	OpLogin             = "login"
	OpGetSession        = "getSession"
	OpLogout            = "logout"
)

// BaseEndpoints returns the framework-agnostic route table, relative to the
// API base path.
func BaseEndpoints() []core.Endpoint {
	return []core.Endpoint{
		{
			Path:   "/opportunities",
			Method: "GET",
			Auth:   core.AuthOptional,
			Metadata: core.EndpointMetadata{
				OperationID: OpListOpportunities,
				Description: "List published opportunities with filters and pagination",
			},
		},
		{
			Path:   "/opportunities/:id",
			Method: "GET",
			Auth:   core.AuthOptional,
			Metadata: core.EndpointMetadata{
				OperationID: OpGetOpportunity,
				Description: "Get a published opportunity and count the view",
			},
		},
		{
			Path:   "/opportunities/:id/apply",
			Method: "POST",
			Auth:   core.AuthRequired,
			Metadata: core.EndpointMetadata{
				OperationID: OpApply,
				Description: "Apply to an opportunity",
			},
		},
		{
			Path:   "/opportunities/:id/bookmark",
			Method: "POST",
			Auth:   core.AuthRequired,
			Metadata: core.EndpointMetadata{
				OperationID: OpToggleBookmark,
				Description: "Add or remove a bookmark",
			},
		},
		{
			Path:   "/categories",
			Method: "GET",
			Auth:   core.AuthNone,
			Metadata: core.EndpointMetadata{
				OperationID: OpListCategories,
				Description: "List active categories",
			},
		},
		{
			Path:   "/auth/login",
			Method: "POST",
			Auth:   core.AuthNone,
			Metadata: core.EndpointMetadata{
				OperationID: OpLogin,
				Description: "Sign in with email and password",
			},
		},
		{
			Path:   "/auth/session",
			Method: "GET",
			Auth:   core.AuthRequired,
			Metadata: core.EndpointMetadata{
				OperationID: OpGetSession,
				Description: "Get the client behind the current token",
			},
		},
		{
			Path:   "/auth/session",
			Method: "DELETE",
			Auth:   core.AuthRequired,
			Metadata: core.EndpointMetadata{
				OperationID: OpLogout,
				Description: "Sign out and delete the current session",
			},
		},
	}
}

// EndpointRegistry holds endpoints keyed by "METHOD:PATH" and rejects
// duplicates.
type EndpointRegistry struct {
	endpoints map[string]*core.Endpoint
}

// NewEndpointRegistry returns a registry preloaded with BaseEndpoints.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]*core.Endpoint),
	}

	for _, ep := range BaseEndpoints() {
		ep := ep
		// base table has no duplicates
		_ = reg.register(&ep)
	}

	return reg
}

func endpointKey(ep *core.Endpoint) string {
	return fmt.Sprintf("%s:%s", ep.Method, ep.Path)
}

func (r *EndpointRegistry) register(ep *core.Endpoint) error {
	key := endpointKey(ep)
	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}
	r.endpoints[key] = ep
	return nil
}

// Register adds extra endpoints. Nothing is registered if any of them
// conflicts with an existing endpoint or with another in the same batch.
func (r *EndpointRegistry) Register(endpoints []core.Endpoint) error {
	seen := make(map[string]bool)
	for i := range endpoints {
		key := endpointKey(&endpoints[i])
		if _, exists := r.endpoints[key]; exists {
			return fmt.Errorf("endpoint conflict: %s %s already registered", endpoints[i].Method, endpoints[i].Path)
		}
		if seen[key] {
			return fmt.Errorf("duplicate endpoint in batch: %s %s", endpoints[i].Method, endpoints[i].Path)
		}
		seen[key] = true
	}

	for i := range endpoints {
		ep := endpoints[i]
		r.endpoints[endpointKey(&ep)] = &ep
	}
	return nil
}

// Endpoints returns all registered endpoints sorted by path, then method.
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	result := make([]*core.Endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		result = append(result, ep)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Path != result[j].Path {
			return result[i].Path < result[j].Path
		}
		return result[i].Method < result[j].Method
	})
	return result
}
