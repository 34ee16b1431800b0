package core

// AuthMode says how a route treats the bearer token.
type AuthMode int

const (
	// AuthNone ignores the Authorization header.
	AuthNone AuthMode = iota
	// AuthOptional validates a token when one is sent and lists anonymously
	// when it is missing or rejected.
	AuthOptional
	// AuthRequired rejects the request unless the token validates.
	AuthRequired
)

func (m AuthMode) String() string {
	switch m {
	case AuthNone:
		return "none"
	case AuthOptional:
		return "optional"
	case AuthRequired:
		return "required"
	default:
		return "unknown"
	}
}

// Endpoint describes a route independent of the HTTP framework. Adapters
// bind a handler to each OperationID.
type Endpoint struct {
	Path     string
	Method   string
	Auth     AuthMode
	Metadata EndpointMetadata
}

type EndpointMetadata struct {
	OperationID string
	Description string
}
