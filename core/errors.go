package core

import (
	"errors"
	"fmt"
)

// Authentication errors
var (
	ErrMissingToken       = errors.New("authorization token required") // 401
	ErrInvalidOrExpired   = errors.New("invalid or expired token")     // 401
	ErrAccountInactive    = errors.New("account not active")           // 403
	ErrInvalidCredentials = errors.New("invalid credentials")          // 401
)

// Infrastructure errors. These are always wrapped in *InfraError.
var (
	ErrConnection = errors.New("database connection failed") // 503
	ErrQuery      = errors.New("database query failed")      // 500
)

// Lookup errors
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrClientNotFound      = errors.New("client not found")
	ErrCacheNotFound       = errors.New("key not found in cache")
	ErrOpportunityNotFound = errors.New("opportunity not found or not available") // 404
	ErrDocumentNotFound    = errors.New("invalid document selected")              // 400
)

// Validation errors (client input)
var (
	ErrAlreadyApplied   = errors.New("you have already applied for this opportunity") // 409
	ErrMessageRequired  = errors.New("message is required")                           // 400
	ErrEmailRequired    = errors.New("email is required")                             // 400
	ErrPasswordRequired = errors.New("password is required")                          // 400
	ErrInvalidID        = errors.New("invalid identifier")                            // 400
)

// Config errors (server-side configuration)
var (
	ErrDBAdapterRequired   = errors.New("database adapter is required") // 500
	ErrHTTPAdapterRequired = errors.New("http adapter is required")     // 500
)

// InfraError carries an infrastructure failure together with the operation
// that hit it. Kind is ErrConnection or ErrQuery.
type InfraError struct {
	Kind error
	Op   string
	Err  error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *InfraError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewConnectionError wraps err as a connection failure of op.
func NewConnectionError(op string, err error) error {
	return wrapInfra(ErrConnection, op, err)
}

// NewQueryError wraps err as a query failure of op. Errors that are already
// infrastructure errors keep their original kind.
func NewQueryError(op string, err error) error {
	return wrapInfra(ErrQuery, op, err)
}

func wrapInfra(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	var infra *InfraError
	if errors.As(err, &infra) {
		return err
	}
	return &InfraError{Kind: kind, Op: op, Err: err}
}

// IsAuthError reports whether err is one of the authentication kinds.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidOrExpired) ||
		errors.Is(err, ErrAccountInactive)
}

// IsInfraError reports whether err is a connection or query failure.
func IsInfraError(err error) bool {
	var infra *InfraError
	return errors.As(err, &infra)
}
