package core

import "time"

// ClientID identifies a registered client (the marketplace user).
type ClientID int64

const (
	ClientStatusActive         = "active"
	OpportunityStatusPublished = "published"
	CategoryStatusActive       = "active"
	ApplicationStatusPending   = "pending"
)

// Client represents a registered marketplace user.
//
// Only Status gates authentication.
type Client struct {
	ID           ClientID  `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	ProfileImage *string   `json:"profile_image,omitempty"`
	Status       string    `json:"status"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}

// ClientSession is a bearer token issued to a client at login.
type ClientSession struct {
	Token     string     `json:"-"` // Never expose in JSON
	ClientID  ClientID   `json:"client_id"`
	ExpiresAt time.Time  `json:"expires_at"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Opportunity is a published job, internship or similar listing.
type Opportunity struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	CompanyName       string     `json:"company_name"`
	Location          string     `json:"location"`
	Type              string     `json:"type"`
	Status            string     `json:"status"`
	Priority          Priority   `json:"priority"`
	CategoryID        *int64     `json:"category_id"`
	Deadline          *time.Time `json:"deadline"`
	PublishedAt       *time.Time `json:"published_at"`
	ViewsCount        int64      `json:"views_count"`
	ApplicationsCount int64      `json:"applications_count"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// EnrichedOpportunity is an Opportunity plus its category label and the
// viewer-specific application/bookmark flags. Anonymous viewers get
// nil/false/false so the shape never changes.
type EnrichedOpportunity struct {
	Opportunity
	CategoryName      *string `json:"category_name"`
	ApplicationStatus *string `json:"application_status"`
	HasApplied        bool    `json:"has_applied"`
	IsBookmarked      bool    `json:"is_bookmarked"`
}

type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Status      string  `json:"status"`
}

// Application is a client's application to an opportunity. There is at most
// one per (client, opportunity) pair.
type Application struct {
	ID            int64     `json:"id"`
	ClientID      ClientID  `json:"client_id"`
	OpportunityID int64     `json:"opportunity_id"`
	Status        string    `json:"status"`
	Message       string    `json:"message"`
	DocumentID    *int64    `json:"document_id"`
	AppliedAt     time.Time `json:"applied_at"`
}

// ApplyInput contains the data needed to apply to an opportunity
type ApplyInput struct {
	OpportunityID int64  `json:"-"`
	Message       string `json:"message"`
	DocumentID    *int64 `json:"document_id"`
}

// LoginInput contains the credentials for authentication
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult contains the authenticated client and the raw session token
type LoginResult struct {
	Client    *Client   `json:"client"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HealthReport is returned by the health endpoint.
type HealthReport struct {
	Status   string     `json:"status"`
	Database string     `json:"database"`
	Cache    CacheStats `json:"cache"`
}
