package constants

import "time"

// Session and context keys
const (
	SessionCookieName = "crm_session"
	ContextKeyUserID  = "user_id"
	ContextKeyLead    = "lead"
)

// Auth
const (
	MinPasswordLength = 8
)

// Page based pagination, used only when a page parameter is supplied
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Lead identifiers
const (
	// LeadIDSuffixWidth is the zero padded width of the sequence part of a lead ID.
	LeadIDSuffixWidth = 4
	// DefaultLeadIDMaxAttempts bounds the retry loop on lead ID collisions.
	DefaultLeadIDMaxAttempts = 5
)

// DefaultRequestTimeout bounds a single request's storage work.
const DefaultRequestTimeout = 10 * time.Second
