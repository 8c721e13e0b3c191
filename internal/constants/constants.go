package constants

// Session and context keys
const (
	SessionCookieName = "devtrack_session"
	ContextKeyUserID  = "user_id"
	ContextKeyActor   = "actor"
)

// Authentication
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
