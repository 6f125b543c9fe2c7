// Package common contains shared constants and sentinel errors used across
// timekeeper components.
package common

const (
	// AuthorizationHeaderName carries "Bearer <token>" on protected requests.
	AuthorizationHeaderName = "Authorization"

	// AccessTokenQueryName is the query fallback for clients that cannot set
	// headers (browser EventSource).
	AccessTokenQueryName = "token"

	// EventLogUpdated is the only real-time event type.
	EventLogUpdated = "log-updated"
)
