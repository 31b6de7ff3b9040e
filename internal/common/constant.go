// Package common contains shared constants, sentinel errors and small helpers
// used across the study planner client.
package common

const (
	// AuthorizationHeaderName carries the bearer token on authenticated requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix is prepended to the session token in AuthorizationHeaderName.
	BearerPrefix = "Bearer "
)
