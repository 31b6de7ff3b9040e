// Package services holds the client's application services: the session
// state machine, task management, profile preferences and password
// recovery. Front ends talk to these types only.
package services
