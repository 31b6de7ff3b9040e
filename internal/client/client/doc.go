// Package client is the network layer of the study planner.
//
// HTTPClient implements Client against two independently configured REST
// services: the authentication service (login, registration, identity
// sign-in, password reset) and the user-data service (current user,
// preferences, default study duration). Every operation is a single HTTP
// round trip bound to the caller's context; there are no retries and no
// client-side timeout.
//
// # Errors
//
// Failures are returned as *APIError whose Kind is one of ErrNetwork,
// ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrServer,
// ErrUnexpectedStatus, ErrEmptyResponse or ErrDecode; match them with
// errors.Is. Message turns any of them into the text shown to the user.
//
// # Callbacks
//
// AsyncClient wraps a Client with LoginAsync, RegisterAsync, ... which run
// the blocking call on a goroutine and report through a callback.
//
// The package also bootstraps the local SQLite database (InitDatabase,
// RunMigrations).
package client
