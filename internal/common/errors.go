package common

import "errors"

// ErrTokenExpired reports a session token whose exp claim has passed.
var ErrTokenExpired = errors.New("token expired")
