package session

import "errors"

var (
	// ErrInvalidToken is returned for tokens that fail signature, expiry or format checks.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrNoSession is returned when a valid token names a session that no longer holds a key.
	ErrNoSession = errors.New("session not found")
	// ErrEmptyKey is returned when a session is started without an API key.
	ErrEmptyKey = errors.New("api key is empty")
)
