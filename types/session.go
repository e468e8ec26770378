package types

import "time"

// Session binds a browser client to a user until it expires or is destroyed.
type Session struct {
	Token     string
	UserID    int
	ExpiresAt time.Time
}
