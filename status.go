package rowed

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const statusKey = "status"

// StatusLine holds the transient message shown in the message bar. A
// message disappears once it is older than the configured timeout.
type StatusLine struct {
	cache *gocache.Cache
}

// NewStatusLine returns a StatusLine whose messages expire after ttl.
func NewStatusLine(ttl time.Duration) *StatusLine {
	// No janitor goroutine: expired entries are dropped on read.
	return &StatusLine{cache: gocache.New(ttl, 0)}
}

// Set formats and shows a new message, restarting the timeout.
func (s *StatusLine) Set(format string, args ...any) {
	s.cache.Set(statusKey, fmt.Sprintf(format, args...), gocache.DefaultExpiration)
}

// Clear removes the current message.
func (s *StatusLine) Clear() {
	s.cache.Delete(statusKey)
}

// Current returns the message, or "" when there is none or it has expired.
func (s *StatusLine) Current() string {
	v, ok := s.cache.Get(statusKey)
	if !ok {
		return ""
	}
	msg, _ := v.(string)
	return msg
}
