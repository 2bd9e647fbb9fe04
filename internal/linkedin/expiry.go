package linkedin

import (
	"fmt"
	"time"
)

// ExpiryBuffer is subtracted from the expiry instant so tokens are treated
// as expired before LinkedIn starts rejecting them.
const ExpiryBuffer = 5 * time.Minute

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// ComputeTokenExpiry returns now (UTC) plus expiresIn seconds.
func (c *Client) ComputeTokenExpiry(expiresIn int64) time.Time {
	return c.clock.Now().UTC().Add(time.Duration(expiresIn) * time.Second)
}

// IsTokenExpired reports whether now is at or past expiresAt minus ExpiryBuffer.
func (c *Client) IsTokenExpired(expiresAt time.Time) bool {
	now := c.clock.Now().UTC()
	return !now.Before(expiresAt.UTC().Add(-ExpiryBuffer))
}

var unzonedLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseExpiry parses a stored expiry instant. RFC 3339 values keep their
// offset; values without a zone are read as UTC.
func ParseExpiry(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range unzonedLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid expiry timestamp %q", s)
}
