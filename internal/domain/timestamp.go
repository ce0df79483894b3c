package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayouts are the formats tried when a provider does not declare its own.
var TimestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// ParseTimestamp parses raw using the given layouts (or TimestampLayouts when none
// are given) and returns it in canonical form.
func ParseTimestamp(raw string, layouts ...string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if len(layouts) == 0 {
		layouts = TimestampLayouts
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return CanonicalTime(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
