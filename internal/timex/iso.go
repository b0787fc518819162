package timex

import (
	"fmt"
	"time"
)

// Layouts accepted by ParseISO, tried in order. The offset-less layouts cover
// files written by older PhotoSift versions, which stored local wall time.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// FormatISO renders t as an ISO-8601 timestamp with offset.
func FormatISO(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseISO parses an ISO-8601 timestamp. Values without an offset are read
// in the local time zone.
func ParseISO(s string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: not ISO-8601", s)
}
