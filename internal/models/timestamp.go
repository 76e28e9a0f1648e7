package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadTimestamp is returned for timestamps in none of the accepted formats.
var ErrBadTimestamp = errors.New("invalid timestamp")

const (
	layoutISONoZone      = "2006-01-02T15:04:05.999999999"
	layoutISOSpaceNoZone = "2006-01-02 15:04:05.999999999"

	// maxUnixSeconds is 9999-12-31T23:59:59Z.
	maxUnixSeconds = 253402300799
)

// ParseTimestamp accepts RFC3339, zone-less ISO-8601 (read as UTC) or unix seconds
// between 1970 and the end of year 9999.
// Absent or null input yields the zero time.
func ParseTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}

	if raw[0] != '"' {
		secs, err := strconv.ParseFloat(string(raw), 64)
		// the negated range check also rejects NaN
		if err != nil || !(secs >= 0 && secs <= maxUnixSeconds) {
			return time.Time{}, fmt.Errorf("%w: %s", ErrBadTimestamp, raw)
		}
		whole := int64(secs)
		frac := int64((secs - float64(whole)) * float64(time.Second))
		return time.Unix(whole, frac).UTC(), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrBadTimestamp, raw)
	}
	return ParseTimeString(s)
}

// ParseTimeString is ParseTimestamp for an already unquoted string.
func ParseTimeString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, layoutISONoZone, layoutISOSpaceNoZone} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
}
