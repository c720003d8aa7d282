package timestamp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable reports a timestamp value that matches no accepted form.
var ErrUnparseable = errors.New("unparseable timestamp")

// NullMarker replaces timestamps that could not be converted. Rows carrying
// it are retained, counted, and excluded from any time-window filter.
const NullMarker = ""

// Layouts tried in order for string inputs. Naive forms are taken as UTC,
// matching the raw vendor files.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02",
}

// FromNanos converts an integer nanosecond epoch value to a UTC instant.
func FromNanos(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

// Parse converts a raw timestamp string to a UTC instant. All-digit strings
// are treated as nanosecond epoch values; everything else is matched against
// the accepted string layouts.
func Parse(val string) (time.Time, error) {
	s := strings.TrimSpace(val)
	if s == "" || s == NullMarker {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrUnparseable)
	}

	if isDigits(s) {
		ns, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, val)
		}
		return FromNanos(ns), nil
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, val)
}

// Canonical formats a UTC instant in the canonical on-disk form.
func Canonical(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02T15:04:05Z")
	}
	return t.Format("2006-01-02T15:04:05.000000000Z")
}

// Normalize converts a raw timestamp string to canonical form.
func Normalize(val string) (string, error) {
	t, err := Parse(val)
	if err != nil {
		return NullMarker, err
	}
	return Canonical(t), nil
}

// NormalizeColumn converts a whole column in place, replacing unconvertible
// values with the null marker. Returns the number of invalid values.
func NormalizeColumn(vals []string) int {
	invalid := 0
	for i, v := range vals {
		s, err := Normalize(v)
		if err != nil {
			invalid++
		}
		vals[i] = s
	}
	return invalid
}

func isDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
