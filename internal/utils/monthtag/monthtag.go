// Package monthtag computes "YYYY-MM" accounting period tags.
//
// A budget's spent aggregate covers exactly one tag at a time; the monthly
// reset compares tags by plain string equality, so the only timezone handling
// in the system happens here, when the tag is derived from wall-clock time.
package monthtag

import "time"

// Format is the canonical layout of a month tag.
const Format = "2006-01"

// ForTime returns the month tag of t in its own location.
func ForTime(t time.Time) string {
	return t.Format(Format)
}

// Current returns the month tag of now in the given IANA timezone. An empty
// or unknown zone falls back to UTC rather than failing: a wrong-but-stable
// period boundary is preferable to blocking the reset entirely.
func Current(now time.Time, timezone string) string {
	loc := time.UTC
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}
	return now.In(loc).Format(Format)
}
