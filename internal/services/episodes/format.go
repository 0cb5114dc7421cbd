package episodes

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/killallgit/podcastr-pages/internal/locale"
)

// publishedAtLayouts are the ISO-8601 shapes the content API is known to send
var publishedAtLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"20060102",
}

// offsetLayouts carry their own offset and are parsed without a location
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04Z07:00",
}

// MaxDurationSeconds is the largest duration that is still a whole number of
// seconds as a float64. Longer durations are rejected by the loader.
const MaxDurationSeconds = 1 << 53

// FormatDuration converts seconds into an "HH:MM:SS" string. Each unit is
// zero-padded to two digits; hours are not capped. Negative input yields
// "00:00:00", input above MaxDurationSeconds is clamped to it and fractions
// of a second are dropped.
func FormatDuration(seconds float64) string {
	switch {
	case math.IsNaN(seconds) || seconds < 0:
		seconds = 0
	case seconds > MaxDurationSeconds:
		seconds = MaxDurationSeconds
	}
	total := int64(math.Floor(seconds))

	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// ParsePublishedAt parses an upstream publication timestamp. Timestamps
// without an offset are read in loc.
func ParsePublishedAt(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("published_at is empty")
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(loc), nil
		}
	}
	for _, layout := range publishedAtLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.In(loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized published_at %q", raw)
}

// FormatPublishedAt renders a publication timestamp as "d MMM yy" in the given locale
func FormatPublishedAt(raw string, l *locale.Locale, loc *time.Location) (string, error) {
	t, err := ParsePublishedAt(raw, loc)
	if err != nil {
		return "", err
	}
	if l == nil {
		l = locale.Default()
	}
	return l.ShortDate(t), nil
}
