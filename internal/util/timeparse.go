package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// absoluteLayouts are tried in order after the relative forms.
var absoluteLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTimeExpr parses calendar time expressions relative to now:
// "now", "today", "tomorrow", "yesterday", signed offsets ("+2h", "-3d",
// "2w", "1mo"; unsigned means forward), RFC3339 and the absoluteLayouts,
// which are read in loc.
func ParseTimeExpr(s string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	raw := strings.TrimSpace(s)
	s = strings.ToLower(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	now = now.In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	switch s {
	case "now":
		return now, nil
	case "today":
		return midnight, nil
	case "tomorrow":
		return midnight.AddDate(0, 0, 1), nil
	case "yesterday":
		return midnight.AddDate(0, 0, -1), nil
	}

	sign := 1
	rel := s
	switch {
	case strings.HasPrefix(rel, "+"):
		rel = rel[1:]
	case strings.HasPrefix(rel, "-"):
		sign, rel = -1, rel[1:]
	}

	// Custom shorthands: mo (months), w (weeks), d (days)
	suffixes := []struct {
		suffix string
		apply  func(int) time.Time
	}{
		{"mo", func(n int) time.Time { return now.AddDate(0, sign*n, 0) }},
		{"w", func(n int) time.Time { return now.AddDate(0, 0, sign*n*7) }},
		{"d", func(n int) time.Time { return now.AddDate(0, 0, sign*n) }},
	}
	for _, sfx := range suffixes {
		if strings.HasSuffix(rel, sfx.suffix) {
			numStr := strings.TrimSuffix(rel, sfx.suffix)
			if n, err := strconv.Atoi(numStr); err == nil && n >= 0 {
				return sfx.apply(n), nil
			}
			return time.Time{}, fmt.Errorf("invalid %s offset: %q", sfx.suffix, s)
		}
	}

	// Standard Go durations (keeps 'm' = minutes)
	if d, err := time.ParseDuration(rel); err == nil {
		return now.Add(time.Duration(sign) * d), nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time expression: %q", raw)
}

// NormalizeTimeRange parses from/to (empty allowed) and swaps if reversed.
// Empty bounds come back as zero times.
func NormalizeTimeRange(from, to string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	var f, t time.Time
	var err error
	if from != "" {
		if f, err = ParseTimeExpr(from, now, loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if to != "" {
		if t, err = ParseTimeExpr(to, now, loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
	}
	if !f.IsZero() && !t.IsZero() && f.After(t) {
		f, t = t, f
	}
	return f, t, nil
}
