package vtt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampFormat selects how cue times are rendered.
type TimestampFormat string

const (
	// TimestampLegacy carries seconds and minutes only when they are strictly
	// greater than 60. It is the zero-value behavior.
	TimestampLegacy TimestampFormat = "legacy"
	// TimestampCascade carries at 60, producing conventional timestamps.
	TimestampCascade TimestampFormat = "cascade"
)

// GetAllTimestampFormatStrings returns the accepted timestamp format names.
func GetAllTimestampFormatStrings() []string {
	return []string{string(TimestampLegacy), string(TimestampCascade)}
}

// ParseTimestampFormat parses a timestamp format name. The empty string
// selects [TimestampLegacy].
func ParseTimestampFormat(s string) (TimestampFormat, error) {
	switch TimestampFormat(strings.ToLower(s)) {
	case "", TimestampLegacy:
		return TimestampLegacy, nil
	case TimestampCascade:
		return TimestampCascade, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownTimestampFormat, s)
}

// AdjustTime applies a time-sync adjustment to t (both in seconds). A zero
// adjustment returns t unchanged; otherwise the result is clamped at zero.
func AdjustTime(t, adjust float64) float64 {
	if adjust == 0 {
		return t
	}

	return max(t+adjust, 0)
}

// FormatTimestamp renders d as "HH:MM:SS.000". Sub-second precision is
// dropped by truncation.
func FormatTimestamp(d time.Duration, f TimestampFormat) string {
	s := int64(d / time.Second)

	var h, m int64

	switch f {
	case TimestampCascade:
		h = s / 3600
		m = s % 3600 / 60
		s %= 60

	default:
		if s > 60 {
			m = s / 60
			s -= m * 60

			if m > 60 {
				h = m / 60
				m -= h * 60
			}
		}
	}

	return fmt.Sprintf("%02d:%02d:%02d.000", h, m, s)
}

// FormatDuration renders d as "HH:MM:SS.mmm" with conventional carries,
// keeping millisecond precision. Negative durations render as zero. Use it to
// display parsed cues; tracks are written with [FormatTimestamp].
func FormatDuration(d time.Duration) string {
	d = max(d, 0)

	ms := int64(d % time.Second / time.Millisecond)
	s := int64(d / time.Second)

	return fmt.Sprintf("%02d:%02d:%02d.%03d", s/3600, s%3600/60, s%60, ms)
}

// ParseTimestamp parses "HH:MM:SS.mmm" or "MM:SS.mmm". Field values are not
// range checked, so legacy stamps such as "00:00:60.000" are accepted.
func ParseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: timestamp %q", ErrMalformedDocument, s)
	}

	secs, millis, ok := strings.Cut(parts[len(parts)-1], ".")
	if !ok || len(millis) != 3 {
		return 0, fmt.Errorf("%w: timestamp %q", ErrMalformedDocument, s)
	}

	fields := append(parts[:len(parts)-1:len(parts)-1], secs, millis)
	units := []time.Duration{time.Second, time.Millisecond}

	switch len(parts) {
	case 3:
		units = append([]time.Duration{time.Hour, time.Minute}, units...)
	case 2:
		units = append([]time.Duration{time.Minute}, units...)
	}

	var d time.Duration

	for i, field := range fields {
		n, err := strconv.ParseUint(field, 10, 63)
		if err != nil {
			return 0, fmt.Errorf("%w: timestamp %q", ErrMalformedDocument, s)
		}

		d += time.Duration(n) * units[i]
	}

	return d, nil
}
