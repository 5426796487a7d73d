package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock parses a start time to minutes since midnight. Two shapes are
// accepted: "HH:MM" and the shorthand "<H>h<MM>" / "<H>h" ("9h30", "14h").
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("booking.ParseClock: empty time")
	}

	var hPart, mPart string
	switch {
	case strings.Contains(s, ":"):
		hPart, mPart, _ = strings.Cut(s, ":")
	case strings.Contains(s, "h"):
		hPart, mPart, _ = strings.Cut(s, "h")
		if mPart == "" {
			mPart = "0"
		}
	default:
		return 0, fmt.Errorf("booking.ParseClock: %q is not HH:MM or <H>h<MM>", s)
	}

	h, err := strconv.Atoi(hPart)
	if err != nil {
		return 0, fmt.Errorf("booking.ParseClock: bad hour in %q", s)
	}
	m, err := strconv.Atoi(mPart)
	if err != nil {
		return 0, fmt.Errorf("booking.ParseClock: bad minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("booking.ParseClock: %q out of range", s)
	}

	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
