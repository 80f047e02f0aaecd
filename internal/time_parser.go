// internal/time_parser.go
// ------------------------
// This internal package parses the request delay values found in
// configuration files. A bare integer is a number of milliseconds (the
// historical unit of the setting); strings such as "1s", "250ms" or "6m0s"
// are accepted too.
//
// Functions:
// - ParseDelay: convert a delay setting into a time.Duration.
// - ParseTimeStr: convert strings like "1s", "6m0s" into milliseconds.
package internal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDelay converts a configured delay into a duration. The empty string
// is zero.
func ParseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("negative delay %q", s)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}

	if ms := ParseTimeStr(s); ms > 0 {
		return time.Duration(ms) * time.Millisecond, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative delay %q", s)
	}
	return d, nil
}

// ParseTimeStr converts strings like "1s", "6m0s" into ms. It returns 0 for
// anything else.
func ParseTimeStr(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if strings.HasSuffix(s, "s") && !strings.Contains(s, "m") {
		val := strings.TrimSuffix(s, "s")
		sec, err := strconv.Atoi(val)
		if err == nil {
			return int64(sec) * 1000
		}
	}

	var minutes, seconds int
	n, err := fmt.Sscanf(s, "%dm%ds", &minutes, &seconds)
	if n == 2 && err == nil {
		totalMs := int64(minutes)*60_000 + int64(seconds)*1_000
		return totalMs
	}

	return 0
}
