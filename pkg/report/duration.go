package report

import (
	"strconv"
	"strings"
	"time"
)

// Calendar units used for rounded durations. A month is 30.44 days and a
// year 365.25 days.
const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	secondsPerMonth  = 2_630_016
	secondsPerYear   = 31_557_600
)

// FormatDuration renders d for the report. In precise mode the exact value
// is shown ("1.5s", "200ms"); otherwise d is truncated to whole seconds and
// written as space-separated units ("0s", "1m 30s", "2days 3h").
func FormatDuration(d time.Duration, precise bool) string {
	if precise {
		return d.String()
	}
	if d < 0 {
		d = 0
	}
	return humanSeconds(uint64(d / time.Second))
}

func humanSeconds(secs uint64) string {
	if secs == 0 {
		return "0s"
	}

	units := []struct {
		size     uint64
		singular string
		plural   string
	}{
		{secondsPerYear, "year", "years"},
		{secondsPerMonth, "month", "months"},
		{secondsPerDay, "day", "days"},
		{secondsPerHour, "h", "h"},
		{secondsPerMinute, "m", "m"},
		{1, "s", "s"},
	}

	var parts []string
	for _, u := range units {
		n := secs / u.size
		if n == 0 {
			continue
		}
		secs -= n * u.size
		suffix := u.plural
		if n == 1 {
			suffix = u.singular
		}
		parts = append(parts, strconv.FormatUint(n, 10)+suffix)
	}
	return strings.Join(parts, " ")
}
