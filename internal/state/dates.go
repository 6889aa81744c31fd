package state

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var datePattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)

// NormalizeDate rewrites YYYY-M-D into YYYY-MM-DD and clamps the day into
// the month, so 2026-06-31 becomes 2026-06-30. An empty value stays empty.
// Anything else is rejected.
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	m := datePattern.FindStringSubmatch(value)
	if m == nil {
		return "", fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, value)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 {
		return "", fmt.Errorf("%w: date %q has no month %d", ErrInvalidInput, value, month)
	}

	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day < 1 {
		day = 1
	}
	if day > lastDay {
		day = lastDay
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}
