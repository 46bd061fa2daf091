package series

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TimeRange is a chart window selector
type TimeRange string

const (
	Range1D  TimeRange = "1d"
	Range1W  TimeRange = "1w"
	Range1M  TimeRange = "1m"
	Range3M  TimeRange = "3m"
	Range6M  TimeRange = "6m"
	Range1Y  TimeRange = "1y"
	RangeAll TimeRange = "all"
)

// MaxDays bounds any synthesized series
const MaxDays = 730

// ErrInvalidDays is returned for a day count that is not an integer
var ErrInvalidDays = errors.New("invalid days")

// Days converts a time range to a day count; unknown ranges mean one month
func Days(r TimeRange) int {
	switch TimeRange(strings.ToLower(string(r))) {
	case Range1D:
		return 1
	case Range1W:
		return 7
	case Range1M:
		return 30
	case Range3M:
		return 90
	case Range6M:
		return 180
	case Range1Y:
		return 365
	case RangeAll:
		return MaxDays
	default:
		return 30
	}
}

// ClampDays bounds a requested day count to [1, MaxDays]
func ClampDays(days int) int {
	if days < 1 {
		return 1
	}
	if days > MaxDays {
		return MaxDays
	}
	return days
}

// ParseDays reads an explicit day count and clamps it to [1, MaxDays]
func ParseDays(raw string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDays, raw)
	}
	return ClampDays(days), nil
}
