package scoring

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Trend 季度变化趋势
type Trend string

const (
	TrendUp     Trend = "UP"
	TrendDown   Trend = "DOWN"
	TrendStable Trend = "STABLE"
)

// TrendThreshold is the minimum quarter-over-quarter delta that counts as a move.
const TrendThreshold = 0.25

// QuarterKey formats t as "{year}-Q{quarter}" in t's own location.
func QuarterKey(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%d-Q%d", t.Year(), q)
}

// PreviousQuarterKey returns the quarter before key; Q1 rolls back to Q4 of
// the prior year. A malformed key yields "".
func PreviousQuarterKey(key string) string {
	year, q, ok := parseQuarterKey(key)
	if !ok {
		return ""
	}
	if q == 1 {
		return fmt.Sprintf("%d-Q4", year-1)
	}
	return fmt.Sprintf("%d-Q%d", year, q-1)
}

func parseQuarterKey(key string) (int, int, bool) {
	parts := strings.SplitN(key, "-Q", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	q, err := strconv.Atoi(parts[1])
	if err != nil || q < 1 || q > 4 {
		return 0, 0, false
	}
	return year, q, true
}

// detectTrend compares the weighted means of two quarter buckets. An empty
// bucket on either side is STABLE.
func detectTrend(current, previous *accumulator) Trend {
	if current == nil || previous == nil || current.sumWeight == 0 || previous.sumWeight == 0 {
		return TrendStable
	}
	return TrendFromDelta(current.mean() - previous.mean())
}

func TrendFromDelta(delta float64) Trend {
	switch {
	case delta > TrendThreshold:
		return TrendUp
	case delta < -TrendThreshold:
		return TrendDown
	default:
		return TrendStable
	}
}
