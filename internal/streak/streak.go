// Package streak partitions a contributor's activity timeline into streak
// intervals using a day-granularity grace-period budget.
package streak

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/ubq-testing/ubq-daily-streak/internal/activity"
)

// ErrEmptyInput reports that Detect was invoked with zero activities.
var ErrEmptyInput = errors.New("streak: no activities")

// DefaultGracePeriodLimitDays is the tolerated idle budget when no policy
// overrides it.
const DefaultGracePeriodLimitDays = 2

// Config holds the detection policy. Passing it explicitly lets runs with
// different policies coexist.
type Config struct {
	GracePeriodLimitDays float64
}

// DefaultConfig returns the standard detection policy.
func DefaultConfig() Config {
	return Config{GracePeriodLimitDays: DefaultGracePeriodLimitDays}
}

// Interval is one detected streak. Length is an inclusive day count,
// already adjusted by the grace bonus.
type Interval struct {
	Start      time.Time
	End        time.Time
	Length     int
	GraceUsed  float64
	GraceLimit float64
}

// Detect walks the activities in chronological order and splits them into
// streak intervals.
//
// A gap of at most one day always continues the current streak. A longer gap
// continues it while the portion beyond one day fits in the remaining grace
// budget, and that portion is charged against the budget. Otherwise the
// streak ends at the last date seen before the gap and a new one starts at
// the next activity with a fresh budget. Every interval that consumed any
// grace gets a single extra day added to its length afterwards.
func Detect(activities []activity.Activity, cfg Config) ([]Interval, error) {
	if len(activities) == 0 {
		return nil, ErrEmptyInput
	}

	sorted := make([]activity.Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var streaks []Interval
	currentStreakStart := sorted[0].Timestamp
	lastActivityDate := sorted[0].Timestamp
	gracePeriodUsed := 0.0

	for i, act := range sorted {
		var gapDays float64
		if i+1 < len(sorted) {
			gapDays = daysBetween(act.Timestamp, sorted[i+1].Timestamp)
		}

		switch {
		case gapDays <= 1:
			// Same-day or next-day activity continues the streak.
		case gapDays <= gracePeriodUsed+cfg.GracePeriodLimitDays:
			gracePeriodUsed += gapDays - 1
		default:
			streaks = append(streaks, newInterval(currentStreakStart, lastActivityDate, gracePeriodUsed, cfg))
			currentStreakStart = sorted[i+1].Timestamp
			gracePeriodUsed = 0
		}

		if i == len(sorted)-1 {
			streaks = append(streaks, newInterval(currentStreakStart, act.Timestamp, gracePeriodUsed, cfg))
		}

		lastActivityDate = act.Timestamp
	}

	// A streak that survived at least one grace-covered gap earns one extra
	// day, regardless of how much grace it consumed.
	for i := range streaks {
		if streaks[i].GraceUsed > 0 {
			streaks[i].Length++
		}
	}
	return streaks, nil
}

func newInterval(start, end time.Time, graceUsed float64, cfg Config) Interval {
	return Interval{
		Start:      start,
		End:        end,
		Length:     int(math.Round(daysBetween(start, end))) + 1,
		GraceUsed:  graceUsed,
		GraceLimit: cfg.GracePeriodLimitDays,
	}
}

func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}
