package streak

import (
	"errors"
	"testing"
	"time"

	"github.com/ubq-testing/ubq-daily-streak/internal/activity"
)

func day(n int) time.Time {
	return time.Date(2024, 3, n, 12, 0, 0, 0, time.UTC)
}

func onDays(days ...int) []activity.Activity {
	acts := make([]activity.Activity, 0, len(days))
	for _, d := range days {
		acts = append(acts, activity.Activity{Timestamp: day(d), Type: activity.TypeComment, Repo: "org/repo"})
	}
	return acts
}

func TestDetectEmptyInput(t *testing.T) {
	_, err := Detect(nil, DefaultConfig())
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestDetectSingleActivity(t *testing.T) {
	streaks, err := Detect(onDays(5), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(streaks) != 1 {
		t.Fatalf("expected 1 streak, got %d", len(streaks))
	}
	if streaks[0].Length != 1 {
		t.Errorf("expected length 1, got %d", streaks[0].Length)
	}
	if streaks[0].GraceUsed != 0 {
		t.Errorf("expected no grace used, got %v", streaks[0].GraceUsed)
	}
}

func TestDetectConsecutiveDays(t *testing.T) {
	streaks, err := Detect(onDays(1, 2, 3, 4, 5), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(streaks) != 1 {
		t.Fatalf("expected 1 streak, got %d", len(streaks))
	}
	s := streaks[0]
	if s.Length != 5 {
		t.Errorf("expected length 5, got %d", s.Length)
	}
	if s.GraceUsed != 0 {
		t.Errorf("expected no grace used, got %v", s.GraceUsed)
	}
	if !s.Start.Equal(day(1)) || !s.End.Equal(day(5)) {
		t.Errorf("unexpected interval [%v, %v]", s.Start, s.End)
	}
}

// A two-day gap fits the grace budget: the run stays one streak, one grace
// day is consumed, and the grace bonus adds a day to the final length.
func TestDetectGraceBridgesGap(t *testing.T) {
	streaks, err := Detect(onDays(1, 2, 4), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(streaks) != 1 {
		t.Fatalf("expected 1 streak, got %d", len(streaks))
	}
	s := streaks[0]
	if s.GraceUsed != 1 {
		t.Errorf("expected grace used 1, got %v", s.GraceUsed)
	}
	// (day4 - day1) rounds to 3, +1 inclusive = 4, +1 grace bonus = 5.
	if s.Length != 5 {
		t.Errorf("expected length 5, got %d", s.Length)
	}
}

func TestDetectGapSplitsStreak(t *testing.T) {
	streaks, err := Detect(onDays(1, 10), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(streaks) != 2 {
		t.Fatalf("expected 2 streaks, got %d", len(streaks))
	}
	for i, s := range streaks {
		if s.Length != 1 {
			t.Errorf("streak %d: expected length 1, got %d", i, s.Length)
		}
	}
	if !streaks[1].Start.Equal(day(10)) {
		t.Errorf("second streak should start on day 10, got %v", streaks[1].Start)
	}
}

func TestDetectGraceResetsAfterStreakEnds(t *testing.T) {
	// Days 1-2-4 consume grace, day 20 forces a split, days 20-21 run clean.
	streaks, err := Detect(onDays(1, 2, 4, 20, 21), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(streaks) != 2 {
		t.Fatalf("expected 2 streaks, got %d", len(streaks))
	}
	if streaks[1].GraceUsed != 0 {
		t.Errorf("expected fresh grace budget after split, got %v", streaks[1].GraceUsed)
	}
	if streaks[1].Length != 2 {
		t.Errorf("expected second streak length 2, got %d", streaks[1].Length)
	}
}

func TestDetectSortsInput(t *testing.T) {
	// Normalizer output is descending; detection must not depend on that.
	acts := onDays(3, 1, 2)
	streaks, err := Detect(acts, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(streaks) != 1 || streaks[0].Length != 3 {
		t.Fatalf("expected one 3-day streak, got %+v", streaks)
	}
	// The caller's slice keeps its order.
	if !acts[0].Timestamp.Equal(day(3)) {
		t.Error("input slice was mutated")
	}
}

func TestDetectCustomGraceLimit(t *testing.T) {
	// With a 4-day budget, a 4-day gap still continues the streak.
	streaks, err := Detect(onDays(1, 5), Config{GracePeriodLimitDays: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(streaks) != 1 {
		t.Fatalf("expected 1 streak, got %d", len(streaks))
	}
	if streaks[0].GraceUsed != 3 {
		t.Errorf("expected grace used 3, got %v", streaks[0].GraceUsed)
	}
}

// The union of emitted day spans, including the grace bonus, never exceeds
// the total elapsed days between first and last activity plus one (plus the
// single bonus day).
func TestDetectSpanBounded(t *testing.T) {
	cases := [][]int{
		{1},
		{1, 2, 3},
		{1, 2, 4},
		{1, 10},
		{1, 2, 4, 20, 21, 22},
		{5, 5, 5, 6},
	}
	for _, days := range cases {
		acts := onDays(days...)
		streaks, err := Detect(acts, DefaultConfig())
		if err != nil {
			t.Fatalf("days %v: %v", days, err)
		}
		if len(streaks) == 0 {
			t.Fatalf("days %v: expected at least one streak", days)
		}
		total := 0
		for _, s := range streaks {
			total += s.Length
		}
		elapsed := days[len(days)-1] - days[0] + 1
		if total > elapsed+1 {
			t.Errorf("days %v: total span %d exceeds elapsed %d+1", days, total, elapsed)
		}
	}
}
