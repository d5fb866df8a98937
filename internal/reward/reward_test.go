package reward

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ubq-testing/ubq-daily-streak/internal/activity"
	"github.com/ubq-testing/ubq-daily-streak/internal/streak"
)

func day(n int) time.Time {
	return time.Date(2024, 3, n, 12, 0, 0, 0, time.UTC)
}

func defaultMultiplier(length int, hoursWorked float64) float64 {
	return ComputeMultiplier(length, hoursWorked, DefaultFirstDayMultiplier, DefaultMaxMultiplier)
}

func TestAssembleFiltersSingleDayStreaks(t *testing.T) {
	streaks := []streak.Interval{
		{Start: day(1), End: day(1), Length: 1},
		{Start: day(10), End: day(10), Length: 1},
	}
	rewards, err := Assemble(streaks, nil, "keyrxng", defaultMultiplier)
	if err != nil {
		t.Fatal(err)
	}
	if len(rewards) != 0 {
		t.Errorf("expected no rewards for single-day streaks, got %d", len(rewards))
	}
}

func TestAssembleOrdersByLengthDescending(t *testing.T) {
	streaks := []streak.Interval{
		{Start: day(10), End: day(12), Length: 3},
		{Start: day(1), End: day(5), Length: 5},
	}
	rewards, err := Assemble(streaks, nil, "keyrxng", defaultMultiplier)
	if err != nil {
		t.Fatal(err)
	}
	if len(rewards) != 2 {
		t.Fatalf("expected 2 rewards, got %d", len(rewards))
	}
	if rewards[0].Streak != 5 || rewards[1].Streak != 3 {
		t.Errorf("expected lengths [5 3], got [%d %d]", rewards[0].Streak, rewards[1].Streak)
	}
}

func TestAssembleTieBreaksByEarlierStart(t *testing.T) {
	streaks := []streak.Interval{
		{Start: day(20), End: day(22), Length: 3},
		{Start: day(1), End: day(3), Length: 3},
	}
	rewards, err := Assemble(streaks, nil, "keyrxng", defaultMultiplier)
	if err != nil {
		t.Fatal(err)
	}
	if rewards[0].Period[0] != day(1).UTC().Format(time.RFC3339) {
		t.Errorf("expected the earlier streak first, got period %v", rewards[0].Period)
	}
}

func TestAssembleCollectsActivitiesInclusive(t *testing.T) {
	streaks := []streak.Interval{
		{Start: day(2), End: day(4), Length: 3},
	}
	acts := []activity.Activity{
		{Timestamp: day(1), Type: activity.TypeComment, Repo: "org/a"},  // before
		{Timestamp: day(2), Type: activity.TypeComment, Repo: "org/b"},  // start boundary
		{Timestamp: day(3), Type: activity.TypeComment, Repo: "org/c"},  // inside
		{Timestamp: day(4), Type: activity.TypeComment, Repo: "org/d"},  // end boundary
		{Timestamp: day(5), Type: activity.TypeComment, Repo: "org/e"},  // after
	}
	rewards, err := Assemble(streaks, acts, "keyrxng", defaultMultiplier)
	if err != nil {
		t.Fatal(err)
	}
	if len(rewards) != 1 {
		t.Fatalf("expected 1 reward, got %d", len(rewards))
	}
	got := make([]string, 0)
	for _, a := range rewards[0].Contributor.Activities[0] {
		got = append(got, a.Repo)
	}
	want := []string{"org/b", "org/c", "org/d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("collected activities mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleKeysActivitiesByRank(t *testing.T) {
	streaks := []streak.Interval{
		{Start: day(1), End: day(3), Length: 3},
		{Start: day(10), End: day(14), Length: 5},
	}
	acts := []activity.Activity{
		{Timestamp: day(2), Repo: "org/a"},
		{Timestamp: day(12), Repo: "org/b"},
	}
	rewards, err := Assemble(streaks, acts, "keyrxng", defaultMultiplier)
	if err != nil {
		t.Fatal(err)
	}
	// Rank 0 is the length-5 streak.
	if len(rewards[0].Contributor.Activities[0]) != 1 || rewards[0].Contributor.Activities[0][0].Repo != "org/b" {
		t.Errorf("rank 0 should hold the length-5 streak's activity, got %+v", rewards[0].Contributor.Activities)
	}
	if len(rewards[1].Contributor.Activities[1]) != 1 || rewards[1].Contributor.Activities[1][0].Repo != "org/a" {
		t.Errorf("rank 1 should hold the length-3 streak's activity, got %+v", rewards[1].Contributor.Activities)
	}
}

func TestAssembleMissingRepositoryFatal(t *testing.T) {
	streaks := []streak.Interval{
		{Start: day(1), End: day(3), Length: 3},
	}
	acts := []activity.Activity{
		{Timestamp: day(2), Type: activity.TypeComment},
	}
	_, err := Assemble(streaks, acts, "keyrxng", defaultMultiplier)
	if !errors.Is(err, activity.ErrMissingRepository) {
		t.Fatalf("expected ErrMissingRepository, got %v", err)
	}
}

func TestAssembleMultiplierAndPeriod(t *testing.T) {
	streaks := []streak.Interval{
		{Start: day(1), End: day(6), Length: 6},
	}
	rewards, err := Assemble(streaks, nil, "keyrxng", defaultMultiplier)
	if err != nil {
		t.Fatal(err)
	}
	r := rewards[0]
	if r.Multiplier != 4 {
		t.Errorf("expected multiplier 4 for a 6-day streak, got %v", r.Multiplier)
	}
	if r.Period[0] != "2024-03-01T12:00:00Z" || r.Period[1] != "2024-03-06T12:00:00Z" {
		t.Errorf("unexpected period %v", r.Period)
	}
	if r.Contributor.Username != "keyrxng" {
		t.Errorf("unexpected username %q", r.Contributor.Username)
	}
}
