// Package reward joins detected streaks with their activities and a
// computed multiplier.
package reward

import (
	"fmt"
	"sort"
	"time"

	"github.com/ubq-testing/ubq-daily-streak/internal/activity"
	"github.com/ubq-testing/ubq-daily-streak/internal/streak"
)

// Contributor groups a username with their rewarded activities, keyed by
// the streak's rank index.
type Contributor struct {
	Username   string                      `json:"username"`
	Activities map[int][]activity.Activity `json:"activities"`
}

// Reward is the terminal output for one qualifying streak.
type Reward struct {
	Contributor Contributor `json:"contributor"`
	Multiplier  float64     `json:"multiplier"`
	Period      [2]string   `json:"period"`
	Streak      int         `json:"streak"`
}

// Assemble builds one Reward per qualifying streak. Single-day streaks are
// not rewarded; survivors are ranked by length descending, equal lengths by
// earlier start. Each reward collects the activities whose timestamp falls
// inside the streak's [start, end] interval, inclusive on both ends. An
// activity with no repository at this stage is fatal, the same invariant the
// normalizer enforces.
func Assemble(streaks []streak.Interval, activities []activity.Activity, username string, multiplier MultiplierFunc) ([]Reward, error) {
	qualifying := make([]streak.Interval, 0, len(streaks))
	for _, s := range streaks {
		if s.Length > 1 {
			qualifying = append(qualifying, s)
		}
	}
	sort.SliceStable(qualifying, func(i, j int) bool {
		if qualifying[i].Length != qualifying[j].Length {
			return qualifying[i].Length > qualifying[j].Length
		}
		return qualifying[i].Start.Before(qualifying[j].Start)
	})

	rewards := make([]Reward, 0, len(qualifying))
	for i, s := range qualifying {
		grouped := map[int][]activity.Activity{}
		for _, a := range activities {
			if a.Timestamp.IsZero() {
				continue
			}
			if a.Repo == "" {
				return nil, fmt.Errorf("assemble streak %d: %w", i, activity.ErrMissingRepository)
			}
			if !a.Timestamp.Before(s.Start) && !a.Timestamp.After(s.End) {
				grouped[i] = append(grouped[i], a)
			}
		}

		// Hours-worked estimation from issue labels was shelved; the
		// multiplier seam still receives the signal so an estimator can
		// plug in later.
		const hoursWorked = 0

		rewards = append(rewards, Reward{
			Contributor: Contributor{Username: username, Activities: grouped},
			Multiplier:  multiplier(s.Length, hoursWorked),
			Period: [2]string{
				s.Start.UTC().Format(time.RFC3339),
				s.End.UTC().Format(time.RFC3339),
			},
			Streak: s.Length,
		})
	}
	return rewards, nil
}
