// Package render produces Markdown output from a reward list.
package render

import (
	"fmt"
	"strings"

	"github.com/ubq-testing/ubq-daily-streak/internal/reward"
)

// Markdown renders rewards as a Markdown report, best streak first.
func Markdown(rewards []reward.Reward) string {
	var b strings.Builder

	b.WriteString("# Daily Streak Rewards\n\n")

	if len(rewards) == 0 {
		b.WriteString("No qualifying streaks.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "**Contributor:** %s\n", rewards[0].Contributor.Username)
	fmt.Fprintf(&b, "**Qualifying streaks:** %d\n\n", len(rewards))

	for i, r := range rewards {
		fmt.Fprintf(&b, "## Streak %d: %d days\n\n", i+1, r.Streak)
		fmt.Fprintf(&b, "**Period:** %s to %s\n", r.Period[0], r.Period[1])
		fmt.Fprintf(&b, "**Multiplier:** %g\n\n", r.Multiplier)

		activities := r.Contributor.Activities[i]
		if len(activities) == 0 {
			b.WriteString("No activities recorded in this period.\n\n")
			continue
		}

		b.WriteString("| Date | Type | Repository | Labels |\n")
		b.WriteString("|------|------|------------|--------|\n")
		for _, a := range activities {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				a.Timestamp.UTC().Format("2006-01-02 15:04"),
				a.Type, a.Repo, strings.Join(a.Labels, ", "))
		}
		b.WriteString("\n")
	}

	return b.String()
}
