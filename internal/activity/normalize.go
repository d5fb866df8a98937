package activity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ubq-testing/ubq-daily-streak/internal/source"
)

// Normalize merges a user's public events and pull-request search results
// into one activity list scoped to the target organization.
//
// Events are kept when their repository is a member of orgRepoSet (full
// names); pull requests when their repository URL references org. The merged
// records are classified, their repository identity resolved, and the result
// returned sorted by timestamp descending. A record whose repository cannot
// be resolved at all is fatal (ErrMissingRepository); a pull request whose
// URL-derived repository falls outside the organization is dropped silently.
func Normalize(events []source.RawEvent, pulls []source.RawPullRequest, orgRepoSet map[string]bool, org string) ([]Activity, error) {
	merged := make([]source.RawEvent, 0, len(events)+len(pulls))

	for _, ev := range events {
		if !orgRepoSet[ev.Repo] {
			continue
		}
		merged = append(merged, ev)
	}

	for _, pr := range pulls {
		if !strings.Contains(pr.RepositoryURL, org) {
			continue
		}
		merged = append(merged, source.RawEvent{
			CreatedAt: pr.CreatedAt,
			PullRequest: &source.RawRef{
				Number:  pr.Number,
				Body:    pr.Body,
				HTMLURL: pr.HTMLURL,
				Labels:  pr.Labels,
			},
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	activities := make([]Activity, 0, len(merged))
	for _, ev := range merged {
		repo := ev.Repo
		if repo == "" {
			repo = payloadRepo(ev)
		}
		if repo == "" && ev.PullRequest != nil {
			derived := repoFromURL(ev.PullRequest.HTMLURL)
			// PRs authored on a fork carry the contributor's repo in their
			// URL; those fall outside the organization and are dropped.
			if derived != "" && !strings.Contains(derived, org) {
				continue
			}
			repo = derived
		}
		if repo == "" {
			return nil, fmt.Errorf("normalize %s event at %s: %w", ev.Kind, ev.CreatedAt.Format("2006-01-02"), ErrMissingRepository)
		}

		a := Activity{
			Timestamp: ev.CreatedAt,
			Type:      Classify(ev),
			Repo:      repo,
		}
		switch {
		case ev.Issue != nil:
			a.IssueNumber = ev.Issue.Number
			a.Labels = ev.Issue.Labels
			a.Body = ev.Issue.Body
		case ev.PullRequest != nil:
			a.PullNumber = ev.PullRequest.Number
			a.Labels = ev.PullRequest.Labels
			a.Body = ev.PullRequest.Body
		}
		activities = append(activities, a)
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	return activities, nil
}

func payloadRepo(ev source.RawEvent) string {
	if ev.Issue != nil && ev.Issue.RepoFullName != "" {
		return ev.Issue.RepoFullName
	}
	if ev.PullRequest != nil && ev.PullRequest.RepoFullName != "" {
		return ev.PullRequest.RepoFullName
	}
	return ""
}

// repoFromURL derives "org/name" from a web URL such as
// https://github.com/org/name/pull/42.
func repoFromURL(url string) string {
	parts := strings.Split(url, "/")
	if len(parts) < 5 {
		return ""
	}
	return parts[3] + "/" + parts[4]
}
