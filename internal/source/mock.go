package source

import (
	"context"
	"strconv"
)

// Mock is a test double implementing ActivitySource and LabelResolver with
// canned data.
type Mock struct {
	Events       []RawEvent
	PullRequests []RawPullRequest
	OrgRepos     []string

	// Issues and Pulls hold the numbers that resolve as issues / pull
	// requests, keyed by "repo#number".
	Issues map[string]bool
	Pulls  map[string]bool

	// Labels maps "repo#number" to the labels IssueLabels returns.
	Labels map[string][]string

	// LabelErr, when set, is returned by every IssueLabels call.
	LabelErr error

	ListErr error
}

func key(repo string, number int) string {
	return repo + "#" + strconv.Itoa(number)
}

func (m *Mock) ListUserEvents(_ context.Context, _ string) ([]RawEvent, error) {
	return m.Events, m.ListErr
}

func (m *Mock) ListUserPullRequests(_ context.Context, _ string) ([]RawPullRequest, error) {
	return m.PullRequests, m.ListErr
}

func (m *Mock) ListOrgRepositories(_ context.Context, _ string) ([]string, error) {
	return m.OrgRepos, m.ListErr
}

func (m *Mock) IsIssue(_ context.Context, _, repo string, number int) bool {
	return m.Issues[key(repo, number)]
}

func (m *Mock) IsPullRequest(_ context.Context, _, repo string, number int) bool {
	return m.Pulls[key(repo, number)]
}

func (m *Mock) IssueLabels(_ context.Context, _, repo string, number int) ([]string, error) {
	if m.LabelErr != nil {
		return nil, m.LabelErr
	}
	return m.Labels[key(repo, number)], nil
}
