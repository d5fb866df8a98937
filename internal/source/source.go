// Package source defines the remote-platform capabilities the pipeline
// consumes and their GitHub implementation.
package source

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports that an issue or pull request does not exist.
var ErrNotFound = errors.New("source: not found")

// RawEvent is one record from a user's public events feed. Kind is the
// platform's event discriminant (e.g. "IssueCommentEvent"); the payload
// refs are populated when the event carries an issue or pull request.
type RawEvent struct {
	Kind        string
	Actor       string
	Repo        string // full name, "org/name"
	CreatedAt   time.Time
	Issue       *RawRef
	PullRequest *RawRef
}

// RawRef is the issue or pull request sub-object carried in an event payload.
type RawRef struct {
	Number       int
	Body         string
	HTMLURL      string
	RepoFullName string
	Labels       []string
}

// RawPullRequest is one record from the pull-request search feed.
type RawPullRequest struct {
	Number        int
	Body          string
	HTMLURL       string
	RepositoryURL string
	CreatedAt     time.Time
	Labels        []string
}

// ActivitySource lists a contributor's raw activity from the hosting
// platform. All listings paginate internally; callers receive fully
// materialized slices.
type ActivitySource interface {
	ListUserEvents(ctx context.Context, user string) ([]RawEvent, error)
	ListUserPullRequests(ctx context.Context, user string) ([]RawPullRequest, error)
	ListOrgRepositories(ctx context.Context, org string) ([]string, error)

	// IsIssue reports whether number currently resolves to an issue (not a
	// pull request) in org/repo. IsPullRequest is the converse check.
	IsIssue(ctx context.Context, org, repo string, number int) bool
	IsPullRequest(ctx context.Context, org, repo string, number int) bool
}

// LabelResolver fetches the current labels attached to an issue.
type LabelResolver interface {
	IssueLabels(ctx context.Context, org, repo string, number int) ([]string, error)
}
