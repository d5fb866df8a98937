// Package activity defines the canonical activity record and its
// normalization from raw feed events.
package activity

import (
	"errors"
	"time"
)

// ErrMissingRepository reports an activity whose repository could not be
// resolved. This is an upstream data integrity problem and aborts the run.
var ErrMissingRepository = errors.New("activity: repository is empty")

// Type classifies one unit of contributor action.
type Type string

const (
	TypeComment            Type = "comment"
	TypePullRequestReview  Type = "pull_request_review"
	TypePullRequestComment Type = "pull_request_comment"
	TypePullRequest        Type = "pull_request"
	TypeOther              Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeComment, TypePullRequestReview, TypePullRequestComment, TypePullRequest, TypeOther:
		return true
	}
	return false
}

// Activity is one normalized unit of contributor action tied to a timestamp
// and a fully-qualified repository ("org/name").
type Activity struct {
	Timestamp time.Time `json:"date"`
	Type      Type      `json:"type"`
	Repo      string    `json:"repo"`
	Labels    []string  `json:"labels"`

	// IssueNumber and PullNumber identify the issue or pull request the
	// activity is tied to. At most one is authoritative, but both may be
	// populated once a cross-reference is resolved.
	IssueNumber int `json:"issue_number,omitempty"`
	PullNumber  int `json:"pull_number,omitempty"`

	// Body is the issue or pull request text scanned for cross-references
	// during enrichment. Not part of serialized output.
	Body string `json:"-"`
}
