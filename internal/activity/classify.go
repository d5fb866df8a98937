package activity

import "github.com/ubq-testing/ubq-daily-streak/internal/source"

// eventTypes maps feed event discriminants to activity types.
var eventTypes = map[string]Type{
	"IssueCommentEvent":             TypeComment,
	"PullRequestReviewEvent":        TypePullRequestReview,
	"PullRequestReviewCommentEvent": TypePullRequestComment,
	"PullRequestEvent":              TypePullRequest,
}

// Classify maps a raw event to its activity type. A record with an
// unrecognized discriminant but a pull-request payload classifies as
// pull_request; anything else is other. Unknown shapes are a permissive
// default, not an error.
func Classify(ev source.RawEvent) Type {
	if t, ok := eventTypes[ev.Kind]; ok {
		return t
	}
	if ev.PullRequest != nil {
		return TypePullRequest
	}
	return TypeOther
}
