// Package enrich resolves authoritative labels for normalized activities.
package enrich

import (
	"context"
	"regexp"
	"strconv"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ubq-testing/ubq-daily-streak/internal/activity"
	"github.com/ubq-testing/ubq-daily-streak/internal/source"
)

// DefaultConcurrency bounds the label-lookup fan-out when no policy
// overrides it.
const DefaultConcurrency = 4

// crossRefPattern matches GitHub issue/PR cross-reference URLs inside a
// body, e.g. https://github.com/org/repo/issues/42.
var crossRefPattern = regexp.MustCompile(`/(issues|pull)/(\d+)`)

// Enricher resolves labels for activities tied to an issue or pull request.
type Enricher struct {
	src         source.ActivitySource
	labels      source.LabelResolver
	org         string
	concurrency int
}

// New creates an Enricher. concurrency <= 0 falls back to
// DefaultConcurrency.
func New(src source.ActivitySource, labels source.LabelResolver, org string, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Enricher{src: src, labels: labels, org: org, concurrency: concurrency}
}

// Enrich returns a copy of a with its labels resolved. The input is never
// mutated.
//
// When a carries an issue number that the source confirms is an issue, its
// current labels replace whatever normalization produced. When a carries a
// pull number that the source confirms is a pull request, body is scanned
// for the first issue/PR cross-reference and labels are resolved from the
// referenced number instead; PRs commonly keep their labels on a linked
// issue. A resolver failure leaves the prior labels in place and is
// returned for the caller to log; it never aborts sibling enrichment.
func (e *Enricher) Enrich(ctx context.Context, a activity.Activity, body string) (activity.Activity, error) {
	if a.IssueNumber != 0 && e.src.IsIssue(ctx, e.org, a.Repo, a.IssueNumber) {
		labels, err := e.labels.IssueLabels(ctx, e.org, a.Repo, a.IssueNumber)
		if err != nil {
			e.logFailure(a, a.IssueNumber, err)
			return a, err
		}
		a.Labels = labels
		return a, nil
	}

	if a.PullNumber != 0 && e.src.IsPullRequest(ctx, e.org, a.Repo, a.PullNumber) {
		m := crossRefPattern.FindStringSubmatch(body)
		if m == nil {
			return a, nil
		}
		referenced, err := strconv.Atoi(m[2])
		if err != nil {
			return a, nil
		}
		labels, err := e.labels.IssueLabels(ctx, e.org, a.Repo, referenced)
		if err != nil {
			e.logFailure(a, referenced, err)
			return a, err
		}
		a.Labels = labels
		a.IssueNumber = referenced
	}
	return a, nil
}

// EnrichAll enriches every activity with a bounded fan-out, preserving
// order. The returned error aggregates the recoverable per-activity
// failures; the activity list is complete regardless.
func (e *Enricher) EnrichAll(ctx context.Context, activities []activity.Activity) ([]activity.Activity, error) {
	enriched := make([]activity.Activity, len(activities))

	var mu sync.Mutex
	var failures *multierror.Error

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, a := range activities {
		i, a := i, a
		g.Go(func() error {
			out, err := e.Enrich(ctx, a, a.Body)
			enriched[i] = out
			if err != nil {
				mu.Lock()
				failures = multierror.Append(failures, err)
				mu.Unlock()
			}
			return nil
		})
	}
	// Workers only record failures, they never return them, so Wait cannot
	// fail here.
	_ = g.Wait()

	return enriched, failures.ErrorOrNil()
}

func (e *Enricher) logFailure(a activity.Activity, number int, err error) {
	logrus.WithFields(logrus.Fields{
		"repo":   a.Repo,
		"number": number,
	}).Warnf("label resolution failed, keeping prior labels: %s", err)
}
