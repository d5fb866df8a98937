package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v56/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// GitHubSource implements ActivitySource and LabelResolver against the
// GitHub REST API.
type GitHubSource struct {
	client *github.Client
}

// NewGitHub creates a GitHub source authenticated with the given token.
// An empty token yields an unauthenticated client (low rate limits).
func NewGitHub(ctx context.Context, token string) *GitHubSource {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(ctx, ts)
	}
	return &GitHubSource{client: github.NewClient(hc)}
}

// NewGitHubFromClient wraps an existing client. Used by tests to point the
// source at a local server.
func NewGitHubFromClient(client *github.Client) *GitHubSource {
	return &GitHubSource{client: client}
}

func (g *GitHubSource) ListUserEvents(ctx context.Context, user string) ([]RawEvent, error) {
	log := g.getLogger(user)
	log.Debug("fetch public events")

	var events []RawEvent
	opts := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := g.client.Activity.ListEventsPerformedByUser(ctx, user, true, opts)
		if err != nil {
			return nil, fmt.Errorf("source: list events for %s: %w", user, err)
		}
		for _, ev := range page {
			events = append(events, eventFromAPI(ev))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	log.Debugf("fetched %d public events", len(events))
	return events, nil
}

func (g *GitHubSource) ListUserPullRequests(ctx context.Context, user string) ([]RawPullRequest, error) {
	log := g.getLogger(user)
	log.Debug("fetch pull requests")

	var pulls []RawPullRequest
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 100}}
	query := fmt.Sprintf("author:%s type:pr", user)
	for {
		result, resp, err := g.client.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("source: search pull requests for %s: %w", user, err)
		}
		for _, iss := range result.Issues {
			pulls = append(pulls, RawPullRequest{
				Number:        iss.GetNumber(),
				Body:          iss.GetBody(),
				HTMLURL:       iss.GetHTMLURL(),
				RepositoryURL: iss.GetRepositoryURL(),
				CreatedAt:     iss.GetCreatedAt().Time,
				Labels:        issueLabelNames(iss.Labels),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	log.Debugf("fetched %d pull requests", len(pulls))
	return pulls, nil
}

func (g *GitHubSource) ListOrgRepositories(ctx context.Context, org string) ([]string, error) {
	log := g.getLogger(org)
	log.Debug("fetch org repositories")

	var names []string
	opts := &github.RepositoryListByOrgOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		page, resp, err := g.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, fmt.Errorf("source: list repositories for %s: %w", org, err)
		}
		for _, r := range page {
			names = append(names, r.GetFullName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	log.Debugf("fetched %d repositories", len(names))
	return names, nil
}

func (g *GitHubSource) IsIssue(ctx context.Context, org, repo string, number int) bool {
	iss, _, err := g.client.Issues.Get(ctx, org, repoShortName(repo), number)
	return err == nil && iss != nil && !iss.IsPullRequest()
}

func (g *GitHubSource) IsPullRequest(ctx context.Context, org, repo string, number int) bool {
	pr, _, err := g.client.PullRequests.Get(ctx, org, repoShortName(repo), number)
	return err == nil && pr != nil
}

func (g *GitHubSource) IssueLabels(ctx context.Context, org, repo string, number int) ([]string, error) {
	var names []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		labels, resp, err := g.client.Issues.ListLabelsByIssue(ctx, org, repoShortName(repo), number, opts)
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("source: labels for %s/%s#%d: %w", org, repoShortName(repo), number, ErrNotFound)
			}
			return nil, fmt.Errorf("source: labels for %s/%s#%d: %w", org, repoShortName(repo), number, err)
		}
		for _, l := range labels {
			names = append(names, l.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return names, nil
}

func (g *GitHubSource) getLogger(subject string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"source":  "github",
		"subject": subject,
	})
}

// eventFromAPI flattens a feed event into a RawEvent, pulling the issue or
// pull-request sub-object out of the kind-specific payload when present.
func eventFromAPI(ev *github.Event) RawEvent {
	raw := RawEvent{
		Kind:      ev.GetType(),
		Actor:     ev.GetActor().GetLogin(),
		Repo:      ev.GetRepo().GetName(),
		CreatedAt: ev.GetCreatedAt().Time,
	}

	payload, err := ev.ParsePayload()
	if err != nil {
		return raw
	}

	switch p := payload.(type) {
	case *github.IssueCommentEvent:
		if p.GetIssue().IsPullRequest() {
			raw.PullRequest = refFromIssue(p.GetIssue())
		} else {
			raw.Issue = refFromIssue(p.GetIssue())
		}
	case *github.IssuesEvent:
		raw.Issue = refFromIssue(p.GetIssue())
	case *github.PullRequestEvent:
		raw.PullRequest = refFromPull(p.GetPullRequest())
	case *github.PullRequestReviewEvent:
		raw.PullRequest = refFromPull(p.GetPullRequest())
	case *github.PullRequestReviewCommentEvent:
		raw.PullRequest = refFromPull(p.GetPullRequest())
	}
	return raw
}

func refFromIssue(iss *github.Issue) *RawRef {
	if iss == nil {
		return nil
	}
	return &RawRef{
		Number:  iss.GetNumber(),
		Body:    iss.GetBody(),
		HTMLURL: iss.GetHTMLURL(),
		Labels:  issueLabelNames(iss.Labels),
	}
}

func refFromPull(pr *github.PullRequest) *RawRef {
	if pr == nil {
		return nil
	}
	ref := &RawRef{
		Number:  pr.GetNumber(),
		Body:    pr.GetBody(),
		HTMLURL: pr.GetHTMLURL(),
	}
	if base := pr.GetBase(); base != nil {
		ref.RepoFullName = base.GetRepo().GetFullName()
	}
	for _, l := range pr.Labels {
		ref.Labels = append(ref.Labels, l.GetName())
	}
	return ref
}

func issueLabelNames(labels []*github.Label) []string {
	var names []string
	for _, l := range labels {
		names = append(names, l.GetName())
	}
	return names
}

// repoShortName strips the organization prefix from a full repo name.
func repoShortName(repo string) string {
	if i := strings.Index(repo, "/"); i >= 0 {
		return repo[i+1:]
	}
	return repo
}
