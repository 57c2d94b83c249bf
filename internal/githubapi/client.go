// Package githubapi provides the GitHub collaborator for PR review workflows,
// built on the go-github SDK with conditional-request caching and secondary
// rate limit handling.
package githubapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/agentic-dev/reviewctl/internal/review"
)

// PullRequest carries the PR metadata the analysis pipeline needs.
type PullRequest struct {
	Number     int
	Title      string
	URL        string
	State      string
	HeadBranch string
}

// Info converts the pull request into the identifier used by review summaries.
func (p PullRequest) Info() review.PRInfo {
	return review.PRInfo{Number: p.Number, Title: p.Title, URL: p.URL}
}

// Client wraps a go-github client bound to a single owner/repo slug.
type Client struct {
	gh     *gh.Client
	logger *slog.Logger
	owner  string
	name   string
}

// NewClient creates a GitHub API client with an httpcache transport (ETag
// conditional requests) wrapped by the secondary rate limit middleware.
func NewClient(logger *slog.Logger, token, repo string) (*Client, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimited := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimited).WithAuthToken(token)

	return &Client{gh: client, logger: logger, owner: owner, name: name}, nil
}

// NewClientWithHTTPClient creates a Client against a custom base URL. It is
// intended for tests that inject an httptest server.
func NewClientWithHTTPClient(logger *slog.Logger, httpClient *http.Client, baseURL, repo string) (*Client, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	client := gh.NewClient(httpClient)
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	client.BaseURL = u

	return &Client{gh: client, logger: logger, owner: owner, name: name}, nil
}

// splitRepo validates and splits an owner/repo slug.
func splitRepo(repo string) (string, string, error) {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return "", "", fmt.Errorf("repository is empty")
	}
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", fmt.Errorf("invalid repository slug %q, expected owner/repo", repo)
	}
	return parts[0], parts[1], nil
}

// GetPullRequest fetches PR metadata by number.
func (c *Client) GetPullRequest(ctx context.Context, number int) (PullRequest, error) {
	if number <= 0 {
		return PullRequest{}, fmt.Errorf("pr number must be positive")
	}

	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.name, number)
	if err != nil {
		return PullRequest{}, fmt.Errorf("get PR %s/%s#%d: %w", c.owner, c.name, number, err)
	}
	return mapPullRequest(pr), nil
}

// GetPullRequestForBranch resolves the most recent PR whose head ref matches
// the given branch name.
func (c *Client) GetPullRequestForBranch(ctx context.Context, branch string) (PullRequest, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return PullRequest{}, fmt.Errorf("branch name is empty")
	}

	opts := &gh.PullRequestListOptions{
		State:       "all",
		Head:        c.owner + ":" + branch,
		ListOptions: gh.ListOptions{PerPage: 10},
	}
	prs, _, err := c.gh.PullRequests.List(ctx, c.owner, c.name, opts)
	if err != nil {
		return PullRequest{}, fmt.Errorf("list PRs for branch %q: %w", branch, err)
	}
	if len(prs) == 0 {
		return PullRequest{}, fmt.Errorf("no pull request found for branch %q", branch)
	}
	return mapPullRequest(prs[0]), nil
}

// ListReviewComments fetches all inline review comments for a PR, including
// replies, in API return order.
func (c *Client) ListReviewComments(ctx context.Context, number int) ([]review.Raw, error) {
	opts := &gh.PullRequestListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var out []review.Raw
	for {
		comments, resp, err := c.gh.PullRequests.ListComments(ctx, c.owner, c.name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("list review comments for PR %d (page %d): %w", number, opts.Page, err)
		}
		for _, comment := range comments {
			out = append(out, mapReviewComment(comment))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if c.logger != nil {
		c.logger.Debug("fetched review comments", "pr", number, "count", len(out))
	}
	return out, nil
}

// ListIssueComments fetches the PR-level (non-inline) comments for a PR.
func (c *Client) ListIssueComments(ctx context.Context, number int) ([]review.Raw, error) {
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var out []review.Raw
	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, c.owner, c.name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("list issue comments for PR %d (page %d): %w", number, opts.Page, err)
		}
		for _, comment := range comments {
			out = append(out, review.Raw{
				ID:        comment.GetID(),
				Author:    comment.GetUser().GetLogin(),
				Body:      comment.GetBody(),
				CreatedAt: comment.GetCreatedAt().Time,
				State:     "SUBMITTED",
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if c.logger != nil {
		c.logger.Debug("fetched issue comments", "pr", number, "count", len(out))
	}
	return out, nil
}

// ReplyToComment posts a reply under an existing review comment thread.
func (c *Client) ReplyToComment(ctx context.Context, number int, commentID int64, body string) error {
	_, _, err := c.gh.PullRequests.CreateCommentInReplyTo(ctx, c.owner, c.name, number, body, commentID)
	if err != nil {
		return fmt.Errorf("reply to comment %d on PR %d: %w", commentID, number, err)
	}
	return nil
}

// CreateComment posts a general PR-level comment via the Issues API.
func (c *Client) CreateComment(ctx context.Context, number int, body string) error {
	comment := &gh.IssueComment{Body: gh.Ptr(body)}
	if _, _, err := c.gh.Issues.CreateComment(ctx, c.owner, c.name, number, comment); err != nil {
		return fmt.Errorf("create comment on PR %d: %w", number, err)
	}
	return nil
}

// CreatePullRequest opens a PR from head into base and returns its URL.
func (c *Client) CreatePullRequest(ctx context.Context, title, body, head, base string, draft bool) (string, error) {
	newPR := &gh.NewPullRequest{
		Title: gh.Ptr(title),
		Body:  gh.Ptr(body),
		Head:  gh.Ptr(head),
		Base:  gh.Ptr(base),
		Draft: gh.Ptr(draft),
	}

	pr, _, err := c.gh.PullRequests.Create(ctx, c.owner, c.name, newPR)
	if err != nil {
		return "", fmt.Errorf("create PR %q: %w", title, err)
	}
	return pr.GetHTMLURL(), nil
}

// mapPullRequest maps a go-github pull request to the local type.
func mapPullRequest(pr *gh.PullRequest) PullRequest {
	return PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		URL:        pr.GetHTMLURL(),
		State:      pr.GetState(),
		HeadBranch: pr.GetHead().GetRef(),
	}
}

// mapReviewComment maps a go-github inline review comment to the wire record.
func mapReviewComment(comment *gh.PullRequestComment) review.Raw {
	return review.Raw{
		ID:           comment.GetID(),
		Author:       comment.GetUser().GetLogin(),
		Body:         comment.GetBody(),
		Path:         comment.GetPath(),
		Line:         comment.GetLine(),
		OriginalLine: comment.GetOriginalLine(),
		DiffHunk:     comment.GetDiffHunk(),
		CreatedAt:    comment.GetCreatedAt().Time,
		InReplyTo:    comment.GetInReplyTo(),
		State:        "SUBMITTED",
	}
}
