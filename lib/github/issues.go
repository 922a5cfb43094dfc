// Package github covers the one GitHub API interaction the release
// process needs: creating a tracking issue.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"jenkinstools/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.github.com"

type Client struct {
	http  *resty.Client
	owner string
	repo  string
}

type ClientOptions struct {
	Owner string
	Repo  string
	Token string
	// overrides https://api.github.com, used by tests
	BaseURL string
}

func NewClient(opts ClientOptions) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Authorization", "token "+opts.Token)
	client.SetHeader("Accept", "application/vnd.github.v3+json")
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "github/http")

	return &Client{
		http:  client,
		owner: opts.Owner,
		repo:  opts.Repo,
	}
}

// Issue is the slice of the API response the tools care about.
type Issue struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
}

type createIssueRequest struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels,omitempty"`
}

func (c *Client) CreateIssue(ctx context.Context, title, body string, labels []string) (Issue, error) {
	slog.InfoContext(ctx, "creating github issue", "owner", c.owner, "repo", c.repo, "title", title)

	var issue Issue
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createIssueRequest{Title: title, Body: body, Labels: labels}).
		SetResult(&issue).
		Post(fmt.Sprintf("/repos/%s/%s/issues", c.owner, c.repo))
	if err != nil {
		return Issue{}, fmt.Errorf("failed to reach github: %w", err)
	}
	if resp.StatusCode() != 201 {
		return Issue{}, fmt.Errorf("failed to create issue: status %d: %s", resp.StatusCode(), resp.String())
	}

	slog.InfoContext(ctx, "created github issue", "number", issue.Number, "url", issue.HTMLURL)
	return issue, nil
}
