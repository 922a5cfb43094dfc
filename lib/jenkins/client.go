// Package jenkins is a thin client for the two Jenkins endpoints the
// tools read: a build's plain console text and its timestamped variant.
package jenkins

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"jenkinstools/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

var (
	ErrUnauthorized = errors.New("jenkins authentication failed, check your username and api token")
	ErrNotFound     = errors.New("pipeline run not found")
)

type ClientOptions struct {
	BaseURL  string
	Username string
	APIToken string
	// defaults to 60 seconds
	Timeout time.Duration
}

type Client struct {
	http *resty.Client
}

func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 60
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/"))
	client.SetBasicAuth(opts.Username, opts.APIToken)
	client.SetTimeout(timeout)
	telemetry.InstrumentResty(client, "jenkins/http")

	return &Client{http: client}
}

// buildPath escapes every path part of the pipeline name individually,
// so names like "build-scripts/release-openjdk21-pipeline" keep their
// slashes while anything else is percent-encoded.
func buildPath(pipeline string, run int) string {
	parts := strings.Split(pipeline, "/")
	escaped := make([]string, len(parts))
	for i, part := range parts {
		escaped[i] = url.PathEscape(part)
	}
	return fmt.Sprintf("/job/%s/%d", strings.Join(escaped, "/"), run)
}

func (c *Client) fetch(ctx context.Context, path string) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return "", fmt.Errorf("failed to reach jenkins: %w", err)
	}

	switch resp.StatusCode() {
	case 200:
		return resp.String(), nil
	case 401:
		return "", ErrUnauthorized
	case 404:
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("failed to retrieve console log: status %d: %s", resp.StatusCode(), resp.String())
	}
}

// ConsoleText fetches the plain console log of one pipeline run.
func (c *Client) ConsoleText(ctx context.Context, pipeline string, run int) (string, error) {
	return c.fetch(ctx, buildPath(pipeline, run)+"/consoleText")
}

// TimestampedConsole fetches the console log with the timestamper
// plugin's per-line timestamps prepended.
func (c *Client) TimestampedConsole(ctx context.Context, pipeline string, run int) (string, error) {
	return c.fetch(ctx, buildPath(pipeline, run)+"/timestamps/?time=HH:mm:ss&timeZone=GMT-7&appendLog&locale=en_US")
}
