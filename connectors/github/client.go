// Package github provides a minimal GitHub connector used by the importer.
// It pages through the GraphQL issues connection and handles rate limiting.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gh "issue-stats/domain/github"

	"golang.org/x/oauth2"
)

const (
	githubGraphQLEndpoint = "https://api.github.com/graphql"
	perPage               = 100
	rateSafetyMargin      = 2 * time.Second
	maxRateLimitWait      = time.Hour
)

// Client is a thin wrapper over http.Client posting GraphQL queries.
// Use New or NewWithToken to construct it.
type Client struct {
	c        *http.Client
	endpoint string
}

// New wraps c, which is expected to carry authentication already.
func New(c *http.Client) *Client {
	if c == nil {
		c = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{c: c, endpoint: githubGraphQLEndpoint}
}

// NewWithToken returns a client authenticating every request with token.
func NewWithToken(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = 30 * time.Second
	return New(tc)
}

// WithEndpoint points the client at another GraphQL endpoint (GitHub Enterprise or tests).
func (hc *Client) WithEndpoint(endpoint string) *Client {
	hc.endpoint = endpoint
	return hc
}

func (hc *Client) do(ctx context.Context, body []byte) (*http.Response, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, hc.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		resp, err := hc.c.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0" {
			_ = drainAndClose(resp.Body)
			wait, ok := untilReset(resp)
			if !ok {
				return nil, errors.New("rate limited by GitHub API")
			}
			slog.Warn("rate.limit.sleep", "wait", wait)
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		b, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("github API %s %s returned %d: %s", req.Method, req.URL.String(), resp.StatusCode, string(b))
	}
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, rc)
	return rc.Close()
}

// untilReset reads X-RateLimit-Reset and returns how long to wait, capped to an hour.
func untilReset(resp *http.Response) (time.Duration, bool) {
	reset := resp.Header.Get("X-RateLimit-Reset")
	if reset == "" {
		return 0, false
	}
	sec, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return 0, false
	}
	wait := time.Until(time.Unix(sec, 0)) + rateSafetyMargin
	if wait <= 0 {
		wait = rateSafetyMargin
	}
	return min(wait, maxRateLimitWait), true
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isRateLimitMessage(messages []string) bool {
	for _, m := range messages {
		if strings.Contains(strings.ToLower(m), "rate limit") {
			return true
		}
	}
	return false
}

const issuesQuery = `query($owner:String!, $name:String!, $pageSize:Int!, $after:String, $since:DateTime){
  repository(owner:$owner, name:$name){
    issues(first:$pageSize, after:$after, orderBy:{field:CREATED_AT, direction:ASC}, states:[OPEN, CLOSED], filterBy:{since:$since}){
      pageInfo{hasNextPage endCursor}
      nodes{
        number
        title
        state
        url
        createdAt
        updatedAt
        labels(first:50){nodes{name}}
      }
    }
  }
}`

type issuesResponse struct {
	Data struct {
		Repository struct {
			Issues struct {
				PageInfo struct {
					HasNextPage bool    `json:"hasNextPage"`
					EndCursor   *string `json:"endCursor"`
				} `json:"pageInfo"`
				Nodes []struct {
					Number    int       `json:"number"`
					Title     string    `json:"title"`
					State     string    `json:"state"`
					URL       string    `json:"url"`
					CreatedAt time.Time `json:"createdAt"`
					UpdatedAt time.Time `json:"updatedAt"`
					Labels    struct {
						Nodes []struct {
							Name string `json:"name"`
						} `json:"nodes"`
					} `json:"labels"`
				} `json:"nodes"`
			} `json:"issues"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ListAllIssues lists every issue of owner/repo, optionally only those updated since
// the given ISO8601 time.
func (hc *Client) ListAllIssues(ctx context.Context, owner, repo, since string) ([]gh.Issue, error) {
	slog.Info("phase.issues.fetch.start", "owner", owner, "repo", repo, "since", since)
	var all []gh.Issue
	vars := map[string]any{"owner": owner, "name": repo, "pageSize": perPage}
	if since != "" {
		vars["since"] = since
	}
	for {
		body, err := json.Marshal(map[string]any{"query": issuesQuery, "variables": vars})
		if err != nil {
			return nil, err
		}
		resp, err := hc.do(ctx, body)
		if err != nil {
			return nil, err
		}
		var out issuesResponse
		err = json.NewDecoder(resp.Body).Decode(&out)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode issues page: %w", err)
		}
		if len(out.Errors) > 0 {
			msgs := make([]string, 0, len(out.Errors))
			for _, e := range out.Errors {
				msgs = append(msgs, e.Message)
			}
			if wait, ok := untilReset(resp); ok && isRateLimitMessage(msgs) {
				slog.Warn("graphql.rate.limit.sleep", "sleep", wait)
				if err := sleep(ctx, wait); err != nil {
					return nil, err
				}
				// retry same page
				continue
			}
			return nil, fmt.Errorf("graphql: %s", msgs[0])
		}
		for _, n := range out.Data.Repository.Issues.Nodes {
			iss := gh.Issue{
				Number:    n.Number,
				Title:     n.Title,
				State:     strings.ToLower(n.State),
				HTMLURL:   n.URL,
				CreatedAt: n.CreatedAt,
				UpdatedAt: n.UpdatedAt,
			}
			for _, l := range n.Labels.Nodes {
				iss.Labels = append(iss.Labels, gh.Label{Name: l.Name})
			}
			all = append(all, iss)
		}
		pi := out.Data.Repository.Issues.PageInfo
		if !pi.HasNextPage || pi.EndCursor == nil {
			slog.Info("phase.issues.fetch.done", "owner", owner, "repo", repo, "count", len(all))
			return all, nil
		}
		vars["after"] = *pi.EndCursor
	}
}
