package jira

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argos/pkg/domain/model"
	"github.com/secmon-lab/argos/pkg/domain/types"
)

const (
	defaultPageSize = 100
	// maxPages bounds the pagination loop so a misbehaving server cannot
	// keep the job alive forever.
	maxPages = 50
)

// requestFields is the only field set the pipeline needs; asking for less
// keeps the payloads small.
var requestFields = []string{"key", "summary", "assignee"}

// Client queries the Jira Cloud search API with basic auth (account email +
// API token).
type Client struct {
	baseURL    string
	email      string
	token      string
	pageSize   int
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPageSize sets the page size requested per search call
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// New creates a Jira client for the given site
func New(baseURL, email, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		email:    email,
		token:    token,
		pageSize: defaultPageSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	StartAt    int  `json:"startAt"`
	MaxResults int  `json:"maxResults"`
	Total      int  `json:"total"`
	Issues     []struct {
		ID     string `json:"id"`
		Key    string `json:"key"`
		Fields struct {
			Summary  string `json:"summary"`
			Assignee *struct {
				AccountID   string `json:"accountId"`
				DisplayName string `json:"displayName"`
			} `json:"assignee"`
		} `json:"fields"`
	} `json:"issues"`
}

// Search retrieves every issue matching the JQL, following the startAt /
// maxResults paging contract until the result set is exhausted.
func (c *Client) Search(ctx context.Context, jql string) ([]*model.Issue, error) {
	logger := ctxlog.From(ctx)

	var issues []*model.Issue
	startAt := 0

	for page := 0; ; page++ {
		if page >= maxPages {
			return nil, goerr.Wrap(model.ErrQuery, "pagination did not terminate",
				goerr.V("pages", page),
				goerr.V("collected", len(issues)))
		}

		resp, err := c.searchPage(ctx, jql, startAt)
		if err != nil {
			return nil, err
		}

		for _, raw := range resp.Issues {
			assignee := model.UnassignedActor()
			if raw.Fields.Assignee != nil {
				assignee = model.Actor{
					AccountID:   types.AccountID(raw.Fields.Assignee.AccountID),
					DisplayName: raw.Fields.Assignee.DisplayName,
				}
			}
			issue, err := model.NewIssue(
				raw.ID,
				types.IssueKey(raw.Key),
				raw.Fields.Summary,
				assignee,
				c.baseURL+"/browse/"+raw.Key,
			)
			if err != nil {
				return nil, goerr.Wrap(err, "malformed issue in search response",
					goerr.V("startAt", startAt))
			}
			issues = append(issues, issue)
		}

		logger.Debug("retrieved search page",
			slog.Int("startAt", resp.StartAt),
			slog.Int("count", len(resp.Issues)),
			slog.Int("total", resp.Total),
		)

		startAt += len(resp.Issues)
		if len(resp.Issues) == 0 || len(resp.Issues) < c.pageSize || startAt >= resp.Total {
			break
		}
	}

	return issues, nil
}

func (c *Client) searchPage(ctx context.Context, jql string, startAt int) (*searchResponse, error) {
	endpoint := c.baseURL + "/rest/api/3/search/jql"

	params := url.Values{}
	params.Set("jql", jql)
	params.Set("startAt", strconv.Itoa(startAt))
	params.Set("maxResults", strconv.Itoa(c.pageSize))
	params.Set("fields", strings.Join(requestFields, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build search request")
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(model.ErrQuery, "search request failed",
			goerr.V("cause", err.Error()))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, goerr.Wrap(model.ErrQuery, "failed to read search response",
			goerr.V("status", resp.StatusCode))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.Wrap(model.ErrQuery, "tracker returned an error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", truncate(string(body), 512)))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, goerr.Wrap(model.ErrQuery, "search response is not valid JSON",
			goerr.V("body", truncate(string(body), 512)))
	}

	return &parsed, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
