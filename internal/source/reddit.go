package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okarpov/turncoat/internal/model"
	"github.com/okarpov/turncoat/internal/util"
)

// RedditClient fetches a user's comment and post history from a
// Reddit-style public JSON listing API
type RedditClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	pageSize   int
	maxPages   int
	robots     *RobotsGate
}

// NewRedditClient creates a statement source client from configuration
func NewRedditClient(cfg model.SourceConfig) *RedditClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 4_000_000
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 4
	}

	var robots *RobotsGate
	if cfg.CheckRobots {
		robots = NewRobotsGate(cfg.UserAgent, timeout)
	}

	return &RedditClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
		pageSize:  pageSize,
		maxPages:  maxPages,
		robots:    robots,
	}
}

// Listing API structures
type listingResponse struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string      `json:"kind"`
			Data listingItem `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type listingItem struct {
	Body         string  `json:"body,omitempty"`          // comment text
	BodyHTML     string  `json:"body_html,omitempty"`     // comment text, rendered
	Title        string  `json:"title,omitempty"`         // post title
	Selftext     string  `json:"selftext,omitempty"`      // post body
	SelftextHTML string  `json:"selftext_html,omitempty"` // post body, rendered
	LinkTitle    string  `json:"link_title,omitempty"`    // parent post title for comments
	Subreddit    string  `json:"subreddit"`
	Score        int     `json:"score"`
	CreatedUTC   float64 `json:"created_utc"`
	Permalink    string  `json:"permalink,omitempty"`
}

// Fetch retrieves the subject's comments and posts, merged into one raw
// item set. A completely unreachable source returns ErrUnavailable.
func (c *RedditClient) Fetch(ctx context.Context, subject string) ([]model.RawItem, error) {
	comments, commentsErr := c.fetchListing(ctx, subject, "comments", model.KindComment)
	posts, postsErr := c.fetchListing(ctx, subject, "submitted", model.KindPost)

	if commentsErr != nil && postsErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, commentsErr)
	}

	return append(comments, posts...), nil
}

// fetchListing paginates one listing endpoint with the after cursor
func (c *RedditClient) fetchListing(ctx context.Context, subject, listing string, kind model.StatementKind) ([]model.RawItem, error) {
	path := fmt.Sprintf("/user/%s/%s.json", url.PathEscape(subject), listing)

	if c.robots != nil {
		parsed, err := url.Parse(c.baseURL)
		if err == nil && !c.robots.Allowed(ctx, parsed.Scheme, parsed.Host, path) {
			return nil, fmt.Errorf("robots.txt disallows %s", path)
		}
	}

	var items []model.RawItem
	after := ""
	for page := 0; page < c.maxPages; page++ {
		resp, err := c.fetchPage(ctx, path, after)
		if err != nil {
			// Partial history is better than none; keep what we have
			if len(items) > 0 {
				return items, nil
			}
			return nil, err
		}

		for _, child := range resp.Data.Children {
			items = append(items, toRawItem(child.Data, kind))
		}

		after = resp.Data.After
		if after == "" || len(resp.Data.Children) == 0 {
			break
		}
	}
	return items, nil
}

func (c *RedditClient) fetchPage(ctx context.Context, path, after string) (*listingResponse, error) {
	u := fmt.Sprintf("%s%s?limit=%d&raw_json=1", c.baseURL, path, c.pageSize)
	if after != "" {
		u += "&after=" + url.QueryEscape(after)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var listing listingResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return &listing, nil
}

// toRawItem maps one listing record to a raw item, preferring the rendered
// body (with markup stripped) over the markdown source
func toRawItem(item listingItem, kind model.StatementKind) model.RawItem {
	var text string
	switch kind {
	case model.KindComment:
		text = item.Body
		if item.BodyHTML != "" {
			text = stripMarkup(item.BodyHTML)
		}
	default:
		body := item.Selftext
		if item.SelftextHTML != "" {
			body = stripMarkup(item.SelftextHTML)
		}
		text = strings.TrimSpace(item.Title + " " + body)
	}

	raw := model.RawItem{
		Text:      text,
		Timestamp: int64(item.CreatedUTC),
		Venue:     item.Subreddit,
		Weight:    item.Score,
		Kind:      kind,
		Permalink: item.Permalink,
	}
	if kind == model.KindComment {
		raw.ContextTitle = item.LinkTitle
	}
	return raw
}
