package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

func (c *Client) GetCategories(ctx context.Context) ([]json.RawMessage, error) {
	return c.list(ctx, PathCategories, nil)
}

func (c *Client) GetSkills(ctx context.Context, search string) ([]json.RawMessage, error) {
	var query url.Values
	if search = strings.TrimSpace(search); search != "" {
		query = url.Values{"search": []string{search}}
	}
	return c.list(ctx, PathSkills, query)
}

func (c *Client) GetContact(ctx context.Context) (json.RawMessage, error) {
	return c.Request(ctx, PathContact, RequestOptions{})
}

// CheckHealth reports whether the API answered /health/ with a 2xx. It is
// unauthenticated and never refreshes.
func (c *Client) CheckHealth(ctx context.Context) bool {
	if c == nil {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := time.Now()
	resp, err := c.doUnauthenticated(ctx, http.MethodGet, PathHealth, nil)
	healthy := err == nil && resp.StatusCode >= 200 && resp.StatusCode <= 299
	fields := map[string]any{"method": http.MethodGet, "path": PathHealth, "healthy": healthy}
	if err == nil {
		fields["status"] = resp.StatusCode
	}
	c.observe(ctx, startedAt, "health", err, fields)
	return healthy
}

var statsQuery = url.Values{"page_size": []string{"1"}}

// GetJobStats returns the total vacancy count.
func (c *Client) GetJobStats(ctx context.Context) (int, error) {
	return c.count(ctx, PathVacancies)
}

func (c *Client) GetCompanyStats(ctx context.Context) (int, error) {
	return c.count(ctx, PathCompanies)
}

func (c *Client) GetUserStats(ctx context.Context) (int, error) {
	return c.count(ctx, PathUsers)
}

func (c *Client) count(ctx context.Context, path string) (int, error) {
	data, err := c.Request(ctx, path, RequestOptions{Query: statsQuery})
	if err != nil {
		return 0, err
	}
	page, err := AsPage(data)
	if err != nil {
		return 0, err
	}
	return page.Count, nil
}
