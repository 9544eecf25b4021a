package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

func (c *Client) GetCompanies(ctx context.Context, params url.Values) ([]json.RawMessage, error) {
	return c.list(ctx, PathCompanies, params)
}

func (c *Client) GetPopularCompanies(ctx context.Context) ([]json.RawMessage, error) {
	return c.list(ctx, PathPopularCompanies, nil)
}

func (c *Client) GetCompany(ctx context.Context, id string) (json.RawMessage, error) {
	if err := requireID("company", id); err != nil {
		return nil, err
	}
	return c.Request(ctx, companyPath(id), RequestOptions{})
}

// GetMyCompany returns the company owned by the logged-in employer.
func (c *Client) GetMyCompany(ctx context.Context) (json.RawMessage, error) {
	return c.Request(ctx, PathMyCompany, RequestOptions{})
}

func (c *Client) CreateCompany(ctx context.Context, form *MultipartBody) (json.RawMessage, error) {
	if form == nil {
		return nil, badInputError("core: company form is required")
	}
	return c.Request(ctx, PathCompanies, RequestOptions{Method: http.MethodPost, Body: form})
}

func (c *Client) UpdateCompany(ctx context.Context, id string, form *MultipartBody) (json.RawMessage, error) {
	if err := requireID("company", id); err != nil {
		return nil, err
	}
	if form == nil {
		return nil, badInputError("core: company form is required")
	}
	return c.Request(ctx, companyPath(id), RequestOptions{Method: http.MethodPatch, Body: form})
}
