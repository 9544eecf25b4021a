package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

func (c *Client) list(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	data, err := c.Request(ctx, path, RequestOptions{Query: query})
	if err != nil {
		return nil, err
	}
	return AsList(data)
}

func requireID(kind string, id string) error {
	if strings.TrimSpace(id) == "" {
		return badInputError("core: " + kind + " id is required")
	}
	return nil
}

func (c *Client) GetVacancies(ctx context.Context, params url.Values) ([]json.RawMessage, error) {
	return c.list(ctx, PathVacancies, params)
}

func (c *Client) GetFeaturedVacancies(ctx context.Context) ([]json.RawMessage, error) {
	return c.list(ctx, PathFeaturedVacancies, nil)
}

// GetVacancy returns an HTTPError with status 404 for unknown ids; see
// IsNotFound.
func (c *Client) GetVacancy(ctx context.Context, id string) (json.RawMessage, error) {
	if err := requireID("vacancy", id); err != nil {
		return nil, err
	}
	return c.Request(ctx, vacancyPath(id), RequestOptions{})
}

func (c *Client) GetEmployerJobs(ctx context.Context) ([]json.RawMessage, error) {
	return c.list(ctx, PathVacancies, url.Values{"my_jobs": []string{"true"}})
}

func (c *Client) CreateJob(ctx context.Context, jobData any) (json.RawMessage, error) {
	return c.Request(ctx, PathVacancies, RequestOptions{Method: http.MethodPost, Body: JSONBody{Value: jobData}})
}

func (c *Client) UpdateJob(ctx context.Context, id string, jobData any) (json.RawMessage, error) {
	if err := requireID("vacancy", id); err != nil {
		return nil, err
	}
	return c.Request(ctx, vacancyPath(id), RequestOptions{Method: http.MethodPatch, Body: JSONBody{Value: jobData}})
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	if err := requireID("vacancy", id); err != nil {
		return err
	}
	_, err := c.Request(ctx, vacancyPath(id), RequestOptions{Method: http.MethodDelete})
	return err
}

func (c *Client) ApplyToVacancy(ctx context.Context, vacancyID string, resumeID string, coverLetter string) (json.RawMessage, error) {
	if err := requireID("vacancy", vacancyID); err != nil {
		return nil, err
	}
	return c.Request(ctx, vacancyApplyPath(vacancyID), RequestOptions{
		Method: http.MethodPost,
		Body: JSONBody{Value: map[string]string{
			"resume":       resumeID,
			"cover_letter": coverLetter,
		}},
	})
}
