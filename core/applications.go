package core

import (
	"context"
	"encoding/json"
	"net/http"
)

func (c *Client) GetResumes(ctx context.Context) ([]json.RawMessage, error) {
	return c.list(ctx, PathResumes, nil)
}

// CreateResume uploads a resume. The form usually carries title, experience,
// education, skills and a "file" part.
func (c *Client) CreateResume(ctx context.Context, form *MultipartBody) (json.RawMessage, error) {
	if form == nil {
		return nil, badInputError("core: resume form is required")
	}
	return c.Request(ctx, PathResumes, RequestOptions{Method: http.MethodPost, Body: form})
}

func (c *Client) GetApplications(ctx context.Context) ([]json.RawMessage, error) {
	return c.list(ctx, PathApplications, nil)
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, id string, status ApplicationStatus) (json.RawMessage, error) {
	if err := requireID("application", id); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, badInputError("core: unknown application status " + string(status))
	}
	return c.Request(ctx, applicationStatusPath(id), RequestOptions{
		Method: http.MethodPost,
		Body:   JSONBody{Value: map[string]string{"status": string(status)}},
	})
}
