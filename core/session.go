package core

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// RegistrationInput carries the credentials reused for the login that
// follows a successful registration. Profile holds every other field the
// backend accepts (username, user_type, password2, ...) and is sent as is.
type RegistrationInput struct {
	Email    string
	Password string
	Profile  map[string]any
}

func (in RegistrationInput) payload() map[string]any {
	out := make(map[string]any, len(in.Profile)+2)
	for key, value := range in.Profile {
		out[key] = value
	}
	out["email"] = in.Email
	out["password"] = in.Password
	return out
}

// Register creates an account. The payload is not validated locally.
func (c *Client) Register(ctx context.Context, userData any) (json.RawMessage, error) {
	return c.Request(ctx, PathUsers, RequestOptions{Method: http.MethodPost, Body: JSONBody{Value: userData}})
}

// RegisterAndLogin registers, logs in with the same email and password,
// then loads the current user.
func (c *Client) RegisterAndLogin(ctx context.Context, in RegistrationInput) (json.RawMessage, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, badInputError("core: email and password are required to log in after registration")
	}
	if _, err := c.Register(ctx, in.payload()); err != nil {
		return nil, err
	}
	return c.LoginAndLoadUser(ctx, in.Email, in.Password)
}

func (c *Client) LoginAndLoadUser(ctx context.Context, email string, password string) (json.RawMessage, error) {
	if _, err := c.Login(ctx, email, password); err != nil {
		return nil, err
	}
	return c.GetCurrentUser(ctx)
}

// RestoreSession loads the current user when an access token is stored.
// Any failure purges both slots and reports false.
func (c *Client) RestoreSession(ctx context.Context) (json.RawMessage, bool, error) {
	if c == nil {
		return nil, false, internalError(nil, "core: client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	token, ok, err := c.store.Get(ctx, SlotAccessToken)
	if err != nil {
		return nil, false, internalError(err, "core: read access token failed")
	}
	if !ok || strings.TrimSpace(token) == "" {
		return nil, false, nil
	}
	user, err := c.GetCurrentUser(ctx)
	if err != nil {
		c.purge(ctx)
		return nil, false, err
	}
	return user, true, nil
}

func (c *Client) GetCurrentUser(ctx context.Context) (json.RawMessage, error) {
	return c.Request(ctx, PathCurrentUser, RequestOptions{})
}

func (c *Client) UpdateCurrentUser(ctx context.Context, form *MultipartBody) (json.RawMessage, error) {
	if form == nil {
		return nil, badInputError("core: user form is required")
	}
	return c.Request(ctx, PathCurrentUser, RequestOptions{Method: http.MethodPatch, Body: form})
}
