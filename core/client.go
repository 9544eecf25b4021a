package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
)

// Client is the single chokepoint for calls to the EasyJob API. It attaches
// the stored access token, recovers from one 401 by refreshing and retrying
// once, and normalizes failures into the errors in errors.go.
type Client struct {
	config         Config
	logger         Logger
	loggerProvider LoggerProvider
	metrics        MetricsRecorder
	errorMapper    ErrorMapper
	store          CredentialStore
	transport      TransportAdapter
	authExpired    AuthExpiredHandler
	requestID      func() string
	coalesce       bool

	refreshMu sync.Mutex
	inflight  *refreshCall
}

type refreshCall struct {
	done    chan struct{}
	err     error
	waiters int
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	builder := defaultClientBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(NewEnvConfigLoader())
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.credentialStore == nil {
		builder.credentialStore = NewMemoryCredentialStore()
	}
	if builder.requestIDFn == nil {
		builder.requestIDFn = uuid.NewString
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	if builder.transport == nil {
		return nil, badInputError("core: transport adapter is required")
	}

	provider, logger := glog.Resolve(finalConfig.ServiceName, builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger(finalConfig.ServiceName); named != nil {
			logger = glog.Ensure(named)
		}
	}

	coalesce := finalConfig.RefreshCoalescing
	if builder.refreshCoalescing != nil {
		coalesce = *builder.refreshCoalescing
		finalConfig.RefreshCoalescing = coalesce
	}

	return &Client{
		config:         finalConfig,
		logger:         logger,
		loggerProvider: provider,
		metrics:        builder.metricsRecorder,
		errorMapper:    builder.errorMapper,
		store:          builder.credentialStore,
		transport:      builder.transport,
		authExpired:    builder.authExpired,
		requestID:      builder.requestIDFn,
		coalesce:       coalesce,
	}, nil
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (c *Client) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.config
}

func (c *Client) CredentialStore() CredentialStore {
	if c == nil {
		return nil
	}
	return c.store
}

func (c *Client) LoggerProvider() LoggerProvider {
	if c == nil {
		return nil
	}
	return c.loggerProvider
}

// Request performs one logical call against path. A 401 on the first attempt
// triggers exactly one refresh and one retry; when either fails the stored
// credentials are purged and AuthenticationFailed is returned.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error) {
	if c == nil {
		return nil, internalError(nil, "core: client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := c.prepare(path, opts)
	if err != nil {
		return nil, err
	}

	startedAt := time.Now()
	data, attempts, err := c.exchange(ctx, req)
	fields := req.logFields(attempts)
	if status := HTTPStatus(err); status > 0 {
		fields["status"] = status
	}
	c.observe(ctx, startedAt, "request", err, fields)
	return data, err
}

func (c *Client) exchange(ctx context.Context, req preparedRequest) (json.RawMessage, int, error) {
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, 1, err
	}
	if resp.StatusCode != http.StatusUnauthorized || req.skipAuth {
		data, err := interpretResponse(req, resp)
		return data, 1, err
	}

	if err := c.refreshForRetry(ctx); err != nil {
		if canceled := callerCanceled(ctx, err); canceled != nil {
			return nil, 1, canceled
		}
		return nil, 1, c.authenticationFailed(ctx, req, err)
	}

	resp, err = c.send(ctx, req)
	if err != nil {
		if canceled := callerCanceled(ctx, err); canceled != nil {
			return nil, 2, canceled
		}
		return nil, 2, c.authenticationFailed(ctx, req, err)
	}
	data, err := interpretResponse(req, resp)
	if err != nil {
		return nil, 2, c.authenticationFailed(ctx, req, err)
	}
	return data, 2, nil
}

// callerCanceled returns the canceled error when the caller gave up. The
// session is left alone: the refresh may well have succeeded.
func callerCanceled(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return classifyTransportError(ctx, ctxErr)
	}
	if hasTextCode(err, ErrorRequestCanceled) {
		return err
	}
	return nil
}

func (c *Client) send(ctx context.Context, req preparedRequest) (TransportResponse, error) {
	headers := make(map[string]string, len(req.headers)+1)
	for key, value := range req.headers {
		headers[key] = value
	}
	if !req.skipAuth {
		token, ok, err := c.store.Get(ctx, SlotAccessToken)
		if err != nil {
			return TransportResponse{}, internalError(err, "core: read access token failed")
		}
		if ok && strings.TrimSpace(token) != "" {
			headers[headerAuthorization] = "Bearer " + token
		}
	}
	return c.do(ctx, TransportRequest{
		Method:  req.method,
		URL:     req.url,
		Headers: headers,
		Body:    req.body,
	})
}

// do hands one attempt to the transport with the configured bounds.
func (c *Client) do(ctx context.Context, req TransportRequest) (TransportResponse, error) {
	req.Timeout = c.config.RequestTimeout
	req.MaxResponseBodyBytes = c.config.MaxResponseBodyBytes
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return TransportResponse{}, classifyTransportError(ctx, err)
	}
	return resp, nil
}

// doUnauthenticated posts or gets outside the refresh-and-retry protocol.
func (c *Client) doUnauthenticated(ctx context.Context, method string, path string, payload any) (TransportResponse, error) {
	headers := map[string]string{
		headerAccept:      contentTypeJSON,
		headerContentType: contentTypeJSON,
	}
	if c.requestID != nil {
		if id := c.requestID(); id != "" {
			headers[headerRequestID] = id
		}
	}
	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return TransportResponse{}, badInputError(fmt.Sprintf("core: encode request body: %v", err))
		}
		body = encoded
	}
	return c.do(ctx, TransportRequest{
		Method:  method,
		URL:     c.config.endpoint(path),
		Headers: headers,
		Body:    body,
	})
}

func interpretResponse(req preparedRequest, resp TransportResponse) (json.RawMessage, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(req.method, req.path, resp.StatusCode, resp.Body)
	}
	body := bytes.TrimSpace(resp.Body)
	if resp.StatusCode == http.StatusNoContent || len(body) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(body) {
		return nil, decodeError(errors.New("invalid json"),
			fmt.Sprintf("core: %s %s returned a non-JSON body", req.method, req.path))
	}
	return json.RawMessage(append([]byte(nil), body...)), nil
}

func (c *Client) authenticationFailed(ctx context.Context, req preparedRequest, cause error) error {
	c.purge(ctx)
	err := newAuthenticationFailed(cause, map[string]any{
		"method": req.method,
		"path":   req.path,
	})
	if c.authExpired != nil {
		c.authExpired(context.WithoutCancel(ctx))
	}
	return err
}

// purge clears both slots even when ctx is already canceled.
func (c *Client) purge(ctx context.Context) {
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logWithLevel(ctx, "warn", "credential purge failed", map[string]any{"error": err.Error()})
	}
}

func (c *Client) refreshForRetry(ctx context.Context) error {
	if c.coalesce {
		return c.sharedRefresh(ctx)
	}
	return c.refresh(ctx)
}

// RefreshToken exchanges the stored refresh token for a new access token.
// Only the access slot is overwritten. A missing refresh token or a
// rejected refresh purges both slots.
func (c *Client) RefreshToken(ctx context.Context) error {
	if c == nil {
		return internalError(nil, "core: client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return c.refreshForRetry(ctx)
}

func (c *Client) sharedRefresh(ctx context.Context) error {
	c.refreshMu.Lock()
	if call := c.inflight; call != nil {
		call.waiters++
		c.refreshMu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return classifyTransportError(ctx, ctx.Err())
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	c.refreshMu.Unlock()

	// Waiters must not inherit the leader's cancellation.
	call.err = c.refresh(context.WithoutCancel(ctx))

	c.refreshMu.Lock()
	c.inflight = nil
	waiters := call.waiters
	c.refreshMu.Unlock()
	close(call.done)
	if waiters > 0 {
		c.logWithLevel(ctx, "debug", "session refresh shared", map[string]any{"waiters": waiters})
	}
	return call.err
}

func (c *Client) refresh(ctx context.Context) (err error) {
	startedAt := time.Now()
	defer func() {
		c.observe(ctx, startedAt, "refresh", err, nil)
	}()

	refreshToken, ok, err := c.store.Get(ctx, SlotRefreshToken)
	if err != nil {
		c.purge(ctx)
		return refreshFailed(internalError(err, "core: read refresh token failed"))
	}
	if !ok || strings.TrimSpace(refreshToken) == "" {
		c.purge(ctx)
		return newAuthError(ErrNoRefreshToken, ErrorNoRefreshToken, http.StatusUnauthorized, "No refresh token available")
	}

	// Transport failures leave the slots alone so a later attempt can still
	// refresh. Request purges on its own when it gives up.
	resp, err := c.doUnauthenticated(ctx, http.MethodPost, PathTokenRefresh, map[string]string{"refresh": refreshToken})
	if err != nil {
		return refreshFailed(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.purge(ctx)
		return refreshFailed(newHTTPError(http.MethodPost, PathTokenRefresh, resp.StatusCode, resp.Body))
	}
	var pair CredentialPair
	if err := json.Unmarshal(resp.Body, &pair); err != nil || strings.TrimSpace(pair.Access) == "" {
		c.purge(ctx)
		return refreshFailed(decodeError(orDefault(err, errors.New("missing access token")),
			"core: refresh response carried no access token"))
	}
	if err := c.store.Set(ctx, SlotAccessToken, pair.Access); err != nil {
		c.purge(ctx)
		return refreshFailed(internalError(err, "core: store access token failed"))
	}
	return nil
}

func refreshFailed(cause error) error {
	return newAuthError(fmt.Errorf("%w: %w", ErrRefreshFailed, cause),
		ErrorRefreshFailed, http.StatusUnauthorized, "Token refresh failed")
}

// Login exchanges email and password for a token pair and persists both
// slots. It never enters the refresh-and-retry protocol.
func (c *Client) Login(ctx context.Context, email string, password string) (pair CredentialPair, err error) {
	if c == nil {
		return CredentialPair{}, internalError(nil, "core: client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := time.Now()
	defer func() {
		c.observe(ctx, startedAt, "login", err, map[string]any{"method": http.MethodPost, "path": PathToken})
	}()

	resp, err := c.doUnauthenticated(ctx, http.MethodPost, PathToken, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return CredentialPair{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := newHTTPError(http.MethodPost, PathToken, resp.StatusCode, resp.Body)
		return CredentialPair{}, newAuthError(fmt.Errorf("%w: %w", ErrLoginFailed, cause),
			ErrorLoginFailed, resp.StatusCode, "Login failed")
	}
	if err := json.Unmarshal(resp.Body, &pair); err != nil || strings.TrimSpace(pair.Access) == "" {
		return CredentialPair{}, decodeError(orDefault(err, errors.New("missing access token")),
			"core: login response carried no access token")
	}
	if err := c.store.Set(ctx, SlotAccessToken, pair.Access); err != nil {
		return CredentialPair{}, internalError(err, "core: store access token failed")
	}
	// An empty refresh value overwrites a stale one and reads as absent.
	if err := c.store.Set(ctx, SlotRefreshToken, pair.Refresh); err != nil {
		return CredentialPair{}, internalError(err, "core: store refresh token failed")
	}
	return pair, nil
}

// Logout clears both slots. Later requests carry no Authorization header.
func (c *Client) Logout(ctx context.Context) error {
	if c == nil {
		return internalError(nil, "core: client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := c.store.Clear(ctx); err != nil {
		return internalError(err, "core: clear credentials failed")
	}
	c.logWithLevel(ctx, "info", "logout succeeded", map[string]any{"operation": "logout"})
	return nil
}
