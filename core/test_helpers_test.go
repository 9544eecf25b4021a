package core

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

const testBaseURL = "http://api.test/api/v1"

// handlerTransport serves requests straight from an http.Handler.
type handlerTransport struct {
	handler http.Handler
	fail    func(req TransportRequest) error

	mu       sync.Mutex
	requests []TransportRequest
}

func (t *handlerTransport) Kind() string { return "handler" }

func (t *handlerTransport) Do(ctx context.Context, req TransportRequest) (TransportResponse, error) {
	t.mu.Lock()
	t.requests = append(t.requests, cloneTransportRequest(req))
	fail := t.fail
	t.mu.Unlock()
	if fail != nil {
		if err := fail(req); err != nil {
			return TransportResponse{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return TransportResponse{}, err
	}

	httpReq := httptest.NewRequest(req.Method, req.URL, bytes.NewReader(req.Body)).WithContext(ctx)
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	t.handler.ServeHTTP(recorder, httpReq)

	headers := map[string]string{}
	for key, values := range recorder.Header() {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}
	return TransportResponse{
		StatusCode: recorder.Code,
		Headers:    headers,
		Body:       recorder.Body.Bytes(),
	}, nil
}

func (t *handlerTransport) snapshot() []TransportRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TransportRequest, len(t.requests))
	copy(out, t.requests)
	return out
}

func (t *handlerTransport) requestsTo(path string) []TransportRequest {
	out := []TransportRequest{}
	for _, req := range t.snapshot() {
		if requestPath(req.URL) == path {
			out = append(out, req)
		}
	}
	return out
}

func requestPath(rawURL string) string {
	path := strings.TrimPrefix(rawURL, testBaseURL)
	if index := strings.Index(path, "?"); index >= 0 {
		path = path[:index]
	}
	return path
}

func cloneTransportRequest(req TransportRequest) TransportRequest {
	out := req
	out.Headers = make(map[string]string, len(req.Headers))
	for key, value := range req.Headers {
		out.Headers[key] = value
	}
	out.Body = append([]byte(nil), req.Body...)
	return out
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *handlerTransport, *MemoryCredentialStore) {
	t.Helper()
	transport := &handlerTransport{handler: handler}
	store := NewMemoryCredentialStore()
	base := []Option{
		WithTransport(transport),
		WithCredentialStore(store),
		WithConfigProvider(NewCfgxConfigProvider(nil)),
	}
	client, err := NewClient(Config{BaseURL: testBaseURL}, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, transport, store
}

func seedTokens(t *testing.T, store CredentialStore, access string, refresh string) {
	t.Helper()
	ctx := context.Background()
	if access != "" {
		if err := store.Set(ctx, SlotAccessToken, access); err != nil {
			t.Fatalf("seed access token: %v", err)
		}
	}
	if refresh != "" {
		if err := store.Set(ctx, SlotRefreshToken, refresh); err != nil {
			t.Fatalf("seed refresh token: %v", err)
		}
	}
}

func slotValue(t *testing.T, store CredentialStore, slot TokenSlot) (string, bool) {
	t.Helper()
	value, ok, err := store.Get(context.Background(), slot)
	if err != nil {
		t.Fatalf("get %s: %v", slot, err)
	}
	return value, ok
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("read request body: %v", err)
	}
	out := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode request body %q: %v", raw, err)
		}
	}
	return out
}

// tokenAPI accepts one access token on protected paths and swaps the
// refresh token for a new access token.
type tokenAPI struct {
	t            *testing.T
	validAccess  string
	refreshToken string
	nextAccess   string

	mu           sync.Mutex
	refreshCalls int
	unauthorized int
}

func (a *tokenAPI) refreshHandler(w http.ResponseWriter, r *http.Request) {
	body := readBody(a.t, r)
	a.mu.Lock()
	a.refreshCalls++
	a.mu.Unlock()
	if body["refresh"] != a.refreshToken {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Token is invalid or expired"})
		return
	}
	a.mu.Lock()
	a.validAccess = a.nextAccess
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"access": a.nextAccess})
}

func (a *tokenAPI) authorized(r *http.Request) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if r.Header.Get("Authorization") == "Bearer "+a.validAccess {
		return true
	}
	a.unauthorized++
	return false
}

func (a *tokenAPI) protect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Given token not valid for any token type"})
			return
		}
		next(w, r)
	}
}

func (a *tokenAPI) counts() (refreshCalls int, unauthorized int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.refreshCalls, a.unauthorized
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}
