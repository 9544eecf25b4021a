package gojob

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-easyjob/core"

	job "github.com/goliatone/go-job"
)

type refreshTransport struct {
	mu    sync.Mutex
	fail  error
	calls int
}

func (t *refreshTransport) Kind() string { return "refresh-stub" }

func (t *refreshTransport) Do(_ context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	if t.fail != nil {
		return core.TransportResponse{}, t.fail
	}
	if !strings.HasSuffix(req.URL, "/token/refresh/") {
		return core.TransportResponse{StatusCode: 404, Body: []byte(`{"detail":"Not found."}`)}, nil
	}
	return core.TransportResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(`{"access":"access-2"}`),
	}, nil
}

func newRefreshClient(t *testing.T, transport core.TransportAdapter) (*core.Client, *core.MemoryCredentialStore) {
	t.Helper()
	store := core.NewMemoryCredentialStore()
	ctx := context.Background()
	if err := store.Set(ctx, core.SlotAccessToken, "access-1"); err != nil {
		t.Fatalf("seed access: %v", err)
	}
	if err := store.Set(ctx, core.SlotRefreshToken, "refresh-1"); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}
	client, err := core.NewClient(core.Config{BaseURL: "http://api.test/api/v1"},
		core.WithTransport(transport),
		core.WithCredentialStore(store),
		core.WithConfigProvider(core.NewCfgxConfigProvider(nil)),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, store
}

type recordingHook struct {
	started   int
	succeeded int
	failed    int
}

func (h *recordingHook) OnStart(context.Context, core.JobWorkerEvent)   { h.started++ }
func (h *recordingHook) OnSuccess(context.Context, core.JobWorkerEvent) { h.succeeded++ }
func (h *recordingHook) OnFailure(context.Context, core.JobWorkerEvent) { h.failed++ }
func (h *recordingHook) OnRetry(context.Context, core.JobWorkerEvent)   {}

func refreshDelivery(params map[string]any) *stubQueueDelivery {
	return &stubQueueDelivery{msg: &job.ExecutionMessage{
		JobID:      JobIDSessionRefresh,
		ScriptPath: JobIDSessionRefresh,
		Parameters: params,
	}}
}

func TestRefreshWorkerAcksSuccessfulRefresh(t *testing.T) {
	client, store := newRefreshClient(t, &refreshTransport{})
	raw := refreshDelivery(nil)
	hook := &recordingHook{}
	w := NewRefreshWorker(
		NewDequeuerAdapter(&stubQueueDequeuer{delivery: raw}, DefaultRetryPolicy()),
		core.NewRefreshJobHandler(client),
		WithWorkerHook(hook),
	)

	processed, err := w.RunOnce(context.Background())
	if err != nil || !processed {
		t.Fatalf("expected processed delivery, got %v %v", processed, err)
	}
	if !raw.acked {
		t.Fatalf("expected ack")
	}
	access, _, err := store.Get(context.Background(), core.SlotAccessToken)
	if err != nil || access != "access-2" {
		t.Fatalf("expected refreshed access token, got %q (%v)", access, err)
	}
	if hook.started != 1 || hook.succeeded != 1 || hook.failed != 0 {
		t.Fatalf("unexpected hook counts %+v", hook)
	}
}

func TestRefreshWorkerRequeuesTransientFailure(t *testing.T) {
	client, store := newRefreshClient(t, &refreshTransport{fail: errors.New("connection refused")})
	raw := refreshDelivery(map[string]any{ParamAttempt: 1})
	w := NewRefreshWorker(
		NewDequeuerAdapter(&stubQueueDequeuer{delivery: raw}, DefaultRetryPolicy()),
		core.NewRefreshJobHandler(client).WithBackoff(10*time.Minute),
	)

	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if !raw.nackOpts.Requeue || raw.nackOpts.DeadLetter {
		t.Fatalf("expected requeue, got %+v", raw.nackOpts)
	}
	if raw.nackOpts.Delay != 5*time.Minute {
		t.Fatalf("expected delay bounded to 5m, got %s", raw.nackOpts.Delay)
	}
	if refresh, ok, _ := store.Get(context.Background(), core.SlotRefreshToken); !ok || refresh != "refresh-1" {
		t.Fatalf("transient failure must keep the session")
	}
}

func TestRefreshWorkerDeadLettersAfterMaxAttempts(t *testing.T) {
	client, _ := newRefreshClient(t, &refreshTransport{fail: errors.New("connection refused")})
	raw := refreshDelivery(map[string]any{ParamAttempt: float64(5)})
	w := NewRefreshWorker(
		NewDequeuerAdapter(&stubQueueDequeuer{delivery: raw}, DefaultRetryPolicy()),
		core.NewRefreshJobHandler(client),
	)

	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if raw.nackOpts.Requeue || !raw.nackOpts.DeadLetter {
		t.Fatalf("expected dead letter at max attempts, got %+v", raw.nackOpts)
	}
}

func TestRefreshWorkerEmptyQueue(t *testing.T) {
	client, _ := newRefreshClient(t, &refreshTransport{})
	w := NewRefreshWorker(
		NewDequeuerAdapter(&stubQueueDequeuer{}, RetryPolicy{}),
		core.NewRefreshJobHandler(client),
	)
	processed, err := w.RunOnce(context.Background())
	if err != nil || processed {
		t.Fatalf("expected nothing processed, got %v %v", processed, err)
	}
}

func TestRefreshWorkerRunStopsOnCancel(t *testing.T) {
	client, _ := newRefreshClient(t, &refreshTransport{})
	w := NewRefreshWorker(
		NewDequeuerAdapter(&stubQueueDequeuer{}, RetryPolicy{}),
		core.NewRefreshJobHandler(client),
		WithIdleDelay(5*time.Millisecond),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := w.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRefreshWorkerRequiresDependencies(t *testing.T) {
	if _, err := NewRefreshWorker(nil, nil).RunOnce(context.Background()); err == nil {
		t.Fatalf("expected configuration error")
	}
	if err := NewRefreshWorker(nil, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected configuration error from run")
	}
}

func TestScheduleRefreshThroughEnqueuerAdapter(t *testing.T) {
	client, _ := newRefreshClient(t, &refreshTransport{})
	enqueuer := &stubQueueEnqueuer{}
	if err := client.ScheduleRefresh(context.Background(), NewEnqueuerAdapter(enqueuer), time.Minute); err != nil {
		t.Fatalf("schedule refresh: %v", err)
	}
	if enqueuer.last == nil || enqueuer.last.JobID != JobIDSessionRefresh {
		t.Fatalf("expected refresh job enqueued, got %+v", enqueuer.last)
	}
	if enqueuer.last.DedupPolicy != job.DeduplicationPolicy("drop") {
		t.Fatalf("expected drop dedup policy, got %q", enqueuer.last.DedupPolicy)
	}
}

func TestAttemptOf(t *testing.T) {
	cases := map[string]struct {
		value any
		want  int
	}{
		"int":     {3, 3},
		"int64":   {int64(4), 4},
		"float":   {float64(2), 2},
		"string":  {"7", 0},
		"missing": {nil, 0},
	}
	for name, tc := range cases {
		params := map[string]any{}
		if tc.value != nil {
			params[ParamAttempt] = tc.value
		}
		if got := AttemptOf(&job.ExecutionMessage{Parameters: params}); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", name, tc.want, got)
		}
	}
	if AttemptOf(nil) != 0 {
		t.Fatalf("expected zero for nil message")
	}
}
