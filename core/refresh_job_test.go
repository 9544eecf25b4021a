package core

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type stubDelivery struct {
	msg    *JobExecutionMessage
	acked  bool
	nacked bool
	opts   JobNackOptions
}

func (d *stubDelivery) Message() *JobExecutionMessage { return d.msg }

func (d *stubDelivery) Ack(context.Context) error {
	d.acked = true
	return nil
}

func (d *stubDelivery) Nack(_ context.Context, opts JobNackOptions) error {
	d.nacked = true
	d.opts = opts
	return nil
}

type stubEnqueuer struct {
	messages []*JobExecutionMessage
}

func (e *stubEnqueuer) Enqueue(_ context.Context, msg *JobExecutionMessage) error {
	e.messages = append(e.messages, msg)
	return nil
}

func refreshDelivery() *stubDelivery {
	return &stubDelivery{msg: &JobExecutionMessage{JobID: JobIDSessionRefresh}}
}

func TestRefreshJobHandlerAcksOnSuccess(t *testing.T) {
	api := &tokenAPI{t: t, refreshToken: "refresh-1", nextAccess: "access-2"}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/token/refresh/", api.refreshHandler)
	client, _, store := newTestClient(t, mux)
	seedTokens(t, store, "access-1", "refresh-1")

	delivery := refreshDelivery()
	if err := NewRefreshJobHandler(client).Handle(context.Background(), delivery); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !delivery.acked || delivery.nacked {
		t.Fatalf("expected ack, got %+v", delivery)
	}
	if access, _ := slotValue(t, store, SlotAccessToken); access != "access-2" {
		t.Fatalf("expected refreshed token, got %q", access)
	}
}

func TestRefreshJobHandlerDeadLettersLostSession(t *testing.T) {
	client, _, _ := newTestClient(t, http.NotFoundHandler())

	delivery := refreshDelivery()
	if err := NewRefreshJobHandler(client).Handle(context.Background(), delivery); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !delivery.nacked || !delivery.opts.DeadLetter || delivery.opts.Requeue {
		t.Fatalf("expected dead letter nack, got %+v", delivery.opts)
	}
}

func TestRefreshJobHandlerRequeuesTransientFailure(t *testing.T) {
	client, transport, store := newTestClient(t, http.NotFoundHandler())
	transport.fail = func(TransportRequest) error { return errors.New("connection refused") }
	seedTokens(t, store, "access-1", "refresh-1")

	delivery := refreshDelivery()
	handler := NewRefreshJobHandler(client).WithBackoff(5 * time.Second)
	if err := handler.Handle(context.Background(), delivery); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !delivery.opts.Requeue || delivery.opts.DeadLetter || delivery.opts.Delay != 5*time.Second {
		t.Fatalf("expected requeue with backoff, got %+v", delivery.opts)
	}
	if refresh, _ := slotValue(t, store, SlotRefreshToken); refresh != "refresh-1" {
		t.Fatalf("transient refresh failures must keep the refresh token")
	}
}

func TestRefreshJobHandlerDefersEarlyDelivery(t *testing.T) {
	client, transport, _ := newTestClient(t, http.NotFoundHandler())
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	handler := NewRefreshJobHandler(client)
	handler.now = func() time.Time { return now }

	delivery := &stubDelivery{msg: &JobExecutionMessage{
		JobID:      JobIDSessionRefresh,
		Parameters: map[string]any{"not_before": now.Add(90 * time.Second).Format(time.RFC3339)},
	}}
	if err := handler.Handle(context.Background(), delivery); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !delivery.opts.Requeue || delivery.opts.Delay != 90*time.Second {
		t.Fatalf("expected deferral by 90s, got %+v", delivery.opts)
	}
	if len(transport.snapshot()) != 0 {
		t.Fatalf("deferred delivery must not refresh")
	}
}

func TestRefreshJobHandlerRejectsForeignJobs(t *testing.T) {
	client, _, _ := newTestClient(t, http.NotFoundHandler())
	delivery := &stubDelivery{msg: &JobExecutionMessage{JobID: "other.job"}}
	if err := NewRefreshJobHandler(client).Handle(context.Background(), delivery); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !delivery.opts.DeadLetter {
		t.Fatalf("expected dead letter for foreign job")
	}
}

func TestScheduleRefreshUsesTokenExpiry(t *testing.T) {
	expires := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{"exp": expires.Unix(), "jti": "abc", "user_id": 1})
	client, _, store := newTestClient(t, http.NotFoundHandler())
	seedTokens(t, store, token, "refresh-1")

	enqueuer := &stubEnqueuer{}
	if err := client.ScheduleRefresh(context.Background(), enqueuer, 2*time.Minute); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(enqueuer.messages) != 1 {
		t.Fatalf("expected one job, got %d", len(enqueuer.messages))
	}
	msg := enqueuer.messages[0]
	if msg.JobID != JobIDSessionRefresh || msg.IdempotencyKey != JobIDSessionRefresh+":abc" {
		t.Fatalf("unexpected message %+v", msg)
	}
	want := expires.Add(-2 * time.Minute).UTC().Format(time.RFC3339)
	if msg.Parameters["not_before"] != want {
		t.Fatalf("expected not_before %s, got %v", want, msg.Parameters["not_before"])
	}
}

func TestScheduleRefreshRequiresRefreshToken(t *testing.T) {
	client, _, store := newTestClient(t, http.NotFoundHandler())
	seedTokens(t, store, "access-1", "")
	err := client.ScheduleRefresh(context.Background(), &stubEnqueuer{}, 0)
	if !errors.Is(err, ErrNoRefreshToken) {
		t.Fatalf("expected no refresh token, got %v", err)
	}
}
