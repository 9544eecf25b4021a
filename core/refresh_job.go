package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	JobIDSessionRefresh = "easyjob.session.refresh"

	jobParamNotBefore = "not_before"

	DefaultRefreshLead         = time.Minute
	DefaultRefreshRetryBackoff = 30 * time.Second
)

// RefreshJobHandler refreshes the stored session when a proactive refresh
// job is delivered.
type RefreshJobHandler struct {
	client  *Client
	backoff time.Duration
	now     func() time.Time
}

func NewRefreshJobHandler(client *Client) *RefreshJobHandler {
	return &RefreshJobHandler{
		client:  client,
		backoff: DefaultRefreshRetryBackoff,
		now:     time.Now,
	}
}

// WithBackoff sets the requeue delay used after transient failures.
func (h *RefreshJobHandler) WithBackoff(delay time.Duration) *RefreshJobHandler {
	if h != nil && delay > 0 {
		h.backoff = delay
	}
	return h
}

// Handle acks on success, dead-letters when the session is gone, and
// requeues after timeouts or connectivity failures. The error is only
// non-nil when the delivery itself could not be settled. A delivery that arrives
// before its not_before parameter is requeued until then.
func (h *RefreshJobHandler) Handle(ctx context.Context, delivery JobDelivery) error {
	if h == nil || h.client == nil {
		return internalError(nil, "core: refresh job handler is not configured")
	}
	if delivery == nil {
		return badInputError("core: job delivery is required")
	}
	msg := delivery.Message()
	if msg == nil || strings.TrimSpace(msg.JobID) != JobIDSessionRefresh {
		jobID := ""
		if msg != nil {
			jobID = msg.JobID
		}
		return delivery.Nack(ctx, JobNackOptions{
			DeadLetter: true,
			Reason:     fmt.Sprintf("unsupported job %q", jobID),
		})
	}

	if wait := h.remainingWait(msg); wait > 0 {
		return delivery.Nack(ctx, JobNackOptions{Delay: wait, Requeue: true, Reason: "not due"})
	}

	err := h.client.RefreshToken(ctx)
	switch {
	case err == nil:
		return delivery.Ack(ctx)
	case IsTransient(err):
		if nackErr := delivery.Nack(ctx, JobNackOptions{
			Delay:   h.backoff,
			Requeue: true,
			Reason:  err.Error(),
		}); nackErr != nil {
			return nackErr
		}
		h.client.logWithLevel(ctx, "warn", "session refresh requeued", map[string]any{
			"job_id": msg.JobID, "error": err.Error(), "delay_ms": h.backoff.Milliseconds(),
		})
		return nil
	default:
		if nackErr := delivery.Nack(ctx, JobNackOptions{
			DeadLetter: true,
			Reason:     err.Error(),
		}); nackErr != nil {
			return nackErr
		}
		h.client.logWithLevel(ctx, "error", "session refresh dead-lettered", map[string]any{
			"job_id": msg.JobID, "error": err.Error(),
		})
		return nil
	}
}

func (h *RefreshJobHandler) remainingWait(msg *JobExecutionMessage) time.Duration {
	raw, ok := msg.Parameters[jobParamNotBefore]
	if !ok {
		return 0
	}
	var notBefore time.Time
	switch value := raw.(type) {
	case time.Time:
		notBefore = value
	case string:
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return 0
		}
		notBefore = parsed
	default:
		return 0
	}
	return notBefore.Sub(h.now())
}

// ScheduleRefresh enqueues a refresh job due lead before the access token
// expires. Tokens without an exp claim are scheduled immediately.
func (c *Client) ScheduleRefresh(ctx context.Context, enqueuer JobEnqueuer, lead time.Duration) error {
	if c == nil {
		return internalError(nil, "core: client is nil")
	}
	if enqueuer == nil {
		return badInputError("core: job enqueuer is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if lead <= 0 {
		lead = DefaultRefreshLead
	}
	state, err := c.Session(ctx)
	if err != nil {
		return err
	}
	if !state.HasRefreshToken {
		return newAuthError(ErrNoRefreshToken, ErrorNoRefreshToken, 401, "No refresh token available")
	}

	params := map[string]any{}
	key := JobIDSessionRefresh
	if state.Claims != nil {
		if !state.Claims.ExpiresAt.IsZero() {
			params[jobParamNotBefore] = state.Claims.ExpiresAt.Add(-lead).UTC().Format(time.RFC3339)
		}
		if state.Claims.TokenID != "" {
			key += ":" + state.Claims.TokenID
		}
	}
	return enqueuer.Enqueue(ctx, &JobExecutionMessage{
		JobID:          JobIDSessionRefresh,
		ScriptPath:     JobIDSessionRefresh,
		Parameters:     params,
		IdempotencyKey: key,
		DedupPolicy:    "drop",
	})
}
