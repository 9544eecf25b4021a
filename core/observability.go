package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// tagFields are promoted from log fields to metric tags. Token values are
// never placed in fields, so nothing here needs redaction.
var tagFields = []string{"method", "attempt"}

func (c *Client) observe(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	err error,
	fields map[string]any,
) {
	if c == nil {
		return
	}
	operation = normalizeOperation(operation)
	if operation == "" {
		operation = "unknown"
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	elapsed := time.Since(startedAt).Milliseconds()

	logFields := cloneFields(fields)
	logFields["operation"] = operation
	logFields["outcome"] = outcome
	logFields["duration_ms"] = elapsed
	if err != nil {
		logFields["error"] = err.Error()
		if code := textCodeOf(err); code != "" {
			logFields["error_code"] = code
		}
	}

	tags := map[string]string{
		"operation": operation,
		"outcome":   outcome,
	}
	for _, key := range tagFields {
		if value, ok := logFields[key]; ok {
			if text := strings.TrimSpace(fmt.Sprint(value)); text != "" {
				tags[key] = text
			}
		}
	}

	c.recordCounter(ctx, "easyjob."+operation+".total", 1, tags)
	c.recordHistogram(ctx, "easyjob."+operation+".duration_ms", float64(elapsed), tags)

	if err != nil {
		c.logWithLevel(ctx, "error", operation+" failed", logFields)
		return
	}
	c.logWithLevel(ctx, "debug", operation+" succeeded", logFields)
}

func (c *Client) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logger := c.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch level {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	case "info":
		logger.Info(message, args...)
	default:
		logger.Debug(message, args...)
	}
}

func (c *Client) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.IncCounter(ctx, name, value, cloneTags(tags))
}

func (c *Client) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.ObserveHistogram(ctx, name, value, cloneTags(tags))
}

func cloneFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	operation = strings.ReplaceAll(operation, " ", "_")
	operation = strings.ReplaceAll(operation, "-", "_")
	return operation
}
