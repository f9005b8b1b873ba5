package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext_AddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)
	t.Cleanup(func() { InitWithWriter("test", &bytes.Buffer{}) })

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "42")
	ctx = WithTaskID(ctx, "task-9")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "42", GetUserID(ctx))

	CtxInfo(ctx, "job created", "job_id", 7)

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"user_id":"42"`)
	assert.Contains(t, out, `"task_id":"task-9"`)
	assert.Contains(t, out, `"job_id":7`)
}

func TestCacheAndTaskLog(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)
	t.Cleanup(func() { InitWithWriter("test", &bytes.Buffer{}) })

	CacheLog("get", "all_jobs", false, errors.New("redis down"))
	TaskLog("notification_worker", "send_welcome_email", 2, errors.New("smtp timeout"))

	out := buf.String()
	assert.Contains(t, out, "cache operation failed")
	assert.Contains(t, out, `"attempt":2`)
	assert.Contains(t, out, "smtp timeout")
}
