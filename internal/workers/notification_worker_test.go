package workers

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"jobportal/internal/notifications"
	"jobportal/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDispatcher падает первые failures раз, затем успешно
type fakeDispatcher struct {
	calls    atomic.Int32
	failures int32
	err      error
}

func (d *fakeDispatcher) Dispatch(context.Context, queue.Task) error {
	n := d.calls.Add(1)
	if n <= d.failures {
		return d.err
	}
	return nil
}

// sliceConsumer отдает заранее заданные задачи и завершается
type sliceConsumer struct {
	tasks []queue.Task
	errs  []error
}

func (c *sliceConsumer) Consume(ctx context.Context, handler queue.Handler) error {
	for _, task := range c.tasks {
		c.errs = append(c.errs, handler(ctx, task))
	}
	return nil
}
func (c *sliceConsumer) Close() error { return nil }

func newTask(t *testing.T) queue.Task {
	t.Helper()
	task, err := queue.NewTask(notifications.TaskWelcomeEmail, notifications.WelcomePayload{Username: "alice", Email: "a@example.com"})
	require.NoError(t, err)
	return task
}

func TestNotificationWorker_RetriesTransientFailure(t *testing.T) {
	d := &fakeDispatcher{failures: 2, err: errors.New("smtp timeout")}
	w := NewNotificationWorker(nil, d, 3, time.Millisecond)

	err := w.Handle(context.Background(), newTask(t))
	assert.NoError(t, err)
	assert.Equal(t, int32(3), d.calls.Load())
}

func TestNotificationWorker_DropsAfterMaxRetries(t *testing.T) {
	smtpDown := errors.New("smtp down")
	d := &fakeDispatcher{failures: 100, err: smtpDown}
	w := NewNotificationWorker(nil, d, 3, time.Millisecond)

	err := w.Handle(context.Background(), newTask(t))
	assert.ErrorIs(t, err, smtpDown)
	// первая попытка и три повтора
	assert.Equal(t, int32(4), d.calls.Load())
}

func TestNotificationWorker_InvalidTaskIsNotRetried(t *testing.T) {
	d := &fakeDispatcher{failures: 100, err: fmt.Errorf("%w: unknown type", notifications.ErrInvalidTask)}
	w := NewNotificationWorker(nil, d, 3, time.Millisecond)

	err := w.Handle(context.Background(), newTask(t))
	assert.ErrorIs(t, err, notifications.ErrInvalidTask)
	assert.Equal(t, int32(1), d.calls.Load())
}

func TestNotificationWorker_RunConsumesAll(t *testing.T) {
	consumer := &sliceConsumer{tasks: []queue.Task{newTask(t), newTask(t)}}
	d := &fakeDispatcher{}
	w := NewNotificationWorker(consumer, d, 3, time.Millisecond)

	err := <-w.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), d.calls.Load())
	assert.Equal(t, []error{nil, nil}, consumer.errs)
}
