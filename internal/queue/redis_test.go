package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	q := NewRedisQueue(client, "notifications")
	q.pollTimeout = 50 * time.Millisecond
	return q, mr
}

func TestNewTask_Decode(t *testing.T) {
	task, err := NewTask("send_welcome_email", map[string]string{"username": "alice"})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "send_welcome_email", task.Type)

	var payload map[string]string
	require.NoError(t, task.Decode(&payload))
	assert.Equal(t, "alice", payload["username"])

	broken := Task{Type: "x", Payload: []byte("{")}
	assert.Error(t, broken.Decode(&payload))
}

func TestRedisQueue_PublishLen(t *testing.T) {
	ctx := context.Background()
	q, mr := newTestQueue(t)

	for i := 0; i < 3; i++ {
		task, err := NewTask("t", i)
		require.NoError(t, err)
		require.NoError(t, q.Publish(ctx, task))
	}

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.True(t, mr.Exists("queue:notifications"))
}

func TestRedisQueue_ConsumeInOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q, _ := newTestQueue(t)

	for i := 1; i <= 3; i++ {
		task, err := NewTask("t", i)
		require.NoError(t, err)
		require.NoError(t, q.Publish(ctx, task))
	}

	var (
		mu  sync.Mutex
		got []int
	)
	done := make(chan error, 1)
	go func() {
		done <- q.Consume(ctx, func(_ context.Context, task Task) error {
			var n int
			if err := task.Decode(&n); err != nil {
				return err
			}
			mu.Lock()
			got = append(got, n)
			if len(got) == 3 {
				cancel()
			}
			mu.Unlock()
			return nil
		})
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestRedisQueue_SkipsMalformedTasks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q, mr := newTestQueue(t)

	_, err := mr.Lpush("queue:notifications", "not json")
	require.NoError(t, err)
	good, err := NewTask("ok", "payload")
	require.NoError(t, err)
	require.NoError(t, q.Publish(ctx, good))

	handled := make(chan Task, 2)
	go func() {
		_ = q.Consume(ctx, func(_ context.Context, task Task) error {
			handled <- task
			cancel()
			return nil
		})
	}()

	select {
	case task := <-handled:
		assert.Equal(t, good.ID, task.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("valid task was not delivered")
	}
}

func TestRedisQueue_ShutdownMidTaskRequeues(t *testing.T) {
	q, _ := newTestQueue(t)

	first, err := NewTask("t", 1)
	require.NoError(t, err)
	second, err := NewTask("t", 2)
	require.NoError(t, err)
	require.NoError(t, q.Publish(context.Background(), first))
	require.NoError(t, q.Publish(context.Background(), second))

	ctx, cancel := context.WithCancel(context.Background())
	err = q.Consume(ctx, func(ctx context.Context, task Task) error {
		cancel()
		return ctx.Err()
	})
	require.NoError(t, err)

	n, err := q.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// прерванная задача снова первая в очереди
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	var got string
	require.NoError(t, q.Consume(ctx2, func(_ context.Context, task Task) error {
		got = task.ID
		cancel2()
		return nil
	}))
	assert.Equal(t, first.ID, got)
}
