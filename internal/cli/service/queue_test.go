package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadRec struct {
	mu    sync.Mutex
	calls []string
	fn    func(n int, vaultID, ct string) error
}

func (u *uploadRec) upload(_ context.Context, vaultID, ct string) error {
	u.mu.Lock()
	u.calls = append(u.calls, vaultID+"="+ct)
	n := len(u.calls)
	fn := u.fn
	u.mu.Unlock()
	if fn != nil {
		return fn(n, vaultID, ct)
	}
	return nil
}

func (u *uploadRec) Calls() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.calls...)
}

func newTestQueue(u *uploadRec) (*SyncQueue, *fakeScheduler) {
	sched := &fakeScheduler{}
	return NewSyncQueue(u.upload, nil, WithScheduler(sched)), sched
}

func TestQueue_CoalescesBurstIntoOneUpload(t *testing.T) {
	u := &uploadRec{}
	q, sched := newTestQueue(u)

	q.Enqueue("v1", "a")
	q.Enqueue("v1", "b")
	q.Enqueue("v1", "c")

	assert.Equal(t, 1, sched.Active(), "each enqueue re-arms the single timer")
	assert.Equal(t, QueueStatus{Queued: 1}, q.Status())

	sched.FireAll()
	assert.Equal(t, []string{"v1=c"}, u.Calls())
	assert.Equal(t, QueueStatus{}, q.Status())
	assert.Equal(t, 0, sched.Active())
}

func TestQueue_DefaultDebounce(t *testing.T) {
	q, sched := newTestQueue(&uploadRec{})
	q.Enqueue("v1", "a")
	require.Len(t, sched.delays, 1)
	assert.Equal(t, DefaultDebounce, sched.delays[0])
}

func TestQueue_SeparateVaults(t *testing.T) {
	u := &uploadRec{}
	q, sched := newTestQueue(u)
	q.Enqueue("v1", "a")
	q.Enqueue("v2", "b")
	assert.Equal(t, 2, q.Status().Queued)
	sched.FireAll()
	assert.ElementsMatch(t, []string{"v1=a", "v2=b"}, u.Calls())
}

func TestQueue_RetriesSamePayloadAfterFailure(t *testing.T) {
	u := &uploadRec{fn: func(n int, _, _ string) error {
		if n == 1 {
			return errNetwork
		}
		return nil
	}}
	q, sched := newTestQueue(u)

	q.Enqueue("v1", "payload")
	sched.FireAll()
	assert.Equal(t, 1, q.Status().Queued, "failed item is put back")
	assert.Equal(t, 1, sched.Active(), "retry timer armed")

	sched.FireAll()
	assert.Equal(t, []string{"v1=payload", "v1=payload"}, u.Calls())
	assert.Equal(t, 0, q.Status().Queued)
}

func TestQueue_FailureDoesNotOverwriteNewerPayload(t *testing.T) {
	var q *SyncQueue
	u := &uploadRec{}
	u.fn = func(n int, _, _ string) error {
		if n == 1 {
			q.Enqueue("v1", "newer")
			return errNetwork
		}
		return nil
	}
	q, sched := newTestQueue(u)

	q.Enqueue("v1", "old")
	sched.FireAll()
	sched.FireAll()
	assert.Equal(t, []string{"v1=old", "v1=newer"}, u.Calls())
}

func TestQueue_ClearDuringFlightDropsRetry(t *testing.T) {
	var q *SyncQueue
	u := &uploadRec{}
	u.fn = func(int, string, string) error {
		q.Clear()
		return errNetwork
	}
	q, sched := newTestQueue(u)

	q.Enqueue("v1", "x")
	sched.FireAll()
	assert.Equal(t, QueueStatus{}, q.Status())
	assert.Equal(t, 0, sched.Active())
}

func TestQueue_Clear(t *testing.T) {
	u := &uploadRec{}
	q, sched := newTestQueue(u)
	q.Enqueue("v1", "x")
	q.Clear()
	assert.Equal(t, 0, sched.Active())
	sched.FireAll()
	require.NoError(t, q.Flush(context.Background()))
	assert.Empty(t, u.Calls())
}

func TestQueue_FlushSendsImmediately(t *testing.T) {
	u := &uploadRec{}
	q, sched := newTestQueue(u)
	q.Enqueue("v1", "x")

	require.NoError(t, q.Flush(context.Background()))
	assert.Equal(t, []string{"v1=x"}, u.Calls())
	assert.Equal(t, 0, sched.Active())

	// пустая очередь
	require.NoError(t, q.Flush(context.Background()))
}

func TestQueue_FlushReturnsTransportError(t *testing.T) {
	u := &uploadRec{fn: func(int, string, string) error { return errNetwork }}
	q, _ := newTestQueue(u)
	q.Enqueue("v1", "x")

	err := q.Flush(context.Background())
	assert.True(t, errors.Is(err, errNetwork))
	assert.Equal(t, 1, q.Status().Queued, "undelivered item stays queued")
}

func TestQueue_EnqueueMidFlightIsBufferedAndFlushedAfter(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	u := &uploadRec{}
	u.fn = func(n int, _, _ string) error {
		if n == 1 {
			close(started)
			<-release
		}
		return nil
	}
	q, sched := newTestQueue(u)
	q.Enqueue("v1", "first")

	fired := make(chan struct{})
	go func() {
		sched.FireAll()
		close(fired)
	}()
	<-started
	assert.True(t, q.Status().Syncing)

	q.Enqueue("v1", "second")
	// таймер второго элемента срабатывает, пока идёт отправка: второй раунд не начинается
	sched.FireAll()
	assert.Len(t, u.Calls(), 1)

	close(release)
	<-fired
	assert.False(t, q.Status().Syncing)
	assert.Equal(t, 1, sched.Active(), "buffered item gets a timer after the round")

	sched.FireAll()
	assert.Equal(t, []string{"v1=first", "v1=second"}, u.Calls())
}

func TestQueue_FlushWaitsForInFlightRound(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	u := &uploadRec{}
	u.fn = func(n int, _, _ string) error {
		if n == 1 {
			close(started)
			<-release
		}
		return nil
	}
	q, sched := newTestQueue(u)
	q.Enqueue("v1", "first")
	go sched.FireAll()
	<-started
	q.Enqueue("v1", "second")

	flushed := make(chan error, 1)
	go func() { flushed <- q.Flush(context.Background()) }()

	select {
	case <-flushed:
		t.Fatalf("flush returned before in-flight upload completed")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	require.NoError(t, <-flushed)
	assert.Equal(t, []string{"v1=first", "v1=second"}, u.Calls())
}

func TestQueue_FlushHonoursContext(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	u := &uploadRec{fn: func(n int, _, _ string) error {
		if n == 1 {
			close(started)
			<-release
		}
		return nil
	}}
	q, sched := newTestQueue(u)
	q.Enqueue("v1", "x")
	go sched.FireAll()
	<-started
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, q.Flush(ctx), context.Canceled)
}

func TestQueue_RealTimer(t *testing.T) {
	u := &uploadRec{}
	q := NewSyncQueue(u.upload, nil, WithDebounce(10*time.Millisecond))
	q.Enqueue("v1", "a")
	q.Enqueue("v1", "b")
	require.Eventually(t, func() bool { return len(u.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"v1=b"}, u.Calls())
}
