package service

import (
	"context"
	"sync"
	"time"

	"JournalVault/internal/cli/model"

	"go.uber.org/zap"
)

// DefaultDebounce: пауза после последнего Enqueue перед отправкой.
const DefaultDebounce = 5 * time.Second

// Timer: отменяемая отложенная задача.
type Timer interface {
	Stop() bool
}

// Scheduler планирует вызов f через d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// UploadFunc отправляет шифротекст хранилища на сервер.
type UploadFunc func(ctx context.Context, vaultID, ciphertext string) error

// QueueStatus: состояние очереди для отображения.
type QueueStatus struct {
	Queued  int
	Syncing bool
}

// SyncQueue откладывает и схлопывает отправку: для каждого хранилища хранится
// только последний шифротекст, отправка идёт после паузы в delay.
// Одновременно выполняется не больше одного раунда отправки.
type SyncQueue struct {
	upload UploadFunc
	sched  Scheduler
	delay  time.Duration
	log    *zap.SugaredLogger
	now    func() time.Time

	mu      sync.Mutex
	pending map[string]model.QueuedSync
	timers  map[string]Timer
	tokens  map[string]uint64
	gen     uint64 // растёт при Clear
	syncing bool
	done    chan struct{} // закрывается по окончании текущего раунда
}

// QueueOption настраивает SyncQueue.
type QueueOption func(*SyncQueue)

// WithScheduler подменяет таймеры (для тестов).
func WithScheduler(s Scheduler) QueueOption { return func(q *SyncQueue) { q.sched = s } }

// WithDebounce задаёт паузу перед отправкой.
func WithDebounce(d time.Duration) QueueOption {
	return func(q *SyncQueue) {
		if d > 0 {
			q.delay = d
		}
	}
}

// WithQueueClock подменяет источник времени.
func WithQueueClock(now func() time.Time) QueueOption { return func(q *SyncQueue) { q.now = now } }

// NewSyncQueue создаёт пустую очередь.
func NewSyncQueue(upload UploadFunc, log *zap.SugaredLogger, opts ...QueueOption) *SyncQueue {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	q := &SyncQueue{
		upload:  upload,
		sched:   realScheduler{},
		delay:   DefaultDebounce,
		log:     log,
		now:     time.Now,
		pending: map[string]model.QueuedSync{},
		timers:  map[string]Timer{},
		tokens:  map[string]uint64{},
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Enqueue заменяет ожидающий шифротекст хранилища и перезапускает таймер.
func (q *SyncQueue) Enqueue(vaultID, ciphertext string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending[vaultID] = model.QueuedSync{VaultID: vaultID, Ciphertext: ciphertext, EnqueuedAt: q.now()}
	q.armLocked(vaultID)
	q.log.Debugw("sync enqueued", "vault", vaultID, "size", len(ciphertext))
}

// Flush отменяет таймеры, дожидается текущего раунда и сразу отправляет всё,
// что стоит в очереди. Возвращает последнюю ошибку отправки.
func (q *SyncQueue) Flush(ctx context.Context) error {
	for {
		q.mu.Lock()
		q.stopTimersLocked()
		done := q.done
		q.mu.Unlock()

		if done != nil {
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		started, err := q.run(ctx, "")
		if started {
			return err
		}
		// раунд не начался: либо очередь пуста, либо успел стартовать другой раунд
		q.mu.Lock()
		empty := len(q.pending) == 0 && !q.syncing
		q.mu.Unlock()
		if empty {
			return nil
		}
	}
}

// Clear отменяет таймеры и выбрасывает всё, что стоит в очереди.
// Неудачная отправка из текущего раунда обратно не вернётся.
func (q *SyncQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopTimersLocked()
	q.pending = map[string]model.QueuedSync{}
	q.gen++
}

// Status возвращает размер очереди и признак идущей отправки.
func (q *SyncQueue) Status() QueueStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStatus{Queued: len(q.pending), Syncing: q.syncing}
}

func (q *SyncQueue) armLocked(vaultID string) {
	if t := q.timers[vaultID]; t != nil {
		t.Stop()
	}
	q.tokens[vaultID]++
	tok := q.tokens[vaultID]
	q.timers[vaultID] = q.sched.AfterFunc(q.delay, func() { q.fire(vaultID, tok) })
}

func (q *SyncQueue) stopTimersLocked() {
	for v, t := range q.timers {
		t.Stop()
		delete(q.timers, v)
		q.tokens[v]++
	}
}

func (q *SyncQueue) fire(vaultID string, tok uint64) {
	q.mu.Lock()
	if q.tokens[vaultID] != tok {
		q.mu.Unlock()
		return
	}
	delete(q.timers, vaultID)
	q.mu.Unlock()

	if _, err := q.run(context.Background(), vaultID); err != nil {
		q.log.Warnw("sync upload failed, will retry", "vault", vaultID, "error", err)
	}
}

// run забирает из очереди элементы (только vaultID или все при пустом) и отправляет их.
// started=false, если раунд уже идёт или отправлять нечего.
func (q *SyncQueue) run(ctx context.Context, vaultID string) (started bool, err error) {
	q.mu.Lock()
	if q.syncing {
		q.mu.Unlock()
		return false, nil
	}
	var batch []model.QueuedSync
	for v, it := range q.pending {
		if vaultID != "" && v != vaultID {
			continue
		}
		batch = append(batch, it)
		delete(q.pending, v)
		if t := q.timers[v]; t != nil {
			t.Stop()
			delete(q.timers, v)
			q.tokens[v]++
		}
	}
	if len(batch) == 0 {
		q.mu.Unlock()
		return false, nil
	}
	q.syncing = true
	done := make(chan struct{})
	q.done = done
	gen := q.gen
	q.mu.Unlock()

	for _, it := range batch {
		upErr := q.upload(ctx, it.VaultID, it.Ciphertext)
		if upErr == nil {
			q.log.Infow("sync uploaded", "vault", it.VaultID, "size", len(it.Ciphertext))
			continue
		}
		err = upErr
		q.requeue(it, gen)
	}

	q.mu.Lock()
	q.syncing = false
	q.done = nil
	close(done)
	// всё, что пришло во время раунда или вернулось после ошибки, ждёт следующего таймера
	for v := range q.pending {
		if q.timers[v] == nil {
			q.armLocked(v)
		}
	}
	q.mu.Unlock()
	return true, err
}

// requeue возвращает неотправленный элемент, если за время отправки не пришёл
// более новый шифротекст и очередь не очищали.
func (q *SyncQueue) requeue(it model.QueuedSync, gen uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if gen != q.gen {
		return
	}
	if _, newer := q.pending[it.VaultID]; newer {
		return
	}
	q.pending[it.VaultID] = it
}
