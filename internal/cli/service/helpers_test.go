package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"JournalVault/internal/cli/api"
	"JournalVault/internal/cli/crypto"
	"JournalVault/internal/cli/model"
	"JournalVault/internal/cli/repo"

	"github.com/stretchr/testify/require"
)

// --- in-memory KVStore ---
type memKV struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemKV() *memKV { return &memKV{m: map[string]string{}} }

func (k *memKV) Get(_ context.Context, key string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.m[key]
	if !ok {
		return "", repo.ErrNotFound
	}
	return v, nil
}

func (k *memKV) Set(_ context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.m[key] = value
	return nil
}

func (k *memKV) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.m, key)
	return nil
}

// --- fake scheduler ---
type fakeTimer struct {
	s       *fakeScheduler
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
	delays []time.Duration
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, f: f}
	s.timers = append(s.timers, t)
	s.delays = append(s.delays, d)
	return t
}

// Active: число взведённых таймеров.
func (s *fakeScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// FireAll синхронно срабатывает все взведённые таймеры.
func (s *fakeScheduler) FireAll() {
	s.mu.Lock()
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped {
			t.stopped = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

// --- fake remote ---
type fakeRemote struct {
	mu       sync.Mutex
	blobs    map[string]string
	fetchErr error
	putErr   error
	fetches  int
	puts     []string
	deletes  int
	block    chan struct{} // если задан, Fetch ждёт его закрытия
	entered  chan struct{}
}

func newFakeRemote() *fakeRemote { return &fakeRemote{blobs: map[string]string{}} }

func (r *fakeRemote) Fetch(ctx context.Context, vaultID string) (string, bool, error) {
	r.mu.Lock()
	r.fetches++
	block, entered := r.block, r.entered
	r.entered = nil
	r.mu.Unlock()
	if entered != nil {
		close(entered)
	}
	if block != nil {
		<-block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return "", false, r.fetchErr
	}
	v, ok := r.blobs[vaultID]
	return v, ok, nil
}

func (r *fakeRemote) Put(_ context.Context, vaultID, ct string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putErr != nil {
		return r.putErr
	}
	r.blobs[vaultID] = ct
	r.puts = append(r.puts, ct)
	return nil
}

func (r *fakeRemote) Delete(_ context.Context, vaultID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes++
	delete(r.blobs, vaultID)
	return nil
}

func (r *fakeRemote) Puts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.puts...)
}

func (r *fakeRemote) Fetches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches
}

// --- clock ---
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)}
}

// Now возвращает время и сдвигает часы на секунду.
func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

var errNetwork = &api.TransportError{Op: "fetch", Err: context.DeadlineExceeded}

const (
	testVaultID  = "0f8fad5b-d9cb-469f-a165-70867728950e"
	testPassword = "correct horse"
)

func entryAt(date string, at time.Time, title string) model.Entry {
	return model.Entry{
		ID: "id-" + date, Date: date, Title: title, Tags: []string{},
		Mood: model.Mood{Scale: 5}, CreatedAt: at, UpdatedAt: at,
	}
}

func encryptDoc(t *testing.T, doc *model.JournalDocument, password string) string {
	t.Helper()
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	ct, err := crypto.Encrypt(string(b), password)
	require.NoError(t, err)
	return ct
}

func decryptDoc(t *testing.T, ct, password string) *model.JournalDocument {
	t.Helper()
	plain, err := crypto.Decrypt(ct, password)
	require.NoError(t, err)
	var d model.JournalDocument
	require.NoError(t, json.Unmarshal([]byte(plain), &d))
	return &d
}

// syncerEnv: Syncer с фейковыми сервером, таймерами и часами.
type syncerEnv struct {
	kv     *memKV
	store  *repo.KVJournalStore
	remote *fakeRemote
	sched  *fakeScheduler
	clock  *testClock
	keys   []string
	s      *Syncer
}

func newSyncerEnv(t *testing.T, cfg SyncerConfig) *syncerEnv {
	t.Helper()
	env := &syncerEnv{
		kv:     newMemKV(),
		remote: newFakeRemote(),
		sched:  &fakeScheduler{},
		clock:  newTestClock(),
	}
	env.store = repo.NewJournalStore(env.kv)
	factory := func(endpoint, apiKey string) Remote {
		env.keys = append(env.keys, apiKey)
		return env.remote
	}
	env.s = NewSyncer(env.store, factory, cfg, nil,
		WithClock(env.clock.Now), WithQueueOptions(WithScheduler(env.sched)))
	return env
}

// seedVault сохраняет идентичность хранилища и загружает её в Syncer.
func (e *syncerEnv) seedVault(t *testing.T, local *model.JournalDocument) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.store.SaveIdentity(ctx, model.VaultIdentity{VaultID: testVaultID, CreatedAt: time.Now().UTC()}))
	if local != nil {
		require.NoError(t, e.store.SaveDocument(ctx, local))
	}
	require.NoError(t, e.s.Load(ctx))
}
