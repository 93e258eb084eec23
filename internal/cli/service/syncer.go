package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"JournalVault/internal/cli/api"
	"JournalVault/internal/cli/crypto"
	"JournalVault/internal/cli/model"
	"JournalVault/internal/cli/repo"

	"go.uber.org/zap"
)

// State: состояние жизненного цикла хранилища.
type State int

const (
	StateLocked State = iota
	StateUnlocking
	StateMerging
	StateUnlocked
)

func (s State) String() string {
	switch s {
	case StateUnlocking:
		return "unlocking"
	case StateMerging:
		return "merging"
	case StateUnlocked:
		return "unlocked"
	default:
		return "locked"
	}
}

// Status: доступность сервера синхронизации.
type Status int

const (
	// StatusLocalOnly: сервер не настроен.
	StatusLocalOnly Status = iota
	StatusOnline
	StatusOffline
)

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusOffline:
		return "offline"
	default:
		return "local-only"
	}
}

// Remote: хранилище шифротекстов на сервере.
type Remote interface {
	Fetch(ctx context.Context, vaultID string) (string, bool, error)
	Put(ctx context.Context, vaultID, ciphertext string) error
	Delete(ctx context.Context, vaultID string) error
}

// RemoteFactory создаёт клиента сервера для адреса и ключа.
type RemoteFactory func(endpoint, apiKey string) Remote

// SyncerConfig: параметры синхронизации по умолчанию.
type SyncerConfig struct {
	Endpoint string // используется, если в идентичности хранилища адрес не задан
	APIKey   string
	Offline  bool
}

// Syncer управляет разблокировкой, правками и синхронизацией одного хранилища.
type Syncer struct {
	store     repo.JournalStore
	newRemote RemoteFactory
	cfg       SyncerConfig
	log       *zap.SugaredLogger
	now       func() time.Time
	detector  *ChangeDetector
	queue     *SyncQueue

	mu       sync.Mutex
	state    State
	status   Status
	busy     bool
	password string
	doc      *model.JournalDocument
	identity *model.VaultIdentity
	remote   Remote
}

// SyncerOption настраивает Syncer.
type SyncerOption func(*syncerOptions)

type syncerOptions struct {
	now   func() time.Time
	queue []QueueOption
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) SyncerOption {
	return func(o *syncerOptions) { o.now = now }
}

// WithQueueOptions передаёт опции в очередь синхронизации.
func WithQueueOptions(opts ...QueueOption) SyncerOption {
	return func(o *syncerOptions) { o.queue = append(o.queue, opts...) }
}

// NewSyncer создаёт заблокированный Syncer. Идентичность читается в Load.
func NewSyncer(store repo.JournalStore, newRemote RemoteFactory, cfg SyncerConfig, log *zap.SugaredLogger, opts ...SyncerOption) *Syncer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	o := syncerOptions{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	s := &Syncer{
		store:     store,
		newRemote: newRemote,
		cfg:       cfg,
		log:       log,
		now:       o.now,
		detector:  NewChangeDetector(store),
	}
	qopts := append([]QueueOption{WithQueueClock(o.now)}, o.queue...)
	s.queue = NewSyncQueue(s.upload, log, qopts...)
	return s
}

// Load читает идентичность хранилища из локального хранилища.
func (s *Syncer) Load(ctx context.Context) error {
	id, err := s.store.GetIdentity(ctx)
	if err != nil {
		return fmt.Errorf("load vault identity: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setIdentityLocked(id)
	return nil
}

// CreateVault создаёт новое хранилище с пустым журналом.
func (s *Syncer) CreateVault(ctx context.Context, endpoint, apiKey string) (model.VaultIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil {
		return model.VaultIdentity{}, ErrVaultExists
	}
	id := model.NewVaultIdentity(s.now(), endpoint, apiKey)
	if err := s.store.SaveIdentity(ctx, id); err != nil {
		return model.VaultIdentity{}, fmt.Errorf("save vault identity: %w", err)
	}
	s.detector.Reset()
	s.setIdentityLocked(&id)
	s.log.Infow("vault created", "vault", id.VaultID, "remote", s.remote != nil)
	return id, nil
}

// JoinVault подключает существующее хранилище и сразу разблокирует его.
// Отказ сервера в авторизации здесь: ErrConfiguration, идентичность не сохраняется.
func (s *Syncer) JoinVault(ctx context.Context, vaultID, endpoint, apiKey, password string) error {
	if err := model.ValidateVaultID(vaultID); err != nil {
		return err
	}
	s.mu.Lock()
	if s.identity != nil {
		s.mu.Unlock()
		return ErrVaultExists
	}
	id := model.VaultIdentity{VaultID: vaultID, CreatedAt: s.now().UTC(), BackendURL: endpoint, APIKey: apiKey}
	if err := s.store.SaveIdentity(ctx, id); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save vault identity: %w", err)
	}
	s.queue.Clear()
	s.detector.Reset()
	s.setIdentityLocked(&id)
	s.mu.Unlock()

	err := s.unlock(ctx, password, true)
	if errors.Is(err, ErrConfiguration) {
		s.mu.Lock()
		if cerr := s.store.Clear(ctx); cerr != nil {
			s.log.Errorw("rollback vault identity", "vault", vaultID, "error", cerr)
		}
		s.setIdentityLocked(nil)
		s.mu.Unlock()
	}
	return err
}

// Unlock расшифровывает и сводит данные сервера с локальными.
// Недоступность сервера не ошибка: хранилище открывается с локальными данными.
func (s *Syncer) Unlock(ctx context.Context, password string) error {
	return s.unlock(ctx, password, false)
}

func (s *Syncer) unlock(ctx context.Context, password string, setup bool) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrUnlockInProgress
	}
	if s.identity == nil {
		s.mu.Unlock()
		return ErrNoVault
	}
	s.busy = true
	s.state = StateUnlocking
	id, remote := *s.identity, s.remote
	s.mu.Unlock()

	remoteDoc, status, err := s.fetchRemote(ctx, id, remote, password, setup)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.state = StateLocked
		s.password = ""
		return err
	}
	s.state = StateMerging

	doc, err := s.mergeLocked(ctx, remoteDoc)
	if err != nil {
		s.state = StateLocked
		return err
	}
	if remoteDoc != nil {
		s.detector.MarkSynced(doc)
	} else if err := s.detector.Prime(ctx); err != nil {
		s.log.Warnw("change detector baseline", "error", err)
	}

	s.doc = doc
	s.password = password
	s.status = status
	s.state = StateUnlocked
	s.log.Infow("vault unlocked", "vault", id.VaultID, "status", status.String(), "entries", doc.Len())

	switch {
	case status != StatusOnline:
	case remoteDoc == nil && !doc.IsEmpty():
		// на сервере пусто, а локально есть записи
		return s.enqueueLocked(doc)
	case remoteDoc != nil && Fingerprint(doc) != Fingerprint(remoteDoc):
		// локальные правки, не дошедшие до сервера в прошлый раз
		return s.enqueueLocked(doc)
	}
	return nil
}

// fetchRemote скачивает и расшифровывает документ сервера.
// remoteDoc=nil: на сервере пусто или сервер недоступен (см. status).
func (s *Syncer) fetchRemote(ctx context.Context, id model.VaultIdentity, remote Remote, password string, setup bool) (*model.JournalDocument, Status, error) {
	if remote == nil {
		return nil, s.noRemoteStatus(id), nil
	}
	ct, found, err := remote.Fetch(ctx, id.VaultID)
	if err != nil {
		if setup && errors.Is(err, api.ErrUnauthorized) {
			return nil, StatusOffline, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		if api.IsTransport(err) {
			s.log.Warnw("sync backend unavailable, working offline", "vault", id.VaultID, "error", err)
			return nil, StatusOffline, nil
		}
		return nil, StatusOffline, err
	}
	if !found {
		return nil, StatusOnline, nil
	}
	plain, err := crypto.Decrypt(ct, password)
	if err != nil {
		s.log.Warnw("remote vault decrypt failed", "vault", id.VaultID)
		return nil, StatusOnline, fmt.Errorf("%w: %w", ErrWrongPassword, err)
	}
	var doc model.JournalDocument
	if err := json.Unmarshal([]byte(plain), &doc); err != nil {
		return nil, StatusOnline, fmt.Errorf("%w: %w", ErrWrongPassword, crypto.ErrDecryption)
	}
	doc.Normalize()
	return &doc, StatusOnline, nil
}

// mergeLocked сводит remoteDoc с сохранённым документом и сохраняет результат.
func (s *Syncer) mergeLocked(ctx context.Context, remoteDoc *model.JournalDocument) (*model.JournalDocument, error) {
	local, err := s.store.GetDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("load journal: %w", err)
	}
	if remoteDoc == nil {
		if local != nil {
			return local, nil
		}
		local = model.NewJournalDocument(s.now())
		if err := s.store.SaveDocument(ctx, local); err != nil {
			return nil, fmt.Errorf("save journal: %w", err)
		}
		return local, nil
	}
	merged := Merge(remoteDoc, local, s.now())
	if err := s.store.SaveDocument(ctx, merged); err != nil {
		return nil, fmt.Errorf("save journal: %w", err)
	}
	s.log.Infow("journal merged", "remote_entries", remoteDoc.Len(), "local_entries", local.Len(), "merged_entries", merged.Len())
	return merged, nil
}

// Sync явно подтягивает изменения с сервера и отправляет локальные, если они есть.
func (s *Syncer) Sync(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUnlocked {
		s.mu.Unlock()
		return ErrLocked
	}
	if s.busy {
		s.mu.Unlock()
		return ErrUnlockInProgress
	}
	if s.remote == nil {
		s.status = s.noRemoteStatus(*s.identity)
		s.mu.Unlock()
		return ErrOffline
	}
	s.busy = true
	id, remote, password := *s.identity, s.remote, s.password
	s.mu.Unlock()

	remoteDoc, status, err := s.fetchRemote(ctx, id, remote, password, false)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return err
	}
	s.status = status
	if status == StatusOffline {
		return ErrOffline
	}
	if remoteDoc != nil {
		merged := Merge(remoteDoc, s.doc, s.now())
		if err := s.store.SaveDocument(ctx, merged); err != nil {
			return fmt.Errorf("save journal: %w", err)
		}
		s.doc = merged
		// базой считается состояние сервера: локальный вклад в слияние уйдёт ниже
		s.detector.MarkSynced(remoteDoc)
	} else {
		// на сервере пусто: отправить нужно всё
		s.detector.MarkSynced(nil)
	}
	return s.pushLocked(ctx)
}

// Flush немедленно отправляет всё, что ждёт в очереди.
func (s *Syncer) Flush(ctx context.Context) error {
	return s.queue.Flush(ctx)
}

// Lock забывает пароль. Документ и очередь сохраняются.
func (s *Syncer) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.password = ""
	s.doc = nil
	s.state = StateLocked
}

// Reset отказывается от хранилища на этом устройстве: очередь очищается раньше,
// чем удаляется идентичность, иначе повтор отправки уйдёт в чужое хранилище.
func (s *Syncer) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Clear()
	s.detector.Reset()
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear local data: %w", err)
	}
	s.password = ""
	s.doc = nil
	s.setIdentityLocked(nil)
	s.state = StateLocked
	s.log.Infow("vault reset")
	return nil
}

// DeleteRemote удаляет шифротекст хранилища с сервера. Локальные данные не трогаются.
func (s *Syncer) DeleteRemote(ctx context.Context) error {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return ErrNoVault
	}
	if s.remote == nil {
		s.mu.Unlock()
		return ErrOffline
	}
	s.queue.Clear()
	id, remote := s.identity.VaultID, s.remote
	s.mu.Unlock()

	if err := remote.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete remote vault: %w", err)
	}
	// следующая правка снова выгрузит весь журнал
	s.detector.MarkSynced(nil)
	s.log.Infow("remote vault deleted", "vault", id)
	return nil
}

// RotateCredential сохраняет новый ключ доступа к серверу.
func (s *Syncer) RotateCredential(ctx context.Context, apiKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return ErrNoVault
	}
	id := s.identity.WithCredential(apiKey)
	if err := s.store.SaveIdentity(ctx, id); err != nil {
		return fmt.Errorf("save vault identity: %w", err)
	}
	s.setIdentityLocked(&id)
	s.log.Infow("vault credential rotated", "vault", id.VaultID)
	return nil
}

// Document возвращает копию текущего документа (nil, если хранилище заблокировано).
func (s *Syncer) Document() *model.JournalDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Identity возвращает идентичность хранилища или nil.
func (s *Syncer) Identity() *model.VaultIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// QueueStatus возвращает состояние очереди отправки.
func (s *Syncer) QueueStatus() QueueStatus { return s.queue.Status() }

// pushLocked шифрует и ставит документ в очередь, если он изменился.
func (s *Syncer) pushLocked(ctx context.Context) error {
	if s.remote == nil {
		return nil
	}
	changed, err := s.detector.HasChanged(ctx, s.doc)
	if err != nil {
		s.log.Warnw("change detection failed, pushing anyway", "error", err)
		changed = true
	}
	if !changed {
		return nil
	}
	return s.enqueueLocked(s.doc)
}

func (s *Syncer) enqueueLocked(doc *model.JournalDocument) error {
	if s.remote == nil {
		return nil
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	ct, err := crypto.Encrypt(string(payload), s.password)
	if err != nil {
		return fmt.Errorf("encrypt journal: %w", err)
	}
	s.queue.Enqueue(s.identity.VaultID, ct)
	s.detector.MarkSynced(doc)
	return nil
}

// upload вызывается очередью. Отправка для хранилища, которое уже не активно, отклоняется.
func (s *Syncer) upload(ctx context.Context, vaultID, ciphertext string) error {
	s.mu.Lock()
	remote := s.remote
	active := s.identity != nil && s.identity.VaultID == vaultID
	s.mu.Unlock()
	if !active {
		return ErrNoVault
	}
	if remote == nil {
		return ErrOffline
	}
	return remote.Put(ctx, vaultID, ciphertext)
}

func (s *Syncer) setIdentityLocked(id *model.VaultIdentity) {
	s.identity = id
	s.remote = nil
	s.status = StatusLocalOnly
	if id == nil {
		return
	}
	endpoint, key := s.endpointFor(*id)
	if endpoint == "" {
		return
	}
	s.status = StatusOffline
	if !s.cfg.Offline && s.newRemote != nil {
		s.remote = s.newRemote(endpoint, key)
	}
}

func (s *Syncer) endpointFor(id model.VaultIdentity) (string, string) {
	endpoint, key := id.BackendURL, id.APIKey
	if endpoint == "" {
		endpoint = s.cfg.Endpoint
	}
	if key == "" {
		key = s.cfg.APIKey
	}
	return endpoint, key
}

func (s *Syncer) noRemoteStatus(id model.VaultIdentity) Status {
	if endpoint, _ := s.endpointFor(id); endpoint == "" {
		return StatusLocalOnly
	}
	return StatusOffline
}
