// Package mirror keeps a durable copy of the persisted store fields.
//
// The mirror is a store.Observer. Each change replaces the pending payload
// for its key and schedules at most one write job per key; a single writer
// drains the jobs into the repository. Load reads the entries back at
// startup and falls back per key when an entry is missing or unreadable.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/elevatos/internal/adapters/mq/queue"
	"github.com/okian/elevatos/internal/adapters/mq/worker"
	"github.com/okian/elevatos/internal/adapters/repository"
	"github.com/okian/elevatos/internal/domain/dedupe"
	"github.com/okian/elevatos/internal/domain/store"
	"github.com/okian/elevatos/pkg/logger"
	"github.com/okian/elevatos/pkg/metrics"
)

const defaultQueueCapacity = 64

// Load outcomes per key.
const (
	OutcomeLoaded   = "loaded"
	OutcomeMissing  = "missing"
	OutcomeFallback = "fallback"
)

// Mirror writes store changes through to a repository.
type Mirror struct {
	repo          repository.Store
	queueCapacity int

	mu      sync.Mutex
	pending map[store.Key][]byte
	started bool
	closed  bool

	// serializes take-and-write so a key is never overwritten by an older payload
	writeMu sync.Mutex

	dedupe dedupe.Deduper
	queue  *queue.InMemoryQueue
	worker *worker.InMemoryWorker

	logger logger.Logger
}

// New creates a Mirror over repo. Call Start before subscribing it to a store.
func New(repo repository.Store, opts ...Option) *Mirror {
	m := &Mirror{
		repo:          repo,
		queueCapacity: defaultQueueCapacity,
		pending:       make(map[store.Key][]byte),
		dedupe:        dedupe.NewInMemoryDeduper(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logger.Get().Named("mirror")
	}

	m.queue = queue.NewInMemoryQueue(queue.WithCapacity(m.queueCapacity))
	m.worker = worker.NewInMemoryWorker(m.queue, worker.WriterFunc(m.writeKey),
		worker.WithName("mirror-writer"),
		worker.WithLogger(m.logger.Named("writer")),
	)
	return m
}

// Start launches the writer. It stops when Close drains the queue or ctx is
// cancelled.
func (m *Mirror) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.closed {
		return
	}
	m.started = true
	go m.worker.Run(ctx)
}

// Load builds the initial state: each persisted key is read from the
// repository and decoded; a missing, unreadable or undecodable entry keeps
// the value from fallback. Load never fails. The returned map tells, per
// key, which outcome applied.
func (m *Mirror) Load(ctx context.Context, fallback store.State) (store.State, map[store.Key]string) {
	st := fallback
	outcomes := make(map[store.Key]string, len(store.MirroredKeys()))

	for _, key := range store.MirroredKeys() {
		outcome := m.loadKey(ctx, key, &st)
		outcomes[key] = outcome
		metrics.RecordMirrorLoad(string(key), outcome)
	}

	m.logger.Info(ctx, "state loaded",
		logger.Int("projects", len(st.Projects)),
		logger.Int("feedback", len(st.Feedback)),
		logger.Any("outcomes", outcomes),
	)
	return st, outcomes
}

func (m *Mirror) loadKey(ctx context.Context, key store.Key, st *store.State) string {
	data, err := m.repo.Get(ctx, string(key))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return OutcomeMissing
	case err != nil:
		m.logger.Warn(ctx, "persisted entry unreadable, using fallback", logger.String("key", string(key)), logger.Error(err))
		metrics.RecordErrorByComponent("mirror", "read_failed")
		return OutcomeFallback
	}

	if err := decodeInto(key, data, st); err != nil {
		m.logger.Warn(ctx, "persisted entry corrupt, using fallback", logger.String("key", string(key)), logger.Error(err))
		metrics.RecordErrorByComponent("mirror", "decode_failed")
		return OutcomeFallback
	}
	return OutcomeLoaded
}

// Observe records the new value of a persisted key and schedules its write.
// Keys that are not persisted are ignored.
func (m *Mirror) Observe(ctx context.Context, c store.Change) {
	if !c.Key.Mirrored() {
		return
	}
	payload, err := encode(c)
	if err != nil {
		m.logger.Error(ctx, "dropping change", logger.String("key", string(c.Key)), logger.Error(err))
		metrics.RecordErrorByComponent("mirror", "encode_failed")
		return
	}

	m.mu.Lock()
	closed := m.closed
	m.pending[c.Key] = payload
	size := len(m.pending)
	m.mu.Unlock()
	metrics.UpdateMirrorPending(size)

	key := string(c.Key)
	if closed {
		m.writeNow(ctx, key)
		return
	}
	if m.dedupe.SeenAndRecord(ctx, key) {
		return
	}
	if err := m.queue.Enqueue(ctx, queue.Job{Key: key}); err != nil {
		m.dedupe.Unrecord(ctx, key)
		m.logger.Warn(ctx, "write queue rejected job, writing inline", logger.String("key", key), logger.Error(err))
		m.writeNow(ctx, key)
	}
}

func (m *Mirror) writeNow(ctx context.Context, key string) {
	if err := m.writeKey(ctx, key); err != nil {
		m.logger.Error(ctx, "inline write failed", logger.String("key", key), logger.Error(err))
	}
}

// writeKey persists the pending payload of key, if any.
func (m *Mirror) writeKey(ctx context.Context, key string) error {
	m.dedupe.Unrecord(ctx, key)

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	payload, ok := m.pending[store.Key(key)]
	delete(m.pending, store.Key(key))
	size := len(m.pending)
	m.mu.Unlock()
	metrics.UpdateMirrorPending(size)

	if !ok {
		return nil
	}
	return m.put(ctx, key, payload)
}

func (m *Mirror) put(ctx context.Context, key string, payload []byte) error {
	start := time.Now()
	err := m.repo.Put(ctx, key, payload)
	latency := float64(time.Since(start).Microseconds()) / 1000

	if err != nil {
		metrics.RecordMirrorWrite(key, "error", latency)
		metrics.RecordErrorByComponent("mirror", "write_failed")
		return fmt.Errorf("persist %s: %w", key, err)
	}
	metrics.RecordMirrorWrite(key, "ok", latency)
	return nil
}

// Flush synchronously writes every pending payload.
func (m *Mirror) Flush(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	batch := m.pending
	m.pending = make(map[store.Key][]byte)
	m.mu.Unlock()
	metrics.UpdateMirrorPending(0)

	var errs []error
	for _, key := range store.MirroredKeys() {
		payload, ok := batch[key]
		if !ok {
			continue
		}
		m.dedupe.Unrecord(ctx, string(key))
		if err := m.put(ctx, string(key), payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Pending returns the number of keys changed but not yet written.
func (m *Mirror) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Close stops the writer after it drains the queue and flushes anything left.
// Changes observed after Close are written inline. The repository is not
// closed.
func (m *Mirror) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	started := m.started
	m.mu.Unlock()

	if err := m.queue.Close(); err != nil {
		m.logger.Error(ctx, "error closing queue", logger.Error(err))
	}
	var shutdownErr error
	if started {
		shutdownErr = m.worker.Shutdown(ctx)
	}
	flushErr := m.Flush(ctx)

	m.logger.Info(ctx, "mirror closed")
	return errors.Join(shutdownErr, flushErr)
}
