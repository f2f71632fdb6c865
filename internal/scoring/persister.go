package scoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kojo/internal/leaderboard"
)

// DefaultKey is the store key the leaderboard is kept under.
const DefaultKey = "leaderboard"

const (
	defaultQueueSize    = 8
	defaultRetries      = 2
	defaultRetryDelay   = 200 * time.Millisecond
	defaultWriteTimeout = 5 * time.Second
)

// PersisterConfig tunes a Persister.
type PersisterConfig struct {
	Key          string
	Capacity     int // leaderboard size kept when merging with the stored board
	QueueSize    int
	Retries      int // extra attempts after the first failed write
	RetryDelay   time.Duration
	WriteTimeout time.Duration
	Logger       *log.Logger
}

// DefaultPersisterConfig returns the defaults used by NewService.
func DefaultPersisterConfig() PersisterConfig {
	return PersisterConfig{
		Key:          DefaultKey,
		Capacity:     leaderboard.DefaultCapacity,
		QueueSize:    defaultQueueSize,
		Retries:      defaultRetries,
		RetryDelay:   defaultRetryDelay,
		WriteTimeout: defaultWriteTimeout,
	}
}

// Persister writes leaderboard snapshots to a Store on a single background
// goroutine, in the order they were enqueued. Each snapshot is merged into
// the stored leaderboard rather than replacing it, so sessions sharing a key
// keep each other's entries. Writes are best effort: a
// failed write is retried a bounded number of times, then logged and
// dropped. When the queue is full the oldest pending snapshot is discarded,
// since only the latest one matters.
type Persister struct {
	store  Store
	cfg    PersisterConfig
	logger *log.Logger

	mu     sync.Mutex
	queue  chan leaderboard.Leaderboard
	closed bool
	done   chan struct{}
}

// NewPersister starts the background writer.
func NewPersister(store Store, cfg PersisterConfig) *Persister {
	def := DefaultPersisterConfig()
	if cfg.Key == "" {
		cfg.Key = def.Key
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	p := &Persister{
		store:  store,
		cfg:    cfg,
		logger: logger.WithPrefix("persist"),
		queue:  make(chan leaderboard.Leaderboard, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Enqueue schedules a write of lb and returns immediately. lb is copied.
func (p *Persister) Enqueue(lb leaderboard.Leaderboard) {
	snap := lb.Clone()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.logger.Warn("dropping leaderboard write after close", "key", p.cfg.Key)
		return
	}

	for {
		select {
		case p.queue <- snap:
			return
		default:
		}
		// Full: discard the oldest pending snapshot and try again.
		select {
		case <-p.queue:
			p.logger.Debug("superseded pending leaderboard write", "key", p.cfg.Key)
		default:
		}
	}
}

// Close stops accepting writes and waits until the queue is drained or ctx
// is done. A write in progress is never aborted.
func (p *Persister) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Persister) run() {
	defer close(p.done)
	for lb := range p.queue {
		p.write(lb)
	}
}

func (p *Persister) write(lb leaderboard.Leaderboard) {
	attempts := p.cfg.Retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.WriteTimeout)
		err := p.save(ctx, lb)
		cancel()
		if err == nil {
			return
		}

		p.logger.Warn("leaderboard write failed",
			"key", p.cfg.Key, "attempt", attempt, "of", attempts, "err", err)
		if attempt < attempts && p.cfg.RetryDelay > 0 {
			time.Sleep(p.cfg.RetryDelay)
		}
	}
	p.logger.Error("giving up on leaderboard write", "key", p.cfg.Key, "entries", len(lb))
}

// save merges lb into the stored leaderboard. Stores implementing Updater
// do it atomically; others get a read followed by a write.
func (p *Persister) save(ctx context.Context, lb leaderboard.Leaderboard) error {
	fold := func(current string, ok bool) (string, error) {
		return p.fold(lb, current, ok)
	}

	if u, ok := p.store.(Updater); ok {
		return u.Update(ctx, p.cfg.Key, fold)
	}

	current, found, err := p.store.Read(ctx, p.cfg.Key)
	if err != nil {
		return fmt.Errorf("read before write: %w", err)
	}
	data, err := fold(current, found)
	if err != nil {
		return err
	}
	return p.store.Write(ctx, p.cfg.Key, data)
}

func (p *Persister) fold(lb leaderboard.Leaderboard, current string, ok bool) (string, error) {
	merged := lb
	if ok {
		stored, err := leaderboard.Decode(current, p.cfg.Capacity)
		if err != nil {
			p.logger.Warn("overwriting malformed stored leaderboard", "key", p.cfg.Key, "err", err)
		}
		merged = leaderboard.Union(lb, stored, p.cfg.Capacity)
	}
	return leaderboard.Encode(merged)
}
