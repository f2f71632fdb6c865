package scoring

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kojo/internal/leaderboard"
)

// DefaultPlayer is used when no player name is configured.
const DefaultPlayer = "Anonymous"

// Service is a session's score state: the running total, the per-activity
// totals and the in-memory leaderboard. It implements Sink.
//
// The in-memory leaderboard is the source of truth for the session; the
// store is only written to, after Load.
type Service struct {
	store     Store
	persister *Persister
	logger    *log.Logger
	key       string
	capacity  int

	mu       sync.Mutex
	player   string
	total    int
	bySource map[Source]int
	board    leaderboard.Leaderboard
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	logger   *log.Logger
	player   string
	capacity int
	persist  PersisterConfig
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *serviceOptions) { o.logger = l }
}

// WithPlayer sets the name the running total is recorded under.
func WithPlayer(name string) Option {
	return func(o *serviceOptions) { o.player = name }
}

// WithCapacity sets the leaderboard size.
func WithCapacity(n int) Option {
	return func(o *serviceOptions) { o.capacity = n }
}

// WithKey sets the store key.
func WithKey(key string) Option {
	return func(o *serviceOptions) { o.persist.Key = key }
}

// WithRetries sets the bounded retry policy for failed writes.
func WithRetries(n int, delay time.Duration) Option {
	return func(o *serviceOptions) {
		o.persist.Retries = n
		o.persist.RetryDelay = delay
	}
}

// NewService creates a session service writing to store.
func NewService(store Store, opts ...Option) *Service {
	o := serviceOptions{
		capacity: leaderboard.DefaultCapacity,
		persist:  DefaultPersisterConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	if o.capacity <= 0 {
		o.capacity = leaderboard.DefaultCapacity
	}
	o.persist.Logger = o.logger
	o.persist.Capacity = o.capacity

	s := &Service{
		store:     store,
		persister: NewPersister(store, o.persist),
		logger:    o.logger,
		key:       o.persist.Key,
		capacity:  o.capacity,
		bySource:  make(map[Source]int),
		board:     leaderboard.Leaderboard{},
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	s.SetPlayer(o.player)
	return s
}

// Load reads the persisted leaderboard into memory and returns it.
// Missing, empty or malformed data yields an empty leaderboard; errors are
// logged, never returned.
func (s *Service) Load(ctx context.Context) leaderboard.Leaderboard {
	lb := s.read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = lb
	return s.board.Clone()
}

func (s *Service) read(ctx context.Context) leaderboard.Leaderboard {
	data, ok, err := s.store.Read(ctx, s.key)
	if err != nil {
		s.logger.Warn("leaderboard read failed", "key", s.key, "err", err)
		return leaderboard.Leaderboard{}
	}
	if !ok {
		return leaderboard.Leaderboard{}
	}

	lb, err := leaderboard.Decode(data, s.capacity)
	if err != nil {
		s.logger.Warn("ignoring malformed leaderboard", "key", s.key, "err", err)
		return leaderboard.Leaderboard{}
	}
	return lb
}

// Submit adds ev to the running total. A positive delta also merges the
// new total into the leaderboard and schedules a write; a zero delta
// changes nothing.
func (s *Service) Submit(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, err := Apply(s.total, ev.Points)
	if err != nil {
		return fmt.Errorf("scoring: submit %s: %w", ev.Source, err)
	}
	if ev.Points == 0 {
		return nil
	}

	merged, err := leaderboard.Merge(s.board, s.player, total, s.capacity)
	if err != nil {
		return fmt.Errorf("scoring: submit %s: %w", ev.Source, err)
	}

	s.total = total
	s.bySource[ev.Source] += ev.Points
	s.board = merged
	s.persister.Enqueue(merged)
	return nil
}

// Total returns the running total.
func (s *Service) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// SourceTotal returns the points earned from one activity.
func (s *Service) SourceTotal(src Source) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bySource[src]
}

// Leaderboard returns a copy of the in-memory leaderboard.
func (s *Service) Leaderboard() leaderboard.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// Player returns the current player name.
func (s *Service) Player() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// SetPlayer changes the player name for later submissions.
// A blank name falls back to DefaultPlayer.
func (s *Service) SetPlayer(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPlayer
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.player = name
}

// Close flushes pending writes, waiting at most until ctx is done.
func (s *Service) Close(ctx context.Context) error {
	if err := s.persister.Close(ctx); err != nil {
		return fmt.Errorf("scoring: close: %w", err)
	}
	return nil
}
