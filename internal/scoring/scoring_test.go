package scoring

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/kojo/internal/leaderboard"
	"github.com/vovakirdan/kojo/internal/storage/memstore"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// flakyStore fails the first failures writes, then delegates.
type flakyStore struct {
	*memstore.Store

	mu       sync.Mutex
	failures int
	attempts int
	readErr  error
}

func (f *flakyStore) Read(ctx context.Context, key string) (string, bool, error) {
	if f.readErr != nil {
		return "", false, f.readErr
	}
	return f.Store.Read(ctx, key)
}

func (f *flakyStore) Write(ctx context.Context, key, value string) error {
	f.mu.Lock()
	f.attempts++
	fail := f.attempts <= f.failures
	f.mu.Unlock()
	if fail {
		return errors.New("storage unavailable")
	}
	return f.Store.Write(ctx, key, value)
}

func (f *flakyStore) Update(ctx context.Context, key string, fn func(string, bool) (string, error)) error {
	f.mu.Lock()
	f.attempts++
	fail := f.attempts <= f.failures
	f.mu.Unlock()
	if fail {
		return errors.New("storage unavailable")
	}
	return f.Store.Update(ctx, key, fn)
}

func (f *flakyStore) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func closeService(t *testing.T, s *Service) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Close(ctx))
}

func TestApply(t *testing.T) {
	total, err := Apply(50, 30)
	require.NoError(t, err)
	assert.Equal(t, 80, total)

	total, err = Apply(80, 0)
	require.NoError(t, err)
	assert.Equal(t, 80, total)

	total, err = Apply(80, -1)
	assert.ErrorIs(t, err, ErrNegativeDelta)
	assert.Equal(t, 80, total)
}

func TestRewards(t *testing.T) {
	assert.Equal(t, 90, GuessReward(1))
	assert.Equal(t, 0, GuessReward(10))
	assert.Equal(t, 0, GuessReward(15))

	tests := []struct {
		attempts int
		d        Difficulty
		want     int
	}{
		{1, DifficultyEasy, 90},
		{1, DifficultyMedium, 135},
		{3, DifficultyHard, 140},
		{12, DifficultyHard, 0},
	}
	for _, tt := range tests {
		got, err := ColorReward(tt.attempts, tt.d)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%d attempts on %s", tt.attempts, tt.d)
	}

	_, err := ColorReward(1, "insane")
	assert.Error(t, err)
}

func TestReward(t *testing.T) {
	tests := map[string]struct {
		src      Source
		attempts int
		diff     Difficulty
		want     int
		wantErr  bool
	}{
		"number":            {src: SourceNumber, attempts: 3, want: 70},
		"word ignores diff": {src: SourceWord, attempts: 2, diff: "bogus", want: 80},
		"color hard":        {src: SourceColor, attempts: 3, diff: DifficultyHard, want: 140},
		"color medium":      {src: SourceColor, attempts: 1, diff: DifficultyMedium, want: 135},
		"color unknown":     {src: SourceColor, attempts: 1, diff: "extreme", wantErr: true},
		"share":             {src: SourceShare, want: ShareBonus},
		"candy":             {src: SourceCandy, attempts: 1, wantErr: true},
		"negative attempts": {src: SourceNumber, attempts: -1, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Reward(tt.src, tt.attempts, tt.diff)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_SubmitMergesRunningTotal(t *testing.T) {
	store := memstore.New()
	s := NewService(store, WithLogger(quietLogger()), WithPlayer("alice"))

	require.NoError(t, s.Submit(Event{Source: SourceCandy, Points: 30}))
	require.NoError(t, s.Submit(Event{Source: SourceColor, Points: 90}))

	assert.Equal(t, 120, s.Total())
	assert.Equal(t, 30, s.SourceTotal(SourceCandy))
	assert.Equal(t, 90, s.SourceTotal(SourceColor))
	assert.Equal(t, leaderboard.Leaderboard{{Name: "alice", Score: 120}}, s.Leaderboard())

	closeService(t, s)

	data, ok, err := store.Read(context.Background(), DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"name":"alice","score":120}]`, data)
}

func TestService_ZeroDeltaIsNoop(t *testing.T) {
	store := memstore.New()
	s := NewService(store, WithLogger(quietLogger()))

	require.NoError(t, s.Submit(Event{Source: SourceCandy, Points: 0}))
	closeService(t, s)

	assert.Empty(t, s.Leaderboard())
	assert.Equal(t, 0, store.Writes())
}

func TestService_NegativeDeltaRejected(t *testing.T) {
	s := NewService(memstore.New(), WithLogger(quietLogger()))
	defer closeService(t, s)

	require.NoError(t, s.Submit(Event{Source: SourceCandy, Points: 10}))
	err := s.Submit(Event{Source: SourceCandy, Points: -5})
	assert.ErrorIs(t, err, ErrNegativeDelta)
	assert.Equal(t, 10, s.Total())
}

func TestService_DefaultPlayer(t *testing.T) {
	s := NewService(memstore.New(), WithLogger(quietLogger()), WithPlayer("   "))
	defer closeService(t, s)

	assert.Equal(t, DefaultPlayer, s.Player())

	s.SetPlayer("bob")
	assert.Equal(t, "bob", s.Player())
}

func TestService_Load(t *testing.T) {
	tests := []struct {
		name    string
		stored  *string
		readErr error
		want    leaderboard.Leaderboard
	}{
		{name: "absent", want: leaderboard.Leaderboard{}},
		{name: "empty string", stored: ptr(""), want: leaderboard.Leaderboard{}},
		{name: "malformed", stored: ptr("{oops"), want: leaderboard.Leaderboard{}},
		{name: "read error", readErr: errors.New("boom"), want: leaderboard.Leaderboard{}},
		{
			name:   "valid",
			stored: ptr(`[{"name":"A","score":100},{"name":"B","score":90}]`),
			want:   leaderboard.Leaderboard{{Name: "A", Score: 100}, {Name: "B", Score: 90}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memstore.New()
			if tt.stored != nil {
				require.NoError(t, mem.Write(context.Background(), DefaultKey, *tt.stored))
			}
			store := &flakyStore{Store: mem, readErr: tt.readErr}

			s := NewService(store, WithLogger(quietLogger()))
			defer closeService(t, s)

			got := s.Load(context.Background())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, s.Leaderboard())
		})
	}
}

func TestService_LoadThenSubmitMergesIntoStored(t *testing.T) {
	mem := memstore.New()
	require.NoError(t, mem.Write(context.Background(), DefaultKey,
		`[{"name":"A","score":100},{"name":"B","score":90}]`))

	s := NewService(mem, WithLogger(quietLogger()), WithPlayer("C"))
	s.Load(context.Background())

	require.NoError(t, s.Submit(Event{Source: SourceCandy, Points: 95}))
	closeService(t, s)

	data, _, err := mem.Read(context.Background(), DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"A","score":100},{"name":"C","score":95},{"name":"B","score":90}]`, data)
}

func TestService_WriteFailureKeepsMemoryState(t *testing.T) {
	store := &flakyStore{Store: memstore.New(), failures: 100}
	s := NewService(store, WithLogger(quietLogger()), WithPlayer("alice"), WithRetries(2, time.Millisecond))

	require.NoError(t, s.Submit(Event{Source: SourceCandy, Points: 30}))
	closeService(t, s)

	assert.Equal(t, 3, store.Attempts(), "one write plus two retries")
	assert.Equal(t, 30, s.Total())
	assert.Equal(t, leaderboard.Leaderboard{{Name: "alice", Score: 30}}, s.Leaderboard())
}

func TestService_RetryRecovers(t *testing.T) {
	store := &flakyStore{Store: memstore.New(), failures: 1}
	s := NewService(store, WithLogger(quietLogger()), WithPlayer("alice"), WithRetries(2, time.Millisecond))

	require.NoError(t, s.Submit(Event{Source: SourceShare, Points: ShareBonus}))
	closeService(t, s)

	data, ok, err := store.Read(context.Background(), DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"name":"alice","score":50}]`, data)
}

func TestService_CustomKeyAndCapacity(t *testing.T) {
	mem := memstore.New()
	s := NewService(mem, WithLogger(quietLogger()), WithKey("scores"), WithCapacity(1))

	s.SetPlayer("a")
	require.NoError(t, s.Submit(Event{Source: SourceCandy, Points: 10}))
	s.SetPlayer("b")
	require.NoError(t, s.Submit(Event{Source: SourceCandy, Points: 10}))
	closeService(t, s)

	// b holds the running total of 20 and pushes a out.
	assert.Equal(t, leaderboard.Leaderboard{{Name: "b", Score: 20}}, s.Leaderboard())

	data, ok, err := mem.Read(context.Background(), "scores")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"name":"b","score":20}]`, data)
}

// plainStore hides memstore's Update so the persister falls back to
// reading before it writes.
type plainStore struct {
	mem *memstore.Store
}

func (p plainStore) Read(ctx context.Context, key string) (string, bool, error) {
	return p.mem.Read(ctx, key)
}

func (p plainStore) Write(ctx context.Context, key, value string) error {
	return p.mem.Write(ctx, key, value)
}

func TestService_SessionsSharingStoreKeepEachOthersEntries(t *testing.T) {
	stores := map[string]func(*memstore.Store) Store{
		"updater":    func(m *memstore.Store) Store { return m },
		"read-write": func(m *memstore.Store) Store { return plainStore{mem: m} },
	}

	for name, wrap := range stores {
		t.Run(name, func(t *testing.T) {
			mem := memstore.New()
			alice := NewService(wrap(mem), WithLogger(quietLogger()), WithPlayer("alice"))
			bob := NewService(wrap(mem), WithLogger(quietLogger()), WithPlayer("bob"))
			alice.Load(context.Background())
			bob.Load(context.Background())

			require.NoError(t, alice.Submit(Event{Source: SourceCandy, Points: 50}))
			closeService(t, alice)
			require.NoError(t, bob.Submit(Event{Source: SourceCandy, Points: 30}))
			closeService(t, bob)

			data, ok, err := mem.Read(context.Background(), DefaultKey)
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `[{"name":"alice","score":50},{"name":"bob","score":30}]`, data)
		})
	}
}

func TestService_ConcurrentSessionsAllPersisted(t *testing.T) {
	mem := memstore.New()
	players := []string{"p1", "p2", "p3", "p4", "p5", "p6"}

	var wg sync.WaitGroup
	for i, name := range players {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := NewService(mem, WithLogger(quietLogger()), WithPlayer(name))
			s.Load(context.Background())
			for range 3 {
				assert.NoError(t, s.Submit(Event{Source: SourceCandy, Points: 10 * (i + 1)}))
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			assert.NoError(t, s.Close(ctx))
		}()
	}
	wg.Wait()

	data, ok, err := mem.Read(context.Background(), DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	lb, err := leaderboard.Decode(data, leaderboard.DefaultCapacity)
	require.NoError(t, err)
	require.Len(t, lb, len(players))
	for i, name := range players {
		best, found := lb.Best(name)
		assert.True(t, found, name)
		assert.Equal(t, 30*(i+1), best, name)
	}
}

func TestService_MalformedStoredBoardIsReplaced(t *testing.T) {
	mem := memstore.New()
	require.NoError(t, mem.Write(context.Background(), DefaultKey, "{not json"))

	s := NewService(mem, WithLogger(quietLogger()), WithPlayer("alice"))
	require.NoError(t, s.Submit(Event{Source: SourceCandy, Points: 5}))
	closeService(t, s)

	data, _, err := mem.Read(context.Background(), DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"alice","score":5}]`, data)
}

func ptr(s string) *string { return &s }
