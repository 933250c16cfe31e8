// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/models"
	"github.com/taskdesk/taskdesk/repository"
)

// fakeSequenceStore is an in-memory stand-in for the counter table. The
// mutex mirrors the serialization the database row lock provides.
type fakeSequenceStore struct {
	mu       sync.Mutex
	counters map[string]int
	calls    int
	failures int // fail this many Allocate calls before succeeding
	failWith error
}

func newFakeSequenceStore() *fakeSequenceStore {
	return &fakeSequenceStore{counters: make(map[string]int)}
}

func (s *fakeSequenceStore) Allocate(ctx context.Context, prefix, date string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failures > 0 {
		s.failures--
		return 0, s.failWith
	}
	key := prefix + "/" + date
	if s.counters[key] >= models.MaxSequence {
		return 0, repository.ErrSequenceExhausted
	}
	s.counters[key]++
	return s.counters[key], nil
}

func (s *fakeSequenceStore) ByFilter(ctx context.Context, filter models.SequenceCounterFilter, orderBy string, limit, offset int) ([]*models.SequenceCounter, error) {
	return nil, nil
}

// pinnedClock returns a generator whose date is fixed, so tests are not
// sensitive to wall-clock midnight rollover.
func pinnedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestGenerator(store repository.SequenceCounterRepository, at time.Time) *IDGeneratorImpl {
	return &IDGeneratorImpl{
		store:        store,
		location:     time.UTC,
		maxRetries:   3,
		retryBackoff: time.Millisecond,
		now:          pinnedClock(at),
	}
}

var identifierPattern = regexp.MustCompile(`^[A-Z]{3}-\d{8}-\d{5}$`)

func TestGenerateFormat(t *testing.T) {
	store := newFakeSequenceStore()
	gen := newTestGenerator(store, time.Date(2025, 4, 13, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	id, err := gen.Generate(ctx, models.PrefixUser)
	require.NoError(t, err)
	assert.Equal(t, "USR-20250413-00001", id)
	assert.Regexp(t, identifierPattern, id)
}

func TestGenerateSequentialMonotonic(t *testing.T) {
	store := newFakeSequenceStore()
	gen := newTestGenerator(store, time.Date(2025, 4, 13, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		id, err := gen.Generate(ctx, models.PrefixDepartment)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("DEP-20250413-%05d", i), id)
	}
}

func TestGenerateDateScoping(t *testing.T) {
	store := newFakeSequenceStore()
	ctx := context.Background()

	day1 := newTestGenerator(store, time.Date(2025, 4, 13, 23, 59, 0, 0, time.UTC))
	day2 := newTestGenerator(store, time.Date(2025, 4, 14, 0, 1, 0, 0, time.UTC))

	id1, err := day1.Generate(ctx, models.PrefixTask)
	require.NoError(t, err)
	id2, err := day2.Generate(ctx, models.PrefixTask)
	require.NoError(t, err)

	// Each day starts its own counter at 1, even for the same prefix
	assert.Equal(t, "TSK-20250413-00001", id1)
	assert.Equal(t, "TSK-20250414-00001", id2)
}

func TestGenerateInvalidPrefix(t *testing.T) {
	store := newFakeSequenceStore()
	gen := newTestGenerator(store, time.Date(2025, 4, 13, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	cases := []struct {
		name   string
		prefix string
	}{
		{"Lowercase", "usr"},
		{"TooShort", "US"},
		{"TooLong", "USER"},
		{"Empty", ""},
		{"NonLetter", "U1R"},
		{"Unregistered", "XYZ"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := gen.Generate(ctx, tc.prefix)
			require.Error(t, err)
			assert.True(t, IsInvalidPrefix(err))
			assert.Empty(t, id)
		})
	}

	// Rejection happens before any storage mutation
	assert.Zero(t, store.calls)
}

func TestGenerateExhaustionBoundary(t *testing.T) {
	store := newFakeSequenceStore()
	store.counters["NOT/20250413"] = models.MaxSequence - 1
	gen := newTestGenerator(store, time.Date(2025, 4, 13, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// The 99,999th allocation still succeeds
	id, err := gen.Generate(ctx, models.PrefixNotification)
	require.NoError(t, err)
	assert.Equal(t, "NOT-20250413-99999", id)

	// The next call fails terminally for this key
	id, err = gen.Generate(ctx, models.PrefixNotification)
	require.Error(t, err)
	assert.True(t, IsPrefixExhausted(err))
	assert.Empty(t, id)
	assert.Contains(t, err.Error(), "NOT")
	assert.Contains(t, err.Error(), "20250413")
}

func TestGenerateExhaustionNotRetried(t *testing.T) {
	store := newFakeSequenceStore()
	store.counters["SES/20250413"] = models.MaxSequence
	gen := newTestGenerator(store, time.Date(2025, 4, 13, 10, 0, 0, 0, time.UTC))

	_, err := gen.Generate(context.Background(), models.PrefixSession)
	require.Error(t, err)
	assert.True(t, IsPrefixExhausted(err))
	// A single storage round trip: exhaustion must not burn retries
	assert.Equal(t, 1, store.calls)
}

func TestGenerateRetriesTransientFailures(t *testing.T) {
	store := newFakeSequenceStore()
	store.failures = 2
	store.failWith = errors.New("connection refused")
	gen := newTestGenerator(store, time.Date(2025, 4, 13, 10, 0, 0, 0, time.UTC))

	id, err := gen.Generate(context.Background(), models.PrefixTicket)
	require.NoError(t, err)
	assert.Equal(t, "TKT-20250413-00001", id)
	assert.Equal(t, 3, store.calls)
}

func TestGenerateStoreUnavailableAfterRetries(t *testing.T) {
	store := newFakeSequenceStore()
	store.failures = 100
	store.failWith = errors.New("connection refused")
	gen := newTestGenerator(store, time.Date(2025, 4, 13, 10, 0, 0, 0, time.UTC))

	id, err := gen.Generate(context.Background(), models.PrefixComment)
	require.Error(t, err)
	assert.True(t, IsStoreUnavailable(err))
	assert.Empty(t, id)
	// maxRetries of 3 means 4 attempts total
	assert.Equal(t, 4, store.calls)
}

func TestGenerateContextCancelledDuringBackoff(t *testing.T) {
	store := newFakeSequenceStore()
	store.failures = 100
	store.failWith = errors.New("connection refused")
	gen := newTestGenerator(store, time.Date(2025, 4, 13, 10, 0, 0, 0, time.UTC))
	gen.retryBackoff = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, models.PrefixReport)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateConcurrentUniqueness(t *testing.T) {
	store := newFakeSequenceStore()
	gen := newTestGenerator(store, time.Date(2025, 4, 13, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	const n = 200
	ids := make([]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			id, err := gen.Generate(ctx, models.PrefixUser)
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	// All identifiers distinct, sequences a permutation of {1..n}
	seen := make(map[string]struct{}, n)
	for _, id := range ids {
		assert.Regexp(t, identifierPattern, id)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate identifier %s", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, store.counters["USR/20250413"])
}

func TestFormatIdentifier(t *testing.T) {
	assert.Equal(t, "DEP-20250413-00042", FormatIdentifier("DEP", "20250413", 42))
	assert.Equal(t, "USR-20250413-00007", FormatIdentifier("USR", "20250413", 7))
	assert.Equal(t, "TKT-20251231-99999", FormatIdentifier("TKT", "20251231", 99999))
}
