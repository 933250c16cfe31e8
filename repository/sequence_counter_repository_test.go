package repository_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/models"
	"github.com/taskdesk/taskdesk/repository"
	testingutil "github.com/taskdesk/taskdesk/testing"
	"github.com/taskdesk/taskdesk/utils"
)

func TestSequenceCounterAllocate(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewSequenceCounterRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("FirstAllocationStartsAtOne", func(t *testing.T) {
			seq, err := repo.Allocate(ctx, models.PrefixUser, "20250413")
			require.NoError(t, err)
			assert.Equal(t, 1, seq)
		})

		t.Run("SequentialAllocationsIncrement", func(t *testing.T) {
			for want := 2; want <= 5; want++ {
				seq, err := repo.Allocate(ctx, models.PrefixUser, "20250413")
				require.NoError(t, err)
				assert.Equal(t, want, seq)
			}
		})

		t.Run("PrefixesCountIndependently", func(t *testing.T) {
			seq, err := repo.Allocate(ctx, models.PrefixTicket, "20250413")
			require.NoError(t, err)
			assert.Equal(t, 1, seq)
		})

		t.Run("DatesCountIndependently", func(t *testing.T) {
			seq, err := repo.Allocate(ctx, models.PrefixUser, "20250414")
			require.NoError(t, err)
			assert.Equal(t, 1, seq)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSequenceCounterAllocateConcurrent(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewSequenceCounterRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		// Concurrent callers on the same key must each receive a distinct
		// value with no gaps, including the two racing for the first row.
		const n = 50
		results := make([]int, n)
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func(i int) {
				defer wg.Done()
				seq, err := repo.Allocate(ctx, models.PrefixTask, "20250413")
				assert.NoError(t, err)
				results[i] = seq
			}(i)
		}
		wg.Wait()

		seen := make(map[int]struct{}, n)
		for _, seq := range results {
			assert.GreaterOrEqual(t, seq, 1)
			assert.LessOrEqual(t, seq, n)
			_, dup := seen[seq]
			assert.False(t, dup, "sequence %d issued twice", seq)
			seen[seq] = struct{}{}
		}
		assert.Len(t, seen, n)

		return nil
	})
	require.NoError(t, err)
}

func TestSequenceCounterAllocateExhaustion(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewSequenceCounterRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		require.NoError(t, fixtures.SeedCounter(models.PrefixNotification, "20250413", models.MaxSequence-1))

		// The final value is still issued
		seq, err := repo.Allocate(ctx, models.PrefixNotification, "20250413")
		require.NoError(t, err)
		assert.Equal(t, models.MaxSequence, seq)

		// After that the key is spent
		_, err = repo.Allocate(ctx, models.PrefixNotification, "20250413")
		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrSequenceExhausted)

		// The counter row never advances past the cap
		var counter models.SequenceCounter
		require.NoError(t, testDB.DB.Where("prefix = ? AND date = ?", models.PrefixNotification, "20250413").First(&counter).Error)
		assert.Equal(t, models.MaxSequence, counter.Sequence)

		// A fresh date for the same prefix is unaffected
		seq, err = repo.Allocate(ctx, models.PrefixNotification, "20250414")
		require.NoError(t, err)
		assert.Equal(t, 1, seq)

		return nil
	})
	require.NoError(t, err)
}

func TestSequenceCounterByFilter(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewSequenceCounterRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		require.NoError(t, fixtures.SeedCounter(models.PrefixUser, "20250410", 12))
		require.NoError(t, fixtures.SeedCounter(models.PrefixTicket, "20250411", 3))
		require.NoError(t, fixtures.SeedCounter(models.PrefixUser, "20250412", 40))
		require.NoError(t, fixtures.SeedCounter(models.PrefixUser, "20250420", 5))

		t.Run("DateRange", func(t *testing.T) {
			after := "20250410"
			before := "20250412"
			rows, err := repo.ByFilter(ctx, models.SequenceCounterFilter{
				DateAfter:  &after,
				DateBefore: &before,
			}, "date ASC, prefix ASC", 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 3)
			assert.Equal(t, "20250410", rows[0].Date)
			assert.Equal(t, "20250411", rows[1].Date)
			assert.Equal(t, "20250412", rows[2].Date)
		})

		t.Run("ByPrefix", func(t *testing.T) {
			rows, err := repo.ByFilter(ctx, models.SequenceCounterFilter{
				Prefix: utils.ToPtr(models.PrefixUser),
			}, "", 0, 0)
			require.NoError(t, err)
			assert.Len(t, rows, 3)
		})

		t.Run("Limit", func(t *testing.T) {
			rows, err := repo.ByFilter(ctx, models.SequenceCounterFilter{}, "date ASC", 2, 0)
			require.NoError(t, err)
			assert.Len(t, rows, 2)
		})

		return nil
	})
	require.NoError(t, err)
}
