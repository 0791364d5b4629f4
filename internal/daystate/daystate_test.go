package daystate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/clock"
)

func openMemory(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	_, ok, err := s.Load(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, 42, clock.DayStamp{Key: "2024-06-10", Zone: "Europe/Berlin"}))
	require.NoError(t, s.Save(ctx, 42, clock.DayStamp{Key: "2024-06-11", Zone: "Europe/Berlin"}))

	got, ok, err := s.Load(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, clock.DayStamp{Key: "2024-06-11", Zone: "Europe/Berlin"}, got)

	_, ok, err = s.Load(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStorePersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, 1, clock.DayStamp{Key: "2024-06-10", Zone: "UTC"}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, ok, err := s.Load(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2024-06-10", got.Key)
}

func TestTrackerChangedAndCommit(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.InfoLevel)
	tr := NewTracker(openMemory(t), zap.New(core).Sugar())

	monday := clock.DayStamp{Key: "2024-06-10", Zone: "UTC"}

	changed, err := tr.Changed(ctx, 1, monday)
	require.NoError(t, err)
	assert.True(t, changed, "first observation")

	changed, err = tr.Changed(ctx, 1, monday)
	require.NoError(t, err)
	assert.True(t, changed, "still changed until committed")

	require.NoError(t, tr.Commit(ctx, 1, monday))
	assert.Zero(t, logs.Len())

	changed, err = tr.Changed(ctx, 1, monday)
	require.NoError(t, err)
	assert.False(t, changed)

	tokyo := clock.DayStamp{Key: "2024-06-10", Zone: "Asia/Tokyo"}
	changed, err = tr.Changed(ctx, 1, tokyo)
	require.NoError(t, err)
	assert.True(t, changed, "zone change")
	require.NoError(t, tr.Commit(ctx, 1, tokyo))

	tuesday := clock.DayStamp{Key: "2024-06-11", Zone: "Asia/Tokyo"}
	changed, err = tr.Changed(ctx, 1, tuesday)
	require.NoError(t, err)
	assert.True(t, changed, "day change")
	require.NoError(t, tr.Commit(ctx, 1, tuesday))
	require.NoError(t, tr.Commit(ctx, 1, tuesday))
	assert.Equal(t, 2, logs.FilterMessage("local day changed").Len())

	changed, err = tr.Changed(ctx, 2, monday)
	require.NoError(t, err)
	assert.True(t, changed, "users are independent")
}

type failingStore struct{ err error }

func (f failingStore) Load(context.Context, int64) (clock.DayStamp, bool, error) {
	return clock.DayStamp{}, false, f.err
}

func (f failingStore) Save(context.Context, int64, clock.DayStamp) error { return f.err }

func TestTrackerPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("disk full")
	tr := NewTracker(failingStore{err: boom}, nil)
	stamp := clock.DayStamp{Key: "2024-06-10", Zone: "UTC"}

	changed, err := tr.Changed(context.Background(), 1, stamp)
	assert.ErrorIs(t, err, boom)
	assert.False(t, changed)

	assert.ErrorIs(t, tr.Commit(context.Background(), 1, stamp), boom)
}
