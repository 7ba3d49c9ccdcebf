package ledger

import (
	"context"
	"testing"
	"time"

	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func watchEngine(t *testing.T) (*Engine, *MockLedgerRepository, *MockBalanceWatcher, chan int64) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := NewMockLedgerRepository(ctrl)
	watcher := NewMockBalanceWatcher(ctrl)
	e := newTestEngine(t, repo, watcher)

	updates := make(chan int64, 8)
	var stream <-chan int64 = updates
	watcher.EXPECT().WatchBalance(gomock.Any(), testUser).Return(stream, nil).Times(1)
	return e, repo, watcher, updates
}

func TestBalancePushOnlyChangesBalance(t *testing.T) {
	e, repo, _, updates := watchEngine(t)
	loadEngine(t, e, repo, 500, testEntries("e1", "e2"), true)
	dispatch(t, e, model.Select{IDs: []string{"e2"}})
	snap := dispatch(t, e, model.StartWatch{})
	require.True(t, snap.RealTime)

	updates <- 750
	require.Eventually(t, func() bool { return e.Snapshot().Balance == 750 }, time.Second, 5*time.Millisecond)

	after := e.Snapshot()
	require.Equal(t, snap.Entries, after.Entries)
	require.Equal(t, snap.Selected, after.Selected)
	require.Equal(t, snap.Filter, after.Filter)
	require.Equal(t, snap.Categories, after.Categories)
	require.Equal(t, snap.Status, after.Status)
	require.Equal(t, snap.Version+1, after.Version)
}

func TestBalancePushSameValueIsIgnored(t *testing.T) {
	e, repo, _, updates := watchEngine(t)
	loadEngine(t, e, repo, 500, testEntries("e1"), false)
	dispatch(t, e, model.StartWatch{})

	updates <- 500
	updates <- 510
	require.Eventually(t, func() bool { return e.Snapshot().Balance == 510 }, time.Second, 5*time.Millisecond)
	require.Equal(t, uint64(4), e.Snapshot().Version)
}

func TestStopWatchIgnoresLaterValues(t *testing.T) {
	e, repo, _, updates := watchEngine(t)
	loadEngine(t, e, repo, 500, testEntries("e1"), false)
	dispatch(t, e, model.StartWatch{})

	updates <- 700
	require.Eventually(t, func() bool { return e.Snapshot().Balance == 700 }, time.Second, 5*time.Millisecond)

	snap := dispatch(t, e, model.StopWatch{})
	require.False(t, snap.RealTime)

	updates <- 900
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int64(700), e.Snapshot().Balance)
	require.Equal(t, snap.Version, e.Snapshot().Version)
}

func TestStartWatchIsIdempotent(t *testing.T) {
	e, repo, _, _ := watchEngine(t)
	loadEngine(t, e, repo, 500, testEntries("e1"), false)

	first := dispatch(t, e, model.StartWatch{})
	second := dispatch(t, e, model.StartWatch{})
	require.True(t, second.RealTime)
	require.Equal(t, first.Version, second.Version)
}

func TestStreamClosedDisablesRealTime(t *testing.T) {
	e, repo, _, updates := watchEngine(t)
	loadEngine(t, e, repo, 500, testEntries("e1"), false)
	dispatch(t, e, model.StartWatch{})

	close(updates)
	require.Eventually(t, func() bool { return !e.Snapshot().RealTime }, time.Second, 5*time.Millisecond)
	require.Equal(t, int64(500), e.Snapshot().Balance)
}

func TestStartWatchErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockLedgerRepository(ctrl)
	e := newTestEngine(t, repo, nil)

	snap := dispatch(t, e, model.StartWatch{})
	require.False(t, snap.RealTime)
	require.True(t, snap.Err.Local)

	watcher := NewMockBalanceWatcher(ctrl)
	e2 := newTestEngine(t, repo, watcher)
	watcher.EXPECT().WatchBalance(gomock.Any(), testUser).Return(nil, context.DeadlineExceeded)
	snap = dispatch(t, e2, model.StartWatch{})
	require.False(t, snap.RealTime)
	require.Equal(t, model.KindTimeout, snap.Err.Kind)
	require.Equal(t, model.StartWatch{}, snap.Err.Command)
}

func TestCloseStopsWatch(t *testing.T) {
	e, repo, _, updates := watchEngine(t)
	loadEngine(t, e, repo, 500, testEntries("e1"), false)
	dispatch(t, e, model.StartWatch{})
	e.Close()

	version := e.Snapshot().Version
	updates <- 999
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, version, e.Snapshot().Version)
}
