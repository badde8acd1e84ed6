package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthlens/wealthlens/internal/domain"
	"github.com/wealthlens/wealthlens/internal/events"
	"github.com/wealthlens/wealthlens/internal/modules/investments"
)

type fakeHoldings struct {
	byUser     map[int64][]domain.Investment
	refreshErr error
	refreshed  []int64
}

func (f *fakeHoldings) RefreshPrices(_ context.Context, userID int64) (investments.RefreshResult, error) {
	f.refreshed = append(f.refreshed, userID)
	return investments.RefreshResult{}, f.refreshErr
}

func (f *fakeHoldings) ListByUser(userID int64) ([]domain.Investment, error) {
	return f.byUser[userID], nil
}

type snapshotRow struct {
	userID   int64
	value    float64
	invested float64
}

type fakeSnapshots struct {
	users  []int64
	rows   []snapshotRow
	upsert error
}

func (f *fakeSnapshots) UserIDs() ([]int64, error) { return f.users, nil }

func (f *fakeSnapshots) Upsert(userID int64, _ time.Time, totalValue, totalInvested float64) error {
	if f.upsert != nil {
		return f.upsert
	}
	f.rows = append(f.rows, snapshotRow{userID, totalValue, totalInvested})
	return nil
}

type fakeArchive struct {
	recorded map[string]float64
}

func (f *fakeArchive) Record(symbol, _ string, close float64) error {
	if f.recorded == nil {
		f.recorded = map[string]float64{}
	}
	f.recorded[symbol] = close
	return nil
}

func TestValuationJob_Run(t *testing.T) {
	holdings := &fakeHoldings{byUser: map[int64][]domain.Investment{
		1: {
			{Symbol: "VWCE", AssetType: domain.AssetETF, CostBasis: 900, CurrentValue: 1000, LastPrice: 100},
			{Symbol: "CASH", AssetType: domain.AssetCash, CostBasis: 500, CurrentValue: 500},
		},
		2: {
			{Symbol: "AGGH", AssetType: domain.AssetBond, CostBasis: 300, CurrentValue: 290, LastPrice: 29},
		},
	}}
	snapshots := &fakeSnapshots{users: []int64{1, 2}}
	archive := &fakeArchive{}

	job := NewValuationJob(holdings, snapshots, archive, events.NewManager(10, zerolog.Nop()), zerolog.Nop())
	require.NoError(t, job.Run())

	assert.Equal(t, []int64{1, 2}, holdings.refreshed)

	require.Len(t, snapshots.rows, 2)
	assert.Equal(t, snapshotRow{1, 1500, 1400}, snapshots.rows[0])
	assert.Equal(t, snapshotRow{2, 290, 300}, snapshots.rows[1])

	// Cash is never archived; priced holdings are.
	assert.Equal(t, 100.0, archive.recorded["VWCE"])
	assert.Equal(t, 29.0, archive.recorded["AGGH"])
	_, ok := archive.recorded["CASH"]
	assert.False(t, ok)
}

func TestValuationJob_RefreshFailureStillSnapshots(t *testing.T) {
	holdings := &fakeHoldings{
		byUser: map[int64][]domain.Investment{
			1: {{Symbol: "VWCE", AssetType: domain.AssetETF, CostBasis: 900, CurrentValue: 1000, LastPrice: 100}},
		},
		refreshErr: errors.New("quote API down"),
	}
	snapshots := &fakeSnapshots{users: []int64{1}}

	job := NewValuationJob(holdings, snapshots, &fakeArchive{}, events.NewManager(10, zerolog.Nop()), zerolog.Nop())
	require.NoError(t, job.Run())

	// Stale values still get snapshotted.
	require.Len(t, snapshots.rows, 1)
	assert.Equal(t, 1000.0, snapshots.rows[0].value)
}

func TestValuationJob_NoUsers(t *testing.T) {
	job := NewValuationJob(&fakeHoldings{}, &fakeSnapshots{}, &fakeArchive{}, events.NewManager(10, zerolog.Nop()), zerolog.Nop())
	require.NoError(t, job.Run())
}

func TestValuationJob_FailedUserRecordsError(t *testing.T) {
	holdings := &fakeHoldings{byUser: map[int64][]domain.Investment{
		1: {{Symbol: "VWCE", AssetType: domain.AssetETF, CostBasis: 900, CurrentValue: 1000, LastPrice: 100}},
	}}
	snapshots := &fakeSnapshots{users: []int64{1}, upsert: errors.New("disk full")}
	eventBus := events.NewManager(10, zerolog.Nop())

	job := NewValuationJob(holdings, snapshots, &fakeArchive{}, eventBus, zerolog.Nop())
	require.NoError(t, job.Run())

	recent := eventBus.Recent()
	require.Len(t, recent, 2)
	// The summary event still fires; the per-user failure lands on the
	// feed ahead of it.
	assert.Equal(t, events.SnapshotWritten, recent[0].Type)
	assert.Equal(t, events.ErrorOccurred, recent[1].Type)
	assert.Equal(t, "disk full", recent[1].Data["error"])
	assert.Equal(t, int64(1), recent[1].Data["user_id"])
}
