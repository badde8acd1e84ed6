package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
	"github.com/wealthlens/wealthlens/internal/events"
	"github.com/wealthlens/wealthlens/internal/modules/investments"
)

// HoldingRefresher re-quotes a user's holdings and lists them
type HoldingRefresher interface {
	RefreshPrices(ctx context.Context, userID int64) (investments.RefreshResult, error)
	ListByUser(userID int64) ([]domain.Investment, error)
}

// SnapshotWriter persists the daily valuation per user
type SnapshotWriter interface {
	UserIDs() ([]int64, error)
	Upsert(userID int64, date time.Time, totalValue, totalInvested float64) error
}

// PriceArchiver records closing prices in the quote archive
type PriceArchiver interface {
	Record(symbol, date string, close float64) error
}

// ValuationJob is the daily snapshot run: refresh quotes for every user
// with holdings, archive the closes, and write one portfolio_history row
// per user for today. A failure for one user is logged and the run
// continues with the rest.
type ValuationJob struct {
	holdings  HoldingRefresher
	snapshots SnapshotWriter
	archive   PriceArchiver
	events    *events.Manager
	log       zerolog.Logger
}

// NewValuationJob creates the daily valuation job
func NewValuationJob(holdings HoldingRefresher, snapshots SnapshotWriter, archive PriceArchiver,
	eventBus *events.Manager, log zerolog.Logger) *ValuationJob {
	return &ValuationJob{
		holdings:  holdings,
		snapshots: snapshots,
		archive:   archive,
		events:    eventBus,
		log:       log.With().Str("job", "daily_valuation").Logger(),
	}
}

// Name implements scheduler.Job
func (j *ValuationJob) Name() string {
	return "daily_valuation"
}

// Run implements scheduler.Job
func (j *ValuationJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	userIDs, err := j.snapshots.UserIDs()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	succeeded := 0

	for _, userID := range userIDs {
		if err := j.valuate(ctx, userID, now, today); err != nil {
			j.log.Error().Err(err).Int64("user_id", userID).Msg("Valuation failed for user")
			j.events.EmitError("jobs", err, map[string]interface{}{"user_id": userID})
			continue
		}
		succeeded++
	}

	j.log.Info().Int("users", len(userIDs)).Int("succeeded", succeeded).Msg("Daily valuation complete")

	j.events.Emit(events.SnapshotWritten, "jobs", map[string]interface{}{
		"date":      today,
		"users":     len(userIDs),
		"succeeded": succeeded,
	})

	return nil
}

func (j *ValuationJob) valuate(ctx context.Context, userID int64, now time.Time, today string) error {
	if _, err := j.holdings.RefreshPrices(ctx, userID); err != nil {
		// Stale quotes still produce a snapshot; only log the refresh miss.
		j.log.Warn().Err(err).Int64("user_id", userID).Msg("Price refresh failed, snapshotting stale values")
	}

	holdings, err := j.holdings.ListByUser(userID)
	if err != nil {
		return err
	}

	for _, inv := range holdings {
		if inv.AssetType == domain.AssetCash || inv.LastPrice <= 0 {
			continue
		}
		if err := j.archive.Record(inv.Symbol, today, inv.LastPrice); err != nil {
			j.log.Warn().Err(err).Str("symbol", inv.Symbol).Msg("Failed to archive close")
		}
	}

	summary := investments.Summarize(holdings)

	return j.snapshots.Upsert(userID, now, summary.TotalValue, summary.TotalInvested)
}
