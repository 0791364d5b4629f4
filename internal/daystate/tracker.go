package daystate

import (
	"context"

	"go.uber.org/zap"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/clock"
)

// Tracker compares freshly computed day stamps against the stored ones.
// Concurrent observers may both see a change; regeneration is idempotent so
// the duplicate is harmless.
type Tracker struct {
	store  Store
	logger *zap.SugaredLogger
}

func NewTracker(store Store, logger *zap.SugaredLogger) *Tracker {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Tracker{store: store, logger: logger}
}

// Changed reports whether the day or zone moved since the last committed
// stamp for userID. A user with no committed stamp counts as changed.
// Nothing is written; call Commit once the new day is in place.
func (t *Tracker) Changed(ctx context.Context, userID int64, now clock.DayStamp) (bool, error) {
	last, ok, err := t.store.Load(ctx, userID)
	if err != nil {
		return false, err
	}
	return !ok || now.Changed(last), nil
}

// Commit records now as the stamp the user's stored plan belongs to.
func (t *Tracker) Commit(ctx context.Context, userID int64, now clock.DayStamp) error {
	last, ok, err := t.store.Load(ctx, userID)
	if err != nil {
		return err
	}
	if ok && !now.Changed(last) {
		return nil
	}
	if err := t.store.Save(ctx, userID, now); err != nil {
		return err
	}
	if ok {
		t.logger.Infow("local day changed",
			"user_id", userID,
			"from_day", last.Key, "to_day", now.Key,
			"from_zone", last.Zone, "to_zone", now.Zone)
	}
	return nil
}
