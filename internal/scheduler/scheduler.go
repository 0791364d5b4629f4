package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/clock"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/lifecycle"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/planner"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/rrule"
)

type ConfigStore interface {
	ListEnabled(ctx context.Context) ([]*models.ScheduleConfig, error)
}

type ReminderStore interface {
	ReplaceDay(ctx context.Context, userID int64, dayKey string, plan []models.ScheduledReminder) ([]*models.Reminder, error)
	GetOpen(ctx context.Context, until time.Time) ([]*models.Reminder, error)
	UpdateStatus(ctx context.Context, r *models.Reminder) error
	SetNotified(ctx context.Context, reminderID string, at time.Time, messageID *int) error
}

// DayTracker remembers which local day each user's stored plan belongs to.
type DayTracker interface {
	Changed(ctx context.Context, userID int64, stamp clock.DayStamp) (bool, error)
	Commit(ctx context.Context, userID int64, stamp clock.DayStamp) error
}

// Notifier delivers reminders and plan failures to the user.
type Notifier interface {
	SendReminder(ctx context.Context, r *models.Reminder, cfg models.ScheduleConfig, now time.Time) (messageID int, err error)
	SendPlanFailure(ctx context.Context, userID int64) error
}

// DayChangeListener is told when a user's local day or zone moved, after the
// new plan was stored. Cached per-day summaries should be dropped.
type DayChangeListener func(userID int64, stamp clock.DayStamp)

type Options struct {
	CheckInterval    time.Duration
	FallbackInterval time.Duration
	StartupDelay     time.Duration
	Now              func() time.Time
	Logger           *zap.SugaredLogger
}

type Scheduler struct {
	configs   ConfigStore
	reminders ReminderStore
	tracker   DayTracker
	notifier  Notifier
	listeners []DayChangeListener

	checkInterval    time.Duration
	fallbackInterval time.Duration
	startupDelay     time.Duration
	now              func() time.Time
	logger           *zap.SugaredLogger

	notifyCh chan struct{}
	midnight *time.Timer

	mu       sync.Mutex
	rebuilds map[int64]bool
	reported map[int64]string
}

func New(configs ConfigStore, reminders ReminderStore, tracker DayTracker, notifier Notifier, opts Options) *Scheduler {
	s := &Scheduler{
		configs:          configs,
		reminders:        reminders,
		tracker:          tracker,
		notifier:         notifier,
		checkInterval:    opts.CheckInterval,
		fallbackInterval: opts.FallbackInterval,
		startupDelay:     opts.StartupDelay,
		now:              opts.Now,
		logger:           opts.Logger,
		notifyCh:         make(chan struct{}, 1),
		rebuilds:         make(map[int64]bool),
		reported:         make(map[int64]string),
	}
	if s.checkInterval <= 0 {
		s.checkInterval = time.Minute
	}
	if s.fallbackInterval <= 0 {
		s.fallbackInterval = 5 * time.Minute
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	return s
}

// OnDayChange registers a listener. Call before Start.
func (s *Scheduler) OnDayChange(l DayChangeListener) {
	s.listeners = append(s.listeners, l)
}

// Notify triggers an immediate rollover check and sweep. Non-blocking if one
// is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Rebuild regenerates userID's plan for the current day on the next pass,
// even when the day has not changed. Call it after the user's settings
// change.
func (s *Scheduler) Rebuild(userID int64) {
	s.mu.Lock()
	s.rebuilds[userID] = true
	s.mu.Unlock()
	s.Notify()
}

func (s *Scheduler) takeRebuild(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	forced := s.rebuilds[userID]
	delete(s.rebuilds, userID)
	return forced
}

// Start runs the loop until ctx is cancelled. Exactly one midnight timer is
// outstanding at any time; the fallback ticker recovers from a missed or
// drifted timer.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Scheduler started")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()
	fallback := time.NewTicker(s.fallbackInterval)
	defer fallback.Stop()

	s.midnight = time.NewTimer(clock.FallbackRecheck)
	defer s.midnight.Stop()

	if s.startupDelay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.startupDelay):
		}
	}

	s.rollover(ctx)
	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.midnight.C:
			s.logger.Debug("Midnight check fired")
			s.rollover(ctx)
			s.check(ctx)
		case <-fallback.C:
			s.rollover(ctx)
		case <-s.notifyCh:
			s.logger.Debug("Scheduler triggered by notification")
			s.rollover(ctx)
			s.check(ctx)
		}
	}
}

// armMidnight re-arms the single midnight timer. Reset on an active or
// fired timer replaces the pending expiry, so no second timer exists.
func (s *Scheduler) armMidnight(d time.Duration) {
	if s.midnight == nil {
		return
	}
	s.midnight.Reset(d)
}

// rollover looks at every enabled user's local day, regenerates plans whose
// day or zone changed or that were asked to be rebuilt, and re-arms the
// midnight timer for the earliest next local midnight. A user's day stamp is
// only committed once the new plan is stored, so failures are retried on the
// next pass.
func (s *Scheduler) rollover(ctx context.Context) time.Duration {
	next := clock.FallbackRecheck

	configs, err := s.configs.ListEnabled(ctx)
	if err != nil {
		s.logger.Errorw("Failed to list schedule configs", "error", err)
		s.armMidnight(next)
		return next
	}

	first := true
	for _, cfg := range configs {
		c := clock.ForZone(cfg.Timezone, s.now, s.logger)
		stamp := c.Stamp()

		forced := s.takeRebuild(cfg.UserID)
		changed, err := s.tracker.Changed(ctx, cfg.UserID, stamp)
		if err != nil {
			s.logger.Errorw("Failed to read day stamp", "user_id", cfg.UserID, "error", err)
		}
		if (changed || forced) && !s.regenerate(ctx, cfg, c.Now(), stamp) && forced {
			s.mu.Lock()
			s.rebuilds[cfg.UserID] = true
			s.mu.Unlock()
		}

		// A second past midnight so the new day key is already current.
		until := c.UntilNextMidnight() + time.Second
		if first || until < next {
			next = until
			first = false
		}
	}

	s.armMidnight(next)
	return next
}

// regenerate builds and stores the plan for stamp's day and commits the
// stamp. It reports whether the plan is in place.
func (s *Scheduler) regenerate(ctx context.Context, cfg *models.ScheduleConfig, now time.Time, stamp clock.DayStamp) bool {
	plan, err := planner.BuildDayPlan(*cfg, now)
	if err != nil {
		s.logger.Warnw("Failed to build day plan", "user_id", cfg.UserID, "day", stamp.Key, "error", err)
		s.reportPlanFailure(ctx, cfg.UserID, stamp.Key)
		return false
	}

	stored, err := s.reminders.ReplaceDay(ctx, cfg.UserID, plan.DayKey, plan.Reminders)
	if err != nil {
		s.logger.Errorw("Failed to store day plan", "user_id", cfg.UserID, "day", plan.DayKey, "error", err)
		return false
	}
	if err := s.tracker.Commit(ctx, cfg.UserID, stamp); err != nil {
		s.logger.Errorw("Failed to commit day stamp", "user_id", cfg.UserID, "day", stamp.Key, "error", err)
	}

	s.mu.Lock()
	delete(s.reported, cfg.UserID)
	s.mu.Unlock()

	waterRule := plan.WaterRule()
	if _, err := rrule.Parse(waterRule, now); err != nil {
		s.logger.Warnw("Water rule does not parse", "user_id", cfg.UserID, "rule", waterRule, "error", err)
	}
	s.logger.Infow("Generated day plan",
		"user_id", cfg.UserID, "day", plan.DayKey, "zone", stamp.Zone,
		"planned", len(plan.Reminders), "stored", len(stored), "water_rule", waterRule)

	for _, l := range s.listeners {
		l(cfg.UserID, stamp)
	}
	return true
}

// reportPlanFailure tells the user once per local day that no plan could be
// built.
func (s *Scheduler) reportPlanFailure(ctx context.Context, userID int64, dayKey string) {
	s.mu.Lock()
	if s.reported[userID] == dayKey {
		s.mu.Unlock()
		return
	}
	s.reported[userID] = dayKey
	s.mu.Unlock()

	if err := s.notifier.SendPlanFailure(ctx, userID); err != nil {
		s.logger.Errorw("Failed to report plan failure", "user_id", userID, "error", err)
		s.mu.Lock()
		delete(s.reported, userID)
		s.mu.Unlock()
	}
}

// check marks overdue reminders missed and delivers the ones that are due.
func (s *Scheduler) check(ctx context.Context) {
	now := s.now()

	configs, err := s.configs.ListEnabled(ctx)
	if err != nil {
		s.logger.Errorw("Failed to list schedule configs", "error", err)
		return
	}
	byUser := make(map[int64]*models.ScheduleConfig, len(configs))
	for _, cfg := range configs {
		byUser[cfg.UserID] = cfg
	}

	open, err := s.reminders.GetOpen(ctx, now)
	if err != nil {
		s.logger.Errorw("Failed to get open reminders", "error", err)
		return
	}

	for _, r := range open {
		cfg, ok := byUser[r.UserID]
		if !ok {
			continue
		}
		resolved := cfg.WithDefaults()
		grace := time.Duration(resolved.MissedGraceMinutes) * time.Minute

		if lifecycle.ShouldMiss(r, now, grace) {
			s.markMissed(ctx, r, now, grace)
			continue
		}
		if s.isDue(r, now) {
			s.deliver(ctx, r, resolved, now)
		}
	}
}

func (s *Scheduler) markMissed(ctx context.Context, r *models.Reminder, now time.Time, grace time.Duration) {
	if err := lifecycle.Miss(r, now, grace); err != nil {
		s.logger.Warnw("Failed to mark reminder missed", "reminder_id", r.ID, "error", err)
		return
	}
	if err := s.reminders.UpdateStatus(ctx, r); err != nil {
		s.logger.Errorw("Failed to store missed reminder", "reminder_id", r.ID, "error", err)
		return
	}
	s.logger.Infow("Reminder missed", "reminder_id", r.ID, "user_id", r.UserID, "scheduled", r.ScheduledTime)
}

// isDue is true when the target has passed and the user has not been told
// about this target yet.
func (s *Scheduler) isDue(r *models.Reminder, now time.Time) bool {
	target, err := lifecycle.Target(r, now)
	if err != nil {
		s.logger.Warnw("Unresolvable reminder time", "reminder_id", r.ID, "error", err)
		return false
	}
	if now.Before(target) {
		return false
	}
	return r.NotifiedAt == nil || r.NotifiedAt.Before(target)
}

func (s *Scheduler) deliver(ctx context.Context, r *models.Reminder, cfg models.ScheduleConfig, now time.Time) {
	msgID, err := s.notifier.SendReminder(ctx, r, cfg, now)
	if err != nil {
		s.logger.Errorw("Failed to send reminder", "reminder_id", r.ID, "user_id", r.UserID, "error", err)
		return
	}
	if err := s.reminders.SetNotified(ctx, r.ID, now, &msgID); err != nil {
		s.logger.Errorw("Failed to record notification", "reminder_id", r.ID, "error", err)
		return
	}
	r.NotifiedAt = &now
	r.LastMessageID = &msgID
	s.logger.Infow("Sent reminder", "reminder_id", r.ID, "user_id", r.UserID, "msg_id", msgID)
}
