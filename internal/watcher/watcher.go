// Package watcher fires a notification when the configured checkpoint of the
// upcoming shift is reached.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/shiftwake/internal/activeday"
	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/logger"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/notifier"
	"github.com/julianstephens/shiftwake/internal/storage"
	"github.com/julianstephens/shiftwake/internal/timeline"
	"github.com/julianstephens/shiftwake/internal/utils"
)

// Due is a checkpoint whose time has been reached.
type Due struct {
	Day        string // YYYY-MM-DD of the shift
	Checkpoint models.CheckpointKey
	Shift      models.Shift
	Time       string
	At         time.Time
}

// Message is the notification text for the checkpoint.
func (d Due) Message() string {
	return fmt.Sprintf("%s %s (%s starts %s)", d.Checkpoint.Label(), d.Time, d.Shift.Name, d.Shift.StartTime)
}

// Watcher checks the timeline once a minute and notifies at most once per
// day and checkpoint.
type Watcher struct {
	store  storage.Provider
	calc   *timeline.Calculator
	sender notifier.Sender
	now    func() time.Time

	cron   *cron.Cron
	runCtx context.Context
	cancel context.CancelFunc
}

func New(store storage.Provider, calc *timeline.Calculator, sender notifier.Sender) *Watcher {
	return &Watcher{store: store, calc: calc, sender: sender, now: time.Now}
}

// Start schedules the check on spec. An empty spec uses every minute.
func (w *Watcher) Start(ctx context.Context, spec string) error {
	if spec == "" {
		spec = constants.WatchCronSpec
	}
	w.runCtx, w.cancel = context.WithCancel(ctx)

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := w.RunOnce(w.runCtx); err != nil {
			logger.Warn("watcher: check failed", "error", err)
		}
	}); err != nil {
		w.cancel()
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	c.Start()
	w.cron = c
	logger.Info("watcher started", "spec", spec)
	return nil
}

// Stop halts the schedule and waits for a running check to finish.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

// RunOnce performs a single check and sends a notification if a checkpoint is
// due. It returns the checkpoint that fired, if any.
func (w *Watcher) RunOnce(ctx context.Context) (*Due, error) {
	settings, err := w.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		return nil, nil
	}

	due, err := w.Check(settings)
	if err != nil || due == nil {
		return nil, err
	}

	notified, err := w.store.WasNotified(due.Day, string(due.Checkpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to read notification log: %w", err)
	}
	if notified {
		return nil, nil
	}

	if err := w.sender.Notify(ctx, due.Message()); err != nil {
		return nil, fmt.Errorf("failed to send notification: %w", err)
	}
	if err := w.store.RecordNotification(due.Day, string(due.Checkpoint), w.now()); err != nil {
		return nil, fmt.Errorf("failed to record notification: %w", err)
	}
	logger.Info("notification sent", "day", due.Day, "checkpoint", due.Checkpoint, "time", due.Time)
	return due, nil
}

// Check reports the checkpoint that is due now without sending anything.
// Today's and tomorrow's shifts are both considered, since an early shift can
// put tomorrow's alarm before midnight.
func (w *Watcher) Check(settings models.Settings) (*Due, error) {
	key, ok := models.ParseCheckpointKey(settings.NotifyCheckpoint)
	if !ok {
		return nil, fmt.Errorf("unknown checkpoint %q", settings.NotifyCheckpoint)
	}

	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	now := w.now().In(loc)

	prefs, err := w.store.GetPreferences()
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	plan, err := w.store.GetWeekPlan()
	if err != nil {
		return nil, fmt.Errorf("failed to load week plan: %w", err)
	}
	catalog, err := w.store.GetAllShifts()
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}

	for offset := 0; offset <= 1; offset++ {
		sel := activeday.SelectOffset(now, offset, plan)
		shift, ok := activeday.ResolveShift(sel, catalog, w.calc.RestPolicy())
		if !ok {
			continue
		}
		times, err := w.calc.Calculate(shift, prefs, settings.Meal())
		if err != nil {
			return nil, err
		}
		if times.Rest {
			continue
		}

		raw, _ := times.Raw.Get(key)
		at := utils.AtMinutes(sel.Date, raw)
		if now.Before(at) || now.Sub(at) >= constants.WatchFireWindow {
			continue
		}

		value, _ := times.Get(key)
		return &Due{
			Day:        sel.Date.Format(constants.DateFormat),
			Checkpoint: key,
			Shift:      shift,
			Time:       value,
			At:         at,
		}, nil
	}
	return nil, nil
}
