// Package reminders fires notifications as reminder deadlines approach.
//
// Thresholds are exact matches on whole days or whole hours until the
// deadline, so a tick that lands outside a threshold's window misses it.
// Each (reminder, threshold, deadline) fires at most once per process: a
// bounded expiring cache remembers what was sent, so repeated ticks inside
// the same window stay quiet. The cache is not persisted.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/julianstephens/taskmaster/internal/clock"
	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/logger"
	"github.com/julianstephens/taskmaster/internal/models"
	"github.com/julianstephens/taskmaster/internal/notifier"
	"github.com/julianstephens/taskmaster/internal/taskstore"
)

type Threshold string

const (
	ThresholdWeek          Threshold = "1w"
	ThresholdThreeDays     Threshold = "3d"
	ThresholdEighteenHours Threshold = "18h"
	ThresholdNow           Threshold = "0h"
)

// Notice is one threshold notification.
type Notice struct {
	ReminderID string
	Threshold  Threshold
	Title      string
	Body       string
}

// Check returns the threshold r hits at now, if any.
func Check(r models.Reminder, now time.Time) (Threshold, bool) {
	deadline := r.Deadline(now.Location())
	if deadline.Equal(models.Epoch) {
		return "", false
	}

	hoursUntil := clock.HoursBetween(deadline, now)
	daysUntil := clock.DaysBetween(deadline, now)

	switch {
	case daysUntil == 7:
		return ThresholdWeek, true
	case daysUntil == 3:
		return ThresholdThreeDays, true
	case hoursUntil == 18:
		return ThresholdEighteenHours, true
	case hoursUntil == 0:
		return ThresholdNow, true
	}
	return "", false
}

// Message renders the notification for threshold th.
func Message(r models.Reminder, th Threshold) (title, body string) {
	switch th {
	case ThresholdWeek:
		return constants.TitleUpcomingReminder, fmt.Sprintf(constants.BodyDueInWeek, r.Title)
	case ThresholdThreeDays:
		return constants.TitleUpcomingReminder, fmt.Sprintf(constants.BodyDueInThreeDays, r.Title)
	case ThresholdEighteenHours:
		return constants.TitleUpcomingReminder, fmt.Sprintf(constants.BodyDueIn18Hours, r.Title)
	default:
		return constants.TitleReminderDue, fmt.Sprintf(constants.BodyDueNow, r.Title)
	}
}

type Scheduler struct {
	store    *taskstore.Store
	clock    clock.Clock
	notifier notifier.Notifier
	sent     *expirable.LRU[string, struct{}]
}

func New(store *taskstore.Store, clk clock.Clock, n notifier.Notifier) *Scheduler {
	return &Scheduler{
		store:    store,
		clock:    clk,
		notifier: n,
		sent:     expirable.NewLRU[string, struct{}](constants.NotifySuppressionSize, nil, constants.NotifySuppressionTTL),
	}
}

func suppressionKey(r models.Reminder, th Threshold, loc *time.Location) string {
	return fmt.Sprintf("%s|%s|%d", r.ID, th, r.Deadline(loc).Unix())
}

// Evaluate checks every reminder against one snapshot and delivers the
// notifications that are due. It returns the notices that were delivered.
func (s *Scheduler) Evaluate(ctx context.Context) []Notice {
	now := s.clock.Now()
	reminders := s.store.Snapshot().Reminders

	var fired []Notice
	for _, r := range reminders {
		th, ok := Check(r, now)
		if !ok {
			continue
		}

		key := suppressionKey(r, th, now.Location())
		if s.sent.Contains(key) {
			continue
		}

		title, body := Message(r, th)
		if err := s.notifier.Deliver(ctx, title, body); err != nil {
			logDeliveryError(err, "reminder", r.ID, "threshold", th)
			continue
		}
		s.sent.Add(key, struct{}{})
		fired = append(fired, Notice{ReminderID: r.ID, Threshold: th, Title: title, Body: body})
		logger.Debug("Reminder notification sent", "reminder", r.ID, "threshold", th)
	}
	return fired
}

// Announce sends the "Reminder Set" confirmation for a newly created reminder.
func (s *Scheduler) Announce(ctx context.Context, r models.Reminder) error {
	loc := s.clock.Now().Location()
	day := r.Date.In(loc).Format(constants.DisplayDateFormat)
	body := fmt.Sprintf(constants.BodyReminderSet, r.Title, day, r.Time)

	if err := s.notifier.Deliver(ctx, constants.TitleReminderSet, body); err != nil {
		logDeliveryError(err, "reminder", r.ID)
		return err
	}
	return nil
}

func logDeliveryError(err error, keyvals ...interface{}) {
	keyvals = append(keyvals, "error", err)
	if errors.Is(err, notifier.ErrPermissionDenied) {
		logger.Debug("Notification suppressed", keyvals...)
		return
	}
	logger.Warn("Notification delivery failed", keyvals...)
}
