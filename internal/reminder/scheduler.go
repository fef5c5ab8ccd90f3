package reminder

import (
	"context"
	"fmt"
	"time"

	"ai-task-assistant/internal/model"
	pkgLog "ai-task-assistant/pkg/log"
)

// Entry is one pending notification.
type Entry struct {
	FireAt  time.Time
	Message string
}

// SendFunc delivers a reminder message to the user.
type SendFunc func(msg string)

// Scheduler computes and registers one-shot reminders for created tasks.
//
// Reminders live only in process memory: a restart loses everything pending.
// Past-instant policy: an instant earlier today clamps to fire immediately
// (a task captured after 09:00 still gets its "due today" ping), while an
// instant on a previous day is dropped as stale noise.
// Entries reference the task by description text, not id; a reminder firing
// after the task was deleted simply sends a stale message.
type Scheduler struct {
	l            pkgLog.Logger
	location     *time.Location
	nudgeDelay   time.Duration
	reminderHour int
	send         SendFunc

	// injection points for tests
	after func(d time.Duration, f func())
	now   func() time.Time
}

// New creates a reminder scheduler. nudgeDelay is the fixed offset for the
// creation-time nudge; reminderHour is the local hour for due-date reminders.
func New(l pkgLog.Logger, location *time.Location, nudgeDelay time.Duration, reminderHour int, send SendFunc) *Scheduler {
	return &Scheduler{
		l:            l,
		location:     location,
		nudgeDelay:   nudgeDelay,
		reminderHour: reminderHour,
		send:         send,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		now: time.Now,
	}
}

// SetAfterFunc overrides the delayed-execution facility for testing purposes.
func (s *Scheduler) SetAfterFunc(after func(d time.Duration, f func())) {
	s.after = after
}

// SetNowFunc overrides the clock for testing purposes.
func (s *Scheduler) SetNowFunc(now func() time.Time) {
	s.now = now
}

// ScheduleTask registers all reminders for a created task and returns the
// planned entries.
func (s *Scheduler) ScheduleTask(rec model.TaskRecord) []Entry {
	now := s.now().In(s.location)
	entries := s.planEntries(rec, now)

	for _, e := range entries {
		delay := e.FireAt.Sub(now)
		if delay < 0 {
			delay = 0
		}
		msg := e.Message
		s.after(delay, func() {
			s.send(msg)
		})
	}

	s.l.Infof(context.Background(), "reminder: scheduled %d entries for task %q", len(entries), rec.Task)
	return entries
}

// planEntries computes the reminder set: one nudge always, plus the due-date
// ladder when a due date is present.
func (s *Scheduler) planEntries(rec model.TaskRecord, now time.Time) []Entry {
	entries := []Entry{
		{
			FireAt:  now.Add(s.nudgeDelay),
			Message: fmt.Sprintf("⏰ Nudge: %s", rec.Task),
		},
	}

	if rec.DueDate == nil {
		return entries
	}

	due := rec.DueDate.In(s.location)
	at := func(daysBefore int) time.Time {
		d := due.AddDate(0, 0, -daysBefore)
		return time.Date(d.Year(), d.Month(), d.Day(), s.reminderHour, 0, 0, 0, s.location)
	}

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)

	ladder := []Entry{
		{FireAt: at(2), Message: fmt.Sprintf("🗓 %s is due in 2 days", rec.Task)},
		{FireAt: at(1), Message: fmt.Sprintf("🗓 %s is due tomorrow", rec.Task)},
		{FireAt: at(0), Message: fmt.Sprintf("🔥 %s is due today", rec.Task)},
	}
	for _, e := range ladder {
		if e.FireAt.Before(startOfToday) {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}
