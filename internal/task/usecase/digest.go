package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ai-task-assistant/internal/model"
)

// weekWindow returns the Monday-start week containing the reference day.
func weekWindow(now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	weekStart := day.AddDate(0, 0, -offset)
	return weekStart, weekStart.AddDate(0, 0, 6)
}

// composeWeekly renders open tasks due in the current week, grouped by client
// and sorted by due date within each group. Undated tasks never appear in
// date-bucketed views.
func composeWeekly(records []model.TaskRecord, now time.Time) (string, int) {
	weekStart, weekEnd := weekWindow(now)

	byClient := make(map[string][]model.TaskRecord)
	count := 0
	for _, rec := range records {
		if rec.Done || rec.DueDate == nil {
			continue
		}
		due := *rec.DueDate
		if due.Before(weekStart) || due.After(weekEnd) {
			continue
		}
		byClient[rec.Client] = append(byClient[rec.Client], rec)
		count++
	}

	if count == 0 {
		return "🎉 Nothing due this week!", 0
	}

	clients := make([]string, 0, len(byClient))
	for c := range byClient {
		clients = append(clients, c)
	}
	sort.Strings(clients)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗂 This week (%s – %s)\n",
		weekStart.Format("Jan 02"), weekEnd.Format("Jan 02")))

	for _, client := range clients {
		group := byClient[client]
		sort.Slice(group, func(i, j int) bool {
			return group[i].DueDate.Before(*group[j].DueDate)
		})

		sb.WriteString(fmt.Sprintf("\n*%s*\n", client))
		for _, rec := range group {
			sb.WriteString(fmt.Sprintf("• [%s] %s %s — %s\n",
				shortID(rec.ID), rec.TimerCategory, rec.Task,
				relativeDayLabel(*rec.DueDate, now)))
		}
	}

	return strings.TrimSpace(sb.String()), count
}

// composeToday renders open tasks due on the current date; when nothing is
// due it still produces an explicit message rather than staying silent.
func composeToday(records []model.TaskRecord, now time.Time) (string, int) {
	open := make([]model.TaskRecord, 0, len(records))
	for _, rec := range records {
		if !rec.Done {
			open = append(open, rec)
		}
	}

	if len(open) == 0 {
		return "🎉 Nothing due today!", 0
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🌅 Due today (%s)\n", now.Format("2006-01-02")))
	for _, rec := range open {
		sb.WriteString(fmt.Sprintf("• [%s] %s %s\n", shortID(rec.ID), rec.TimerCategory, rec.Task))
	}
	return strings.TrimSpace(sb.String()), len(open)
}

// relativeDayLabel renders a due date relative to the reference day:
// "today", "tomorrow", "this <Weekday>" for later this week, or the plain
// weekday name.
func relativeDayLabel(due, now time.Time) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch days := int(due.Sub(today).Hours() / 24); {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days > 1 && days < 7:
		return "this " + due.Weekday().String()
	default:
		return due.Weekday().String()
	}
}

// shortID abbreviates a backend record id for display; the full id stays
// usable via prefix matching.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "—"
	}
	return id
}
