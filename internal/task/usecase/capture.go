package usecase

import (
	"context"
	"strings"

	"ai-task-assistant/internal/model"
	"ai-task-assistant/internal/task"
)

// priorityWeights maps the /add priority flag onto the gamification pair.
var priorityWeights = map[string]float64{
	"high":   2,
	"medium": 1,
	"low":    0,
}

// Capture parses raw text into task records, persists them, and schedules
// reminders for each created record.
//
// Persistence is fail-fast without rollback: a store failure aborts the
// remainder of the batch, but records created before the failure stay.
func (uc *implUseCase) Capture(ctx context.Context, sc model.Scope, input task.CaptureInput) (task.CaptureOutput, error) {
	if strings.TrimSpace(input.RawText) == "" {
		return task.CaptureOutput{}, task.ErrEmptyInput
	}

	clients := input.Clients
	if len(clients) == 0 {
		clients = uc.defaultClients
	}
	projects := input.Projects
	if len(projects) == 0 {
		projects = uc.defaultProjects
	}

	uc.l.Infof(ctx, "Capture: user=%s input_length=%d", sc.UserID, len(input.RawText))

	records, err := uc.extract(ctx, input.RawText, clients, projects, input.DueOverride)
	if err != nil {
		return task.CaptureOutput{}, err
	}
	if len(records) == 0 {
		return task.CaptureOutput{}, task.ErrNoTasksParsed
	}

	uc.l.Infof(ctx, "Capture: extracted %d records", len(records))

	created := make([]model.TaskRecord, 0, len(records))
	for _, rec := range records {
		if w, ok := priorityWeights[strings.ToLower(input.Priority)]; ok {
			rec.EarlyBonus = w
			rec.Penalty = w
		}

		persisted, createErr := uc.repo.Create(ctx, rec)
		if createErr != nil {
			uc.l.Errorf(ctx, "Capture: create failed for %q after %d records: %v", rec.Task, len(created), createErr)
			return task.CaptureOutput{Tasks: created, TaskCount: len(created)}, createErr
		}

		if uc.reminders != nil {
			uc.reminders.ScheduleTask(persisted)
		}
		created = append(created, persisted)
	}

	return task.CaptureOutput{Tasks: created, TaskCount: len(created)}, nil
}
