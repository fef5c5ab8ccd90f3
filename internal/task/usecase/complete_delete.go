package usecase

import (
	"context"
	"strings"

	"ai-task-assistant/internal/model"
	"ai-task-assistant/internal/task"
	"ai-task-assistant/internal/task/repository"
)

// findByPrefix resolves an id prefix against the backend. The record store is
// read fresh on every lookup; no ids are cached client-side.
func (uc *implUseCase) findByPrefix(ctx context.Context, idPrefix string) (model.TaskRecord, error) {
	idPrefix = strings.TrimSpace(idPrefix)
	if idPrefix == "" {
		return model.TaskRecord{}, task.ErrNotFound
	}

	records, err := uc.repo.List(ctx, repository.ListOptions{})
	if err != nil {
		return model.TaskRecord{}, err
	}

	for _, rec := range records {
		if strings.HasPrefix(rec.ID, idPrefix) {
			return rec, nil
		}
	}
	return model.TaskRecord{}, task.ErrNotFound
}

// Complete marks the task whose id matches the given prefix as done.
func (uc *implUseCase) Complete(ctx context.Context, sc model.Scope, idPrefix string) (model.TaskRecord, error) {
	rec, err := uc.findByPrefix(ctx, idPrefix)
	if err != nil {
		return model.TaskRecord{}, err
	}

	updated, err := uc.repo.Update(ctx, rec.ID, map[string]any{"Done": true})
	if err != nil {
		return model.TaskRecord{}, err
	}

	uc.l.Infof(ctx, "Complete: user=%s task=%q id=%s", sc.UserID, updated.Task, updated.ID)
	return updated, nil
}

// Delete removes the task whose id matches the given prefix. Deletion only
// ever happens through this explicit action.
func (uc *implUseCase) Delete(ctx context.Context, sc model.Scope, idPrefix string) (model.TaskRecord, error) {
	rec, err := uc.findByPrefix(ctx, idPrefix)
	if err != nil {
		return model.TaskRecord{}, err
	}

	if err := uc.repo.Delete(ctx, rec.ID); err != nil {
		return model.TaskRecord{}, err
	}

	uc.l.Infof(ctx, "Delete: user=%s task=%q id=%s", sc.UserID, rec.Task, rec.ID)
	return rec, nil
}
