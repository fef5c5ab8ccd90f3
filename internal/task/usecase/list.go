package usecase

import (
	"context"

	"ai-task-assistant/internal/model"
	"ai-task-assistant/internal/task"
	"ai-task-assistant/internal/task/repository"
)

// ListWeek renders the weekly digest of open tasks, grouped by client.
func (uc *implUseCase) ListWeek(ctx context.Context, sc model.Scope) (task.DigestOutput, error) {
	records, err := uc.repo.List(ctx, repository.ListOptions{
		Formula: repository.OpenFormula(),
	})
	if err != nil {
		return task.DigestOutput{}, err
	}

	msg, count := composeWeekly(records, uc.now().In(uc.dateMath.Location()))
	return task.DigestOutput{Message: msg, Count: count}, nil
}

// ListToday renders open tasks due on the current date.
func (uc *implUseCase) ListToday(ctx context.Context, sc model.Scope) (task.DigestOutput, error) {
	now := uc.now().In(uc.dateMath.Location())

	records, err := uc.repo.List(ctx, repository.ListOptions{
		Formula: repository.DueOnFormula(now),
	})
	if err != nil {
		return task.DigestOutput{}, err
	}

	msg, count := composeToday(records, now)
	return task.DigestOutput{Message: msg, Count: count}, nil
}

// DailyDigest renders the scheduled morning digest message.
func (uc *implUseCase) DailyDigest(ctx context.Context) (string, error) {
	out, err := uc.ListToday(ctx, model.Scope{UserID: "digest"})
	if err != nil {
		return "", err
	}
	return out.Message, nil
}
