package usecase

import (
	"time"

	"ai-task-assistant/internal/reminder"
	"ai-task-assistant/internal/task/repository"
	"ai-task-assistant/pkg/datemath"
	pkgLog "ai-task-assistant/pkg/log"
	"ai-task-assistant/pkg/openai"
)

type implUseCase struct {
	l               pkgLog.Logger
	llm             *openai.Client
	repo            repository.RecordRepository
	reminders       *reminder.Scheduler
	dateMath        *datemath.Parser
	defaultClients  []string
	defaultProjects []string
	csvPath         string

	now func() time.Time
}

// New creates a new task UseCase instance. reminders may be nil when no
// reminder delivery is configured.
func New(
	l pkgLog.Logger,
	llm *openai.Client,
	repo repository.RecordRepository,
	reminders *reminder.Scheduler,
	dateMath *datemath.Parser,
	defaultClients []string,
	defaultProjects []string,
	csvPath string,
) *implUseCase {
	return &implUseCase{
		l:               l,
		llm:             llm,
		repo:            repo,
		reminders:       reminders,
		dateMath:        dateMath,
		defaultClients:  defaultClients,
		defaultProjects: defaultProjects,
		csvPath:         csvPath,
		now:             time.Now,
	}
}

// SetNowFunc overrides the clock for testing purposes.
func (uc *implUseCase) SetNowFunc(now func() time.Time) {
	uc.now = now
}
