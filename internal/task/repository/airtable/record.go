package airtable

import (
	"context"
	"fmt"
	"time"

	"ai-task-assistant/internal/model"
	"ai-task-assistant/internal/task"
	"ai-task-assistant/internal/task/repository"
	pkgLog "ai-task-assistant/pkg/log"
)

// Airtable column names for task records.
const (
	fieldTask          = "Task"
	fieldClient        = "Client"
	fieldProject       = "Project"
	fieldEstMinutes    = "Est. Minutes"
	fieldTimerCategory = "Timer Category"
	fieldEarlyBonus    = "Early Bonus"
	fieldPenalty       = "Penalty"
	fieldActualMinutes = "Actual Minutes"
	fieldDueDate       = "DueDate"
	fieldDone          = "Done"
)

// allowedFields is the write allow-list. Any other key present in an update
// is dropped before it reaches the backend, keeping the table schema clean.
var allowedFields = map[string]bool{
	fieldTask:          true,
	fieldClient:        true,
	fieldProject:       true,
	fieldEstMinutes:    true,
	fieldTimerCategory: true,
	fieldEarlyBonus:    true,
	fieldPenalty:       true,
	fieldActualMinutes: true,
	fieldDueDate:       true,
	fieldDone:          true,
}

type implRepository struct {
	client   *Client
	location *time.Location
	l        pkgLog.Logger
}

// New creates a new Airtable-backed record repository.
func New(client *Client, location *time.Location, l pkgLog.Logger) repository.RecordRepository {
	return &implRepository{
		client:   client,
		location: location,
		l:        l,
	}
}

func (r *implRepository) Create(ctx context.Context, rec model.TaskRecord) (model.TaskRecord, error) {
	created, err := r.client.CreateRecord(ctx, r.taskToFields(rec))
	if err != nil {
		r.l.Errorf(ctx, "airtable repository: failed to create record: %v", err)
		return model.TaskRecord{}, fmt.Errorf("%w: %v", task.ErrStore, err)
	}
	return r.recordToTask(created), nil
}

func (r *implRepository) List(ctx context.Context, opt repository.ListOptions) ([]model.TaskRecord, error) {
	records, err := r.client.ListRecords(ctx, opt.Formula, opt.Fields, opt.MaxRecords)
	if err != nil {
		r.l.Errorf(ctx, "airtable repository: failed to list records: %v", err)
		return nil, fmt.Errorf("%w: %v", task.ErrStore, err)
	}

	tasks := make([]model.TaskRecord, 0, len(records))
	for i := range records {
		tasks = append(tasks, r.recordToTask(&records[i]))
	}
	return tasks, nil
}

func (r *implRepository) Update(ctx context.Context, id string, fields map[string]any) (model.TaskRecord, error) {
	clean := make(map[string]any, len(fields))
	for k, v := range fields {
		if allowedFields[k] {
			clean[k] = v
		}
	}

	updated, err := r.client.UpdateRecord(ctx, id, clean)
	if err != nil {
		r.l.Errorf(ctx, "airtable repository: failed to update record %s: %v", id, err)
		return model.TaskRecord{}, fmt.Errorf("%w: %v", task.ErrStore, err)
	}
	return r.recordToTask(updated), nil
}

func (r *implRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.DeleteRecord(ctx, id); err != nil {
		r.l.Errorf(ctx, "airtable repository: failed to delete record %s: %v", id, err)
		return fmt.Errorf("%w: %v", task.ErrStore, err)
	}
	return nil
}

// taskToFields maps a record to allow-listed backend columns, omitting unset
// optional values.
func (r *implRepository) taskToFields(rec model.TaskRecord) map[string]any {
	fields := map[string]any{
		fieldTask:          rec.Task,
		fieldClient:        rec.Client,
		fieldProject:       rec.Project,
		fieldEstMinutes:    rec.EstimatedMinutes,
		fieldTimerCategory: rec.TimerCategory,
		fieldEarlyBonus:    rec.EarlyBonus,
		fieldPenalty:       rec.Penalty,
		fieldDone:          rec.Done,
	}
	if rec.ActualMinutes != nil {
		fields[fieldActualMinutes] = *rec.ActualMinutes
	}
	if rec.DueDate != nil {
		fields[fieldDueDate] = rec.DueDate.Format("2006-01-02")
	}
	return fields
}

// recordToTask converts an Airtable record to the internal model.
func (r *implRepository) recordToTask(rec *Record) model.TaskRecord {
	t := model.TaskRecord{
		ID:               rec.ID,
		Task:             stringField(rec.Fields, fieldTask),
		Client:           stringField(rec.Fields, fieldClient),
		Project:          stringField(rec.Fields, fieldProject),
		EstimatedMinutes: int(numberField(rec.Fields, fieldEstMinutes)),
		TimerCategory:    stringField(rec.Fields, fieldTimerCategory),
		EarlyBonus:       numberField(rec.Fields, fieldEarlyBonus),
		Penalty:          numberField(rec.Fields, fieldPenalty),
	}

	if v, ok := rec.Fields[fieldDone].(bool); ok {
		t.Done = v
	}
	if v, ok := rec.Fields[fieldActualMinutes].(float64); ok {
		t.ActualMinutes = &v
	}
	if raw := stringField(rec.Fields, fieldDueDate); raw != "" {
		// Airtable date fields may carry a time component depending on the
		// column configuration; keep only the date.
		if len(raw) > 10 {
			raw = raw[:10]
		}
		if due, err := time.ParseInLocation("2006-01-02", raw, r.location); err == nil {
			t.DueDate = &due
		}
	}

	return t
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func numberField(fields map[string]any, key string) float64 {
	if v, ok := fields[key].(float64); ok {
		return v
	}
	return 0
}
