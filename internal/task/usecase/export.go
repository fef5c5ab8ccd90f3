package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"ai-task-assistant/internal/model"
)

// csvColumns fixes the export column order.
var csvColumns = []string{
	"Task", "Client", "Project", "Est. Minutes", "Timer Category",
	"Early Bonus", "Penalty", "Actual Minutes", "DueDate", "Done",
}

// ExportCSV writes the given records to the configured CSV file, one row per
// record, overwriting any previous export.
func (uc *implUseCase) ExportCSV(ctx context.Context, records []model.TaskRecord) (string, error) {
	f, err := os.Create(uc.csvPath)
	if err != nil {
		return "", fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, rec := range records {
		if err := w.Write(csvRow(rec)); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	uc.l.Infof(ctx, "ExportCSV: wrote %d records to %s", len(records), uc.csvPath)
	return uc.csvPath, nil
}

func csvRow(rec model.TaskRecord) []string {
	actual := ""
	if rec.ActualMinutes != nil {
		actual = strconv.FormatFloat(*rec.ActualMinutes, 'f', -1, 64)
	}
	due := ""
	if rec.DueDate != nil {
		due = rec.DueDate.Format("2006-01-02")
	}

	return []string{
		rec.Task,
		rec.Client,
		rec.Project,
		strconv.Itoa(rec.EstimatedMinutes),
		rec.TimerCategory,
		strconv.FormatFloat(rec.EarlyBonus, 'f', -1, 64),
		strconv.FormatFloat(rec.Penalty, 'f', -1, 64),
		actual,
		due,
		strconv.FormatBool(rec.Done),
	}
}
