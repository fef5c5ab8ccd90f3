package usecase

import (
	"context"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"ai-task-assistant/internal/model"
)

func TestExportCSV(t *testing.T) {
	repo := &mockRepo{failAfter: -1}
	uc := newTestUseCase(t, nil, repo)

	actual := 12.5
	due := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	records := []model.TaskRecord{
		{
			ID: "recA", Task: "Buy milk", Client: "ClientA", Project: "ProjectX",
			EstimatedMinutes: 10, TimerCategory: "Small Task",
			EarlyBonus: 1, Penalty: 1, ActualMinutes: &actual, DueDate: &due,
		},
		{ID: "recB", Task: "Deep work", EstimatedMinutes: 180, TimerCategory: "Deep Work", Done: true},
	}

	path, err := uc.ExportCSV(context.Background(), records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}

	if rows[0][3] != "Est. Minutes" || rows[0][8] != "DueDate" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][7] != "12.5" || rows[1][8] != "2026-09-04" {
		t.Errorf("optional fields not formatted: %v", rows[1])
	}
	if rows[2][7] != "" || rows[2][8] != "" {
		t.Errorf("unset optionals should be empty strings: %v", rows[2])
	}
	if rows[2][9] != "true" {
		t.Errorf("done flag should serialize as true: %v", rows[2])
	}
}

func TestExportCSVOverwrites(t *testing.T) {
	repo := &mockRepo{failAfter: -1}
	uc := newTestUseCase(t, nil, repo)

	if _, err := uc.ExportCSV(context.Background(), []model.TaskRecord{{Task: "First"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path, err := uc.ExportCSV(context.Background(), []model.TaskRecord{{Task: "Second"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Second" {
		t.Errorf("export should overwrite, got %v", rows)
	}
}
