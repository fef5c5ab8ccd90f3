package http

import (
	"strings"

	"ai-task-assistant/internal/model"
	"ai-task-assistant/internal/task"
)

type captureReq struct {
	Text     string `json:"text" binding:"required"`
	Clients  string `json:"clients"`
	Projects string `json:"projects"`
}

func (r captureReq) toInput() task.CaptureInput {
	return task.CaptureInput{
		RawText:  r.Text,
		Clients:  splitCSV(r.Clients),
		Projects: splitCSV(r.Projects),
	}
}

// splitCSV turns a comma-separated vocabulary string into a cleaned slice.
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type taskResp struct {
	ID               string  `json:"id"`
	Task             string  `json:"task"`
	Client           string  `json:"client"`
	Project          string  `json:"project"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	TimerCategory    string  `json:"timer_category"`
	EarlyBonus       float64 `json:"early_bonus"`
	Penalty          float64 `json:"penalty"`
	DueDate          string  `json:"due_date,omitempty"`
}

type captureResp struct {
	TaskCount int        `json:"task_count"`
	Tasks     []taskResp `json:"tasks"`
	CSVPath   string     `json:"csv_path,omitempty"`
}

func newCaptureResp(output task.CaptureOutput, csvPath string) captureResp {
	resp := captureResp{
		TaskCount: output.TaskCount,
		Tasks:     make([]taskResp, 0, len(output.Tasks)),
		CSVPath:   csvPath,
	}
	for _, t := range output.Tasks {
		resp.Tasks = append(resp.Tasks, newTaskResp(t))
	}
	return resp
}

func newTaskResp(rec model.TaskRecord) taskResp {
	resp := taskResp{
		ID:               rec.ID,
		Task:             rec.Task,
		Client:           rec.Client,
		Project:          rec.Project,
		EstimatedMinutes: rec.EstimatedMinutes,
		TimerCategory:    rec.TimerCategory,
		EarlyBonus:       rec.EarlyBonus,
		Penalty:          rec.Penalty,
	}
	if rec.DueDate != nil {
		resp.DueDate = rec.DueDate.Format("2006-01-02")
	}
	return resp
}
