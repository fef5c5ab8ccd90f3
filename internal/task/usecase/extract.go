package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ai-task-assistant/internal/model"
	"ai-task-assistant/internal/task"
	"ai-task-assistant/pkg/bucket"
	"ai-task-assistant/pkg/openai"
)

// extract sends free text to the language model and normalizes the response
// into task records. The model output is never trusted blindly: the shape is
// repaired, numbers are coerced, the timer category is recomputed, and the
// due-date phrase is resolved locally.
func (uc *implUseCase) extract(ctx context.Context, rawText string, clients, projects []string, dueOverride *time.Time) ([]model.TaskRecord, error) {
	prompt := openai.BuildExtractionPrompt(rawText, clients, projects)

	resp, err := uc.llm.CreateChatCompletion(ctx, openai.ChatRequest{
		Messages:       []openai.Message{{Role: "user", Content: prompt}},
		Temperature:    0.1,
		ResponseFormat: &openai.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", task.ErrExtraction, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response from model", task.ErrExtraction)
	}

	raw := resp.Choices[0].Message.Content
	cleaned := sanitizeJSONResponse(raw)

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		uc.l.Errorf(ctx, "extract: unparseable model output. Raw=%q Cleaned=%q", raw, cleaned)
		return nil, fmt.Errorf("%w: malformed JSON from model: %v", task.ErrExtraction, err)
	}

	now := uc.now()
	records := make([]model.TaskRecord, 0)
	for _, row := range repairShape(data) {
		rec, ok := uc.normalizeRow(row, clients, projects, now, dueOverride)
		if !ok {
			uc.l.Warnf(ctx, "extract: dropping row without task description: %v", row)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// sanitizeJSONResponse removes markdown code fences and leading/trailing prose
// that models often add around JSON output.
func sanitizeJSONResponse(text string) string {
	re := regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	if matches := re.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := strings.IndexAny(text, "[{")
	if start == -1 {
		return text
	}
	end := strings.LastIndexAny(text, "]}")
	if end == -1 || end < start {
		return text
	}
	return strings.TrimSpace(text[start : end+1])
}

// repairShape normalizes the decoded top-level JSON value to a list of rows.
// A single object is wrapped; an object nesting the list under "tasks" is
// unwrapped.
func repairShape(data any) []map[string]any {
	switch v := data.(type) {
	case []any:
		rows := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				rows = append(rows, m)
			}
		}
		return rows
	case map[string]any:
		if nested, ok := v["tasks"]; ok {
			return repairShape(nested)
		}
		return []map[string]any{v}
	default:
		return nil
	}
}

// normalizeRow converts one model-emitted row into a task record, applying
// defaults and the derived-category invariant. Rows without a task
// description are rejected.
func (uc *implUseCase) normalizeRow(row map[string]any, clients, projects []string, now time.Time, dueOverride *time.Time) (model.TaskRecord, bool) {
	description := strings.TrimSpace(coerceString(row["Task"]))
	if description == "" {
		return model.TaskRecord{}, false
	}

	mins := coerceMinutes(row["Est. Minutes"])

	rec := model.TaskRecord{
		Task:             description,
		Client:           vocabOrDefault(coerceString(row["Client"]), clients),
		Project:          vocabOrDefault(coerceString(row["Project"]), projects),
		EstimatedMinutes: mins,
		// The category the model returned is discarded: the bucket function
		// is the single auditable source of categorization.
		TimerCategory: bucket.Bucket(float64(mins)),
		EarlyBonus:    coerceNumber(row["Early Bonus"]),
		Penalty:       coerceNumber(row["Penalty"]),
	}

	if v, ok := row["Actual Minutes"].(float64); ok {
		rec.ActualMinutes = &v
	}

	if dueOverride != nil {
		due := *dueOverride
		rec.DueDate = &due
		return rec, true
	}

	// Two key spellings occur in the wild; only the canonical date survives.
	phrase := coerceString(row["DueDate"])
	if phrase == "" {
		phrase = coerceString(row["Due Date"])
	}
	if due, ok := uc.dateMath.ParseDate(phrase, now); ok {
		rec.DueDate = &due
	}

	return rec, true
}

// vocabOrDefault returns "General" when the value is empty or outside the
// allowed vocabulary.
func vocabOrDefault(value string, allowed []string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "General"
	}
	if len(allowed) == 0 {
		return value
	}
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return a
		}
	}
	return "General"
}

// coerceMinutes coerces a duration value to a non-negative integer,
// defaulting to 0 on missing or non-numeric input.
func coerceMinutes(v any) int {
	n := coerceNumber(v)
	if n < 0 {
		return 0
	}
	return int(n)
}

// coerceNumber accepts the numeric shapes JSON decoding can produce,
// including numbers serialized as strings.
func coerceNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return 0
}

func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
