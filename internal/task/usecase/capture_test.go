package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-task-assistant/internal/model"
	"ai-task-assistant/internal/reminder"
	"ai-task-assistant/internal/task"
	"ai-task-assistant/internal/task/repository"
	"ai-task-assistant/pkg/datemath"
	"ai-task-assistant/pkg/openai"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, args ...any)  {}

type mockRepo struct {
	created   []model.TaskRecord
	records   []model.TaskRecord
	createErr error
	failAfter int // fail Create once this many records exist; -1 never fails
}

func (m *mockRepo) Create(ctx context.Context, rec model.TaskRecord) (model.TaskRecord, error) {
	if m.createErr != nil && len(m.created) >= m.failAfter {
		return model.TaskRecord{}, m.createErr
	}
	rec.ID = fmt.Sprintf("rec%03d", len(m.created)+1)
	m.created = append(m.created, rec)
	return rec, nil
}

func (m *mockRepo) List(ctx context.Context, opt repository.ListOptions) ([]model.TaskRecord, error) {
	return m.records, nil
}

func (m *mockRepo) Update(ctx context.Context, id string, fields map[string]any) (model.TaskRecord, error) {
	for _, rec := range m.records {
		if rec.ID == id {
			if done, ok := fields["Done"].(bool); ok {
				rec.Done = done
			}
			return rec, nil
		}
	}
	return model.TaskRecord{}, task.ErrNotFound
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	return nil
}

// modelServer fakes the chat completions endpoint, returning the given JSON
// string as the assistant message content.
func modelServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.ChatResponse{
			Choices: []openai.Choice{
				{Message: openai.Message{Role: "assistant", Content: content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestUseCase(t *testing.T, ts *httptest.Server, repo *mockRepo) *implUseCase {
	t.Helper()

	llm := openai.NewClient("test-key")
	if ts != nil {
		llm.SetAPIURL(ts.URL)
	}

	parser, err := datemath.NewParser("UTC")
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}

	uc := New(&mockLogger{}, llm, repo, nil, parser,
		[]string{"ClientA", "ClientB"}, []string{"ProjectX"}, t.TempDir()+"/tasks.csv")
	uc.SetNowFunc(func() time.Time {
		return time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC) // Wednesday
	})
	return uc
}

func TestCaptureRecomputesTimerCategory(t *testing.T) {
	// The model lies about the category; the derived bucket must win.
	ts := modelServer(t, `{"tasks":[
		{"Task":"Buy milk","Client":"ClientA","Project":"ProjectX","Est. Minutes":10,"Timer Category":"Deep Work","Early Bonus":0,"Penalty":0},
		{"Task":"Quarterly report","Client":"ClientB","Project":"ProjectX","Est. Minutes":180,"Timer Category":"Quick Task","Early Bonus":1,"Penalty":1}
	]}`)
	defer ts.Close()

	repo := &mockRepo{failAfter: -1}
	uc := newTestUseCase(t, ts, repo)

	out, err := uc.Capture(context.Background(), model.Scope{UserID: "u1"}, task.CaptureInput{
		RawText: "buy milk, and write the quarterly report",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TaskCount != 2 {
		t.Fatalf("expected 2 tasks, got %d", out.TaskCount)
	}

	if out.Tasks[0].TimerCategory != "Small Task" {
		t.Errorf("10 minutes should bucket to Small Task, got %q", out.Tasks[0].TimerCategory)
	}
	if out.Tasks[1].TimerCategory != "Deep Work" {
		t.Errorf("180 minutes should bucket to Deep Work, got %q", out.Tasks[1].TimerCategory)
	}
	if out.Tasks[0].ID == "" {
		t.Error("created record should carry the backend id")
	}
}

func TestCaptureResolvesDuePhrases(t *testing.T) {
	ts := modelServer(t, `[{"Task":"Dentist","Est. Minutes":30,"DueDate":"tomorrow"}]`)
	defer ts.Close()

	repo := &mockRepo{failAfter: -1}
	uc := newTestUseCase(t, ts, repo)

	out, err := uc.Capture(context.Background(), model.Scope{}, task.CaptureInput{RawText: "dentist tomorrow"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Tasks[0].DueDate == nil {
		t.Fatal("due phrase should resolve to a date")
	}
	if got := out.Tasks[0].DueDate.Format("2006-01-02"); got != "2026-09-03" {
		t.Errorf("expected 2026-09-03, got %s", got)
	}
}

func TestCaptureDueOverrideWins(t *testing.T) {
	ts := modelServer(t, `[{"Task":"Dentist","Est. Minutes":30,"DueDate":"tomorrow"}]`)
	defer ts.Close()

	repo := &mockRepo{failAfter: -1}
	uc := newTestUseCase(t, ts, repo)

	override := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	out, err := uc.Capture(context.Background(), model.Scope{}, task.CaptureInput{
		RawText:     "dentist tomorrow",
		DueOverride: &override,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Tasks[0].DueDate.Equal(override) {
		t.Errorf("override should beat the model phrase, got %v", out.Tasks[0].DueDate)
	}
}

func TestCapturePriorityFlag(t *testing.T) {
	ts := modelServer(t, `[{"Task":"Urgent fix","Est. Minutes":25,"Early Bonus":0,"Penalty":0}]`)
	defer ts.Close()

	repo := &mockRepo{failAfter: -1}
	uc := newTestUseCase(t, ts, repo)

	out, err := uc.Capture(context.Background(), model.Scope{}, task.CaptureInput{
		RawText:  "urgent fix",
		Priority: "high",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Tasks[0].EarlyBonus != 2 || out.Tasks[0].Penalty != 2 {
		t.Errorf("high priority should set both weights to 2, got %v/%v",
			out.Tasks[0].EarlyBonus, out.Tasks[0].Penalty)
	}
}

func TestCaptureEmptyInput(t *testing.T) {
	repo := &mockRepo{failAfter: -1}
	uc := newTestUseCase(t, nil, repo)

	_, err := uc.Capture(context.Background(), model.Scope{}, task.CaptureInput{RawText: "   "})
	if !errors.Is(err, task.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestCaptureNoTasksParsed(t *testing.T) {
	ts := modelServer(t, `{"tasks":[]}`)
	defer ts.Close()

	repo := &mockRepo{failAfter: -1}
	uc := newTestUseCase(t, ts, repo)

	_, err := uc.Capture(context.Background(), model.Scope{}, task.CaptureInput{RawText: "asdf"})
	if !errors.Is(err, task.ErrNoTasksParsed) {
		t.Errorf("expected ErrNoTasksParsed, got %v", err)
	}
}

func TestCaptureExtractionFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	repo := &mockRepo{failAfter: -1}
	uc := newTestUseCase(t, ts, repo)

	_, err := uc.Capture(context.Background(), model.Scope{}, task.CaptureInput{RawText: "buy milk"})
	if !errors.Is(err, task.ErrExtraction) {
		t.Errorf("expected ErrExtraction, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("nothing should be persisted on extraction failure, got %d", len(repo.created))
	}
}

func TestCapturePartialBatchOnStoreFailure(t *testing.T) {
	ts := modelServer(t, `[
		{"Task":"First","Est. Minutes":5},
		{"Task":"Second","Est. Minutes":5},
		{"Task":"Third","Est. Minutes":5}
	]`)
	defer ts.Close()

	repo := &mockRepo{createErr: task.ErrStore, failAfter: 1}
	uc := newTestUseCase(t, ts, repo)

	out, err := uc.Capture(context.Background(), model.Scope{}, task.CaptureInput{RawText: "three things"})
	if !errors.Is(err, task.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	// Fail-fast, no rollback: the first record stays, the rest never run.
	if out.TaskCount != 1 || len(repo.created) != 1 {
		t.Errorf("expected exactly 1 persisted record, got output=%d repo=%d", out.TaskCount, len(repo.created))
	}
}

func TestCaptureSchedulesReminders(t *testing.T) {
	ts := modelServer(t, `[{"Task":"Dentist","Est. Minutes":30,"DueDate":"tomorrow"}]`)
	defer ts.Close()

	repo := &mockRepo{failAfter: -1}
	uc := newTestUseCase(t, ts, repo)

	scheduled := 0
	sched := reminder.New(&mockLogger{}, time.UTC, 4*time.Hour, 9, func(msg string) {})
	sched.SetNowFunc(uc.now)
	sched.SetAfterFunc(func(d time.Duration, f func()) { scheduled++ })
	uc.reminders = sched

	if _, err := uc.Capture(context.Background(), model.Scope{}, task.CaptureInput{RawText: "dentist tomorrow"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Nudge plus the due-tomorrow and due-today rungs of the ladder.
	if scheduled != 3 {
		t.Errorf("expected 3 scheduled reminders, got %d", scheduled)
	}
}

func TestCaptureVocabularyFallback(t *testing.T) {
	ts := modelServer(t, `[{"Task":"Mystery","Client":"NotARealClient","Project":"projectx","Est. Minutes":5}]`)
	defer ts.Close()

	repo := &mockRepo{failAfter: -1}
	uc := newTestUseCase(t, ts, repo)

	out, err := uc.Capture(context.Background(), model.Scope{}, task.CaptureInput{RawText: "mystery"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Tasks[0].Client != "General" {
		t.Errorf("unknown client should fall back to General, got %q", out.Tasks[0].Client)
	}
	if out.Tasks[0].Project != "ProjectX" {
		t.Errorf("vocabulary match should be case-insensitive and canonical, got %q", out.Tasks[0].Project)
	}
}

func TestCaptureCodeFencedResponse(t *testing.T) {
	ts := modelServer(t, "Here you go:\n```json\n[{\"Task\":\"Fenced\",\"Est. Minutes\":5}]\n```")
	defer ts.Close()

	repo := &mockRepo{failAfter: -1}
	uc := newTestUseCase(t, ts, repo)

	out, err := uc.Capture(context.Background(), model.Scope{}, task.CaptureInput{RawText: "fenced"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TaskCount != 1 || out.Tasks[0].Task != "Fenced" {
		t.Errorf("fenced JSON should still parse, got %+v", out.Tasks)
	}
}
