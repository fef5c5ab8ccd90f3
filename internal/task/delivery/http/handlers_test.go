package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"ai-task-assistant/internal/model"
	"ai-task-assistant/internal/task"
	deliveryHTTP "ai-task-assistant/internal/task/delivery/http"
	pkgTelegram "ai-task-assistant/pkg/telegram"
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

type mockUseCase struct {
	captureInput  task.CaptureInput
	captureOutput task.CaptureOutput
	captureErr    error
	exportPath    string
	exportErr     error
	exported      []model.TaskRecord
}

func (m *mockUseCase) Capture(ctx context.Context, sc model.Scope, input task.CaptureInput) (task.CaptureOutput, error) {
	m.captureInput = input
	return m.captureOutput, m.captureErr
}
func (m *mockUseCase) ListWeek(ctx context.Context, sc model.Scope) (task.DigestOutput, error) {
	return task.DigestOutput{}, nil
}
func (m *mockUseCase) ListToday(ctx context.Context, sc model.Scope) (task.DigestOutput, error) {
	return task.DigestOutput{}, nil
}
func (m *mockUseCase) Complete(ctx context.Context, sc model.Scope, idPrefix string) (model.TaskRecord, error) {
	return model.TaskRecord{}, nil
}
func (m *mockUseCase) Delete(ctx context.Context, sc model.Scope, idPrefix string) (model.TaskRecord, error) {
	return model.TaskRecord{}, nil
}
func (m *mockUseCase) DailyDigest(ctx context.Context) (string, error) {
	return "", nil
}
func (m *mockUseCase) ExportCSV(ctx context.Context, records []model.TaskRecord) (string, error) {
	m.exported = records
	return m.exportPath, m.exportErr
}

func newTestEnv(t *testing.T) (*gin.Engine, *mockUseCase, *[]string, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sent := &[]string{}
	tgServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/sendMessage") {
			var payload map[string]any
			json.NewDecoder(r.Body).Decode(&payload)
			if text, ok := payload["text"].(string); ok {
				*sent = append(*sent, text)
			}
		}
		w.Write([]byte(`{"ok": true}`))
	}))

	bot := pkgTelegram.NewBot("test-token")
	bot.SetAPIURL(tgServer.URL)

	muc := &mockUseCase{exportPath: "/tmp/tasks.csv"}
	engine := gin.New()
	h := deliveryHTTP.New(&mockLogger{}, muc, bot, 777)
	engine.POST("/api/v1/capture", h.Capture)

	return engine, muc, sent, tgServer
}

func postCapture(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/capture", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCapture_Success(t *testing.T) {
	engine, muc, sent, ts := newTestEnv(t)
	defer ts.Close()

	muc.captureOutput = task.CaptureOutput{
		TaskCount: 2,
		Tasks: []model.TaskRecord{
			{ID: "recA", Task: "Buy milk", TimerCategory: "Small Task"},
			{ID: "recB", Task: "Report", TimerCategory: "Deep Work"},
		},
	}

	w := postCapture(engine, `{"text":"buy milk and the report","clients":"ClientA, ClientB","projects":"ProjectX"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if got := muc.captureInput.Clients; len(got) != 2 || got[0] != "ClientA" || got[1] != "ClientB" {
		t.Errorf("comma-separated clients not split: %v", got)
	}
	if len(muc.exported) != 2 {
		t.Errorf("created records should be exported, got %d", len(muc.exported))
	}

	var resp struct {
		Data struct {
			TaskCount int    `json:"task_count"`
			CSVPath   string `json:"csv_path"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.TaskCount != 2 || resp.Data.CSVPath != "/tmp/tasks.csv" {
		t.Errorf("unexpected response: %s", w.Body.String())
	}

	if len(*sent) != 1 || !strings.Contains((*sent)[0], "2 task(s) saved") {
		t.Errorf("expected one Telegram notification, got %v", *sent)
	}
}

func TestCapture_MissingText(t *testing.T) {
	engine, _, _, ts := newTestEnv(t)
	defer ts.Close()

	w := postCapture(engine, `{"clients":"ClientA"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCapture_ExtractionFailure(t *testing.T) {
	engine, muc, sent, ts := newTestEnv(t)
	defer ts.Close()

	muc.captureErr = task.ErrExtraction
	w := postCapture(engine, `{"text":"garbled"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if len(muc.exported) != 0 {
		t.Error("nothing should be exported on extraction failure")
	}
	if len(*sent) != 0 {
		t.Errorf("no notification on failure, got %v", *sent)
	}
}

func TestCapture_PartialBatchStillReported(t *testing.T) {
	engine, muc, _, ts := newTestEnv(t)
	defer ts.Close()

	muc.captureOutput = task.CaptureOutput{TaskCount: 1, Tasks: []model.TaskRecord{{ID: "recA", Task: "First"}}}
	muc.captureErr = task.ErrStore

	w := postCapture(engine, `{"text":"three things"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("partial success should still report the survivors, got %d", w.Code)
	}

	var resp struct {
		Data struct {
			TaskCount int `json:"task_count"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.TaskCount != 1 {
		t.Errorf("expected 1 surviving task, got %d", resp.Data.TaskCount)
	}
}
