package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"ai-task-assistant/internal/model"
	"ai-task-assistant/internal/task"
	"ai-task-assistant/pkg/response"
)

// Capture accepts free text from the capture form, runs the extraction
// pipeline, refreshes the CSV export, and pings Telegram with the result.
func (h *handler) Capture(c *gin.Context) {
	ctx := c.Request.Context()

	var req captureReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	sc := model.Scope{UserID: "capture_form"}
	output, err := h.uc.Capture(ctx, sc, req.toInput())
	if err != nil && output.TaskCount == 0 {
		h.l.Errorf(ctx, "uc.Capture: %v", err)
		if errors.Is(err, task.ErrEmptyInput) || errors.Is(err, task.ErrNoTasksParsed) || errors.Is(err, task.ErrExtraction) {
			response.Error(c, err)
			return
		}
		response.InternalError(c)
		return
	}
	if err != nil {
		// Partial batch: report what survived rather than pretending nothing did.
		h.l.Errorf(ctx, "uc.Capture: partial failure after %d records: %v", output.TaskCount, err)
	}

	csvPath, csvErr := h.uc.ExportCSV(ctx, output.Tasks)
	if csvErr != nil {
		h.l.Errorf(ctx, "uc.ExportCSV: %v", csvErr)
		csvPath = ""
	}

	h.notify(output.TaskCount)

	response.OK(c, newCaptureResp(output, csvPath))
}

// notify sends a best-effort Telegram confirmation for a form capture.
func (h *handler) notify(count int) {
	if h.bot == nil || h.notifyChatID == 0 {
		return
	}
	if err := h.bot.SendMessage(h.notifyChatID, fmt.Sprintf("📥 %d task(s) saved from the capture form", count)); err != nil {
		h.l.Warnf(context.Background(), "capture notify failed: %v", err)
	}
}
