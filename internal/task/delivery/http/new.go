package http

import (
	"github.com/gin-gonic/gin"

	"ai-task-assistant/internal/task"
	pkgLog "ai-task-assistant/pkg/log"
	pkgTelegram "ai-task-assistant/pkg/telegram"
)

// Handler is the interface for the capture form delivery handler.
type Handler interface {
	Capture(c *gin.Context)
}

type handler struct {
	l            pkgLog.Logger
	uc           task.UseCase
	bot          *pkgTelegram.Bot
	notifyChatID int64
}

// New creates a new HTTP delivery handler for the capture form. bot may be
// nil; captures then skip the Telegram notification.
func New(l pkgLog.Logger, uc task.UseCase, bot *pkgTelegram.Bot, notifyChatID int64) Handler {
	return &handler{
		l:            l,
		uc:           uc,
		bot:          bot,
		notifyChatID: notifyChatID,
	}
}
