package telegram

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"ai-task-assistant/internal/task"
	pkgLog "ai-task-assistant/pkg/log"
	pkgTelegram "ai-task-assistant/pkg/telegram"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

// New creates a new Telegram delivery handler.
func New(l pkgLog.Logger, uc task.UseCase, bot *pkgTelegram.Bot) Handler {
	return &handler{
		l:   l,
		uc:  uc,
		bot: bot,
		// Telegram retries webhook deliveries it thinks failed; remembering
		// recent update ids keeps retried updates from creating duplicate tasks.
		seen: expirable.NewLRU[int64, struct{}](1024, nil, 10*time.Minute),
	}
}
