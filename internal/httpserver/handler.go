package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	"ai-task-assistant/internal/middleware"
)

func (srv *HTTPServer) mapHandlers(mw middleware.Middleware) error {
	srv.registerMiddlewares(mw)
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
	return nil
}

func (srv *HTTPServer) registerMiddlewares(mw middleware.Middleware) {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(mw.RequestID())
	srv.gin.Use(mw.AccessLog())
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)
}

// registerDomainRoutes registers all domain routes.
func (srv *HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	if srv.telegramHandler != nil {
		srv.gin.POST("/webhook/telegram", srv.telegramHandler.HandleWebhook)
		srv.l.Infof(ctx, "Telegram webhook route registered at POST /webhook/telegram")
	} else {
		srv.l.Infof(ctx, "Telegram handler not configured, skipping webhook route")
	}

	if srv.captureHandler != nil {
		srv.gin.POST("/api/v1/capture", srv.captureHandler.Capture)
		srv.l.Infof(ctx, "Capture form route registered at POST /api/v1/capture")
	} else {
		srv.l.Infof(ctx, "Capture handler not configured, skipping capture route")
	}
}
