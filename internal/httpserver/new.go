package httpserver

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"ai-task-assistant/internal/middleware"
	captureDelivery "ai-task-assistant/internal/task/delivery/http"
	tgDelivery "ai-task-assistant/internal/task/delivery/telegram"
	pkgLog "ai-task-assistant/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	gin         *gin.Engine
	l           pkgLog.Logger
	port        int
	mode        string
	environment string

	telegramHandler tgDelivery.Handler
	captureHandler  captureDelivery.Handler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      pkgLog.Logger
	Port        int
	Mode        string
	Environment string

	TelegramHandler tgDelivery.Handler
	CaptureHandler  captureDelivery.Handler
}

// New creates a new HTTPServer instance.
func New(cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               cfg.Logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		telegramHandler: cfg.TelegramHandler,
		captureHandler:  cfg.CaptureHandler,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(middleware.New(srv.l)); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}

// Run starts the HTTP server and blocks until it exits.
func (srv *HTTPServer) Run() error {
	return srv.gin.Run(fmt.Sprintf(":%d", srv.port))
}
