package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ai-task-assistant/config"
	"ai-task-assistant/internal/cron"
	"ai-task-assistant/internal/httpserver"
	"ai-task-assistant/internal/reminder"
	captureDelivery "ai-task-assistant/internal/task/delivery/http"
	tgDelivery "ai-task-assistant/internal/task/delivery/telegram"
	airtableRepo "ai-task-assistant/internal/task/repository/airtable"
	"ai-task-assistant/internal/task/usecase"
	"ai-task-assistant/pkg/datemath"
	"ai-task-assistant/pkg/log"
	"ai-task-assistant/pkg/openai"
	"ai-task-assistant/pkg/telegram"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting AI Task Assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Shared clients
	telegramBot := telegram.NewBot(cfg.Telegram.BotToken)

	llmClient := openai.NewClient(cfg.OpenAI.APIKey)
	llmClient.SetModel(cfg.OpenAI.Model)

	dateMathParser, dtErr := datemath.NewParser(cfg.Scheduler.Timezone)
	if dtErr != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Scheduler.Timezone, dtErr)
		dateMathParser, _ = datemath.NewParser("UTC")
	}

	// 4. Record store
	airtableClient := airtableRepo.NewClient(cfg.Airtable.APIKey, cfg.Airtable.BaseID, cfg.Airtable.TableName)
	taskRepo := airtableRepo.New(airtableClient, dateMathParser.Location(), logger)

	// 5. Reminders, delivered to the configured chat
	reminderScheduler := reminder.New(logger, dateMathParser.Location(),
		cfg.Scheduler.NudgeDelay, cfg.Scheduler.ReminderHour,
		func(msg string) {
			if sendErr := telegramBot.SendMessage(cfg.Telegram.ChatID, msg); sendErr != nil {
				logger.Errorf(context.Background(), "reminder delivery failed: %v", sendErr)
			}
		})

	// 6. Task UseCase
	taskUC := usecase.New(logger, llmClient, taskRepo, reminderScheduler, dateMathParser,
		cfg.Vocabulary.Clients, cfg.Vocabulary.Projects, cfg.Export.CSVPath)

	// 7. Daily digest
	digestScheduler := cron.New(dateMathParser.Location())
	if _, cronErr := digestScheduler.ScheduleDaily(cfg.Scheduler.DigestTime, func() {
		bgCtx := context.Background()
		digest, digestErr := taskUC.DailyDigest(bgCtx)
		if digestErr != nil {
			logger.Errorf(bgCtx, "daily digest failed: %v", digestErr)
			return
		}
		if sendErr := telegramBot.SendMessageWithMode(cfg.Telegram.ChatID, digest, "Markdown"); sendErr != nil {
			logger.Errorf(bgCtx, "daily digest delivery failed: %v", sendErr)
		}
	}); cronErr != nil {
		logger.Errorf(ctx, "Failed to schedule daily digest: %v", cronErr)
	} else {
		digestScheduler.Start()
		defer digestScheduler.Stop()
		logger.Infof(ctx, "Daily digest scheduled at %s %s", cfg.Scheduler.DigestTime, cfg.Scheduler.Timezone)
	}

	// 8. Delivery handlers
	telegramHandler := tgDelivery.New(logger, taskUC, telegramBot)
	captureHandler := captureDelivery.New(logger, taskUC, telegramBot, cfg.Telegram.ChatID)

	// 9. Webhook registration
	if cfg.Telegram.WebhookURL != "" {
		if whErr := telegramBot.SetWebhook(cfg.Telegram.WebhookURL + "/webhook/telegram"); whErr != nil {
			logger.Warnf(ctx, "Failed to set Telegram webhook: %v", whErr)
		} else {
			logger.Infof(ctx, "Telegram webhook registered at %s/webhook/telegram", cfg.Telegram.WebhookURL)
		}
	}

	// 10. HTTP Server
	httpServer, err := httpserver.New(httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		TelegramHandler: telegramHandler,
		CaptureHandler:  captureHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
