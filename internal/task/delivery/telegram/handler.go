package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"ai-task-assistant/internal/model"
	"ai-task-assistant/internal/task"
	pkgLog "ai-task-assistant/pkg/log"
	pkgResponse "ai-task-assistant/pkg/response"
	pkgTelegram "ai-task-assistant/pkg/telegram"
)

type handler struct {
	l    pkgLog.Logger
	uc   task.UseCase
	bot  *pkgTelegram.Bot
	seen *expirable.LRU[int64, struct{}]
}

const helpText = "*Commands:*\n" +
	"`/add <text>` capture tasks, flags `--priority high|medium|low` and `--due YYYY-MM-DD`\n" +
	"`/list` tasks due this week, grouped by client\n" +
	"`/today` tasks due today\n" +
	"`/done <id>` mark a task done (id prefix is enough)\n" +
	"`/delete <id>` delete a task\n" +
	"`/ping` check the bot is alive\n\n" +
	"Plain text without a command is captured like `/add`."

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It acknowledges with HTTP 200 immediately and processes the message in a
// background goroutine; the capture pipeline calls the language model and the
// record store, which together take longer than Telegram's webhook timeout.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err)
		return
	}

	// Ignore non-message updates (edits, polls, channel posts).
	if update.Message == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	// Telegram retries on slow responses; drop updates we already accepted.
	if _, dup := h.seen.Get(update.UpdateID); dup {
		pkgResponse.OK(c, map[string]string{"status": "duplicate"})
		return
	}
	h.seen.Add(update.UpdateID, struct{}{})

	msg := update.Message

	go func() {
		// Detach from the request context, which is cancelled after the response.
		bgCtx := context.Background()
		if err := h.processMessage(bgCtx, msg); err != nil {
			h.l.Errorf(bgCtx, "telegram handler: background processMessage failed: %v", err)
			_ = h.bot.SendMessage(msg.Chat.ID, "Something went wrong handling your message. Please try again.")
		}
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// processMessage handles a single Telegram message.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}

	sc := model.Scope{}
	if msg.From != nil {
		sc.UserID = fmt.Sprintf("telegram_%d", msg.From.ID)
		sc.Username = msg.From.Username
	}

	command, args := splitCommand(text)

	switch command {
	case "/start":
		return h.bot.SendMessageWithMode(msg.Chat.ID,
			"👋 Welcome! Send me what you need to do in plain language and I will turn it into tracked tasks.\n\n"+
				"_Example: \"finish the report for ClientA tomorrow, call the dentist, 2 hours of deep work on ProjectX friday\"_\n\n"+
				"Type /help for all commands.",
			"Markdown")
	case "/help":
		return h.bot.SendMessageWithMode(msg.Chat.ID, helpText, "Markdown")
	case "/ping":
		return h.bot.SendMessage(msg.Chat.ID, "pong")
	case "/add":
		return h.handleAdd(ctx, sc, msg.Chat.ID, args)
	case "/list":
		return h.handleList(ctx, sc, msg.Chat.ID)
	case "/today":
		return h.handleToday(ctx, sc, msg.Chat.ID)
	case "/done":
		return h.handleDone(ctx, sc, msg.Chat.ID, args)
	case "/delete":
		return h.handleDelete(ctx, sc, msg.Chat.ID, args)
	case "":
		// Bare text is the primary capture path.
		return h.handleAdd(ctx, sc, msg.Chat.ID, text)
	default:
		return h.bot.SendMessage(msg.Chat.ID,
			fmt.Sprintf("Unknown command %s. Type /help to see what I can do.", command))
	}
}

func (h *handler) handleAdd(ctx context.Context, sc model.Scope, chatID int64, args string) error {
	input, err := parseAddArgs(args)
	if err != nil {
		return h.bot.SendMessage(chatID, err.Error())
	}
	if strings.TrimSpace(input.RawText) == "" {
		return h.bot.SendMessage(chatID, "Tell me what to add, e.g. /add buy milk tomorrow")
	}

	if err := h.bot.SendMessage(chatID, "⏳ Working on it..."); err != nil {
		h.l.Warnf(ctx, "telegram handler: failed to send ack message: %v", err)
	}

	output, err := h.uc.Capture(ctx, sc, input)
	switch {
	case errors.Is(err, task.ErrNoTasksParsed):
		return h.bot.SendMessage(chatID, "⚠️ I could not find any tasks in that. Try describing what needs doing.")
	case err != nil && output.TaskCount > 0:
		// Partial batch: some records made it in before the store failed.
		h.l.Errorf(ctx, "telegram handler: capture partially failed: %v", err)
		return h.bot.SendMessage(chatID,
			fmt.Sprintf("⚠️ Saved %d task(s) before the store failed. Please retry the rest.", output.TaskCount))
	case err != nil:
		h.l.Errorf(ctx, "telegram handler: capture failed: %v", err)
		return h.bot.SendMessage(chatID, "Could not process that request. Please try again.")
	}

	reply := fmt.Sprintf("✅ Created *%d task(s)*\n\n", output.TaskCount)
	for _, t := range output.Tasks {
		reply += fmt.Sprintf("• [%s] %s (%s", shortID(t.ID), t.Task, t.TimerCategory)
		if t.DueDate != nil {
			reply += ", due " + t.DueDate.Format("2006-01-02")
		}
		reply += ")\n"
	}
	return h.bot.SendMessageWithMode(chatID, reply, "Markdown")
}

func (h *handler) handleList(ctx context.Context, sc model.Scope, chatID int64) error {
	out, err := h.uc.ListWeek(ctx, sc)
	if err != nil {
		h.l.Errorf(ctx, "telegram handler: ListWeek failed: %v", err)
		return h.bot.SendMessage(chatID, "Could not load this week's tasks. Please try again.")
	}
	return h.bot.SendMessageWithMode(chatID, out.Message, "Markdown")
}

func (h *handler) handleToday(ctx context.Context, sc model.Scope, chatID int64) error {
	out, err := h.uc.ListToday(ctx, sc)
	if err != nil {
		h.l.Errorf(ctx, "telegram handler: ListToday failed: %v", err)
		return h.bot.SendMessage(chatID, "Could not load today's tasks. Please try again.")
	}
	return h.bot.SendMessageWithMode(chatID, out.Message, "Markdown")
}

func (h *handler) handleDone(ctx context.Context, sc model.Scope, chatID int64, args string) error {
	id := strings.TrimSpace(args)
	if id == "" {
		return h.bot.SendMessage(chatID, "Which task? Usage: /done <id>")
	}

	rec, err := h.uc.Complete(ctx, sc, id)
	if errors.Is(err, task.ErrNotFound) {
		return h.bot.SendMessage(chatID, fmt.Sprintf("No task matches id %q.", id))
	}
	if err != nil {
		h.l.Errorf(ctx, "telegram handler: Complete failed: %v", err)
		return h.bot.SendMessage(chatID, "Could not mark that task done. Please try again.")
	}
	return h.bot.SendMessage(chatID, fmt.Sprintf("✅ Done: %s", rec.Task))
}

func (h *handler) handleDelete(ctx context.Context, sc model.Scope, chatID int64, args string) error {
	id := strings.TrimSpace(args)
	if id == "" {
		return h.bot.SendMessage(chatID, "Which task? Usage: /delete <id>")
	}

	rec, err := h.uc.Delete(ctx, sc, id)
	if errors.Is(err, task.ErrNotFound) {
		return h.bot.SendMessage(chatID, fmt.Sprintf("No task matches id %q.", id))
	}
	if err != nil {
		h.l.Errorf(ctx, "telegram handler: Delete failed: %v", err)
		return h.bot.SendMessage(chatID, "Could not delete that task. Please try again.")
	}
	return h.bot.SendMessage(chatID, fmt.Sprintf("🗑 Deleted: %s", rec.Task))
}

// splitCommand separates a leading bot command from its arguments. Text that
// does not start with "/" yields an empty command.
func splitCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	parts := strings.SplitN(text, " ", 2)
	// Commands in group chats arrive as /cmd@botname.
	command := strings.SplitN(parts[0], "@", 2)[0]
	if len(parts) == 2 {
		return command, strings.TrimSpace(parts[1])
	}
	return command, ""
}

// parseAddArgs extracts the --priority and --due flags from /add arguments,
// leaving the rest as the raw capture text.
func parseAddArgs(args string) (task.CaptureInput, error) {
	input := task.CaptureInput{}

	words := strings.Fields(args)
	rest := make([]string, 0, len(words))
	for i := 0; i < len(words); i++ {
		switch words[i] {
		case "--priority":
			if i+1 >= len(words) {
				return input, errors.New("--priority needs a value: high, medium or low")
			}
			i++
			p := strings.ToLower(words[i])
			if p != "high" && p != "medium" && p != "low" {
				return input, fmt.Errorf("unknown priority %q: use high, medium or low", words[i])
			}
			input.Priority = p
		case "--due":
			if i+1 >= len(words) {
				return input, errors.New("--due needs a date in YYYY-MM-DD form")
			}
			i++
			due, err := time.Parse("2006-01-02", words[i])
			if err != nil {
				return input, fmt.Errorf("cannot parse due date %q: use YYYY-MM-DD", words[i])
			}
			input.DueOverride = &due
		default:
			rest = append(rest, words[i])
		}
	}

	input.RawText = strings.Join(rest, " ")
	return input, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
