package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"kanban-backend/internal/logger"
	"kanban-backend/internal/manager"
	"kanban-backend/internal/models"
)

const defaultStatus = "todo"

const helpText = `Kanban bot commands:

/add <text> - add a task to "todo"
/list - show the board
/move <id> <status> - move a task to another column
/delete <id> - delete a task
/help - show this help

Any other text is added as a "todo" task.`

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api sender
	tm  *manager.TaskManager
}

func NewBot(api sender, tm *manager.TaskManager) *Bot {
	return &Bot{api: api, tm: tm}
}

// Run handles updates until ctx is done or the channel closes.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user := ""
	if msg.From != nil {
		user = msg.From.UserName
	}
	ctx = logger.WithFields(ctx, "chat_id", msg.Chat.ID, "user", user)
	logger.Debug(ctx, "telegram message received", "text", msg.Text)

	reply := b.reply(ctx, msg)
	if reply == "" {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		logger.Error(ctx, err, "send telegram message")
	}
}

func (b *Bot) reply(ctx context.Context, msg *tgbotapi.Message) string {
	if !msg.IsCommand() {
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			return ""
		}
		return b.addTask(ctx, text)
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start", "help":
		return helpText
	case "add":
		if args == "" {
			return "Usage: /add <text>"
		}
		return b.addTask(ctx, args)
	case "list":
		return b.listTasks(ctx)
	case "move":
		return b.moveTask(ctx, args)
	case "delete":
		return b.deleteTask(ctx, args)
	default:
		return "Unknown command. Use /help to see what I can do."
	}
}

func (b *Bot) addTask(ctx context.Context, text string) string {
	status := defaultStatus
	task, err := b.tm.CreateTask(ctx, models.CreateTaskRequest{Text: &text, Status: &status})
	if err != nil {
		return b.failure(ctx, err)
	}
	return fmt.Sprintf("Added #%d: %s [%s]", task.ID, task.Text, task.Status)
}

func (b *Bot) listTasks(ctx context.Context) string {
	tasks, err := b.tm.ListTasks(ctx)
	if err != nil {
		return b.failure(ctx, err)
	}
	if len(tasks) == 0 {
		return "The board is empty"
	}

	columns := map[string][]models.Task{}
	var order []string
	for _, task := range tasks {
		if _, ok := columns[task.Status]; !ok {
			order = append(order, task.Status)
		}
		columns[task.Status] = append(columns[task.Status], task)
	}
	sort.Strings(order)

	var sb strings.Builder
	for i, status := range order {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s:\n", status)
		for _, task := range columns[status] {
			fmt.Fprintf(&sb, "  #%d %s\n", task.ID, task.Text)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) moveTask(ctx context.Context, args string) string {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "Usage: /move <id> <status>"
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return "Task id must be a number"
	}

	task, err := b.tm.PatchTask(ctx, id, models.UpdateTaskRequest{Status: &fields[1]})
	if err != nil {
		return b.failure(ctx, err)
	}
	return fmt.Sprintf("Moved #%d to %s", task.ID, task.Status)
}

func (b *Bot) deleteTask(ctx context.Context, args string) string {
	id, err := strconv.Atoi(args)
	if err != nil {
		return "Usage: /delete <id>"
	}
	if err := b.tm.DeleteTask(ctx, id); err != nil {
		return b.failure(ctx, err)
	}
	return fmt.Sprintf("Deleted #%d", id)
}

func (b *Bot) failure(ctx context.Context, err error) string {
	if errors.Is(err, manager.ErrTaskNotFound) {
		return "Task not found"
	}
	logger.Error(ctx, err, "telegram command failed")
	return "Something went wrong, try again later"
}
