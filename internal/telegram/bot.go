package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"concierge-chef/internal/app"
	"concierge-chef/internal/config"
	"concierge-chef/internal/scheduler"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API around the planning application. It is a
// thin front end: every command maps onto one App call and a formatter.
type Bot struct {
	api *tgbotapi.BotAPI
	app *app.App
	cfg *config.Config
}

// NewBot initializes the Telegram Bot and sets the webhook.
func NewBot(cfg *config.Config, application *app.App) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{api: api, app: application, cfg: cfg}, nil
}

// RegisterHandlers registers the webhook handler on the mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}
	if update.Message == nil {
		return
	}

	if !b.allowed(update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	b.handleMessage(r.Context(), update.Message)
}

func (b *Bot) allowed(id int64) bool {
	for _, allowed := range b.cfg.TelegramAllowedUserIDs {
		if id == allowed {
			return true
		}
	}
	return false
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := fmt.Sprintf("%d", msg.From.ID)
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/plan"):
		b.handlePlan(ctx, msg.Chat.ID, userID)
	case strings.HasPrefix(text, "/pantry"):
		b.handlePantry(ctx, msg.Chat.ID, userID)
	case strings.HasPrefix(text, "/shopping"):
		b.handleShopping(ctx, msg.Chat.ID, userID)
	case strings.HasPrefix(text, "/remind"):
		b.handleRemind(ctx, msg.Chat.ID, userID)
	case strings.HasPrefix(text, "/clip"):
		b.handleClip(ctx, msg.Chat.ID, strings.TrimSpace(strings.TrimPrefix(text, "/clip")))
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		b.reply(msg.Chat.ID, "Commands:\n/plan - plan next week's dinners\n/pantry - show what's on hand\n/shopping - show the latest shopping list\n/remind - send cooking reminders for the latest plan\n/clip <url> - import a recipe")
	default:
		b.reply(msg.Chat.ID, "I didn't understand that. Try /help.")
	}
}

func (b *Bot) handlePlan(ctx context.Context, chatID int64, userID string) {
	weekStart := nextMonday(time.Now())
	plan, err := b.app.PlanWeek(ctx, userID, weekStart)
	if err != nil {
		log.Printf("Plan run failed for %s: %v", userID, err)
		b.reply(chatID, fmt.Sprintf("Couldn't plan the week: %v", err))
		return
	}

	b.reply(chatID, FormatPlan(plan))

	reminders := scheduler.Reminders(plan, time.Local)
	b.reply(chatID, FormatReminders(reminders))
}

func (b *Bot) handlePantry(ctx context.Context, chatID int64, userID string) {
	entries, err := b.app.PantryRepo().List(ctx, userID)
	if err != nil {
		log.Printf("Pantry lookup failed for %s: %v", userID, err)
		b.reply(chatID, "Couldn't read the pantry.")
		return
	}
	b.reply(chatID, FormatPantry(entries))
}

func (b *Bot) handleShopping(ctx context.Context, chatID int64, userID string) {
	plan, err := b.app.PlanRepo().Latest(ctx, userID)
	if err != nil {
		log.Printf("Plan lookup failed for %s: %v", userID, err)
		b.reply(chatID, "Couldn't read the latest plan.")
		return
	}
	if plan == nil {
		b.reply(chatID, "No plan yet. Run /plan first.")
		return
	}
	b.reply(chatID, FormatShoppingList(plan))
}

func (b *Bot) handleRemind(ctx context.Context, chatID int64, userID string) {
	plan, err := b.app.PlanRepo().Latest(ctx, userID)
	if err != nil {
		log.Printf("Plan lookup failed for %s: %v", userID, err)
		b.reply(chatID, "Couldn't read the latest plan.")
		return
	}
	if plan == nil {
		b.reply(chatID, "No plan yet. Run /plan first.")
		return
	}

	reminders := scheduler.Reminders(plan, time.Local)
	if err := scheduler.Dispatch(ctx, b.NewNotifier(chatID), reminders); err != nil {
		log.Printf("Reminder dispatch failed for %s: %v", userID, err)
		b.reply(chatID, "Couldn't deliver all reminders.")
	}
}

func (b *Bot) handleClip(ctx context.Context, chatID int64, url string) {
	if url == "" {
		b.reply(chatID, "Usage: /clip <url>")
		return
	}
	rec, err := b.app.ImportRecipe(ctx, url)
	if err != nil {
		log.Printf("Clip failed for %s: %v", url, err)
		b.reply(chatID, fmt.Sprintf("Couldn't import that recipe: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Imported %q with %d ingredients.", rec.Title, len(rec.Requirements)))
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

// Notifier implements scheduler.Notifier by messaging the household
// chat.
type Notifier struct {
	send   func(c tgbotapi.Chattable) (tgbotapi.Message, error)
	chatID int64
}

// NewNotifier creates a reminder notifier for a chat.
func (b *Bot) NewNotifier(chatID int64) *Notifier {
	return &Notifier{send: b.api.Send, chatID: chatID}
}

// Notify sends one reminder message.
func (n *Notifier) Notify(_ context.Context, r scheduler.Reminder) error {
	text := fmt.Sprintf("%s (%s)\n%s", r.Title, r.At.Format("Mon 15:04"), r.Note)
	if _, err := n.send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

// nextMonday returns the Monday strictly after t's date.
func nextMonday(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	days := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return t.AddDate(0, 0, days)
}
