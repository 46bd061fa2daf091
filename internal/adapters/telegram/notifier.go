package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/tadawul-sentiment/internal/adapters/config"
	"github.com/selivandex/tadawul-sentiment/pkg/logger"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// Sender is the part of the bot API used for notifications
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier sends watchlist notifications to a Telegram chat
type Notifier struct {
	api             Sender
	chatID          int64
	templateManager *TemplateManager
	now             func() time.Time
}

// NewNotifier creates new Telegram notifier
func NewNotifier(cfg *config.TelegramConfig) (*Notifier, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	bot.Debug = false

	logger.Info("telegram notifier initialized",
		zap.String("bot_username", bot.Self.UserName),
		zap.Int64("chat_id", cfg.ChatID),
	)

	return NewNotifierWithSender(bot, cfg.ChatID)
}

// NewNotifierWithSender builds a notifier around an existing sender
func NewNotifierWithSender(api Sender, chatID int64) (*Notifier, error) {
	tm, err := NewTemplateManager()
	if err != nil {
		return nil, err
	}

	return &Notifier{
		api:             api,
		chatID:          chatID,
		templateManager: tm,
		now:             time.Now,
	}, nil
}

// SendWatchlistAlert notifies that a watched company crossed a threshold
func (n *Notifier) SendWatchlistAlert(ctx context.Context, alert models.WatchlistAlert) error {
	emoji := "🟢"
	if alert.Direction == models.AlertBelow {
		emoji = "🔴"
	}

	data := map[string]interface{}{
		"Emoji":     emoji,
		"Company":   alert.Company,
		"Score":     alert.Score,
		"Bucket":    alert.Bucket,
		"Direction": string(alert.Direction),
		"Threshold": alert.Threshold,
		"Time":      n.now().UTC().Format("2006-01-02 15:04 UTC"),
	}

	msg, err := n.templateManager.ExecuteTemplate(tmplWatchlistAlert, data)
	if err != nil {
		return err
	}

	return n.sendMessageMarkdown(msg)
}

// SendSnapshotSummary posts the daily snapshot headline numbers
func (n *Notifier) SendSnapshotSummary(ctx context.Context, snap models.Snapshot) error {
	data := map[string]interface{}{
		"Companies": len(snap.Companies),
		"Sectors":   len(snap.Sectors),
		"Top":       nil,
		"Bottom":    nil,
	}

	// sectors arrive ordered by average, strongest first
	if k := len(snap.Sectors); k > 0 {
		data["Top"] = snap.Sectors[0]
		if k > 1 {
			data["Bottom"] = snap.Sectors[k-1]
		}
	}

	msg, err := n.templateManager.ExecuteTemplate(tmplSnapshotSummary, data)
	if err != nil {
		return err
	}

	return n.sendMessageMarkdown(msg)
}

func (n *Notifier) sendMessageMarkdown(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.api.Send(msg); err != nil {
		logger.Error("failed to send telegram message",
			zap.Int64("chat_id", n.chatID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}
