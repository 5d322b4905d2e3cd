package providers

import (
	"clanwatch/internal/structures"
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NotifierInterface delivers one formatted message to a chat group.
type NotifierInterface interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

func (n *TelegramNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send to %d: %w", chatID, err)
	}
	return nil
}

// logNotifier is used when no bot token is configured; messages only reach the log.
type logNotifier struct {
	logger Logger
}

func (n *logNotifier) SendMessage(_ context.Context, chatID int64, text string) error {
	n.logger.Infof(TypeReminder, "notification for chat %d (telegram disabled): %s", chatID, text)
	return nil
}

func NewNotifierProvider(conf *structures.Config, logger Logger) (NotifierInterface, error) {
	if conf.Telegram.Token == "" {
		logger.Warnf(TypeApp, "Telegram token not set, reminders are logged only")
		return &logNotifier{logger: logger}, nil
	}

	endpoint := conf.Telegram.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := &http.Client{Timeout: 15 * time.Second}
	bot, err := tgbotapi.NewBotAPIWithClient(conf.Telegram.Token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	logger.Infof(TypeApp, "Telegram bot authorized as @%s", bot.Self.UserName)

	return &TelegramNotifier{bot: bot}, nil
}
