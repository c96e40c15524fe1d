// Package notify sends pipeline run reports over Telegram.
package notify

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// RunSummary describes one finished pipeline run.
type RunSummary struct {
	Participants int
	Matches      int
	Combined     int
	Features     int
	Duration     time.Duration
	OutputDir    string
}

// TelegramNotifier posts run summaries to a single chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates the notifier and verifies the bot token.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("failed to get bot info: %w", err)
	}

	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// SendRunSummary posts one message describing the run. Failures here are
// for the caller to log; a missed notification must not fail the run.
func (n *TelegramNotifier) SendRunSummary(summary RunSummary) error {
	text := fmt.Sprintf(
		"🎾 Pipeline run finished\n\n"+
			"Participants: %d\n"+
			"Matches: %d\n"+
			"Combined rows: %d\n"+
			"Feature rows: %d\n"+
			"Duration: %s\n"+
			"Output: %s",
		summary.Participants,
		summary.Matches,
		summary.Combined,
		summary.Features,
		summary.Duration.Round(time.Millisecond),
		summary.OutputDir,
	)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send run summary: %w", err)
	}
	return nil
}
