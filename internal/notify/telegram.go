package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tiktok-bulk-scheduler/internal/model"
)

// Notifier sends the run summary to a Telegram chat. It is optional:
// callers skip it entirely when the bot token or chat id is unset.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// SendSummary posts one message with the tally and any failed items.
func (n *Notifier) SendSummary(sum *model.RunSummary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "TikTok bulk scheduling finished: %d total, %d ok, %d failed\n",
		sum.Total(), sum.Succeeded(), sum.Failed())
	for _, res := range sum.Failures() {
		fmt.Fprintf(&b, "✗ %s: %v\n", res.Request.VideoPath, res.Err)
	}

	msg := tgbotapi.NewMessage(n.chatID, b.String())
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
