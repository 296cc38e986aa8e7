// Package notify delivers correlation reports to operators over Telegram.
package notify

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/akulov/oddsgrid/internal/pkg/correlate"
)

// Min interval between any two Telegram messages to the same chat to avoid 429 Too Many Requests (~30/min limit).
const telegramSendInterval = 2 * time.Second

// TelegramNotifier sends correlation run summaries to a chat. A nil notifier
// is valid and drops everything, so callers don't have to branch on whether
// Telegram is configured.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramNotifier creates a notifier, or nil if the bot cannot be reached.
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("Failed to get bot info", "error", err)
		return nil
	}

	slog.Info("Telegram notifier initialized", "chat_id", chatID)
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

// SendCorrelationReport formats and sends one report. Safe on a nil receiver.
func (n *TelegramNotifier) SendCorrelationReport(report *correlate.Report) error {
	if n == nil {
		return nil
	}

	text := formatReport(report)

	n.mu.Lock()
	if wait := telegramSendInterval - time.Since(n.lastSend); wait > 0 {
		time.Sleep(wait)
	}
	n.lastSend = time.Now()
	n.mu.Unlock()

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

func formatReport(report *correlate.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Correlation run %s vs %s</b>\n", report.SourceA, report.SourceB)
	fmt.Fprintf(&b, "Matched: %d / %d (%.1f%%)\n",
		report.Matched, report.TotalA, report.MatchRate)

	shown := 0
	for _, c := range report.Comparisons {
		if !c.Accepted {
			continue
		}
		if shown >= 10 {
			fmt.Fprintf(&b, "... and %d more\n", report.Matched-shown)
			break
		}
		fmt.Fprintf(&b, "%.2f  %s vs %s\n", c.Similarity, c.MatchA.MatchID, c.MatchB.MatchID)
		shown++
	}

	for _, line := range report.Insights {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
