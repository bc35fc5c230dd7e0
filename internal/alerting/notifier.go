package alerting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"goldrates/internal/pricing"
)

// Notification describes a day-over-day gold move worth reporting.
type Notification struct {
	Region        string
	Date          string
	Purity        pricing.Purity
	Currency      string
	Today         decimal.Decimal
	Yesterday     decimal.Decimal
	Change        decimal.Decimal
	PercentChange decimal.Decimal
	ThresholdPct  decimal.Decimal
	Direction     pricing.Direction
	DetectedAt    time.Time
	AdditionalMsg string
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// TelegramNotifier pushes messages through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	client   *resty.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram notifier.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		client:   client,
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify calls sendMessage with the rendered text.
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"chat_id": n.chatID,
			"text":    RenderMessage(note),
		}).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/bot%s/sendMessage", n.botToken))
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("telegram responded %d: %s", resp.StatusCode(), result.Description)
	}
	if !result.OK {
		return fmt.Errorf("telegram returned ok=false: %s", result.Description)
	}

	n.logger.Info().
		Str("region", note.Region).
		Str("date", note.Date).
		Str("purity", string(note.Purity)).
		Str("direction", string(note.Direction)).
		Msg("alert sent (telegram)")
	return nil
}

// RenderMessage formats a notification as plain text.
func RenderMessage(note Notification) string {
	currency := note.Currency
	if currency == "" {
		currency = pricing.DefaultCurrency
	}

	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("[Gold Rate Alert] %s %s\n", strings.ToUpper(note.Region), note.Purity))
	builder.WriteString(fmt.Sprintf("Date: %s\n", note.Date))
	builder.WriteString(fmt.Sprintf("Today: %s%s\n", currency, note.Today.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("Yesterday: %s%s\n", currency, note.Yesterday.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("Change: %s%s (%s%%, threshold %s%%)\n", currency, note.Change.StringFixed(2), note.PercentChange.StringFixed(2), note.ThresholdPct.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("Direction: %s\n", note.Direction))
	if !note.DetectedAt.IsZero() {
		builder.WriteString(fmt.Sprintf("Detected: %s UTC\n", note.DetectedAt.UTC().Format(time.RFC3339)))
	}
	if note.AdditionalMsg != "" {
		builder.WriteString(note.AdditionalMsg)
	}
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
