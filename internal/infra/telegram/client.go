// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"

	"homework_notification_bot/internal/domain/homework"
	domainTelegram "homework_notification_bot/internal/domain/telegram"
)

// Compile-time interface satisfaction check.
var _ domainTelegram.Client = (*TelebotAdapter)(nil)

// chatRecipient keeps the configured chat id opaque: numeric ids and
// @channel usernames are passed to the Bot API unchanged.
type chatRecipient string

func (r chatRecipient) Recipient() string { return string(r) }

// NewBot creates a telebot.Bot without contacting Telegram. A rejected
// token surfaces on the first send instead of at construction time.
func NewBot(token, apiURL string, httpClient *http.Client) (*telebot.Bot, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return telebot.NewBot(telebot.Settings{
		Token:   token,
		URL:     apiURL, // empty means telebot.DefaultApiURL
		Client:  httpClient,
		Offline: true,
	})
}

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot     *telebot.Bot
	chat    chatRecipient
	limiter *rate.Limiter
	logger  *logrus.Entry
}

// NewTelebotAdapter sends every message to chatID. ratePerSec bounds the
// outbound message rate; zero or less disables pacing.
func NewTelebotAdapter(b *telebot.Bot, chatID string, ratePerSec float64, logger *logrus.Entry) *TelebotAdapter {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}
	return &TelebotAdapter{
		bot:     b,
		chat:    chatRecipient(chatID),
		limiter: limiter,
		logger:  logger,
	}
}

// SendMessage sends a text message to the configured chat.
func (tba *TelebotAdapter) SendMessage(ctx context.Context, text string) error {
	if err := tba.limiter.Wait(ctx); err != nil {
		return &homework.Error{Kind: homework.KindDelivery, Op: "wait for send slot", Err: err}
	}

	if _, err := tba.bot.Send(tba.chat, text); err != nil {
		kind := homework.KindDelivery
		if isAuthError(err) {
			kind = homework.KindDeliveryAuth
		}
		return &homework.Error{Kind: kind, Op: "send message", Err: err}
	}

	tba.logger.WithField("chat_id", string(tba.chat)).Info("Message sent to chat")
	return nil
}

// isAuthError reports whether Telegram rejected the bot itself (401) or
// refused it access to the chat (403).
func isAuthError(err error) bool {
	if errors.Is(err, telebot.ErrUnauthorized) {
		return true
	}
	var tbErr *telebot.Error
	if errors.As(err, &tbErr) {
		return tbErr.Code == http.StatusUnauthorized || tbErr.Code == http.StatusForbidden
	}
	// Descriptions telebot does not know come back as "telegram: <description> (<code>)".
	msg := err.Error()
	return strings.HasSuffix(msg, "(401)") || strings.HasSuffix(msg, "(403)")
}
