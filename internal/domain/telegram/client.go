package telegram

import "context"

// Client sends text messages to the configured Telegram chat.
// This keeps the poll loop independent of the bot library.
//
// Errors are *homework.Error of KindDeliveryAuth when the bot credential is
// rejected and KindDelivery for every other failure.
type Client interface {
	SendMessage(ctx context.Context, text string) error
}
