package telegram

import (
	"context"
	"fmt"

	tb "gopkg.in/tucnak/telebot.v2"
)

type (
	messageHandler  func(ctx context.Context, m *tb.Message) error
	callbackHandler func(ctx context.Context, c *tb.Callback) error
)

// guardMessage wraps a message handler with the authorization gate
func (t *Telegram) guardMessage(name string, handler messageHandler) func(*tb.Message) {
	return func(m *tb.Message) {
		chatID, ok := chatIDOf(m.Chat, m.Sender)
		t.execute(name, chatID, ok, func(ctx context.Context) error {
			return handler(ctx, m)
		})
	}
}

// guardCallback wraps a callback handler with the authorization gate. The
// callback is attributed to the chat of the message holding the button.
func (t *Telegram) guardCallback(name string, handler callbackHandler) func(*tb.Callback) {
	return func(c *tb.Callback) {
		var chat *tb.Chat
		if c.Message != nil {
			chat = c.Message.Chat
		}
		chatID, ok := chatIDOf(chat, c.Sender)
		t.execute(name, chatID, ok, func(ctx context.Context) error {
			return handler(ctx, c)
		})
	}
}

// execute runs fn for the authorized chat only, one event at a time. Handler
// errors and panics stop here.
func (t *Telegram) execute(name string, chatID int64, known bool, fn func(ctx context.Context) error) {
	if !known || chatID != t.settings.Telegram.ChatID {
		t.log.WithFields(map[string]any{"handler": name, "chat_id": chatID}).Warn("rejected unauthorized message")
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	log := t.log.WithFields(map[string]any{"handler": name, "chat_id": chatID})
	log.Info("executing handler")

	defer func() {
		if r := recover(); r != nil {
			log.WithError(fmt.Errorf("panic: %v", r)).Error("handler crashed")
		}
	}()

	if err := fn(context.Background()); err != nil {
		log.WithError(err).Error("handler failed")
	}
}
