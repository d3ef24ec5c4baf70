package telegram

import (
	"errors"
	"io"
	"net"
	"syscall"
	"time"

	tb "gopkg.in/tucnak/telebot.v2"
)

// quickMenu is the reply keyboard attached to every plain message
func quickMenu() *tb.ReplyMarkup {
	menu := &tb.ReplyMarkup{ResizeReplyKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text("/daily"), menu.Text("/profit"), menu.Text("/balance"), menu.Text("/config")),
		menu.Row(menu.Text("/status"), menu.Text("/status table"), menu.Text("/performance")),
		menu.Row(menu.Text("/count"), menu.Text("/start"), menu.Text("/stop"), menu.Text("/help")),
	)
	return menu
}

// SendMessage sends text to the configured chat with the quick command keyboard.
// Failures are logged, never returned.
func (t *Telegram) SendMessage(text string, parseMode tb.ParseMode) {
	t.send(text, &tb.SendOptions{ParseMode: parseMode, ReplyMarkup: t.menu})
}

// sendInline sends text with an inline keyboard instead of the quick menu
func (t *Telegram) sendInline(text string, markup *tb.ReplyMarkup, parseMode tb.ParseMode) {
	t.send(text, &tb.SendOptions{ParseMode: parseMode, ReplyMarkup: markup})
}

func (t *Telegram) send(text string, options *tb.SendOptions) {
	if !t.enabled() || t.client == nil {
		return
	}
	t.deliver("send", func() error {
		_, err := t.client.Send(t.chat(), text, options)
		return err
	})
}

// editOrSend replaces the content of origin, or sends a new message when the
// callback carried no message.
func (t *Telegram) editOrSend(origin *tb.Message, text string, options *tb.SendOptions) {
	if origin == nil {
		t.send(text, options)
		return
	}
	if !t.enabled() || t.client == nil {
		return
	}
	t.deliver("edit", func() error {
		_, err := t.client.Edit(origin, text, options)
		return err
	})
}

// deliver calls attempt, and once more after a pause when the first failure
// is a network error.
func (t *Telegram) deliver(operation string, attempt func() error) {
	err := attempt()
	if err == nil {
		return
	}

	log := t.log.WithField("operation", operation)
	if !isTransient(err) {
		log.WithError(err).Warn("telegram error, giving up on that message")
		return
	}

	delay := t.retryDelay()
	log.WithError(err).WithField("retry_in", delay.String()).Warn("telegram network error, trying one more time")
	time.Sleep(delay)

	if err := attempt(); err != nil {
		log.WithError(err).Error("telegram retry failed, giving up on that message")
	}
}

func (t *Telegram) retryDelay() time.Duration {
	if t.backoff == nil {
		return 0
	}
	return t.backoff.ForAttempt(0)
}

// isTransient reports connection level failures worth a second attempt
func isTransient(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET)
}
