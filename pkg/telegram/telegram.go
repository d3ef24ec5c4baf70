// Package telegram implements the chat remote control of the trader: command
// routing, the authorization gate, the config edit conversation and message delivery.
package telegram

import (
	"fmt"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/raykavin/tradectl/pkg/core"
	"github.com/raykavin/tradectl/pkg/logger"
	"github.com/samber/lo"
	tb "gopkg.in/tucnak/telebot.v2"
)

const (
	defaultPollTimeout = 10 * time.Second
	defaultRetryDelay  = time.Second
)

// Client is the part of *tb.Bot the router uses to talk to the chat.
type Client interface {
	Send(to tb.Recipient, what interface{}, options ...interface{}) (*tb.Message, error)
	Edit(msg tb.Editable, what interface{}, options ...interface{}) (*tb.Message, error)
	Respond(c *tb.Callback, resp ...*tb.CallbackResponse) error
}

// Telegram implements the core.NotifierWithStart interface
type Telegram struct {
	settings *core.Settings
	backend  core.Backend
	store    core.ConfigStore
	log      logger.Logger

	bot     *tb.Bot
	client  Client
	menu    *tb.ReplyMarkup
	backoff *backoff.Backoff
	version string

	session *Session
	mu      sync.Mutex
}

// Option is a function that configures a Telegram instance
type Option func(*Telegram)

// WithClient replaces the telebot client, the router then does not poll by itself.
func WithClient(client Client) Option {
	return func(t *Telegram) {
		t.client = client
	}
}

// WithRetryBackoff sets the delay policy applied before resending a message.
func WithRetryBackoff(b *backoff.Backoff) Option {
	return func(t *Telegram) {
		t.backoff = b
	}
}

// WithVersion sets the version reported by /version
func WithVersion(version string) Option {
	return func(t *Telegram) {
		t.version = version
	}
}

// New creates the chat router. A disabled router is returned as is and never
// touches the network.
func New(settings *core.Settings, backend core.Backend, store core.ConfigStore, log logger.Logger, options ...Option) (*Telegram, error) {
	retryDelay := settings.Telegram.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	t := &Telegram{
		settings: settings,
		backend:  backend,
		store:    store,
		log:      log.WithField("component", "telegram"),
		menu:     quickMenu(),
		backoff:  &backoff.Backoff{Min: retryDelay, Max: 10 * retryDelay, Factor: 2},
		version:  "dev",
		session:  NewSession(),
	}

	for _, option := range options {
		option(t)
	}

	if !t.enabled() || t.client != nil {
		return t, nil
	}

	pollTimeout := settings.Telegram.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}
	poller := tb.NewMiddlewarePoller(&tb.LongPoller{Timeout: pollTimeout}, t.acceptUpdate)

	bot, err := tb.NewBot(tb.Settings{
		Token:       settings.Telegram.Token,
		Poller:      poller,
		Synchronous: true,
		Reporter: func(err error) {
			t.log.WithError(err).Error("telegram poller failure")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	if err := bot.SetCommands(t.botCommands()); err != nil {
		return nil, fmt.Errorf("failed to set commands: %w", err)
	}

	t.bot = bot
	t.client = bot
	t.registerHandlers()

	return t, nil
}

// acceptUpdate drops update kinds the router has no handler for
func (t *Telegram) acceptUpdate(u *tb.Update) bool {
	if u.Message != nil || u.Callback != nil {
		return true
	}
	t.log.WithField("update_id", u.ID).Debug("ignoring unsupported update")
	return false
}

// registerHandlers registers all command, callback and text handlers
func (t *Telegram) registerHandlers() {
	for endpoint, handler := range t.endpoints() {
		t.bot.Handle(endpoint, handler)
	}
}

// endpoints maps every telebot endpoint to its gated handler.
func (t *Telegram) endpoints() map[string]interface{} {
	endpoints := make(map[string]interface{}, len(t.commands())+2)
	for _, cmd := range t.commands() {
		endpoints["/"+cmd.token] = t.guardMessage(cmd.token, cmd.handle)
	}
	endpoints[tb.OnCallback] = t.guardCallback("callback", t.callbackHandle)
	endpoints[tb.OnText] = t.guardMessage("message", t.textHandle)
	return endpoints
}

func (t *Telegram) botCommands() []tb.Command {
	return lo.Map(t.commands(), func(cmd command, _ int) tb.Command {
		return tb.Command{Text: cmd.token, Description: cmd.description}
	})
}

func (t *Telegram) enabled() bool {
	return t.settings.Telegram.Enabled
}

func (t *Telegram) chat() tb.Recipient {
	return &tb.Chat{ID: t.settings.Telegram.ChatID}
}

// Session exposes the conversation state.
func (t *Telegram) Session() *Session {
	return t.session
}

// Start begins polling for updates
func (t *Telegram) Start() {
	if !t.enabled() {
		return
	}

	tokens := lo.Map(t.commands(), func(cmd command, _ int) string { return cmd.token })
	t.log.WithField("commands", tokens).Info("telegram is listening for commands")

	if t.bot != nil {
		go t.bot.Start()
	}
}

// Cleanup stops polling
func (t *Telegram) Cleanup() {
	if !t.enabled() || t.bot == nil {
		return
	}
	t.bot.Stop()
}

// Notify sends a Markdown message to the configured chat
func (t *Telegram) Notify(text string) {
	t.SendMessage(text, tb.ModeMarkdown)
}

// OnTrade notifies the chat about an opened or closed trade
func (t *Telegram) OnTrade(trade core.Trade) {
	t.SendMessage(formatTradeEvent(trade, t.settings.StakeCurrency), tb.ModeMarkdown)
}

// OnError notifies the chat about a backend failure
func (t *Telegram) OnError(err error) {
	t.SendMessage("🛑 ERROR\n-----\n"+err.Error(), tb.ModeDefault)
}

func chatIDOf(chat *tb.Chat, sender *tb.User) (int64, bool) {
	if chat != nil {
		return chat.ID, true
	}
	if sender != nil {
		return int64(sender.ID), true
	}
	return 0, false
}
