package telegram

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/StudioSol/set"
	"github.com/raykavin/tradectl/pkg/exchange"
	tb "gopkg.in/tucnak/telebot.v2"
)

// State is the current step of the config edit conversation
type State int

const (
	StateIdle State = iota
	StateAwaitingMaxTrades
	StateAwaitingStakeAmount
	StateAwaitingPairEdit
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingMaxTrades:
		return "awaiting_max_trades"
	case StateAwaitingStakeAmount:
		return "awaiting_stake_amount"
	case StateAwaitingPairEdit:
		return "awaiting_pair_edit"
	default:
		return "unknown"
	}
}

// Session holds the conversation state of the single authorized chat. It is
// only touched from inside the authorization gate, which serializes access.
type Session struct {
	state State
	pairs *set.LinkedHashSetString
}

func NewSession() *Session {
	return &Session{state: StateIdle, pairs: set.NewLinkedHashSetString()}
}

func (s *Session) State() State {
	return s.state
}

// WorkingPairs returns the coins being edited, in insertion order.
func (s *Session) WorkingPairs() []string {
	coins := make([]string, 0, s.pairs.Length())
	for coin := range s.pairs.Iter() {
		coins = append(coins, coin)
	}
	return coins
}

func (s *Session) reset() {
	s.state = StateIdle
	s.pairs = set.NewLinkedHashSetString()
}

// seed starts a pair edit from the configured list, stripping the stake prefix.
func (s *Session) seed(pairs []string) {
	s.pairs = set.NewLinkedHashSetString()
	for _, pair := range pairs {
		s.pairs.Add(exchange.Coin(pair))
	}
	s.state = StateAwaitingPairEdit
}

const (
	promptInvalidNumber = "I don't understand that. Please ensure that you are entering a valid number."
	promptInvalidAmount = "I don't understand that. Please ensure that you are entering a valid amount."
	commitSuccess       = "Success! Please wait while I am saving these changes to config file..."
)

// onCallback handles an authorized inline button press
func (t *Telegram) onCallback(ctx context.Context, origin *tb.Message, action CallbackAction) error {
	switch action.Kind {
	case ActionViewConfig:
		t.viewConfig(origin)
	case ActionEditConfig:
		t.editConfig(origin)
	case ActionEditMaxTrades:
		t.requestInput(StateAwaitingMaxTrades, "max open trades", strconv.Itoa(t.settings.MaxOpenTrades))
	case ActionEditStakeAmount:
		t.requestInput(StateAwaitingStakeAmount, "stake amount", formatAmount(t.settings.StakeAmount))
	case ActionEditPairs:
		t.session.seed(t.settings.EditablePairs())
		text, markup := renderPairEditor(t.session.WorkingPairs(), "")
		t.editOrSend(origin, text, &tb.SendOptions{ReplyMarkup: markup})
	case ActionRemovePair:
		t.removePair(origin, action.Symbol)
	default:
		return fmt.Errorf("unhandled callback action %s", action.Kind)
	}
	return nil
}

// onText handles an authorized free text message according to the conversation state
func (t *Telegram) onText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	switch t.session.state {
	case StateIdle:
		return nil
	case StateAwaitingMaxTrades:
		value, err := strconv.Atoi(text)
		if err != nil || value < 0 {
			t.SendMessage(promptInvalidNumber, tb.ModeMarkdown)
			return nil
		}
		t.settings.MaxOpenTrades = value
		t.commit()
	case StateAwaitingStakeAmount:
		value, err := strconv.ParseFloat(text, 64)
		if err != nil || value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			t.SendMessage(promptInvalidAmount, tb.ModeMarkdown)
			return nil
		}
		t.settings.StakeAmount = value
		t.commit()
	case StateAwaitingPairEdit:
		return t.editPairs(ctx, text)
	default:
		return fmt.Errorf("unhandled conversation state %s", t.session.state)
	}
	return nil
}

// requestInput asks for a new value of a config field and waits for it
func (t *Telegram) requestInput(next State, title, current string) {
	t.session.reset()
	t.session.state = next
	t.SendMessage(fmt.Sprintf("Okay, give me new value for %s.\nCurrent value for %s is <b>%s</b>",
		title, title, current), tb.ModeHTML)
}

// editPairs adds a coin to the working set, or saves the set on "done"
func (t *Telegram) editPairs(ctx context.Context, text string) error {
	label := t.settings.Exchange.ListType.Label()

	if strings.EqualFold(text, "done") {
		pairs := make([]string, 0, t.session.pairs.Length())
		for _, coin := range t.session.WorkingPairs() {
			pairs = append(pairs, exchange.JoinPair(t.settings.StakeCurrency, coin))
		}
		t.settings.SetEditablePairs(pairs)
		t.commit()
		return nil
	}

	coin := strings.ToUpper(text)
	if t.session.pairs.InArray(coin) {
		t.SendMessage(fmt.Sprintf("%s is already added to %s", coin, label), tb.ModeDefault)
		return nil
	}

	pair := exchange.JoinPair(t.settings.StakeCurrency, coin)
	if err := t.backend.ValidatePairs(ctx, []string{pair}); err != nil {
		t.log.WithError(err).WithField("pair", pair).Debug("pair rejected")
		text, markup := renderPairEditor(t.session.WorkingPairs(), "✖ Failure! "+err.Error())
		t.sendInline(text, markup, tb.ModeDefault)
		return nil
	}

	t.session.pairs.Add(coin)
	text, markup := renderPairEditor(t.session.WorkingPairs(), fmt.Sprintf("✔ Added %s to %s.", coin, label))
	t.sendInline(text, markup, tb.ModeDefault)
	return nil
}

// removePair drops a coin from the working set. Buttons of an editor that is
// no longer active count as already removed.
func (t *Telegram) removePair(origin *tb.Message, coin string) {
	if t.session.state != StateAwaitingPairEdit || !t.session.pairs.InArray(coin) {
		t.SendMessage(fmt.Sprintf("%s has already been removed from the list", strings.ToUpper(coin)), tb.ModeDefault)
		return
	}

	t.session.pairs.Remove(coin)
	label := t.settings.Exchange.ListType.Label()
	text, markup := renderPairEditor(t.session.WorkingPairs(),
		fmt.Sprintf("✔ Removed %s from %s.", strings.ToUpper(coin), label))
	t.editOrSend(origin, text, &tb.SendOptions{ReplyMarkup: markup})
}

// commit persists the edited configuration and ends the conversation
func (t *Telegram) commit() {
	defer t.session.reset()

	if err := t.store.Save(t.settings.Snapshot()); err != nil {
		t.log.WithError(err).Error("failed to save config")
		t.SendMessage("Failed to save config: "+err.Error(), tb.ModeDefault)
		return
	}

	t.log.WithField("state", t.session.state.String()).Info("config updated from chat")
	t.SendMessage(commitSuccess, tb.ModeMarkdown)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
