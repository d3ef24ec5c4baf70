package telegram

import (
	"github.com/samber/lo"
	tb "gopkg.in/tucnak/telebot.v2"
)

const pairColumns = 3

const pairInstructions = "∙ Tap on coin to remove from the list.\n" +
	"∙ Send coin to add to the list.\n" +
	"∙ Type and send 'Done' when you are finished to save your changes.\n"

// renderPairEditor builds the pair editor message: an optional status line,
// the instructions and one remove button per coin.
func renderPairEditor(coins []string, status string) (string, *tb.ReplyMarkup) {
	text := pairInstructions
	if status != "" {
		text = status + "\n\n" + pairInstructions
	}

	buttons := lo.Map(coins, func(coin string, _ int) tb.InlineButton {
		return tb.InlineButton{
			Text: coin,
			Data: CallbackAction{Kind: ActionRemovePair, Symbol: coin}.Data(),
		}
	})

	return text, inlineMarkup(buttons, pairColumns)
}

// inlineMarkup lays buttons out in rows of the given width
func inlineMarkup(buttons []tb.InlineButton, columns int) *tb.ReplyMarkup {
	return &tb.ReplyMarkup{InlineKeyboard: lo.Chunk(buttons, columns)}
}
