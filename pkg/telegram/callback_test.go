package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data   string
		action CallbackAction
		ok     bool
	}{
		{"view_config", CallbackAction{Kind: ActionViewConfig}, true},
		{"edit_config", CallbackAction{Kind: ActionEditConfig}, true},
		{"edit_max_open_trades", CallbackAction{Kind: ActionEditMaxTrades}, true},
		{"edit_stake_amount", CallbackAction{Kind: ActionEditStakeAmount}, true},
		{"edit_pairs", CallbackAction{Kind: ActionEditPairs}, true},
		{"x_ETH", CallbackAction{Kind: ActionRemovePair, Symbol: "ETH"}, true},
		{"x_1INCH", CallbackAction{Kind: ActionRemovePair, Symbol: "1INCH"}, true},
		{"x_", CallbackAction{}, false},
		{"max_ETH", CallbackAction{}, false},
		{"VIEW_CONFIG", CallbackAction{}, false},
		{"", CallbackAction{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			action, ok := ParseCallback(tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.action, action)
		})
	}
}

func TestCallbackAction_Data(t *testing.T) {
	for _, data := range []string{"view_config", "edit_config", "edit_max_open_trades", "edit_stake_amount", "edit_pairs", "x_ADA"} {
		action, ok := ParseCallback(data)
		require.True(t, ok)
		assert.Equal(t, data, action.Data())
	}
}

func TestRenderPairEditor(t *testing.T) {
	text, markup := renderPairEditor([]string{"ETH", "LTC", "XRP", "ADA"}, "✔ Added ADA to Whitelist.")

	assert.Equal(t, "✔ Added ADA to Whitelist.\n\n"+pairInstructions, text)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Len(t, markup.InlineKeyboard[0], 3)
	assert.Len(t, markup.InlineKeyboard[1], 1)
	assert.Equal(t, "ADA", markup.InlineKeyboard[1][0].Text)
	assert.Equal(t, "x_ADA", markup.InlineKeyboard[1][0].Data)

	text, markup = renderPairEditor(nil, "")
	assert.Equal(t, pairInstructions, text)
	assert.Empty(t, markup.InlineKeyboard)
}
