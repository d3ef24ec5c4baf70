package telegram

import "strings"

// ActionKind identifies an inline button action
type ActionKind int

const (
	ActionViewConfig ActionKind = iota + 1
	ActionEditConfig
	ActionEditMaxTrades
	ActionEditStakeAmount
	ActionEditPairs
	ActionRemovePair
)

// Callback payloads attached to inline buttons
const (
	dataViewConfig      = "view_config"
	dataEditConfig      = "edit_config"
	dataEditMaxTrades   = "edit_max_open_trades"
	dataEditStakeAmount = "edit_stake_amount"
	dataEditPairs       = "edit_pairs"
	removePairPrefix    = "x_"
)

var fixedActions = map[string]ActionKind{
	dataViewConfig:      ActionViewConfig,
	dataEditConfig:      ActionEditConfig,
	dataEditMaxTrades:   ActionEditMaxTrades,
	dataEditStakeAmount: ActionEditStakeAmount,
	dataEditPairs:       ActionEditPairs,
}

// CallbackAction is the parsed payload of an inline button press.
// Symbol is only set for ActionRemovePair.
type CallbackAction struct {
	Kind   ActionKind
	Symbol string
}

// ParseCallback maps raw callback data to an action. Unknown payloads are rejected.
func ParseCallback(data string) (CallbackAction, bool) {
	if kind, ok := fixedActions[data]; ok {
		return CallbackAction{Kind: kind}, true
	}

	if symbol, ok := strings.CutPrefix(data, removePairPrefix); ok && symbol != "" {
		return CallbackAction{Kind: ActionRemovePair, Symbol: symbol}, true
	}

	return CallbackAction{}, false
}

// Data encodes the action back into callback data.
func (a CallbackAction) Data() string {
	if a.Kind == ActionRemovePair {
		return removePairPrefix + a.Symbol
	}
	for data, kind := range fixedActions {
		if kind == a.Kind {
			return data
		}
	}
	return ""
}

func (k ActionKind) String() string {
	switch k {
	case ActionViewConfig:
		return "view_config"
	case ActionEditConfig:
		return "edit_config"
	case ActionEditMaxTrades:
		return "edit_max_trades"
	case ActionEditStakeAmount:
		return "edit_stake_amount"
	case ActionEditPairs:
		return "edit_pairs"
	case ActionRemovePair:
		return "remove_pair"
	default:
		return "unknown"
	}
}
