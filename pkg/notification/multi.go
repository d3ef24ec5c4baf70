package notification

import "github.com/raykavin/tradectl/pkg/core"

// Multi fans every notification out to all notifiers, in order.
type Multi []core.Notifier

func (m Multi) Notify(text string) {
	for _, notifier := range m {
		notifier.Notify(text)
	}
}

func (m Multi) OnTrade(trade core.Trade) {
	for _, notifier := range m {
		notifier.OnTrade(trade)
	}
}

func (m Multi) OnError(err error) {
	for _, notifier := range m {
		notifier.OnError(err)
	}
}
