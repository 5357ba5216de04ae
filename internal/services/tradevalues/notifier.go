package tradevalues

import (
	"log/slog"
	"sync"

	"TradeEngine/internal/domain/models"

	"github.com/shopspring/decimal"
)

// Notifier owns one TradeValues per direction and fans out change
// notifications. Every mutation entry point fires exactly one notification
// per externally visible change: a tick that moves both sides still
// notifies once, a tick that moves neither does not notify at all.
//
// All access to the two instances is serialized through the notifier's
// mutex, so a reader can never observe a partially recomputed side.
type Notifier struct {
	log *slog.Logger

	mu    sync.Mutex
	long  *TradeValues
	short *TradeValues

	subscribers []func()
}

func NewNotifier(log *slog.Logger, calc Calculator, quantity, leverage decimal.Decimal, primary PrimaryField) *Notifier {
	return &Notifier{
		log:   log,
		long:  NewTradeValues(calc, models.Long, primary, quantity, leverage),
		short: NewTradeValues(calc, models.Short, primary, quantity, leverage),
	}
}

// Subscribe registers a callback invoked after every state change. Not safe
// to call concurrently with mutations; register subscribers during setup.
func (n *Notifier) Subscribe(fn func()) {
	n.subscribers = append(n.subscribers, fn)
}

// FromDirection returns a consistent snapshot of the given side.
func (n *Notifier) FromDirection(direction models.Direction) Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.values(direction).Snapshot()
}

// UpdatePrice applies a tick: the ask to the long side, the bid to the short
// side. Sides whose price did not move are left untouched.
func (n *Notifier) UpdatePrice(tick models.PriceTick) {
	n.mu.Lock()

	changed := false
	if tick.Ask != nil && priceChanged(n.long.price, *tick.Ask) {
		n.long.UpdatePrice(*tick.Ask)
		changed = true
	}
	if tick.Bid != nil && priceChanged(n.short.price, *tick.Bid) {
		n.short.UpdatePrice(*tick.Bid)
		changed = true
	}

	n.mu.Unlock()

	if changed {
		n.log.Debug("price tick applied", "symbol", tick.Symbol)
		n.notify()
	}
}

func (n *Notifier) UpdateQuantity(direction models.Direction, quantity decimal.Decimal) {
	n.mu.Lock()
	n.values(direction).UpdateQuantity(quantity)
	n.mu.Unlock()
	n.notify()
}

func (n *Notifier) UpdateContracts(direction models.Direction, contracts decimal.Decimal) {
	n.mu.Lock()
	n.values(direction).UpdateContracts(contracts)
	n.mu.Unlock()
	n.notify()
}

func (n *Notifier) UpdateMargin(direction models.Direction, marginSats decimal.Decimal) {
	n.mu.Lock()
	n.values(direction).UpdateMargin(marginSats)
	n.mu.Unlock()
	n.notify()
}

func (n *Notifier) UpdateLeverage(direction models.Direction, leverage decimal.Decimal) {
	n.mu.Lock()
	n.values(direction).UpdateLeverage(leverage)
	n.mu.Unlock()
	n.notify()
}

func (n *Notifier) UpdateOpenQuantity(direction models.Direction, openQuantity decimal.Decimal) {
	n.mu.Lock()
	n.values(direction).UpdateOpenQuantity(openQuantity)
	n.mu.Unlock()
	n.notify()
}

// OrderMatchingFee returns the current fee estimate for a side, nil while no
// price is known.
func (n *Notifier) OrderMatchingFee(direction models.Direction) *decimal.Decimal {
	n.mu.Lock()
	defer n.mu.Unlock()

	return copyDecimal(n.values(direction).fee)
}

// CounterpartyMargin previews the collateral the counterparty would need to
// put up against this side's trade at its own leverage. Pure calculation, no
// state is touched.
func (n *Notifier) CounterpartyMargin(direction models.Direction, leverage decimal.Decimal) *decimal.Decimal {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.values(direction).MarginAt(leverage)
}

func (n *Notifier) values(direction models.Direction) *TradeValues {
	if direction == models.Short {
		return n.short
	}
	return n.long
}

func (n *Notifier) notify() {
	for _, fn := range n.subscribers {
		fn()
	}
}

func priceChanged(current *decimal.Decimal, incoming decimal.Decimal) bool {
	return current == nil || !current.Equal(incoming)
}
