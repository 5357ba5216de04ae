package models

import "github.com/shopspring/decimal"

// TradeConstraints bounds what a trader can put into a single trade. The
// values come from the channel state of the counterparty: either the usable
// channel balance or, if no channel exists yet, the on-chain balance minus
// the estimated fee reserve for opening one.
type TradeConstraints struct {
	MaxLocalMarginSats        int64
	MaxCounterpartyMarginSats int64
	CoordinatorLeverage       decimal.Decimal
	MinQuantity               decimal.Decimal
	// IsChannelBalance is false when the trade would open a new channel and
	// on-chain fees still have to be reserved.
	IsChannelBalance       bool
	OnChainFeeEstimateSats int64
}
