package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceTick carries the best prices for a contract symbol. Ask applies to the
// long side, bid to the short side. A nil side means the orderbook currently
// has no price for it.
type PriceTick struct {
	Symbol    string           `json:"symbol"`
	Bid       *decimal.Decimal `json:"bid"`
	Ask       *decimal.Decimal `json:"ask"`
	Timestamp time.Time        `json:"timestamp"`
}

// BookTicker is the raw bid/ask answer of the binance bookTicker endpoint.
type BookTicker struct {
	Symbol   string          `json:"symbol"`
	BidPrice decimal.Decimal `json:"bidPrice"`
	AskPrice decimal.Decimal `json:"askPrice"`
}

func (b BookTicker) Tick() PriceTick {
	bid := b.BidPrice
	ask := b.AskPrice
	return PriceTick{
		Symbol:    b.Symbol,
		Bid:       &bid,
		Ask:       &ask,
		Timestamp: time.Now().UTC(),
	}
}
