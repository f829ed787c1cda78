package common

import (
	"time"

	"github.com/tickworks/minbar/pkg/utility/fixed"
)

// DepthLevels is the number of order-book levels carried per side.
const DepthLevels = 5

type Side uint8

const (
	SideUnknown Side = iota
	SideBuy
	SideSell
	SideNeutral
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	case SideNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// Level is one standing order-book level. HasPrice distinguishes a quoted
// zero from an absent quote.
type Level struct {
	Price    fixed.Point
	HasPrice bool
	Volume   fixed.Point
}

// Tick is one normalized exchange print or depth snapshot. Immutable after
// time resolution; later stages only derive aggregates from it.
type Tick struct {
	Sequence  int
	TimeStamp time.Time
	// Suspect marks a record whose time literal was unrecognized and was
	// defaulted to midnight of the trading date.
	Suspect bool

	Price fixed.Point

	TradeVolume fixed.Point
	TradeAmount fixed.Point

	TotalVolume    fixed.Point
	HasTotalVolume bool
	TotalAmount    fixed.Point
	HasTotalAmount bool

	OpenInterest    fixed.Point
	HasOpenInterest bool

	Side      Side
	OpenClose string

	// Per-trade volume already attributed per side at the schema boundary.
	BuyVolume  fixed.Point
	SellVolume fixed.Point

	// Row-level trading date (yyyymmdd), takes precedence over the batch
	// fallback when present.
	TradingDate string

	Bids [DepthLevels]Level
	Asks [DepthLevels]Level
}
