package common

import (
	"time"

	"github.com/tickworks/minbar/pkg/utility/fixed"
)

// Bar is one 1-minute window of one symbol-day. Constructed by the reducer,
// mutated in place only by the sequential enricher, immutable afterwards.
type Bar struct {
	TradingDate int
	Symbol      string
	SecurityID  string
	TimeStamp   time.Time

	Open  fixed.Point
	High  fixed.Point
	Low   fixed.Point
	Close fixed.Point

	Volume fixed.Point
	Amount fixed.Point

	BuyVolume  fixed.Point
	SellVolume fixed.Point

	// Session-cumulative as of window end. Source-reported point-in-time
	// value when the feed carries one, otherwise a running sum.
	TotalVolume fixed.Point
	TotalAmount fixed.Point

	OpenInterest   fixed.Point
	PositionChange fixed.Point

	TickCount int

	OpenLongCount   int
	OpenShortCount  int
	CloseLongCount  int
	CloseShortCount int

	// Last-observed-in-window depth snapshot.
	Bids [DepthLevels]Level
	Asks [DepthLevels]Level

	OrderDiff   fixed.Point
	OrderRate   fixed.Point
	VolumeRatio fixed.Point

	NightSession bool

	// Approximations derived from the session open when the source has no
	// authoritative settlement fields.
	SettlePrice    fixed.Point
	PreSettlePrice fixed.Point
	PreClosePrice  fixed.Point
	PriceUpLimit   fixed.Point
	PriceDownLimit fixed.Point
}
