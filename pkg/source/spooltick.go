package source

import (
	"strconv"
	"time"

	"github.com/tickworks/minbar/pkg/common"
	"github.com/tickworks/minbar/pkg/utility/fixed"
)

// SpoolTick is the fixed-size on-disk form of a normalized tick. Every field
// is 8 bytes wide so the struct carries no padding, a requirement of the
// mmap-backed reader.
type SpoolTick struct {
	TimeStamp    int64
	Sequence     int64
	TradingDate  int64
	Price        float64
	TradeVolume  float64
	TradeAmount  float64
	TotalVolume  float64
	TotalAmount  float64
	OpenInterest float64
	BuyVolume    float64
	SellVolume   float64
	BidPrices    [common.DepthLevels]float64
	BidVolumes   [common.DepthLevels]float64
	AskPrices    [common.DepthLevels]float64
	AskVolumes   [common.DepthLevels]float64
	Flags        uint64
}

const (
	flagTotalVolume = 1 << iota
	flagTotalAmount
	flagOpenInterest
	flagSuspect
	flagOpenLong
	flagOpenShort
	flagCloseLong
	flagCloseShort
	flagOpenBoth
	flagCloseBoth
	// Side occupies the two bits above, see sideShift.
)

const (
	sideShift = 10
	sideMask  = 0x3 << sideShift

	flagBidPriceShift = 16
	flagAskPriceShift = 24
)

var openCloseTags = []struct {
	flag uint64
	tag  string
}{
	{flagOpenLong, "多头开仓"},
	{flagOpenShort, "空头开仓"},
	{flagCloseLong, "多头平仓"},
	{flagCloseShort, "空头平仓"},
	{flagOpenBoth, "双开仓"},
	{flagCloseBoth, "双平仓"},
}

func FromTick(tick common.Tick) SpoolTick {
	s := SpoolTick{
		TimeStamp:    tick.TimeStamp.UnixNano(),
		Sequence:     int64(tick.Sequence),
		Price:        pointFloat(tick.Price),
		TradeVolume:  pointFloat(tick.TradeVolume),
		TradeAmount:  pointFloat(tick.TradeAmount),
		TotalVolume:  pointFloat(tick.TotalVolume),
		TotalAmount:  pointFloat(tick.TotalAmount),
		OpenInterest: pointFloat(tick.OpenInterest),
		BuyVolume:    pointFloat(tick.BuyVolume),
		SellVolume:   pointFloat(tick.SellVolume),
	}

	if d, err := strconv.ParseInt(tick.TradingDate, 10, 64); err == nil {
		s.TradingDate = d
	}

	if tick.HasTotalVolume {
		s.Flags |= flagTotalVolume
	}
	if tick.HasTotalAmount {
		s.Flags |= flagTotalAmount
	}
	if tick.HasOpenInterest {
		s.Flags |= flagOpenInterest
	}
	if tick.Suspect {
		s.Flags |= flagSuspect
	}
	s.Flags |= uint64(tick.Side) << sideShift

	for _, entry := range openCloseTags {
		if tick.OpenClose == entry.tag {
			s.Flags |= entry.flag
			break
		}
	}

	for i := 0; i < common.DepthLevels; i++ {
		s.BidPrices[i] = pointFloat(tick.Bids[i].Price)
		s.BidVolumes[i] = pointFloat(tick.Bids[i].Volume)
		s.AskPrices[i] = pointFloat(tick.Asks[i].Price)
		s.AskVolumes[i] = pointFloat(tick.Asks[i].Volume)
		if tick.Bids[i].HasPrice {
			s.Flags |= 1 << (flagBidPriceShift + i)
		}
		if tick.Asks[i].HasPrice {
			s.Flags |= 1 << (flagAskPriceShift + i)
		}
	}

	return s
}

func (s SpoolTick) ToTick(tick *common.Tick) {
	tick.TimeStamp = time.Unix(0, s.TimeStamp)
	tick.Sequence = int(s.Sequence)
	tick.Price = fixed.FromFloat64(s.Price)
	tick.TradeVolume = fixed.FromFloat64(s.TradeVolume)
	tick.TradeAmount = fixed.FromFloat64(s.TradeAmount)
	tick.TotalVolume = fixed.FromFloat64(s.TotalVolume)
	tick.TotalAmount = fixed.FromFloat64(s.TotalAmount)
	tick.OpenInterest = fixed.FromFloat64(s.OpenInterest)
	tick.BuyVolume = fixed.FromFloat64(s.BuyVolume)
	tick.SellVolume = fixed.FromFloat64(s.SellVolume)

	tick.HasTotalVolume = s.Flags&flagTotalVolume != 0
	tick.HasTotalAmount = s.Flags&flagTotalAmount != 0
	tick.HasOpenInterest = s.Flags&flagOpenInterest != 0
	tick.Suspect = s.Flags&flagSuspect != 0
	tick.Side = common.Side((s.Flags & sideMask) >> sideShift)

	tick.OpenClose = ""
	for _, entry := range openCloseTags {
		if s.Flags&entry.flag != 0 {
			tick.OpenClose = entry.tag
			break
		}
	}

	if s.TradingDate > 0 {
		tick.TradingDate = strconv.FormatInt(s.TradingDate, 10)
	} else {
		tick.TradingDate = ""
	}

	for i := 0; i < common.DepthLevels; i++ {
		tick.Bids[i] = common.Level{
			Price:    fixed.FromFloat64(s.BidPrices[i]),
			HasPrice: s.Flags&(1<<(flagBidPriceShift+i)) != 0,
			Volume:   fixed.FromFloat64(s.BidVolumes[i]),
		}
		tick.Asks[i] = common.Level{
			Price:    fixed.FromFloat64(s.AskPrices[i]),
			HasPrice: s.Flags&(1<<(flagAskPriceShift+i)) != 0,
			Volume:   fixed.FromFloat64(s.AskVolumes[i]),
		}
	}
}

func pointFloat(p fixed.Point) float64 {
	f, _ := p.Float64()
	return f
}
