package resample

import (
	"strconv"
	"strings"

	"github.com/tickworks/minbar/pkg/common"
)

// Open/close intent tags as reported by the exchange feed. A double-open or
// double-close counts toward both the long and short variant.
const (
	tagOpenLong   = "多头开仓"
	tagOpenShort  = "空头开仓"
	tagCloseLong  = "多头平仓"
	tagCloseShort = "空头平仓"
	tagOpenBoth   = "双开仓"
	tagCloseBoth  = "双平仓"
)

// Reducer folds minute buckets into bars. It remembers whether any bucket
// failed to yield a source cumulative value, which drives the enricher's
// all-or-nothing column fallback.
type Reducer struct {
	missingTotalVolume bool
	missingTotalAmount bool
}

func NewReducer() *Reducer {
	return &Reducer{}
}

func (r *Reducer) MissingTotalVolume() bool { return r.missingTotalVolume }
func (r *Reducer) MissingTotalAmount() bool { return r.missingTotalAmount }

// Reduce folds one ordered minute group into a single bar.
func (r *Reducer) Reduce(bucket Bucket, bctx common.BatchContext, diag *common.Diagnostics) common.Bar {
	ticks := bucket.Ticks
	first := ticks[0]

	bar := common.Bar{
		TimeStamp:   bucket.Minute,
		Symbol:      bctx.Symbol,
		TradingDate: tradingDateOf(first, bctx),
		Open:        first.Price,
		High:        first.Price,
		Low:         first.Price,
		Close:       first.Price,
		TickCount:   len(ticks),
	}

	haveTotalVolume := false
	haveTotalAmount := false

	for i := range ticks {
		tick := &ticks[i]

		if tick.Price.Gt(bar.High) {
			bar.High = tick.Price
		}
		if tick.Price.Lt(bar.Low) {
			bar.Low = tick.Price
		}
		bar.Close = tick.Price

		bar.Volume = bar.Volume.Add(tick.TradeVolume)
		bar.Amount = bar.Amount.Add(tick.TradeAmount)
		bar.BuyVolume = bar.BuyVolume.Add(tick.BuyVolume)
		bar.SellVolume = bar.SellVolume.Add(tick.SellVolume)

		// Cumulative fields are point-in-time snapshots, the last reported
		// value in the window wins.
		if tick.HasTotalVolume {
			bar.TotalVolume = tick.TotalVolume
			haveTotalVolume = true
		}
		if tick.HasTotalAmount {
			bar.TotalAmount = tick.TotalAmount
			haveTotalAmount = true
		}
		if tick.HasOpenInterest {
			bar.OpenInterest = tick.OpenInterest
		}

		countOpenClose(tick.OpenClose, &bar)
	}

	reduceDepth(ticks, &bar)

	if !haveTotalVolume {
		r.missingTotalVolume = true
	}
	if !haveTotalAmount {
		r.missingTotalAmount = true
	}

	if bar.Open.Eq(bar.High) && bar.High.Eq(bar.Low) && bar.Low.Eq(bar.Close) {
		diag.DegenerateBars++
	}

	return bar
}

// reduceDepth snapshots the last observed value of every book level,
// independently per level. A level never quoted in the window stays a null
// price with zero volume.
func reduceDepth(ticks []common.Tick, bar *common.Bar) {
	for level := 0; level < common.DepthLevels; level++ {
		for i := len(ticks) - 1; i >= 0; i-- {
			if ticks[i].Bids[level].HasPrice {
				bar.Bids[level] = ticks[i].Bids[level]
				break
			}
		}
		for i := len(ticks) - 1; i >= 0; i-- {
			if ticks[i].Asks[level].HasPrice {
				bar.Asks[level] = ticks[i].Asks[level]
				break
			}
		}
	}
}

func countOpenClose(tag string, bar *common.Bar) {
	if tag == "" {
		return
	}
	if strings.Contains(tag, tagOpenLong) || strings.Contains(tag, tagOpenBoth) {
		bar.OpenLongCount++
	}
	if strings.Contains(tag, tagOpenShort) || strings.Contains(tag, tagOpenBoth) {
		bar.OpenShortCount++
	}
	if strings.Contains(tag, tagCloseLong) || strings.Contains(tag, tagCloseBoth) {
		bar.CloseLongCount++
	}
	if strings.Contains(tag, tagCloseShort) || strings.Contains(tag, tagCloseBoth) {
		bar.CloseShortCount++
	}
}

func tradingDateOf(tick common.Tick, bctx common.BatchContext) int {
	if d, err := strconv.Atoi(strings.TrimSpace(tick.TradingDate)); err == nil && d > 0 {
		return d
	}
	if d, err := strconv.Atoi(strings.TrimSpace(bctx.TradingDate)); err == nil && d > 0 {
		return d
	}
	return 0
}
