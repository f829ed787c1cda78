package resample

import (
	"strings"
	"unicode"

	"github.com/tickworks/minbar/pkg/common"
	"github.com/tickworks/minbar/pkg/utility/fixed"
)

var (
	upLimitFactor   = fixed.MustFromString("1.1")
	downLimitFactor = fixed.MustFromString("0.9")

	// No historical baseline is computed here, the metric stays a
	// pipeline-supplied placeholder.
	volumeRatioPlaceholder = fixed.One
)

// EnrichOptions selects the all-or-nothing cumulative column policy. When a
// flag is set the whole column is replaced by a running sum, never a per-bar
// mix of source and computed values.
type EnrichOptions struct {
	FallbackTotalVolume bool
	FallbackTotalAmount bool
}

// Enrich walks the ordered bar sequence of one symbol-day once, computing
// every metric that depends on bar-to-bar deltas or session-wide context.
func Enrich(bars []common.Bar, diag *common.Diagnostics, opts EnrichOptions) {
	if len(bars) == 0 {
		return
	}

	sessionOpen := bars[0].Open
	upLimit := sessionOpen.Mul(upLimitFactor)
	downLimit := sessionOpen.Mul(downLimitFactor)

	runningVolume := fixed.Zero
	runningAmount := fixed.Zero
	prevOpenInterest := fixed.Zero

	for i := range bars {
		bar := &bars[i]

		if opts.FallbackTotalVolume {
			runningVolume = runningVolume.Add(bar.Volume)
			bar.TotalVolume = runningVolume
		}
		if opts.FallbackTotalAmount {
			runningAmount = runningAmount.Add(bar.Amount)
			bar.TotalAmount = runningAmount
		}

		if i == 0 {
			bar.PositionChange = fixed.Zero
		} else {
			bar.PositionChange = bar.OpenInterest.Sub(prevOpenInterest)
		}
		prevOpenInterest = bar.OpenInterest

		hour := bar.TimeStamp.Hour()
		bar.NightSession = hour >= 21 || hour < 3

		bar.SecurityID = securityID(bar.Symbol)

		enrichDepth(bar)

		bar.VolumeRatio = volumeRatioPlaceholder

		// Approximated from the session open, the feed carries no
		// authoritative settlement or limit fields.
		bar.PreClosePrice = sessionOpen
		bar.PreSettlePrice = sessionOpen
		bar.SettlePrice = bar.Close
		bar.PriceUpLimit = upLimit
		bar.PriceDownLimit = downLimit
	}

	diag.CumulativeFallback = opts.FallbackTotalVolume || opts.FallbackTotalAmount
	diag.ReferencePricesEstimated = true
}

// enrichDepth computes the standing-depth imbalance. The rate is clamped to
// [-1, 1] and defined as zero when the book is empty on both sides.
func enrichDepth(bar *common.Bar) {
	totalBuy := fixed.Zero
	totalSell := fixed.Zero
	for level := 0; level < common.DepthLevels; level++ {
		totalBuy = totalBuy.Add(bar.Bids[level].Volume)
		totalSell = totalSell.Add(bar.Asks[level].Volume)
	}

	bar.OrderDiff = totalBuy.Sub(totalSell)

	denominator := totalBuy.Add(totalSell)
	if denominator.IsZero() {
		bar.OrderRate = fixed.Zero
		return
	}
	bar.OrderRate = fixed.Clamp(bar.OrderDiff.Div(denominator), fixed.NegOne, fixed.One)
}

// securityID extracts the product code, the leading alphabetic prefix of the
// contract symbol, e.g. "T1803" -> "T".
func securityID(symbol string) string {
	end := 0
	for _, r := range symbol {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			break
		}
		end++
	}
	if end == 0 {
		return "UNKNOWN"
	}
	return strings.ToUpper(symbol[:end])
}
