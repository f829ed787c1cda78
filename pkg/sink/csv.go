package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tickworks/minbar/pkg/common"
)

const timeColumnLayout = "2006-01-02 15:04:05"

// barColumns is the flat persistence contract. Order is fixed, consumers
// index by position.
var barColumns = []string{
	"TRADINGDATE", "SYMBOL", "TRADINGTIME",
	"OPEN", "HIGH", "LOW", "CLOSE",
	"VOLUME", "AMOUNT", "TOTALPOSITION", "POSITIONCHANGE",
	"SECURITYID",
	"BUYVOL", "SELLVOL", "TOTALVOLUME", "TOTALAMOUNT",
	"TICKCOUNT", "ISNIGHT",
	"SETTLEPRICE", "PRESETTLEPRICE",
	"PRICEUPLIMIT", "PRICEDOWNLIMIT",
	"PRE_CLOSE_PRICE",
	"ORDER_RATE", "ORDER_DIFF", "VOL_RATE",
	"OPEN_LONG_COUNT", "OPEN_SHORT_COUNT", "CLOSE_LONG_COUNT", "CLOSE_SHORT_COUNT",
	"BUYPRICE01", "SELLPRICE01", "BUYVOLUME01", "SELLVOLUME01",
	"BUYPRICE02", "SELLPRICE02", "BUYVOLUME02", "SELLVOLUME02",
	"BUYPRICE03", "SELLPRICE03", "BUYVOLUME03", "SELLVOLUME03",
	"BUYPRICE04", "SELLPRICE04", "BUYVOLUME04", "SELLVOLUME04",
	"BUYPRICE05", "SELLPRICE05", "BUYVOLUME05", "SELLVOLUME05",
}

type CSVWriter struct {
	Path string
}

func (CSVWriter) Extension() string { return "csv" }

func (w CSVWriter) Write(ctx context.Context, bars []common.Bar) error {
	f, err := os.Create(w.Path)
	if err != nil {
		return fmt.Errorf("unable to create %q: %w", w.Path, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	if err := writeCSV(f, bars); err != nil {
		return err
	}
	return ctx.Err()
}

func writeCSV(out io.Writer, bars []common.Bar) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(barColumns); err != nil {
		return fmt.Errorf("unable to write header: %w", err)
	}
	for i := range bars {
		if err := writer.Write(flattenBar(&bars[i])); err != nil {
			return fmt.Errorf("unable to write bar row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func flattenBar(bar *common.Bar) []string {
	row := make([]string, 0, len(barColumns))

	row = append(row,
		strconv.Itoa(bar.TradingDate),
		bar.Symbol,
		bar.TimeStamp.Format(timeColumnLayout),
		bar.Open.String(),
		bar.High.String(),
		bar.Low.String(),
		bar.Close.String(),
		bar.Volume.String(),
		bar.Amount.String(),
		bar.OpenInterest.String(),
		bar.PositionChange.String(),
		bar.SecurityID,
		bar.BuyVolume.String(),
		bar.SellVolume.String(),
		bar.TotalVolume.String(),
		bar.TotalAmount.String(),
		strconv.Itoa(bar.TickCount),
		boolColumn(bar.NightSession),
		bar.SettlePrice.String(),
		bar.PreSettlePrice.String(),
		bar.PriceUpLimit.String(),
		bar.PriceDownLimit.String(),
		bar.PreClosePrice.String(),
		bar.OrderRate.String(),
		bar.OrderDiff.String(),
		bar.VolumeRatio.String(),
		strconv.Itoa(bar.OpenLongCount),
		strconv.Itoa(bar.OpenShortCount),
		strconv.Itoa(bar.CloseLongCount),
		strconv.Itoa(bar.CloseShortCount),
	)

	for level := 0; level < common.DepthLevels; level++ {
		row = append(row,
			levelPrice(bar.Bids[level]),
			levelPrice(bar.Asks[level]),
			bar.Bids[level].Volume.String(),
			bar.Asks[level].Volume.String(),
		)
	}

	return row
}

func levelPrice(level common.Level) string {
	if !level.HasPrice {
		return ""
	}
	return level.Price.String()
}

func boolColumn(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
