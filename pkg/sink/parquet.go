package sink

import (
	"context"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/tickworks/minbar/pkg/common"
)

// parquetBar mirrors the flat column contract with parquet-friendly types.
// Decimal fields are widened to float64, null book prices stay optional.
type parquetBar struct {
	TradingDate     int32     `parquet:"tradingdate"`
	Symbol          string    `parquet:"symbol"`
	TradingTime     time.Time `parquet:"tradingtime"`
	Open            float64   `parquet:"open"`
	High            float64   `parquet:"high"`
	Low             float64   `parquet:"low"`
	Close           float64   `parquet:"close"`
	Volume          float64   `parquet:"volume"`
	Amount          float64   `parquet:"amount"`
	TotalPosition   float64   `parquet:"totalposition"`
	PositionChange  float64   `parquet:"positionchange"`
	SecurityID      string    `parquet:"securityid"`
	BuyVol          float64   `parquet:"buyvol"`
	SellVol         float64   `parquet:"sellvol"`
	TotalVolume     float64   `parquet:"totalvolume"`
	TotalAmount     float64   `parquet:"totalamount"`
	TickCount       int32     `parquet:"tickcount"`
	IsNight         bool      `parquet:"isnight"`
	SettlePrice     float64   `parquet:"settleprice"`
	PreSettlePrice  float64   `parquet:"presettleprice"`
	PriceUpLimit    float64   `parquet:"priceuplimit"`
	PriceDownLimit  float64   `parquet:"pricedownlimit"`
	PreClosePrice   float64   `parquet:"pre_close_price"`
	OrderRate       float64   `parquet:"order_rate"`
	OrderDiff       float64   `parquet:"order_diff"`
	VolRate         float64   `parquet:"vol_rate"`
	OpenLongCount   int32     `parquet:"open_long_count"`
	OpenShortCount  int32     `parquet:"open_short_count"`
	CloseLongCount  int32     `parquet:"close_long_count"`
	CloseShortCount int32     `parquet:"close_short_count"`

	BuyPrice01   *float64 `parquet:"buyprice01,optional"`
	SellPrice01  *float64 `parquet:"sellprice01,optional"`
	BuyVolume01  float64  `parquet:"buyvolume01"`
	SellVolume01 float64  `parquet:"sellvolume01"`
	BuyPrice02   *float64 `parquet:"buyprice02,optional"`
	SellPrice02  *float64 `parquet:"sellprice02,optional"`
	BuyVolume02  float64  `parquet:"buyvolume02"`
	SellVolume02 float64  `parquet:"sellvolume02"`
	BuyPrice03   *float64 `parquet:"buyprice03,optional"`
	SellPrice03  *float64 `parquet:"sellprice03,optional"`
	BuyVolume03  float64  `parquet:"buyvolume03"`
	SellVolume03 float64  `parquet:"sellvolume03"`
	BuyPrice04   *float64 `parquet:"buyprice04,optional"`
	SellPrice04  *float64 `parquet:"sellprice04,optional"`
	BuyVolume04  float64  `parquet:"buyvolume04"`
	SellVolume04 float64  `parquet:"sellvolume04"`
	BuyPrice05   *float64 `parquet:"buyprice05,optional"`
	SellPrice05  *float64 `parquet:"sellprice05,optional"`
	BuyVolume05  float64  `parquet:"buyvolume05"`
	SellVolume05 float64  `parquet:"sellvolume05"`
}

type ParquetWriter struct {
	Path string
}

func (ParquetWriter) Extension() string { return "parquet" }

func (w ParquetWriter) Write(ctx context.Context, bars []common.Bar) error {
	rows := make([]parquetBar, len(bars))
	for i := range bars {
		rows[i] = toParquetBar(&bars[i])
	}
	if err := parquet.WriteFile(w.Path, rows); err != nil {
		return err
	}
	return ctx.Err()
}

func toParquetBar(bar *common.Bar) parquetBar {
	row := parquetBar{
		TradingDate:     int32(bar.TradingDate),
		Symbol:          bar.Symbol,
		TradingTime:     bar.TimeStamp,
		Open:            pointFloat(bar.Open),
		High:            pointFloat(bar.High),
		Low:             pointFloat(bar.Low),
		Close:           pointFloat(bar.Close),
		Volume:          pointFloat(bar.Volume),
		Amount:          pointFloat(bar.Amount),
		TotalPosition:   pointFloat(bar.OpenInterest),
		PositionChange:  pointFloat(bar.PositionChange),
		SecurityID:      bar.SecurityID,
		BuyVol:          pointFloat(bar.BuyVolume),
		SellVol:         pointFloat(bar.SellVolume),
		TotalVolume:     pointFloat(bar.TotalVolume),
		TotalAmount:     pointFloat(bar.TotalAmount),
		TickCount:       int32(bar.TickCount),
		IsNight:         bar.NightSession,
		SettlePrice:     pointFloat(bar.SettlePrice),
		PreSettlePrice:  pointFloat(bar.PreSettlePrice),
		PriceUpLimit:    pointFloat(bar.PriceUpLimit),
		PriceDownLimit:  pointFloat(bar.PriceDownLimit),
		PreClosePrice:   pointFloat(bar.PreClosePrice),
		OrderRate:       pointFloat(bar.OrderRate),
		OrderDiff:       pointFloat(bar.OrderDiff),
		VolRate:         pointFloat(bar.VolumeRatio),
		OpenLongCount:   int32(bar.OpenLongCount),
		OpenShortCount:  int32(bar.OpenShortCount),
		CloseLongCount:  int32(bar.CloseLongCount),
		CloseShortCount: int32(bar.CloseShortCount),
	}

	bidPrices := [common.DepthLevels]**float64{&row.BuyPrice01, &row.BuyPrice02, &row.BuyPrice03, &row.BuyPrice04, &row.BuyPrice05}
	askPrices := [common.DepthLevels]**float64{&row.SellPrice01, &row.SellPrice02, &row.SellPrice03, &row.SellPrice04, &row.SellPrice05}
	bidVolumes := [common.DepthLevels]*float64{&row.BuyVolume01, &row.BuyVolume02, &row.BuyVolume03, &row.BuyVolume04, &row.BuyVolume05}
	askVolumes := [common.DepthLevels]*float64{&row.SellVolume01, &row.SellVolume02, &row.SellVolume03, &row.SellVolume04, &row.SellVolume05}

	for level := 0; level < common.DepthLevels; level++ {
		if bar.Bids[level].HasPrice {
			v := pointFloat(bar.Bids[level].Price)
			*bidPrices[level] = &v
		}
		if bar.Asks[level].HasPrice {
			v := pointFloat(bar.Asks[level].Price)
			*askPrices[level] = &v
		}
		*bidVolumes[level] = pointFloat(bar.Bids[level].Volume)
		*askVolumes[level] = pointFloat(bar.Asks[level].Volume)
	}

	return row
}
