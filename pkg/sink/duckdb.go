package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/tickworks/minbar/pkg/common"
	"github.com/tickworks/minbar/pkg/utility/fixed"
)

const barTable = "bar_1min"

// DuckDBWriter loads bars into a local analytical store, one row per minute
// window. The run replaces the symbol-day slice it produces, re-runs stay
// idempotent.
type DuckDBWriter struct {
	dataSourceName string
}

func NewDuckDBWriter(dataSourceName string) *DuckDBWriter {
	return &DuckDBWriter{dataSourceName: dataSourceName}
}

func (*DuckDBWriter) Extension() string { return "duckdb" }

func (w *DuckDBWriter) Write(ctx context.Context, bars []common.Bar) error {
	db, err := sql.Open("duckdb", w.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open duckdb %q: %w", w.dataSourceName, err)
	}
	defer func(db *sql.DB) {
		_ = db.Close()
	}(db)

	if _, err := db.ExecContext(ctx, createBarTableSQL); err != nil {
		return fmt.Errorf("unable to create %s: %w", barTable, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if len(bars) > 0 {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+barTable+" WHERE symbol = ? AND tradingdate = ?",
			bars[0].Symbol, bars[0].TradingDate); err != nil {
			return fmt.Errorf("unable to clear previous run: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, insertBarSQL())
	if err != nil {
		return fmt.Errorf("unable to prepare insert: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmt)

	for i := range bars {
		if _, err := stmt.ExecContext(ctx, barArgs(&bars[i])...); err != nil {
			return fmt.Errorf("unable to insert bar %d: %w", i, err)
		}
	}

	return tx.Commit()
}

const createBarTableSQL = `
CREATE TABLE IF NOT EXISTS ` + barTable + ` (
    tradingdate       INTEGER NOT NULL,
    symbol            VARCHAR NOT NULL,
    tradingtime       TIMESTAMP NOT NULL,
    open              DOUBLE NOT NULL,
    high              DOUBLE NOT NULL,
    low               DOUBLE NOT NULL,
    close             DOUBLE NOT NULL,
    volume            DOUBLE DEFAULT 0,
    amount            DOUBLE DEFAULT 0,
    totalposition     DOUBLE DEFAULT 0,
    positionchange    DOUBLE DEFAULT 0,
    securityid        VARCHAR,
    buyvol            DOUBLE DEFAULT 0,
    sellvol           DOUBLE DEFAULT 0,
    totalvolume       DOUBLE DEFAULT 0,
    totalamount       DOUBLE DEFAULT 0,
    tickcount         INTEGER DEFAULT 0,
    isnight           BOOLEAN DEFAULT FALSE,
    settleprice       DOUBLE,
    presettleprice    DOUBLE,
    priceuplimit      DOUBLE,
    pricedownlimit    DOUBLE,
    pre_close_price   DOUBLE,
    order_rate        DOUBLE,
    order_diff        DOUBLE,
    vol_rate          DOUBLE,
    open_long_count   INTEGER DEFAULT 0,
    open_short_count  INTEGER DEFAULT 0,
    close_long_count  INTEGER DEFAULT 0,
    close_short_count INTEGER DEFAULT 0,
    buyprice01 DOUBLE, sellprice01 DOUBLE, buyvolume01 DOUBLE, sellvolume01 DOUBLE,
    buyprice02 DOUBLE, sellprice02 DOUBLE, buyvolume02 DOUBLE, sellvolume02 DOUBLE,
    buyprice03 DOUBLE, sellprice03 DOUBLE, buyvolume03 DOUBLE, sellvolume03 DOUBLE,
    buyprice04 DOUBLE, sellprice04 DOUBLE, buyvolume04 DOUBLE, sellvolume04 DOUBLE,
    buyprice05 DOUBLE, sellprice05 DOUBLE, buyvolume05 DOUBLE, sellvolume05 DOUBLE
)`

func insertBarSQL() string {
	columns := 30 + 4*common.DepthLevels
	return "INSERT INTO " + barTable + " VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", columns), ", ") + ")"
}

func barArgs(bar *common.Bar) []any {
	args := make([]any, 0, 30+4*common.DepthLevels)

	args = append(args,
		bar.TradingDate,
		bar.Symbol,
		bar.TimeStamp,
		pointFloat(bar.Open),
		pointFloat(bar.High),
		pointFloat(bar.Low),
		pointFloat(bar.Close),
		pointFloat(bar.Volume),
		pointFloat(bar.Amount),
		pointFloat(bar.OpenInterest),
		pointFloat(bar.PositionChange),
		bar.SecurityID,
		pointFloat(bar.BuyVolume),
		pointFloat(bar.SellVolume),
		pointFloat(bar.TotalVolume),
		pointFloat(bar.TotalAmount),
		bar.TickCount,
		bar.NightSession,
		pointFloat(bar.SettlePrice),
		pointFloat(bar.PreSettlePrice),
		pointFloat(bar.PriceUpLimit),
		pointFloat(bar.PriceDownLimit),
		pointFloat(bar.PreClosePrice),
		pointFloat(bar.OrderRate),
		pointFloat(bar.OrderDiff),
		pointFloat(bar.VolumeRatio),
		bar.OpenLongCount,
		bar.OpenShortCount,
		bar.CloseLongCount,
		bar.CloseShortCount,
	)

	for level := 0; level < common.DepthLevels; level++ {
		args = append(args,
			nullablePrice(bar.Bids[level]),
			nullablePrice(bar.Asks[level]),
			pointFloat(bar.Bids[level].Volume),
			pointFloat(bar.Asks[level].Volume),
		)
	}

	return args
}

func nullablePrice(level common.Level) any {
	if !level.HasPrice {
		return nil
	}
	return pointFloat(level.Price)
}

func pointFloat(p fixed.Point) float64 {
	f, _ := p.Float64()
	return f
}
