package schema

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tickworks/minbar/pkg/common"
	"github.com/tickworks/minbar/pkg/utility/fixed"
)

// Row is one raw record, keyed by source column name. Keys are normalized to
// lower-case trimmed form before lookup, values stay raw strings.
type Row map[string]string

type Mapper struct {
	logger *zap.Logger
}

func NewMapper(logger *zap.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// Normalize validates one raw batch against the canonical field set and
// produces repaired, time-ordered ticks plus the mapping that was used.
// A missing required field rejects the whole batch, nothing is emitted.
func (m *Mapper) Normalize(rows []Row, bctx common.BatchContext, diag *common.Diagnostics) ([]common.Tick, common.SchemaMapping, error) {
	diag.RowCount = len(rows)

	mapping := common.SchemaMapping{}
	if len(rows) == 0 {
		return nil, mapping, nil
	}

	// Map canonical fields to the original column spelling so later row
	// lookups hit the raw keys directly.
	columns := columnIndex(rows[0])
	for source, canonical := range exactFieldMapping {
		if original, ok := columns[source]; ok {
			mapping[canonical] = original
		}
	}

	var missing []string
	for _, field := range []string{FieldTime, FieldPrice} {
		if _, ok := mapping[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, nil, &SchemaError{Missing: missing}
	}

	ticks := m.buildRecords(rows, mapping, bctx, diag)
	ticks = repairPrices(ticks, m.logger, diag)
	applyDerivations(ticks, mapping, diag)
	splitSides(ticks)

	sort.Slice(ticks, func(i, j int) bool {
		if !ticks[i].TimeStamp.Equal(ticks[j].TimeStamp) {
			return ticks[i].TimeStamp.Before(ticks[j].TimeStamp)
		}
		return ticks[i].Sequence < ticks[j].Sequence
	})

	if len(diag.DerivedColumns) > 0 {
		m.logger.Warn("canonical fields filled by fallback derivation",
			zap.Strings("fields", diag.DerivedColumns))
	}
	m.logger.Debug("schema mapping resolved",
		zap.Int("columns", len(mapping)),
		zap.Int("rows", len(rows)),
		zap.Int("records", len(ticks)))

	return ticks, mapping, nil
}

func (m *Mapper) buildRecords(rows []Row, mapping common.SchemaMapping, bctx common.BatchContext, diag *common.Diagnostics) []common.Tick {
	ticks := make([]common.Tick, 0, len(rows))

	for i, row := range rows {
		tick := common.Tick{Sequence: i}

		tick.TradingDate = strings.TrimSpace(lookup(row, mapping, FieldTradingDate))
		dateLiteral := tick.TradingDate
		if dateLiteral == "" {
			dateLiteral = bctx.TradingDate
		}
		anchor, err := ParseTradingDate(dateLiteral)
		if err != nil {
			anchor = time.Time{}
		}

		literal := lookup(row, mapping, FieldTime)
		ts, err := ResolveTime(literal, anchor)
		switch {
		case err == nil:
			tick.TimeStamp = ts
		case anchor.IsZero():
			// No trading date to default against, the record is unusable.
			diag.TimeDropped++
			m.logger.Warn("dropping record with unresolvable time",
				zap.Int("sequence", i), zap.String("literal", literal))
			continue
		default:
			diag.TimeDefaulted++
			tick.TimeStamp = anchor
			tick.Suspect = true
			m.logger.Warn("time literal unrecognized, defaulting to midnight",
				zap.Int("sequence", i), zap.String("literal", literal))
		}

		tick.Price, _ = parsePoint(lookup(row, mapping, FieldPrice))
		if v, ok := parsePoint(lookup(row, mapping, FieldTradeVolume)); ok {
			tick.TradeVolume = v
		}
		if v, ok := parsePoint(lookup(row, mapping, FieldTradeAmount)); ok {
			tick.TradeAmount = v
		}
		tick.TotalVolume, tick.HasTotalVolume = parsePoint(lookup(row, mapping, FieldTotalVolume))
		tick.TotalAmount, tick.HasTotalAmount = parsePoint(lookup(row, mapping, FieldTotalAmount))
		tick.OpenInterest, tick.HasOpenInterest = parsePoint(lookup(row, mapping, FieldOpenInterest))

		tick.Side = parseSide(row, mapping)
		tick.OpenClose = strings.TrimSpace(lookup(row, mapping, FieldOpenClose))

		parseDepth(row, mapping, &tick)

		ticks = append(ticks, tick)
	}

	return ticks
}

// repairPrices replaces zero or missing prices with the most recent valid
// price in arrival order. Records before the first valid price are dropped.
func repairPrices(ticks []common.Tick, logger *zap.Logger, diag *common.Diagnostics) []common.Tick {
	repaired := ticks[:0]
	var last fixed.Point
	haveLast := false

	for i := range ticks {
		if ticks[i].Price.IsZero() {
			if !haveLast {
				diag.DroppedNoPrice++
				continue
			}
			ticks[i].Price = last
			diag.ZeroPriceRepairs++
		} else {
			last = ticks[i].Price
			haveLast = true
		}
		repaired = append(repaired, ticks[i])
	}

	if diag.ZeroPriceRepairs > 0 {
		logger.Warn("zero or blank prices repaired with previous valid price",
			zap.Int("count", diag.ZeroPriceRepairs))
	}
	if diag.DroppedNoPrice > 0 {
		logger.Warn("records dropped with no prior valid price",
			zap.Int("count", diag.DroppedNoPrice))
	}

	return repaired
}

// splitSides attributes each record's per-trade volume to the buy and sell
// side. An explicit indicator takes the full volume, a neutral or absent
// indicator splits it evenly.
func splitSides(ticks []common.Tick) {
	for i := range ticks {
		switch ticks[i].Side {
		case common.SideBuy:
			ticks[i].BuyVolume = ticks[i].TradeVolume
			ticks[i].SellVolume = fixed.Zero
		case common.SideSell:
			ticks[i].BuyVolume = fixed.Zero
			ticks[i].SellVolume = ticks[i].TradeVolume
		default:
			half := ticks[i].TradeVolume.DivInt(2)
			ticks[i].BuyVolume = half
			ticks[i].SellVolume = half
		}
	}
}

func parseSide(row Row, mapping common.SchemaMapping) common.Side {
	source, ok := mapping[FieldSide]
	if !ok {
		return common.SideUnknown
	}
	switch strings.ToUpper(strings.TrimSpace(row[source])) {
	case "B":
		return common.SideBuy
	case "S":
		return common.SideSell
	default:
		return common.SideNeutral
	}
}

func parseDepth(row Row, mapping common.SchemaMapping, tick *common.Tick) {
	for level := 1; level <= common.DepthLevels; level++ {
		cols := depthColumns(level)
		i := level - 1
		tick.Bids[i].Price, tick.Bids[i].HasPrice = parsePoint(lookup(row, mapping, cols[0]))
		tick.Asks[i].Price, tick.Asks[i].HasPrice = parsePoint(lookup(row, mapping, cols[1]))
		if v, ok := parsePoint(lookup(row, mapping, cols[2])); ok {
			tick.Bids[i].Volume = v
		}
		if v, ok := parsePoint(lookup(row, mapping, cols[3])); ok {
			tick.Asks[i].Volume = v
		}
	}
}

func lookup(row Row, mapping common.SchemaMapping, field string) string {
	source, ok := mapping[field]
	if !ok {
		return ""
	}
	return row[source]
}

func parsePoint(s string) (fixed.Point, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fixed.Zero, false
	}
	p, err := fixed.FromString(s)
	if err != nil {
		return fixed.Zero, false
	}
	return p, true
}

func columnIndex(row Row) map[string]string {
	columns := make(map[string]string, len(row))
	for name := range row {
		columns[strings.ToLower(strings.TrimSpace(name))] = name
	}
	return columns
}
