package schema

import (
	"github.com/tickworks/minbar/pkg/common"
	"github.com/tickworks/minbar/pkg/utility/fixed"
)

// derivationStrategy fills one canonical field for a whole batch. Strategies
// for a field are tried in order; the first one whose precondition holds
// wins. Keeping this a table rather than branching code makes each rule
// independently testable.
type derivationStrategy struct {
	name string
	// rule is the provenance tag written into the schema mapping when a
	// fallback fires. Empty for pass-through strategies.
	rule  string
	when  func(mapping common.SchemaMapping) bool
	apply func(ticks []common.Tick)
}

var tradeVolumeStrategies = []derivationStrategy{
	{
		name: "source",
		when: mapped(FieldTradeVolume),
	},
	{
		name: "diff-totalvolume",
		rule: "derived:diff(totalvolume)",
		when: mapped(FieldTotalVolume),
		apply: diffCumulative(
			func(t *common.Tick) (fixed.Point, bool) { return t.TotalVolume, t.HasTotalVolume },
			func(t *common.Tick, v fixed.Point) { t.TradeVolume = v },
		),
	},
}

var tradeAmountStrategies = []derivationStrategy{
	{
		name: "source",
		when: mapped(FieldTradeAmount),
	},
	{
		name: "diff-totalamount",
		rule: "derived:diff(totalamount)",
		when: mapped(FieldTotalAmount),
		apply: diffCumulative(
			func(t *common.Tick) (fixed.Point, bool) { return t.TotalAmount, t.HasTotalAmount },
			func(t *common.Tick, v fixed.Point) { t.TradeAmount = v },
		),
	},
}

func mapped(field string) func(common.SchemaMapping) bool {
	return func(m common.SchemaMapping) bool {
		_, ok := m[field]
		return ok
	}
}

// diffCumulative derives per-trade values as the first difference of a
// session-cumulative series along arrival order. The first record keeps its
// own cumulative value. Negative differences are reporting jitter, not real
// decreases, and are floored at zero.
func diffCumulative(get func(*common.Tick) (fixed.Point, bool), set func(*common.Tick, fixed.Point)) func([]common.Tick) {
	return func(ticks []common.Tick) {
		prev := fixed.Zero
		for i := range ticks {
			cur, ok := get(&ticks[i])
			if !ok {
				set(&ticks[i], fixed.Zero)
				continue
			}
			if i == 0 {
				set(&ticks[i], cur)
			} else {
				set(&ticks[i], fixed.Max(fixed.Zero, cur.Sub(prev)))
			}
			prev = cur
		}
	}
}

// applyDerivations runs the strategy tables once per batch and records the
// provenance of every fallback-derived column.
func applyDerivations(ticks []common.Tick, mapping common.SchemaMapping, diag *common.Diagnostics) {
	tables := []struct {
		field      string
		strategies []derivationStrategy
	}{
		{FieldTradeVolume, tradeVolumeStrategies},
		{FieldTradeAmount, tradeAmountStrategies},
	}

	for _, table := range tables {
		for _, s := range table.strategies {
			if !s.when(mapping) {
				continue
			}
			if s.apply != nil {
				s.apply(ticks)
			}
			if s.rule != "" {
				mapping[table.field] = s.rule
				diag.DerivedColumns = append(diag.DerivedColumns, table.field)
			}
			break
		}
	}
}
