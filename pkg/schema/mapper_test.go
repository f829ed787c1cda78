package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tickworks/minbar/pkg/common"
	"github.com/tickworks/minbar/pkg/utility/fixed"
)

var testBatch = common.BatchContext{TradingDate: "20180115", Symbol: "T1803"}

func normalize(t *testing.T, rows []Row) ([]common.Tick, common.SchemaMapping, common.Diagnostics) {
	t.Helper()
	var diag common.Diagnostics
	ticks, mapping, err := NewMapper(zap.NewNop()).Normalize(rows, testBatch, &diag)
	require.NoError(t, err)
	return ticks, mapping, diag
}

func TestMapper_emptyInput(t *testing.T) {
	ticks, mapping, diag := normalize(t, nil)

	assert.Empty(t, ticks)
	assert.Empty(t, mapping)
	assert.Zero(t, diag.RowCount)
}

func TestMapper_missingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		row     Row
		missing []string
	}{
		{"no time", Row{"LastPrice": "3.2"}, []string{"time"}},
		{"no price", Row{"TradingTime": "09:30:00"}, []string{"price"}},
		{"neither", Row{"Volume": "1"}, []string{"price", "time"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diag common.Diagnostics
			_, _, err := NewMapper(zap.NewNop()).Normalize([]Row{tt.row}, testBatch, &diag)

			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.missing, se.Missing)
		})
	}
}

func TestMapper_mappingKeepsSourceSpelling(t *testing.T) {
	rows := []Row{{
		"TradingTime": "09:30:00",
		"LastPrice":   "3.2",
		"TradeVolume": "10",
	}}
	_, mapping, _ := normalize(t, rows)

	assert.Equal(t, "TradingTime", mapping[FieldTime])
	assert.Equal(t, "LastPrice", mapping[FieldPrice])
	assert.Equal(t, "TradeVolume", mapping[FieldTradeVolume])
}

func TestMapper_derivedVolumeFromCumulative(t *testing.T) {
	rows := []Row{
		{"TradingTime": "09:30:00", "LastPrice": "3.2", "TotalVolume": "100"},
		{"TradingTime": "09:30:01", "LastPrice": "3.3", "TotalVolume": "160"},
		{"TradingTime": "09:30:02", "LastPrice": "3.3", "TotalVolume": "150"},
	}
	ticks, mapping, diag := normalize(t, rows)
	require.Len(t, ticks, 3)

	// First record keeps its own cumulative, negative jitter floors at zero.
	assert.True(t, ticks[0].TradeVolume.Eq(fixed.FromInt(100, 0)))
	assert.True(t, ticks[1].TradeVolume.Eq(fixed.FromInt(60, 0)))
	assert.True(t, ticks[2].TradeVolume.IsZero())

	assert.Equal(t, "derived:diff(totalvolume)", mapping[FieldTradeVolume])
	assert.Equal(t, []string{FieldTradeVolume}, diag.DerivedColumns)
}

func TestMapper_sourceVolumeWins(t *testing.T) {
	rows := []Row{
		{"TradingTime": "09:30:00", "LastPrice": "3.2", "TradeVolume": "7", "TotalVolume": "100"},
	}
	ticks, mapping, diag := normalize(t, rows)

	assert.True(t, ticks[0].TradeVolume.Eq(fixed.FromInt(7, 0)))
	assert.Equal(t, "TradeVolume", mapping[FieldTradeVolume])
	assert.Empty(t, diag.DerivedColumns)
}

func TestMapper_priceRepair(t *testing.T) {
	rows := []Row{
		{"TradingTime": "09:30:00", "LastPrice": "0"},
		{"TradingTime": "09:30:01", "LastPrice": "3.2"},
		{"TradingTime": "09:30:02", "LastPrice": "0"},
		{"TradingTime": "09:30:03", "LastPrice": ""},
		{"TradingTime": "09:30:04", "LastPrice": "3.4"},
	}
	ticks, _, diag := normalize(t, rows)
	require.Len(t, ticks, 4)

	assert.True(t, ticks[0].Price.Eq(fixed.MustFromString("3.2")))
	assert.True(t, ticks[1].Price.Eq(fixed.MustFromString("3.2")))
	assert.True(t, ticks[2].Price.Eq(fixed.MustFromString("3.2")))
	assert.True(t, ticks[3].Price.Eq(fixed.MustFromString("3.4")))

	assert.Equal(t, 1, diag.DroppedNoPrice)
	assert.Equal(t, 2, diag.ZeroPriceRepairs)
}

func TestMapper_sideSplit(t *testing.T) {
	rows := []Row{
		{"TradingTime": "09:30:00", "LastPrice": "3.2", "TradeVolume": "10", "BuyOrSell": "B"},
		{"TradingTime": "09:30:01", "LastPrice": "3.2", "TradeVolume": "10", "BuyOrSell": "S"},
		{"TradingTime": "09:30:02", "LastPrice": "3.2", "TradeVolume": "10", "BuyOrSell": " "},
		{"TradingTime": "09:30:03", "LastPrice": "3.2", "TradeVolume": "9", "BuyOrSell": "X"},
	}
	ticks, _, _ := normalize(t, rows)
	require.Len(t, ticks, 4)

	ten := fixed.FromInt(10, 0)
	assert.True(t, ticks[0].BuyVolume.Eq(ten))
	assert.True(t, ticks[0].SellVolume.IsZero())
	assert.True(t, ticks[1].BuyVolume.IsZero())
	assert.True(t, ticks[1].SellVolume.Eq(ten))

	// Neutral splits evenly, buy plus sell always equals trade volume.
	assert.True(t, ticks[2].BuyVolume.Eq(fixed.FromInt(5, 0)))
	assert.True(t, ticks[2].SellVolume.Eq(fixed.FromInt(5, 0)))
	assert.True(t, ticks[3].BuyVolume.Add(ticks[3].SellVolume).Eq(fixed.FromInt(9, 0)))
}

func TestMapper_ordering(t *testing.T) {
	rows := []Row{
		{"TradingTime": "09:31:00", "LastPrice": "3.3"},
		{"TradingTime": "09:30:00", "LastPrice": "3.1"},
		{"TradingTime": "09:30:00", "LastPrice": "3.2"},
	}
	ticks, _, _ := normalize(t, rows)
	require.Len(t, ticks, 3)

	// Ties on the timestamp keep arrival order via the sequence number.
	assert.Equal(t, 1, ticks[0].Sequence)
	assert.Equal(t, 2, ticks[1].Sequence)
	assert.Equal(t, 0, ticks[2].Sequence)
	for i := 1; i < len(ticks); i++ {
		assert.False(t, ticks[i].TimeStamp.Before(ticks[i-1].TimeStamp))
	}
}

func TestMapper_unresolvableTimeDefaultsToMidnight(t *testing.T) {
	rows := []Row{
		{"TradingTime": "garbage", "LastPrice": "3.2"},
		{"TradingTime": "09:30:00", "LastPrice": "3.3"},
	}
	ticks, _, diag := normalize(t, rows)
	require.Len(t, ticks, 2)

	midnight := time.Date(2018, 1, 15, 0, 0, 0, 0, time.Local)
	assert.True(t, ticks[0].TimeStamp.Equal(midnight))
	assert.True(t, ticks[0].Suspect)
	assert.False(t, ticks[1].Suspect)
	assert.Equal(t, 1, diag.TimeDefaulted)
}

func TestMapper_unresolvableTimeWithoutAnchorDrops(t *testing.T) {
	var diag common.Diagnostics
	rows := []Row{
		{"TradingTime": "garbage", "LastPrice": "3.2"},
		{"TradingTime": "2018-01-15 09:30:00", "LastPrice": "3.3"},
	}
	ticks, _, err := NewMapper(zap.NewNop()).Normalize(rows, common.BatchContext{Symbol: "T1803"}, &diag)
	require.NoError(t, err)

	require.Len(t, ticks, 1)
	assert.Equal(t, 1, diag.TimeDropped)
}

func TestMapper_rowDateBeatsBatchDate(t *testing.T) {
	rows := []Row{
		{"TradingDate": "20180116", "TradingTime": "09:30:00", "LastPrice": "3.2"},
	}
	ticks, _, _ := normalize(t, rows)
	require.Len(t, ticks, 1)

	assert.Equal(t, "20180116", ticks[0].TradingDate)
	assert.Equal(t, 16, ticks[0].TimeStamp.Day())
}

func TestMapper_depthColumns(t *testing.T) {
	rows := []Row{{
		"TradingTime":  "09:30:00",
		"LastPrice":    "3.2",
		"BuyPrice01":   "3.19",
		"BuyVolume01":  "50",
		"SellPrice01":  "3.21",
		"SellVolume01": "40",
		"BuyPrice03":   "3.17",
	}}
	ticks, _, _ := normalize(t, rows)
	require.Len(t, ticks, 1)

	tick := ticks[0]
	assert.True(t, tick.Bids[0].HasPrice)
	assert.True(t, tick.Bids[0].Price.Eq(fixed.MustFromString("3.19")))
	assert.True(t, tick.Bids[0].Volume.Eq(fixed.FromInt(50, 0)))
	assert.True(t, tick.Asks[0].HasPrice)
	assert.True(t, tick.Asks[0].Volume.Eq(fixed.FromInt(40, 0)))

	assert.True(t, tick.Bids[2].HasPrice)
	assert.False(t, tick.Bids[1].HasPrice)
	assert.False(t, tick.Asks[4].HasPrice)
}
