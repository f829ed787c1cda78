package schema

import "fmt"

// Canonical field names. Everything downstream of the mapper speaks these,
// never raw column names.
const (
	FieldTradingDate  = "tradingdate"
	FieldTime         = "time"
	FieldPrice        = "price"
	FieldTradeVolume  = "tradevolume"
	FieldTradeAmount  = "tradeamount"
	FieldTotalVolume  = "totalvolume"
	FieldTotalAmount  = "totalamount"
	FieldOpenInterest = "open_interest"
	FieldSide         = "buy_sell"
	FieldOpenClose    = "open_close"
)

// exactFieldMapping is the one-to-one table from normalized source column
// name to canonical field. Source columns not listed here are ignored.
var exactFieldMapping = map[string]string{
	"tradingdate":   FieldTradingDate,
	"tradingtime":   FieldTime,
	"lastprice":     FieldPrice,
	"tradevolume":   FieldTradeVolume,
	"tradeamount":   FieldTradeAmount,
	"totalvolume":   FieldTotalVolume,
	"totalamount":   FieldTotalAmount,
	"totalposition": FieldOpenInterest,
	"buyorsell":     FieldSide,
	"openclose":     FieldOpenClose,
}

func init() {
	for i := 1; i <= 5; i++ {
		for _, name := range depthColumns(i) {
			exactFieldMapping[name] = name
		}
	}
}

func depthColumns(level int) [4]string {
	return [4]string{
		fmt.Sprintf("buyprice0%d", level),
		fmt.Sprintf("sellprice0%d", level),
		fmt.Sprintf("buyvolume0%d", level),
		fmt.Sprintf("sellvolume0%d", level),
	}
}
