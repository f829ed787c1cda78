package common

// BatchContext carries the batch-wide fallbacks into every stage. Passed
// explicitly, never ambient.
type BatchContext struct {
	// TradingDate is the fallback yyyymmdd date, used when rows carry no
	// tradingdate column.
	TradingDate string
	Symbol      string
}
