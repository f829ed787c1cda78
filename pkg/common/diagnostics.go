package common

import (
	"github.com/tickworks/minbar/pkg/utility"
)

// SchemaMapping records, per canonical field, the source column it was read
// from or a "derived:<rule>" provenance tag. Built once per batch.
type SchemaMapping map[string]string

// Diagnostics accumulates the non-fatal data-quality observations of one
// batch. The caller decides whether the output quality is acceptable.
type Diagnostics struct {
	BatchID utility.BatchID

	RowCount int
	BarCount int

	// Records dropped because no valid price was ever observed before them.
	DroppedNoPrice int
	// Zero or blank prices replaced with the last valid price.
	ZeroPriceRepairs int
	// Records whose time literal was unrecognized and defaulted to midnight.
	TimeDefaulted int
	// Records dropped because even the midnight default was unusable.
	TimeDropped int

	// Bars whose minute contained ticks at a single price, so
	// open == high == low == close. Valid, but flags under-sampled input.
	DegenerateBars int

	// Canonical fields filled by fallback derivation rather than a source
	// column.
	DerivedColumns []string

	// True when no record carried a source cumulative value and the whole
	// totalVolume/totalAmount column was replaced by a running sum.
	CumulativeFallback bool

	// Reference prices and limit bands were estimated from the session open
	// rather than taken from authoritative exchange fields.
	ReferencePricesEstimated bool
}
