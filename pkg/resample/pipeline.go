package resample

import (
	"context"

	"go.uber.org/zap"

	"github.com/tickworks/minbar/pkg/common"
	"github.com/tickworks/minbar/pkg/schema"
	"github.com/tickworks/minbar/pkg/utility"
)

// Result is the complete output of one symbol-day batch: the ordered bar
// sequence, the schema mapping that produced it, and the data-quality
// diagnostics the caller judges output quality by.
type Result struct {
	Bars        []common.Bar
	Mapping     common.SchemaMapping
	Diagnostics common.Diagnostics
}

type Pipeline struct {
	logger *zap.Logger
	mapper *schema.Mapper
}

func NewPipeline(logger *zap.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		mapper: schema.NewMapper(logger),
	}
}

// Run executes the full chain for one batch: normalization, minute
// bucketing, bar reduction and sequential enrichment. Stages run strictly in
// order, each over the full output of the previous one. A fatal schema
// problem returns no bars; data-quality issues only accumulate into the
// diagnostics.
func (p *Pipeline) Run(ctx context.Context, rows []schema.Row, bctx common.BatchContext) (Result, error) {
	diag := common.Diagnostics{BatchID: utility.NewBatchID()}

	ticks, mapping, err := p.mapper.Normalize(rows, bctx, &diag)
	if err != nil {
		return Result{Diagnostics: diag}, err
	}
	return p.resample(ctx, ticks, mapping, bctx, diag)
}

// RunTicks resamples an already normalized, time-ordered tick sequence, the
// spool re-read path.
func (p *Pipeline) RunTicks(ctx context.Context, ticks []common.Tick, bctx common.BatchContext) (Result, error) {
	diag := common.Diagnostics{BatchID: utility.NewBatchID(), RowCount: len(ticks)}
	return p.resample(ctx, ticks, common.SchemaMapping{}, bctx, diag)
}

func (p *Pipeline) resample(ctx context.Context, ticks []common.Tick, mapping common.SchemaMapping, bctx common.BatchContext, diag common.Diagnostics) (Result, error) {
	logger := p.logger.With(
		zap.Stringer("batch", diag.BatchID),
		zap.String("symbol", bctx.Symbol),
		zap.String("date", bctx.TradingDate))

	if err := ctx.Err(); err != nil {
		return Result{Diagnostics: diag}, err
	}

	buckets := GroupByMinute(ticks)

	reducer := NewReducer()
	bars := make([]common.Bar, 0, len(buckets))
	for _, bucket := range buckets {
		bars = append(bars, reducer.Reduce(bucket, bctx, &diag))
	}
	if err := ctx.Err(); err != nil {
		return Result{Diagnostics: diag}, err
	}

	Enrich(bars, &diag, EnrichOptions{
		FallbackTotalVolume: reducer.MissingTotalVolume(),
		FallbackTotalAmount: reducer.MissingTotalAmount(),
	})

	diag.BarCount = len(bars)
	logger.Info("batch resampled",
		zap.Int("rows", diag.RowCount),
		zap.Int("bars", diag.BarCount),
		zap.Int("degenerate_bars", diag.DegenerateBars),
		zap.Int("dropped_no_price", diag.DroppedNoPrice),
		zap.Int("time_defaulted", diag.TimeDefaulted),
		zap.Bool("cumulative_fallback", diag.CumulativeFallback))

	return Result{Bars: bars, Mapping: mapping, Diagnostics: diag}, nil
}
