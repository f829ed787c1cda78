package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/tickworks/minbar/internal/dbg"
	"github.com/tickworks/minbar/pkg/common"
	"github.com/tickworks/minbar/pkg/resample"
	"github.com/tickworks/minbar/pkg/runner"
	"github.com/tickworks/minbar/pkg/sink"
	"github.com/tickworks/minbar/pkg/source"
)

func main() {
	date := flag.String("date", "", "fallback trading date (yyyymmdd), row-level dates win")
	symbol := flag.String("symbol", "", "contract code, extracted from the file name when empty")
	out := flag.String("out", "", "output path, defaults next to the input as <symbol>_1min.<ext>")
	format := flag.String("format", DefaultFormat, "output format: csv, parquet or duckdb")
	workers := flag.Int("workers", DefaultWorkers, "concurrent batches when multiple files are given")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	logger := dbg.NewProdLogger()
	if *debug {
		logger = dbg.NewDevLogger()
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	files := flag.Args()
	if len(files) == 0 {
		logger.Fatal("at least one tick file is required")
	}
	if len(files) > 1 && (*symbol != "" || *out != "") {
		logger.Fatal("-symbol and -out apply to single-file runs only")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if len(files) == 1 {
		if err := processOne(ctx, logger, files[0], *symbol, *date, *format, *out); err != nil {
			logger.Fatal("processing failed", zap.String("file", files[0]), zap.Error(err))
		}
		return
	}

	jobs := make([]runner.Job, 0, len(files))
	for _, file := range files {
		rows, err := source.ReadCSV(file)
		if err != nil {
			logger.Fatal("unable to read tick file", zap.String("file", file), zap.Error(err))
		}
		jobs = append(jobs, runner.Job{
			Name: file,
			Rows: rows,
			Ctx:  common.BatchContext{TradingDate: *date, Symbol: source.ExtractContract(file)},
		})
	}

	failed := 0
	for _, outcome := range runner.Process(ctx, logger, jobs, *workers) {
		if outcome.Err != nil {
			failed++
			logger.Error("batch rejected", zap.String("file", outcome.Job.Name), zap.Error(outcome.Err))
			continue
		}
		if err := writeBars(ctx, outcome.Job.Name, outcome.Job.Ctx.Symbol, *format, "", outcome.Result); err != nil {
			failed++
			logger.Error("unable to write bars", zap.String("file", outcome.Job.Name), zap.Error(err))
		}
	}
	if failed > 0 {
		logger.Fatal("some batches failed", zap.Int("failed", failed), zap.Int("total", len(jobs)))
	}
}

func processOne(ctx context.Context, logger *zap.Logger, file, symbol, date, format, out string) error {
	if symbol == "" {
		symbol = source.ExtractContract(file)
	}
	bctx := common.BatchContext{TradingDate: date, Symbol: symbol}
	pipeline := resample.NewPipeline(logger)

	var result resample.Result
	var err error
	if strings.EqualFold(filepath.Ext(file), SpoolExtension) {
		result, err = runSpool(ctx, pipeline, file, bctx)
	} else {
		rows, readErr := source.ReadCSV(file)
		if readErr != nil {
			return readErr
		}
		result, err = pipeline.Run(ctx, rows, bctx)
	}
	if err != nil {
		return err
	}

	return writeBars(ctx, file, symbol, format, out, result)
}

func runSpool(ctx context.Context, pipeline *resample.Pipeline, file string, bctx common.BatchContext) (resample.Result, error) {
	spool, err := source.OpenSpool(file)
	if err != nil {
		return resample.Result{}, err
	}
	defer spool.Close()

	ticks, err := spool.ReadAll()
	if err != nil {
		return resample.Result{}, err
	}
	return pipeline.RunTicks(ctx, ticks, bctx)
}

func writeBars(ctx context.Context, file, symbol, format, out string, result resample.Result) error {
	writer, err := sink.New(format, out)
	if err != nil {
		return err
	}
	if out == "" {
		out = filepath.Join(filepath.Dir(file), fmt.Sprintf("%s_1min.%s", symbol, writer.Extension()))
		if writer, err = sink.New(format, out); err != nil {
			return err
		}
	}
	return writer.Write(ctx, result.Bars)
}
