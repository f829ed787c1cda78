package main

import (
	"flag"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tickworks/minbar/internal/dbg"
	"github.com/tickworks/minbar/pkg/common"
	"github.com/tickworks/minbar/pkg/schema"
	"github.com/tickworks/minbar/pkg/source"
	"github.com/tickworks/minbar/pkg/utility"
)

// spool normalizes raw tick CSVs into fixed-record spool files once, so the
// resampler can re-read a contract month without paying the schema mapper
// again.
func main() {
	date := flag.String("date", "", "fallback trading date (yyyymmdd)")
	out := flag.String("out", "", "spool path, defaults next to the input")
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
	if len(files) > 1 && *out != "" {
		logger.Fatal("-out applies to single-file runs only")
	}

	mapper := schema.NewMapper(logger)
	for _, file := range files {
		target := *out
		if target == "" {
			target = strings.TrimSuffix(file, filepath.Ext(file)) + ".spool"
		}
		if err := spoolOne(mapper, file, *date, target); err != nil {
			logger.Fatal("unable to spool tick file", zap.String("file", file), zap.Error(err))
		}
		logger.Info("tick file spooled", zap.String("file", file), zap.String("spool", target))
	}
}

func spoolOne(mapper *schema.Mapper, file, date, target string) error {
	rows, err := source.ReadCSV(file)
	if err != nil {
		return err
	}

	bctx := common.BatchContext{TradingDate: date, Symbol: source.ExtractContract(file)}
	diag := common.Diagnostics{BatchID: utility.NewBatchID()}

	ticks, _, err := mapper.Normalize(rows, bctx, &diag)
	if err != nil {
		return err
	}

	return source.WriteSpool(target, ticks)
}
