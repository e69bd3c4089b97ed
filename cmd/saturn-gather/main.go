package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"saturn/internal/config"
	"saturn/internal/marketdata"
	"saturn/internal/store"
	"saturn/internal/util"
)

// saturn-gather bulk-fetches daily bars for a list of symbols and archives
// them: Parquet year files for analysis plus the SQLite cache the server
// reads from.
func main() {
	start := flag.String("start", "", "start date YYYY-MM-DD (default from config)")
	end := flag.String("end", "", "end date YYYY-MM-DD (default yesterday)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: saturn-gather [flags] SYMBOL [SYMBOL...]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	symbols := flag.Args()
	if len(symbols) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := loadConfig()
	logger := util.NewLogger(cfg.Logging.Level)
	util.SetDefault(logger)

	if *start == "" {
		*start = cfg.Gather.StartDate
	}
	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatalf("invalid start date: %v", err)
	}
	endDate := time.Now().UTC().AddDate(0, 0, -1)
	if *end != "" {
		endDate, err = time.Parse("2006-01-02", *end)
		if err != nil {
			log.Fatalf("invalid end date: %v", err)
		}
	}

	sqlite, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening sqlite store: %v", err)
	}
	defer sqlite.Close()
	pstore := store.NewParquetStore(cfg.Storage.DataDir)

	provider := marketdata.NewFromConfig(cfg, nil)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for _, symbol := range symbols {
		symbol = strings.ToUpper(symbol)
		bars, err := provider.DailyBars(ctx, symbol, startDate, endDate)
		if err != nil {
			logger.Error("fetching bars", "symbol", symbol, "error", err)
			continue
		}
		if err := pstore.WriteBars(ctx, cfg.Data.Market, bars); err != nil {
			log.Fatalf("writing parquet for %s: %v", symbol, err)
		}
		if err := sqlite.WriteBars(ctx, cfg.Data.Market, bars); err != nil {
			log.Fatalf("writing sqlite for %s: %v", symbol, err)
		}
		logger.Info("gathered", "symbol", symbol, "bars", len(bars))
	}
}

func loadConfig() *config.Config {
	cfgPath := "config/saturn.yaml"
	if p := os.Getenv("SATURN_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		if os.IsNotExist(err) && os.Getenv("SATURN_CONFIG") == "" {
			return config.Default()
		}
		log.Fatalf("loading config %s: %v", cfgPath, err)
	}
	return cfg
}
