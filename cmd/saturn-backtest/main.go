package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"saturn/internal/backtest"
	"saturn/internal/config"
	"saturn/internal/marketdata"
	"saturn/internal/strategy"
	"saturn/internal/util"
)

func main() {
	symbol := flag.String("symbol", "", "symbol to backtest (required)")
	strat := flag.String("strategy", strategy.IDMovingAverage, "strategy id (moving_average, mean_reversion, momentum)")
	params := flag.String("params", "", "strategy parameters as k=v,k=v")
	start := flag.String("start", "", "start date YYYY-MM-DD (required)")
	end := flag.String("end", "", "end date YYYY-MM-DD (required)")
	capital := flag.Float64("capital", 0, "initial capital (default from config)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: saturn-backtest -symbol SYM -start YYYY-MM-DD -end YYYY-MM-DD [flags]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *symbol == "" || *start == "" || *end == "" {
		flag.Usage()
		os.Exit(2)
	}

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatalf("invalid start date: %v", err)
	}
	endDate, err := time.Parse("2006-01-02", *end)
	if err != nil {
		log.Fatalf("invalid end date: %v", err)
	}

	parsedParams, err := parseParams(*params)
	if err != nil {
		log.Fatalf("invalid params: %v", err)
	}

	cfg := loadConfig()
	logger := util.NewLogger(cfg.Logging.Level)
	util.SetDefault(logger)

	if *capital == 0 {
		*capital = cfg.Backtest.InitialCapital
	}

	provider := marketdata.NewFromConfig(cfg, nil)
	runner := backtest.NewRunner(provider, cfg.Backtest.RiskFreeRate, cfg.Backtest.PeriodsPerYear, logger)

	res, err := runner.Run(context.Background(), backtest.Request{
		Symbol:         strings.ToUpper(*symbol),
		Start:          startDate,
		End:            endDate,
		Strategy:       strategy.Spec{ID: *strat, Params: parsedParams},
		InitialCapital: *capital,
	})
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	out, err := json.MarshalIndent(res.Report, "", "  ")
	if err != nil {
		log.Fatalf("encoding report: %v", err)
	}
	fmt.Println(string(out))
	fmt.Fprintf(os.Stderr, "%d bars, %d trades\n", res.Bars, len(res.Trades))
}

// parseParams turns "fast_window=10,slow_window=30" into a parameter map.
func parseParams(s string) (map[string]float64, error) {
	if s == "" {
		return nil, nil
	}
	out := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed pair %q", pair)
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", pair, err)
		}
		out[strings.TrimSpace(k)] = f
	}
	return out, nil
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
