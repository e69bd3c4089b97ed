package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"saturn/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface checks.
var _ BarStore = (*SQLiteStore)(nil)
var _ RunStore = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS bars (
	symbol      TEXT    NOT NULL,
	market      TEXT    NOT NULL,
	ts          INTEGER NOT NULL,
	open        REAL    NOT NULL,
	high        REAL    NOT NULL,
	low         REAL    NOT NULL,
	close       REAL    NOT NULL,
	volume      INTEGER NOT NULL,
	trade_count INTEGER NOT NULL,
	vwap        REAL    NOT NULL,
	PRIMARY KEY (symbol, market, ts)
);

CREATE TABLE IF NOT EXISTS runs (
	id              TEXT    PRIMARY KEY,
	symbol          TEXT    NOT NULL,
	strategy        TEXT    NOT NULL,
	params_json     TEXT    NOT NULL,
	start_ts        INTEGER NOT NULL,
	end_ts          INTEGER NOT NULL,
	initial_capital REAL    NOT NULL,
	created_at      INTEGER NOT NULL,
	result_json     TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs (created_at DESC);
`

// SQLiteStore implements BarStore and RunStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies the
// schema, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// BarStore implementation
// ---------------------------------------------------------------------------

// WriteBars upserts the batch in a single transaction, keyed by
// (symbol, market, timestamp) so re-fetches overwrite rather than duplicate.
func (s *SQLiteStore) WriteBars(ctx context.Context, market string, bars []domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO bars
			(symbol, market, ts, open, high, low, close, volume, trade_count, vwap)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range bars {
		_, err := stmt.ExecContext(ctx,
			b.Symbol, market, b.Timestamp.UnixMilli(),
			b.Open, b.High, b.Low, b.Close,
			b.Volume, b.TradeCount, b.VWAP)
		if err != nil {
			return fmt.Errorf("inserting bar %s@%s: %w", b.Symbol, b.Timestamp, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ReadBars(ctx context.Context, market, symbol string, start, end time.Time) ([]domain.Bar, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, ts, open, high, low, close, volume, trade_count, vwap
		FROM bars
		WHERE symbol = ? AND market = ? AND ts BETWEEN ? AND ?
		ORDER BY ts ASC`,
		symbol, market, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []domain.Bar
	for rows.Next() {
		var b domain.Bar
		var ts int64
		if err := rows.Scan(&b.Symbol, &ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.TradeCount, &b.VWAP); err != nil {
			return nil, err
		}
		b.Timestamp = time.UnixMilli(ts).UTC()
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (s *SQLiteStore) ListSymbols(ctx context.Context, market string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT symbol FROM bars WHERE market = ? ORDER BY symbol ASC`, market)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// ---------------------------------------------------------------------------
// RunStore implementation
// ---------------------------------------------------------------------------

// runResult is the JSON blob persisted alongside each run row.
type runResult struct {
	Equity []domain.EquityPoint      `json:"equity"`
	Trades []domain.Trade            `json:"trades"`
	Report *domain.PerformanceReport `json:"report"`
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *domain.BacktestRun) error {
	params, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("encoding params: %w", err)
	}
	result, err := json.Marshal(runResult{
		Equity: run.Equity,
		Trades: run.Trades,
		Report: run.Report,
	})
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
			(id, symbol, strategy, params_json, start_ts, end_ts, initial_capital, created_at, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Symbol, run.Strategy, string(params),
		run.Start.UnixMilli(), run.End.UnixMilli(),
		run.InitialCapital, run.CreatedAt.UnixMilli(), string(result))
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*domain.BacktestRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, symbol, strategy, params_json, start_ts, end_ts, initial_capital, created_at, result_json
		FROM runs WHERE id = ?`, id)

	var run domain.BacktestRun
	var params, result string
	var startTS, endTS, createdTS int64
	err := row.Scan(&run.ID, &run.Symbol, &run.Strategy, &params,
		&startTS, &endTS, &run.InitialCapital, &createdTS, &result)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	run.Start = time.UnixMilli(startTS).UTC()
	run.End = time.UnixMilli(endTS).UTC()
	run.CreatedAt = time.UnixMilli(createdTS).UTC()

	if err := json.Unmarshal([]byte(params), &run.Params); err != nil {
		return nil, fmt.Errorf("decoding params for run %s: %w", id, err)
	}
	var res runResult
	if err := json.Unmarshal([]byte(result), &res); err != nil {
		return nil, fmt.Errorf("decoding result for run %s: %w", id, err)
	}
	run.Equity = res.Equity
	run.Trades = res.Trades
	run.Report = res.Report
	return &run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]domain.BacktestRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, strategy, params_json, start_ts, end_ts, initial_capital, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.BacktestRun
	for rows.Next() {
		var run domain.BacktestRun
		var params string
		var startTS, endTS, createdTS int64
		err := rows.Scan(&run.ID, &run.Symbol, &run.Strategy, &params,
			&startTS, &endTS, &run.InitialCapital, &createdTS)
		if err != nil {
			return nil, err
		}
		run.Start = time.UnixMilli(startTS).UTC()
		run.End = time.UnixMilli(endTS).UTC()
		run.CreatedAt = time.UnixMilli(createdTS).UTC()
		if err := json.Unmarshal([]byte(params), &run.Params); err != nil {
			return nil, fmt.Errorf("decoding params for run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
