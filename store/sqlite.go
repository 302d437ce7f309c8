package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/fxsignal/market"
	"github.com/rustyeddy/fxsignal/signal"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite store at path and ensures the
// schema exists.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) UpsertCandles(ctx context.Context, tf market.Timeframe, candles market.Series) (int, error) {
	if len(candles) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ohlc_data
		(symbol, timeframe, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, timeframe, timestamp) DO UPDATE SET
		open=excluded.open, high=excluded.high, low=excluded.low,
		close=excluded.close, volume=excluded.volume`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for _, c := range candles {
		if _, err := stmt.ExecContext(ctx, c.Symbol, string(tf), c.Time.UTC(),
			c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			return n, fmt.Errorf("upsert candle %s %s: %w", c.Symbol, c.Time, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLiteStore) Candles(ctx context.Context, symbol string, tf market.Timeframe) (market.Series, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, timestamp, open, high, low, close, volume
		FROM ohlc_data WHERE symbol = ? AND timeframe = ?
		ORDER BY timestamp ASC`, symbol, string(tf))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCandles(rows)
}

func (s *SQLiteStore) Latest(ctx context.Context, symbol string, tf market.Timeframe, n int) (market.Series, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, timestamp, open, high, low, close, volume
		FROM ohlc_data WHERE symbol = ? AND timeframe = ?
		ORDER BY timestamp DESC LIMIT ?`, symbol, string(tf), n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series, err := scanCandles(rows)
	if err != nil {
		return nil, err
	}
	series.Sort()
	return series, nil
}

func (s *SQLiteStore) LatestTimestamp(ctx context.Context, symbol string, tf market.Timeframe) (time.Time, bool, error) {
	var ts time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT timestamp FROM ohlc_data
		WHERE symbol = ? AND timeframe = ?
		ORDER BY timestamp DESC LIMIT 1`, symbol, string(tf)).Scan(&ts)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return ts.UTC(), true, nil
}

func (s *SQLiteStore) InsertPrediction(ctx context.Context, rec signal.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO predictions
		(id, symbol, timeframe, signal, confidence, entry_price, tp_price, sl_price,
		 lot_size, generated_at, valid_until, model_version, algorithm, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Symbol, string(rec.Timeframe), rec.Signal.String(), rec.Confidence,
		rec.EntryPrice, nullable(rec.TPPrice), nullable(rec.SLPrice),
		rec.LotSize, rec.GeneratedAt.UTC(), rec.ValidUntil.UTC(),
		rec.ModelVersion, rec.Algorithm, rec.Status,
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanCandles(rows *sql.Rows) (market.Series, error) {
	var series market.Series
	for rows.Next() {
		var c market.Candle
		if err := rows.Scan(&c.Symbol, &c.Time, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, err
		}
		c.Time = c.Time.UTC()
		series = append(series, c)
	}
	return series, rows.Err()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
