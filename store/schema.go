// store/schema.go
package store

const Schema = `
CREATE TABLE IF NOT EXISTS ohlc_data (
	symbol TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	timestamp DATETIME NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL,
	PRIMARY KEY (symbol, timeframe, timestamp)
);

CREATE TABLE IF NOT EXISTS predictions (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	signal TEXT NOT NULL,
	confidence REAL NOT NULL,
	entry_price REAL NOT NULL,
	tp_price REAL,
	sl_price REAL,
	lot_size REAL NOT NULL,
	generated_at DATETIME NOT NULL,
	valid_until DATETIME NOT NULL,
	model_version TEXT NOT NULL,
	algorithm TEXT NOT NULL,
	status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ohlc_symbol_tf_ts ON ohlc_data(symbol, timeframe, timestamp);
CREATE INDEX IF NOT EXISTS idx_predictions_symbol ON predictions(symbol, generated_at);
`
