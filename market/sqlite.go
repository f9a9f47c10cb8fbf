package market

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/swing/pricing"
)

const PriceSchema = `
CREATE TABLE IF NOT EXISTS daily_prices (
    symbol TEXT NOT NULL,
    date   TEXT NOT NULL,
    open   REAL NOT NULL,
    high   REAL NOT NULL,
    low    REAL NOT NULL,
    close  REAL NOT NULL,
    volume REAL NOT NULL,
    PRIMARY KEY (symbol, date)
);
`

// SQLiteStore keeps daily bars in a daily_prices table keyed by
// (symbol, date). Dates are stored as YYYY-MM-DD text.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(PriceSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("price schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, identifier string, start, end time.Time) ([]pricing.Bar, error) {
	q := `SELECT date, open, high, low, close, volume FROM daily_prices WHERE symbol = ?`
	args := []any{identifier}
	if !start.IsZero() {
		q += ` AND date >= ?`
		args = append(args, start.Format(pricing.DateLayout))
	}
	if !end.IsZero() {
		q += ` AND date <= ?`
		args = append(args, end.Format(pricing.DateLayout))
	}
	q += ` ORDER BY date ASC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []pricing.Bar
	for rows.Next() {
		var (
			ds string
			b  pricing.Bar
		)
		if err := rows.Scan(&ds, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		t, err := pricing.ParseDate(ds)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", identifier, err)
		}
		b.Date = t
		b.Symbol = identifier
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return Normalize(bars), nil
}

// Store inserts bars for identifier. Rows that already exist are left
// untouched. It returns the number of rows inserted.
func (s *SQLiteStore) Store(ctx context.Context, identifier string, bars []pricing.Bar) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_prices (symbol, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, date) DO NOTHING`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for _, b := range bars {
		res, err := stmt.ExecContext(ctx, identifier, b.Date.Format(pricing.DateLayout),
			b.Open, b.High, b.Low, b.Close, b.Volume)
		if err != nil {
			return n, err
		}
		if c, err := res.RowsAffected(); err == nil {
			n += int(c)
		}
	}
	return n, tx.Commit()
}

// LastDate returns the most recent stored date for identifier, or
// ErrNotFound when nothing is stored.
func (s *SQLiteStore) LastDate(ctx context.Context, identifier string) (time.Time, error) {
	var ds sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(date) FROM daily_prices WHERE symbol = ?`, identifier).Scan(&ds)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !ds.Valid) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	return pricing.ParseDate(ds.String)
}

// Symbols lists every stored identifier.
func (s *SQLiteStore) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM daily_prices ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
