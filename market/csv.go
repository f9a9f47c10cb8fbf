package market

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/swing/pricing"
)

// CSVDir loads bars from <Dir>/<identifier>.csv files with rows
//
//	date,open,high,low,close,volume
//
// where date is YYYY-MM-DD or RFC3339. A header row is allowed.
type CSVDir struct {
	Dir string
}

func (c CSVDir) Path(identifier string) string {
	name := strings.NewReplacer("/", "_", "|", "_", " ", "_").Replace(identifier)
	return filepath.Join(c.Dir, name+".csv")
}

func (c CSVDir) Load(ctx context.Context, identifier string, start, end time.Time) ([]pricing.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.Path(identifier))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bars, err := ReadBarsCSV(f, identifier)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Path(identifier), err)
	}

	out := bars[:0]
	for _, b := range bars {
		if pricing.InRange(b.Date, start, end) {
			out = append(out, b)
		}
	}
	return Normalize(out), nil
}

// ReadBarsCSV parses daily bar rows. Empty rows are skipped.
func ReadBarsCSV(r io.Reader, symbol string) ([]pricing.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var (
		bars     []pricing.Bar
		sawFirst bool
		line     int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return bars, nil
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "date") {
				continue
			}
		}

		b, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		b.Symbol = symbol
		bars = append(bars, b)
	}
}

func parseBarRow(row []string) (pricing.Bar, error) {
	if len(row) < 6 {
		return pricing.Bar{}, fmt.Errorf("need 6 columns date,open,high,low,close,volume, got %d", len(row))
	}

	ts := strings.TrimSpace(row[0])
	t, err := time.Parse(pricing.DateLayout, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339, ts)
		if err2 != nil {
			return pricing.Bar{}, fmt.Errorf("bad date %q: %w", ts, err)
		}
		t = t2
	}

	var vals [5]float64
	for i := range vals {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return pricing.Bar{}, fmt.Errorf("bad number %q: %w", row[i+1], err)
		}
		vals[i] = v
	}

	return pricing.Bar{
		Date:   pricing.Day(t),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

// WriteBarsCSV writes bars in the format ReadBarsCSV accepts.
func WriteBarsCSV(w io.Writer, bars []pricing.Bar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, b := range bars {
		err := cw.Write([]string{
			b.Date.Format(pricing.DateLayout),
			f(b.Open), f(b.High), f(b.Low), f(b.Close),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
