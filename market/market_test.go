package market

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/swing/pricing"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func bar(d int, close float64) pricing.Bar {
	return pricing.Bar{Date: day(d), Open: close, High: close + 1, Low: close - 1, Close: close, Volume: 1000}
}

func TestNormalizeSortsAndDedupes(t *testing.T) {
	t.Parallel()

	in := []pricing.Bar{bar(3, 30), bar(1, 10), bar(3, 99), bar(2, 20)}
	out := Normalize(in)

	require.Len(t, out, 3)
	assert.Equal(t, day(1), out[0].Date)
	assert.Equal(t, day(2), out[1].Date)
	assert.Equal(t, day(3), out[2].Date)
	assert.Equal(t, 30.0, out[2].Close, "first occurrence of a date wins")

	assert.Nil(t, Normalize(nil))
}

func TestMemoryProvider(t *testing.T) {
	t.Parallel()

	m := MemoryProvider{"A": {bar(1, 10), bar(2, 11), bar(3, 12), bar(4, 13)}}

	bars, err := m.Load(context.Background(), "A", day(2), day(3))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 11.0, bars[0].Close)

	bars, err = m.Load(context.Background(), "missing", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Nil(t, bars)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Load(ctx, "A", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadBarsCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "with header", in: "date,open,high,low,close,volume\n2024-01-02,1,2,0.5,1.5,100\n", want: 1},
		{name: "no header", in: "2024-01-02,1,2,0.5,1.5,100\n2024-01-03,1,2,0.5,1.5,100\n", want: 2},
		{name: "rfc3339", in: "2024-01-02T00:00:00Z,1,2,0.5,1.5,100\n", want: 1},
		{name: "short row", in: "2024-01-02,1,2\n", wantErr: true},
		{name: "bad number", in: "2024-01-02,x,2,0.5,1.5,100\n", wantErr: true},
		{name: "bad date", in: "02/01/2024,1,2,0.5,1.5,100\n", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bars, err := ReadBarsCSV(strings.NewReader(tt.in), "X")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, bars, tt.want)
			assert.Equal(t, "X", bars[0].Symbol)
		})
	}
}

func TestCSVDirRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := CSVDir{Dir: dir}

	var buf bytes.Buffer
	require.NoError(t, WriteBarsCSV(&buf, []pricing.Bar{bar(2, 11), bar(1, 10), bar(2, 12)}))
	require.NoError(t, os.WriteFile(c.Path("NSE_EQ|INE1"), buf.Bytes(), 0o644))
	assert.Equal(t, filepath.Join(dir, "NSE_EQ_INE1.csv"), c.Path("NSE_EQ|INE1"))

	bars, err := c.Load(context.Background(), "NSE_EQ|INE1", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, day(1), bars[0].Date)
	assert.Equal(t, 11.0, bars[1].Close)

	bars, err = c.Load(context.Background(), "NOPE", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Nil(t, bars)
}

func TestInstruments(t *testing.T) {
	t.Parallel()

	in, err := ReadInstruments(strings.NewReader(
		"instrument_key,exchange,tradingsymbol\nNSE_EQ|INE1,NSE,abc\nNSE_EQ|INE2,NSE,XYZ\nNSE_EQ|INE3,NSE,ABC\n,NSE,EMPTY\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"ABC", "XYZ", "EMPTY"}, in.Symbols())

	key, ok := in.Resolve("abc")
	assert.True(t, ok)
	assert.Equal(t, "NSE_EQ|INE1", key)

	_, ok = in.Resolve("EMPTY")
	assert.False(t, ok)
	_, ok = in.Resolve("NONE")
	assert.False(t, ok)

	var identity *Instruments
	key, ok = identity.Resolve("RELIANCE")
	assert.True(t, ok)
	assert.Equal(t, "RELIANCE", key)
	assert.Equal(t, 0, identity.Len())

	_, err = ReadInstruments(strings.NewReader("a,b\n1,2\n"))
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "prices.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.LastDate(ctx, "A")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.Store(ctx, "A", []pricing.Bar{bar(1, 10), bar(2, 11), bar(3, 12)})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// existing rows are kept
	n, err = s.Store(ctx, "A", []pricing.Bar{bar(3, 99), bar(4, 13)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	last, err := s.LastDate(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, day(4), last)

	bars, err := s.Load(ctx, "A", day(2), day(3))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 12.0, bars[1].Close)
	assert.Equal(t, "A", bars[1].Symbol)

	bars, err = s.Load(ctx, "B", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Nil(t, bars)

	syms, err := s.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, syms)
}
