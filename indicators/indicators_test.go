package indicators

import (
	"math"
	"testing"

	"github.com/rustyeddy/swing/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBars() []pricing.Bar {
	return []pricing.Bar{
		{Open: 100, High: 105, Low: 99, Close: 102},
		{Open: 102, High: 107, Low: 101, Close: 105},
		{Open: 105, High: 108, Low: 104, Close: 106},
		{Open: 106, High: 110, Low: 105, Close: 108},
		{Open: 108, High: 112, Low: 107, Close: 110},
		{Open: 110, High: 113, Low: 109, Close: 111},
		{Open: 111, High: 115, Low: 110, Close: 113},
		{Open: 113, High: 116, Low: 112, Close: 114},
		{Open: 114, High: 118, Low: 113, Close: 116},
		{Open: 116, High: 120, Low: 115, Close: 118},
	}
}

func TestRollingMean(t *testing.T) {
	t.Parallel()

	ma, err := RollingMean(Closes(createTestBars()), 5)
	require.NoError(t, err)
	require.Len(t, ma, 10)

	for i := 0; i < 4; i++ {
		assert.True(t, math.IsNaN(ma[i]), "index %d should be undefined", i)
	}
	// First 5 closes: 102,105,106,108,110 => 531/5
	assert.InDelta(t, 106.2, ma[4], 1e-9)
	// Last 5 closes: 111,113,114,116,118 => 572/5
	assert.InDelta(t, 114.4, ma[9], 1e-9)
}

func TestRollingMeanPropagatesUndefined(t *testing.T) {
	t.Parallel()

	vals := []float64{1, math.NaN(), 3, 4, 5}
	ma, err := RollingMean(vals, 2)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(ma[1]))
	assert.True(t, math.IsNaN(ma[2]))
	assert.InDelta(t, 3.5, ma[3], 1e-9)
	assert.InDelta(t, 4.5, ma[4], 1e-9)
}

func TestInvalidPeriod(t *testing.T) {
	t.Parallel()

	_, err := RollingMean([]float64{1}, 0)
	assert.Error(t, err)
	_, err = RollingMax([]float64{1}, -1)
	assert.Error(t, err)
	_, err = EWM([]float64{1}, 0)
	assert.Error(t, err)
	_, err = Shift([]float64{1}, -1)
	assert.Error(t, err)
}

func TestEWM(t *testing.T) {
	t.Parallel()

	// span 3 => alpha 0.5, decay 0.5
	got, err := EWM([]float64{1, 2, 3}, 3)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, got[0], 1e-12)
	// (2 + 0.5*1) / (1 + 0.5)
	assert.InDelta(t, 2.5/1.5, got[1], 1e-12)
	// (3 + 0.5*2 + 0.25*1) / (1 + 0.5 + 0.25)
	assert.InDelta(t, 4.25/1.75, got[2], 1e-12)
}

func TestEWMConstantSeries(t *testing.T) {
	t.Parallel()

	vals := make([]float64, 50)
	for i := range vals {
		vals[i] = 42
	}
	got, err := EWM(vals, 20)
	require.NoError(t, err)
	for _, v := range got {
		assert.InDelta(t, 42.0, v, 1e-9)
	}
}

func TestPriorMaxMin(t *testing.T) {
	t.Parallel()

	bars := createTestBars()

	hh, err := PriorMax(Highs(bars), 3)
	require.NoError(t, err)
	ll, err := PriorMin(Lows(bars), 3)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.True(t, math.IsNaN(hh[i]))
		assert.True(t, math.IsNaN(ll[i]))
	}
	// Bar 3 sees highs 105,107,108 and lows 99,101,104 only.
	assert.Equal(t, 108.0, hh[3])
	assert.Equal(t, 99.0, ll[3])
	// Bar 9 sees bars 6..8.
	assert.Equal(t, 118.0, hh[9])
	assert.Equal(t, 110.0, ll[9])
}

func TestPriorMaxExcludesCurrentBar(t *testing.T) {
	t.Parallel()

	highs := []float64{10, 10, 10, 50}
	hh, err := PriorMax(highs, 3)
	require.NoError(t, err)
	assert.Equal(t, 10.0, hh[3])
}

func TestShift(t *testing.T) {
	t.Parallel()

	got, err := Shift([]float64{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, []float64{1, 2}, got[2:])
}

func TestTrueRange(t *testing.T) {
	t.Parallel()

	current := pricing.Bar{High: 110, Low: 100, Close: 105}
	previous := pricing.Bar{Close: 104}
	assert.Equal(t, 10.0, trueRange(current, previous))

	gapUp := pricing.Bar{High: 120, Low: 115}
	assert.Equal(t, 16.0, trueRange(gapUp, previous))
}

func TestATR(t *testing.T) {
	t.Parallel()

	bars := []pricing.Bar{
		{High: 10, Low: 8, Close: 9},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
		{High: 13, Low: 11, Close: 12},
	}

	tr := TrueRange(bars)
	assert.True(t, math.IsNaN(tr[0]))
	assert.Equal(t, []float64{2, 2, 2, 2, 2}, tr[1:])

	atr, err := ATR(bars, 3)
	require.NoError(t, err)
	// TR starts at bar 1, so a 3-bar mean is first defined at bar 3.
	assert.True(t, math.IsNaN(atr[2]))
	assert.InDelta(t, 2.0, atr[3], 1e-12)
	assert.InDelta(t, 2.0, atr[5], 1e-12)
}
