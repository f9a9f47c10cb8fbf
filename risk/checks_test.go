package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowCapDisabled(t *testing.T) {
	t.Parallel()

	p := Policy{RiskPerTrade: 0.01, MaxPortfolioRisk: 0.04}
	d := p.Allow(50000, 1000, 100000)
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Violations)
	assert.Equal(t, 0.0, d.RiskLimit)
}

func TestAllowCapEnabled(t *testing.T) {
	t.Parallel()

	p := Policy{RiskPerTrade: 0.01, MaxPortfolioRisk: 0.04, EnforcePortfolioCap: true}

	tests := []struct {
		name    string
		open    float64
		allowed bool
		capital float64
		newRisk float64
	}{
		{"empty_book", 0, true, 100000, 1000},
		{"reaches_limit_exactly", 3000, true, 100000, 1000},
		{"exceeds_limit", 4000, false, 100000, 1000},
		{"partially_over", 3500, false, 100000, 1000},
		{"smaller_capital", 2000, false, 50000, 500},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := p.Allow(tt.open, tt.newRisk, tt.capital)
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				require.Len(t, d.Violations, 1)
				assert.Equal(t, "PORTFOLIO_RISK_CAP", d.Violations[0].Code)
			}
		})
	}
}

func TestAllowFourEqualPositions(t *testing.T) {
	t.Parallel()

	p := Policy{RiskPerTrade: 0.01, MaxPortfolioRisk: 0.04, EnforcePortfolioCap: true}
	capital := 100000.0
	riskAmt := capital * p.RiskPerTrade

	open := 0.0
	for i := 0; i < 4; i++ {
		d := p.Allow(open, riskAmt, capital)
		require.True(t, d.Allowed, "position %d", i+1)
		open += riskAmt
	}
	assert.False(t, p.Allow(open, riskAmt, capital).Allowed)
}

func TestAllowNoRisk(t *testing.T) {
	t.Parallel()

	d := Policy{RiskPerTrade: 0.01}.Allow(0, 0, 100000)
	assert.False(t, d.Allowed)
	assert.Equal(t, "NO_RISK", d.Violations[0].Code)
}

func TestPolicyValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Policy{RiskPerTrade: 0.01}.Validate())
	assert.NoError(t, Policy{RiskPerTrade: 0.01, MaxPortfolioRisk: 0.04, EnforcePortfolioCap: true}.Validate())
	assert.Error(t, Policy{RiskPerTrade: 0}.Validate())
	assert.Error(t, Policy{RiskPerTrade: 1.5}.Validate())
	assert.Error(t, Policy{RiskPerTrade: 0.01, EnforcePortfolioCap: true}.Validate())
}
