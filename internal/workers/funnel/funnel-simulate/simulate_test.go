package funnelsimulate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const nbsp = "\u00a0"

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		in   FunnelInputs
		want FunnelResult
	}{
		{
			name: "reference case",
			in:   FunnelInputs{Leads: 100, WinRate: 10, ImprovedWinRate: 30, DealValue: 5000},
			want: FunnelResult{BaselineWins: 10, ImprovedWins: 30, BaselineRevenue: 50000, ImprovedRevenue: 150000, ExtraRevenue: 100000},
		},
		{
			name: "no leads",
			in:   FunnelInputs{Leads: 0, WinRate: 50, ImprovedWinRate: 80, DealValue: 1000},
			want: FunnelResult{},
		},
		{
			name: "improved rate lower",
			in:   FunnelInputs{Leads: 100, WinRate: 20, ImprovedWinRate: 10, DealValue: 1000},
			want: FunnelResult{BaselineWins: 20, ImprovedWins: 10, BaselineRevenue: 20000, ImprovedRevenue: 10000, ExtraRevenue: -10000},
		},
		{
			name: "defaults",
			in:   DefaultConfig().Defaults,
			want: FunnelResult{BaselineWins: 30, ImprovedWins: 50, BaselineRevenue: 1200000, ImprovedRevenue: 2000000, ExtraRevenue: 800000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.in)
			assert.InDelta(t, tt.want.BaselineWins, got.BaselineWins, 1e-9)
			assert.InDelta(t, tt.want.ImprovedWins, got.ImprovedWins, 1e-9)
			assert.InDelta(t, tt.want.BaselineRevenue, got.BaselineRevenue, 1e-6)
			assert.InDelta(t, tt.want.ImprovedRevenue, got.ImprovedRevenue, 1e-6)
			assert.InDelta(t, tt.want.ExtraRevenue, got.ExtraRevenue, 1e-6)
		})
	}
}

func TestCompute_NonFinite(t *testing.T) {
	got := Compute(FunnelInputs{Leads: math.Inf(1), WinRate: 10, ImprovedWinRate: 10, DealValue: 100})
	assert.True(t, math.IsInf(got.BaselineRevenue, 1))
	assert.True(t, math.IsNaN(got.ExtraRevenue))

	f := got.Format()
	assert.Equal(t, "\u2013", f.Baseline)
	assert.Equal(t, "\u2013", f.Extra)

	out := newOutput(FunnelInputs{Leads: math.Inf(1)}, got)
	assert.Nil(t, out.BaselineRevenue)
	assert.Nil(t, out.ExtraRevenue)
	assert.Nil(t, out.Inputs.Leads)
}

func TestFormat(t *testing.T) {
	f := Compute(FunnelInputs{Leads: 100, WinRate: 10, ImprovedWinRate: 30, DealValue: 5000}).Format()
	assert.Equal(t, "50"+nbsp+"000"+nbsp+"kr", f.Baseline)
	assert.Equal(t, "150"+nbsp+"000"+nbsp+"kr", f.Improved)
	assert.Equal(t, "100"+nbsp+"000"+nbsp+"kr", f.Extra)

	f = Compute(FunnelInputs{Leads: 100, WinRate: 20, ImprovedWinRate: 10, DealValue: 1000}).Format()
	assert.Equal(t, "\u221210"+nbsp+"000"+nbsp+"kr", f.Extra)
}

func TestRevenueChart(t *testing.T) {
	c := RevenueChart("revenueChart", FunnelResult{BaselineRevenue: 1, ImprovedRevenue: 2})

	assert.Equal(t, "revenueChart", c.Surface)
	assert.Equal(t, []string{"Baseline", "With prioritised leads"}, c.Labels)
	assert.Equal(t, "Monthly revenue (SEK)", c.Series.Label)
	assert.Equal(t, []float64{1, 2}, c.Series.Values)
	assert.False(t, c.Style.ShowLegend)
	assert.False(t, c.Style.ShowXGrid)
	assert.True(t, c.Style.ShowYGrid)
	assert.Equal(t, "#9ca3af", c.Style.TickColor)
	assert.Equal(t, "#1f2937", c.Style.GridColor)
	assert.Equal(t, 6.0, c.Style.BorderRadius)
	assert.NoError(t, c.Validate())
}
