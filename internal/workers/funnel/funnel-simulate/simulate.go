package funnelsimulate

import (
	"math"

	"productlab-workers/internal/common/chart"
	"productlab-workers/internal/common/money"
)

const (
	LabelBaseline = "Baseline"
	LabelImproved = "With prioritised leads"
	SeriesLabel   = "Monthly revenue (SEK)"
)

// FunnelInputs are the four simulator inputs after coercion.
type FunnelInputs struct {
	Leads           float64 `json:"leads" yaml:"leads"`
	WinRate         float64 `json:"winRate" yaml:"winRate"`
	ImprovedWinRate float64 `json:"improvedWinRate" yaml:"improvedWinRate"`
	DealValue       float64 `json:"dealValue" yaml:"dealValue"`
}

// FunnelResult is derived from FunnelInputs and never stored.
type FunnelResult struct {
	BaselineWins    float64
	ImprovedWins    float64
	BaselineRevenue float64
	ImprovedRevenue float64
	ExtraRevenue    float64
}

// Compute runs the funnel arithmetic. Extra revenue is negative when the
// improved win rate is lower than the baseline. Each product is rounded on its
// own so the result does not depend on fused multiply-add.
func Compute(in FunnelInputs) FunnelResult {
	baselineWins := float64(in.Leads * float64(in.WinRate/100))
	improvedWins := float64(in.Leads * float64(in.ImprovedWinRate/100))
	baselineRevenue := float64(baselineWins * in.DealValue)
	improvedRevenue := float64(improvedWins * in.DealValue)

	return FunnelResult{
		BaselineWins:    baselineWins,
		ImprovedWins:    improvedWins,
		BaselineRevenue: baselineRevenue,
		ImprovedRevenue: improvedRevenue,
		ExtraRevenue:    improvedRevenue - baselineRevenue,
	}
}

// Formatted holds the three revenue figures as display strings.
type Formatted struct {
	Baseline string `json:"baseline" yaml:"baseline"`
	Improved string `json:"improved" yaml:"improved"`
	Extra    string `json:"extra" yaml:"extra"`
}

func (r FunnelResult) Format() Formatted {
	return Formatted{
		Baseline: money.FormatSEK(r.BaselineRevenue),
		Improved: money.FormatSEK(r.ImprovedRevenue),
		Extra:    money.FormatSEK(r.ExtraRevenue),
	}
}

// RevenueChart is the two-bar chart drawn after every computation.
func RevenueChart(surface string, r FunnelResult) chart.BarChart {
	return chart.BarChart{
		Surface: surface,
		Labels:  []string{LabelBaseline, LabelImproved},
		Series: chart.Series{
			Label:  SeriesLabel,
			Values: []float64{r.BaselineRevenue, r.ImprovedRevenue},
		},
		Style: chart.Style{
			ShowLegend:   false,
			ShowXGrid:    false,
			ShowYGrid:    true,
			TickColor:    "#9ca3af",
			GridColor:    "#1f2937",
			BorderRadius: 6,
		},
	}
}

// finite returns nil for values JSON cannot carry.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
