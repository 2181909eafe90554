package funnelsimulate

// Input holds the raw job variables. A nil field was absent and takes the
// configured default; a present field is coerced, so null and "" become 0.
type Input struct {
	Leads           *float64
	WinRate         *float64
	ImprovedWinRate *float64
	DealValue       *float64
	Surface         string
}

// Output is written back as process variables. Numeric figures are null when
// they are not finite; the formatted strings show a dash instead.
type Output struct {
	Inputs                   InputEcho `json:"funnelInputs" yaml:"funnelInputs"`
	BaselineWins             *float64  `json:"baselineWins" yaml:"baselineWins"`
	ImprovedWins             *float64  `json:"improvedWins" yaml:"improvedWins"`
	BaselineRevenue          *float64  `json:"baselineRevenue" yaml:"baselineRevenue"`
	ImprovedRevenue          *float64  `json:"improvedRevenue" yaml:"improvedRevenue"`
	ExtraRevenue             *float64  `json:"extraRevenue" yaml:"extraRevenue"`
	BaselineRevenueFormatted string    `json:"baselineRevenueFormatted" yaml:"baselineRevenueFormatted"`
	ImprovedRevenueFormatted string    `json:"improvedRevenueFormatted" yaml:"improvedRevenueFormatted"`
	ExtraRevenueFormatted    string    `json:"extraRevenueFormatted" yaml:"extraRevenueFormatted"`
	ChartID                  string    `json:"chartId" yaml:"chartId"`
	ChartSurface             string    `json:"chartSurface" yaml:"chartSurface"`
	ChartPath                string    `json:"chartPath,omitempty" yaml:"chartPath,omitempty"`
}

// InputEcho reports the coerced inputs the figures were computed from.
type InputEcho struct {
	Leads           *float64 `json:"leads" yaml:"leads"`
	WinRate         *float64 `json:"winRate" yaml:"winRate"`
	ImprovedWinRate *float64 `json:"improvedWinRate" yaml:"improvedWinRate"`
	DealValue       *float64 `json:"dealValue" yaml:"dealValue"`
}

func newOutput(in FunnelInputs, r FunnelResult) *Output {
	f := r.Format()
	return &Output{
		Inputs: InputEcho{
			Leads:           finite(in.Leads),
			WinRate:         finite(in.WinRate),
			ImprovedWinRate: finite(in.ImprovedWinRate),
			DealValue:       finite(in.DealValue),
		},
		BaselineWins:             finite(r.BaselineWins),
		ImprovedWins:             finite(r.ImprovedWins),
		BaselineRevenue:          finite(r.BaselineRevenue),
		ImprovedRevenue:          finite(r.ImprovedRevenue),
		ExtraRevenue:             finite(r.ExtraRevenue),
		BaselineRevenueFormatted: f.Baseline,
		ImprovedRevenueFormatted: f.Improved,
		ExtraRevenueFormatted:    f.Extra,
	}
}
