package funnelsimulate

import (
	"regexp"

	"productlab-workers/internal/common/validation"
)

const surfaceExpr = `^[A-Za-z][A-Za-z0-9_-]{0,63}$`

var surfacePattern = regexp.MustCompile(surfaceExpr)

// GetInputSchema leaves the four numeric inputs untyped: anything that does
// not coerce to a number counts as 0 rather than failing the job.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"leads":           {Description: "Leads per month"},
			"winRate":         {Description: "Baseline win rate in percent"},
			"improvedWinRate": {Description: "Win rate with prioritised leads in percent"},
			"dealValue":       {Description: "Average deal value in SEK"},
			"surface": {
				Type:        []string{"string", "null"},
				Description: "Display surface the chart is drawn on",
				Pattern:     surfaceExpr,
			},
		},
	}
}

func GetOutputSchema() validation.JSONSchema {
	nullableNumber := validation.Property{Type: []string{"number", "null"}}
	return validation.JSONSchema{
		Type: "object",
		Required: []string{
			"funnelInputs", "baselineWins", "improvedWins", "baselineRevenue", "improvedRevenue", "extraRevenue",
			"baselineRevenueFormatted", "improvedRevenueFormatted", "extraRevenueFormatted",
			"chartId", "chartSurface",
		},
		Properties: map[string]validation.Property{
			"funnelInputs":             {Type: "object"},
			"baselineWins":             nullableNumber,
			"improvedWins":             nullableNumber,
			"baselineRevenue":          nullableNumber,
			"improvedRevenue":          nullableNumber,
			"extraRevenue":             nullableNumber,
			"baselineRevenueFormatted": {Type: "string", MinLength: validation.Int(1)},
			"improvedRevenueFormatted": {Type: "string", MinLength: validation.Int(1)},
			"extraRevenueFormatted":    {Type: "string", MinLength: validation.Int(1)},
			"chartId":                  {Type: "string", MinLength: validation.Int(1)},
			"chartSurface":             {Type: "string", Pattern: surfaceExpr},
			"chartPath":                {Type: "string"},
		},
		AdditionalProperties: validation.Bool(false),
	}
}
