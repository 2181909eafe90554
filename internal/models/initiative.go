package models

// Initiative is a candidate piece of product work on the prioritisation board.
type Initiative struct {
	Name          string  `json:"name" yaml:"name"`
	UserValue     float64 `json:"userValue" yaml:"userValue"`
	BusinessValue float64 `json:"businessValue" yaml:"businessValue"`
	Effort        float64 `json:"effort" yaml:"effort"`
}

// DefaultInitiatives returns a fresh copy of the built-in board in its natural order.
func DefaultInitiatives() []Initiative {
	return []Initiative{
		{Name: "Lead focus view with simple score", UserValue: 9, BusinessValue: 8, Effort: 4},
		{Name: "Playbooks and next-best-action suggestions", UserValue: 8, BusinessValue: 9, Effort: 6},
		{Name: "Advanced multi-region reporting suite", UserValue: 6, BusinessValue: 7, Effort: 8},
		{Name: "In-app onboarding tour for new users", UserValue: 7, BusinessValue: 6, Effort: 3},
	}
}
