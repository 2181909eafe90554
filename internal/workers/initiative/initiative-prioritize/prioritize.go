package initiativeprioritize

import (
	"cmp"
	"math"
	"math/big"
	"slices"
	"strconv"

	"productlab-workers/internal/models"
)

// Score weighs user and business value equally against effort:
// (userValue*0.4 + businessValue*0.4) / (effort*0.2). Zero effort scores +Inf.
func Score(item models.Initiative) float64 {
	if item.Effort == 0 {
		return math.Inf(1)
	}
	benefit := float64(item.UserValue*0.4) + float64(item.BusinessValue*0.4)
	return benefit / float64(item.Effort*0.2)
}

// Row is one rendered line of the prioritisation table.
type Row struct {
	Name          string   `json:"name" yaml:"name"`
	UserValue     float64  `json:"userValue" yaml:"userValue"`
	BusinessValue float64  `json:"businessValue" yaml:"businessValue"`
	Effort        float64  `json:"effort" yaml:"effort"`
	Score         *float64 `json:"score" yaml:"score"`
	ScoreText     string   `json:"scoreText" yaml:"scoreText"`
}

// Render produces one row per item in the current order. It never reorders
// or modifies items.
func Render(items []models.Initiative) []Row {
	rows := make([]Row, len(items))
	for i, item := range items {
		s := Score(item)
		row := Row{
			Name:          item.Name,
			UserValue:     item.UserValue,
			BusinessValue: item.BusinessValue,
			Effort:        item.Effort,
			ScoreText:     FormatScore(s),
		}
		if !math.IsInf(s, 0) && !math.IsNaN(s) {
			row.Score = &s
		}
		rows[i] = row
	}
	return rows
}

// SortByScoreDescending reorders items in place, highest score first, keeping
// the relative order of equal scores. It returns items itself.
func SortByScoreDescending(items []models.Initiative) []models.Initiative {
	slices.SortStableFunc(items, func(a, b models.Initiative) int {
		return cmp.Compare(Score(b), Score(a))
	})
	return items
}

// FormatScore renders x with one decimal the way Number.prototype.toFixed(1)
// does: the exact binary value is rounded, ties go away from zero, and a
// negative value that rounds to zero keeps its minus sign.
func FormatScore(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case math.Abs(x) >= 1e21:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}

	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}

	scaled := new(big.Float).SetPrec(256).SetFloat64(x)
	scaled.Mul(scaled, big.NewFloat(10))
	scaled.Add(scaled, big.NewFloat(0.5))
	n, _ := scaled.Int(nil)

	digits := n.String()
	if len(digits) < 2 {
		digits = "0" + digits
	}
	return sign + digits[:len(digits)-1] + "." + digits[len(digits)-1:]
}
