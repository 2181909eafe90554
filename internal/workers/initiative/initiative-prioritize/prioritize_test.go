package initiativeprioritize

import (
	"math"
	"testing"

	"productlab-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(items []models.Initiative) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestScore(t *testing.T) {
	board := models.DefaultInitiatives()

	assert.InDelta(t, 8.5, Score(board[0]), 1e-9)
	assert.InDelta(t, 6.8/1.2, Score(board[1]), 1e-9)
	assert.InDelta(t, 3.25, Score(board[2]), 1e-9)
	assert.InDelta(t, 5.2/0.6, Score(board[3]), 1e-9)

	assert.True(t, math.IsInf(Score(models.Initiative{Name: "free", UserValue: 1, Effort: 0}), 1))
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{8.5, "8.5"},
		{0.25, "0.3"},
		{0.05, "0.1"},
		{1.45, "1.4"},
		{-1.25, "-1.3"},
		{-0.04, "-0.0"},
		{6.8 / 1.2, "5.7"},
		{5.2 / 0.6, "8.7"},
		{123456.78, "123456.8"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
		{1e21, "1e+21"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatScore(tt.in))
		})
	}
}

func TestRender(t *testing.T) {
	board := models.DefaultInitiatives()
	before := models.DefaultInitiatives()

	rows := Render(board)
	require.Len(t, rows, 4)
	assert.Equal(t, before, board)

	assert.Equal(t, "Lead focus view with simple score", rows[0].Name)
	assert.Equal(t, 9.0, rows[0].UserValue)
	assert.Equal(t, 8.0, rows[0].BusinessValue)
	assert.Equal(t, 4.0, rows[0].Effort)
	assert.Equal(t, "8.5", rows[0].ScoreText)
	assert.Equal(t, "5.7", rows[1].ScoreText)
	assert.Equal(t, "8.7", rows[3].ScoreText)

	inf := Render([]models.Initiative{{Name: "free", UserValue: 1, Effort: 0}})
	assert.Nil(t, inf[0].Score)
	assert.Equal(t, "Infinity", inf[0].ScoreText)

	assert.Empty(t, Render(nil))
}

func TestSortByScoreDescending(t *testing.T) {
	board := models.DefaultInitiatives()

	sorted := SortByScoreDescending(board)
	assert.Equal(t, []string{
		"In-app onboarding tour for new users",
		"Lead focus view with simple score",
		"Playbooks and next-best-action suggestions",
		"Advanced multi-region reporting suite",
	}, names(sorted))
	assert.Equal(t, &board[0], &sorted[0], "sort must permute in place")

	again := SortByScoreDescending(sorted)
	assert.Equal(t, names(sorted), names(again))
}

func TestSortByScoreDescending_Stable(t *testing.T) {
	board := []models.Initiative{
		{Name: "a", UserValue: 1, BusinessValue: 1, Effort: 1},
		{Name: "b", UserValue: 5, BusinessValue: 5, Effort: 1},
		{Name: "c", UserValue: 2, BusinessValue: 2, Effort: 2},
		{Name: "d", UserValue: 0, BusinessValue: 0, Effort: 0},
	}

	SortByScoreDescending(board)
	assert.Equal(t, []string{"d", "b", "a", "c"}, names(board))
}
