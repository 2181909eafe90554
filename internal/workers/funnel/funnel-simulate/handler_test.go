package funnelsimulate

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"productlab-workers/internal/common/chart"
	"productlab-workers/internal/common/config"
	commonerrors "productlab-workers/internal/common/errors"
	"productlab-workers/internal/common/logger"
	"productlab-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "product-lab",
		ElementId:          "Activity_SimulateFunnel",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Draw(ctx context.Context, c chart.BarChart) (chart.Handle, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(chart.Handle), args.Error(1)
}

func newTestHandler(t *testing.T, surfaces *chart.Surfaces) *Handler {
	t.Helper()
	if surfaces == nil {
		surfaces = chart.NewSurfaces(chart.NewMemoryRenderer())
	}
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Logger:       logger.NewTestLogger(t),
		Surfaces:     surfaces,
	})
	require.NoError(t, err)
	return h
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"pdf with dir", func(c *Config) { c.Renderer = config.RendererPDF; c.ChartDir = "/tmp/charts" }, false},
		{"pdf without dir", func(c *Config) { c.Renderer = config.RendererPDF }, true},
		{"unknown renderer", func(c *Config) { c.Renderer = "svg" }, true},
		{"bad surface", func(c *Config) { c.Surface = "../etc" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	cfg := createConfigFromAppConfig(&config.Config{
		Funnel: config.FunnelConfig{
			Defaults: config.FunnelDefaults{Leads: 100, WinRate: 10, ImprovedWinRate: 30, DealValue: 5000},
			Surface:  "boardChart",
			Renderer: config.RendererPDF,
			ChartDir: "/var/charts",
		},
	}, nil)

	assert.Equal(t, FunnelInputs{Leads: 100, WinRate: 10, ImprovedWinRate: 30, DealValue: 5000}, cfg.Defaults)
	assert.Equal(t, "boardChart", cfg.Surface)
	assert.Equal(t, config.RendererPDF, cfg.Renderer)
	assert.Equal(t, "/var/charts", cfg.ChartDir)
}

func TestHandler_ParseInput(t *testing.T) {
	h := newTestHandler(t, nil)

	t.Run("absent fields stay nil", func(t *testing.T) {
		input, err := h.parseInput(createMockJob(1, map[string]interface{}{"leads": 50}))
		require.NoError(t, err)
		require.NotNil(t, input.Leads)
		assert.Equal(t, 50.0, *input.Leads)
		assert.Nil(t, input.WinRate)
		assert.Nil(t, input.ImprovedWinRate)
		assert.Nil(t, input.DealValue)
		assert.Empty(t, input.Surface)
	})

	t.Run("tolerant coercion", func(t *testing.T) {
		input, err := h.parseInput(createMockJob(2, map[string]interface{}{
			"leads":           " 120 ",
			"winRate":         nil,
			"improvedWinRate": "abc",
			"dealValue":       map[string]interface{}{"amount": 1},
			"surface":         "revenueChart",
		}))
		require.NoError(t, err)
		assert.Equal(t, 120.0, *input.Leads)
		assert.Equal(t, 0.0, *input.WinRate)
		assert.Equal(t, 0.0, *input.ImprovedWinRate)
		assert.Equal(t, 0.0, *input.DealValue)
		assert.Equal(t, "revenueChart", input.Surface)
	})

	t.Run("invalid surface", func(t *testing.T) {
		_, err := h.parseInput(createMockJob(3, map[string]interface{}{"surface": "../../etc/passwd"}))
		require.Error(t, err)
		assert.Equal(t, string(commonerrors.ErrCodeValidationFailed), commonerrors.CodeOf(err))
	})
}

func TestHandler_Execute(t *testing.T) {
	renderer := chart.NewMemoryRenderer()
	surfaces := chart.NewSurfaces(renderer)
	h := newTestHandler(t, surfaces)
	ctx := context.Background()

	leads, win := 100.0, 10.0
	improved, deal := 30.0, 5000.0
	out, err := h.Execute(ctx, &Input{Leads: &leads, WinRate: &win, ImprovedWinRate: &improved, DealValue: &deal})
	require.NoError(t, err)

	assert.Equal(t, 50000.0, *out.BaselineRevenue)
	assert.Equal(t, 150000.0, *out.ImprovedRevenue)
	assert.Equal(t, 100000.0, *out.ExtraRevenue)
	assert.Equal(t, "100"+nbsp+"000"+nbsp+"kr", out.ExtraRevenueFormatted)
	assert.Equal(t, "revenueChart", out.ChartSurface)
	assert.NotEmpty(t, out.ChartID)
	assert.Empty(t, out.ChartPath)

	drawn, ok := renderer.Chart(out.ChartID)
	require.True(t, ok)
	assert.Equal(t, []float64{50000, 150000}, drawn.Series.Values)

	second, err := h.Execute(ctx, &Input{})
	require.NoError(t, err)
	assert.Equal(t, 1200000.0, *second.BaselineRevenue)
	assert.Equal(t, 1, renderer.Live())
	_, ok = renderer.Chart(out.ChartID)
	assert.False(t, ok)

	other, err := h.Execute(ctx, &Input{Surface: "otherChart"})
	require.NoError(t, err)
	assert.Equal(t, "otherChart", other.ChartSurface)
	assert.Equal(t, 2, renderer.Live())
	assert.Equal(t, 2, surfaces.Live())

	require.NoError(t, surfaces.Close())
	assert.Equal(t, 0, renderer.Live())
}

func TestHandler_ExecuteChartFailure(t *testing.T) {
	renderer := new(MockRenderer)
	renderer.On("Draw", mock.Anything, mock.AnythingOfType("chart.BarChart")).Return(nil, errors.New("canvas lost"))
	h := newTestHandler(t, chart.NewSurfaces(renderer))

	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)

	stdErr := commonerrors.AsStandardError(err)
	assert.Equal(t, commonerrors.ErrCodeChartRenderFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	renderer.AssertExpectations(t)
}

func TestHandler_ExecuteWithPDF(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Renderer = config.RendererPDF
	cfg.ChartDir = dir

	h, err := NewHandler(HandlerOptions{CustomConfig: cfg, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)

	first, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	require.NotEmpty(t, first.ChartPath)
	_, err = os.Stat(first.ChartPath)
	require.NoError(t, err)

	second, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	_, err = os.Stat(first.ChartPath)
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, h.Service().Surfaces().Close())
	_, err = os.Stat(second.ChartPath)
	assert.True(t, os.IsNotExist(err))
}

func TestOutputMatchesSchema(t *testing.T) {
	h := newTestHandler(t, nil)
	inf := CoerceNumber("Infinity")

	for _, input := range []*Input{{}, {Leads: &inf}} {
		out, err := h.Execute(context.Background(), input)
		require.NoError(t, err)

		raw, err := json.Marshal(out)
		require.NoError(t, err)
		var vars map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &vars))

		result := validation.ValidateInput(vars, GetOutputSchema())
		assert.True(t, result.Valid, result.GetErrorMessages())
	}
}
