package funnelsimulate

import (
	"context"
	"fmt"

	"productlab-workers/internal/common/chart"
	"productlab-workers/internal/common/config"
	"productlab-workers/internal/common/errors"
	"productlab-workers/internal/common/logger"
)

type ServiceDependencies struct {
	Logger   logger.Logger
	Surfaces *chart.Surfaces
}

type Service struct {
	config   *Config
	logger   logger.Logger
	surfaces *chart.Surfaces
}

// NewService uses deps.Surfaces when given, otherwise it builds the renderer
// named in config.
func NewService(deps ServiceDependencies, cfg *Config) (*Service, error) {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	surfaces := deps.Surfaces
	if surfaces == nil {
		renderer, err := NewRenderer(cfg)
		if err != nil {
			return nil, err
		}
		surfaces = chart.NewSurfaces(renderer)
	}

	return &Service{config: cfg, logger: log, surfaces: surfaces}, nil
}

// NewRenderer builds the chart renderer selected by cfg.Renderer.
func NewRenderer(cfg *Config) (chart.Renderer, error) {
	switch cfg.Renderer {
	case config.RendererPDF:
		return chart.NewPDFRenderer(cfg.ChartDir)
	case config.RendererMemory, "":
		return chart.NewMemoryRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", cfg.Renderer)
	}
}

// Resolve fills absent inputs from the configured defaults.
func (s *Service) Resolve(input *Input) (FunnelInputs, string) {
	in := s.config.Defaults
	if input.Leads != nil {
		in.Leads = *input.Leads
	}
	if input.WinRate != nil {
		in.WinRate = *input.WinRate
	}
	if input.ImprovedWinRate != nil {
		in.ImprovedWinRate = *input.ImprovedWinRate
	}
	if input.DealValue != nil {
		in.DealValue = *input.DealValue
	}

	surface := input.Surface
	if surface == "" {
		surface = s.config.Surface
	}
	return in, surface
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	in, surface := s.Resolve(input)
	return s.Simulate(ctx, in, surface)
}

// Simulate computes the funnel and replaces the chart on surface.
func (s *Service) Simulate(ctx context.Context, in FunnelInputs, surface string) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeoutError("funnel simulator", err)
	}

	result := Compute(in)
	output := newOutput(in, result)

	handle, err := s.surfaces.Slot(surface).Replace(ctx, RevenueChart(surface, result))
	if err != nil {
		return nil, errors.NewChartRenderFailedError(surface, err)
	}
	output.ChartID = handle.ID()
	output.ChartSurface = handle.Surface()
	output.ChartPath = chart.Path(handle)

	s.logger.Debug("Funnel simulated", map[string]interface{}{
		"surface":         surface,
		"chartId":         output.ChartID,
		"baselineRevenue": output.BaselineRevenueFormatted,
		"improvedRevenue": output.ImprovedRevenueFormatted,
	})
	return output, nil
}

// Surfaces exposes the chart owner so callers can release charts on shutdown.
func (s *Service) Surfaces() *chart.Surfaces {
	return s.surfaces
}
