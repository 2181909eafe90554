package discoverysummarize

import (
	"context"

	"productlab-workers/internal/common/errors"
	"productlab-workers/internal/common/logger"
	"productlab-workers/internal/common/metrics"
)

type ServiceDependencies struct {
	Logger logger.Logger
}

type Service struct {
	config *Config
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{config: config, logger: log}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeoutError("discovery summarizer", err)
	}

	summary := Summarize(input.Notes)
	metrics.DiscoveryOutcomes.WithLabelValues(string(summary.Outcome)).Inc()

	s.logger.Debug("Discovery notes summarized", map[string]interface{}{
		"outcome":     string(summary.Outcome),
		"bulletCount": summary.BulletCount,
		"notesLength": len(input.Notes),
	})
	return &summary, nil
}
