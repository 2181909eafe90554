package personaselect

import (
	"context"

	"productlab-workers/internal/common/errors"
	"productlab-workers/internal/common/metrics"
	"productlab-workers/internal/models"
)

// Logger is the subset of logger.Logger the service uses.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
}

type Service struct {
	config *Config
	logger Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{config: config, logger: deps.Logger}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	key := string(s.config.DefaultPersona)
	if input.PersonaKey != nil {
		key = *input.PersonaKey
	}
	return s.Select(ctx, key)
}

// Select returns the jobs, pains and opportunities of the persona in catalogue order.
func (s *Service) Select(ctx context.Context, key string) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeoutError("persona catalog", err)
	}

	pk, err := models.ParsePersonaKey(key)
	if err != nil {
		return nil, errors.NewInvalidPersonaKeyError(key)
	}
	p, ok := models.LookupPersona(pk)
	if !ok {
		return nil, errors.NewInvalidPersonaKeyError(key)
	}

	metrics.PersonaSelections.WithLabelValues(string(pk)).Inc()
	s.logger.Debug("Persona selected", map[string]interface{}{
		"personaKey": string(pk),
	})

	return &Output{
		PersonaKey:           string(p.Key),
		PersonaTitle:         p.Title,
		PersonaJobs:          p.Jobs,
		PersonaPains:         p.Pains,
		PersonaOpportunities: p.Opportunities,
	}, nil
}

// Keys lists the selectable personas in catalogue order.
func Keys() []string {
	keys := models.PersonaKeys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
