package funnelsimulate

import (
	"context"
	"fmt"
	"time"

	"productlab-workers/internal/common/camunda"
	"productlab-workers/internal/common/chart"
	"productlab-workers/internal/common/config"
	"productlab-workers/internal/common/errors"
	"productlab-workers/internal/common/logger"
	"productlab-workers/internal/common/metrics"
	"productlab-workers/internal/common/observability"
	"productlab-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "funnel.revenue.simulate"

type Handler struct {
	config        *Config
	logger        logger.Logger
	service       *Service
	errorHandler  *errors.ErrorHandler
	observability *observability.Observability
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Logger        logger.Logger
	Observability *observability.Observability
	Surfaces      *chart.Surfaces
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"taskType": TaskType})

	service, err := NewService(ServiceDependencies{
		Logger:   loggerInstance,
		Surfaces: opts.Surfaces,
	}, workerConfig)
	if err != nil {
		return nil, fmt.Errorf("create %s service: %w", TaskType, err)
	}

	return &Handler{
		config:        workerConfig,
		logger:        loggerInstance,
		service:       service,
		errorHandler:  errors.NewErrorHandler(loggerInstance),
		observability: opts.Observability,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Simulating revenue funnel", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	output, err := h.process(ctx, job)
	if err == nil {
		err = camunda.CompleteJob(ctx, client, job, output, nil)
	}
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errors.CodeOf(err)).Inc()
		h.observability.RecordJob(ctx, TaskType, "failed", time.Since(startTime))
		return h.errorHandler.HandleJobError(ctx, client, job, err)
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.observability.RecordJob(ctx, TaskType, "completed", time.Since(startTime))

	h.logger.Info("Funnel simulation completed", map[string]interface{}{
		"jobKey":       job.GetKey(),
		"chartId":      output.ChartID,
		"extraRevenue": output.ExtraRevenueFormatted,
	})
	return nil
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := h.parseInput(job)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, errors.NewValidationFailedError(result.GetErrorMessages())
	}

	input := &Input{
		Leads:           numericVariable(variables, "leads"),
		WinRate:         numericVariable(variables, "winRate"),
		ImprovedWinRate: numericVariable(variables, "improvedWinRate"),
		DealValue:       numericVariable(variables, "dealValue"),
	}
	if surface, ok := variables["surface"].(string); ok {
		input.Surface = surface
	}
	return input, nil
}

// numericVariable returns nil when name is absent and the coerced value otherwise.
func numericVariable(variables map[string]interface{}, name string) *float64 {
	raw, ok := variables[name]
	if !ok {
		return nil
	}
	v := CoerceNumber(raw)
	return &v
}

// Execute computes the funnel for input and redraws its chart.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}

func (h *Handler) Service() *Service {
	return h.service
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		workerCfg := config.GetWorkerConfig(appConfig, TaskType)
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(workerCfg.Timeout)
		}

		f := appConfig.Funnel
		cfg.Defaults = FunnelInputs{
			Leads:           f.Defaults.Leads,
			WinRate:         f.Defaults.WinRate,
			ImprovedWinRate: f.Defaults.ImprovedWinRate,
			DealValue:       f.Defaults.DealValue,
		}
		if f.Surface != "" {
			cfg.Surface = f.Surface
		}
		if f.Renderer != "" {
			cfg.Renderer = f.Renderer
		}
		cfg.ChartDir = f.ChartDir
	}

	return cfg
}
