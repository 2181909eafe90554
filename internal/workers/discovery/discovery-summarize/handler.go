package discoverysummarize

import (
	"context"
	"fmt"
	"time"

	"productlab-workers/internal/common/camunda"
	"productlab-workers/internal/common/config"
	"productlab-workers/internal/common/errors"
	"productlab-workers/internal/common/logger"
	"productlab-workers/internal/common/metrics"
	"productlab-workers/internal/common/observability"
	"productlab-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "discovery.notes.summarize"

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

	return &Handler{
		config:        workerConfig,
		logger:        loggerInstance,
		service:       NewService(ServiceDependencies{Logger: loggerInstance}, workerConfig),
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

	h.logger.Info("Summarizing discovery notes", map[string]interface{}{
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

	h.logger.Info("Discovery summary completed", map[string]interface{}{
		"jobKey":  job.GetKey(),
		"outcome": string(output.Outcome),
	})
	return nil
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Summary, error) {
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

	result := validation.ValidateInput(variables, GetInputSchema(h.config.MaxNotesChars))
	if !result.Valid {
		return nil, errors.NewValidationFailedError(result.GetErrorMessages())
	}

	input := &Input{}
	if notes, ok := variables["notes"].(string); ok {
		input.Notes = notes
	}
	return input, nil
}

// Execute summarizes the notes in input.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Summary, error) {
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
	}

	return cfg
}
