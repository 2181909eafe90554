package initiativeprioritize

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"productlab-workers/internal/common/camunda"
	"productlab-workers/internal/common/config"
	"productlab-workers/internal/common/errors"
	"productlab-workers/internal/common/logger"
	"productlab-workers/internal/common/metrics"
	"productlab-workers/internal/common/observability"
	"productlab-workers/internal/common/validation"
	"productlab-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "initiative.board.prioritize"

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
	Store         BoardStore
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
		service:       NewService(ServiceDependencies{
			Logger: loggerInstance,
			Store:  opts.Store,
		}, workerConfig),
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

	h.logger.Info("Processing initiative board", map[string]interface{}{
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

	h.logger.Info("Initiative board completed", map[string]interface{}{
		"jobKey":  job.GetKey(),
		"boardId": output.BoardID,
		"action":  output.Action,
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

	result := validation.ValidateInput(variables, GetInputSchema(h.config.MaxItems))
	if !result.Valid {
		return nil, errors.NewValidationFailedError(result.GetErrorMessages())
	}

	input := &Input{}
	if action, ok := variables["action"].(string); ok {
		input.Action = action
	}
	if boardID, ok := variables["boardId"].(string); ok {
		input.BoardID = boardID
	}
	if raw, ok := variables["initiatives"]; ok && raw != nil {
		items, err := decodeInitiatives(raw)
		if err != nil {
			return nil, errors.NewInputParsingFailedError(err)
		}
		input.Initiatives = items
	}
	return input, nil
}

func decodeInitiatives(raw interface{}) ([]models.Initiative, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	items := []models.Initiative{}
	if err := json.Unmarshal(encoded, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Execute renders or sorts the board named by input.
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
		if appConfig.Initiatives.DefaultBoard != "" {
			cfg.DefaultBoard = appConfig.Initiatives.DefaultBoard
		}
	}

	return cfg
}
