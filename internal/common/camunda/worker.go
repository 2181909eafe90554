// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"productlab-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler must return an error (required by Zeebe client)
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job) error
}

// WorkerOptions configures one job worker.
type WorkerOptions struct {
	TaskType      string
	Name          string
	MaxJobsActive int
	Timeout       time.Duration
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for opts.TaskType. The caller owns the client.
func NewWorker(client zbc.Client, opts WorkerOptions, handler JobHandler, log logger.Logger) *CamundaWorker {
	step := client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(dispatch(handler, log))

	if opts.MaxJobsActive > 0 {
		step = step.MaxJobsActive(opts.MaxJobsActive)
	}
	if opts.Timeout > 0 {
		step = step.Timeout(opts.Timeout)
	}
	if opts.Name != "" {
		step = step.Name(opts.Name)
	}

	return &CamundaWorker{
		worker:   step.Open(),
		logger:   log,
		taskType: opts.TaskType,
	}
}

// dispatch adapts a JobHandler to the callback signature the Zeebe client expects.
func dispatch(handler JobHandler, log logger.Logger) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		if err := handler.Handle(client, job); err != nil {
			log.Error("Handler returned error", map[string]interface{}{
				"error":   err.Error(),
				"jobKey":  job.GetKey(),
				"jobType": job.GetType(),
			})
		}
	}
}

func (w *CamundaWorker) TaskType() string {
	return w.taskType
}

func (w *CamundaWorker) Start() {
	w.logger.Info("worker started", map[string]interface{}{"taskType": w.taskType})
}

// Stop closes the job worker and waits for in-flight jobs.
func (w *CamundaWorker) Stop(ctx context.Context) {
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})

	done := make(chan struct{})
	go func() {
		w.worker.Close()
		w.worker.AwaitClose()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("worker did not stop in time", map[string]interface{}{"taskType": w.taskType})
	}
}
