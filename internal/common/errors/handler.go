package errors

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler reports failed jobs back to the engine.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError fails the job with a decremented retry count when the error is
// retryable and the job still has retries left; otherwise it throws a BPMN error.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) error {
	stdErr := AsStandardError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	retries, throw := RetryDecision(job.GetRetries(), bpmnErr)
	h.logError(job, stdErr, bpmnErr, retries, throw)

	if throw {
		return h.throwBPMNError(ctx, client, job, bpmnErr)
	}
	return h.failJobWithRetries(ctx, client, job, bpmnErr, retries)
}

// RetryDecision returns the retries to report and whether the error should be thrown instead.
func RetryDecision(remaining int32, bpmnErr *BPMNError) (int32, bool) {
	if !bpmnErr.Retryable || bpmnErr.Retries <= 0 {
		return 0, true
	}
	next := remaining - 1
	if next > int32(bpmnErr.Retries) {
		next = int32(bpmnErr.Retries)
	}
	if next <= 0 {
		return 0, true
	}
	return next, false
}

func (h *ErrorHandler) failJobWithRetries(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, retries int32) error {
	cmd := client.NewFailJobCommand().
		JobKey(job.GetKey()).
		Retries(retries).
		ErrorMessage(fmt.Sprintf("[%s] %s", bpmnErr.Code, bpmnErr.Message))

	withVars, err := cmd.VariablesFromMap(bpmnErr.ToErrorVariables())
	if err != nil {
		_, sendErr := cmd.Send(ctx)
		return sendErr
	}
	_, err = withVars.Send(ctx)
	return err
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) error {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.GetKey()).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	withVars, err := cmd.VariablesFromMap(bpmnErr.ToErrorVariables())
	if err != nil {
		_, sendErr := cmd.Send(ctx)
		return sendErr
	}
	_, err = withVars.Send(ctx)
	return err
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError, retries int32, thrown bool) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.GetKey(),
		"jobType":          job.GetType(),
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    bpmnErr.Code,
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"retryable":        stdErr.Retryable,
		"retries":          retries,
		"thrown":           thrown,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.GetProcessInstanceKey(),
	})
}
