// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputParsingFailed   ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeOutputEncodingFailed ErrorCode = "OUTPUT_ENCODING_FAILED"
	ErrCodeInvalidPersonaKey    ErrorCode = "INVALID_PERSONA_KEY"
	ErrCodeInvalidInitiative    ErrorCode = "INVALID_INITIATIVE"
	ErrCodeInvalidBoardAction   ErrorCode = "INVALID_BOARD_ACTION"
	ErrCodeChartRenderFailed    ErrorCode = "CHART_RENDER_FAILED"
	ErrCodeBoardStateFailed     ErrorCode = "BOARD_STATE_FAILED"
	ErrCodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout              ErrorCode = "TIMEOUT_ERROR"
	ErrCodeResourceNotFound     ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeAuthentication       ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInputParsingFailedError wraps a job variable decoding failure.
func NewInputParsingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputParsingFailed,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError reports schema violations in job variables.
func NewValidationFailedError(messages []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   fmt.Sprintf("Validation errors: %v", messages),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOutputEncodingFailedError is returned when the result cannot be attached to the job.
func NewOutputEncodingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOutputEncodingFailed,
		Message:   "Failed to encode job output",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPersonaKeyError rejects a key outside the persona catalogue.
func NewInvalidPersonaKeyError(key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPersonaKey,
		Message:   "Unknown persona key",
		Details:   fmt.Sprintf("personaKey: %q", key),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInitiativeError rejects a caller-provided initiative.
func NewInvalidInitiativeError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInitiative,
		Message:   "Invalid initiative",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidBoardActionError rejects an unsupported board action.
func NewInvalidBoardActionError(action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidBoardAction,
		Message:   "Unsupported board action",
		Details:   fmt.Sprintf("action: %q", action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewChartRenderFailedError creates a retryable chart rendering error.
func NewChartRenderFailedError(surface string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeChartRenderFailed,
		Message:   "Chart rendering failed",
		Details:   fmt.Sprintf("surface: %s, error: %s", surface, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBoardStateFailedError creates a retryable board store error.
func NewBoardStateFailedError(boardID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBoardStateFailed,
		Message:   "Initiative board state unavailable",
		Details:   fmt.Sprintf("boardId: %s, error: %s", boardID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalServiceError,
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResourceNotFound,
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthentication,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by BPMN boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInputParsingFailed:   "INPUT_PARSING_FAILED",
	ErrCodeValidationFailed:     "VALIDATION_FAILED",
	ErrCodeOutputEncodingFailed: "OUTPUT_ENCODING_FAILED",
	ErrCodeInvalidPersonaKey:    "INVALID_PERSONA_KEY",
	ErrCodeInvalidInitiative:    "INVALID_INITIATIVE",
	ErrCodeInvalidBoardAction:   "INVALID_BOARD_ACTION",
	ErrCodeChartRenderFailed:    "CHART_RENDER_FAILED",
	ErrCodeBoardStateFailed:     "BOARD_STATE_FAILED",
	ErrCodeExternalServiceError: "EXTERNAL_SERVICE_ERROR",
	ErrCodeTimeout:              "TIMEOUT_ERROR",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeChartRenderFailed,
		ErrCodeBoardStateFailed,
		ErrCodeExternalServiceError:
		return 3

	case ErrCodeTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError returns err as a StandardError, wrapping unknown errors as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the error code used for metric labels.
func CodeOf(err error) string {
	if stdErr, ok := err.(*StandardError); ok {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PERSONA"):
		return "PERSONA"
	case strings.Contains(codeStr, "CHART"):
		return "CHART"
	case strings.Contains(codeStr, "BOARD") || strings.Contains(codeStr, "INITIATIVE"):
		return "BOARD"
	case strings.Contains(codeStr, "PARSING") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "ENCODING"):
		return "VALIDATION"
	case strings.Contains(codeStr, "EXTERNAL") || strings.Contains(codeStr, "TIMEOUT"):
		return "INFRASTRUCTURE"
	default:
		return "OTHER"
	}
}
