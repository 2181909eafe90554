package personaselect

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"productlab-workers/internal/common/config"
	"productlab-workers/internal/common/errors"
	"productlab-workers/internal/common/logger"
	"productlab-workers/internal/common/validation"
	"productlab-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "product-lab",
		ElementId:          "Activity_SelectPersona",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr bool
	}{
		{name: "defaults", opts: HandlerOptions{}},
		{name: "custom config", opts: HandlerOptions{CustomConfig: DefaultConfig()}},
		{
			name: "app config",
			opts: HandlerOptions{AppConfig: &config.Config{
				Persona: config.PersonaConfig{Default: "founder"},
				Workers: map[string]config.WorkerConfig{
					TaskType: {Enabled: true, MaxJobsActive: 2, Timeout: 2500},
				},
			}},
		},
		{
			name:    "unknown default persona",
			opts:    HandlerOptions{AppConfig: &config.Config{Persona: config.PersonaConfig{Default: "cto"}}},
			wantErr: true,
		},
		{
			name:    "zero timeout",
			opts:    HandlerOptions{CustomConfig: &Config{MaxJobsActive: 1, DefaultPersona: models.PersonaAE}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TaskType, h.GetTaskType())
		})
	}
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	cfg := createConfigFromAppConfig(&config.Config{
		Persona: config.PersonaConfig{Default: "founder"},
		Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: false, MaxJobsActive: 2, Timeout: 2500},
		},
	}, nil)

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 2, cfg.MaxJobsActive)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, models.PersonaFounder, cfg.DefaultPersona)
}

func TestHandler_ParseInput(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name     string
		vars     map[string]interface{}
		wantKey  *string
		wantCode errors.ErrorCode
	}{
		{name: "missing key", vars: map[string]interface{}{}},
		{name: "null key", vars: map[string]interface{}{"personaKey": nil}},
		{name: "key", vars: map[string]interface{}{"personaKey": "ae"}, wantKey: strPtr("ae")},
		{name: "unrelated process variables", vars: map[string]interface{}{"personaKey": "founder", "leads": 200}, wantKey: strPtr("founder")},
		{name: "wrong type", vars: map[string]interface{}{"personaKey": 7}, wantCode: errors.ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := h.parseInput(createMockJob(1, tt.vars))
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, string(tt.wantCode), errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, input.PersonaKey)
		})
	}
}

func TestHandler_ParseInput_BadVariables(t *testing.T) {
	h := newTestHandler(t)
	job := createMockJob(1, nil)
	job.Variables = "{not json"

	_, err := h.parseInput(job)
	require.Error(t, err)
	assert.Equal(t, string(errors.ErrCodeInputParsingFailed), errors.CodeOf(err))
}

func TestHandler_Execute(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	t.Run("default persona", func(t *testing.T) {
		out, err := h.Execute(ctx, &Input{})
		require.NoError(t, err)
		assert.Equal(t, "salesLead", out.PersonaKey)
		assert.Equal(t, "Keep a healthy pipeline that the team trusts", out.PersonaJobs[0])
	})

	t.Run("every catalogue key", func(t *testing.T) {
		for _, key := range Keys() {
			k := key
			out, err := h.Execute(ctx, &Input{PersonaKey: &k})
			require.NoError(t, err)

			want, ok := models.LookupPersona(models.PersonaKey(key))
			require.True(t, ok)
			assert.Equal(t, want.Jobs, out.PersonaJobs)
			assert.Equal(t, want.Pains, out.PersonaPains)
			assert.Equal(t, want.Opportunities, out.PersonaOpportunities)
			assert.Equal(t, want.Title, out.PersonaTitle)
		}
	})

	t.Run("invalid keys", func(t *testing.T) {
		for _, key := range []string{"", "cto", "SalesLead", "founder "} {
			k := key
			_, err := h.Execute(ctx, &Input{PersonaKey: &k})
			require.Error(t, err, key)
			stdErr := errors.AsStandardError(err)
			assert.Equal(t, errors.ErrCodeInvalidPersonaKey, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := h.Execute(cctx, &Input{})
		assert.Error(t, err)
	})
}

func TestOutputMatchesSchema(t *testing.T) {
	h := newTestHandler(t)
	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &vars))

	result := validation.ValidateInput(vars, GetOutputSchema())
	assert.True(t, result.Valid, result.GetErrorMessages())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"salesLead", "ae", "founder"}, Keys())
}

func strPtr(s string) *string { return &s }
