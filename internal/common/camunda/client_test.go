package camunda

import (
	"context"
	"fmt"
	"testing"
	"time"

	"productlab-workers/internal/common/config"
	"productlab-workers/internal/common/errors"
	"productlab-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var fastRetry = &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"rpc error: code = Unavailable desc = connection refused", true},
		{"context deadline exceeded", true},
		{"write: broken pipe", true},
		{"i/o timeout", true},
		{"job not found", false},
		{"permission denied", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableZeebeError(fmt.Errorf("%s", tt.msg)))
		})
	}
}

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		msg  string
		want errors.ErrorCode
	}{
		{"connection refused", errors.ErrCodeExternalServiceError},
		{"context deadline exceeded", errors.ErrCodeTimeout},
		{"job with key 1 not found", errors.ErrCodeResourceNotFound},
		{"permission denied", errors.ErrCodeAuthentication},
		{"something odd", errors.ErrCodeExternalServiceError},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := mapZeebeError(fmt.Errorf("%s", tt.msg), "complete job", 0)
			stdErr := errors.AsStandardError(err)
			require.NotNil(t, stdErr)
			assert.Equal(t, tt.want, stdErr.Code)
		})
	}
}

func TestRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), fastRetry, "op", func(context.Context) error {
			calls++
			if calls < 3 {
				return fmt.Errorf("unavailable")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), fastRetry, "op", func(context.Context) error {
			calls++
			return fmt.Errorf("connection reset")
		})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, string(errors.ErrCodeExternalServiceError), errors.CodeOf(err))
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), fastRetry, "op", func(context.Context) error {
			calls++
			return fmt.Errorf("job not found")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, string(errors.ErrCodeResourceNotFound), errors.CodeOf(err))
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}
		calls := 0
		err := Retry(ctx, slow, "op", func(context.Context) error {
			calls++
			cancel()
			return fmt.Errorf("timeout")
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		err := Retry(context.Background(), nil, "op", func(context.Context) error { return nil })
		assert.NoError(t, err)
	})
}

func TestConfigFrom(t *testing.T) {
	cc := ConfigFrom(config.CamundaConfig{BrokerAddress: "zeebe:26500", Plaintext: true, RequestTimeout: 5000})
	assert.Equal(t, "zeebe:26500", cc.GatewayAddress)
	assert.True(t, cc.UsePlaintextConnection)
	assert.Equal(t, 5*time.Second, cc.RequestTimeout)
	assert.Same(t, DefaultRetryConfig, cc.RetryConfig)

	cc = ConfigFrom(config.CamundaConfig{})
	assert.Equal(t, 30*time.Second, cc.RequestTimeout)
}

type handlerFunc func(worker.JobClient, entities.Job) error

func (f handlerFunc) Handle(c worker.JobClient, j entities.Job) error { return f(c, j) }

func TestDispatch_LogsHandlerErrors(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := logger.NewZapAdapter(zap.New(core))

	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42, Type: "persona.catalog.select"}}

	dispatch(handlerFunc(func(worker.JobClient, entities.Job) error { return nil }), log)(nil, job)
	assert.Equal(t, 0, logs.Len())

	dispatch(handlerFunc(func(worker.JobClient, entities.Job) error { return fmt.Errorf("boom") }), log)(nil, job)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Handler returned error", entry.Message)
	assert.Equal(t, int64(42), entry.ContextMap()["jobKey"])
	assert.Equal(t, "persona.catalog.select", entry.ContextMap()["jobType"])
}
