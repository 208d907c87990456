//go:build !integration

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		pretty bool
	}{
		{
			name:   "debug level",
			level:  "debug",
			pretty: false,
		},
		{
			name:   "info level",
			level:  "info",
			pretty: false,
		},
		{
			name:   "warn level",
			level:  "warn",
			pretty: false,
		},
		{
			name:   "error level",
			level:  "error",
			pretty: false,
		},
		{
			name:   "invalid level defaults to info",
			level:  "invalid",
			pretty: false,
		},
		{
			name:   "pretty output",
			level:  "info",
			pretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.level, tt.pretty)
			currentLevel := zerolog.GlobalLevel()
			assert.NotNil(t, Logger())
			switch tt.level {
			case "debug":
				assert.Equal(t, zerolog.DebugLevel, currentLevel)
			case "error":
				assert.Equal(t, zerolog.ErrorLevel, currentLevel)
			case "warn":
				assert.Equal(t, zerolog.WarnLevel, currentLevel)
			default:
				assert.Equal(t, zerolog.InfoLevel, currentLevel)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	Init("info", false)
	logger := Logger()
	assert.NotNil(t, logger)
}

func TestWithFields(t *testing.T) {
	Init("info", false)

	tests := []struct {
		name   string
		fields map[string]interface{}
	}{
		{
			name:   "empty fields",
			fields: map[string]interface{}{},
		},
		{
			name: "single field",
			fields: map[string]interface{}{
				"key": "value",
			},
		},
		{
			name: "multiple fields",
			fields: map[string]interface{}{
				"key1": "value1",
				"key2": 123,
				"key3": true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := WithFields(tt.fields)
			assert.NotNil(t, logger)
		})
	}
}

func TestInit_WithPrettyOutput(t *testing.T) {
	originalStderr := os.Stderr
	defer func() {
		os.Stderr = originalStderr
	}()

	Init("info", true)
	logger := Logger()
	assert.NotNil(t, logger)
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("info", false, &buf)
	defer Init("info", false)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})

	tests := []struct {
		name      string
		ctx       context.Context
		wantTrace string
		wantReqID string
	}{
		{
			name: "no span",
			ctx:  context.Background(),
		},
		{
			name:      "with span",
			ctx:       trace.ContextWithSpanContext(context.Background(), sc),
			wantTrace: "4bf92f3577b34da6a3ce929d0e0e4736",
		},
		{
			name:      "with request id",
			ctx:       ContextWithRequestID(context.Background(), "req-42"),
			wantReqID: "req-42",
		},
		{
			name:      "with request id and span",
			ctx:       ContextWithRequestID(trace.ContextWithSpanContext(context.Background(), sc), "req-43"),
			wantTrace: "4bf92f3577b34da6a3ce929d0e0e4736",
			wantReqID: "req-43",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			l := WithContext(tt.ctx)
			l.Info().Msg("hello")

			var line map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			if tt.wantReqID == "" {
				assert.NotContains(t, line, "request_id")
			} else {
				assert.Equal(t, tt.wantReqID, line["request_id"])
			}
			if tt.wantTrace == "" {
				assert.NotContains(t, line, "trace_id")
				return
			}
			assert.Equal(t, tt.wantTrace, line["trace_id"])
			assert.Equal(t, "00f067aa0ba902b7", line["span_id"])
		})
	}
}

func TestContextWithRequestID(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "")
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "abc")
	assert.Equal(t, "abc", RequestIDFromContext(ctx))
}
