package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// captureLogs redirects the global logger into a buffer for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.InitWithWriter("debug", false, &buf)
	t.Cleanup(func() { logger.Init("info", false) })
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestAudit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		operator string
		action   string
		err      error
		fields   map[string]interface{}
		level    string
		code     string
	}{
		{
			name:     "records successful action with operator",
			operator: "dispatcher-1",
			action:   ActionSubmitOrder,
			fields:   map[string]interface{}{"order_id": "o-1"},
			level:    "info",
		},
		{
			name:   "records action without operator",
			action: ActionReconcileTrip,
			fields: map[string]interface{}{"trip_id": "t-1"},
			level:  "info",
		},
		{
			name:     "records failure with domain code",
			operator: "dispatcher-2",
			action:   ActionCancelOrder,
			err:      fmt.Errorf("cancel o-9: %w", model.ErrNotFound),
			fields:   map[string]interface{}{"order_id": "o-9"},
			level:    "warn",
			code:     model.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			router := gin.New()
			router.Use(RequestID())
			router.POST("/test", func(c *gin.Context) {
				if tt.operator != "" {
					c.Set(string(OperatorIDKey), tt.operator)
				}
				if tt.err != nil {
					AuditError(c, tt.action, tt.err, tt.fields)
				} else {
					Audit(c, tt.action, tt.fields)
				}
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			req.Header.Set(RequestIDHeader, "req-1")
			router.ServeHTTP(httptest.NewRecorder(), req)

			entry := decodeLine(t, buf)
			assert.Equal(t, true, entry["audit"])
			assert.Equal(t, tt.action, entry["action"])
			assert.Equal(t, tt.operator, entry["operator_id"])
			assert.Equal(t, "req-1", entry["request_id"])
			assert.Equal(t, tt.level, entry["level"])
			for k, v := range tt.fields {
				assert.Equal(t, v, entry[k])
			}
			if tt.code != "" {
				assert.Equal(t, tt.code, entry["code"])
				assert.Contains(t, entry["error"], "not found")
			}
		})
	}
}

func TestAuditTrail_PersistsEntries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	captureLogs(t)

	recorder := &mockAuditRecorder{}
	recorder.On("RecordMany", mock.Anything, mock.Anything).Return(nil)
	writer := NewAuditWriter(recorder, AuditWriterConfig{BufferSize: 10, NumWorkers: 1, WriteTimeout: time.Second})

	fields := map[string]interface{}{"order_id": "o-1"}
	router := gin.New()
	router.Use(RequestID(), AuditTrail(writer))
	router.POST("/ok", func(c *gin.Context) {
		c.Set(string(OperatorIDKey), "dispatcher-1")
		Audit(c, ActionSubmitOrder, fields)
		c.Status(http.StatusCreated)
	})
	router.POST("/fail", func(c *gin.Context) {
		AuditError(c, ActionCancelOrder, fmt.Errorf("cancel o-9: %w", model.ErrNotFound), nil)
		c.Status(http.StatusNotFound)
	})

	for _, path := range []string{"/ok", "/fail"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(RequestIDHeader, "req"+path)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
	fields["order_id"] = "mutated"
	writer.Stop()

	entries := recorder.recorded()
	require.Len(t, entries, 2)
	byAction := map[string]*model.AuditEntry{}
	for _, e := range entries {
		byAction[e.Action] = e
	}

	ok := byAction[ActionSubmitOrder]
	require.NotNil(t, ok)
	assert.Equal(t, model.AuditSuccess, ok.Outcome)
	assert.Equal(t, "dispatcher-1", ok.OperatorID)
	assert.Equal(t, "req/ok", ok.RequestID)
	assert.Equal(t, "/ok", ok.Path)
	assert.Equal(t, "o-1", ok.Fields["order_id"])

	failed := byAction[ActionCancelOrder]
	require.NotNil(t, failed)
	assert.Equal(t, model.AuditFailure, failed.Outcome)
	assert.Equal(t, model.CodeNotFound, failed.Code)
	assert.Contains(t, failed.Error, "not found")
}

func TestAuditTrail_NilWriterOnlyLogs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs(t)

	router := gin.New()
	router.Use(AuditTrail(nil))
	router.POST("/test", func(c *gin.Context) {
		assert.Nil(t, auditWriter(c))
		Audit(c, ActionSaveProduct, nil)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/test", nil))

	assert.Equal(t, ActionSaveProduct, decodeLine(t, buf)["action"])
}
