package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishi-sahayak/backend/internal/logger"
)

func TestRecoveryReturnsInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := logger.NewLoggerWithWriter(&buf, "info", true)

	r := gin.New()
	r.Use(RequestID(), Logging(log), Recovery(log))
	r.POST("/api/voice-assistant", func(c *gin.Context) {
		panic("catalog vanished")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/voice-assistant", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
	assert.Contains(t, buf.String(), "catalog vanished")
	assert.Contains(t, buf.String(), w.Header().Get(RequestIDHeader))
}

func TestLoggingRecordsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := logger.NewLoggerWithWriter(&buf, "info", true)

	r := gin.New()
	r.Use(RequestID(), Logging(log))
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"request_id":"abc-123"`)
	assert.Contains(t, buf.String(), "Request: GET /ping")
}
