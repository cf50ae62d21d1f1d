package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"krishi-sahayak/backend/internal/features/advisory/application"
	configdomain "krishi-sahayak/backend/internal/features/config/domain"
	"krishi-sahayak/backend/internal/logger"
	"krishi-sahayak/backend/internal/server"
)

func newAdvisoryServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	catalog := configdomain.DefaultCatalog()
	log := logger.Discard()
	ts := httptest.NewServer(server.NewRouter(server.Dependencies{
		Logger:        log,
		RouterService: application.NewRouterService(catalog, application.NewPriceLookupService(catalog.Prices, 0), 0, log),
		Catalog:       catalog,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRun_Answers(t *testing.T) {
	ts := newAdvisoryServer(t)
	assert.Equal(t, 0, run([]string{"--server", ts.URL, "--query", "मेरे पत्ते पीले हो रहे हैं"}))
}

func TestRun_NoCapture(t *testing.T) {
	assert.Equal(t, 1, run([]string{"--server", "http://127.0.0.1:1"}))
}

func TestRun_ServerUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	assert.Equal(t, 1, run([]string{"--server", url, "--query", "पानी कम है", "--timeout", "500ms"}))
}

func TestRun_BadFlags(t *testing.T) {
	assert.Equal(t, 2, run([]string{"--no-such-flag"}))
	assert.Equal(t, 0, run([]string{"--help"}))
}
