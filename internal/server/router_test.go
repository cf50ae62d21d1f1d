package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishi-sahayak/backend/internal/features/advisory/application"
	"krishi-sahayak/backend/internal/features/advisory/domain"
	configdomain "krishi-sahayak/backend/internal/features/config/domain"
	"krishi-sahayak/backend/internal/logger"
	"krishi-sahayak/backend/internal/middleware"
)

type voiceResponse struct {
	Diagnosis       string               `json:"diagnosis"`
	Solution        string               `json:"solution"`
	PriceComparison *[]domain.PriceQuote `json:"priceComparison"`
	Product         *string              `json:"product"`
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	catalog := configdomain.DefaultCatalog()
	log := logger.Discard()
	return NewRouter(Dependencies{
		Logger:        log,
		RouterService: application.NewRouterService(catalog, application.NewPriceLookupService(catalog.Prices, 0), 0, log),
		Catalog:       catalog,
	})
}

func postQuery(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/voice-assistant", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeVoice(t *testing.T, w *httptest.ResponseRecorder) voiceResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out voiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestVoiceAssistant_YellowLeaves(t *testing.T) {
	out := decodeVoice(t, postQuery(t, newTestEngine(), `{"query":"मेरे पत्ते पीले हो रहे हैं"}`))

	assert.Equal(t, "यह नाइट्रोजन की कमी हो सकती है", out.Diagnosis)
	assert.Contains(t, out.Solution, "यूरिया")
	require.NotNil(t, out.Product)
	assert.Equal(t, "यूरिया खाद", *out.Product)
	require.NotNil(t, out.PriceComparison)
	assert.Len(t, *out.PriceComparison, 3)
}

func TestVoiceAssistant_LowWater(t *testing.T) {
	w := postQuery(t, newTestEngine(), `{"query":"पानी कम है"}`)
	out := decodeVoice(t, w)

	assert.Contains(t, out.Solution, "सिंचाई")
	assert.Nil(t, out.Product)
	assert.Nil(t, out.PriceComparison)
	assert.Contains(t, w.Body.String(), `"priceComparison":null`)
	assert.Contains(t, w.Body.String(), `"product":null`)
}

func TestVoiceAssistant_Fallback(t *testing.T) {
	out := decodeVoice(t, postQuery(t, newTestEngine(), `{"query":"मेरी बकरी बीमार है"}`))

	assert.Equal(t, domain.FallbackDiagnosis, out.Diagnosis)
	assert.Nil(t, out.Product)
	assert.Nil(t, out.PriceComparison)
}

func TestVoiceAssistant_EmptyQuery(t *testing.T) {
	w := postQuery(t, newTestEngine(), `{"query":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
}

func TestVoiceAssistant_WrongMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/voice-assistant", nil)
	w := httptest.NewRecorder()
	newTestEngine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newTestEngine()

	w := postQuery(t, r, `{"query":"पानी कम"}`)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestCatalogEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/config/catalog", nil)
	w := httptest.NewRecorder()
	newTestEngine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var catalog configdomain.Catalog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	assert.Equal(t, configdomain.DefaultCatalog(), &catalog)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestEngine()
	postQuery(t, r, `{"query":"कीड़े लगे हैं"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "krishi_voice_queries_total")
	assert.Contains(t, w.Body.String(), "krishi_price_lookups_total")
}
