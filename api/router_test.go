package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prasetyowira/qr-utils/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockHandler implements RouteHandler for testing
type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) RenderQRCode(w http.ResponseWriter, r *http.Request) {
	m.Called(w, r)
	w.WriteHeader(http.StatusOK)
}

func (m *MockHandler) FormatPayload(w http.ResponseWriter, r *http.Request) {
	m.Called(w, r)
	w.WriteHeader(http.StatusAccepted)
}

func (m *MockHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	m.Called(w, r)
	w.WriteHeader(http.StatusNonAuthoritativeInfo)
}

func TestNewRouter(t *testing.T) {
	// Arrange
	mockHandler := new(MockHandler)

	// Act
	router := NewRouter(mockHandler)

	// Assert
	assert.NotNil(t, router)
	assert.Equal(t, mockHandler, router.handler)
	assert.IsType(t, &chi.Mux{}, router.router)
}

func TestRouter_SetupRoutes(t *testing.T) {
	// Arrange
	mockHandler := new(MockHandler)
	router := NewRouter(mockHandler)

	// Act
	router.SetupRoutes()

	// Testing POST /api/qr/{kind}
	mockHandler.On("RenderQRCode", mock.Anything, mock.Anything).Once()
	req := httptest.NewRequest(http.MethodPost, "/api/qr/url", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(constant.HeaderRequestID))

	// Testing POST /api/qr/{kind}/payload
	mockHandler.On("FormatPayload", mock.Anything, mock.Anything).Once()
	req = httptest.NewRequest(http.MethodPost, "/api/qr/wifi/payload", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)

	// Testing GET /api/history
	mockHandler.On("ListHistory", mock.Anything, mock.Anything).Once()
	req = httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNonAuthoritativeInfo, w.Code)

	// Testing healthcheck route
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Healthy", w.Body.String())

	// Wrong method
	req = httptest.NewRequest(http.MethodGet, "/api/qr/url", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	mockHandler.AssertExpectations(t)
}
