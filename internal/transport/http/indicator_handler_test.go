package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apierrors "indicli/internal/errors"
	"indicli/internal/services"
	"indicli/pkg/contracts/domain"
)

// MockIndicatorService is a mock implementation of IndicatorServiceInterface
type MockIndicatorService struct {
	mock.Mock
}

func (m *MockIndicatorService) IDs() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockIndicatorService) Get(ctx context.Context, indicatorID string) (*domain.Indicator, error) {
	args := m.Called(indicatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Indicator), args.Error(1)
}

func (m *MockIndicatorService) GetPeriod(ctx context.Context, indicatorID string, months int) (*domain.Indicator, error) {
	args := m.Called(indicatorID, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Indicator), args.Error(1)
}

func (m *MockIndicatorService) All(ctx context.Context) []*domain.Indicator {
	args := m.Called()
	return args.Get(0).([]*domain.Indicator)
}

func (m *MockIndicatorService) Invalidate(indicatorID string) {
	m.Called(indicatorID)
}

func handlerTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testIndicator(id string) *domain.Indicator {
	series := domain.NewSeries(id)
	series.AppendPoint(domain.Observation{Time: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Value: 100})
	series.AppendPoint(domain.Observation{Time: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), Value: 105})
	return &domain.Indicator{
		Metadata: domain.Metadata{ID: id, Name: "Test Indicator", PreferredDirection: domain.DirectionNeutral},
		Series:   series,
	}
}

func newIndicatorTestServer(svc IndicatorServiceInterface) *httptest.Server {
	logger := handlerTestLogger()
	handler := NewIndicatorHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
	r := chi.NewRouter()
	r.Mount("/api/indicators", handler.Routes())
	return httptest.NewServer(r)
}

func TestIndicatorHandler_ListIndicators(t *testing.T) {
	mockService := new(MockIndicatorService)
	mockService.On("IDs").Return([]string{"wti_oil", "dollar_index"})

	server := newIndicatorTestServer(mockService)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/indicators")
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"success","data":["wti_oil","dollar_index"],"count":2}`, string(body))
	mockService.AssertExpectations(t)
}

func TestIndicatorHandler_ListIndicatorsFull(t *testing.T) {
	mockService := new(MockIndicatorService)
	mockService.On("All").Return([]*domain.Indicator{testIndicator("wti_oil")})

	server := newIndicatorTestServer(mockService)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/indicators?full=true")
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"count":1`)
	assert.Contains(t, string(body), `"id":"wti_oil"`)
	mockService.AssertExpectations(t)
}

func TestIndicatorHandler_GetIndicator(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockIndicatorService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful get",
			path: "/api/indicators/wti_oil",
			setupMock: func(m *MockIndicatorService) {
				m.On("Get", "wti_oil").Return(testIndicator("wti_oil"), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"wti_oil"`,
		},
		{
			name: "months query uses GetPeriod",
			path: "/api/indicators/wti_oil?months=6",
			setupMock: func(m *MockIndicatorService) {
				m.On("GetPeriod", "wti_oil", 6).Return(testIndicator("wti_oil"), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"success"`,
		},
		{
			name:           "invalid months rejected",
			path:           "/api/indicators/wti_oil?months=0",
			setupMock:      func(m *MockIndicatorService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "months must be between",
		},
		{
			name: "unknown indicator returns 404",
			path: "/api/indicators/nope_nope",
			setupMock: func(m *MockIndicatorService) {
				m.On("Get", "nope_nope").Return(nil, services.ErrIndicatorNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Indicator 'nope_nope' not found",
		},
		{
			name: "empty dataset returns 422",
			path: "/api/indicators/wti_oil",
			setupMock: func(m *MockIndicatorService) {
				m.On("Get", "wti_oil").Return(nil, services.ErrEmptyDataset)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "no usable observations",
		},
		{
			name: "internal error returns 500",
			path: "/api/indicators/wti_oil",
			setupMock: func(m *MockIndicatorService) {
				m.On("Get", "wti_oil").Return(nil, errors.New("disk on fire"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockIndicatorService)
			tt.setupMock(mockService)

			server := newIndicatorTestServer(mockService)
			defer server.Close()

			resp, err := http.Get(server.URL + tt.path)
			assert.NoError(t, err)
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Contains(t, string(body), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestIndicatorHandler_DownloadIndicator(t *testing.T) {
	mockService := new(MockIndicatorService)
	mockService.On("Get", "wti_oil").Return(testIndicator("wti_oil"), nil)

	server := newIndicatorTestServer(mockService)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/indicators/wti_oil/download")
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "wti_oil_monthly.csv")
	assert.Contains(t, string(body), "Date,value,monthly_change")
	assert.Contains(t, string(body), "2025-08-01,105.00")
	mockService.AssertExpectations(t)
}

func TestIndicatorHandler_RefreshIndicator(t *testing.T) {
	mockService := new(MockIndicatorService)
	mockService.On("Invalidate", "wti_oil").Return()
	mockService.On("Get", "wti_oil").Return(testIndicator("wti_oil"), nil)

	server := newIndicatorTestServer(mockService)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/indicators/wti_oil/refresh", "application/json", nil)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockService.AssertExpectations(t)
}
