package http

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"indicli/internal/dataprocessing"
	apierrors "indicli/internal/errors"
	"indicli/internal/services"
	"indicli/pkg/contracts/domain"
)

// MockAnalysisService is a mock implementation of AnalysisServiceInterface
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Forecast(ctx context.Context, indicatorID string) (domain.ForecastSegment, error) {
	args := m.Called(indicatorID)
	return args.Get(0).(domain.ForecastSegment), args.Error(1)
}

func (m *MockAnalysisService) Correlations(ctx context.Context, months int) (*domain.CorrelationMatrix, error) {
	args := m.Called(months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CorrelationMatrix), args.Error(1)
}

func (m *MockAnalysisService) Frame(ctx context.Context) (*domain.Frame, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Frame), args.Error(1)
}

func (m *MockAnalysisService) Composite(ctx context.Context, name string, components []dataprocessing.Component) (*domain.Series, error) {
	args := m.Called(name, components)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Series), args.Error(1)
}

func (m *MockAnalysisService) Summaries(ctx context.Context) []dataprocessing.Summary {
	args := m.Called()
	return args.Get(0).([]dataprocessing.Summary)
}

func newAnalysisTestServer(svc AnalysisServiceInterface) *httptest.Server {
	logger := handlerTestLogger()
	handler := NewAnalysisHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
	r := chi.NewRouter()
	r.Mount("/api/analysis", handler.Routes())
	return httptest.NewServer(r)
}

func TestAnalysisHandler_GetForecast(t *testing.T) {
	segment := domain.ForecastSegment{
		IndicatorID: "wti_oil",
		Method:      "ols_trailing_12",
		Points: []domain.ForecastPoint{
			{Time: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), Value: 80, Lower: 75, Upper: 85},
		},
	}

	mockService := new(MockAnalysisService)
	mockService.On("Forecast", "wti_oil").Return(segment, nil)

	server := newAnalysisTestServer(mockService)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/analysis/forecast/wti_oil")
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"empty":false`)
	assert.Contains(t, string(body), `"method":"ols_trailing_12"`)
	mockService.AssertExpectations(t)
}

func TestAnalysisHandler_GetForecastEmptySegment(t *testing.T) {
	segment := domain.ForecastSegment{IndicatorID: "cement_index", Method: "ols_trailing_12"}

	mockService := new(MockAnalysisService)
	mockService.On("Forecast", "cement_index").Return(segment, nil)

	server := newAnalysisTestServer(mockService)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/analysis/forecast/cement_index")
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"empty":true`)
}

func TestAnalysisHandler_GetForecastUnknownIndicator(t *testing.T) {
	mockService := new(MockAnalysisService)
	mockService.On("Forecast", "nope_nope").Return(domain.ForecastSegment{}, services.ErrIndicatorNotFound)

	server := newAnalysisTestServer(mockService)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/analysis/forecast/nope_nope")
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalysisHandler_GetCorrelationsRendersNullForUndefined(t *testing.T) {
	matrix := domain.NewCorrelationMatrix([]string{"wti_oil", "dollar_index"}, 3)
	matrix.Set(0, 0, 1, 24)
	matrix.Set(1, 1, 1, 24)
	matrix.Set(0, 1, math.NaN(), 1)

	mockService := new(MockAnalysisService)
	mockService.On("Correlations", 0).Return(matrix, nil)

	server := newAnalysisTestServer(mockService)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/analysis/correlations")
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `[1,null]`)
	assert.Contains(t, string(body), `"count":2`)
}

func TestAnalysisHandler_DownloadCorrelations(t *testing.T) {
	matrix := domain.NewCorrelationMatrix([]string{"wti_oil", "dollar_index"}, 3)
	matrix.Set(0, 0, 1, 24)
	matrix.Set(1, 1, 1, 24)
	matrix.Set(0, 1, math.NaN(), 1)

	mockService := new(MockAnalysisService)
	mockService.On("Correlations", 12).Return(matrix, nil)

	server := newAnalysisTestServer(mockService)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/analysis/correlations/download?months=12")
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "indicator,wti_oil,dollar_index")
	// undefined pair renders as an empty cell
	assert.Contains(t, string(body), "wti_oil,1.0000,")
	mockService.AssertExpectations(t)
}

func TestAnalysisHandler_GetSummaries(t *testing.T) {
	summaries := []dataprocessing.Summary{
		{IndicatorID: "wti_oil", Trend: dataprocessing.TrendUp, Impact: dataprocessing.ImpactNeutral},
	}

	mockService := new(MockAnalysisService)
	mockService.On("Summaries").Return(summaries)

	server := newAnalysisTestServer(mockService)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/analysis/summaries")
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"trend":"up"`)
}

func TestAnalysisHandler_CreateComposite(t *testing.T) {
	series := domain.NewSeries("materials_basket")
	series.AppendPoint(domain.Observation{Time: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), Value: 150})

	mockService := new(MockAnalysisService)
	mockService.On("Composite", "materials_basket", []dataprocessing.Component{
		{IndicatorID: "steel_index", Weight: 0.7},
		{IndicatorID: "cement_index", Weight: 0.3},
	}).Return(series, nil)

	server := newAnalysisTestServer(mockService)
	defer server.Close()

	payload := `{"name":"materials_basket","components":[{"indicator_id":"steel_index","weight":0.7},{"indicator_id":"cement_index","weight":0.3}]}`
	resp, err := http.Post(server.URL+"/api/analysis/composite", "application/json", strings.NewReader(payload))
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"name":"materials_basket"`)
	mockService.AssertExpectations(t)
}

func TestAnalysisHandler_CreateCompositeValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "missing name", payload: `{"components":[{"indicator_id":"steel_index","weight":1}]}`},
		{name: "no components", payload: `{"name":"basket","components":[]}`},
		{name: "zero weight", payload: `{"name":"basket","components":[{"indicator_id":"steel_index","weight":0}]}`},
		{name: "bad indicator id", payload: `{"name":"basket","components":[{"indicator_id":"Steel Index","weight":1}]}`},
		{name: "malformed json", payload: `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAnalysisService)

			server := newAnalysisTestServer(mockService)
			defer server.Close()

			resp, err := http.Post(server.URL+"/api/analysis/composite", "application/json", strings.NewReader(tt.payload))
			assert.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			mockService.AssertNotCalled(t, "Composite", mock.Anything, mock.Anything)
		})
	}
}

// A malformed body is rejected by the request validation middleware before
// the handler decodes anything, surfacing as INVALID_JSON.
func TestAnalysisHandler_CreateCompositeInvalidJSONFromMiddleware(t *testing.T) {
	mockService := new(MockAnalysisService)
	server := newAnalysisTestServer(mockService)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/analysis/composite", "application/json", strings.NewReader(`{"name":`))
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_JSON")
	mockService.AssertNotCalled(t, "Composite", mock.Anything, mock.Anything)
}
