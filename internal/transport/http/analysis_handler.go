package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"indicli/internal/dataprocessing"
	apierrors "indicli/internal/errors"
	"indicli/internal/exporter"
	"indicli/internal/middleware"
	"indicli/internal/services"
)

// AnalysisHandler handles forecast, correlation and composite requests
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validation   *middleware.ValidationMiddleware
	params       *middleware.QueryParamValidator
}

// NewAnalysisHandler creates a new analysis handler with RFC 7807 error handling
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
		validation:   middleware.NewValidationMiddleware(logger, errorHandler),
		params:       middleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the analysis routes with proper Chi patterns
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summaries", h.GetSummaries)
	r.Get("/correlations", h.GetCorrelations)
	r.Get("/correlations/download", h.DownloadCorrelations)
	r.Get("/frame", h.GetFrame)
	r.Get("/forecast/{id}", h.GetForecast)
	r.With(h.validation.ValidateRequest).Post("/composite", h.CreateComposite)

	return r
}

// GetForecast handles GET /api/analysis/forecast/{id}
func (h *AnalysisHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")

	h.logger.InfoContext(r.Context(), "fetching forecast",
		slog.String("request_id", reqID),
		slog.String("indicator_id", id),
	)

	segment, err := h.service.Forecast(r.Context(), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to compute forecast",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("indicator_id", id),
		)

		if errors.Is(err, services.ErrIndicatorNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.IndicatorNotFoundError(id))
			return
		}

		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   segment,
		"empty":  segment.Empty(),
	})
}

// GetCorrelations handles GET /api/analysis/correlations. An optional
// ?months=N restricts the computation to each indicator's trailing window.
func (h *AnalysisHandler) GetCorrelations(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	months, ok := h.params.ValidateInt(w, r, "months", 1, 120, 0)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "computing correlation matrix",
		slog.String("request_id", reqID),
		slog.Int("months", months),
	)

	matrix, err := h.service.Correlations(r.Context(), months)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to compute correlations",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   matrix,
		"count":  len(matrix.Order),
	})
}

// DownloadCorrelations handles GET /api/analysis/correlations/download,
// streaming the matrix as a CSV attachment.
func (h *AnalysisHandler) DownloadCorrelations(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	months, ok := h.params.ValidateInt(w, r, "months", 1, 120, 0)
	if !ok {
		return
	}

	matrix, err := h.service.Correlations(r.Context(), months)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to compute correlations",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="correlations.csv"`)

	headers, records := exporter.CorrelationRecords(matrix)
	if err := exporter.RenderCSV(w, headers, records); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream correlation csv",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
	}
}

// GetFrame handles GET /api/analysis/frame, returning the aligned and
// gap-filled monthly frame across all catalog indicators.
func (h *AnalysisHandler) GetFrame(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	h.logger.InfoContext(r.Context(), "building aligned frame",
		slog.String("request_id", reqID),
	)

	frame, err := h.service.Frame(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build frame",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   frame,
		"count":  len(frame.Order),
	})
}

// GetSummaries handles GET /api/analysis/summaries
func (h *AnalysisHandler) GetSummaries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	h.logger.InfoContext(r.Context(), "building indicator summaries",
		slog.String("request_id", reqID),
	)

	summaries := h.service.Summaries(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summaries,
		"count":  len(summaries),
	})
}

// compositeRequest is the POST /api/analysis/composite payload
type compositeRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=64"`
	Components []struct {
		IndicatorID string  `json:"indicator_id" validate:"required,indicator_id"`
		Weight      float64 `json:"weight" validate:"required,gt=0"`
	} `json:"components" validate:"required,min=1,dive"`
}

// CreateComposite handles POST /api/analysis/composite, computing a weighted
// combination of the requested indicators.
func (h *AnalysisHandler) CreateComposite(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req compositeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_REQUEST",
			"Invalid request body",
			map[string]interface{}{
				"error": err.Error(),
			},
		))
		return
	}

	if err := h.validation.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	components := make([]dataprocessing.Component, 0, len(req.Components))
	for _, c := range req.Components {
		components = append(components, dataprocessing.Component{
			IndicatorID: c.IndicatorID,
			Weight:      c.Weight,
		})
	}

	h.logger.InfoContext(r.Context(), "computing composite",
		slog.String("request_id", reqID),
		slog.String("name", req.Name),
		slog.Int("components", len(components)),
	)

	series, err := h.service.Composite(r.Context(), req.Name, components)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to compute composite",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("name", req.Name),
		)

		if errors.Is(err, services.ErrIndicatorNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusNotFound,
				"INDICATOR_NOT_FOUND",
				"One or more component indicators were not found",
			))
			return
		}

		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   series,
	})
}
