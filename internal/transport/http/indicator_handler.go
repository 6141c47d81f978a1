package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "indicli/internal/errors"
	"indicli/internal/exporter"
	"indicli/internal/middleware"
	"indicli/internal/services"
	"indicli/pkg/contracts/domain"
)

// IndicatorHandler handles indicator HTTP requests with RFC 7807 compliance
type IndicatorHandler struct {
	service      IndicatorServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	params       *middleware.QueryParamValidator
}

// NewIndicatorHandler creates a new indicator handler with RFC 7807 error handling
func NewIndicatorHandler(service IndicatorServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *IndicatorHandler {
	return &IndicatorHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "indicator_handler")),
		errorHandler: errorHandler,
		params:       middleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the indicator routes with proper Chi patterns
func (h *IndicatorHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListIndicators)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(h.IndicatorCtx)
		r.Get("/", h.GetIndicator)
		r.Get("/download", h.DownloadIndicator)
		r.Post("/refresh", h.RefreshIndicator)
	})

	return r
}

// IndicatorCtx middleware validates the indicator ID parameter
func (h *IndicatorHandler) IndicatorCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "Indicator ID is required"))
			return
		}

		if len(id) > 64 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "Invalid indicator ID format"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ListIndicators handles GET /api/indicators
func (h *IndicatorHandler) ListIndicators(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	// full=true loads every catalog indicator instead of just the ID list
	full, ok := h.params.ValidateEnum(w, r, "full", []string{"true", "false"}, "false")
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "listing indicators",
		slog.String("request_id", reqID),
		slog.String("full", full),
	)

	if full == "true" {
		indicators := h.service.All(r.Context())
		render.JSON(w, r, map[string]interface{}{
			"status": "success",
			"data":   indicators,
			"count":  len(indicators),
		})
		return
	}

	ids := h.service.IDs()
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   ids,
		"count":  len(ids),
	})
}

// GetIndicator handles GET /api/indicators/{id} with an optional months window
func (h *IndicatorHandler) GetIndicator(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")

	months, ok := h.params.ValidateInt(w, r, "months", 1, 120, 0)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "fetching indicator",
		slog.String("request_id", reqID),
		slog.String("indicator_id", id),
		slog.Int("months", months),
	)

	var err error
	var indicator interface{}
	if months > 0 {
		indicator, err = h.service.GetPeriod(r.Context(), id, months)
	} else {
		indicator, err = h.service.Get(r.Context(), id)
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get indicator",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("indicator_id", id),
		)

		h.handleIndicatorError(w, r, id, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   indicator,
	})
}

// DownloadIndicator handles GET /api/indicators/{id}/download, streaming the
// processed monthly series as a CSV attachment. The columns match the files
// the batch processor writes under processed/.
func (h *IndicatorHandler) DownloadIndicator(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")

	months, ok := h.params.ValidateInt(w, r, "months", 1, 120, 0)
	if !ok {
		return
	}

	var err error
	var indicator *domain.Indicator
	if months > 0 {
		indicator, err = h.service.GetPeriod(r.Context(), id, months)
	} else {
		indicator, err = h.service.Get(r.Context(), id)
	}
	if err != nil {
		h.handleIndicatorError(w, r, id, err)
		return
	}

	h.logger.InfoContext(r.Context(), "streaming indicator csv",
		slog.String("request_id", reqID),
		slog.String("indicator_id", id),
		slog.Int("points", indicator.Series.Len()),
	)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_monthly.csv"`, id))

	headers, records := exporter.IndicatorRecords(indicator)
	if err := exporter.RenderCSV(w, headers, records); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream indicator csv",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("indicator_id", id),
		)
	}
}

// RefreshIndicator handles POST /api/indicators/{id}/refresh, dropping the
// cached copy and reloading from disk.
func (h *IndicatorHandler) RefreshIndicator(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")

	h.logger.InfoContext(r.Context(), "refreshing indicator",
		slog.String("request_id", reqID),
		slog.String("indicator_id", id),
	)

	h.service.Invalidate(id)

	indicator, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleIndicatorError(w, r, id, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   indicator,
	})
}

// handleIndicatorError maps service errors to API errors
func (h *IndicatorHandler) handleIndicatorError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, services.ErrIndicatorNotFound) {
		h.errorHandler.HandleError(w, r, apierrors.IndicatorNotFoundError(id))
		return
	}

	if errors.Is(err, services.ErrEmptyDataset) {
		h.errorHandler.HandleError(w, r, apierrors.EmptyDatasetError(id))
		return
	}

	h.errorHandler.HandleError(w, r, err)
}
