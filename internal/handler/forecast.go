package handler

import (
	"net/http"
	"strconv"

	"stockflow-pos-api/internal/middleware"
	"stockflow-pos-api/internal/service"
	"stockflow-pos-api/pkg/apierror"
	"stockflow-pos-api/pkg/response"
)

// ForecastHandler serves sales trend projections.
type ForecastHandler struct {
	forecastService *service.ForecastService
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(forecastService *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{forecastService: forecastService}
}

// Get handles GET /api/v1/forecast?days=7
func (h *ForecastHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 90 {
			response.Error(w, apierror.BadRequest("days must be between 1 and 90"))
			return
		}
		days = parsed
	}

	forecast, err := h.forecastService.SalesForecast(r.Context(), session.TenantID, days)
	if err != nil {
		response.Error(w, apierror.InternalError("failed to build forecast"))
		return
	}
	response.OK(w, forecast)
}
