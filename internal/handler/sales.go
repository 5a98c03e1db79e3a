package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"stockflow-pos-api/internal/backend"
	"stockflow-pos-api/internal/middleware"
	"stockflow-pos-api/pkg/apierror"
	"stockflow-pos-api/pkg/response"
)

// SalesHandler serves the transactions view: recent sales and CSV export.
type SalesHandler struct {
	backend backend.Backend
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(b backend.Backend) *SalesHandler {
	return &SalesHandler{backend: b}
}

// List handles GET /api/v1/sales
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}

	sales, err := h.backend.ListSales(r.Context(), session.TenantID, limit)
	if err != nil {
		response.Error(w, apierror.ServiceUnavailable("failed to list sales"))
		return
	}

	response.OK(w, sales)
}

// Export handles GET /api/v1/sales/export - CSV download of recent sales.
func (h *SalesHandler) Export(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	sales, err := h.backend.ListSales(r.Context(), session.TenantID, 1000)
	if err != nil {
		response.Error(w, apierror.ServiceUnavailable("failed to list sales"))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=sales-%s.csv", time.Now().Format("2006-01-02")))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	_ = writer.Write([]string{"id", "product", "quantity", "unit_price", "total_price", "payment_method", "sale_date"})
	for _, sale := range sales {
		_ = writer.Write([]string{
			strconv.FormatInt(sale.ID, 10),
			sale.ProductName,
			strconv.Itoa(sale.Quantity),
			strconv.FormatFloat(sale.UnitPrice, 'f', 2, 64),
			strconv.FormatFloat(sale.TotalPrice, 'f', 2, 64),
			string(sale.PaymentMethod),
			sale.SaleDate.Format(time.RFC3339),
		})
	}
}
