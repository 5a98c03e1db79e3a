package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"stockflow-pos-api/internal/backend"
	"stockflow-pos-api/internal/middleware"
	"stockflow-pos-api/internal/model"
	"stockflow-pos-api/internal/service"
	"stockflow-pos-api/pkg/apierror"
	"stockflow-pos-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// ProductHandler handles product catalog HTTP requests.
type ProductHandler struct {
	catalogService *service.CatalogService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// ProductListResponse carries the catalog plus a staleness marker: stale
// lists came from the offline snapshot because the live fetch failed.
type ProductListResponse struct {
	Products []model.Product `json:"products"`
	Stale    bool            `json:"stale"`
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	products, stale, err := h.catalogService.ListProducts(r.Context(), session.TenantID)
	if err != nil {
		response.Error(w, apierror.InternalError("failed to list products"))
		return
	}

	response.OK(w, ProductListResponse{Products: products, Stale: stale})
}

// ProductRequest represents the request body for creating or updating a product.
type ProductRequest struct {
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
}

func (req *ProductRequest) validate() *apierror.Error {
	if req.Name == "" {
		return apierror.BadRequest("name is required")
	}
	if req.Price < 0 {
		return apierror.BadRequest("price must not be negative")
	}
	if req.StockQuantity < 0 {
		return apierror.BadRequest("stock_quantity must not be negative")
	}
	return nil
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if apiErr := req.validate(); apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	product := model.Product{
		TenantID:      session.TenantID,
		Name:          req.Name,
		SKU:           req.SKU,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	}
	if err := h.catalogService.CreateProduct(r.Context(), &product); err != nil {
		response.Error(w, apierror.InternalError("failed to create product"))
		return
	}

	response.Created(w, product)
}

// Update handles PUT /api/v1/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, apierror.BadRequest("invalid product id"))
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if apiErr := req.validate(); apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	product := model.Product{
		ID:            id,
		TenantID:      session.TenantID,
		Name:          req.Name,
		SKU:           req.SKU,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	}
	if err := h.catalogService.UpdateProduct(r.Context(), product); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			response.Error(w, apierror.NotFound("product not found"))
			return
		}
		response.Error(w, apierror.InternalError("failed to update product"))
		return
	}

	response.OK(w, product)
}
