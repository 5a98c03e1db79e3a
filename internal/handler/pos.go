package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"stockflow-pos-api/internal/middleware"
	"stockflow-pos-api/internal/model"
	"stockflow-pos-api/internal/receipt"
	"stockflow-pos-api/internal/service"
	"stockflow-pos-api/pkg/apierror"
	"stockflow-pos-api/pkg/response"
)

// POSHandler handles checkout requests.
type POSHandler struct {
	posService     *service.POSService
	catalogService *service.CatalogService
}

// NewPOSHandler creates a new POS handler.
func NewPOSHandler(posService *service.POSService, catalogService *service.CatalogService) *POSHandler {
	return &POSHandler{
		posService:     posService,
		catalogService: catalogService,
	}
}

// CheckoutRequest represents the request body for a checkout.
type CheckoutRequest struct {
	Items         []model.CartItem    `json:"items"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
}

// CheckoutResponse carries the confirmation plus rendered receipts.
type CheckoutResponse struct {
	Confirmation *model.SaleConfirmation `json:"confirmation"`
	ReceiptText  string                  `json:"receipt_text"`
	ReceiptHTML  string                  `json:"receipt_html,omitempty"`
}

// Checkout handles POST /api/v1/pos/checkout
func (h *POSHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.PaymentMethod == "" {
		req.PaymentMethod = model.PaymentCash
	}

	profile := h.catalogService.GetProfile(r.Context(), session.TenantID)

	confirmation, err := h.posService.Checkout(r.Context(), session.TenantID, req.Items, req.PaymentMethod, profile)
	if err != nil {
		response.Error(w, checkoutError(err))
		return
	}

	resp := CheckoutResponse{
		Confirmation: confirmation,
		ReceiptText:  receipt.RenderText(confirmation, profile),
	}
	if r.URL.Query().Get("receipt") == "html" {
		if html, err := receipt.RenderHTML(confirmation, profile); err == nil {
			resp.ReceiptHTML = html
		}
	}

	response.Created(w, resp)
}

// checkoutError maps sale recording failures onto API errors. Oversell
// rejections itemize every offending line.
func checkoutError(err error) error {
	var oversell *service.OversellError
	if errors.As(err, &oversell) {
		details := make([]apierror.FieldError, len(oversell.Items))
		for i, item := range oversell.Items {
			details[i] = apierror.FieldError{
				Field:   item.Name,
				Message: fmt.Sprintf("%d requested, %d in stock", item.Requested, item.InStock),
			}
		}
		return apierror.ValidationError("cart items exceed available stock", details...)
	}
	if errors.Is(err, service.ErrEmptyCart) || errors.Is(err, service.ErrInvalidPayment) {
		return apierror.BadRequest(err.Error())
	}
	return apierror.InternalError("checkout failed: " + err.Error())
}
