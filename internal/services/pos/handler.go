package pos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pos-system/internal/cart"
	"pos-system/internal/logger"
	"pos-system/internal/models"
	"pos-system/internal/pricing"
)

// Handler handles HTTP requests for the POS service
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new POS handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// cartView is the response body for every cart read and mutation
type cartView struct {
	Draft     models.OrderDraft `json:"draft"`
	Totals    pricing.Totals    `json:"totals"`
	FullyPaid bool              `json:"fully_paid"`
}

type addItemRequest struct {
	ProductID     string              `json:"product_id,omitempty"`
	Name          string              `json:"name"`
	UnitPrice     int64               `json:"unit_price"`
	Quantity      int                 `json:"quantity,omitempty"`
	AddOns        []models.AddOn      `json:"addons,omitempty"`
	Note          string              `json:"note,omitempty"`
	DiscountValue int64               `json:"discount_value,omitempty"`
	DiscountKind  models.DiscountKind `json:"discount_kind,omitempty"`
}

type updateItemRequest struct {
	Quantity      *int                 `json:"quantity,omitempty"`
	Note          *string              `json:"note,omitempty"`
	DiscountValue *int64               `json:"discount_value,omitempty"`
	DiscountKind  *models.DiscountKind `json:"discount_kind,omitempty"`
}

type orderDiscountRequest struct {
	Value  int64               `json:"value"`
	Kind   models.DiscountKind `json:"kind"`
	Reason string              `json:"reason,omitempty"`
}

type splitPaymentRequest struct {
	Method string `json:"method"`
	Amount int64  `json:"amount"`
}

type noteRequest struct {
	Note string `json:"note"`
}

type paymentMethodRequest struct {
	Method string `json:"method"`
}

type tableRequest struct {
	TableNumber *int `json:"table_number"`
}

type orderTypeRequest struct {
	OrderType string `json:"order_type"`
}

// GetCart handles GET /cart requests
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	c, ok := h.sessionCart(w, r, requestID)
	if !ok {
		return
	}

	h.writeCart(w, c)
}

// AddItem handles POST /cart/items requests
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if r.Method != http.MethodPost {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	var req addItemRequest
	if !h.decodeBody(w, r, &req, requestID) {
		return
	}

	c, ok := h.sessionCart(w, r, requestID)
	if !ok {
		return
	}

	item, err := c.AddItem(models.LineItem{
		ProductID:     req.ProductID,
		Name:          req.Name,
		UnitPrice:     req.UnitPrice,
		Quantity:      req.Quantity,
		AddOns:        req.AddOns,
		Note:          req.Note,
		DiscountValue: req.DiscountValue,
		DiscountKind:  req.DiscountKind,
	})
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	h.logger.Debug("item_added", "Item added to cart", requestID, map[string]interface{}{
		"item_id":  item.ID,
		"name":     item.Name,
		"quantity": item.Quantity,
	})

	h.afterMutation(r, c, requestID)
	h.writeCart(w, c)
}

// UpdateItem handles PATCH and DELETE /cart/items/{id} requests
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	itemID := strings.TrimPrefix(r.URL.Path, "/cart/items/")
	if itemID == "" || strings.Contains(itemID, "/") {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid item id", requestID)
		return
	}

	c, ok := h.sessionCart(w, r, requestID)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodDelete:
		if err := c.RemoveItem(itemID); err != nil {
			h.writeCartError(w, err, requestID)
			return
		}
	case http.MethodPatch:
		var req updateItemRequest
		if !h.decodeBody(w, r, &req, requestID) {
			return
		}
		if err := h.applyItemUpdate(c, itemID, &req); err != nil {
			h.writeCartError(w, err, requestID)
			return
		}
	default:
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	h.afterMutation(r, c, requestID)
	h.writeCart(w, c)
}

// applyItemUpdate applies the optional fields of an item update in order.
// Setting quantity to zero removes the item; the remaining fields are then
// skipped since the item is gone.
func (h *Handler) applyItemUpdate(c *cart.Cart, itemID string, req *updateItemRequest) error {
	if req.Quantity != nil {
		if err := c.SetQuantity(itemID, *req.Quantity); err != nil {
			return err
		}
		if *req.Quantity <= 0 {
			return nil
		}
	}
	if req.Note != nil {
		if err := c.SetItemNote(itemID, *req.Note); err != nil {
			return err
		}
	}
	if req.DiscountValue != nil || req.DiscountKind != nil {
		if req.DiscountValue == nil || req.DiscountKind == nil {
			return fmt.Errorf("discount_value and discount_kind must be set together")
		}
		if err := c.ApplyItemDiscount(itemID, *req.DiscountValue, *req.DiscountKind); err != nil {
			return err
		}
	}
	return nil
}

// SetOrderDiscount handles PUT /cart/discount requests
func (h *Handler) SetOrderDiscount(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if r.Method != http.MethodPut {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	var req orderDiscountRequest
	if !h.decodeBody(w, r, &req, requestID) {
		return
	}

	c, ok := h.sessionCart(w, r, requestID)
	if !ok {
		return
	}

	if err := c.ApplyOrderDiscount(req.Value, req.Kind, req.Reason); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	h.afterMutation(r, c, requestID)
	h.writeCart(w, c)
}

// SetCustomer handles PUT /cart/customer requests
func (h *Handler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if r.Method != http.MethodPut {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	var req models.Customer
	if !h.decodeBody(w, r, &req, requestID) {
		return
	}

	c, ok := h.sessionCart(w, r, requestID)
	if !ok {
		return
	}

	c.SetCustomer(req)
	h.afterMutation(r, c, requestID)
	h.writeCart(w, c)
}

// SetOrderNote handles PUT /cart/note requests
func (h *Handler) SetOrderNote(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if r.Method != http.MethodPut {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	var req noteRequest
	if !h.decodeBody(w, r, &req, requestID) {
		return
	}

	c, ok := h.sessionCart(w, r, requestID)
	if !ok {
		return
	}

	c.SetOrderNote(req.Note)
	h.afterMutation(r, c, requestID)
	h.writeCart(w, c)
}

// SetPaymentMethod handles PUT /cart/payment-method requests
func (h *Handler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if r.Method != http.MethodPut {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	var req paymentMethodRequest
	if !h.decodeBody(w, r, &req, requestID) {
		return
	}

	c, ok := h.sessionCart(w, r, requestID)
	if !ok {
		return
	}

	if err := c.SetPaymentMethod(req.Method); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	h.afterMutation(r, c, requestID)
	h.writeCart(w, c)
}

// SetTable handles PUT /cart/table requests
func (h *Handler) SetTable(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if r.Method != http.MethodPut {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	var req tableRequest
	if !h.decodeBody(w, r, &req, requestID) {
		return
	}

	c, ok := h.sessionCart(w, r, requestID)
	if !ok {
		return
	}

	if err := c.SetTableNumber(req.TableNumber); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	h.afterMutation(r, c, requestID)
	h.writeCart(w, c)
}

// SetOrderType handles PUT /cart/order-type requests
func (h *Handler) SetOrderType(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if r.Method != http.MethodPut {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	var req orderTypeRequest
	if !h.decodeBody(w, r, &req, requestID) {
		return
	}

	c, ok := h.sessionCart(w, r, requestID)
	if !ok {
		return
	}

	if err := c.SetOrderType(req.OrderType); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	h.afterMutation(r, c, requestID)
	h.writeCart(w, c)
}

// SplitPayments handles POST /cart/split-payments requests
func (h *Handler) SplitPayments(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if r.Method != http.MethodPost {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	var req splitPaymentRequest
	if !h.decodeBody(w, r, &req, requestID) {
		return
	}

	c, ok := h.sessionCart(w, r, requestID)
	if !ok {
		return
	}

	if err := c.AddSplitPayment(req.Method, req.Amount); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	h.afterMutation(r, c, requestID)
	h.writeCart(w, c)
}

// RemoveSplitPayment handles DELETE /cart/split-payments/{index} requests
func (h *Handler) RemoveSplitPayment(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if r.Method != http.MethodDelete {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	indexStr := strings.TrimPrefix(r.URL.Path, "/cart/split-payments/")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid split payment index", requestID)
		return
	}

	c, ok := h.sessionCart(w, r, requestID)
	if !ok {
		return
	}

	if err := c.RemoveSplitPayment(index); err != nil {
		h.writeCartError(w, err, requestID)
		return
	}

	h.afterMutation(r, c, requestID)
	h.writeCart(w, c)
}

// ClearCart handles POST /cart/clear requests
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if r.Method != http.MethodPost {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	c, ok := h.sessionCart(w, r, requestID)
	if !ok {
		return
	}

	c.ClearCart()
	h.afterMutation(r, c, requestID)
	h.writeCart(w, c)
}

// Checkout handles POST /cart/checkout requests
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if r.Method != http.MethodPost {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	sessionID, ok := h.sessionID(w, r, requestID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	c := h.service.Cart(ctx, sessionID, requestID)

	order, err := h.service.Checkout(ctx, sessionID, c, requestID)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(order); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}

// Receipt handles GET and DELETE /cart/receipt requests
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	sessionID, ok := h.sessionID(w, r, requestID)
	if !ok {
		return
	}
	c := h.service.Cart(r.Context(), sessionID, requestID)

	switch r.Method {
	case http.MethodGet:
		receipt := c.PendingReceipt()
		if receipt == nil {
			h.writeErrorResponse(w, http.StatusNotFound, "No pending receipt", requestID)
			return
		}
		h.writeJSON(w, receipt)
	case http.MethodDelete:
		receipt, err := h.service.DismissReceipt(r.Context(), sessionID, c, requestID)
		if err != nil {
			h.writeCartError(w, err, requestID)
			return
		}
		h.logger.Debug("receipt_dismissed", "Receipt dismissed, cart cleared", requestID, map[string]interface{}{
			"order_number": receipt.Number,
		})
		h.writeCart(w, c)
	default:
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
	}
}

// History handles GET /cart/history requests
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	c, ok := h.sessionCart(w, r, requestID)
	if !ok {
		return
	}

	h.writeJSON(w, map[string]interface{}{"orders": c.History()})
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	healthy := h.service.HealthCheck(ctx)

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pos-service",
		"healthy":   healthy,
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		response["status"] = "unhealthy"
	}
	json.NewEncoder(w).Encode(response)
}

// SetupRoutes sets up the HTTP routes
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/cart", h.withLogging(h.GetCart))
	mux.HandleFunc("/cart/items", h.withLogging(h.AddItem))
	mux.HandleFunc("/cart/items/", h.withLogging(h.UpdateItem))
	mux.HandleFunc("/cart/discount", h.withLogging(h.SetOrderDiscount))
	mux.HandleFunc("/cart/customer", h.withLogging(h.SetCustomer))
	mux.HandleFunc("/cart/note", h.withLogging(h.SetOrderNote))
	mux.HandleFunc("/cart/payment-method", h.withLogging(h.SetPaymentMethod))
	mux.HandleFunc("/cart/table", h.withLogging(h.SetTable))
	mux.HandleFunc("/cart/order-type", h.withLogging(h.SetOrderType))
	mux.HandleFunc("/cart/split-payments", h.withLogging(h.SplitPayments))
	mux.HandleFunc("/cart/split-payments/", h.withLogging(h.RemoveSplitPayment))
	mux.HandleFunc("/cart/clear", h.withLogging(h.ClearCart))
	mux.HandleFunc("/cart/checkout", h.withLogging(h.Checkout))
	mux.HandleFunc("/cart/receipt", h.withLogging(h.Receipt))
	mux.HandleFunc("/cart/history", h.withLogging(h.History))
	mux.HandleFunc("/health", h.withLogging(h.HealthCheck))

	return mux
}

// sessionID extracts the register session from the request headers
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request, requestID string) (string, bool) {
	sessionID := r.Header.Get("X-Session-ID")
	if sessionID == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "X-Session-ID header is required", requestID)
		return "", false
	}
	return sessionID, true
}

// sessionCart resolves the request's session cart
func (h *Handler) sessionCart(w http.ResponseWriter, r *http.Request, requestID string) (*cart.Cart, bool) {
	sessionID, ok := h.sessionID(w, r, requestID)
	if !ok {
		return nil, false
	}
	return h.service.Cart(r.Context(), sessionID, requestID), true
}

// afterMutation persists the draft snapshot following a successful mutation
func (h *Handler) afterMutation(r *http.Request, c *cart.Cart, requestID string) {
	sessionID := r.Header.Get("X-Session-ID")
	h.service.SaveSnapshot(r.Context(), sessionID, c, requestID)
}

// decodeBody parses a JSON request body, rejecting unknown fields
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, requestID string) bool {
	if r.Header.Get("Content-Type") != "application/json" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Content-Type must be application/json", requestID)
		return false
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return false
	}
	return true
}

// writeCart writes the standard cart view response
func (h *Handler) writeCart(w http.ResponseWriter, c *cart.Cart) {
	draft := c.Draft()
	totals := c.Totals()
	h.writeJSON(w, cartView{
		Draft:     draft,
		Totals:    totals,
		FullyPaid: draft.FullyPaid(totals.Total),
	})
}

// writeCartError maps cart errors onto HTTP status codes
func (h *Handler) writeCartError(w http.ResponseWriter, err error, requestID string) {
	status := http.StatusBadRequest
	if errors.Is(err, cart.ErrItemNotFound) || errors.Is(err, cart.ErrNoPendingReceipt) {
		status = http.StatusNotFound
	}
	h.writeErrorResponse(w, status, err.Error(), requestID)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", "", err, nil)
	}
}

// writeErrorResponse writes an error response in JSON format
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

// withLogging adds request logging middleware
func (h *Handler) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()

		h.logger.Debug("request_started",
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.Header.Get("User-Agent"),
			})

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}

		next(rw, r)

		duration := time.Since(start)
		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": duration.Milliseconds(),
			})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
