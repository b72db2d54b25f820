package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pos-system/internal/logger"
)

// Handler handles HTTP requests for the history service
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new history handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// GetOrder handles GET /orders/{order_number}/status requests
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	orderNumber := h.extractOrderNumber(r.URL.Path, "/orders/", "/status")
	if orderNumber == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid order number", requestID)
		return
	}

	h.logger.Debug("request_received", "Get order status request", requestID, map[string]interface{}{
		"order_number": orderNumber,
		"endpoint":     "status",
	})

	order, err := h.service.GetOrder(r.Context(), orderNumber, requestID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	h.writeJSON(w, order, requestID)
}

// GetOrderHistory handles GET /orders/{order_number}/history requests
func (h *Handler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	orderNumber := h.extractOrderNumber(r.URL.Path, "/orders/", "/history")
	if orderNumber == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid order number", requestID)
		return
	}

	h.logger.Debug("request_received", "Get order history request", requestID, map[string]interface{}{
		"order_number": orderNumber,
		"endpoint":     "history",
	})

	historyEntries, err := h.service.GetOrderHistory(r.Context(), orderNumber, requestID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"order_number": orderNumber,
		"history":      historyEntries,
	}, requestID)
}

// GetWorkerStatus handles GET /workers/status requests
func (h *Handler) GetWorkerStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	workers, err := h.service.GetWorkerStatus(r.Context(), requestID)
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, map[string]interface{}{"workers": workers}, requestID)
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	healthy := h.service.HealthCheck(r.Context())

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "history-service",
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

	mux.HandleFunc("/orders/", h.routeOrders)
	mux.HandleFunc("/workers/status", h.GetWorkerStatus)
	mux.HandleFunc("/health", h.HealthCheck)

	return mux
}

// routeOrders dispatches /orders/{number}/... paths
func (h *Handler) routeOrders(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/status"):
		h.GetOrder(w, r)
	case strings.HasSuffix(r.URL.Path, "/history"):
		h.GetOrderHistory(w, r)
	default:
		h.writeErrorResponse(w, http.StatusNotFound, "Not found", logger.GenerateRequestID())
	}
}

// extractOrderNumber pulls the order number out of a URL path
func (h *Handler) extractOrderNumber(path, prefix, suffix string) string {
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return ""
	}
	number := strings.TrimPrefix(path, prefix)
	number = strings.TrimSuffix(number, suffix)
	if strings.Contains(number, "/") {
		return ""
	}
	return number
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
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
