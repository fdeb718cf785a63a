// internal/service/order/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"storefront/internal/pkg/logger"
	catalog "storefront/internal/service/catalog/domain"
	"storefront/internal/service/order/application"
	"storefront/internal/service/order/domain"
)

const serviceName = "storefront"

var tracer = otel.Tracer(serviceName)

// OrderHandler 封装了订单域的 HTTP 处理器
type OrderHandler struct {
	service *application.OrderApplicationService
}

// NewOrderHandler 创建一个新的 HTTP 处理器实例
func NewOrderHandler(service *application.OrderApplicationService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("POST /api/checkout", traced("api.Checkout", h.checkoutHandler))
	mux.HandleFunc("POST /api/payment/confirm", traced("api.ConfirmPayment", h.confirmPaymentHandler))
	mux.HandleFunc("GET /api/orders/{id}", traced("api.GetOrder", h.getOrderHandler))
	mux.HandleFunc("POST /admin/orders/cutoff", traced("admin.Cutoff", h.cutoffHandler))
	mux.HandleFunc("POST /admin/orders/picklist", traced("admin.PickList", h.pickListHandler))
	mux.HandleFunc("POST /admin/orders/dispatch", traced("admin.Dispatch", h.dispatchHandler))
}

// traced 提取追踪上下文、开启 span 并注入带 trace_id 的 logger
func traced(spanName string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, spanName)
		defer span.End()
		ctx = logger.WithTrace(ctx)
		next(w, r.WithContext(ctx))
	}
}

func (h *OrderHandler) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	var req application.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	order, err := h.service.PlaceOrder(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, application.CheckoutResponse{
		OrderID:     order.ID,
		Status:      order.Status,
		Subtotal:    order.Subtotal,
		DeliveryFee: order.DeliveryFee,
		Total:       order.Total,
	})
}

func (h *OrderHandler) confirmPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req application.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	order, err := h.service.ConfirmPayment(r.Context(), req.OrderID, req.PaymentReferenceID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orderId": order.ID, "status": order.Status})
}

// orderDetailResponse 订单详情，带最近一条承运商原始响应供人工诊断
type orderDetailResponse struct {
	*domain.Order
	LastCarrierResponse *domain.CarrierLogEntry `json:"lastCarrierResponse,omitempty"`
}

func (h *OrderHandler) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderDetailResponse{
		Order:               order,
		LastCarrierResponse: order.LastCarrierResponse(),
	})
}

func (h *OrderHandler) cutoffHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBatchRequest(w, r)
	if !ok {
		return
	}
	count, err := h.service.Cutoff(r.Context(), req.OrderIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"successCount": count})
}

func (h *OrderHandler) pickListHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBatchRequest(w, r)
	if !ok {
		return
	}
	rows, err := h.service.PickList(r.Context(), req.OrderIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (h *OrderHandler) dispatchHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBatchRequest(w, r)
	if !ok {
		return
	}
	report, err := h.service.Dispatch(r.Context(), req.OrderIDs, req.Force)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func decodeBatchRequest(w http.ResponseWriter, r *http.Request) (*application.BatchRequest, bool) {
	var req application.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if len(req.OrderIDs) == 0 {
		writeError(w, http.StatusBadRequest, "orderIds is required")
		return nil, false
	}
	return &req, true
}

// writeServiceError 把应用层错误翻译为 HTTP 状态码
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPaymentMismatch), errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
