// internal/service/order/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"creditcore/internal/service/order/application"
	"creditcore/internal/service/order/domain"
)

// OrderHandler 封装了订单支付面的 HTTP 处理器。
type OrderHandler struct {
	service   *application.OrderApplicationService
	capturing *application.OrderCapturing
}

// NewOrderHandler 创建一个新的订单 HTTP 处理器实例
func NewOrderHandler(service *application.OrderApplicationService, capturing *application.OrderCapturing) *OrderHandler {
	return &OrderHandler{service: service, capturing: capturing}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/orders/confirm", h.handleConfirm)
	mux.HandleFunc("/orders/capture", h.handleCapture)
	mux.HandleFunc("/orders/cancel", h.handleCancel)
	mux.HandleFunc("/orders/store_credit_summary", h.handleSummary)
	mux.HandleFunc("/orders/by_authorization", h.handleByAuthorization)
}

// writeError 根据错误类型返回不同的 HTTP 状态码。
// 资金缺口是结构化业务失败，返回 422；一致性错误说明订单数据已损坏，返回 500。
func writeError(w http.ResponseWriter, err error) {
	var statusCode int
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, domain.ErrUnableToFund):
		statusCode = http.StatusUnprocessableEntity
	default:
		statusCode = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), statusCode)
}

func (h *OrderHandler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.ConfirmOrder(ctx, req.OrderID); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}

func (h *OrderHandler) handleCapture(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	results, err := h.capturing.CapturePayments(ctx, req.OrderID)
	if results == nil && err != nil {
		writeError(w, err)
		return
	}

	views := make([]application.CaptureResultView, len(results))
	for i, res := range results {
		views[i] = application.CaptureResultView{
			PaymentID: res.PaymentID,
			Method:    string(res.Method),
			Amount:    res.Amount,
			Captured:  res.Err == nil,
		}
		if res.Err != nil {
			views[i].Error = res.Err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	// 部分失败时整体标记失败，但逐笔结果照常返回
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": err == nil,
		"results": views,
	})
}

func (h *OrderHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.CancelOrder(ctx, req.OrderID); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}

func (h *OrderHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	view, err := h.service.StoreCreditSummary(ctx, r.URL.Query().Get("order_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func (h *OrderHandler) handleByAuthorization(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	view, err := h.service.OrderByAuthorizationCode(ctx, r.URL.Query().Get("code"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}
