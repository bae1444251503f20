// internal/service/storecredit/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"creditcore/internal/service/storecredit/application"
	"creditcore/internal/service/storecredit/domain"
)

// StoreCreditHandler 封装了店铺信用管理面的 HTTP 处理器。
// 它只是应用服务之上的一层薄封装：解析请求、转调用例、映射错误码。
type StoreCreditHandler struct {
	service *application.StoreCreditService
}

// NewStoreCreditHandler 创建一个新的 HTTP 处理器实例
func NewStoreCreditHandler(service *application.StoreCreditService) *StoreCreditHandler {
	return &StoreCreditHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *StoreCreditHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/admin/store_credits/create", h.handleCreate)
	mux.HandleFunc("/admin/store_credits/update", h.handleUpdate)
	mux.HandleFunc("/admin/store_credits/invalidate", h.handleInvalidate)
	mux.HandleFunc("/admin/store_credits/list", h.handleList)
	mux.HandleFunc("/admin/store_credits/events", h.handleEvents)
	mux.HandleFunc("/users/store_credit_balance", h.handleBalance)
	mux.HandleFunc("/gift_cards/redeem", h.handleRedeemGiftCard)
}

// writeError 根据错误类型返回不同的 HTTP 状态码。
// 校验类错误原样透出领域错误文案；一致性类错误返回 500，但绝不掩盖错误内容。
func writeError(w http.ResponseWriter, err error) {
	var statusCode int
	switch {
	case errors.Is(err, domain.ErrNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrCurrencyCodeMissing),
		errors.Is(err, domain.ErrAmountTooLow),
		errors.Is(err, domain.ErrInvalidCreditAmount),
		errors.Is(err, domain.ErrOutstandingAuthorization):
		statusCode = http.StatusUnprocessableEntity
	default:
		statusCode = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), statusCode)
}

func (h *StoreCreditHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req application.CreateStoreCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.Create(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func (h *StoreCreditHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req application.UpdateStoreCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.Update(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func (h *StoreCreditHandler) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req struct {
		CreditID string `json:"credit_id"`
		AdminID  string `json:"admin_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Invalidate(ctx, req.CreditID, req.AdminID); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}

func (h *StoreCreditHandler) handleList(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	views, err := h.service.ListCredits(ctx, r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

func (h *StoreCreditHandler) handleEvents(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	// 默认只返回对用户可见的事件；管理端可显式要求完整列表
	exposedOnly := r.URL.Query().Get("all") != "true"
	views, err := h.service.ListEvents(ctx, r.URL.Query().Get("credit_id"), exposedOnly)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

func (h *StoreCreditHandler) handleBalance(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	userID := r.URL.Query().Get("user_id")
	total, err := h.service.TotalAvailable(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user_id":                userID,
		"total_available_credit": total,
	})
}

func (h *StoreCreditHandler) handleRedeemGiftCard(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req application.RedeemGiftCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.RedeemGiftCard(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}
