// internal/service/order/application/dto.go
package application

import (
	"github.com/shopspring/decimal"

	"creditcore/internal/pkg/money"
	"creditcore/internal/service/order/domain"
)

// PaymentView 是对外展示的支付记录。
type PaymentView struct {
	ID           string `json:"id"`
	Method       string `json:"method"`
	Amount       string `json:"amount"`
	State        string `json:"state"`
	ResponseCode string `json:"response_code,omitempty"`
}

// OrderView 是对外展示的订单支付面。
type OrderView struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"user_id"`
	State              string        `json:"state"`
	Total              string        `json:"total"`
	Currency           string        `json:"currency"`
	OutstandingBalance string        `json:"outstanding_balance"`
	Payments           []PaymentView `json:"payments"`
}

// StoreCreditSummaryView 汇总订单的店铺信用展示数字，供结账页与确认页渲染。
type StoreCreditSummaryView struct {
	OrderID               string `json:"order_id"`
	Total                 string `json:"total"`
	TotalAvailableCredit  string `json:"total_available_credit"`
	AppliedStoreCredit    string `json:"applied_store_credit"`
	TotalAfterStoreCredit string `json:"total_after_store_credit"`
	RemainingAfterCapture string `json:"remaining_after_capture"`
	CoveredByStoreCredit  bool   `json:"covered_by_store_credit"`
}

// CaptureResultView 描述扣款编排中单笔支付的结果。
type CaptureResultView struct {
	PaymentID string `json:"payment_id"`
	Method    string `json:"method"`
	Amount    string `json:"amount"`
	Captured  bool   `json:"captured"`
	Error     string `json:"error,omitempty"`
}

func toPaymentView(p *domain.Payment) PaymentView {
	method := ""
	if p.Source != nil {
		method = string(p.Source.Method())
	}
	return PaymentView{
		ID:           p.ID,
		Method:       method,
		Amount:       p.Amount.StringFixed(2),
		State:        string(p.State),
		ResponseCode: p.ResponseCode,
	}
}

func toOrderView(o *domain.Order) *OrderView {
	payments := make([]PaymentView, 0, len(o.Payments))
	for _, p := range o.Payments {
		payments = append(payments, toPaymentView(p))
	}
	return &OrderView{
		ID:                 o.ID,
		UserID:             o.UserID,
		State:              string(o.State),
		Total:              o.Total.StringFixed(2),
		Currency:           o.Currency,
		OutstandingBalance: o.OutstandingBalance.StringFixed(2),
		Payments:           payments,
	}
}

func toSummaryView(o *domain.Order, available decimal.Decimal) *StoreCreditSummaryView {
	return &StoreCreditSummaryView{
		OrderID:               o.ID,
		Total:                 money.Money{Amount: o.Total, Currency: o.Currency}.String(),
		TotalAvailableCredit:  money.Money{Amount: available, Currency: o.Currency}.String(),
		AppliedStoreCredit:    money.Money{Amount: o.TotalApplicableStoreCredit(available), Currency: o.Currency}.String(),
		TotalAfterStoreCredit: money.Money{Amount: o.TotalAfterStoreCredit(available), Currency: o.Currency}.String(),
		RemainingAfterCapture: money.Money{Amount: o.RemainingAfterCapture(available), Currency: o.Currency}.String(),
		CoveredByStoreCredit:  o.CoveredByStoreCredit(available),
	}
}
