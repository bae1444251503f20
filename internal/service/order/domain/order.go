// internal/service/order/domain/order.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// State 定义了订单的生命周期状态（仅本核心关心的部分）
type State string

const (
	StateCart     State = "CART"     // 购物中
	StatePayment  State = "PAYMENT"  // 选择支付方式
	StateConfirm  State = "CONFIRM"  // 已确认，支付已分摊完毕，等待完成
	StateComplete State = "COMPLETE" // 已完成
	StateCanceled State = "CANCELED" // 已取消
)

// Order 是订单聚合在本核心中的表面：合计、币种、支付集合与未覆盖余额。
// 订单的其余部分（行项目、收货等）属于外部系统。
type Order struct {
	ID       string
	UserID   string
	State    State
	Total    decimal.Decimal
	Currency string
	// OutstandingBalance 是尚未被有效支付覆盖的部分。
	OutstandingBalance decimal.Decimal
	Payments           []*Payment
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// StoreCreditPayments 返回全部以店铺信用为来源的支付。
func (o *Order) StoreCreditPayments() []*Payment {
	var out []*Payment
	for _, p := range o.Payments {
		if p.IsStoreCredit() {
			out = append(out, p)
		}
	}
	return out
}

// PendingPayments 返回全部尚未走到终态的待处理支付（checkout 与 pending）。
// 资金校验与扣款编排都以这个集合为准。
func (o *Order) PendingPayments() []*Payment {
	var out []*Payment
	for _, p := range o.Payments {
		if p.State == PaymentCheckout || p.State == PaymentPending {
			out = append(out, p)
		}
	}
	return out
}

// PendingTotal 返回待处理支付的金额合计。
func (o *Order) PendingTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.PendingPayments() {
		total = total.Add(p.Amount)
	}
	return total
}

// AuthorizedStoreCreditTotal 返回已授权待扣款（pending 状态）的店铺信用支付合计。
// 覆盖上一次部分成功的场景：店铺信用授权成功但配套的卡支付失败。
func (o *Order) AuthorizedStoreCreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.StoreCreditPayments() {
		if p.State == PaymentPending {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// ExistingCardPayment 返回订单上唯一的一笔有效非店铺信用支付。
// 超过一笔说明上游数据已损坏，返回 ErrMultiplePaymentsFound，调用方应视为致命错误。
func (o *Order) ExistingCardPayment() (*Payment, error) {
	var found *Payment
	for _, p := range o.Payments {
		if p.IsStoreCredit() || !p.Valid() {
			continue
		}
		if found != nil {
			return nil, ErrMultiplePaymentsFound
		}
		found = p
	}
	return found, nil
}

// AddPayment 把一笔支付挂到订单上。
func (o *Order) AddPayment(p *Payment) {
	o.Payments = append(o.Payments, p)
	o.UpdatedAt = time.Now()
}

// MarkConfirmed 在支付分摊成功后把订单推进到确认态。
func (o *Order) MarkConfirmed() {
	o.State = StateConfirm
	o.UpdatedAt = time.Now()
}

// MarkCanceled 取消订单。
func (o *Order) MarkCanceled() {
	o.State = StateCanceled
	o.UpdatedAt = time.Now()
}

// Confirmed 判断订单是否已进入确认或完成状态。
// 分摊只在确认转换时发生一次，之后店铺信用的可用数字以订单上的支付为准。
func (o *Order) Confirmed() bool {
	return o.State == StateConfirm || o.State == StateComplete
}

// TotalApplicableStoreCredit 返回可应用/已应用到本订单的店铺信用总额。
// 确认前按用户可用余额与订单合计取小估算；确认后以实际创建的有效店铺信用支付为准。
func (o *Order) TotalApplicableStoreCredit(userAvailable decimal.Decimal) decimal.Decimal {
	if o.Confirmed() {
		total := decimal.Zero
		for _, p := range o.StoreCreditPayments() {
			if p.Valid() {
				total = total.Add(p.Amount)
			}
		}
		return total
	}
	return decimal.Min(o.Total, userAvailable)
}

// TotalAfterStoreCredit 返回扣除店铺信用后仍需其它支付方式覆盖的金额。
func (o *Order) TotalAfterStoreCredit(userAvailable decimal.Decimal) decimal.Decimal {
	return o.Total.Sub(o.TotalApplicableStoreCredit(userAvailable))
}

// RemainingAfterCapture 返回本订单扣款后用户还剩多少店铺信用。
func (o *Order) RemainingAfterCapture(userAvailable decimal.Decimal) decimal.Decimal {
	return userAvailable.Sub(o.TotalApplicableStoreCredit(userAvailable))
}

// CoveredByStoreCredit 判断用户可用的店铺信用是否足以覆盖整单。
func (o *Order) CoveredByStoreCredit(userAvailable decimal.Decimal) bool {
	return userAvailable.GreaterThanOrEqual(o.Total)
}
