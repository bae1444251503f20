// internal/service/order/domain/payment.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentState 定义了单笔支付的生命周期状态
type PaymentState string

const (
	PaymentCheckout  PaymentState = "checkout"  // 已创建，尚未授权（上一次下单失败可能遗留此状态）
	PaymentPending   PaymentState = "pending"   // 已授权，等待扣款
	PaymentCompleted PaymentState = "completed" // 已扣款
	PaymentVoid      PaymentState = "void"      // 已撤销
	PaymentInvalid   PaymentState = "invalid"   // 已作废（分摊后不再需要）
)

// PaymentMethod 标识支付方式类型。扣款顺序按组装根配置的优先级执行，店铺信用始终排在最前。
type PaymentMethod string

const (
	MethodStoreCredit PaymentMethod = "store_credit"
	MethodCreditCard  PaymentMethod = "credit_card"
)

// PaymentSource 是支付来源的封闭集合，只有两种显式变体，按 Method() 显式分发。
type PaymentSource interface {
	Method() PaymentMethod
}

// StoreCreditSource 表示以某笔店铺信用作为支付来源。
type StoreCreditSource struct {
	CreditID string
}

func (StoreCreditSource) Method() PaymentMethod { return MethodStoreCredit }

// CardSource 表示以信用卡（外部支付网关）作为支付来源。
type CardSource struct {
	IntentID string // 支付网关侧的意图/交易标识
}

func (CardSource) Method() PaymentMethod { return MethodCreditCard }

// Payment 是订单上的一笔支付记录。
type Payment struct {
	ID      string
	OrderID string
	Amount  decimal.Decimal
	State   PaymentState
	Source  PaymentSource
	// ResponseCode 与店铺信用侧的授权码对应，用于把支付与账本上的预授权关联起来。
	ResponseCode string
	CreatedAt    time.Time
}

// NewStoreCreditPayment 创建一笔已授权的店铺信用支付。
func NewStoreCreditPayment(orderID, creditID, authCode string, amount decimal.Decimal) *Payment {
	return &Payment{
		ID:           uuid.New().String(),
		OrderID:      orderID,
		Amount:       amount,
		State:        PaymentPending,
		Source:       StoreCreditSource{CreditID: creditID},
		ResponseCode: authCode,
		CreatedAt:    time.Now(),
	}
}

// IsStoreCredit 判断该支付是否以店铺信用为来源。
func (p *Payment) IsStoreCredit() bool {
	return p.Source != nil && p.Source.Method() == MethodStoreCredit
}

// Valid 判断该支付是否仍然有效（未被撤销或作废）。
func (p *Payment) Valid() bool {
	return p.State != PaymentVoid && p.State != PaymentInvalid
}
