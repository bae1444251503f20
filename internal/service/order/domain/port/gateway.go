// internal/service/order/domain/port/gateway.go
package port

import (
	"context"

	"github.com/shopspring/decimal"
)

// CardGateway 是卡类支付的外部网关端口。
// 非店铺信用支付的扣款全部委托给它；实现方（如 Stripe 适配器）位于基础设施层。
type CardGateway interface {
	// Capture 请求网关对指定交易扣款。
	Capture(ctx context.Context, intentID string, amount decimal.Decimal, currency string) error
}
