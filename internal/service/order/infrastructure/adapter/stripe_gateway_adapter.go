// internal/service/order/infrastructure/adapter/stripe_gateway_adapter.go
package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"

	"creditcore/internal/pkg/logger"
)

// StripeGatewayAdapter 通过 Stripe PaymentIntent 实现卡类支付的扣款端口。
type StripeGatewayAdapter struct{}

// NewStripeGatewayAdapter 创建 Stripe 网关适配器并设置全局 API Key。
func NewStripeGatewayAdapter(apiKey string) *StripeGatewayAdapter {
	stripe.Key = apiKey
	return &StripeGatewayAdapter{}
}

// Capture 对已授权的 PaymentIntent 执行扣款。
// Stripe 的金额单位是最小货币单位（分），这里按两位小数换算。
func (a *StripeGatewayAdapter) Capture(ctx context.Context, intentID string, amount decimal.Decimal, currency string) error {
	params := &stripe.PaymentIntentCaptureParams{
		AmountToCapture: stripe.Int64(amount.Mul(decimal.NewFromInt(100)).IntPart()),
	}
	params.Context = ctx

	intent, err := paymentintent.Capture(intentID, params)
	if err != nil {
		return fmt.Errorf("stripe capture failed for intent %s: %w", intentID, err)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("stripe capture for intent %s ended in status %s", intentID, intent.Status)
	}

	logger.Ctx(ctx).Info().
		Str("intent_id", intentID).
		Str("amount", amount.String()).
		Str("currency", strings.ToLower(currency)).
		Msg("card payment captured via stripe")
	return nil
}
