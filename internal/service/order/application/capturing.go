// internal/service/order/application/capturing.go
package application

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"creditcore/internal/pkg/logger"
	"creditcore/internal/service/order/domain"
	"creditcore/internal/service/order/domain/port"
)

var captureCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "order_payment_captures_total",
	Help: "Total number of payment capture attempts, by method and result.",
}, []string{"method", "result"})

// OrderCapturing 负责订单履约时的扣款编排。
// 待处理支付按支付方式优先级分组依次扣款，店铺信用始终排在最前面，
// 避免在内部余额未动用之前就向外部网关发起扣款。
// 单笔失败只记录结果，不打断其余支付的扣款。
type OrderCapturing struct {
	orderRepo      domain.OrderRepository
	credits        port.StoreCreditService
	gateway        port.CardGateway
	methodPriority []domain.PaymentMethod
	tracer         trace.Tracer
}

// NewOrderCapturing 创建一个新的扣款编排器实例
func NewOrderCapturing(orderRepo domain.OrderRepository, credits port.StoreCreditService, gateway port.CardGateway, methodPriority []domain.PaymentMethod, tracer trace.Tracer) *OrderCapturing {
	if len(methodPriority) == 0 {
		methodPriority = []domain.PaymentMethod{domain.MethodStoreCredit, domain.MethodCreditCard}
	}
	return &OrderCapturing{
		orderRepo:      orderRepo,
		credits:        credits,
		gateway:        gateway,
		methodPriority: methodPriority,
		tracer:         tracer,
	}
}

// CaptureResult 是单笔支付的扣款结果。
type CaptureResult struct {
	PaymentID string
	Method    domain.PaymentMethod
	Amount    string
	Err       error
}

// CapturePayments 对订单的全部待处理支付执行扣款，返回逐笔结果。
// 只要有任何一笔失败，整体 error 为非 nil，但成功的扣款不会回滚。
func (c *OrderCapturing) CapturePayments(ctx context.Context, orderID string) ([]CaptureResult, error) {
	ctx, span := c.tracer.Start(ctx, "order.CapturePayments")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	order, err := c.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	pending := order.PendingPayments()
	var results []CaptureResult
	failed := 0

	for _, method := range c.methodPriority {
		for _, p := range pending {
			if p.Source == nil || p.Source.Method() != method {
				continue
			}

			captureErr := c.captureOne(ctx, p, order.Currency)
			result := CaptureResult{
				PaymentID: p.ID,
				Method:    method,
				Amount:    p.Amount.StringFixed(2),
				Err:       captureErr,
			}
			results = append(results, result)

			if captureErr != nil {
				failed++
				captureCounter.WithLabelValues(string(method), "failure").Inc()
				span.RecordError(captureErr)
				logger.Ctx(ctx).Error().Err(captureErr).
					Str("order_id", orderID).
					Str("payment_id", p.ID).
					Str("method", string(method)).
					Msg("payment capture failed")
				continue
			}

			p.State = domain.PaymentCompleted
			order.OutstandingBalance = order.OutstandingBalance.Sub(p.Amount)
			captureCounter.WithLabelValues(string(method), "success").Inc()
			logger.Ctx(ctx).Info().
				Str("order_id", orderID).
				Str("payment_id", p.ID).
				Str("method", string(method)).
				Str("amount", p.Amount.String()).
				Msg("payment captured")
		}
	}

	if order.OutstandingBalance.IsZero() && failed == 0 {
		order.State = domain.StateComplete
	}

	if err := c.orderRepo.Save(ctx, order); err != nil {
		span.RecordError(err)
		return results, fmt.Errorf("failed to save order after capture: %w", err)
	}

	if failed > 0 {
		span.SetStatus(codes.Error, "one or more payment captures failed")
		return results, fmt.Errorf("%d of %d payment captures failed", failed, len(results))
	}
	return results, nil
}

// captureOne 按支付来源分发单笔扣款。
func (c *OrderCapturing) captureOne(ctx context.Context, p *domain.Payment, currency string) error {
	switch source := p.Source.(type) {
	case domain.StoreCreditSource:
		return c.credits.Capture(ctx, source.CreditID, p.ResponseCode, p.Amount)
	case domain.CardSource:
		return c.gateway.Capture(ctx, source.IntentID, p.Amount, currency)
	default:
		return domain.ErrUnexpectedPaymentSource
	}
}
