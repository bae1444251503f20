// internal/service/order/application/allocation/reconcile_card.go
package allocation

import (
	"creditcore/internal/pkg/logger"
	"creditcore/internal/service/order/domain"
)

// ReconcileCardHandler 负责把店铺信用未覆盖的差额与卡支付对账。
// 店铺信用只能与卡类支付做差额对账；差额为零时整笔卡支付作废，而不是把金额改成零。
type ReconcileCardHandler struct {
	NextHandler
}

func (h *ReconcileCardHandler) Handle(allocCtx *AllocationContext) error {
	ctx, span := allocCtx.Tracer.Start(allocCtx.Ctx, "allocation.ReconcileCard")
	defer span.End()

	order := allocCtx.Order

	cardPayment, err := order.ExistingCardPayment()
	if err != nil {
		// 多笔非店铺信用支付说明数据已损坏，原样上抛，订单应被视为不可继续处理
		span.RecordError(err)
		return err
	}
	if cardPayment == nil {
		return h.executeNext(allocCtx)
	}

	if allocCtx.Remaining.IsZero() {
		cardPayment.State = domain.PaymentInvalid
		logger.Ctx(ctx).Info().Str("order_id", order.ID).Str("payment_id", cardPayment.ID).
			Msg("card payment invalidated, order fully covered by store credit")
	} else {
		if cardPayment.Source == nil || cardPayment.Source.Method() != domain.MethodCreditCard {
			span.RecordError(domain.ErrUnexpectedPaymentSource)
			return domain.ErrUnexpectedPaymentSource
		}
		cardPayment.Amount = allocCtx.Remaining
		logger.Ctx(ctx).Info().Str("order_id", order.ID).Str("payment_id", cardPayment.ID).
			Str("amount", cardPayment.Amount.String()).Msg("card payment reconciled")
	}

	return h.executeNext(allocCtx)
}
