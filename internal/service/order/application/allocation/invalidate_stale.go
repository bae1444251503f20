// internal/service/order/application/allocation/invalidate_stale.go
package allocation

import (
	"creditcore/internal/pkg/logger"
	"creditcore/internal/service/order/domain"
)

// InvalidateStaleHandler 负责清理上一次失败的下单尝试遗留的店铺信用支付。
// 仍停留在 checkout 状态的店铺信用支付尚未在账本上建立预授权，直接作废即可。
type InvalidateStaleHandler struct {
	NextHandler
}

func (h *InvalidateStaleHandler) Handle(allocCtx *AllocationContext) error {
	ctx, span := allocCtx.Tracer.Start(allocCtx.Ctx, "allocation.InvalidateStale")
	defer span.End()

	stale := 0
	for _, p := range allocCtx.Order.StoreCreditPayments() {
		if p.State == domain.PaymentCheckout {
			p.State = domain.PaymentInvalid
			stale++
		}
	}
	if stale > 0 {
		logger.Ctx(ctx).Info().Str("order_id", allocCtx.Order.ID).Int("count", stale).
			Msg("invalidated stale store credit payments")
		span.AddEvent("Stale store credit payments invalidated.")
	}

	return h.executeNext(allocCtx)
}
