// internal/service/order/application/allocation/verify_funding.go
package allocation

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"creditcore/internal/service/order/domain"
)

// VerifyFundingHandler 是链的最后一步：校验待处理支付合计是否恰好覆盖订单总额。
// 覆盖不足时返回资金缺口错误，订单停留在转换前的状态；
// 本次分摊已产生的授权与支付记录保持原样，留待用户补充支付方式后复用或被下一轮清理。
type VerifyFundingHandler struct {
	NextHandler
}

func (h *VerifyFundingHandler) Handle(allocCtx *AllocationContext) error {
	_, span := allocCtx.Tracer.Start(allocCtx.Ctx, "allocation.VerifyFunding")
	defer span.End()

	pendingTotal := allocCtx.Order.PendingTotal()
	span.SetAttributes(
		attribute.String("pending_total", pendingTotal.String()),
		attribute.String("order_total", allocCtx.Order.Total.String()),
	)

	if !pendingTotal.Equal(allocCtx.Order.Total) {
		span.SetStatus(codes.Error, "order is not fully funded")
		return domain.ErrUnableToFund
	}

	span.AddEvent("Order fully funded.")
	return h.executeNext(allocCtx)
}
