// internal/service/order/application/allocation/apply_credits.go
package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"creditcore/internal/pkg/logger"
	"creditcore/internal/service/order/domain"
)

// ApplyCreditsHandler 按优先级把用户的店铺信用分摊到订单上。
// 优先级即仓储返回的顺序：创建时间升序，ID 升序——老的信用先被消耗，结果可复现。
type ApplyCreditsHandler struct {
	NextHandler
}

func (h *ApplyCreditsHandler) Handle(allocCtx *AllocationContext) error {
	ctx, span := allocCtx.Tracer.Start(allocCtx.Ctx, "allocation.ApplyCredits")
	defer span.End()

	order := allocCtx.Order

	// 已授权待扣款的店铺信用支付覆盖的部分不需要重复授权。
	// 这对应上一次部分成功的场景：店铺信用授权成功，但配套的卡支付失败了。
	authorizedTotal := order.AuthorizedStoreCreditTotal()
	allocCtx.Remaining = order.OutstandingBalance.Sub(authorizedTotal)

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("authorized_total", authorizedTotal.String()),
		attribute.String("remaining_total", allocCtx.Remaining.String()),
	)

	if !allocCtx.Remaining.IsPositive() || order.UserID == "" {
		return h.executeNext(allocCtx)
	}

	credits, err := allocCtx.Credits.CreditsByUser(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user store credits: %w", err)
	}

	for _, credit := range credits {
		// 余额清零后立即停止，后面的信用一概不动
		if allocCtx.Remaining.IsZero() {
			break
		}
		// 余额为零的信用直接跳过，不占用任何分摊额度
		if credit.AmountRemaining.IsZero() {
			continue
		}
		// 币种不一致的信用无法用于本订单
		if credit.Currency != order.Currency {
			continue
		}

		amountToTake := decimal.Min(credit.AmountRemaining, allocCtx.Remaining)
		authCode, err := allocCtx.Credits.Authorize(ctx, credit.ID, amountToTake, order.Currency)
		if err != nil {
			return fmt.Errorf("failed to authorize store credit %s: %w", credit.ID, err)
		}

		order.AddPayment(domain.NewStoreCreditPayment(order.ID, credit.ID, authCode, amountToTake))
		allocCtx.Remaining = allocCtx.Remaining.Sub(amountToTake)

		logger.Ctx(ctx).Info().
			Str("order_id", order.ID).
			Str("credit_id", credit.ID).
			Str("amount", amountToTake.String()).
			Msg("store credit applied to order")
	}

	span.AddEvent("Store credits applied.")
	return h.executeNext(allocCtx)
}
