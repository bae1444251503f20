// internal/service/order/application/allocation/handler.go
package allocation

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	"creditcore/internal/service/order/domain"
	"creditcore/internal/service/order/domain/port"
)

// AllocationContext 在分摊链中传递订单处理所需的所有数据。
// Remaining 在各步骤之间串行传递：每一步都依赖前一步的结果，绝不并行。
type AllocationContext struct {
	Ctx    context.Context
	Order  *domain.Order
	Tracer trace.Tracer

	// 依赖出站端口
	Credits port.StoreCreditService

	// Remaining 是还需要被支付覆盖的金额，由链中的步骤逐步消减。
	Remaining decimal.Decimal
}

// Handler 定义了分摊链中每个节点的接口
type Handler interface {
	// SetNext 设置链中的下一个处理器
	SetNext(handler Handler) Handler
	// Handle 执行当前节点的处理逻辑
	Handle(allocCtx *AllocationContext) error
}

// NextHandler 是一个辅助结构，可以嵌入到具体的处理器中，以减少重复代码
type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

// executeNext 封装了调用下一个处理器的通用逻辑
func (h *NextHandler) executeNext(allocCtx *AllocationContext) error {
	if h.next != nil {
		return h.next.Handle(allocCtx)
	}
	return nil
}

// StoreCreditAllocation 是 domain.AllocationStrategy 的默认实现：
// 作废遗留支付 -> 按优先级消耗店铺信用 -> 与卡支付对账 -> 校验资金覆盖。
type StoreCreditAllocation struct {
	credits port.StoreCreditService
	tracer  trace.Tracer
}

func NewStoreCreditAllocation(credits port.StoreCreditService, tracer trace.Tracer) *StoreCreditAllocation {
	return &StoreCreditAllocation{credits: credits, tracer: tracer}
}

// Allocate 对一个订单执行一次完整的支付分摊。
// 在订单进入确认态前被调用一次；对同一订单的调用必须串行。
func (s *StoreCreditAllocation) Allocate(ctx context.Context, order *domain.Order) error {
	ctx, span := s.tracer.Start(ctx, "allocation.Allocate")
	defer span.End()

	allocCtx := &AllocationContext{
		Ctx:     ctx,
		Order:   order,
		Tracer:  s.tracer,
		Credits: s.credits,
	}

	chain := new(InvalidateStaleHandler)
	chain.
		SetNext(new(ApplyCreditsHandler)).
		SetNext(new(ReconcileCardHandler)).
		SetNext(new(VerifyFundingHandler))

	if err := chain.Handle(allocCtx); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
