// internal/service/order/application/service.go
package application

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"creditcore/internal/pkg/logger"
	"creditcore/internal/service/order/domain"
	"creditcore/internal/service/order/domain/port"
)

// OrderApplicationService 负责订单确认与取消流程的编排。
// 分摊策略通过 domain.AllocationStrategy 注入，在确认转换的钩子点被调用一次。
type OrderApplicationService struct {
	orderRepo  domain.OrderRepository
	allocation domain.AllocationStrategy
	credits    port.StoreCreditService
	tracer     trace.Tracer
}

// NewOrderApplicationService 创建一个新的订单应用服务实例
func NewOrderApplicationService(orderRepo domain.OrderRepository, allocation domain.AllocationStrategy, credits port.StoreCreditService, tracer trace.Tracer) *OrderApplicationService {
	return &OrderApplicationService{
		orderRepo:  orderRepo,
		allocation: allocation,
		credits:    credits,
		tracer:     tracer,
	}
}

// ConfirmOrder 把订单推进到确认态：先执行支付分摊，再推进状态。
// 资金缺口不是致命错误：分摊产生的副作用已落库，但订单停留在原状态，等待用户补充支付方式。
func (s *OrderApplicationService) ConfirmOrder(ctx context.Context, orderID string) error {
	ctx, span := s.tracer.Start(ctx, "order.ConfirmOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	allocErr := s.allocation.Allocate(ctx, order)

	// 分摊过程中的授权与支付调整无论成败都要落库：
	// 账本侧的预授权已经生效，订单侧的支付记录必须与之保持一致。
	if err := s.orderRepo.Save(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist allocation side effects")
		return fmt.Errorf("failed to save order after allocation: %w", err)
	}

	if allocErr != nil {
		span.RecordError(allocErr)
		if errors.Is(allocErr, domain.ErrUnableToFund) {
			logger.Ctx(ctx).Warn().Str("order_id", orderID).
				Msg("order confirmation blocked: unable to fund order total")
		} else {
			span.SetStatus(codes.Error, "allocation failed")
			logger.Ctx(ctx).Error().Err(allocErr).Str("order_id", orderID).Msg("allocation failed")
		}
		return allocErr
	}

	order.MarkConfirmed()
	if err := s.orderRepo.Save(ctx, order); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save confirmed order: %w", err)
	}

	logger.Ctx(ctx).Info().Str("order_id", orderID).Msg("order confirmed, payments allocated")
	return nil
}

// CancelOrder 取消订单，并释放所有已授权待扣款的店铺信用占用。
func (s *OrderApplicationService) CancelOrder(ctx context.Context, orderID string) error {
	ctx, span := s.tracer.Start(ctx, "order.CancelOrder")
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	for _, p := range order.StoreCreditPayments() {
		if p.State != domain.PaymentPending {
			continue
		}
		source := p.Source.(domain.StoreCreditSource)
		if err := s.credits.Void(ctx, source.CreditID, p.ResponseCode); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to void store credit authorization for payment %s: %w", p.ID, err)
		}
		p.State = domain.PaymentVoid
	}

	order.MarkCanceled()
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return fmt.Errorf("failed to save canceled order: %w", err)
	}

	logger.Ctx(ctx).Info().Str("order_id", orderID).Msg("order canceled, store credit authorizations released")
	return nil
}

// StoreCreditSummary 返回订单的店铺信用相关展示数字。
func (s *OrderApplicationService) StoreCreditSummary(ctx context.Context, orderID string) (*StoreCreditSummaryView, error) {
	ctx, span := s.tracer.Start(ctx, "order.StoreCreditSummary")
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	available, err := s.credits.TotalAvailable(ctx, order.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user available store credit: %w", err)
	}

	return toSummaryView(order, available), nil
}

// OrderByAuthorizationCode 根据店铺信用授权码反查它所资助的订单。审计事件列表用它做跳转。
func (s *OrderApplicationService) OrderByAuthorizationCode(ctx context.Context, code string) (*OrderView, error) {
	order, err := s.orderRepo.FindByAuthorizationCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return toOrderView(order), nil
}
