// internal/service/storecredit/application/service.go
package application

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"creditcore/internal/pkg/logger"
	"creditcore/internal/service/storecredit/domain"
	"creditcore/internal/service/storecredit/port"
)

var transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "store_credit_transitions_total",
	Help: "Number of store credit ledger transitions by action and result.",
}, []string{"action", "result"})

// StoreCreditService 负责店铺信用的全部业务用例编排。
// 每一次余额变更都遵循同一条路径：加锁 -> 加载 -> 领域转换 -> 持久化 -> 追加审计事件 -> 失效余额缓存。
type StoreCreditService struct {
	creditRepo domain.StoreCreditRepository
	eventRepo  domain.EventRepository
	locker     port.Locker
	notifier   port.Notifier
	cache      port.BalanceCache
	tracer     trace.Tracer

	giftCardCategoryID string
	balanceGroup       singleflight.Group
}

// NewStoreCreditService 创建一个新的店铺信用服务实例
func NewStoreCreditService(
	creditRepo domain.StoreCreditRepository,
	eventRepo domain.EventRepository,
	locker port.Locker,
	notifier port.Notifier,
	cache port.BalanceCache,
	tracer trace.Tracer,
	giftCardCategoryID string,
) *StoreCreditService {
	return &StoreCreditService{
		creditRepo:         creditRepo,
		eventRepo:          eventRepo,
		locker:             locker,
		notifier:           notifier,
		cache:              cache,
		tracer:             tracer,
		giftCardCategoryID: giftCardCategoryID,
	}
}

// Create 是管理端发放店铺信用的入口。
func (s *StoreCreditService) Create(ctx context.Context, req *CreateStoreCreditRequest) (*StoreCreditView, error) {
	ctx, span := s.tracer.Start(ctx, "storecredit.Create")
	defer span.End()

	credit, err := domain.NewStoreCredit(req.UserID, req.CategoryID, req.Currency, req.Memo, req.Amount, domain.AdminActor(req.AdminID))
	if err != nil {
		span.RecordError(err)
		transitionsTotal.WithLabelValues(string(domain.ActionAllocate), "error").Inc()
		return nil, err
	}

	if err := s.creditRepo.Save(ctx, credit); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save store credit")
		return nil, fmt.Errorf("failed to save store credit: %w", err)
	}
	if err := s.recordEvent(ctx, credit, domain.ActionAllocate, credit.Amount, domain.AdminActor(req.AdminID), ""); err != nil {
		return nil, err
	}

	transitionsTotal.WithLabelValues(string(domain.ActionAllocate), "ok").Inc()
	logger.Ctx(ctx).Info().Str("credit_id", credit.ID).Str("user_id", credit.UserID).
		Str("amount", credit.Amount.String()).Msg("store credit created")
	return toCreditView(credit), nil
}

// Update 是管理端编辑面值/分类/备注的入口。
// 面值低于已扣款金额时整体拒绝，领域错误文案原样上抛给调用方展示。
func (s *StoreCreditService) Update(ctx context.Context, req *UpdateStoreCreditRequest) (*StoreCreditView, error) {
	ctx, span := s.tracer.Start(ctx, "storecredit.Update")
	defer span.End()

	var view *StoreCreditView
	err := s.locker.WithLock(ctx, req.CreditID, func() error {
		credit, err := s.creditRepo.FindByID(ctx, req.CreditID)
		if err != nil {
			return err
		}
		delta := req.Amount.Sub(credit.Amount)
		if err := credit.Edit(req.Amount, req.CategoryID, req.Memo); err != nil {
			span.RecordError(err)
			transitionsTotal.WithLabelValues(string(domain.ActionAdjustment), "refused").Inc()
			return err
		}
		if err := s.creditRepo.Save(ctx, credit); err != nil {
			return fmt.Errorf("failed to save store credit: %w", err)
		}
		if err := s.recordEvent(ctx, credit, domain.ActionAdjustment, delta, domain.AdminActor(req.AdminID), ""); err != nil {
			return err
		}
		transitionsTotal.WithLabelValues(string(domain.ActionAdjustment), "ok").Inc()
		view = toCreditView(credit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Invalidate 软作废一笔店铺信用。存在未扣款预授权时拒绝，错误文案原样上抛。
func (s *StoreCreditService) Invalidate(ctx context.Context, creditID, adminID string) error {
	ctx, span := s.tracer.Start(ctx, "storecredit.Invalidate")
	defer span.End()

	return s.locker.WithLock(ctx, creditID, func() error {
		credit, err := s.creditRepo.FindByID(ctx, creditID)
		if err != nil {
			return err
		}
		remaining := credit.AmountRemaining()
		if err := credit.Invalidate(); err != nil {
			span.RecordError(err)
			transitionsTotal.WithLabelValues("invalidate", "refused").Inc()
			return err
		}
		if err := s.creditRepo.Save(ctx, credit); err != nil {
			return fmt.Errorf("failed to save store credit: %w", err)
		}
		// 作废使剩余余额归零，以负的调整额记入审计日志
		if err := s.recordEvent(ctx, credit, domain.ActionAdjustment, remaining.Neg(), domain.AdminActor(adminID), ""); err != nil {
			return err
		}
		transitionsTotal.WithLabelValues("invalidate", "ok").Inc()
		logger.Ctx(ctx).Info().Str("credit_id", creditID).Msg("store credit invalidated")
		return nil
	})
}

// Authorize 在指定信用上建立预授权，返回授权码。由订单分摊流程调用。
func (s *StoreCreditService) Authorize(ctx context.Context, creditID string, amount decimal.Decimal, currency string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "storecredit.Authorize")
	defer span.End()
	span.SetAttributes(
		attribute.String("credit.id", creditID),
		attribute.String("amount", amount.String()),
	)

	var code string
	err := s.locker.WithLock(ctx, creditID, func() error {
		credit, err := s.creditRepo.FindByID(ctx, creditID)
		if err != nil {
			return err
		}
		code, err = credit.Authorize(amount, currency)
		if err != nil {
			span.RecordError(err)
			transitionsTotal.WithLabelValues(string(domain.ActionAuthorize), "refused").Inc()
			return err
		}
		if err := s.creditRepo.Save(ctx, credit); err != nil {
			return fmt.Errorf("failed to save store credit: %w", err)
		}
		if err := s.recordEvent(ctx, credit, domain.ActionAuthorize, amount, domain.SystemActor(), code); err != nil {
			return err
		}
		transitionsTotal.WithLabelValues(string(domain.ActionAuthorize), "ok").Inc()
		return nil
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// Capture 对一笔预授权执行扣款，由订单扣款编排器调用。
func (s *StoreCreditService) Capture(ctx context.Context, creditID, authCode string, amount decimal.Decimal) error {
	ctx, span := s.tracer.Start(ctx, "storecredit.Capture")
	defer span.End()
	span.SetAttributes(
		attribute.String("credit.id", creditID),
		attribute.String("amount", amount.String()),
	)

	return s.locker.WithLock(ctx, creditID, func() error {
		credit, err := s.creditRepo.FindByID(ctx, creditID)
		if err != nil {
			return err
		}
		if err := credit.Capture(authCode, amount); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "capture refused")
			transitionsTotal.WithLabelValues(string(domain.ActionCapture), "refused").Inc()
			return err
		}
		if err := s.creditRepo.Save(ctx, credit); err != nil {
			return fmt.Errorf("failed to save store credit: %w", err)
		}
		if err := s.recordEvent(ctx, credit, domain.ActionCapture, amount, domain.SystemActor(), authCode); err != nil {
			return err
		}
		transitionsTotal.WithLabelValues(string(domain.ActionCapture), "ok").Inc()
		logger.Ctx(ctx).Info().Str("credit_id", creditID).Str("amount", amount.String()).Msg("store credit captured")
		return nil
	})
}

// Void 整笔释放一笔预授权，由订单取消流程调用。
func (s *StoreCreditService) Void(ctx context.Context, creditID, authCode string) error {
	ctx, span := s.tracer.Start(ctx, "storecredit.Void")
	defer span.End()

	return s.locker.WithLock(ctx, creditID, func() error {
		credit, err := s.creditRepo.FindByID(ctx, creditID)
		if err != nil {
			return err
		}
		released, err := credit.Void(authCode)
		if err != nil {
			span.RecordError(err)
			transitionsTotal.WithLabelValues(string(domain.ActionVoid), "refused").Inc()
			return err
		}
		if err := s.creditRepo.Save(ctx, credit); err != nil {
			return fmt.Errorf("failed to save store credit: %w", err)
		}
		if err := s.recordEvent(ctx, credit, domain.ActionVoid, released, domain.SystemActor(), authCode); err != nil {
			return err
		}
		transitionsTotal.WithLabelValues(string(domain.ActionVoid), "ok").Inc()
		return nil
	})
}

// CreditBack 退款回充：把已扣款金额退回余额。
func (s *StoreCreditService) CreditBack(ctx context.Context, creditID string, amount decimal.Decimal, originator domain.Actor) error {
	ctx, span := s.tracer.Start(ctx, "storecredit.CreditBack")
	defer span.End()

	return s.locker.WithLock(ctx, creditID, func() error {
		credit, err := s.creditRepo.FindByID(ctx, creditID)
		if err != nil {
			return err
		}
		if err := credit.CreditBack(amount); err != nil {
			span.RecordError(err)
			transitionsTotal.WithLabelValues(string(domain.ActionCredit), "refused").Inc()
			return err
		}
		if err := s.creditRepo.Save(ctx, credit); err != nil {
			return fmt.Errorf("failed to save store credit: %w", err)
		}
		if err := s.recordEvent(ctx, credit, domain.ActionCredit, amount, originator, ""); err != nil {
			return err
		}
		transitionsTotal.WithLabelValues(string(domain.ActionCredit), "ok").Inc()
		return nil
	})
}

// RedeemGiftCard 把一张已兑付的礼品卡转化为店铺信用。
// 通知协作方的调用是尽力而为的：发送失败只记录日志，发放本身不受影响。
func (s *StoreCreditService) RedeemGiftCard(ctx context.Context, req *RedeemGiftCardRequest) (*StoreCreditView, error) {
	ctx, span := s.tracer.Start(ctx, "storecredit.RedeemGiftCard")
	defer span.End()

	credit, err := domain.NewStoreCredit(req.UserID, s.giftCardCategoryID, req.Currency, req.Memo, req.Amount, domain.SystemActor())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.creditRepo.Save(ctx, credit); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save store credit: %w", err)
	}
	if err := s.recordEvent(ctx, credit, domain.ActionAllocate, credit.Amount, domain.SystemActor(), ""); err != nil {
		return nil, err
	}

	if err := s.notifier.GiftCardFulfilled(ctx, credit); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("credit_id", credit.ID).
			Msg("gift card notification failed, continuing")
	}

	transitionsTotal.WithLabelValues(string(domain.ActionAllocate), "ok").Inc()
	return toCreditView(credit), nil
}

// Get 返回一笔店铺信用的展示快照。
func (s *StoreCreditService) Get(ctx context.Context, creditID string) (*StoreCreditView, error) {
	credit, err := s.creditRepo.FindByID(ctx, creditID)
	if err != nil {
		return nil, err
	}
	return toCreditView(credit), nil
}

// ListCredits 返回某用户的全部店铺信用，顺序即分摊优先级。
func (s *StoreCreditService) ListCredits(ctx context.Context, userID string) ([]*StoreCreditView, error) {
	credits, err := s.creditRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]*StoreCreditView, len(credits))
	for i, c := range credits {
		views[i] = toCreditView(c)
	}
	return views, nil
}

// ListEvents 按时间倒序返回某笔信用的审计事件。
func (s *StoreCreditService) ListEvents(ctx context.Context, creditID string, exposedOnly bool) ([]*EventView, error) {
	events, err := s.eventRepo.FindByCreditID(ctx, creditID, exposedOnly)
	if err != nil {
		return nil, err
	}
	views := make([]*EventView, len(events))
	for i, e := range events {
		views[i] = toEventView(e)
	}
	return views, nil
}

// TotalAvailable 返回用户所有店铺信用的剩余余额合计。
// 结果进 Redis 缓存，singleflight 合并并发的回源计算。
func (s *StoreCreditService) TotalAvailable(ctx context.Context, userID string) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, "storecredit.TotalAvailable")
	defer span.End()

	if total, ok, err := s.cache.Get(ctx, userID); err == nil && ok {
		return total, nil
	}

	v, err, _ := s.balanceGroup.Do(userID, func() (interface{}, error) {
		total, err := s.sumRemaining(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, userID, total); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("failed to cache user balance")
		}
		return total, nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

// recordEvent 追加一条审计事件，携带事件生效后的用户余额快照，并失效该用户的余额缓存。
func (s *StoreCreditService) recordEvent(ctx context.Context, credit *domain.StoreCredit, action domain.EventAction, amount decimal.Decimal, originator domain.Actor, authCode string) error {
	userTotal, err := s.sumRemaining(ctx, credit.UserID)
	if err != nil {
		return fmt.Errorf("failed to snapshot user balance: %w", err)
	}
	event := domain.NewEvent(credit.ID, action, amount, userTotal, originator, authCode)
	if err := s.eventRepo.Append(ctx, event); err != nil {
		return fmt.Errorf("failed to append store credit event: %w", err)
	}
	if err := s.cache.Drop(ctx, credit.UserID); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", credit.UserID).Msg("failed to drop user balance cache")
	}
	return nil
}

func (s *StoreCreditService) sumRemaining(ctx context.Context, userID string) (decimal.Decimal, error) {
	credits, err := s.creditRepo.FindByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range credits {
		total = total.Add(c.AmountRemaining())
	}
	return total, nil
}
