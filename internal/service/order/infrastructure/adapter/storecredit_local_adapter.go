// internal/service/order/infrastructure/adapter/storecredit_local_adapter.go
package adapter

import (
	"context"

	"github.com/shopspring/decimal"

	"creditcore/internal/service/order/domain/port"
	scapp "creditcore/internal/service/storecredit/application"
)

// StoreCreditLocalAdapter 把店铺信用上下文的应用服务适配为订单上下文的出站端口。
// 两个上下文部署在同一进程里，走进程内调用；拆分部署时替换为 RPC 客户端即可。
type StoreCreditLocalAdapter struct {
	service *scapp.StoreCreditService
}

// NewStoreCreditLocalAdapter 创建一个进程内的店铺信用端口适配器
func NewStoreCreditLocalAdapter(service *scapp.StoreCreditService) *StoreCreditLocalAdapter {
	return &StoreCreditLocalAdapter{service: service}
}

// CreditsByUser 返回用户的店铺信用快照，顺序即分摊优先级。
func (a *StoreCreditLocalAdapter) CreditsByUser(ctx context.Context, userID string) ([]port.CreditView, error) {
	credits, err := a.service.ListCredits(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]port.CreditView, len(credits))
	for i, c := range credits {
		views[i] = port.CreditView{
			ID:              c.ID,
			AmountRemaining: c.AmountRemaining,
			Currency:        c.Currency,
		}
	}
	return views, nil
}

// Authorize 在指定信用上建立预授权。
func (a *StoreCreditLocalAdapter) Authorize(ctx context.Context, creditID string, amount decimal.Decimal, currency string) (string, error) {
	return a.service.Authorize(ctx, creditID, amount, currency)
}

// Capture 对指定授权码执行扣款。
func (a *StoreCreditLocalAdapter) Capture(ctx context.Context, creditID, authCode string, amount decimal.Decimal) error {
	return a.service.Capture(ctx, creditID, authCode, amount)
}

// Void 整笔释放指定授权码的预授权。
func (a *StoreCreditLocalAdapter) Void(ctx context.Context, creditID, authCode string) error {
	return a.service.Void(ctx, creditID, authCode)
}

// TotalAvailable 返回用户剩余店铺信用合计。
func (a *StoreCreditLocalAdapter) TotalAvailable(ctx context.Context, userID string) (decimal.Decimal, error) {
	return a.service.TotalAvailable(ctx, userID)
}
