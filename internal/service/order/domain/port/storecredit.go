// internal/service/order/domain/port/storecredit.go
package port

import (
	"context"

	"github.com/shopspring/decimal"
)

// CreditView 是订单上下文看到的店铺信用快照。
type CreditView struct {
	ID              string
	AmountRemaining decimal.Decimal
	Currency        string
}

// StoreCreditService 是订单上下文访问店铺信用账本的出站端口。
// 分摊与扣款只通过这些状态转换操作余额，绝不直接改写账本字段。
type StoreCreditService interface {
	// CreditsByUser 返回用户的店铺信用，按消耗优先级排列（创建时间升序，ID 升序）。
	CreditsByUser(ctx context.Context, userID string) ([]CreditView, error)

	// Authorize 在指定信用上建立预授权，返回授权码。
	Authorize(ctx context.Context, creditID string, amount decimal.Decimal, currency string) (string, error)

	// Capture 对指定授权码执行扣款。
	Capture(ctx context.Context, creditID, authCode string, amount decimal.Decimal) error

	// Void 整笔释放指定授权码的预授权。
	Void(ctx context.Context, creditID, authCode string) error

	// TotalAvailable 返回用户全部店铺信用的剩余余额合计。
	TotalAvailable(ctx context.Context, userID string) (decimal.Decimal, error)
}
