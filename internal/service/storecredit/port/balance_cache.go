// internal/service/storecredit/port/balance_cache.go
package port

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceCache 缓存用户级的剩余余额合计，避免每次展示都全量扫描该用户的信用记录。
// 任何一笔信用的余额发生变化后，对应用户的缓存都会被丢弃。
type BalanceCache interface {
	Get(ctx context.Context, userID string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, userID string, total decimal.Decimal) error
	Drop(ctx context.Context, userID string) error
}
