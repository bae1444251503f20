// internal/service/storecredit/infrastructure/adapter/balance_redis_adapter.go
package adapter

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"creditcore/internal/pkg/redis"
)

const balanceTTL = 10 * time.Minute

// BalanceRedisAdapter 是 port.BalanceCache 的 Redis 实现。
type BalanceRedisAdapter struct {
	redisClient *redis.Client
}

// NewBalanceRedisAdapter 创建一个新的余额缓存适配器实例。
func NewBalanceRedisAdapter(redisClient *redis.Client) *BalanceRedisAdapter {
	return &BalanceRedisAdapter{redisClient: redisClient}
}

func balanceKey(userID string) string {
	return fmt.Sprintf("store_credit:balance:{%s}", userID)
}

func (a *BalanceRedisAdapter) Get(ctx context.Context, userID string) (decimal.Decimal, bool, error) {
	val, err := a.redisClient.GetClient().Get(ctx, balanceKey(userID)).Result()
	if err == goredis.Nil {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read balance cache: %w", err)
	}
	total, err := decimal.NewFromString(val)
	if err != nil {
		// 缓存内容损坏时当作未命中，回源重算
		return decimal.Zero, false, nil
	}
	return total, true, nil
}

func (a *BalanceRedisAdapter) Set(ctx context.Context, userID string, total decimal.Decimal) error {
	return a.redisClient.GetClient().Set(ctx, balanceKey(userID), total.String(), balanceTTL).Err()
}

func (a *BalanceRedisAdapter) Drop(ctx context.Context, userID string) error {
	return a.redisClient.GetClient().Del(ctx, balanceKey(userID)).Err()
}
