// internal/service/storecredit/infrastructure/adapter/zk_locker_adapter.go
package adapter

import (
	"context"
	"fmt"

	"creditcore/internal/pkg/logger"
	"creditcore/internal/pkg/zookeeper"
)

// ZkLockerAdapter 是 port.Locker 的 ZooKeeper 实现。
// 每笔店铺信用对应一个锁资源，保证其余额变更跨实例串行。
type ZkLockerAdapter struct {
	conn *zookeeper.Conn
}

func NewZkLockerAdapter(conn *zookeeper.Conn) *ZkLockerAdapter {
	return &ZkLockerAdapter{conn: conn}
}

// WithLock 在持有分布式锁期间执行 fn。
func (a *ZkLockerAdapter) WithLock(ctx context.Context, creditID string, fn func() error) error {
	lock := zookeeper.NewDistributedLock(a.conn, creditID)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for credit %s: %w", creditID, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("credit_id", creditID).Msg("failed to release credit lock")
		}
	}()
	return fn()
}
