// internal/service/storecredit/port/locker.go
package port

import "context"

// Locker 是余额互斥的出站端口。
// 同一笔店铺信用的余额变更必须串行执行，防止两次并发分摊读到同一份过期的可用余额。
type Locker interface {
	// WithLock 在持有 creditID 对应的锁期间执行 fn。
	WithLock(ctx context.Context, creditID string, fn func() error) error
}
