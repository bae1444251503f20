// internal/service/storecredit/domain/repository.go
package domain

import "context"

// StoreCreditRepository 定义了店铺信用聚合的持久化接口。
// 它位于领域层，但由基础设施层实现。
type StoreCreditRepository interface {
	// Save 保存一笔店铺信用（用于创建或更新），连同其未完结的预授权一并持久化。
	Save(ctx context.Context, credit *StoreCredit) error

	// FindByID 根据 ID 查找一笔店铺信用。
	FindByID(ctx context.Context, id string) (*StoreCredit, error)

	// FindByUserID 返回某用户的全部店铺信用。
	// 返回顺序即分摊时的消耗优先级：创建时间升序，创建时间相同按 ID 升序。
	FindByUserID(ctx context.Context, userID string) ([]*StoreCredit, error)
}

// EventRepository 定义了审计事件的持久化接口。事件只追加，不修改。
type EventRepository interface {
	// Append 追加一条审计事件。
	Append(ctx context.Context, event *StoreCreditEvent) error

	// FindByCreditID 按时间倒序返回某笔信用的事件。
	// exposedOnly 为 true 时过滤内部记账动作；已标记删除的事件始终被过滤。
	FindByCreditID(ctx context.Context, creditID string, exposedOnly bool) ([]*StoreCreditEvent, error)
}
