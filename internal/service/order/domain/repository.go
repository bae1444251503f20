// internal/service/order/domain/repository.go
package domain

import "context"

// OrderRepository 定义了订单聚合的持久化接口。
// 它位于领域层，但由基础设施层实现。
type OrderRepository interface {
	// Save 保存订单聚合及其全部支付记录（用于创建或更新）。
	Save(ctx context.Context, order *Order) error

	// FindByID 根据 ID 查找一个订单聚合。
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByAuthorizationCode 根据店铺信用授权码找到它所资助的支付的所属订单。
	// 用于从审计事件反查订单。
	FindByAuthorizationCode(ctx context.Context, code string) (*Order, error)
}

// AllocationStrategy 是确认转换钩子上的分摊策略接口。
// 订单处理流水线在进入确认态前调用它一次；具体实现由组装根注入，而不是在订单类型上打补丁。
type AllocationStrategy interface {
	Allocate(ctx context.Context, order *Order) error
}
