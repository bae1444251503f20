// internal/service/order/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"creditcore/internal/service/order/domain"
)

// GormOrderRepository 是 OrderRepository 的 GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository 创建一个新的 GORM 订单仓储实例
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save 保存订单聚合及其全部支付记录。
// 支付集合按主键逐条 upsert，分摊过程中的状态改写与新增支付在同一个事务里落库。
func (r *GormOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	model := FromDomainOrder(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := model.Payments
		model.Payments = nil
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error; err != nil {
			return err
		}
		for i := range payments {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&payments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID 使用 GORM 从数据库中查找一个订单聚合
func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Preload("Payments").Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return ToDomainOrder(&model), nil
}

// FindByAuthorizationCode 通过支付记录上的授权码反查所属订单。
func (r *GormOrderRepository) FindByAuthorizationCode(ctx context.Context, code string) (*domain.Order, error) {
	var payment PaymentModel
	err := r.db.WithContext(ctx).Where("response_code = ?", code).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, payment.OrderID)
}
