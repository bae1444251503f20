// internal/service/storecredit/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"creditcore/internal/service/storecredit/domain"
)

// GormStoreCreditRepository 是 StoreCreditRepository 的 GORM 实现
type GormStoreCreditRepository struct {
	db *gorm.DB
}

// NewGormStoreCreditRepository 创建一个新的 GORM 仓储实例
func NewGormStoreCreditRepository(db *gorm.DB) *GormStoreCreditRepository {
	return &GormStoreCreditRepository{db: db}
}

// Save 保存店铺信用及其未完结预授权。
// 预授权集合整体替换：先删后插，与实体保持一致，整个操作在一个事务里完成。
func (r *GormStoreCreditRepository) Save(ctx context.Context, credit *domain.StoreCredit) error {
	model := FromDomainStoreCredit(credit)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auths := model.Authorizations
		model.Authorizations = nil
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error; err != nil {
			return err
		}
		if err := tx.Where("store_credit_id = ?", model.ID).Delete(&AuthorizationModel{}).Error; err != nil {
			return err
		}
		if len(auths) > 0 {
			if err := tx.Create(&auths).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID 使用 GORM 从数据库中查找一笔店铺信用
func (r *GormStoreCreditRepository) FindByID(ctx context.Context, id string) (*domain.StoreCredit, error) {
	var model StoreCreditModel
	err := r.db.WithContext(ctx).Preload("Authorizations").Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ToDomainStoreCredit(&model), nil
}

// FindByUserID 返回某用户的全部店铺信用。
// 排序即分摊优先级：创建时间升序，创建时间相同按 ID 升序，保证分摊结果可复现。
func (r *GormStoreCreditRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.StoreCredit, error) {
	var models []*StoreCreditModel
	err := r.db.WithContext(ctx).Preload("Authorizations").
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	credits := make([]*domain.StoreCredit, len(models))
	for i, m := range models {
		credits[i] = ToDomainStoreCredit(m)
	}
	return credits, nil
}

// GormEventRepository 是 EventRepository 的 GORM 实现
type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// Append 追加一条审计事件。事件表只插入，从不更新。
func (r *GormEventRepository) Append(ctx context.Context, event *domain.StoreCreditEvent) error {
	return r.db.WithContext(ctx).Create(FromDomainEvent(event)).Error
}

// FindByCreditID 按时间倒序返回某笔信用的事件，过滤已软删除的记录。
// exposedOnly 为 true 时额外过滤内部记账动作（eligible / authorize）。
func (r *GormEventRepository) FindByCreditID(ctx context.Context, creditID string, exposedOnly bool) ([]*domain.StoreCreditEvent, error) {
	query := r.db.WithContext(ctx).
		Where("store_credit_id = ? AND deleted = ?", creditID, false).
		Order("created_at desc")
	if exposedOnly {
		query = query.Where("action NOT IN ?", []string{string(domain.ActionEligible), string(domain.ActionAuthorize)})
	}
	var models []*StoreCreditEventModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	events := make([]*domain.StoreCreditEvent, len(models))
	for i, m := range models {
		events[i] = ToDomainEvent(m)
	}
	return events, nil
}
