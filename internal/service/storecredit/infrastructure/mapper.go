// internal/service/storecredit/infrastructure/mapper.go
package infrastructure

import (
	"creditcore/internal/service/storecredit/domain"
)

// ToDomainStoreCredit 将数据库模型转换为领域模型
func ToDomainStoreCredit(model *StoreCreditModel) *domain.StoreCredit {
	if model == nil {
		return nil
	}
	auths := make([]domain.Authorization, len(model.Authorizations))
	for i, a := range model.Authorizations {
		auths[i] = domain.Authorization{
			Code:      a.Code,
			Amount:    a.Amount,
			CreatedAt: a.CreatedAt,
		}
	}
	return &domain.StoreCredit{
		ID:               model.ID,
		UserID:           model.UserID,
		CategoryID:       model.CategoryID,
		CreatedBy:        domain.Actor{Type: domain.ActorType(model.CreatedByType), ID: model.CreatedByID},
		Amount:           model.Amount,
		AmountUsed:       model.AmountUsed,
		AmountAuthorized: model.AmountAuthorized,
		Currency:         model.Currency,
		Memo:             model.Memo,
		Authorizations:   auths,
		InvalidatedAt:    model.InvalidatedAt,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// FromDomainStoreCredit 将领域模型转换为数据库模型 (用于插入或更新)
func FromDomainStoreCredit(credit *domain.StoreCredit) *StoreCreditModel {
	if credit == nil {
		return nil
	}
	auths := make([]AuthorizationModel, len(credit.Authorizations))
	for i, a := range credit.Authorizations {
		auths[i] = AuthorizationModel{
			Code:          a.Code,
			StoreCreditID: credit.ID,
			Amount:        a.Amount,
			CreatedAt:     a.CreatedAt,
		}
	}
	return &StoreCreditModel{
		ID:               credit.ID,
		UserID:           credit.UserID,
		CategoryID:       credit.CategoryID,
		CreatedByType:    string(credit.CreatedBy.Type),
		CreatedByID:      credit.CreatedBy.ID,
		Amount:           credit.Amount,
		AmountUsed:       credit.AmountUsed,
		AmountAuthorized: credit.AmountAuthorized,
		Currency:         credit.Currency,
		Memo:             credit.Memo,
		InvalidatedAt:    credit.InvalidatedAt,
		CreatedAt:        credit.CreatedAt,
		UpdatedAt:        credit.UpdatedAt,
		Authorizations:   auths,
	}
}

// ToDomainEvent 将数据库模型转换为领域模型
func ToDomainEvent(model *StoreCreditEventModel) *domain.StoreCreditEvent {
	if model == nil {
		return nil
	}
	return &domain.StoreCreditEvent{
		ID:                model.ID,
		StoreCreditID:     model.StoreCreditID,
		Action:            domain.EventAction(model.Action),
		Amount:            model.Amount,
		UserTotalAmount:   model.UserTotalAmount,
		Originator:        domain.Actor{Type: domain.ActorType(model.OriginatorType), ID: model.OriginatorID},
		AuthorizationCode: model.AuthorizationCode,
		Deleted:           model.Deleted,
		CreatedAt:         model.CreatedAt,
	}
}

// FromDomainEvent 将领域模型转换为数据库模型
func FromDomainEvent(event *domain.StoreCreditEvent) *StoreCreditEventModel {
	if event == nil {
		return nil
	}
	return &StoreCreditEventModel{
		ID:                event.ID,
		StoreCreditID:     event.StoreCreditID,
		Action:            string(event.Action),
		Amount:            event.Amount,
		UserTotalAmount:   event.UserTotalAmount,
		OriginatorType:    string(event.Originator.Type),
		OriginatorID:      event.Originator.ID,
		AuthorizationCode: event.AuthorizationCode,
		Deleted:           event.Deleted,
		CreatedAt:         event.CreatedAt,
	}
}
