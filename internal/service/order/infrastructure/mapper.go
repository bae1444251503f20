// internal/service/order/infrastructure/mapper.go
package infrastructure

import (
	"creditcore/internal/service/order/domain"
)

// ToDomainOrder 将数据库模型转换为领域对象
func ToDomainOrder(m *OrderModel) *domain.Order {
	order := &domain.Order{
		ID:                 m.ID,
		UserID:             m.UserID,
		State:              domain.State(m.State),
		Total:              m.Total,
		Currency:           m.Currency,
		OutstandingBalance: m.OutstandingBalance,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	for i := range m.Payments {
		order.Payments = append(order.Payments, toDomainPayment(&m.Payments[i]))
	}
	return order
}

// FromDomainOrder 将领域对象转换为数据库模型
func FromDomainOrder(o *domain.Order) *OrderModel {
	m := &OrderModel{
		ID:                 o.ID,
		UserID:             o.UserID,
		State:              string(o.State),
		Total:              o.Total,
		Currency:           o.Currency,
		OutstandingBalance: o.OutstandingBalance,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	for _, p := range o.Payments {
		m.Payments = append(m.Payments, *fromDomainPayment(p))
	}
	return m
}

func toDomainPayment(m *PaymentModel) *domain.Payment {
	var source domain.PaymentSource
	switch domain.PaymentMethod(m.SourceType) {
	case domain.MethodStoreCredit:
		source = domain.StoreCreditSource{CreditID: m.SourceRef}
	case domain.MethodCreditCard:
		source = domain.CardSource{IntentID: m.SourceRef}
	}
	return &domain.Payment{
		ID:           m.ID,
		OrderID:      m.OrderID,
		Amount:       m.Amount,
		State:        domain.PaymentState(m.State),
		Source:       source,
		ResponseCode: m.ResponseCode,
		CreatedAt:    m.CreatedAt,
	}
}

func fromDomainPayment(p *domain.Payment) *PaymentModel {
	m := &PaymentModel{
		ID:           p.ID,
		OrderID:      p.OrderID,
		Amount:       p.Amount,
		State:        string(p.State),
		ResponseCode: p.ResponseCode,
		CreatedAt:    p.CreatedAt,
	}
	switch source := p.Source.(type) {
	case domain.StoreCreditSource:
		m.SourceType = string(domain.MethodStoreCredit)
		m.SourceRef = source.CreditID
	case domain.CardSource:
		m.SourceType = string(domain.MethodCreditCard)
		m.SourceRef = source.IntentID
	}
	return m
}
