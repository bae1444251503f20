// internal/service/storecredit/application/dto.go
package application

import (
	"time"

	"github.com/shopspring/decimal"

	"creditcore/internal/service/storecredit/domain"
)

// CreateStoreCreditRequest 是管理端发放店铺信用的请求体
type CreateStoreCreditRequest struct {
	UserID     string          `json:"user_id"`
	CategoryID string          `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Memo       string          `json:"memo"`
	AdminID    string          `json:"admin_id"`
}

// UpdateStoreCreditRequest 是管理端编辑面值/分类/备注的请求体
type UpdateStoreCreditRequest struct {
	CreditID   string          `json:"credit_id"`
	CategoryID string          `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	Memo       string          `json:"memo"`
	AdminID    string          `json:"admin_id"`
}

// RedeemGiftCardRequest 是礼品卡兑换为店铺信用的请求体
type RedeemGiftCardRequest struct {
	UserID   string          `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Memo     string          `json:"memo"`
}

// StoreCreditView 是对外展示的店铺信用快照
type StoreCreditView struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	CategoryID      string          `json:"category_id"`
	Amount          decimal.Decimal `json:"amount"`
	AmountUsed      decimal.Decimal `json:"amount_used"`
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
	Currency        string          `json:"currency"`
	Memo            string          `json:"memo"`
	Invalidated     bool            `json:"invalidated"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EventView 是对外展示的审计事件
type EventView struct {
	ID                string          `json:"id"`
	Action            string          `json:"action"`
	Amount            decimal.Decimal `json:"amount"`
	UserTotalAmount   decimal.Decimal `json:"user_total_amount"`
	OriginatorType    string          `json:"originator_type"`
	OriginatorID      string          `json:"originator_id"`
	AuthorizationCode string          `json:"authorization_code,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

func toCreditView(c *domain.StoreCredit) *StoreCreditView {
	return &StoreCreditView{
		ID:              c.ID,
		UserID:          c.UserID,
		CategoryID:      c.CategoryID,
		Amount:          c.Amount,
		AmountUsed:      c.AmountUsed,
		AmountRemaining: c.AmountRemaining(),
		Currency:        c.Currency,
		Memo:            c.Memo,
		Invalidated:     c.Invalidated(),
		CreatedAt:       c.CreatedAt,
	}
}

func toEventView(e *domain.StoreCreditEvent) *EventView {
	return &EventView{
		ID:                e.ID,
		Action:            string(e.Action),
		Amount:            e.Amount,
		UserTotalAmount:   e.UserTotalAmount,
		OriginatorType:    string(e.Originator.Type),
		OriginatorID:      e.Originator.ID,
		AuthorizationCode: e.AuthorizationCode,
		CreatedAt:         e.CreatedAt,
	}
}
