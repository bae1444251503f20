// internal/service/order/infrastructure/models.go
package infrastructure

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderModel 是 Order 聚合在数据库中的表示。
type OrderModel struct {
	ID                 string          `gorm:"primaryKey;type:varchar(36)"`
	UserID             string          `gorm:"type:varchar(36);index"`
	State              string          `gorm:"type:varchar(16);index;not null"`
	Total              decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Currency           string          `gorm:"type:varchar(8);not null"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CreatedAt          time.Time       `gorm:"index"`
	UpdatedAt          time.Time

	Payments []PaymentModel `gorm:"foreignKey:OrderID"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// PaymentModel 是订单支付记录在数据库中的表示。
// 支付来源以 (source_type, source_ref) 两列持久化：店铺信用存信用 ID，卡支付存网关意图标识。
type PaymentModel struct {
	ID           string          `gorm:"primaryKey;type:varchar(36)"`
	OrderID      string          `gorm:"type:varchar(36);index;not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	State        string          `gorm:"type:varchar(16);index;not null"`
	SourceType   string          `gorm:"type:varchar(16);not null"`
	SourceRef    string          `gorm:"type:varchar(64);index"`
	ResponseCode string          `gorm:"type:varchar(36);index"`
	CreatedAt    time.Time
}

func (PaymentModel) TableName() string {
	return "order_payments"
}
