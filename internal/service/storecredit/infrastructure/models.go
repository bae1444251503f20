// internal/service/storecredit/infrastructure/models.go
package infrastructure

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreCreditModel 是 StoreCredit 领域对象在数据库中的表示。
type StoreCreditModel struct {
	ID               string          `gorm:"primaryKey;type:varchar(36)"`
	UserID           string          `gorm:"type:varchar(36);index"`
	CategoryID       string          `gorm:"type:varchar(36)"`
	CreatedByType    string          `gorm:"type:varchar(16)"`
	CreatedByID      string          `gorm:"type:varchar(36)"`
	Amount           decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	AmountUsed       decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	AmountAuthorized decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Currency         string          `gorm:"type:varchar(8);not null"`
	Memo             string          `gorm:"type:varchar(512)"`
	InvalidatedAt    *time.Time      `gorm:"index"`
	CreatedAt        time.Time       `gorm:"index"`
	UpdatedAt        time.Time

	Authorizations []AuthorizationModel `gorm:"foreignKey:StoreCreditID"`
}

func (StoreCreditModel) TableName() string {
	return "store_credits"
}

// AuthorizationModel 持久化一笔未完结的预授权占用。
type AuthorizationModel struct {
	Code          string          `gorm:"primaryKey;type:varchar(36)"`
	StoreCreditID string          `gorm:"type:varchar(36);index;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CreatedAt     time.Time
}

func (AuthorizationModel) TableName() string {
	return "store_credit_authorizations"
}

// StoreCreditEventModel 是审计事件在数据库中的表示。只插入，不更新。
type StoreCreditEventModel struct {
	ID                string          `gorm:"primaryKey;type:varchar(36)"`
	StoreCreditID     string          `gorm:"type:varchar(36);index;not null"`
	Action            string          `gorm:"type:varchar(16);index;not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	UserTotalAmount   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	OriginatorType    string          `gorm:"type:varchar(16)"`
	OriginatorID      string          `gorm:"type:varchar(36)"`
	AuthorizationCode string          `gorm:"type:varchar(36);index"`
	Deleted           bool            `gorm:"not null;default:false"`
	CreatedAt         time.Time       `gorm:"index"`
}

func (StoreCreditEventModel) TableName() string {
	return "store_credit_events"
}
