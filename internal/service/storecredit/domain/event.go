// internal/service/storecredit/domain/event.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventAction 标识一次余额变更的类型。
type EventAction string

const (
	ActionAllocate   EventAction = "allocate"   // 初始发放（管理员创建或礼品卡兑换）
	ActionAuthorize  EventAction = "authorize"  // 预授权占用
	ActionCapture    EventAction = "capture"    // 扣款
	ActionVoid       EventAction = "void"       // 预授权释放
	ActionCredit     EventAction = "credit"     // 退款回充
	ActionEligible   EventAction = "eligible"   // 内部记账动作
	ActionAdjustment EventAction = "adjustment" // 管理端面值调整
)

// internalActions 是默认不对用户展示的内部记账动作。
var internalActions = map[EventAction]bool{
	ActionEligible:  true,
	ActionAuthorize: true,
}

// StoreCreditEvent 是店铺信用的审计日志：每一次影响余额的动作都会追加一条，创建后永不修改。
// "删除" 仅通过 Deleted 标记实现，查询层负责过滤，完整历史始终保留。
type StoreCreditEvent struct {
	ID            string
	StoreCreditID string
	Action        EventAction
	Amount        decimal.Decimal
	// UserTotalAmount 是本事件生效后，该用户所有店铺信用剩余余额的快照，用于审计展示。
	UserTotalAmount   decimal.Decimal
	Originator        Actor
	AuthorizationCode string
	Deleted           bool
	CreatedAt         time.Time
}

// NewEvent 构造一条新的审计事件。
func NewEvent(creditID string, action EventAction, amount, userTotal decimal.Decimal, originator Actor, authCode string) *StoreCreditEvent {
	return &StoreCreditEvent{
		ID:                uuid.New().String(),
		StoreCreditID:     creditID,
		Action:            action,
		Amount:            amount,
		UserTotalAmount:   userTotal,
		Originator:        originator,
		AuthorizationCode: authCode,
		CreatedAt:         time.Now(),
	}
}

// Exposed 判断事件是否属于对用户可见的动作。
func (e *StoreCreditEvent) Exposed() bool {
	return !internalActions[e.Action]
}
