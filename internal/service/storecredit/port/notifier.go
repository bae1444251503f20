// internal/service/storecredit/port/notifier.go
package port

import (
	"context"

	"creditcore/internal/service/storecredit/domain"
)

// Notifier 是通知协作方的出站端口。
// 每笔礼品卡式信用发放成功后调用一次；发送失败只记录日志，绝不传播回发放事务。
type Notifier interface {
	// GiftCardFulfilled 通知用户礼品卡信用已到账。
	GiftCardFulfilled(ctx context.Context, credit *domain.StoreCredit) error
}
