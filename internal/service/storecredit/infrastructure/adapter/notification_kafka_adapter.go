// internal/service/storecredit/infrastructure/adapter/notification_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"creditcore/internal/pkg/money"
	"creditcore/internal/service/storecredit/domain"
)

// GiftCardNotificationEvent 定义了要发送到 Kafka 的消息结构
type GiftCardNotificationEvent struct {
	UserID   string `json:"userId"`
	CreditID string `json:"creditId"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Message  string `json:"message"`
}

// NotificationKafkaAdapter 实现了 port.Notifier 接口。
type NotificationKafkaAdapter struct {
	writer *kafka.Writer
}

// NewNotificationKafkaAdapter 创建一个新的通知生产者适配器。
func NewNotificationKafkaAdapter(writer *kafka.Writer) *NotificationKafkaAdapter {
	return &NotificationKafkaAdapter{writer: writer}
}

// GiftCardFulfilled 实现了礼品卡信用到账通知的发送逻辑。
func (a *NotificationKafkaAdapter) GiftCardFulfilled(ctx context.Context, credit *domain.StoreCredit) error {
	event := GiftCardNotificationEvent{
		UserID:   credit.UserID,
		CreditID: credit.ID,
		Amount:   credit.Amount.String(),
		Currency: credit.Currency,
		Message: fmt.Sprintf("A gift card of %s has been added to your store credit balance.",
			money.New(credit.Amount, credit.Currency)),
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal gift card notification event: %w", err)
	}

	return a.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(credit.UserID),
		Value: eventBytes,
	})
}

// Close 关闭底层的Kafka writer。
func (a *NotificationKafkaAdapter) Close() error {
	return a.writer.Close()
}
