// internal/service/storecredit/infrastructure/adapter/notification_mail_adapter.go
package adapter

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"creditcore/internal/pkg/money"
	"creditcore/internal/service/storecredit/domain"
)

// SMTPConfig 描述了邮件通道所需的连接参数。
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// UserEmailLookup 根据用户 ID 解析收件地址。用户资料属于外部系统，这里只依赖一个查询函数。
type UserEmailLookup func(ctx context.Context, userID string) (string, error)

// NotificationMailAdapter 是 port.Notifier 的 SMTP 实现，用于直接给用户发送礼品卡到账邮件。
// 与 Kafka 适配器二选一，由组装根按配置决定。
type NotificationMailAdapter struct {
	cfg    SMTPConfig
	lookup UserEmailLookup
}

func NewNotificationMailAdapter(cfg SMTPConfig, lookup UserEmailLookup) *NotificationMailAdapter {
	return &NotificationMailAdapter{cfg: cfg, lookup: lookup}
}

// GiftCardFulfilled 组装并发送到账邮件。
func (a *NotificationMailAdapter) GiftCardFulfilled(ctx context.Context, credit *domain.StoreCredit) error {
	to, err := a.lookup(ctx, credit.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient for user %s: %w", credit.UserID, err)
	}

	msg := mail.NewMsg()
	if err := msg.From(a.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	display := money.New(credit.Amount, credit.Currency)
	msg.Subject("Your gift card has been added to your store credit")
	msg.SetBodyString(mail.TypeTextHTML, fmt.Sprintf(
		"<p>Good news! A gift card of <strong>%s</strong> is now available as store credit on your account.</p>"+
			"<p>It will be applied automatically the next time you check out.</p>", display))

	client, err := mail.NewClient(a.cfg.Host,
		mail.WithPort(a.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(a.cfg.Username),
		mail.WithPassword(a.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}
	return client.DialAndSend(msg)
}
