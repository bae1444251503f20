// internal/service/storecredit/domain/store_credit.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreCredit 是店铺信用聚合的根实体：一笔可用作支付手段的预付余额。
// 余额只能通过 Authorize/Capture/Void/CreditBack 等状态转换变化，
// 任何时刻都满足 AmountUsed + AmountAuthorized <= Amount。
type StoreCredit struct {
	ID         string
	UserID     string
	CategoryID string
	CreatedBy  Actor

	Amount           decimal.Decimal // 面值
	AmountUsed       decimal.Decimal // 累计已扣款金额
	AmountAuthorized decimal.Decimal // 当前被预授权占用、尚未扣款的金额
	Currency         string
	Memo             string

	// Authorizations 是所有未完结的预授权。扣款或撤销会消耗对应的记录。
	Authorizations []Authorization

	InvalidatedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Authorization 是余额上的一笔临时占用，通过授权码与后续的扣款/撤销关联。
type Authorization struct {
	Code      string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// NewStoreCredit 创建一笔新的店铺信用。
func NewStoreCredit(userID, categoryID, currency, memo string, amount decimal.Decimal, createdBy Actor) (*StoreCredit, error) {
	if currency == "" {
		return nil, ErrCurrencyCodeMissing
	}
	if amount.IsNegative() {
		return nil, ErrInvalidCreditAmount
	}
	now := time.Now()
	return &StoreCredit{
		ID:               uuid.New().String(),
		UserID:           userID,
		CategoryID:       categoryID,
		CreatedBy:        createdBy,
		Amount:           amount,
		AmountUsed:       decimal.Zero,
		AmountAuthorized: decimal.Zero,
		Currency:         currency,
		Memo:             memo,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// AmountRemaining 返回当前还可以被授权占用的余额。已作废的信用余额视为零。
func (c *StoreCredit) AmountRemaining() decimal.Decimal {
	if c.Invalidated() {
		return decimal.Zero
	}
	return c.Amount.Sub(c.AmountUsed).Sub(c.AmountAuthorized)
}

// Invalidated 判断该信用是否已被软作废。
func (c *StoreCredit) Invalidated() bool {
	return c.InvalidatedAt != nil
}

// Authorize 在余额上建立一笔预授权占用，返回用于后续扣款/撤销的授权码。
// 币种不一致或余额不足时拒绝，实体不发生变化。
func (c *StoreCredit) Authorize(amount decimal.Decimal, currency string) (string, error) {
	if currency == "" {
		return "", ErrCurrencyCodeMissing
	}
	if currency != c.Currency {
		return "", ErrCurrencyMismatch
	}
	if amount.GreaterThan(c.AmountRemaining()) {
		return "", ErrInsufficientFunds
	}

	code := uuid.New().String()
	c.Authorizations = append(c.Authorizations, Authorization{
		Code:      code,
		Amount:    amount,
		CreatedAt: time.Now(),
	})
	c.AmountAuthorized = c.AmountAuthorized.Add(amount)
	c.UpdatedAt = time.Now()
	return code, nil
}

// Capture 将一笔预授权中的 amount 从占用转为已扣款。
// 部分扣款时剩余部分继续以同一授权码占用；扣完后该授权自动消失。
func (c *StoreCredit) Capture(code string, amount decimal.Decimal) error {
	idx := c.findAuthorization(code)
	if idx < 0 {
		return ErrUnknownAuthorization
	}
	auth := &c.Authorizations[idx]
	if amount.GreaterThan(auth.Amount) {
		return ErrInsufficientFunds
	}

	auth.Amount = auth.Amount.Sub(amount)
	if auth.Amount.IsZero() {
		c.removeAuthorization(idx)
	}
	c.AmountAuthorized = c.AmountAuthorized.Sub(amount)
	c.AmountUsed = c.AmountUsed.Add(amount)
	c.UpdatedAt = time.Now()
	return nil
}

// Void 整笔释放一笔预授权，余额回到可用状态。
// 对同一授权码的第二次 Void 会因找不到占用而失败。
func (c *StoreCredit) Void(code string) (decimal.Decimal, error) {
	idx := c.findAuthorization(code)
	if idx < 0 {
		return decimal.Zero, ErrUnknownAuthorization
	}
	released := c.Authorizations[idx].Amount
	c.removeAuthorization(idx)
	c.AmountAuthorized = c.AmountAuthorized.Sub(released)
	c.UpdatedAt = time.Now()
	return released, nil
}

// CreditBack 用于退款：把已扣款金额退回余额。退款金额不能超过已扣款总额，余额永不为负。
func (c *StoreCredit) CreditBack(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(c.AmountUsed) {
		return ErrInvalidCreditAmount
	}
	c.AmountUsed = c.AmountUsed.Sub(amount)
	c.UpdatedAt = time.Now()
	return nil
}

// Invalidate 软作废该信用。存在未扣款的预授权时拒绝。
func (c *StoreCredit) Invalidate() error {
	if c.AmountAuthorized.IsPositive() {
		return ErrOutstandingAuthorization
	}
	now := time.Now()
	c.InvalidatedAt = &now
	c.UpdatedAt = now
	return nil
}

// Edit 是管理端对面值、分类与备注的修改入口。
// 面值不能低于已扣款金额：拒绝而不是悄悄截断。
func (c *StoreCredit) Edit(amount decimal.Decimal, categoryID, memo string) error {
	if amount.LessThan(c.AmountUsed) {
		return ErrAmountTooLow
	}
	if amount.IsNegative() {
		return ErrInvalidCreditAmount
	}
	c.Amount = amount
	c.CategoryID = categoryID
	c.Memo = memo
	c.UpdatedAt = time.Now()
	return nil
}

func (c *StoreCredit) findAuthorization(code string) int {
	for i := range c.Authorizations {
		if c.Authorizations[i].Code == code {
			return i
		}
	}
	return -1
}

func (c *StoreCredit) removeAuthorization(idx int) {
	c.Authorizations = append(c.Authorizations[:idx], c.Authorizations[idx+1:]...)
}
