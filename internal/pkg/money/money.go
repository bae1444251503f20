// internal/pkg/money/money.go
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money 将原始金额与币种组合为一个可展示的值对象。
// 核心的记账与分摊逻辑只操作 decimal + 币种代码，Money 仅供展示层包装使用。
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CNY": "¥",
	"JPY": "¥",
}

func New(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// String 输出用户可读的金额，例如 "$10.00" 或 "10.00 SEK"。
func (m Money) String() string {
	if sym, ok := symbols[m.Currency]; ok {
		if m.Amount.IsNegative() {
			return fmt.Sprintf("-%s%s", sym, m.Amount.Abs().StringFixed(2))
		}
		return fmt.Sprintf("%s%s", sym, m.Amount.StringFixed(2))
	}
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
