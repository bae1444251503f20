// internal/service/order/domain/errors.go
package domain

import "errors"

var (
	// ErrUnableToFund 表示分摊结束后待扣款支付合计仍覆盖不了订单总额。
	// 这是一个结构化的业务失败：订单停留在转换前的状态，等待用户补充支付方式。
	// 本次分摊已经产生的授权与支付记录保持原样（尽力而为、直接暴露缺口的策略）。
	ErrUnableToFund = errors.New("unable to fund the order total with the available store credit and payments")

	// ErrMultiplePaymentsFound 是致命的一致性错误：订单上出现了多笔有效的非店铺信用支付。
	ErrMultiplePaymentsFound = errors.New("found multiple non store credit payments and only expected one")

	// ErrUnexpectedPaymentSource 是致命的一致性错误：
	// 店铺信用只能与卡类支付做差额对账，不能与另一笔店铺信用对账。
	ErrUnexpectedPaymentSource = errors.New("found unexpected payment source: credit cards are the only other supported payment type")

	ErrOrderNotFound = errors.New("order not found")
)
