// internal/service/storecredit/domain/errors.go
package domain

import "errors"

// 校验类错误：转换被拒绝，实体不发生任何变化，错误文案直接面向用户展示。
var (
	ErrInsufficientFunds   = errors.New("store credit balance is insufficient for the requested amount")
	ErrCurrencyMismatch    = errors.New("currency does not match the store credit currency")
	ErrCurrencyCodeMissing = errors.New("currency code is missing")
	ErrInvalidCreditAmount = errors.New("credited amount must be positive and cannot exceed the amount used")

	// ErrAmountTooLow 的文案是对外契约：下游会检查 "greater than the credited amount" 子串。
	ErrAmountTooLow = errors.New("amount used cannot be greater than the credited amount")

	// ErrOutstandingAuthorization 的文案是对外契约：下游会检查 "uncaptured authorization" 子串。
	ErrOutstandingAuthorization = errors.New("store credit cannot be invalidated while there is an uncaptured authorization")
)

// 一致性类错误：说明上游存在程序缺陷或数据损坏，调用方应视为致命错误，不得静默处理。
var (
	ErrUnknownAuthorization = errors.New("unable to find an outstanding authorization for the given code")
	ErrNotFound             = errors.New("store credit not found")
)
