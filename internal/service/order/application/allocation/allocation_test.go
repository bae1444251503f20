package allocation_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"creditcore/internal/service/order/application/allocation"
	"creditcore/internal/service/order/domain"
	"creditcore/internal/service/order/domain/port"
)

// fakeCreditService 模拟店铺信用端口：固定的信用列表，授权即扣减本地快照。
type fakeCreditService struct {
	credits    []port.CreditView
	authorized []authCall
}

type authCall struct {
	creditID string
	amount   decimal.Decimal
}

func (f *fakeCreditService) CreditsByUser(_ context.Context, _ string) ([]port.CreditView, error) {
	return f.credits, nil
}

func (f *fakeCreditService) Authorize(_ context.Context, creditID string, amount decimal.Decimal, _ string) (string, error) {
	for i := range f.credits {
		if f.credits[i].ID == creditID {
			f.credits[i].AmountRemaining = f.credits[i].AmountRemaining.Sub(amount)
		}
	}
	f.authorized = append(f.authorized, authCall{creditID: creditID, amount: amount})
	return fmt.Sprintf("auth-%d", len(f.authorized)), nil
}

func (f *fakeCreditService) Capture(_ context.Context, _, _ string, _ decimal.Decimal) error {
	return nil
}

func (f *fakeCreditService) Void(_ context.Context, _, _ string) error { return nil }

func (f *fakeCreditService) TotalAvailable(_ context.Context, _ string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, c := range f.credits {
		total = total.Add(c.AmountRemaining)
	}
	return total, nil
}

func newOrder(total string) *domain.Order {
	return &domain.Order{
		ID:                 "order-1",
		UserID:             "user-1",
		State:              domain.StatePayment,
		Total:              decimal.RequireFromString(total),
		Currency:           "USD",
		OutstandingBalance: decimal.RequireFromString(total),
	}
}

func cardPayment(amount string) *domain.Payment {
	return &domain.Payment{
		ID:      "payment-card",
		OrderID: "order-1",
		Amount:  decimal.RequireFromString(amount),
		State:   domain.PaymentCheckout,
		Source:  domain.CardSource{IntentID: "pi_123"},
	}
}

func allocate(t *testing.T, credits *fakeCreditService, order *domain.Order) error {
	t.Helper()
	strategy := allocation.NewStoreCreditAllocation(credits, noop.NewTracerProvider().Tracer("test"))
	return strategy.Allocate(context.Background(), order)
}

func TestAllocatePartialCoverage(t *testing.T) {
	t.Parallel()

	// 10 的信用 + 25 的订单：卡支付被压缩到 15
	credits := &fakeCreditService{credits: []port.CreditView{
		{ID: "credit-1", AmountRemaining: decimal.NewFromInt(10), Currency: "USD"},
	}}
	order := newOrder("25.00")
	order.AddPayment(cardPayment("25.00"))

	require.NoError(t, allocate(t, credits, order))

	scPayments := order.StoreCreditPayments()
	require.Len(t, scPayments, 1)
	assert.True(t, scPayments[0].Amount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, domain.PaymentPending, scPayments[0].State)

	card, err := order.ExistingCardPayment()
	require.NoError(t, err)
	assert.True(t, card.Amount.Equal(decimal.NewFromInt(15)))
}

func TestAllocateNoCredits(t *testing.T) {
	t.Parallel()

	credits := &fakeCreditService{}
	order := newOrder("25.00")
	order.AddPayment(cardPayment("25.00"))

	require.NoError(t, allocate(t, credits, order))

	assert.Empty(t, order.StoreCreditPayments())
	card, err := order.ExistingCardPayment()
	require.NoError(t, err)
	assert.True(t, card.Amount.Equal(decimal.NewFromInt(25)))
}

func TestAllocateFullCoverageInvalidatesCard(t *testing.T) {
	t.Parallel()

	credits := &fakeCreditService{credits: []port.CreditView{
		{ID: "credit-1", AmountRemaining: decimal.NewFromInt(30), Currency: "USD"},
	}}
	order := newOrder("25.00")
	card := cardPayment("25.00")
	order.AddPayment(card)

	require.NoError(t, allocate(t, credits, order))

	scPayments := order.StoreCreditPayments()
	require.Len(t, scPayments, 1)
	assert.True(t, scPayments[0].Amount.Equal(decimal.NewFromInt(25)))
	// 差额为零：整笔卡支付作废而不是改成零金额
	assert.Equal(t, domain.PaymentInvalid, card.State)
}

func TestAllocateConsumesCreditsInPriorityOrder(t *testing.T) {
	t.Parallel()

	credits := &fakeCreditService{credits: []port.CreditView{
		{ID: "credit-old", AmountRemaining: decimal.NewFromInt(10), Currency: "USD"},
		{ID: "credit-new", AmountRemaining: decimal.NewFromInt(10), Currency: "USD"},
	}}
	order := newOrder("15.00")
	order.AddPayment(cardPayment("15.00"))

	require.NoError(t, allocate(t, credits, order))

	require.Len(t, credits.authorized, 2)
	assert.Equal(t, "credit-old", credits.authorized[0].creditID)
	assert.True(t, credits.authorized[0].amount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "credit-new", credits.authorized[1].creditID)
	assert.True(t, credits.authorized[1].amount.Equal(decimal.NewFromInt(5)))
}

func TestAllocateSkipsMismatchedCurrency(t *testing.T) {
	t.Parallel()

	credits := &fakeCreditService{credits: []port.CreditView{
		{ID: "credit-eur", AmountRemaining: decimal.NewFromInt(10), Currency: "EUR"},
		{ID: "credit-usd", AmountRemaining: decimal.NewFromInt(10), Currency: "USD"},
	}}
	order := newOrder("10.00")
	order.AddPayment(cardPayment("10.00"))

	require.NoError(t, allocate(t, credits, order))

	require.Len(t, credits.authorized, 1)
	assert.Equal(t, "credit-usd", credits.authorized[0].creditID)
}

func TestAllocateShortfallKeepsSideEffects(t *testing.T) {
	t.Parallel()

	// 只有 10 的信用、没有卡支付：资金缺口，但授权与支付记录保留
	credits := &fakeCreditService{credits: []port.CreditView{
		{ID: "credit-1", AmountRemaining: decimal.NewFromInt(10), Currency: "USD"},
	}}
	order := newOrder("25.00")

	err := allocate(t, credits, order)
	assert.ErrorIs(t, err, domain.ErrUnableToFund)

	require.Len(t, order.StoreCreditPayments(), 1)
	assert.True(t, order.StoreCreditPayments()[0].Amount.Equal(decimal.NewFromInt(10)))
	assert.Len(t, credits.authorized, 1)
}

func TestAllocateInvalidatesStaleCheckoutPayments(t *testing.T) {
	t.Parallel()

	credits := &fakeCreditService{credits: []port.CreditView{
		{ID: "credit-1", AmountRemaining: decimal.NewFromInt(25), Currency: "USD"},
	}}
	order := newOrder("25.00")
	stale := &domain.Payment{
		ID:      "payment-stale",
		OrderID: "order-1",
		Amount:  decimal.NewFromInt(5),
		State:   domain.PaymentCheckout,
		Source:  domain.StoreCreditSource{CreditID: "credit-1"},
	}
	order.AddPayment(stale)

	require.NoError(t, allocate(t, credits, order))

	assert.Equal(t, domain.PaymentInvalid, stale.State)
	// 新的分摊覆盖全额，不受遗留支付影响
	assert.True(t, order.PendingTotal().Equal(decimal.NewFromInt(25)))
}

func TestAllocateReusesPriorAuthorization(t *testing.T) {
	t.Parallel()

	// 上一轮已授权 10（pending）：本轮只需要再授权 15
	credits := &fakeCreditService{credits: []port.CreditView{
		{ID: "credit-2", AmountRemaining: decimal.NewFromInt(20), Currency: "USD"},
	}}
	order := newOrder("25.00")
	order.AddPayment(&domain.Payment{
		ID:           "payment-prior",
		OrderID:      "order-1",
		Amount:       decimal.NewFromInt(10),
		State:        domain.PaymentPending,
		Source:       domain.StoreCreditSource{CreditID: "credit-1"},
		ResponseCode: "auth-prior",
	})

	require.NoError(t, allocate(t, credits, order))

	require.Len(t, credits.authorized, 1)
	assert.True(t, credits.authorized[0].amount.Equal(decimal.NewFromInt(15)))
	assert.True(t, order.PendingTotal().Equal(decimal.NewFromInt(25)))
}

func TestAllocateMultipleCardPaymentsIsFatal(t *testing.T) {
	t.Parallel()

	credits := &fakeCreditService{credits: []port.CreditView{
		{ID: "credit-1", AmountRemaining: decimal.NewFromInt(10), Currency: "USD"},
	}}
	order := newOrder("25.00")
	first := cardPayment("25.00")
	second := cardPayment("25.00")
	second.ID = "payment-card-2"
	order.AddPayment(first)
	order.AddPayment(second)

	err := allocate(t, credits, order)
	assert.ErrorIs(t, err, domain.ErrMultiplePaymentsFound)
}
