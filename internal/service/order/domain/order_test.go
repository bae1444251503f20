package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditcore/internal/service/order/domain"
)

func testOrder(state domain.State) *domain.Order {
	return &domain.Order{
		ID:                 "order-1",
		UserID:             "user-1",
		State:              state,
		Total:              decimal.RequireFromString("25.00"),
		Currency:           "USD",
		OutstandingBalance: decimal.RequireFromString("25.00"),
	}
}

func TestTotalApplicableStoreCredit(t *testing.T) {
	t.Parallel()

	t.Run("before confirmation estimates from the available balance", func(t *testing.T) {
		t.Parallel()
		order := testOrder(domain.StatePayment)

		// 余额超过订单合计时按合计封顶
		assert.True(t, order.TotalApplicableStoreCredit(decimal.NewFromInt(100)).Equal(decimal.NewFromInt(25)))
		// 余额不足时按余额
		assert.True(t, order.TotalApplicableStoreCredit(decimal.NewFromInt(10)).Equal(decimal.NewFromInt(10)))
	})

	t.Run("after confirmation sums the actual payments", func(t *testing.T) {
		t.Parallel()
		order := testOrder(domain.StateConfirm)
		order.AddPayment(domain.NewStoreCreditPayment("order-1", "credit-1", "auth-1", decimal.NewFromInt(10)))
		voided := domain.NewStoreCreditPayment("order-1", "credit-2", "auth-2", decimal.NewFromInt(7))
		voided.State = domain.PaymentVoid
		order.AddPayment(voided)

		// 用户余额不再影响结果，作废的支付不计入
		assert.True(t, order.TotalApplicableStoreCredit(decimal.NewFromInt(100)).Equal(decimal.NewFromInt(10)))
	})
}

func TestDerivedFigures(t *testing.T) {
	t.Parallel()

	order := testOrder(domain.StatePayment)
	available := decimal.NewFromInt(10)

	assert.True(t, order.TotalAfterStoreCredit(available).Equal(decimal.NewFromInt(15)))
	assert.True(t, order.RemainingAfterCapture(available).IsZero())
	assert.False(t, order.CoveredByStoreCredit(available))
	assert.True(t, order.CoveredByStoreCredit(decimal.NewFromInt(25)))
}

func TestExistingCardPayment(t *testing.T) {
	t.Parallel()

	t.Run("ignores invalid payments", func(t *testing.T) {
		t.Parallel()
		order := testOrder(domain.StatePayment)
		dead := &domain.Payment{ID: "p1", State: domain.PaymentInvalid, Source: domain.CardSource{IntentID: "pi_1"}}
		live := &domain.Payment{ID: "p2", State: domain.PaymentCheckout, Source: domain.CardSource{IntentID: "pi_2"}}
		order.AddPayment(dead)
		order.AddPayment(live)

		found, err := order.ExistingCardPayment()
		require.NoError(t, err)
		assert.Equal(t, "p2", found.ID)
	})

	t.Run("two live card payments is fatal", func(t *testing.T) {
		t.Parallel()
		order := testOrder(domain.StatePayment)
		order.AddPayment(&domain.Payment{ID: "p1", State: domain.PaymentCheckout, Source: domain.CardSource{IntentID: "pi_1"}})
		order.AddPayment(&domain.Payment{ID: "p2", State: domain.PaymentCheckout, Source: domain.CardSource{IntentID: "pi_2"}})

		_, err := order.ExistingCardPayment()
		assert.ErrorIs(t, err, domain.ErrMultiplePaymentsFound)
	})

	t.Run("none returns nil", func(t *testing.T) {
		t.Parallel()
		order := testOrder(domain.StatePayment)
		found, err := order.ExistingCardPayment()
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestPendingPayments(t *testing.T) {
	t.Parallel()

	order := testOrder(domain.StatePayment)
	order.AddPayment(&domain.Payment{ID: "p1", Amount: decimal.NewFromInt(5), State: domain.PaymentCheckout, Source: domain.CardSource{IntentID: "pi_1"}})
	order.AddPayment(&domain.Payment{ID: "p2", Amount: decimal.NewFromInt(10), State: domain.PaymentPending, Source: domain.StoreCreditSource{CreditID: "c1"}})
	order.AddPayment(&domain.Payment{ID: "p3", Amount: decimal.NewFromInt(99), State: domain.PaymentVoid, Source: domain.StoreCreditSource{CreditID: "c2"}})

	assert.Len(t, order.PendingPayments(), 2)
	assert.True(t, order.PendingTotal().Equal(decimal.NewFromInt(15)))
	// checkout 状态的店铺信用支付尚未授权，不计入已授权合计
	assert.True(t, order.AuthorizedStoreCreditTotal().Equal(decimal.NewFromInt(10)))
}
