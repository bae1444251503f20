package domain_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditcore/internal/service/storecredit/domain"
)

func newCredit(t *testing.T, amount string) *domain.StoreCredit {
	t.Helper()
	credit, err := domain.NewStoreCredit("user-1", "cat-1", "USD", "welcome", decimal.RequireFromString(amount), domain.AdminActor("admin-1"))
	require.NoError(t, err)
	return credit
}

func TestNewStoreCredit(t *testing.T) {
	t.Parallel()

	t.Run("refuses missing currency", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewStoreCredit("user-1", "cat-1", "", "", decimal.NewFromInt(10), domain.AdminActor("admin-1"))
		assert.ErrorIs(t, err, domain.ErrCurrencyCodeMissing)
	})

	t.Run("refuses negative amount", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewStoreCredit("user-1", "cat-1", "USD", "", decimal.NewFromInt(-1), domain.AdminActor("admin-1"))
		assert.ErrorIs(t, err, domain.ErrInvalidCreditAmount)
	})

	t.Run("starts fully available", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		assert.True(t, credit.AmountRemaining().Equal(decimal.RequireFromString("25.00")))
		assert.True(t, credit.AmountUsed.IsZero())
		assert.True(t, credit.AmountAuthorized.IsZero())
	})
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	t.Run("moves balance into authorized", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		code, err := credit.Authorize(decimal.NewFromInt(10), "USD")
		require.NoError(t, err)
		assert.NotEmpty(t, code)
		assert.True(t, credit.AmountAuthorized.Equal(decimal.NewFromInt(10)))
		assert.True(t, credit.AmountRemaining().Equal(decimal.NewFromInt(15)))
	})

	t.Run("refuses over remaining balance", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		_, err := credit.Authorize(decimal.NewFromInt(20), "USD")
		require.NoError(t, err)

		_, err = credit.Authorize(decimal.NewFromInt(10), "USD")
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		// 被拒绝的转换不改变实体
		assert.True(t, credit.AmountAuthorized.Equal(decimal.NewFromInt(20)))
	})

	t.Run("refuses currency mismatch", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		_, err := credit.Authorize(decimal.NewFromInt(5), "EUR")
		assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
	})

	t.Run("refuses missing currency", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		_, err := credit.Authorize(decimal.NewFromInt(5), "")
		assert.ErrorIs(t, err, domain.ErrCurrencyCodeMissing)
	})
}

func TestCapture(t *testing.T) {
	t.Parallel()

	t.Run("moves authorized into used", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		code, err := credit.Authorize(decimal.NewFromInt(10), "USD")
		require.NoError(t, err)

		require.NoError(t, credit.Capture(code, decimal.NewFromInt(10)))
		assert.True(t, credit.AmountUsed.Equal(decimal.NewFromInt(10)))
		assert.True(t, credit.AmountAuthorized.IsZero())
		assert.Empty(t, credit.Authorizations)
	})

	t.Run("partial capture keeps the remainder authorized", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		code, err := credit.Authorize(decimal.NewFromInt(10), "USD")
		require.NoError(t, err)

		require.NoError(t, credit.Capture(code, decimal.NewFromInt(4)))
		assert.True(t, credit.AmountUsed.Equal(decimal.NewFromInt(4)))
		assert.True(t, credit.AmountAuthorized.Equal(decimal.NewFromInt(6)))

		// 剩余部分仍可通过同一授权码扣款
		require.NoError(t, credit.Capture(code, decimal.NewFromInt(6)))
		assert.True(t, credit.AmountUsed.Equal(decimal.NewFromInt(10)))
		assert.Empty(t, credit.Authorizations)
	})

	t.Run("refuses unknown code", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		err := credit.Capture("no-such-code", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, domain.ErrUnknownAuthorization)
	})

	t.Run("refuses amount over the authorization", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		code, err := credit.Authorize(decimal.NewFromInt(10), "USD")
		require.NoError(t, err)
		assert.ErrorIs(t, credit.Capture(code, decimal.NewFromInt(11)), domain.ErrInsufficientFunds)
	})
}

func TestVoid(t *testing.T) {
	t.Parallel()

	t.Run("releases the whole hold", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		code, err := credit.Authorize(decimal.NewFromInt(10), "USD")
		require.NoError(t, err)

		released, err := credit.Void(code)
		require.NoError(t, err)
		assert.True(t, released.Equal(decimal.NewFromInt(10)))
		assert.True(t, credit.AmountRemaining().Equal(decimal.NewFromInt(25)))
	})

	t.Run("second void of the same code fails", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		code, err := credit.Authorize(decimal.NewFromInt(10), "USD")
		require.NoError(t, err)

		_, err = credit.Void(code)
		require.NoError(t, err)
		_, err = credit.Void(code)
		assert.ErrorIs(t, err, domain.ErrUnknownAuthorization)
	})

	t.Run("captured authorization cannot be voided", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		code, err := credit.Authorize(decimal.NewFromInt(10), "USD")
		require.NoError(t, err)
		require.NoError(t, credit.Capture(code, decimal.NewFromInt(10)))

		_, err = credit.Void(code)
		assert.ErrorIs(t, err, domain.ErrUnknownAuthorization)
	})
}

func TestCreditBack(t *testing.T) {
	t.Parallel()

	t.Run("returns used amount to the balance", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		code, err := credit.Authorize(decimal.NewFromInt(10), "USD")
		require.NoError(t, err)
		require.NoError(t, credit.Capture(code, decimal.NewFromInt(10)))

		require.NoError(t, credit.CreditBack(decimal.NewFromInt(10)))
		assert.True(t, credit.AmountUsed.IsZero())
		assert.True(t, credit.AmountRemaining().Equal(decimal.NewFromInt(25)))
	})

	t.Run("refuses more than the used amount", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		code, err := credit.Authorize(decimal.NewFromInt(5), "USD")
		require.NoError(t, err)
		require.NoError(t, credit.Capture(code, decimal.NewFromInt(5)))

		assert.ErrorIs(t, credit.CreditBack(decimal.NewFromInt(6)), domain.ErrInvalidCreditAmount)
	})

	t.Run("refuses non positive amounts", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		assert.ErrorIs(t, credit.CreditBack(decimal.Zero), domain.ErrInvalidCreditAmount)
	})
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	t.Run("zeroes the remaining balance", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		require.NoError(t, credit.Invalidate())
		assert.True(t, credit.Invalidated())
		assert.True(t, credit.AmountRemaining().IsZero())
	})

	t.Run("refuses while an authorization is outstanding", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		_, err := credit.Authorize(decimal.NewFromInt(10), "USD")
		require.NoError(t, err)

		err = credit.Invalidate()
		assert.ErrorIs(t, err, domain.ErrOutstandingAuthorization)
		assert.True(t, strings.Contains(err.Error(), "uncaptured authorization"))
		assert.False(t, credit.Invalidated())
	})

	t.Run("allowed after the hold is voided", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		code, err := credit.Authorize(decimal.NewFromInt(10), "USD")
		require.NoError(t, err)
		_, err = credit.Void(code)
		require.NoError(t, err)

		assert.NoError(t, credit.Invalidate())
	})
}

func TestEdit(t *testing.T) {
	t.Parallel()

	t.Run("refuses amount below the used total", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		code, err := credit.Authorize(decimal.NewFromInt(10), "USD")
		require.NoError(t, err)
		require.NoError(t, credit.Capture(code, decimal.NewFromInt(10)))

		err = credit.Edit(decimal.NewFromInt(5), "cat-1", "")
		assert.ErrorIs(t, err, domain.ErrAmountTooLow)
		assert.True(t, strings.Contains(err.Error(), "greater than the credited amount"))
		assert.True(t, credit.Amount.Equal(decimal.RequireFromString("25.00")))
	})

	t.Run("updates amount, category and memo", func(t *testing.T) {
		t.Parallel()
		credit := newCredit(t, "25.00")
		require.NoError(t, credit.Edit(decimal.NewFromInt(40), "cat-2", "topped up"))
		assert.True(t, credit.Amount.Equal(decimal.NewFromInt(40)))
		assert.Equal(t, "cat-2", credit.CategoryID)
		assert.Equal(t, "topped up", credit.Memo)
	})
}

func TestEventExposure(t *testing.T) {
	t.Parallel()

	exposed := map[domain.EventAction]bool{
		domain.ActionAllocate:   true,
		domain.ActionAuthorize:  false,
		domain.ActionCapture:    true,
		domain.ActionVoid:       true,
		domain.ActionCredit:     true,
		domain.ActionEligible:   false,
		domain.ActionAdjustment: true,
	}
	for action, want := range exposed {
		event := domain.NewEvent("credit-1", action, decimal.NewFromInt(1), decimal.NewFromInt(1), domain.SystemActor(), "")
		assert.Equal(t, want, event.Exposed(), "action %s", action)
	}
}
